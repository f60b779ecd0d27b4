package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/ui/tui"
	"github.com/sihhealth/healthbot/internal/usecase"
)

func chatCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the health assistant (interactive when no message is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			chat := usecase.NewChat(app.sessions, app.cfg.Chat.Language, usecase.WithChatLogger(app.log))
			w := cmd.OutOrStdout()

			if len(args) > 0 {
				reply, err := chat.Send(cmd.Context(), strings.Join(args, " "))
				if reply.Text != "" && !reply.Failed {
					fmt.Fprintln(w, reply.Text)
				}
				return err
			}

			return chatREPL(cmd.Context(), chat, cmd.InOrStdin(), w)
		},
	}
}

// chatREPL reads one message per line until EOF or /quit. Errors are
// printed and the loop continues; "/lang en|hi" switches language.
func chatREPL(ctx context.Context, chat *usecase.Chat, in io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(in)
	fmt.Fprintln(w, "🤖 Welcome! Ask me anything about health. (/lang en|hi, /quit)")

	for {
		fmt.Fprint(w, "> ")
		if !sc.Scan() {
			fmt.Fprintln(w)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())

		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case strings.HasPrefix(line, "/lang"):
			lang, ok := domain.ParseLanguage(strings.TrimSpace(strings.TrimPrefix(line, "/lang")))
			if !ok {
				fmt.Fprintln(w, "usage: /lang en|hi")
				continue
			}
			chat.SetLanguage(lang)
			fmt.Fprintf(w, "language: %s\n", lang)
			continue
		}

		reply, err := chat.Send(ctx, line)
		switch {
		case reply.Text != "":
			fmt.Fprintln(w, reply.Text)
		case err != nil:
			fmt.Fprintln(w, tui.UserMessage(err, chat.Language()))
		}
	}
}
