package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/infra/portalapi"
	"github.com/sihhealth/healthbot/internal/ports"
)

// ServerNotResponding is the bot line shown when the assistant cannot be reached.
const ServerNotResponding = "⚠️ Server not responding"

// Chat is one conversation with the health assistant. Messages are sent
// through a ports.Requester so a logged-in user's bearer token is attached
// and refreshed as needed.
type Chat struct {
	requester ports.Requester
	log       *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	lang     domain.Language
	messages []domain.ChatMessage
}

type ChatOption func(*Chat)

func WithChatLogger(log *slog.Logger) ChatOption {
	return func(c *Chat) { c.log = log }
}

func WithChatClock(now func() time.Time) ChatOption {
	return func(c *Chat) { c.now = now }
}

func NewChat(requester ports.Requester, lang domain.Language, opts ...ChatOption) *Chat {
	c := &Chat{
		requester: requester,
		lang:      lang,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return c
}

func (c *Chat) Language() domain.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

func (c *Chat) SetLanguage(lang domain.Language) {
	c.mu.Lock()
	c.lang = lang
	c.mu.Unlock()
}

// Messages returns a copy of the conversation so far.
func (c *Chat) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Send appends text as a user message, asks the assistant, and appends its
// reply. Blank text is a *domain.ValidationError and leaves the conversation
// unchanged. A transport failure appends ServerNotResponding and returns the
// error. An auth failure is returned without a bot line.
func (c *Chat) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	lang := c.Language()
	if err := ValidateChat(text, lang); err != nil {
		return domain.ChatMessage{}, err
	}

	c.append(domain.SenderUser, text, false)

	resp, err := c.requester.Do(ctx, portalapi.ChatRequest(strings.TrimSpace(text), lang))
	if err != nil {
		if domain.IsKind(err, domain.KindTransport) {
			c.log.Warn("chat.send.unreachable", "err", err)
			return c.append(domain.SenderBot, ServerNotResponding, true), err
		}
		c.log.Info("chat.send.failed", "err", err)
		return domain.ChatMessage{}, err
	}

	reply, err := portalapi.DecodeChat(resp)
	if err != nil {
		c.log.Info("chat.send.failed", "status", resp.StatusCode, "err", err)
		return domain.ChatMessage{}, err
	}

	c.log.Debug("chat.send.ok", "latency_ms", resp.LatencyMS)
	return c.append(domain.SenderBot, reply.Bot, false), nil
}

// Reset drops the conversation.
func (c *Chat) Reset() {
	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
}

func (c *Chat) append(sender domain.Sender, text string, failed bool) domain.ChatMessage {
	msg := domain.ChatMessage{
		ID:     uuid.NewString(),
		Sender: sender,
		Text:   text,
		SentAt: c.now(),
		Failed: failed,
	}
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	return msg
}
