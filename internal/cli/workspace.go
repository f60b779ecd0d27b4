package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sihhealth/healthbot/internal/domain"
	"github.com/sihhealth/healthbot/internal/infra/httpclient"
	"github.com/sihhealth/healthbot/internal/infra/logger"
	"github.com/sihhealth/healthbot/internal/infra/portalapi"
	"github.com/sihhealth/healthbot/internal/infra/tokenstore"
	"github.com/sihhealth/healthbot/internal/infra/workspacefinder"
	"github.com/sihhealth/healthbot/internal/ports"
	"github.com/sihhealth/healthbot/internal/session"
)

// appCtx is everything a command needs once the workspace is resolved.
type appCtx struct {
	root string
	cfg  domain.Config
	log  *slog.Logger

	api      *portalapi.Client
	store    ports.TokenStore
	sessions *session.Manager

	cleanup func() error
}

func (a *appCtx) Close() {
	if a.cleanup != nil {
		_ = a.cleanup()
	}
}

func openApp(opts *globalOptions) (*appCtx, error) {
	root, err := resolveWorkspaceRoot(opts.workspace)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(root, opts)
	if err != nil {
		return nil, err
	}

	cleanup, logErr := logger.Setup(logger.Config{
		Root:  root,
		Debug: cfg.Logging.Debug,
		API:   cfg.API.BaseURL,
	})
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: logging disabled: %v\n", logErr)
	}
	log := logger.L()

	exec := httpclient.NewExecutor(
		httpclient.WithClient(httpclient.New(httpclient.ConfigFor(cfg.API))),
		httpclient.WithTimeout(cfg.API.Timeout),
		httpclient.WithLogger(log),
	)
	api := portalapi.New(cfg.API.BaseURL,
		portalapi.WithExecutor(exec),
		portalapi.WithLogger(log),
	)

	var store ports.TokenStore
	if opts.noPersist {
		store = tokenstore.NewMemoryStore(domain.Session{})
	} else {
		store = tokenstore.NewJSONStore(workspacefinder.SessionPath(root, cfg))
	}

	sessions := session.New(api, api, store, session.WithLogger(log))
	if err := sessions.Restore(); err != nil {
		// An unreadable session file means starting anonymous, not failing.
		fmt.Fprintf(os.Stderr, "warning: saved session ignored: %v\n", err)
	}

	log.Info("app.open",
		"workspace", root,
		"lang", string(cfg.Chat.Language),
		"state", string(sessions.State()),
	)

	return &appCtx{
		root:     root,
		cfg:      cfg,
		log:      log,
		api:      api,
		store:    store,
		sessions: sessions,
		cleanup:  cleanup,
	}, nil
}

// loadConfig layers healthbot.yaml < HEALTHBOT_* env < flags. A missing
// healthbot.yaml is fine; a broken one is not.
func loadConfig(root string, opts *globalOptions) (domain.Config, error) {
	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil && !domain.IsKind(err, domain.KindNotFound) {
		return cfg, err
	}
	cfg = workspacefinder.ApplyEnv(cfg, os.LookupEnv)

	if v := strings.TrimSpace(opts.api); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(opts.lang); v != "" {
		lang, ok := domain.ParseLanguage(v)
		if !ok {
			ve := &domain.ValidationError{}
			ve.Add("lang", fmt.Sprintf("unsupported language %q (expected en|hi)", v))
			return cfg, ve
		}
		cfg.Chat.Language = lang
	}
	if opts.debug {
		cfg.Logging.Debug = true
	}
	return cfg, nil
}

// resolveWorkspaceRoot prefers --workspace, then a healthbot.yaml above the
// working directory, then the per-user config directory.
func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err == nil {
		return root, nil
	}
	if !domain.IsKind(err, domain.KindNotFound) {
		return "", err
	}

	home, homeErr := workspacefinder.DefaultHome()
	if homeErr != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `healthbot init`): %w", wd, err)
	}
	return home, nil
}
