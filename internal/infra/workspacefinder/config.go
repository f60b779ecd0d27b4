package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sihhealth/healthbot/internal/domain"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the workspace marker and configuration file.
const ConfigFile = "healthbot.yaml"

// Environment overrides applied on top of the file.
const (
	EnvAPIURL   = "HEALTHBOT_API_URL"
	EnvLanguage = "HEALTHBOT_LANG"
)

// LoadConfig loads healthbot.yaml from the workspace root and applies defaults.
// A missing file is KindNotFound and still returns the defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	hb := y.Healthbot
	if strings.TrimSpace(hb.API.BaseURL) != "" {
		cfg.API.BaseURL = strings.TrimSpace(hb.API.BaseURL)
	}
	if hb.API.Timeout != "" {
		d, err := time.ParseDuration(hb.API.Timeout)
		if err != nil || d <= 0 {
			return cfg, invalidField(path, "healthbot.api.timeout", fmt.Sprintf("invalid duration %q", hb.API.Timeout))
		}
		cfg.API.Timeout = d
	}
	if hb.Chat.Language != "" {
		lang, ok := domain.ParseLanguage(hb.Chat.Language)
		if !ok {
			return cfg, invalidField(path, "healthbot.chat.language", fmt.Sprintf("unsupported language %q (expected en|hi)", hb.Chat.Language))
		}
		cfg.Chat.Language = lang
	}
	if hb.Session.File != "" {
		cfg.Session.File = hb.Session.File
	}
	if hb.Logging.Debug != nil {
		cfg.Logging.Debug = *hb.Logging.Debug
	}

	return cfg, nil
}

// ApplyEnv overlays HEALTHBOT_* environment variables. lookup is os.LookupEnv
// outside tests.
func ApplyEnv(cfg domain.Config, lookup func(string) (string, bool)) domain.Config {
	if v, ok := lookup(EnvAPIURL); ok && strings.TrimSpace(v) != "" {
		cfg.API.BaseURL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLanguage); ok {
		if lang, valid := domain.ParseLanguage(v); valid {
			cfg.Chat.Language = lang
		}
	}
	return cfg
}

// SessionPath resolves the session file against the workspace root.
func SessionPath(root string, cfg domain.Config) string {
	p := cfg.Session.File
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "workspacefinder.loadconfig",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}

type yamlConfig struct {
	Healthbot struct {
		API struct {
			BaseURL string `yaml:"base_url"`
			Timeout string `yaml:"timeout"`
		} `yaml:"api"`

		Chat struct {
			Language string `yaml:"language"`
		} `yaml:"chat"`

		Session struct {
			File string `yaml:"file"`
		} `yaml:"session"`

		Logging struct {
			Debug *bool `yaml:"debug"`
		} `yaml:"logging"`
	} `yaml:"healthbot"`
}
