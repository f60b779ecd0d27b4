package domain

import "time"

// Config represents the healthbot configuration loaded from healthbot.yaml.
type Config struct {
	API     APIConfig
	Chat    ChatConfig
	Session SessionConfig
	Logging LoggingConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type ChatConfig struct {
	Language Language
}

type SessionConfig struct {
	// File is relative to the workspace root unless absolute.
	File string
}

type LoggingConfig struct {
	Debug bool
}

// DefaultConfig provides sane defaults if healthbot.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:8000/api",
			Timeout: 15 * time.Second,
		},
		Chat: ChatConfig{Language: LangEnglish},
		Session: SessionConfig{
			File: ".healthbot/session.json",
		},
	}
}

// WorkspaceSpec describes where to create a healthbot workspace. Empty
// fields are written with DefaultConfig values.
type WorkspaceSpec struct {
	Root       string
	APIBaseURL string
	Language   Language
}
