package domain

import (
	"strings"
	"time"
)

// Sender identifies who wrote a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Language is the conversation language sent to the assistant.
type Language string

const (
	LangEnglish Language = "en"
	LangHindi   Language = "hi"
)

// ParseLanguage accepts "en" or "hi" (case-insensitive). Anything else is
// reported as not ok and English is returned.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangEnglish:
		return LangEnglish, true
	case LangHindi:
		return LangHindi, true
	default:
		return LangEnglish, false
	}
}

// ChatMessage is one line in a conversation.
type ChatMessage struct {
	ID     string    `json:"id"`
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
	// Failed marks a locally generated bot line after a transport error.
	Failed bool `json:"failed,omitempty"`
}

// ChatReply is the assistant's answer.
type ChatReply struct {
	Bot  string `json:"bot"`
	User string `json:"user,omitempty"`
}
