// Package event defines the outbound payloads pushed to connected sessions.
// The JSON shapes are the wire contract with clients; renaming a field here
// is a breaking protocol change.
package event

import (
	"time"

	"babel-relay/domain"
)

// Outbound is anything the broadcaster may push to a session.
type Outbound interface {
	EventType() string
}

const (
	TypeChat              = "chat"
	TypeSystem            = "system"
	TypeUserList          = "user-list"
	TypeTranslationResult = "translation-result"
)

// ChatBroadcast carries one assembled artifact to every session.
type ChatBroadcast struct {
	Type             string            `json:"type"`
	Username         string            `json:"username"`
	UserID           string            `json:"userId"`
	OriginalMessage  string            `json:"originalMessage"`
	OutgoingLanguage string            `json:"outgoingLanguage"`
	Translations     map[string]string `json:"translations"`
	Timestamp        time.Time         `json:"timestamp"`
}

func (e ChatBroadcast) EventType() string { return TypeChat }

// NewChatBroadcast flattens an artifact into its wire shape.
func NewChatBroadcast(m domain.ChatMessage) ChatBroadcast {
	return ChatBroadcast{
		Type:             TypeChat,
		Username:         m.SenderHandle,
		UserID:           m.SenderSessionID,
		OriginalMessage:  m.CanonicalText,
		OutgoingLanguage: m.OutgoingLanguage,
		Translations:     m.Translations,
		Timestamp:        m.At,
	}
}

// SystemNotice is a sender-less informational message (join/leave notices).
type SystemNotice struct {
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (e SystemNotice) EventType() string { return TypeSystem }

func NewSystemNotice(text string) SystemNotice {
	return SystemNotice{
		Type:      TypeSystem,
		Username:  "System",
		Message:   text,
		Timestamp: time.Now().UTC(),
	}
}

// UserEntry is one roster line in a membership snapshot.
type UserEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// UserList is the membership snapshot pushed after any join or leave.
type UserList struct {
	Type  string      `json:"type"`
	Users []UserEntry `json:"users"`
}

func (e UserList) EventType() string { return TypeUserList }

// TranslationResult answers a one-off translate request, sender only.
type TranslationResult struct {
	Type           string `json:"type"`
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
	TargetLanguage string `json:"targetLanguage"`
}

func (e TranslationResult) EventType() string { return TypeTranslationResult }
