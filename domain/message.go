// Package domain contains core concepts of the chat relay.
// This file defines the message artifact and the history records
// fed to the translation backend as conversational context.
// Messages are immutable once assembled.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is the fully assembled multi-language artifact.
// Translations holds one entry per language tag needed at fan-out time;
// a failed translation degrades to the canonical text, never to "".
type ChatMessage struct {
	ID               uuid.UUID
	SenderSessionID  string
	SenderHandle     string
	CanonicalText    string
	OutgoingLanguage string
	Translations     map[string]string
	At               time.Time
}

// HistoryEntry is the minimal record kept as translation context.
type HistoryEntry struct {
	Handle  string
	Content string
	At      time.Time
}
