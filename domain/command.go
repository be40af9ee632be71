package domain

import "time"

// Command is an inbound action carried from a session endpoint
// to the orchestrator's pipeline workers.
type Command interface {
	SenderID() string
}

// ChatCommand triggers the translation fan-out pipeline.
type ChatCommand struct {
	SessionID        string
	Handle           string
	Text             string
	OutgoingLanguage string // language the sender wants their own text rendered in, or "auto"
	IncomingLanguage string // sender's own receive preference, fallback fan-out target
	At               time.Time
}

func (c ChatCommand) SenderID() string { return c.SessionID }

// TranslateCommand is a one-off translation, answered only to the sender.
type TranslateCommand struct {
	SessionID      string
	Text           string
	TargetLanguage string
}

func (c TranslateCommand) SenderID() string { return c.SessionID }
