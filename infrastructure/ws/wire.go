package ws

// Inbound is the envelope for every client event. One struct covers all four
// event types; the Type field selects which other fields are meaningful.
type Inbound struct {
	Type             string `json:"type"`
	UserID           string `json:"userId,omitempty"`
	Username         string `json:"username,omitempty"`
	MyLanguage       string `json:"myLanguage,omitempty"`
	Message          string `json:"message,omitempty"`
	OutgoingLanguage string `json:"outgoingLanguage,omitempty"`
	IncomingLanguage string `json:"incomingLanguage,omitempty"`
	TargetLanguage   string `json:"targetLanguage,omitempty"`
}

const (
	typeJoin           = "join"
	typeChat           = "chat"
	typeTranslate      = "translate"
	typeUpdateSettings = "update-settings"
)

// joinRequest is the validated subset of a join event.
type joinRequest struct {
	UserID   string `validate:"required"`
	Username string `validate:"required,min=2,max=32"`
}
