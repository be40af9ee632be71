// Package domain contains core concepts of the chat relay.
// This file defines Session entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// LanguageAuto means no preference was declared: the session receives the
// canonical text and no dedicated translation is produced for it.
const LanguageAuto = "auto"

// Session is one connected user's live state.
// The Registry is the sole owner of the authoritative set of live sessions.
type Session struct {
	ID                string // opaque, unique per live connection
	Handle            string // display name, not guaranteed unique
	PreferredLanguage string // two-letter tag or "auto"
}

// WantsTranslation reports whether the session declared a real receive language.
func (s Session) WantsTranslation() bool {
	return s.PreferredLanguage != "" && s.PreferredLanguage != LanguageAuto
}
