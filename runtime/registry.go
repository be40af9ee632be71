// Package runtime drives the translation fan-out pipeline: membership,
// context history, broadcast, and the supervised workers tying them together.
// It orchestrates the system without containing translation policy.
package runtime

import (
	"sort"
	"sync"

	"babel-relay/contract"
	"babel-relay/domain"
)

// Ensure *Registry implements the contract.IRegistry interface at compile time.
var _ contract.IRegistry = (*Registry)(nil)

type entry struct {
	session domain.Session
	sink    contract.EventSink
}

// Registry is the sole owner of the authoritative set of live sessions.
// All mutations go through its lock; readers get point-in-time snapshots.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]entry)}
}

// Join registers a session and its send capability.
// A duplicate ID overwrites the previous entry (last-writer-wins); a client
// re-joining after a flaky reconnect is a tolerated idempotence case, not an error.
func (r *Registry) Join(session domain.Session, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = entry{session: session, sink: sink}
}

// UpdatePreference changes a session's receive language.
// A late update for an already-disconnected session is silently dropped.
func (r *Registry) UpdatePreference(sessionID, language string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[sessionID]
	if !ok {
		return
	}
	e.session.PreferredLanguage = language
	r.sessions[sessionID] = e
}

// Leave removes a session. Idempotent.
func (r *Registry) Leave(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// ListAll returns a consistent point-in-time snapshot of live sessions.
func (r *Registry) ListAll() []domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.session)
	}
	return out
}

// NeededLanguages returns the distinct non-"auto" receive languages currently
// registered, ascending. The sort keeps fan-out order deterministic.
func (r *Registry) NeededLanguages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, e := range r.sessions {
		if e.session.WantsTranslation() {
			seen[e.session.PreferredLanguage] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for lang := range seen {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Get returns one session's current state.
func (r *Registry) Get(sessionID string) (domain.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sessionID]
	return e.session, ok
}

// SinkFor resolves the send capability of one session.
func (r *Registry) SinkFor(sessionID string) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return e.sink, true
}

// snapshotWithSinks is the broadcaster's view: sessions plus capabilities,
// taken under one lock so no entry is observed half-mutated.
func (r *Registry) snapshotWithSinks() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entry, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e)
	}
	return out
}
