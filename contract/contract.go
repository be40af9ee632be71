//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"babel-relay/domain"
	"babel-relay/domain/event"
)

// Translator wraps the external text-generation backend.
// Implementations are stateless per call and safe for concurrent use.
type Translator interface {
	// Translate renders text into the target two-letter tag, using the
	// context window to preserve slang and tone. An empty result is a
	// valid success; callers fall back to the original text.
	Translate(ctx context.Context, text, target string, contextWindow []domain.HistoryEntry) (string, error)
	// DetectLanguage returns a two-letter tag; callers default to "en" on error.
	DetectLanguage(ctx context.Context, text string) (string, error)
}

// EventSink is the capability the core holds to push to one session.
// The connection itself is owned by the session endpoint.
type EventSink interface {
	Send(ctx context.Context, e event.Outbound) error
}

type IRegistry interface {
	Join(session domain.Session, sink EventSink)
	UpdatePreference(sessionID, language string)
	Leave(sessionID string)
	Get(sessionID string) (domain.Session, bool)
	ListAll() []domain.Session
	NeededLanguages() []string
	SinkFor(sessionID string) (EventSink, bool)
}

// ICensor masks forbidden words in a message and reports what it found.
type ICensor interface {
	Censor(text string) (string, []string)
}

type IBroadcaster interface {
	Broadcast(ctx context.Context, artifact domain.ChatMessage)
	BroadcastMembership(ctx context.Context)
	BroadcastSystemNotice(ctx context.Context, text string)
}

// IHistoryRepository persists the recent-message record across restarts.
// Persistence is a convenience: a missing or corrupt store degrades to
// an empty context, never a startup failure.
type IHistoryRepository interface {
	Store(entry domain.HistoryEntry) error
	Recent() ([]domain.HistoryEntry, error)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// IPipeline is the slice of the orchestrator visible to pipeline workers.
type IPipeline interface {
	HandleChat(ctx context.Context, cmd domain.ChatCommand)
	HandleTranslate(ctx context.Context, cmd domain.TranslateCommand)
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
