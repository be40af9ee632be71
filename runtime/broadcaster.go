package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"babel-relay/domain"
	"babel-relay/domain/event"
)

// Broadcaster pushes assembled artifacts and membership notices to every live
// session. A send failure for one session never aborts the loop: the dead
// session is removed from the registry, not retried, and the remaining
// sessions are told about the departure.
type Broadcaster struct {
	registry    *Registry
	sendTimeout time.Duration
	log         *slog.Logger
}

func NewBroadcaster(registry *Registry, sendTimeout time.Duration, log *slog.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, sendTimeout: sendTimeout, log: log}
}

// Broadcast delivers a fully assembled artifact to every session.
// Callers must never pass a message whose translations map is still being filled.
func (b *Broadcaster) Broadcast(ctx context.Context, artifact domain.ChatMessage) {
	b.deliver(ctx, event.NewChatBroadcast(artifact))
}

// BroadcastMembership pushes the current roster to every session.
// Invoked after any join or leave.
func (b *Broadcaster) BroadcastMembership(ctx context.Context) {
	sessions := b.registry.ListAll()
	users := make([]event.UserEntry, 0, len(sessions))
	for _, s := range sessions {
		users = append(users, event.UserEntry{UserID: s.ID, Username: s.Handle})
	}
	b.deliver(ctx, event.UserList{Type: event.TypeUserList, Users: users})
}

// BroadcastSystemNotice sends a sender-less informational message.
func (b *Broadcaster) BroadcastSystemNotice(ctx context.Context, text string) {
	b.deliver(ctx, event.NewSystemNotice(text))
}

// deliver pushes one event, then announces every session that died during the
// push: the survivors get a fresh roster and a leave notice, exactly as if the
// session had left through the endpoint. A cascade of dead sockets terminates
// because each eviction shrinks the registry.
func (b *Broadcaster) deliver(ctx context.Context, e event.Outbound) {
	for _, session := range b.fanout(ctx, e) {
		b.BroadcastMembership(ctx)
		b.BroadcastSystemNotice(ctx, fmt.Sprintf("%s left the chat", session.Handle))
	}
}

// fanout sends one event to every live session. Sessions whose send fails are
// evicted from the registry and reported to the caller for announcement.
func (b *Broadcaster) fanout(ctx context.Context, e event.Outbound) []domain.Session {
	var evicted []domain.Session
	for _, target := range b.registry.snapshotWithSinks() {
		sendCtx, cancel := context.WithTimeout(ctx, b.sendTimeout)
		err := target.sink.Send(sendCtx, e)
		cancel()
		if err == nil {
			continue
		}
		b.log.Info(fmt.Sprintf("Removing unreachable session %s (%s)", target.session.ID, target.session.Handle),
			"error", err)
		b.registry.Leave(target.session.ID)
		evicted = append(evicted, target.session)
	}
	return evicted
}
