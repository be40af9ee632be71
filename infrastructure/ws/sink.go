package ws

import (
	"context"
	"sync"

	"babel-relay/domain/event"
	"babel-relay/errors"
)

// Sink is the send capability handed to the core for one session.
// It decouples the broadcaster from the socket: events are queued here and a
// writer goroutine owned by the endpoint drains them. A queue that stays full
// past the broadcaster's timeout counts as a dead session.
type Sink struct {
	send      chan event.Outbound
	done      chan struct{}
	closeOnce sync.Once
}

func NewSink(bufferSize int) *Sink {
	return &Sink{
		send: make(chan event.Outbound, bufferSize),
		done: make(chan struct{}),
	}
}

func (s *Sink) Send(ctx context.Context, e event.Outbound) error {
	select {
	case <-s.done:
		return errors.ErrSessionNotFound
	default:
	}
	select {
	case s.send <- e:
		return nil
	case <-s.done:
		return errors.ErrSessionNotFound
	case <-ctx.Done():
		return errors.ErrSinkFull
	}
}

// Close marks the session dead. Safe to call more than once; queued events
// are discarded.
func (s *Sink) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}
