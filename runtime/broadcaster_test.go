package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"babel-relay/domain"
	"babel-relay/domain/event"
	"babel-relay/mocks"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBroadcaster_Broadcast_Reaches_Every_Session(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Given two live sessions
	registry := NewRegistry()
	sinkA := mocks.NewMockEventSink(ctrl)
	sinkB := mocks.NewMockEventSink(ctrl)
	registry.Join(domain.Session{ID: uuid.NewString(), Handle: "Ana"}, sinkA)
	registry.Join(domain.Session{ID: uuid.NewString(), Handle: "Luc"}, sinkB)
	broadcaster := NewBroadcaster(registry, time.Second, log)

	received := 0
	capture := func(_ context.Context, e event.Outbound) {
		broadcast, ok := e.(event.ChatBroadcast)
		req.True(ok)
		req.Equal("hola", broadcast.Translations["es"])
		received++
	}
	sinkA.EXPECT().Send(gomock.Any(), gomock.Any()).Do(capture).Return(nil).Times(1)
	sinkB.EXPECT().Send(gomock.Any(), gomock.Any()).Do(capture).Return(nil).Times(1)

	// When an assembled artifact is broadcast
	broadcaster.Broadcast(context.Background(), domain.ChatMessage{
		ID:            uuid.New(),
		SenderHandle:  "Karl",
		CanonicalText: "hello",
		Translations:  map[string]string{"es": "hola"},
		At:            time.Now().UTC(),
	})

	// Then both sessions hear it
	req.Equal(2, received)
}

func TestBroadcaster_Dead_Session_Eviction_Is_Announced(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	deadID := uuid.NewString()
	liveID := uuid.NewString()
	deadSink := mocks.NewMockEventSink(ctrl)
	liveSink := mocks.NewMockEventSink(ctrl)
	registry.Join(domain.Session{ID: deadID, Handle: "Gone"}, deadSink)
	registry.Join(domain.Session{ID: liveID, Handle: "Here"}, liveSink)
	broadcaster := NewBroadcaster(registry, time.Second, log)

	// Given one sink that refuses delivery
	deadSink.EXPECT().Send(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("connection reset")).Times(1)

	var received []event.Outbound
	liveSink.EXPECT().Send(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e event.Outbound) {
			received = append(received, e)
		}).Return(nil).Times(3)

	// When a broadcast hits the dead socket
	broadcaster.BroadcastSystemNotice(context.Background(), "server restarting soon")

	// Then the dead session is evicted and the live one survives
	_, ok := registry.Get(deadID)
	req.False(ok)
	req.Len(registry.ListAll(), 1)

	// And the survivor hears the original notice, a fresh roster without the
	// dead session, and a leave notice for it
	req.Len(received, 3)

	notice, ok := received[0].(event.SystemNotice)
	req.True(ok)
	req.Equal("server restarting soon", notice.Message)

	roster, ok := received[1].(event.UserList)
	req.True(ok)
	req.Len(roster.Users, 1)
	req.Equal(liveID, roster.Users[0].UserID)

	leave, ok := received[2].(event.SystemNotice)
	req.True(ok)
	req.Equal("Gone left the chat", leave.Message)
}

func TestBroadcaster_Membership_Carries_The_Roster(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry := NewRegistry()
	sink := mocks.NewMockEventSink(ctrl)
	sessionID := uuid.NewString()
	registry.Join(domain.Session{ID: sessionID, Handle: "Ana"}, sink)
	broadcaster := NewBroadcaster(registry, time.Second, log)

	sink.EXPECT().Send(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, e event.Outbound) {
			list, ok := e.(event.UserList)
			req.True(ok)
			req.Len(list.Users, 1)
			req.Equal(sessionID, list.Users[0].UserID)
			req.Equal("Ana", list.Users[0].Username)
		}).Return(nil).Times(1)

	broadcaster.BroadcastMembership(context.Background())
}
