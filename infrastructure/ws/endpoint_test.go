package ws

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"babel-relay/contract"
	"babel-relay/domain"
	"babel-relay/domain/event"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

// recordingService captures the calls the endpoint forwards to the core.
type recordingService struct {
	mu           sync.Mutex
	joins        []domain.Session
	leaves       []string
	chats        []domain.ChatCommand
	translations []domain.TranslateCommand
	settings     map[string]string
	sink         contract.EventSink
}

func newRecordingService() *recordingService {
	return &recordingService{settings: make(map[string]string)}
}

func (s *recordingService) Join(_ context.Context, session domain.Session, sink contract.EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joins = append(s.joins, session)
	s.sink = sink
}

func (s *recordingService) Leave(_ context.Context, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves = append(s.leaves, sessionID)
}

func (s *recordingService) UpdateSettings(sessionID, language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[sessionID] = language
}

func (s *recordingService) PostMessage(cmd domain.ChatCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats = append(s.chats, cmd)
}

func (s *recordingService) RequestTranslation(cmd domain.TranslateCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translations = append(s.translations, cmd)
}

func (s *recordingService) Roster() []domain.Session { return nil }
func (s *recordingService) SessionCount() int        { return 0 }

// serviceCalls is a lock-free copy of the recorded calls.
type serviceCalls struct {
	joins        []domain.Session
	leaves       []string
	chats        []domain.ChatCommand
	translations []domain.TranslateCommand
}

func (s *recordingService) snapshot() serviceCalls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return serviceCalls{
		joins:        append([]domain.Session(nil), s.joins...),
		leaves:       append([]string(nil), s.leaves...),
		chats:        append([]domain.ChatCommand(nil), s.chats...),
		translations: append([]domain.TranslateCommand(nil), s.translations...),
	}
}

func (s *recordingService) waitFor(t *testing.T, condition func(serviceCalls) bool) serviceCalls {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := s.snapshot()
		if condition(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
	return serviceCalls{}
}

func dialTestEndpoint(t *testing.T, service *recordingService) *websocket.Conn {
	t.Helper()
	endpoint := NewEndpoint(logs.GetLoggerFromLevel(slog.LevelDebug), service, 8, time.Second)
	server := httptest.NewServer(endpoint)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func join(t *testing.T, conn *websocket.Conn, userID string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":       "join",
		"userId":     userID,
		"username":   "Ana",
		"myLanguage": "es",
	}))
}

func TestEndpoint_Join_Registers_The_Session(t *testing.T) {
	req := require.New(t)
	service := newRecordingService()
	conn := dialTestEndpoint(t, service)

	join(t, conn, "user-1")

	snap := service.waitFor(t, func(s serviceCalls) bool { return len(s.joins) == 1 })
	req.Equal("user-1", snap.joins[0].ID)
	req.Equal("Ana", snap.joins[0].Handle)
	req.Equal("es", snap.joins[0].PreferredLanguage)
}

func TestEndpoint_Chat_Is_Forwarded_With_Session_Identity(t *testing.T) {
	req := require.New(t)
	service := newRecordingService()
	conn := dialTestEndpoint(t, service)
	join(t, conn, "user-1")

	req.NoError(conn.WriteJSON(map[string]string{
		"type":             "chat",
		"message":          "hello",
		"incomingLanguage": "es",
	}))

	snap := service.waitFor(t, func(s serviceCalls) bool { return len(s.chats) == 1 })
	req.Equal("user-1", snap.chats[0].SessionID)
	req.Equal("Ana", snap.chats[0].Handle)
	req.Equal("hello", snap.chats[0].Text)
	req.Equal(domain.LanguageAuto, snap.chats[0].OutgoingLanguage)
	req.Equal("es", snap.chats[0].IncomingLanguage)
}

func TestEndpoint_Chat_Before_Join_Is_Ignored(t *testing.T) {
	req := require.New(t)
	service := newRecordingService()
	conn := dialTestEndpoint(t, service)

	req.NoError(conn.WriteJSON(map[string]string{"type": "chat", "message": "sneaky"}))
	join(t, conn, "user-1")

	// The join lands, proving the earlier chat was processed and dropped.
	snap := service.waitFor(t, func(s serviceCalls) bool { return len(s.joins) == 1 })
	req.Empty(snap.chats)
}

func TestEndpoint_Malformed_Event_Keeps_The_Connection_Alive(t *testing.T) {
	req := require.New(t)
	service := newRecordingService()
	conn := dialTestEndpoint(t, service)
	join(t, conn, "user-1")

	req.NoError(conn.WriteMessage(websocket.TextMessage, []byte("{{{not json")))
	req.NoError(conn.WriteJSON(map[string]string{"type": "chat", "message": "still here"}))

	snap := service.waitFor(t, func(s serviceCalls) bool { return len(s.chats) == 1 })
	req.Equal("still here", snap.chats[0].Text)
}

func TestEndpoint_Invalid_Join_Closes_The_Connection(t *testing.T) {
	req := require.New(t)
	service := newRecordingService()
	conn := dialTestEndpoint(t, service)

	// Username below the minimum length fails validation
	req.NoError(conn.WriteJSON(map[string]string{
		"type":     "join",
		"userId":   "user-1",
		"username": "A",
	}))

	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, err := conn.ReadMessage()
	req.Error(err)
	req.Empty(service.snapshot().joins)
}

func TestEndpoint_Disconnect_Triggers_Leave(t *testing.T) {
	req := require.New(t)
	service := newRecordingService()
	conn := dialTestEndpoint(t, service)
	join(t, conn, "user-1")
	service.waitFor(t, func(s serviceCalls) bool { return len(s.joins) == 1 })

	req.NoError(conn.Close())

	snap := service.waitFor(t, func(s serviceCalls) bool { return len(s.leaves) == 1 })
	req.Equal("user-1", snap.leaves[0])
}

func TestEndpoint_Sink_Events_Reach_The_Client(t *testing.T) {
	req := require.New(t)
	service := newRecordingService()
	conn := dialTestEndpoint(t, service)
	join(t, conn, "user-1")
	service.waitFor(t, func(s serviceCalls) bool { return len(s.joins) == 1 })

	// When the core pushes an event through the session's sink
	service.mu.Lock()
	sink := service.sink
	service.mu.Unlock()
	req.NoError(sink.Send(context.Background(), event.NewSystemNotice("welcome")))

	// Then the client receives it as JSON on the socket
	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var received struct {
		Type     string `json:"type"`
		Username string `json:"username"`
		Message  string `json:"message"`
	}
	req.NoError(conn.ReadJSON(&received))
	req.Equal(event.TypeSystem, received.Type)
	req.Equal("System", received.Username)
	req.Equal("welcome", received.Message)
}
