// Package ws is the session endpoint: it owns the WebSocket connections and
// forwards inbound events to the core. The core never touches a socket; it
// only holds the Sink capability for each session.
package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"babel-relay/domain"
	"babel-relay/services"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

var validate = validator.New()

// Endpoint upgrades HTTP requests and runs one read loop per connection.
type Endpoint struct {
	log          *slog.Logger
	service      services.IChatService
	sinkBuffer   int
	writeTimeout time.Duration
}

func NewEndpoint(log *slog.Logger, service services.IChatService, sinkBuffer int, writeTimeout time.Duration) *Endpoint {
	return &Endpoint{log: log, service: service, sinkBuffer: sinkBuffer, writeTimeout: writeTimeout}
}

func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// The relay is origin-agnostic, same as the original deployment:
		// clients are expected to sit behind the operator's own proxy.
		CheckOrigin: func(*http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sink := NewSink(e.sinkBuffer)
	defer sink.Close()
	go e.writeLoop(conn, sink)

	e.readLoop(r, conn, sink)
}

// readLoop drains inbound events until the connection dies. A malformed event
// is dropped and logged; the connection stays alive.
func (e *Endpoint) readLoop(r *http.Request, conn *websocket.Conn, sink *Sink) {
	ctx := r.Context()
	var sessionID, handle string
	joined := false

	defer func() {
		if joined {
			e.service.Leave(ctx, sessionID)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			e.log.Debug("Connection closed", "session", sessionID, "error", err)
			return
		}

		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			e.log.Warn("Dropping malformed event", "error", err)
			continue
		}

		switch in.Type {
		case typeJoin:
			if err := validate.Struct(joinRequest{UserID: in.UserID, Username: in.Username}); err != nil {
				e.log.Warn("Rejecting invalid join", "error", err)
				return
			}
			sessionID = in.UserID
			handle = in.Username
			joined = true
			e.service.Join(ctx, domain.Session{
				ID:                in.UserID,
				Handle:            in.Username,
				PreferredLanguage: orAuto(in.MyLanguage),
			}, sink)

		case typeChat:
			if !joined {
				continue
			}
			e.service.PostMessage(domain.ChatCommand{
				SessionID:        sessionID,
				Handle:           handle,
				Text:             in.Message,
				OutgoingLanguage: orAuto(in.OutgoingLanguage),
				IncomingLanguage: in.IncomingLanguage,
				At:               time.Now().UTC(),
			})

		case typeTranslate:
			if !joined {
				continue
			}
			e.service.RequestTranslation(domain.TranslateCommand{
				SessionID:      sessionID,
				Text:           in.Message,
				TargetLanguage: in.TargetLanguage,
			})

		case typeUpdateSettings:
			if !joined {
				continue
			}
			e.service.UpdateSettings(sessionID, orAuto(in.MyLanguage))

		default:
			e.log.Debug(fmt.Sprintf("Ignoring unknown event type %q", in.Type))
		}
	}
}

// writeLoop serializes queued events onto the socket. A write failure ends the
// loop; the read loop notices the dead socket and tears the session down.
func (e *Endpoint) writeLoop(conn *websocket.Conn, sink *Sink) {
	for {
		select {
		case <-sink.done:
			return
		case out := <-sink.send:
			if err := conn.SetWriteDeadline(time.Now().Add(e.writeTimeout)); err != nil {
				return
			}
			if err := conn.WriteJSON(out); err != nil {
				return
			}
		}
	}
}

func orAuto(language string) string {
	if language == "" {
		return domain.LanguageAuto
	}
	return language
}
