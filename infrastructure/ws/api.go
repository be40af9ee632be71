package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"babel-relay/domain"
	"babel-relay/domain/event"
	"babel-relay/observability"
	"babel-relay/services"

	"github.com/samber/lo"
)

// UsersHandler serves the current roster, mirroring the user-list push.
type UsersHandler struct {
	Service services.IChatService
	Log     *slog.Logger
}

func (h UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	users := lo.Map(h.Service.Roster(), func(s domain.Session, _ int) event.UserEntry {
		return event.UserEntry{UserID: s.ID, Username: s.Handle}
	})
	writeJSON(w, users, h.Log)
}

// HealthHandler reports process liveness, session count, and self stats.
type HealthHandler struct {
	Service services.IChatService
	Monitor *observability.ProcessMonitor
	Log     *slog.Logger
}

type healthResponse struct {
	Status         string                     `json:"status"`
	ConnectedUsers int                        `json:"connectedUsers"`
	Process        observability.ProcessStats `json:"process"`
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:         "ok",
		ConnectedUsers: h.Service.SessionCount(),
	}
	if h.Monitor != nil {
		resp.Process = h.Monitor.Stats()
	}
	writeJSON(w, resp, h.Log)
}

func writeJSON(w http.ResponseWriter, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("Failed to write response", "error", err)
	}
}
