package services

import (
	"context"

	"babel-relay/contract"
	"babel-relay/domain"
	"babel-relay/runtime"
)

type IChatService interface {
	Join(ctx context.Context, session domain.Session, sink contract.EventSink)
	Leave(ctx context.Context, sessionID string)
	UpdateSettings(sessionID, language string)
	PostMessage(cmd domain.ChatCommand)
	RequestTranslation(cmd domain.TranslateCommand)
	Roster() []domain.Session
	SessionCount() int
}

// ChatService is the thin seam between the session endpoints and the runtime.
type ChatService struct {
	orchestrator *runtime.Orchestrator
	registry     *runtime.Registry
}

func NewChatService(orchestrator *runtime.Orchestrator, registry *runtime.Registry) *ChatService {
	return &ChatService{orchestrator: orchestrator, registry: registry}
}

func (s *ChatService) Join(ctx context.Context, session domain.Session, sink contract.EventSink) {
	s.orchestrator.Join(ctx, session, sink)
}

func (s *ChatService) Leave(ctx context.Context, sessionID string) {
	s.orchestrator.Leave(ctx, sessionID)
}

func (s *ChatService) UpdateSettings(sessionID, language string) {
	s.orchestrator.UpdateSettings(sessionID, language)
}

func (s *ChatService) PostMessage(cmd domain.ChatCommand) {
	s.orchestrator.Dispatch(cmd)
}

func (s *ChatService) RequestTranslation(cmd domain.TranslateCommand) {
	s.orchestrator.Dispatch(cmd)
}

func (s *ChatService) Roster() []domain.Session {
	return s.registry.ListAll()
}

func (s *ChatService) SessionCount() int {
	return len(s.registry.ListAll())
}
