package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"babel-relay/contract"
	"babel-relay/domain"
	"babel-relay/domain/event"
	"babel-relay/runtime/workers"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Orchestrator owns the chat-message pipeline: it computes the target-language
// set from the registry, drives one translation per target, assembles the
// multi-language artifact, appends it to the context history, and hands it to
// the broadcaster. Each accepted message runs through exactly one pipeline
// worker; several messages may be in flight at once.
type Orchestrator struct {
	log                *slog.Logger
	supervisor         contract.ISupervisor
	registry           contract.IRegistry
	history            *History
	translator         contract.Translator
	broadcaster        contract.IBroadcaster
	censor             contract.ICensor
	commands           chan domain.Command
	numWorkers         int
	contextWindow      int
	maxMessageLength   int
	translationTimeout time.Duration
}

func NewOrchestrator(
	log *slog.Logger,
	supervisor contract.ISupervisor,
	registry contract.IRegistry,
	history *History,
	translator contract.Translator,
	broadcaster contract.IBroadcaster,
	censor contract.ICensor,
	numWorkers, bufferSize, contextWindow, maxMessageLength int,
	translationTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		log:                log,
		supervisor:         supervisor,
		registry:           registry,
		history:            history,
		translator:         translator,
		broadcaster:        broadcaster,
		censor:             censor,
		commands:           make(chan domain.Command, bufferSize),
		numWorkers:         numWorkers,
		contextWindow:      contextWindow,
		maxMessageLength:   maxMessageLength,
		translationTimeout: translationTimeout,
	}
}

// Start seeds the context history, registers the pipeline worker pool with the
// supervisor, and blocks until the context is canceled.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.history.Load()

	for i := 0; i < o.numWorkers; i++ {
		o.supervisor.Add(workers.NewPipelineWorker(o, o.commands, o.log))
	}

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// Stop initiates a graceful shutdown: workers drain, then exit.
func (o *Orchestrator) Stop() {
	o.supervisor.Stop()
}

// Dispatch queues an inbound command for a pipeline worker.
// A full queue drops the command rather than blocking the session endpoint.
func (o *Orchestrator) Dispatch(cmd domain.Command) {
	select {
	case o.commands <- cmd:
	default:
		o.log.Warn(fmt.Sprintf("Command queue full, dropping command from %s", cmd.SenderID()))
	}
}

// Join registers a new session and announces it.
func (o *Orchestrator) Join(ctx context.Context, session domain.Session, sink contract.EventSink) {
	o.registry.Join(session, sink)
	o.broadcaster.BroadcastMembership(ctx)
	o.broadcaster.BroadcastSystemNotice(ctx, fmt.Sprintf("%s joined the chat", session.Handle))
	o.log.Info(fmt.Sprintf("%s (%s) joined the chat", session.Handle, session.ID))
}

// Leave removes a session and announces the departure. Idempotent: a second
// leave for the same ID is a no-op and broadcasts nothing.
func (o *Orchestrator) Leave(ctx context.Context, sessionID string) {
	session, ok := o.registry.Get(sessionID)
	if !ok {
		return
	}
	o.registry.Leave(sessionID)
	o.broadcaster.BroadcastMembership(ctx)
	o.broadcaster.BroadcastSystemNotice(ctx, fmt.Sprintf("%s left the chat", session.Handle))
	o.log.Info(fmt.Sprintf("%s (%s) left the chat", session.Handle, session.ID))
}

// UpdateSettings changes a session's receive language.
// Unknown sessions are silently ignored.
func (o *Orchestrator) UpdateSettings(sessionID, language string) {
	o.registry.UpdatePreference(sessionID, language)
}

// HandleChat runs one message through the full pipeline:
// sanitize, outgoing translation, fan-out, assemble, persist, broadcast.
func (o *Orchestrator) HandleChat(ctx context.Context, cmd domain.ChatCommand) {
	text, ok := o.accept(cmd.Text)
	if !ok {
		o.log.Debug("Rejecting empty message", "session", cmd.SessionID)
		return
	}

	// One snapshot serves the whole pipeline so every translation of this
	// message observes the same conversational context.
	contextWindow := o.history.Snapshot(o.contextWindow)

	canonical := o.outgoing(ctx, text, cmd.OutgoingLanguage, contextWindow)
	targets := o.targetLanguages(cmd.IncomingLanguage)
	translations := o.fanout(ctx, canonical, targets, contextWindow)

	at := cmd.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	artifact := domain.ChatMessage{
		ID:               uuid.New(),
		SenderSessionID:  cmd.SessionID,
		SenderHandle:     cmd.Handle,
		CanonicalText:    canonical,
		OutgoingLanguage: orAuto(cmd.OutgoingLanguage),
		Translations:     translations,
		At:               at,
	}

	o.history.Append(domain.HistoryEntry{Handle: cmd.Handle, Content: canonical, At: at})
	o.broadcaster.Broadcast(ctx, artifact)
	o.log.Info(fmt.Sprintf("Message from %s fanned out to %d languages", cmd.Handle, len(targets)))
}

// HandleTranslate answers a one-off translation request, sender only.
func (o *Orchestrator) HandleTranslate(ctx context.Context, cmd domain.TranslateCommand) {
	text, ok := o.accept(cmd.Text)
	if !ok {
		return
	}
	sink, found := o.registry.SinkFor(cmd.SessionID)
	if !found {
		// The session vanished between request and processing: no-op.
		return
	}

	translated := o.translateOne(ctx, text, cmd.TargetLanguage, o.history.Snapshot(o.contextWindow))

	reply := event.TranslationResult{
		Type:           event.TypeTranslationResult,
		OriginalText:   text,
		TranslatedText: translated,
		TargetLanguage: cmd.TargetLanguage,
	}
	if err := sink.Send(ctx, reply); err != nil {
		o.log.Debug("Failed to deliver translation result", "session", cmd.SessionID, "error", err)
	}
}

// accept rejects empty input and truncates oversized input, then applies
// the moderation pass.
func (o *Orchestrator) accept(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", false
	}
	if runes := []rune(text); len(runes) > o.maxMessageLength {
		text = string(runes[:o.maxMessageLength])
	}
	if o.censor != nil {
		censored, words := o.censor.Censor(text)
		if len(words) > 0 {
			o.log.Warn("Censored words in message", "count", len(words))
		}
		text = censored
	}
	return text, true
}

// outgoing optionally renders the sender's own text into their requested
// language before anyone sees it. Fail-open: an unreachable backend never
// blocks delivery.
func (o *Orchestrator) outgoing(ctx context.Context, text, language string, contextWindow []domain.HistoryEntry) string {
	if language == "" || language == domain.LanguageAuto {
		return text
	}
	return o.translateOne(ctx, text, language, contextWindow)
}

// targetLanguages computes the fan-out set: every receive language currently
// registered, plus the sender's own fallback target. Recomputed fresh per
// message so it tracks live membership, not a static catalogue.
func (o *Orchestrator) targetLanguages(incoming string) []string {
	targets := o.registry.NeededLanguages()
	if incoming != "" && incoming != domain.LanguageAuto {
		targets = append(targets, incoming)
	}
	targets = lo.Uniq(targets)
	sort.Strings(targets)
	return targets
}

// fanout drives one translation per target language. Calls run concurrently;
// outcomes are independent and each tag is written exactly once. A failed or
// empty translation degrades to the canonical text.
func (o *Orchestrator) fanout(ctx context.Context, canonical string, targets []string, contextWindow []domain.HistoryEntry) map[string]string {
	translations := make(map[string]string, len(targets))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, tag := range targets {
		wg.Add(1)
		go func(tag string) {
			defer wg.Done()
			result := o.translateOne(ctx, canonical, tag, contextWindow)
			mu.Lock()
			translations[tag] = result
			mu.Unlock()
		}(tag)
	}
	wg.Wait()
	return translations
}

// translateOne performs a single bounded gateway call with fail-open semantics.
func (o *Orchestrator) translateOne(ctx context.Context, text, target string, contextWindow []domain.HistoryEntry) string {
	callCtx, cancel := context.WithTimeout(ctx, o.translationTimeout)
	defer cancel()

	result, err := o.translator.Translate(callCtx, text, target, contextWindow)
	if err != nil {
		o.log.Warn("Translation failed, keeping original text", "target", target, "error", err)
		return text
	}
	if result == "" {
		// Sanitization ate the whole response: success-with-empty, fall back.
		return text
	}
	return result
}

func orAuto(language string) string {
	if language == "" {
		return domain.LanguageAuto
	}
	return language
}
