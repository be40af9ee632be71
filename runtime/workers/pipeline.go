package workers

import (
	"context"
	"log/slog"

	"babel-relay/contract"
	"babel-relay/domain"
)

// Ensure *PipelineWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*PipelineWorker)(nil)

// PipelineWorker drains inbound commands and runs each through the
// orchestrator's pipeline. Several workers share one queue, so messages from
// different sessions may be in flight concurrently while each message still
// runs front to back in a single goroutine.
type PipelineWorker struct {
	pipeline contract.IPipeline
	commands chan domain.Command
	log      *slog.Logger
}

func NewPipelineWorker(pipeline contract.IPipeline, commands chan domain.Command, log *slog.Logger) *PipelineWorker {
	return &PipelineWorker{pipeline: pipeline, commands: commands, log: log}
}

func (w *PipelineWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			switch c := cmd.(type) {
			case domain.ChatCommand:
				w.pipeline.HandleChat(ctx, c)
			case domain.TranslateCommand:
				w.pipeline.HandleTranslate(ctx, c)
			default:
				w.log.Debug("Ignoring unknown command type", "sender", cmd.SenderID())
			}
		}
	}
}
