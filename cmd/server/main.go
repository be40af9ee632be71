package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"babel-relay/contract"
	"babel-relay/infrastructure/ws"
	"babel-relay/moderation"
	"babel-relay/observability"
	"babel-relay/repositories"
	"babel-relay/runtime"
	"babel-relay/runtime/workers"
	"babel-relay/services"
	"babel-relay/translation"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes
// error reporting, so every defer (database cleanup included) executes before
// the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := characterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx := context.Background()

	// 2. Database (BadgerDB), the persisted translation-context window.
	// A failure to open degrades to an in-memory-only context, never a crash.
	var historyRepository contract.IHistoryRepository
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		logger.Warn("History store unavailable, context will not survive restarts", "error", err)
	} else {
		defer func() {
			logger.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		historyRepository = repositories.NewHistoryRepository(db, logger, config.HistoryCapacity)
	}

	// 3. Core components
	registry := runtime.NewRegistry()
	history := runtime.NewHistory(config.HistoryCapacity, historyRepository, logger)
	broadcaster := runtime.NewBroadcaster(registry, config.SendTimeout, logger)
	gateway := translation.NewGateway(translation.Config{
		Endpoint: config.GroqEndpoint,
		APIKey:   config.GroqAPIKey,
		Model:    config.GroqModel,
	}, logger)

	var censor contract.ICensor
	if config.EnableModeration {
		words, err := moderation.LoadWords()
		if err != nil {
			return exitRuntime, fmt.Errorf("moderation word lists: %w", err)
		}
		moderator, err := moderation.NewModerator(words, charReplacement)
		if err != nil {
			return exitRuntime, fmt.Errorf("moderation automaton: %w", err)
		}
		logger.Info(fmt.Sprintf("%d censored words loaded", len(words)))
		censor = moderator
	}

	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	if db != nil {
		supervisor.Add(workers.NewJanitorWorker(db, config.GCInterval, logger))
	}
	orchestrator := runtime.NewOrchestrator(
		logger, supervisor, registry, history, gateway, broadcaster, censor,
		config.NumberOfWorkers, config.BufferSize,
		config.ContextWindow, config.MaxMessageLength,
		config.TranslationTimeout,
	)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Error (HTTP & Orchestrator)
	errChan := make(chan error, 2)

	// 5. Start the Engine (pipeline workers under supervision)
	go func() {
		logger.Info("Starting orchestrator...")
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	// 6. HTTP / WebSocket surface
	chatService := services.NewChatService(orchestrator, registry)
	endpoint := ws.NewEndpoint(logger, chatService, config.ConnectionBufferSize, config.WriteTimeout)

	monitor, err := observability.NewProcessMonitor()
	if err != nil {
		logger.Warn("Process monitoring unavailable", "error", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", endpoint)
	mux.Handle("/api/users", ws.UsersHandler{Service: chatService, Log: logger})
	mux.Handle("/health", ws.HealthHandler{Service: chatService, Monitor: monitor, Log: logger})

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: mux}

	go func() {
		logger.Info("Starting relay server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Final Cleanup (Graceful Shutdown)
	// Active connections get a short window to flush before workers drain.
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	orchestrator.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG)
	} else {
		options = options.WithLoggingLevel(badger.WARNING)
	}
	return options
}

func characterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CHARACTER_REPLACEMENT must be a single character, got %q", str)
	}
	return r[0], nil
}
