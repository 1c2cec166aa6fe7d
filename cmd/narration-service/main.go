// main package for the narration-service
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/book-expert/logger"
	"github.com/book-expert/narration-service/internal/config"
	"github.com/book-expert/narration-service/internal/gateway"
	"github.com/book-expert/narration-service/internal/handler"
	"github.com/book-expert/narration-service/internal/objectstore"
	"github.com/book-expert/narration-service/internal/synth"
	"github.com/book-expert/narration-service/internal/worker"
	"github.com/nats-io/nats.go"
)

const httpShutdownTimeout = 10 * time.Second

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "narration-service.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func run() error {
	// 1. Create a temporary logger for the bootstrap process
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		// If bootstrap logger fails, we can only print to stderr
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	// 2. Load configuration using the central configurator
	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 3. Initialize the final logger based on the loaded configuration
	finalLog, err := setupLogger(cfg.Paths.BaseLogsDir)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing final logger: %v\n", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, finalLog)
}

// serve wires the provider clients once and runs both invocation layers
// until the context is cancelled.
func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	defer natsConnection.Close()

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	store, err := objectstore.New(
		jetstreamContext,
		cfg.NATS.AudioObjectStoreBucket,
		cfg.Storage.PublicHost,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}

	synthesizer := synth.New(
		cfg.Synthesis.ServiceURL,
		time.Duration(cfg.Synthesis.TimeoutSeconds)*time.Second,
	)

	conversionHandler := handler.New(
		synthesizer,
		store,
		cfg.Synthesis.Voice,
		cfg.Synthesis.OutputFormat,
		log,
	)

	natsWorker, err := worker.NewNatsWorker(
		natsConnection,
		cfg.NATS.NarrationSubject,
		cfg.NATS.AudioStoredSubject,
		conversionHandler,
		log,
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS worker: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           gateway.New(conversionHandler, store, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 2)

	go func() {
		errChan <- natsWorker.Run(ctx)
	}()

	go func() {
		serveErr := httpServer.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr

			return
		}

		errChan <- nil
	}()

	log.System(
		"Narration service initialized. Subject: %s, HTTP: %s",
		cfg.NATS.NarrationSubject,
		cfg.HTTP.ListenAddress,
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
	defer cancel()

	shutdownErr := httpServer.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		log.Error("HTTP server shutdown failed: %v", shutdownErr)
	}

	for range 2 {
		runErr := <-errChan
		if runErr != nil {
			return fmt.Errorf("service run failed: %w", runErr)
		}
	}

	return nil
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
