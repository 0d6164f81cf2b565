// main package for the tts-dashboard
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

	"github.com/book-expert/tts-dashboard/internal/config"
	"github.com/book-expert/tts-dashboard/internal/core"
	"github.com/book-expert/tts-dashboard/internal/objectstore"
	"github.com/book-expert/tts-dashboard/internal/pipeline"
	"github.com/book-expert/tts-dashboard/internal/speech"
	"github.com/book-expert/tts-dashboard/internal/web"
)

const shutdownGrace = 10 * time.Second

func setupLogger(logPath string) (*logger.Logger, error) {
	log, err := logger.New(logPath, "tts-dashboard.log")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

// setupStore connects to the configured NATS server, or starts an embedded
// one when no URL is set, and binds the audio bucket. The returned cleanup
// tears down whatever was started.
func setupStore(cfg *config.Config, log *logger.Logger) (core.ObjectStore, func(), error) {
	natsURL := cfg.Storage.NATSURL
	cleanup := func() {}

	if natsURL == "" {
		embedded, err := objectstore.StartEmbeddedServer(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start embedded storage server: %w", err)
		}

		natsURL = embedded.ClientURL()
		cleanup = embedded.Shutdown

		log.Info("Embedded storage server started at %s", natsURL)
	}

	natsConnection, jetstreamContext, err := objectstore.Connect(natsURL)
	if err != nil {
		cleanup()

		return nil, nil, err
	}

	store, err := objectstore.New(jetstreamContext, cfg.Storage.Bucket)
	if err != nil {
		natsConnection.Close()
		cleanup()

		return nil, nil, fmt.Errorf("failed to open audio bucket: %w", err)
	}

	serverCleanup := cleanup

	return store, func() {
		natsConnection.Close()
		serverCleanup()
	}, nil
}

func run() error {
	// Bootstrap logger so configuration loading has somewhere to log.
	bootstrapLog, err := setupLogger(os.TempDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

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

	store, storeCleanup, err := setupStore(cfg, finalLog)
	if err != nil {
		finalLog.Error("Failed to set up audio storage: %v", err)

		return err
	}
	defer storeCleanup()

	engine, err := speech.New(speech.Config{
		Engine:  cfg.Speech.Engine,
		RateWPM: cfg.Speech.RateWPM,
	})
	if err != nil {
		finalLog.Error("Failed to initialize speech engine: %v", err)

		return fmt.Errorf("failed to initialize speech engine: %w", err)
	}

	gender, err := pipeline.ParseGender(cfg.Speech.DefaultGender)
	if err != nil {
		finalLog.Error("Invalid default_gender in configuration: %v", err)

		return err
	}

	pipe := pipeline.New(engine, store, finalLog, pipeline.Options{
		DefaultGender: gender,
		RateWPM:       cfg.Speech.RateWPM,
	})

	dashboard, err := web.NewServer(
		pipe,
		store,
		finalLog,
		time.Duration(cfg.Speech.SynthesisTimeoutSeconds)*time.Second,
	)
	if err != nil {
		finalLog.Error("Failed to create dashboard server: %v", err)

		return fmt.Errorf("failed to create dashboard server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           dashboard.Handler(),
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	return serve(httpServer, finalLog)
}

// serve runs the HTTP server until SIGINT or SIGTERM, then drains it.
func serve(httpServer *http.Server, log *logger.Logger) error {
	serveErr := make(chan error, 1)

	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err

			return
		}

		serveErr <- nil
	}()

	log.System("TTS dashboard listening on http://%s", httpServer.Addr)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}

		return nil
	case sig := <-stop:
		log.Info("Received signal %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := httpServer.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return <-serveErr
}

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}
