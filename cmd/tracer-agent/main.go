package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/gosight/gosight/tracer/internal/collector"
	"github.com/gosight/gosight/tracer/internal/config"
	"github.com/gosight/gosight/tracer/internal/fingerprint"
	"github.com/gosight/gosight/tracer/internal/handler"
	"github.com/gosight/gosight/tracer/internal/transport"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var configPath, surfacePath string
	flagSet := pflag.NewFlagSet("tracer-agent", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to the agent config (default: $CONFIG_PATH or config/tracer.yaml)")
	flagSet.StringVar(&surfacePath, "fingerprint-surface", "", "file whose bytes are hashed into the device fingerprint")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		log.Fatal().Err(err).Msg("Failed to parse flags")
	}

	// Load config
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		configPath = "config/tracer.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	log.Info().Str("app_id", cfg.AppID).Msg("Starting GoSight Tracer agent...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize dependencies
	sink, err := transport.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create transport")
	}
	defer sink.Close()
	log.Info().Str("kind", cfg.Transport.Kind).Str("codec", cfg.Transport.Codec).Msg("Transport initialized")

	var fp fingerprint.Provider
	if surfacePath != "" {
		surface, err := os.ReadFile(surfacePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to read fingerprint surface")
		}
		fp = fingerprint.Digest{Surface: surface}
	}

	var registry collector.Registry
	c, err := registry.Init(ctx, cfg, collector.Deps{
		Sender:      sink,
		Fingerprint: fp,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize collector")
	}
	log.Info().Str("page_id", c.PageID()).Msg("Collector initialized")

	// Create HTTP server
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(handler.CORSMiddleware)

	r.Get("/health", handler.HealthCheck)
	handler.NewHookHandler(c).Mount(r)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: r,
	}

	go func() {
		log.Info().Int("port", cfg.Server.HTTPPort).Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to serve HTTP")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	if err := registry.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Collector shutdown failed")
	}
	log.Info().Msg("Agent stopped")
}
