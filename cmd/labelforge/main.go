package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	lfhttp "github.com/Strob0t/LabelForge/internal/adapter/http"
	"github.com/Strob0t/LabelForge/internal/adapter/memstore"
	lfnats "github.com/Strob0t/LabelForge/internal/adapter/nats"
	"github.com/Strob0t/LabelForge/internal/adapter/otel"
	"github.com/Strob0t/LabelForge/internal/adapter/ristretto"
	"github.com/Strob0t/LabelForge/internal/adapter/ws"
	"github.com/Strob0t/LabelForge/internal/config"
	"github.com/Strob0t/LabelForge/internal/logger"
	"github.com/Strob0t/LabelForge/internal/middleware"
	"github.com/Strob0t/LabelForge/internal/port/messagequeue"
	"github.com/Strob0t/LabelForge/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer func() { logCloser.Close() }()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"nats_url", cfg.NATS.URL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---

	shutdownTelemetry, err := otel.Setup(ctx, cfg.Telemetry.Enabled, cfg.Telemetry.Endpoint, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown", "error", err)
		}
	}()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// NATS is best-effort: without it the workflow still runs, only
	// event publishing is disabled.
	var queue messagequeue.Queue
	if natsQueue, err := lfnats.Connect(ctx, cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, event publishing disabled", "error", err)
	} else {
		queue = natsQueue
		defer func() {
			if err := natsQueue.Drain(); err != nil {
				slog.Error("nats drain", "error", err)
			}
			_ = natsQueue.Close()
		}()
	}

	dashCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer dashCache.Close()

	// --- Services ---

	hub := ws.NewHub()
	store := memstore.New()
	sampler := service.UniformSampler(cfg.Labeling.SampleMinSeconds, cfg.Labeling.SampleMaxSeconds)

	handlers := &lfhttp.Handlers{
		Predictions: service.NewPredictionService(store, metrics),
		Tasks:       service.NewTaskService(store, queue, hub, metrics, cfg.Labeling.ReliabilityGate),
		Annotations: service.NewAnnotationService(store, queue, hub, dashCache, metrics, sampler, cfg.Labeling.AnnotationThreshold, cfg.Labeling.DisagreementCutoff),
		Consensus:   service.NewConsensusService(store, queue, hub, metrics),
		Reliability: service.NewReliabilityService(store, dashCache, cfg.Cache.DashboardTTL),
		Retraining:  service.NewRetrainingService(store, queue),
	}

	// --- HTTP ---

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	r := chi.NewRouter()
	r.Use(lfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(lfhttp.Logger)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(limiter.Handler)

	r.Get("/health", healthHandler(queue, hub))
	r.Get("/ws", hub.HandleWS)
	lfhttp.MountRoutes(r, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// healthHandler reports service health including queue connectivity
// and websocket client count.
func healthHandler(queue messagequeue.Queue, hub *ws.Hub) http.HandlerFunc {
	type healthStatus struct {
		Status    string `json:"status"`
		NATS      string `json:"nats"`
		WSClients int    `json:"ws_clients"`
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		natsStatus := "disabled"
		if queue != nil {
			natsStatus = "disconnected"
			if queue.IsConnected() {
				natsStatus = "connected"
			}
		}
		status := healthStatus{
			Status:    "ok",
			NATS:      natsStatus,
			WSClients: hub.ConnectionCount(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
