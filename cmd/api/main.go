package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doorlist/doorlist/internal/http/handlers"
	"github.com/doorlist/doorlist/internal/mailer"
	"github.com/doorlist/doorlist/internal/realtime"
	"github.com/doorlist/doorlist/internal/repo/postgres"
	"github.com/doorlist/doorlist/internal/repo/redisstore"
	"github.com/doorlist/doorlist/internal/service"
	"github.com/doorlist/doorlist/pkg/config"
	"github.com/doorlist/doorlist/pkg/database"
	"github.com/doorlist/doorlist/pkg/events"
	"github.com/doorlist/doorlist/pkg/logger"
	mw "github.com/doorlist/doorlist/pkg/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Optional domain event bus; the service runs without it.
	var bus events.Publisher
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Warn("event bus unavailable, continuing without it", "error", err)
		} else {
			defer natsBus.Close()
			bus = natsBus
		}
	}

	// Optional idempotency store for public registration.
	var idemStore *redisstore.IdempotencyStore
	if cfg.Redis.URL != "" {
		idemStore, err = redisstore.NewIdempotencyStore(cfg.Redis.URL)
		if err != nil {
			logger.Warn("idempotency store unavailable, continuing without it", "error", err)
			idemStore = nil
		} else {
			defer idemStore.Close()
		}
	}

	hub := realtime.NewHub()
	go hub.Run()

	userRepo := postgres.NewUserRepo(pool)
	eventRepo := postgres.NewEventRepo(pool)
	guestRepo := postgres.NewGuestRepo(pool)

	authService := service.NewAuthService(userRepo, cfg)
	eventService := service.NewEventService(eventRepo, bus)
	guestService := service.NewGuestService(guestRepo, eventRepo, bus)
	checkinService := service.NewCheckInService(guestRepo, hub, bus)
	exportService := service.NewExportService(guestRepo, eventRepo)

	h := handlers.New(authService, eventService, guestService, checkinService, exportService,
		mailer.FromConfig(cfg.Email), cfg)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("doorlist"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		MaxAge:         300,
	}))

	r.Post("/login", h.Login)

	r.Route("/events", func(r chi.Router) {
		r.With(h.RequireAuth("")).Post("/", h.CreateEvent)
		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)

		// Public self-service registration
		if idemStore != nil {
			r.With(mw.Idempotency(idemStore)).Post("/{eventID}/guests", h.RegisterGuest)
		} else {
			r.Post("/{eventID}/guests", h.RegisterGuest)
		}

		r.With(h.RequireAuth("")).Get("/{eventID}/guests", h.ListGuests)
		r.With(h.RequireAuth("")).Get("/{eventID}/export", h.ExportGuests)
	})

	r.Route("/guests", func(r chi.Router) {
		r.Use(h.RequireAuth(""))
		r.Put("/{id}", h.UpdateGuest)
		r.Delete("/{id}", h.DeleteGuest)
		r.Post("/{id}/checkin", h.CheckInGuest)
	})

	r.With(h.RequireAuth("")).Post("/send-email", h.SendBulkEmail)

	r.Get("/ws", hub.ServeWS)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		hub.Shutdown()
	}()

	logger.Info("starting doorlist api", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
