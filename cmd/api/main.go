package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Ardalan81/elyassi-exchange/internal/auth"
	"github.com/Ardalan81/elyassi-exchange/internal/cache"
	"github.com/Ardalan81/elyassi-exchange/internal/config"
	"github.com/Ardalan81/elyassi-exchange/internal/handlers"
	"github.com/Ardalan81/elyassi-exchange/internal/middleware"
	"github.com/Ardalan81/elyassi-exchange/internal/notifications"
	"github.com/Ardalan81/elyassi-exchange/internal/rates"
	"github.com/Ardalan81/elyassi-exchange/internal/store"
	"github.com/Ardalan81/elyassi-exchange/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	documentStore := store.New(cfg.StorePath)
	if err := documentStore.Ensure(); err != nil {
		logger.Error("store init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("store ready", slog.String("path", cfg.StorePath))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ratesTTL := time.Duration(cfg.RatesCacheTTLSec) * time.Second
	var availabilityCache cache.Cache = cache.NewMemory(256, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	var ratesCache cache.Cache = cache.NewMemory(8, ratesTTL)
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		availabilityCache = redisCache
		ratesCache = redisCache
	}

	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "elyassi-exchange",
		}
	}
	if cfg.AdminAPIKey == "" && jwtManager == nil {
		logger.Warn("admin surface is open: set ADMIN_API_KEY or JWT_SECRET to protect it")
	}

	server := &handlers.Server{
		Cfg:    cfg,
		Store:  documentStore,
		Val:    validation.New(),
		Log:    logger,
		Cache:  availabilityCache,
		Quoter: rates.NewQuoter(cfg.RatesAPIURL, ratesCache, ratesTTL),
	}

	if mailer := notifications.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.PublicBaseURL); mailer != nil {
		server.Mailer = mailer
		logger.Info("smtp mailer enabled", slog.String("host", cfg.SMTPHost))
	} else {
		logger.Info("smtp mailer disabled")
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	if cfg.FrontendOrigin != "" {
		r.Use(middleware.CORS(cfg.FrontendOrigin))
	}
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	bookingLimiter := middleware.NewRateLimiter(cfg.RateLimitAppointments, time.Duration(cfg.RateLimitWindowSec)*time.Second)
	adminAuth := middleware.AdminAuth(cfg.AdminAPIKey, jwtManager)

	r.Route("/api", func(api chi.Router) {
		api.Get("/config", server.GetConfig)
		api.Get("/blocked-dates", server.ListBlockedDates)
		api.Get("/availability", server.GetAvailability)
		api.Get("/rates", server.GetRates)
		api.Get("/queue", server.GetQueue)

		api.With(bookingLimiter.Middleware).Post("/appointments", server.CreateAppointment)
		api.Get("/appointments/search", server.SearchAppointments)
		api.Get("/appointments/{id}", server.GetAppointment)
		api.Patch("/appointments/{id}/reschedule", server.RescheduleAppointment)
		api.Post("/appointments/{id}/cancel", server.CancelAppointment)

		api.Route("/admin", func(admin chi.Router) {
			admin.Post("/login", server.AdminLogin)
			admin.Post("/refresh", server.AdminRefresh)
			admin.Post("/logout", server.AdminLogout)

			// chi: middlewares must be attached before routes, so the
			// protected endpoints live on a sub-router.
			admin.Group(func(protected chi.Router) {
				protected.Use(adminAuth)
				protected.Post("/blocked-dates", server.CreateBlockedDate)
				protected.Delete("/blocked-dates/{date}", server.DeleteBlockedDate)
				protected.Get("/appointments", server.AdminListAppointments)
				protected.Patch("/appointments/{id}", server.AdminUpdateAppointment)
			})
		})
	})

	// Legacy client paths for blocked-date management.
	r.With(adminAuth).Post("/api/blocked-dates", server.CreateBlockedDate)
	r.With(adminAuth).Delete("/api/blocked-dates/{date}", server.DeleteBlockedDate)

	if info, err := os.Stat(cfg.PublicDir); err == nil && info.IsDir() {
		r.Handle("/*", http.FileServer(http.Dir(cfg.PublicDir)))
	}

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
