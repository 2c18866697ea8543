// Copyright (c) 2025-2026 SarangXanh
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sarangxanh/site/internal/auth"
	"github.com/sarangxanh/site/internal/cache"
	"github.com/sarangxanh/site/internal/config"
	"github.com/sarangxanh/site/internal/handler"
	"github.com/sarangxanh/site/internal/imaging"
	"github.com/sarangxanh/site/internal/logging"
	"github.com/sarangxanh/site/internal/middleware"
	"github.com/sarangxanh/site/internal/platform"
	"github.com/sarangxanh/site/internal/render"
	"github.com/sarangxanh/site/internal/scheduler"
	"github.com/sarangxanh/site/internal/service"
	"github.com/sarangxanh/site/internal/session"
	"github.com/sarangxanh/site/internal/store"
	"github.com/sarangxanh/site/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// crudHandlers defines the standard admin CRUD handler methods.
type crudHandlers struct {
	List     http.HandlerFunc
	NewForm  http.HandlerFunc
	Create   http.HandlerFunc
	EditForm http.HandlerFunc
	Update   http.HandlerFunc
	Delete   http.HandlerFunc
}

// registerCRUD registers standard admin CRUD routes for a resource.
// Routes: GET base, GET base/new, POST base, GET base/{id}, POST base/{id},
// POST base/{id}/delete (HTML forms can't send PUT or DELETE).
func registerCRUD(r chi.Router, base string, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+"/new", h.NewForm)
	r.Post(base, h.Create)
	r.Get(base+"/{id}", h.EditForm)
	r.Post(base+"/{id}", h.Update)
	r.Post(base+"/{id}/delete", h.Delete)
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sarangxanh %s (commit %s, built %s)\n", appVersion, appGitCommit, appBuildTime)
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	var baseHandler slog.Handler
	if cfg.IsDevelopment() {
		baseHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		baseHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(baseHandler)
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Local database holds sessions and the event log; all domain data
	// lives on the hosted platform.
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also persist WARN and ERROR records to the event log
	logger = slog.New(logging.NewEventLogHandler(baseHandler, db))
	slog.SetDefault(logger)

	sessionManager := session.New(db, cfg.IsDevelopment())

	// Hosted platform client (data API, auth, storage, functions)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	client := platform.New(platform.Options{
		BaseURL:    cfg.PlatformURL,
		AnonKey:    cfg.PlatformAnonKey,
		ServiceKey: cfg.PlatformServiceKey,
		Metrics:    platform.NewMetrics(registry),
	})

	cacheBackend, err := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxEntries: cfg.CacheMaxSize,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	if cfg.UseRedisCache() {
		slog.Info("cache backend ready", "backend", "redis")
	} else {
		slog.Info("cache backend ready", "backend", "memory")
	}

	statsCache := cache.NewStatsCache(cacheBackend, time.Duration(cfg.CacheTTL)*time.Second)

	// Services
	contentService := service.NewContentService(client)
	statsService := service.NewStatsService(client, statsCache)
	outreachService := service.NewOutreachService(client)
	uploadService := service.NewUploadService(
		imaging.NewProcessor(imaging.Options{}),
		client.Storage(cfg.StorageBucket),
		logger,
	)

	// Periodic stats cache warming
	sched := scheduler.New(statsService, logger)
	if err := sched.Start(cfg.StatsWarmSchedule); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	checkout := platform.NewCheckout(cfg.CheckoutURL, cfg.CheckoutSecret, cfg.BaseURL)
	if cfg.CheckoutEnabled() {
		slog.Info("donation checkout enabled")
	}

	resolver := auth.NewResolver(auth.NewProfileService(client.DataAsService()))
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	// Handlers
	publicHandler := handler.NewPublicHandler(renderer, contentService, statsService, logger)
	outreachHandler := handler.NewOutreachHandler(renderer, outreachService, checkout, logger)
	authHandler := handler.NewAuthHandler(client.Auth(), resolver, renderer, sessionManager, loginProtection, cfg.BaseURL, logger)
	adminHandler := handler.NewAdminHandler(renderer, contentService, statsService, outreachService, logger)
	timelineHandler := handler.NewTimelineHandler(renderer, contentService, uploadService, logger)
	statsHandler := handler.NewStatsHandler(renderer, statsService, logger)
	galleryHandler := handler.NewGalleryHandler(renderer, contentService, uploadService, logger)
	researchHandler := handler.NewResearchHandler(renderer, contentService, logger)
	membersHandler := handler.NewMembersHandler(renderer, contentService, uploadService, logger)
	outreachAdmin := handler.NewOutreachAdminHandler(renderer, outreachService, logger)

	formLimiter := middleware.NewFormRateLimiter(0.2, 5)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment(), cfg.PlatformURL)))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadAuthState(middleware.AuthDeps{
		Sessions: sessionManager,
		Platform: client,
		Log:      logger,
	}))
	r.Use(middleware.RequestPath)

	// Static assets and metrics
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("loading static assets: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Public pages
	r.Get(handler.RouteRoot, publicHandler.Home)
	r.Get("/about", publicHandler.About)
	r.Get("/shop", publicHandler.Shop)
	r.Get("/members", publicHandler.Members)
	r.Get("/data", publicHandler.Data)
	r.Get("/gallery", publicHandler.Gallery)
	r.Get("/research", publicHandler.Research)

	// Volunteer applications and donations
	r.Get(handler.RouteApply, outreachHandler.ApplyForm)
	r.With(formLimiter.Middleware()).Post(handler.RouteApply, outreachHandler.ApplySubmit)
	r.Get(handler.RouteDonate, outreachHandler.Donate)
	r.With(formLimiter.Middleware()).Post("/donate/notify", outreachHandler.DonateNotify)
	r.With(formLimiter.Middleware()).Post("/donate/checkout", outreachHandler.DonateCheckout)

	// Authentication
	r.Get(handler.RouteLogin, authHandler.LoginForm)
	r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
	r.Get("/login/oauth/{provider}", authHandler.OAuthStart)
	r.Get("/auth/callback", authHandler.OAuthCallback)
	r.Get(handler.RouteRegister, authHandler.RegisterForm)
	r.With(formLimiter.Middleware()).Post(handler.RouteRegister, authHandler.Register)
	r.Post("/logout", authHandler.Logout)

	// Sign-in only: the profile-completion form must stay reachable for
	// users whose profile is still incomplete.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Guard(auth.Requirements{}))
		r.Get(handler.RouteCompleteProfile, authHandler.CompleteProfileForm)
		r.Post(handler.RouteCompleteProfile, authHandler.CompleteProfile)
	})

	// Admin console
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(middleware.RequireAdmin())
		var renderPanic func(http.ResponseWriter, *http.Request, error)
		if cfg.IsDevelopment() {
			renderPanic = func(w http.ResponseWriter, _ *http.Request, err error) {
				fmt.Fprintf(w, "admin page panic: %v\n", err)
			}
		}
		r.Use(middleware.AdminRecoverer(logger, renderPanic))

		r.Get("/", adminHandler.Dashboard)

		registerCRUD(r, "/timeline", crudHandlers{
			List:     timelineHandler.List,
			NewForm:  timelineHandler.NewForm,
			Create:   timelineHandler.Create,
			EditForm: timelineHandler.EditForm,
			Update:   timelineHandler.Update,
			Delete:   timelineHandler.Delete,
		})
		registerCRUD(r, "/research", crudHandlers{
			List:     researchHandler.List,
			NewForm:  researchHandler.NewForm,
			Create:   researchHandler.Create,
			EditForm: researchHandler.EditForm,
			Update:   researchHandler.Update,
			Delete:   researchHandler.Delete,
		})
		registerCRUD(r, "/members", crudHandlers{
			List:     membersHandler.List,
			NewForm:  membersHandler.NewForm,
			Create:   membersHandler.Create,
			EditForm: membersHandler.EditForm,
			Update:   membersHandler.Update,
			Delete:   membersHandler.Delete,
		})

		r.Get("/stats", statsHandler.List)
		r.Post("/stats", statsHandler.Save)
		r.Post("/stats/delete", statsHandler.Delete)

		r.Get("/gallery", galleryHandler.List)
		r.Post("/gallery", galleryHandler.Upload)
		r.Post("/gallery/{id}/delete", galleryHandler.Delete)

		r.Get("/applications", outreachAdmin.Applications)
		r.Post("/applications/{id}/delete", outreachAdmin.DeleteApplication)
		r.Get("/donations", outreachAdmin.Donations)
		r.Post("/donations/{id}/delete", outreachAdmin.DeleteDonation)
	})

	r.NotFound(publicHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", appVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
