package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"konstruksi-backend/internal/auth"
	"konstruksi-backend/internal/cache"
	"konstruksi-backend/internal/config"
	"konstruksi-backend/internal/db"
	"konstruksi-backend/internal/handlers"
	"konstruksi-backend/internal/inquiries"
	"konstruksi-backend/internal/insights"
	"konstruksi-backend/internal/markdown"
	"konstruksi-backend/internal/media"
	"konstruksi-backend/internal/middleware"
	"konstruksi-backend/internal/notifications"
	"konstruksi-backend/internal/pages"
	"konstruksi-backend/internal/products"
	"konstruksi-backend/internal/projects"
	"konstruksi-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	redisCfg := cache.RedisConfig{
		URL:      cfg.RedisURL,
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   cfg.RedisPrefix,
	}
	if redisCfg.Enabled() {
		redisCache, err := cache.NewRedis(redisCfg)
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected", slog.String("prefix", redisCfg.Prefix))
		defer redisCache.Close()
		cacheStore = redisCache
	} else {
		logger.Info("redis disabled, caching off")
	}

	var (
		projectRepo projects.ProjectRepository = projects.NewMongoProjectRepository(cols.Projects)
		galleryRepo projects.GalleryRepository = projects.NewMongoGalleryRepository(cols.GalleryProjects)
	)
	if cfg.ProjectsStore == config.ProjectsStorePostgres {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("postgres connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.EnsureProjectsSchema(ctx, pool); err != nil {
			logger.Error("postgres schema failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		projectRepo = projects.NewPgProjectRepository(pool)
		galleryRepo = projects.NewPgGalleryRepository(pool)
		logger.Info("postgres connected, serving projects from postgres")
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL(), "konstruksi-backend")
	if jwtManager == nil {
		logger.Warn("jwt secret missing, cookie sessions disabled")
	}

	// A nil *BrevoClient must not reach the Notifier interface.
	var notifier inquiries.Notifier
	mailer := notifications.NewBrevoClient(notifications.BrevoConfig{
		APIKey:      cfg.BrevoAPIKey,
		SenderEmail: cfg.BrevoSenderEmail,
		SenderName:  cfg.BrevoSenderName,
		SalesEmail:  cfg.SalesNotifyEmail,
		Sandbox:     cfg.BrevoSandbox,
	})
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		notifier = mailer
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail), slog.Bool("sandbox", cfg.BrevoSandbox))
	}

	val := validation.New()
	images := media.NewResolver(cfg.ImageBaseURL, cfg.ImagePlaceholder)
	renderer := markdown.New()

	server := &handlers.Server{
		Cfg:    cfg,
		Users:  handlers.NewMongoUserStore(cols.Users),
		Val:    val,
		Log:    logger,
		Tokens: jwtManager,
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}

	projectsService := projects.NewService(projects.ServiceConfig{
		Projects: projectRepo,
		Gallery:  galleryRepo,
		Cache:    cacheStore,
		CacheTTL: cfg.CacheTTL(),
		Location: cfg.Timezone,
		Images:   images,
		Markdown: renderer,
	})
	projectsHandler := projects.NewHandler(projectsService, val, logger)

	productsService := products.NewService(products.NewRepository(cols.Products), cacheStore, cfg.CacheTTL(), cfg.Timezone, images)
	productsHandler := products.NewHandler(productsService, val, logger)

	insightsService := insights.NewService(insights.NewRepository(cols.Insights), cacheStore, cfg.CacheTTL(), cfg.Timezone, images, renderer)
	insightsHandler := insights.NewHandler(insightsService, val, logger)

	pagesService := pages.NewService(pages.NewRepository(cols.Pages), cacheStore, cfg.CacheTTL(), cfg.Timezone, images)
	pagesHandler := pages.NewHandler(pagesService, val, logger)

	inquiriesService := inquiries.NewService(inquiries.NewRepository(cols.Inquiries), cfg.Timezone, notifier)
	inquiriesHandler := inquiries.NewHandler(inquiriesService, val, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	inquiriesLimiter := middleware.NewRateLimiter(cfg.RateLimitInquiries, cfg.RateLimitWindow())
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitLogin, cfg.RateLimitWindow())
	adminAuth := middleware.AdminAuth(cfg.AdminAPIKey, jwtManager)

	r.Get("/healthz", server.Healthz)
	r.Get("/readyz", server.Readyz)

	r.Route("/api/v1", func(api chi.Router) {
		// The gallery route is registered before {slug} so "gallery" is never
		// read as a project slug.
		api.Get("/projects/gallery", projectsHandler.PublicGallery)
		api.Get("/projects/{slug}", projectsHandler.PublicGetBySlug)

		api.Get("/products", productsHandler.PublicList)
		api.Get("/products/{slug}", productsHandler.PublicGetBySlug)

		api.Get("/insights", insightsHandler.PublicList)
		api.Get("/insights/{slug}", insightsHandler.PublicGetBySlug)

		api.Get("/pages/{key}", pagesHandler.PublicGet)

		api.With(inquiriesLimiter.Middleware).Post("/inquiries", inquiriesHandler.Create)

		api.Route("/admin", func(admin chi.Router) {
			admin.With(loginLimiter.Middleware).Post("/login", server.AdminLogin)
			admin.With(loginLimiter.Middleware).Post("/register", server.AdminRegister)
			admin.Post("/refresh", server.AdminRefresh)
			admin.Post("/logout", server.AdminLogout)

			admin.Group(func(protected chi.Router) {
				protected.Use(adminAuth)
				protected.Get("/session", server.AdminSession)
				protected.Post("/users", server.AdminCreateUser)
				protected.Patch("/users/{id}/password", server.AdminUpdateUserPassword)

				protected.Get("/projects", projectsHandler.AdminList)
				protected.Post("/projects", projectsHandler.AdminCreate)
				protected.Put("/projects/{id}", projectsHandler.AdminUpdate)
				protected.Delete("/projects/{id}", projectsHandler.AdminDelete)

				protected.Get("/gallery-projects", projectsHandler.AdminGalleryList)
				protected.Post("/gallery-projects", projectsHandler.AdminGalleryCreate)
				protected.Put("/gallery-projects/{id}", projectsHandler.AdminGalleryUpdate)
				protected.Delete("/gallery-projects/{id}", projectsHandler.AdminGalleryDelete)

				protected.Get("/products", productsHandler.AdminList)
				protected.Post("/products", productsHandler.AdminCreate)
				protected.Put("/products/{id}", productsHandler.AdminUpdate)
				protected.Delete("/products/{id}", productsHandler.AdminDelete)

				protected.Get("/insights", insightsHandler.AdminList)
				protected.Post("/insights", insightsHandler.AdminCreate)
				protected.Put("/insights/{id}", insightsHandler.AdminUpdate)
				protected.Delete("/insights/{id}", insightsHandler.AdminDelete)

				protected.Get("/pages", pagesHandler.AdminList)
				protected.Put("/pages/{key}", pagesHandler.AdminUpsert)

				protected.Get("/inquiries", inquiriesHandler.AdminList)
				protected.Get("/inquiries/{id}", inquiriesHandler.AdminGetByID)
				protected.Patch("/inquiries/{id}", inquiriesHandler.AdminUpdateStatus)
			})
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	inquiriesHandler.Wait()
	logger.Info("server stopped")
}
