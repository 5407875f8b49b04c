package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/config"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/handler"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/metrics"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/middleware"
	redisRepo "github.com/199-biotechnologies/continuum-clinic-sub000/internal/repository/redis"
	"github.com/199-biotechnologies/continuum-clinic-sub000/internal/service"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/auth/manager"
	"github.com/199-biotechnologies/continuum-clinic-sub000/pkg/database"
)

func main() {
	// .env необязателен: в проде переменные задаёт окружение
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using process environment")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Println("Successfully connected to Redis")

	repos, err := redisRepo.NewRepositories(redisClient)
	if err != nil {
		log.Printf("Failed to initialize repositories: %v", err)
		os.Exit(1)
	}

	// --- Сессии администраторов и клиентов: разные секреты, разные cookie ---
	isProduction := gin.Mode() == gin.ReleaseMode

	adminJWT, err := auth.NewJWTService(auth.RoleAdmin, cfg.JWT.AdminSecret, time.Duration(cfg.JWT.AdminExpiryHours)*time.Hour)
	if err != nil {
		log.Printf("Failed to initialize admin JWTService: %v", err)
		os.Exit(1)
	}
	clientJWT, err := auth.NewJWTService(auth.RoleClient, cfg.JWT.ClientSecret, time.Duration(cfg.JWT.ClientExpiryHours)*time.Hour)
	if err != nil {
		log.Printf("Failed to initialize client JWTService: %v", err)
		os.Exit(1)
	}
	adminTokens, err := manager.NewTokenManager(adminJWT, repos.Sessions)
	if err != nil {
		log.Printf("Failed to initialize admin TokenManager: %v", err)
		os.Exit(1)
	}
	clientTokens, err := manager.NewTokenManager(clientJWT, repos.Sessions)
	if err != nil {
		log.Printf("Failed to initialize client TokenManager: %v", err)
		os.Exit(1)
	}
	adminTokens.SetProductionMode(isProduction)
	clientTokens.SetProductionMode(isProduction)

	// --- Почта ---
	m := metrics.New()
	var sender service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled() {
		resendSender, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize Resend: %v", err)
			os.Exit(1)
		}
		sender = resendSender
	} else {
		log.Println("Warning: RESEND_API_KEY not set, emails will only be logged")
	}
	mailer := service.NewMailer(sender, cfg.Email.To, cfg.Site.URL, m)
	runner := service.NewAsyncRunner(15*time.Second, m)

	// --- Сервисы ---
	analyticsService := service.NewAnalyticsService(repos.Analytics, runner, m, cfg.Analytics.TopN, cfg.Analytics.MaxRangeDays)
	onboardingService := service.NewOnboardingService(repos.Onboarding, repos.Pets)
	consentService := service.NewConsentService(repos.Consents, repos.Pets, onboardingService, m)
	appointmentService := service.NewAppointmentService(repos.Appointments, repos.Pets, mailer, analyticsService, onboardingService, runner, m)
	contactService := service.NewContactService(repos.Contacts, mailer, analyticsService, m)
	clientService := service.NewClientService(repos.Clients, repos.Pets, clientTokens, mailer, runner)
	petService := service.NewPetService(repos.Pets, repos.Clients, onboardingService)
	postService := service.NewPostService(repos.Posts, runner)
	redirectService := service.NewRedirectService(repos.Redirects, runner)
	seoService := service.NewSEOService(repos.SEO)

	authService, err := service.NewAuthService(repos.Admins, repos.Clients, adminTokens, clientTokens)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	if err := authService.SeedAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		log.Printf("Failed to bootstrap admin: %v", err)
		os.Exit(1)
	}

	handlers := &handler.Handlers{
		Auth:         handler.NewAuthHandler(authService, clientService),
		Clients:      handler.NewClientHandler(clientService, petService, consentService, onboardingService),
		Pets:         handler.NewPetHandler(petService, appointmentService),
		Appointments: handler.NewAppointmentHandler(appointmentService),
		Contacts:     handler.NewContactHandler(contactService),
		Consents:     handler.NewConsentHandler(consentService),
		Onboarding:   handler.NewOnboardingHandler(onboardingService),
		Analytics:    handler.NewAnalyticsHandler(analyticsService),
		Content:      handler.NewContentHandler(postService, redirectService, seoService),
		Maintenance:  handler.NewMaintenanceHandler(repos.Reconciler),
		Pages:        handler.NewPageHandler(redirectService, analyticsService, cfg.Server.StaticDir),
	}

	router := gin.Default()

	// В production не доверяем прокси-заголовкам (защита от IP spoofing в rate limit и журнале согласий).
	// За балансировщиком добавьте его IP в список.
	trusted := []string{"127.0.0.1", "::1"}
	if isProduction {
		trusted = nil
	}
	if err := router.SetTrustedProxies(trusted); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(m.Middleware())
	router.GET("/metrics", gin.WrapH(m.Handler()))

	handler.RegisterRoutes(router, handlers, middleware.NewAuthMiddleware(adminTokens, clientTokens), middleware.NewRateLimiter(redisClient))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	// Письма и счётчики, запущенные в фоне, дописываем до закрытия Redis
	runner.Wait(shutdownCtx)

	log.Println("Server exited properly")
}
