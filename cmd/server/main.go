package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/acarlson33/repo-version-checker/internal/config"
	"github.com/acarlson33/repo-version-checker/internal/github"
	"github.com/acarlson33/repo-version-checker/internal/handlers"
	"github.com/acarlson33/repo-version-checker/internal/logging"
	"github.com/acarlson33/repo-version-checker/internal/middleware"
	"github.com/acarlson33/repo-version-checker/internal/preflight"
	"github.com/acarlson33/repo-version-checker/internal/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// Initialize structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting version check server...")

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, Repository: %s)", cfg.Port, cfg.Repository())

	results := preflight.NewChecker(cfg).RunAll()
	if preflight.HasFailures(results) {
		log.Println("❌ Pre-flight checks failed. Please fix the issues above before starting the server.")
		os.Exit(1)
	}

	services.InitMetrics()
	log.Println("✅ Prometheus metrics initialized")

	githubClient := github.NewClient(github.ClientConfig{
		BaseURL:   cfg.GitHubAPIURL,
		Token:     cfg.GitHubToken,
		Timeout:   cfg.GitHubTimeout,
		RateLimit: cfg.GitHubRateLimitRPS,
		RateBurst: cfg.GitHubRateLimitBurst,
	})
	checkService := services.NewVersionCheckService(cfg.RepoOwner, cfg.RepoName, githubClient)

	app := fiber.New(fiber.Config{
		AppName:      "repo-version-checker",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    64 * 1024, // the body only carries a version string
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	prometheus := fiberprometheus.New("versioncheck")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// Credentials are never needed: the endpoint is public and stateless
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	log.Printf("🔒 [SECURITY] CORS allowed origins: %s", cfg.AllowedOrigins)

	rateLimitConfig := middleware.LoadRateLimitConfig()
	checkLimiter := middleware.VersionCheckRateLimiter(rateLimitConfig)
	log.Printf("🛡️  [RATE-LIMIT] Version checks limited to %d/min per IP", rateLimitConfig.CheckMax)

	healthHandler := handlers.NewHealthHandler(checkService)
	checkHandler := handlers.NewVersionCheckHandler(checkService)

	app.Get("/health", healthHandler.Handle)
	app.Post("/", checkLimiter, checkHandler.Handle)
	app.Post("/api/version/check", checkLimiter, checkHandler.Handle)

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("🛑 Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Error shutting down server: %v", err)
		}
	}()

	log.Printf("✅ Listening on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
