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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/workhub/paysnap/handler"
	"github.com/workhub/paysnap/infra/config"
	"github.com/workhub/paysnap/infra/logger"
	"github.com/workhub/paysnap/infra/middle"
	"github.com/workhub/paysnap/infra/opensearch"
	"github.com/workhub/paysnap/infra/store"
	"github.com/workhub/paysnap/payment"
	"github.com/workhub/paysnap/provider"
	"github.com/workhub/paysnap/router"

	// Import for side-effect registration
	_ "github.com/workhub/paysnap/provider/midtrans"
)

var openSearchLogger *opensearch.Logger

func init() {
	// Load Env; a missing .env file is fine in containerized deployments
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}
	_ = config.App()

	cfg := config.GetAppConfig()
	if cfg.EnableLogging {
		osClient, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("Failed to initialize OpenSearch client: %v", err)
			log.Println("Continuing without OpenSearch logging...")
		} else {
			openSearchLogger = opensearch.NewLogger(osClient)
			log.Println("OpenSearch logging initialized successfully")
		}
	} else {
		log.Println("OpenSearch logging is disabled")
	}

	logger.InitGlobalLogger(openSearchLogger)
}

func main() {
	cfg := config.GetAppConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.SandboxKeyMismatch() {
		logger.Warn("midtrans keys do not match the configured environment, check merchant credentials")
	}

	db, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open payment store: %v", err)
	}
	defer db.Close()

	seeded, err := db.SeedPlansFromFile(context.Background(), cfg.PlansFile)
	if err != nil {
		log.Fatalf("Failed to seed plans: %v", err)
	}
	if seeded > 0 {
		logger.Info("seeded plan catalog", logger.LogContext{
			Fields: map[string]any{"plans": seeded, "file": cfg.PlansFile},
		})
	}

	environment := "sandbox"
	if cfg.Production {
		environment = "production"
	}

	gateway, err := provider.CreateProvider("midtrans")
	if err != nil {
		log.Fatalf("Failed to create payment provider: %v", err)
	}
	providerCfg := map[string]string{
		"serverKey":      cfg.ServerKey,
		"clientKey":      cfg.ClientKey,
		"environment":    environment,
		"frontendOrigin": cfg.FrontendOrigin,
	}
	if err := gateway.ValidateConfig(providerCfg); err != nil {
		log.Fatalf("Invalid payment provider configuration: %v", err)
	}
	if err := gateway.Initialize(providerCfg); err != nil {
		log.Fatalf("Failed to initialize payment provider: %v", err)
	}

	paymentService := payment.NewService("midtrans", gateway, db, db, openSearchLogger)
	paymentHandler := handler.NewPaymentHandler(paymentService, config.App().Validator)
	healthHandler := handler.NewHealthHandler(db.DB(), openSearchClient())

	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           300, // Preflight cache time (second)
	}))

	router.Routes(r, router.Deps{
		Payment: paymentHandler,
		Health:  healthHandler,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("paysnap listening", logger.LogContext{
			Fields: map[string]any{"port": cfg.Port, "environment": environment},
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

func openSearchClient() *opensearch.Client {
	if openSearchLogger == nil {
		return nil
	}
	return openSearchLogger.Client()
}
