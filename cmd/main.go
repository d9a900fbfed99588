// @title Opto Backend API
// @version 1.0
// @description Opto Backend API for the social personal-finance app
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3001
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/cors"

	_ "opto-backend/docs" // This is required for swagger
	"opto-backend/internal/config"
	"opto-backend/internal/handlers"
	"opto-backend/internal/routes"
	"opto-backend/internal/store"
	"opto-backend/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// pgxpool with simple protocol (needed when connecting through PgBouncer)
	poolCfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		log.Fatalf("parse dsn: %v", err)
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "opto-backend"
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	// Ping on boot
	{
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("ping: %v", err)
		}
	}

	users := store.NewUserStore(pool)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := users.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	txs, err := store.NewTransactionStore(cfg.Data.TransactionsFile)
	if err != nil {
		log.Fatalf("transaction store: %v", err)
	}

	emailService := utils.NewEmailService(&cfg.Email)
	openaiClient := openai.NewClient(option.WithAPIKey(cfg.OpenAI.APIKey))

	// Initialize handlers
	h := routes.Handlers{
		Auth:           handlers.NewAuthHandler(users, &cfg.JWT),
		Profiles:       handlers.NewProfileHandler(users, &cfg.Upload),
		Transactions:   handlers.NewTransactionHandler(txs),
		Chat:           handlers.NewChatHandler(openaiClient, &cfg.OpenAI),
		ForgotPassword: handlers.NewForgotPasswordHandler(users, emailService, &cfg.JWT),
		GoogleAuth:     handlers.NewGoogleAuthHandler(users, &cfg.GoogleOAuth, &cfg.JWT),
		Health:         handlers.NewHealthHandler(pool),
	}

	mux := routes.SetupRoutes(h, cfg)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for SIGINT/SIGTERM for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped.")
}
