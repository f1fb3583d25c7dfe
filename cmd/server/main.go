package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finbot-backend/internal/config"
	"finbot-backend/internal/database"
	"finbot-backend/internal/finbot"
	"finbot-backend/internal/handlers"
	"finbot-backend/internal/repository"
	"finbot-backend/internal/router"
	"finbot-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting FinanceBot...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	if cfg.GeminiAPIKey == "" {
		log.Fatal("✗ GEMINI_API_KEY is required")
	}
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("✗ Data directory setup failed: %v", err)
	}
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Open Finance Ledger ────
	db, err := database.NewSQLite(cfg.LedgerPath)
	if err != nil {
		log.Fatalf("✗ Ledger open failed: %v", err)
	}
	defer db.Close()
	log.Println("✓ Ledger opened")

	if cfg.SeedDemoData {
		seeded, err := database.SeedDemoData(db)
		if err != nil {
			log.Fatalf("✗ Ledger seed failed: %v", err)
		}
		if seeded {
			log.Println("✓ Demo ledger data seeded")
		}
	}

	// ──── Step 3: Initialize Gemini Planner ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini planner initialized")

	// ──── Step 4: Wire Repositories and Tool Belt ────
	chatRepo := repository.NewChatRepo(cfg.ChatDir)
	financeRepo := repository.NewFinanceRepo(db)
	engine := finbot.NewEngine(geminiService, geminiService, financeRepo, cfg.ChartDir)
	log.Printf("✓ Tool belt ready (%d tools)", len(engine.ToolNames()))

	// ──── Step 5: Start HTTP Server ────
	chatHandler := handlers.NewChatHandler(chatRepo, engine, cfg.MediaDir, cfg.ChartDir)
	r := router.New(chatHandler, cfg.ChatRateLimit)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ FinanceBot ready on http://localhost:%s", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
