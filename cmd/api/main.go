package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/scholarcheck/internal/config"
	"alfredoptarigan/scholarcheck/internal/handlers"
	"alfredoptarigan/scholarcheck/internal/repositories"
	"alfredoptarigan/scholarcheck/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}
	log.Println("✅ Config loaded successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Printf("✅ Gemini AI initialized with model %s\n", geminiService.Model())

	renderer := services.NewReportRenderer()
	pdfInspector := services.NewPDFInspectorService()
	log.Println("✅ Services initialized successfully")

	// Initialize worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := services.NewWorker(cfg.Worker.Concurrency, cfg.Worker.QueueSize)
	worker.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Initialize session repository
	sessionRepo := repositories.NewSessionRepository(cfg.Session.MaxSessions)
	sessionRepo.StartEviction(ctx, cfg.Session.TTL, cfg.Session.SweepInterval)
	log.Println("✅ Session repository initialized")

	newController := func() *services.Controller {
		return services.NewController(geminiService, worker, cfg.Worker.AnalysisTimeout)
	}

	// Initialize Handlers
	sessionHandler := handlers.NewSessionHandler(sessionRepo, renderer, newController)
	uploadHandler := handlers.NewUploadHandler(sessionRepo, pdfInspector, cfg.Storage.MaxFileSize)
	log.Println("✅ Handlers initialized")

	app := handlers.NewApp(cfg.Storage.MaxFileSize)
	handlers.SetupRoutes(app, sessionHandler, uploadHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		sessionRepo.Stop()
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
