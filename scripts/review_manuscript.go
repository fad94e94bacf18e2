package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"alfredoptarigan/scholarcheck/internal/config"
	"alfredoptarigan/scholarcheck/internal/models"
	"alfredoptarigan/scholarcheck/internal/services"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: review_manuscript <manuscript.pdf>")
		os.Exit(2)
	}
	os.Exit(run(os.Args[1]))
}

// run returns the process exit code.
func run(path string) int {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Printf("❌ Invalid configuration: %v", err)
		return 1
	}

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature)
	if err != nil {
		log.Printf("❌ Failed to initialize Gemini: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := services.NewWorker(1, 1)
	worker.Start(ctx)
	defer worker.Stop()

	controller := services.NewController(geminiService, worker, cfg.Worker.AnalysisTimeout)

	log.Printf("📄 Reviewing %s with %s", path, geminiService.Model())
	controller.Submit(ctx, services.NewFileSource(path))

	state, err := controller.Wait(ctx)
	if err != nil {
		controller.Reset()
		log.Printf("🛑 Review interrupted: %v", err)
		return 1
	}

	if state.Phase == models.PhaseFailed {
		log.Printf("❌ Analysis Failed: %s", state.Error)
		return 1
	}

	renderer := services.NewReportRenderer()
	report := renderer.Render(state.Result)

	fmt.Println(strings.Repeat("=", 60))
	fmt.Print(renderer.RenderText(report))
	fmt.Println(strings.Repeat("=", 60))
	return 0
}
