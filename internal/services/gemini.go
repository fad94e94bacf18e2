package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"alfredoptarigan/scholarcheck/internal/models"
)

// Analyzer turns a manuscript into a validated verdict. Implementations make
// at most one provider round trip per call.
type Analyzer interface {
	AnalyzeManuscript(ctx context.Context, manuscript models.Manuscript) (*models.AnalysisResult, error)
}

type GeminiService interface {
	Analyzer
	Model() string
}

// contentGenerator is the subset of genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiService struct {
	models        contentGenerator
	modelName     string
	temperature   float32
	promptBuilder *PromptBuilder
	parser        *ResultParser
}

func NewGeminiService(apiKey, modelName string, temperature float32) (GeminiService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is empty")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiService(client.Models, modelName, temperature), nil
}

func newGeminiService(generator contentGenerator, modelName string, temperature float32) *geminiService {
	return &geminiService{
		models:        generator,
		modelName:     modelName,
		temperature:   temperature,
		promptBuilder: NewPromptBuilder(),
		parser:        NewResultParser(),
	}
}

func (g *geminiService) Model() string {
	return g.modelName
}

// AnalyzeManuscript implements Analyzer.
func (g *geminiService) AnalyzeManuscript(ctx context.Context, manuscript models.Manuscript) (*models.AnalysisResult, error) {
	contents := g.promptBuilder.BuildReviewContents(manuscript.Data, manuscript.MimeType)
	config := g.promptBuilder.BuildReviewConfig(g.temperature)

	log.Printf("🤖 Sending %q (%s, %d bytes) to %s\n", manuscript.FileName, manuscript.MimeType, manuscript.Size(), g.modelName)

	resp, err := g.models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return nil, newAnalysisError(ErrTransport, fmt.Errorf("failed to generate review: %w", err))
	}
	if resp == nil {
		log.Println("❌ Gemini API returned nil response")
		return nil, newAnalysisError(ErrTransport, errors.New("no response generated (nil response)"))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		reason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			reason = string(resp.Candidates[0].FinishReason)
		}
		log.Printf("❌ No text content in response (finish reason: %s)\n", reason)
		return nil, newAnalysisError(ErrEmptyResponse, fmt.Errorf("no text content in response (finish reason: %s)", reason))
	}

	log.Printf("📊 Gemini response received: %d characters\n", len(text))

	result, err := g.parser.Parse(text)
	if err != nil {
		log.Printf("❌ Failed to parse Gemini response: %v\nResponse: %s\n", err, text)
		return nil, err
	}

	return result, nil
}
