package services

import (
	"context"
	"sync"

	"alfredoptarigan/scholarcheck/internal/models"
)

const validResponse = `{
  "acceptanceProbability": 82,
  "overallVerdict": "Strong submission",
  "strengths": ["Novel method"],
  "weaknesses": [],
  "improvementSuggestions": [],
  "journalFit": [],
  "technicalChecklist": []
}`

const fullResponse = `{
  "acceptanceProbability": 55.5,
  "overallVerdict": "Promising but needs work.",
  "strengths": ["Clear motivation", "Large dataset"],
  "weaknesses": ["Weak baselines"],
  "improvementSuggestions": [
    {"section": "Methods", "suggestion": "Add **ablation** studies.", "priority": "High"},
    {"section": "Related Work", "suggestion": "Cite recent surveys.", "priority": "Low"}
  ],
  "journalFit": [
    {"journalName": "Artificial Intelligence", "reasoning": "Core AI contribution.", "fitScore": 74},
    {"journalName": "Pattern Recognition", "reasoning": "Applied focus.", "fitScore": 38}
  ],
  "technicalChecklist": [
    {"item": "Data availability statement", "passed": false, "comment": "Missing."},
    {"item": "Ethics approval", "passed": true, "comment": "Present."}
  ]
}`

// goRunner runs every job on its own goroutine.
type goRunner struct{}

func (goRunner) EnqueueJob(job Job) error {
	go job(context.Background())
	return nil
}

type analyzerFunc func(ctx context.Context, m models.Manuscript) (*models.AnalysisResult, error)

func (f analyzerFunc) AnalyzeManuscript(ctx context.Context, m models.Manuscript) (*models.AnalysisResult, error) {
	return f(ctx, m)
}

type recordingAnalyzer struct {
	mu    sync.Mutex
	calls []models.Manuscript
	fn    analyzerFunc
}

func (r *recordingAnalyzer) AnalyzeManuscript(ctx context.Context, m models.Manuscript) (*models.AnalysisResult, error) {
	r.mu.Lock()
	r.calls = append(r.calls, m)
	r.mu.Unlock()
	return r.fn(ctx, m)
}

func (r *recordingAnalyzer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func mustParse(text string) *models.AnalysisResult {
	result, err := NewResultParser().Parse(text)
	if err != nil {
		panic(err)
	}
	return result
}
