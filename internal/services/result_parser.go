package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"alfredoptarigan/scholarcheck/internal/models"
)

// analysisPayload mirrors the response schema with pointer fields, so a
// missing key and a zero value can be told apart.
type analysisPayload struct {
	AcceptanceProbability  *float64            `json:"acceptanceProbability" validate:"required"`
	OverallVerdict         *string             `json:"overallVerdict" validate:"required"`
	Strengths              []*string           `json:"strengths" validate:"required,dive,required"`
	Weaknesses             []*string           `json:"weaknesses" validate:"required,dive,required"`
	ImprovementSuggestions []suggestionPayload `json:"improvementSuggestions" validate:"required,dive"`
	JournalFit             []journalFitPayload `json:"journalFit" validate:"required,dive"`
	TechnicalChecklist     []checklistPayload  `json:"technicalChecklist" validate:"required,dive"`
}

type suggestionPayload struct {
	Section    *string `json:"section" validate:"required"`
	Suggestion *string `json:"suggestion" validate:"required"`
	Priority   *string `json:"priority" validate:"required,oneof=High Medium Low"`
}

type journalFitPayload struct {
	JournalName *string  `json:"journalName" validate:"required"`
	Reasoning   *string  `json:"reasoning" validate:"required"`
	FitScore    *float64 `json:"fitScore" validate:"required"`
}

type checklistPayload struct {
	Item    *string `json:"item" validate:"required"`
	Passed  *bool   `json:"passed" validate:"required"`
	Comment *string `json:"comment" validate:"required"`
}

type ResultParser struct {
	validate *validator.Validate
}

func NewResultParser() *ResultParser {
	return &ResultParser{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Parse turns provider text into a schema-valid result. Any deviation from
// the schema yields ErrMalformedResponse; there is no partial result.
func (p *ResultParser) Parse(text string) (*models.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, newAnalysisError(ErrEmptyResponse, nil)
	}

	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, newAnalysisError(ErrMalformedResponse, err)
	}

	var payload *analysisPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, newAnalysisError(ErrMalformedResponse, fmt.Errorf("failed to unmarshal JSON: %w", err))
	}
	if payload == nil {
		return nil, newAnalysisError(ErrMalformedResponse, errors.New("response is null"))
	}

	if err := p.validate.Struct(payload); err != nil {
		return nil, newAnalysisError(ErrMalformedResponse, describeValidationError(err))
	}

	return payload.toResult(), nil
}

func (a *analysisPayload) toResult() *models.AnalysisResult {
	result := &models.AnalysisResult{
		AcceptanceProbability:  *a.AcceptanceProbability,
		OverallVerdict:         *a.OverallVerdict,
		Strengths:              derefStrings(a.Strengths),
		Weaknesses:             derefStrings(a.Weaknesses),
		ImprovementSuggestions: make([]models.ImprovementSuggestion, 0, len(a.ImprovementSuggestions)),
		JournalFit:             make([]models.JournalFit, 0, len(a.JournalFit)),
		TechnicalChecklist:     make([]models.ChecklistItem, 0, len(a.TechnicalChecklist)),
	}

	for _, s := range a.ImprovementSuggestions {
		result.ImprovementSuggestions = append(result.ImprovementSuggestions, models.ImprovementSuggestion{
			Section:    *s.Section,
			Suggestion: *s.Suggestion,
			Priority:   models.Priority(*s.Priority),
		})
	}
	for _, j := range a.JournalFit {
		result.JournalFit = append(result.JournalFit, models.JournalFit{
			JournalName: *j.JournalName,
			Reasoning:   *j.Reasoning,
			FitScore:    *j.FitScore,
		})
	}
	for _, c := range a.TechnicalChecklist {
		result.TechnicalChecklist = append(result.TechnicalChecklist, models.ChecklistItem{
			Item:    *c.Item,
			Passed:  *c.Passed,
			Comment: *c.Comment,
		})
	}

	return result
}

func describeValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(fields, "; "))
}

func derefStrings(in []*string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, *v)
	}
	return out
}

// extractJSON drops one surrounding markdown fence. Fences inside string
// values are left alone, and the payload must be a JSON object.
func extractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl != -1 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	if !strings.HasPrefix(text, "{") {
		return "", errors.New("response is not a JSON object")
	}
	return text, nil
}
