package models

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// AnalysisResult is the reviewer's verdict on one manuscript. JSON names
// follow the response schema sent to the provider.
type AnalysisResult struct {
	AcceptanceProbability  float64                 `json:"acceptanceProbability"`
	OverallVerdict         string                  `json:"overallVerdict"`
	Strengths              []string                `json:"strengths"`
	Weaknesses             []string                `json:"weaknesses"`
	ImprovementSuggestions []ImprovementSuggestion `json:"improvementSuggestions"`
	JournalFit             []JournalFit            `json:"journalFit"`
	TechnicalChecklist     []ChecklistItem         `json:"technicalChecklist"`
}

type ImprovementSuggestion struct {
	Section    string   `json:"section"`
	Suggestion string   `json:"suggestion"` // markdown
	Priority   Priority `json:"priority"`
}

type JournalFit struct {
	JournalName string  `json:"journalName"`
	Reasoning   string  `json:"reasoning"`
	FitScore    float64 `json:"fitScore"`
}

type ChecklistItem struct {
	Item    string `json:"item"`
	Passed  bool   `json:"passed"`
	Comment string `json:"comment"`
}
