package models

// Band is the qualitative reading of a percentage score.
type Band string

const (
	BandFavorable   Band = "favorable"
	BandBorderline  Band = "borderline"
	BandUnfavorable Band = "unfavorable"
)

// Report is the presentation tree built from an AnalysisResult.
type Report struct {
	Title       string            `json:"title"`
	Subtitle    string            `json:"subtitle"`
	Acceptance  ScoreView         `json:"acceptance"`
	Verdict     string            `json:"verdict"`
	Strengths   ListSection       `json:"strengths"`
	Weaknesses  ListSection       `json:"weaknesses"`
	Suggestions SuggestionSection `json:"suggestions"`
	Journals    JournalSection    `json:"journals"`
	Checklist   ChecklistSection  `json:"checklist"`
}

type ScoreView struct {
	Value   float64 `json:"value"`
	Display string  `json:"display"`
	Band    Band    `json:"band"`
}

type ListSection struct {
	Heading string   `json:"heading"`
	Items   []string `json:"items"`
}

type SuggestionSection struct {
	Heading string           `json:"heading"`
	Items   []SuggestionView `json:"items"`
}

type SuggestionView struct {
	Section  string   `json:"section"`
	Priority Priority `json:"priority"`
	Weight   int      `json:"weight"`
	Tone     string   `json:"tone"`
	Markdown string   `json:"markdown"`
	HTML     string   `json:"html"`
}

type JournalSection struct {
	Heading string        `json:"heading"`
	Items   []JournalView `json:"items"`
}

type JournalView struct {
	Name      string    `json:"name"`
	Reasoning string    `json:"reasoning"`
	Fit       ScoreView `json:"fit"`
}

type ChecklistSection struct {
	Heading string          `json:"heading"`
	Passed  int             `json:"passed"`
	Total   int             `json:"total"`
	Items   []ChecklistView `json:"items"`
}

type ChecklistView struct {
	Item    string `json:"item"`
	Passed  bool   `json:"passed"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
}
