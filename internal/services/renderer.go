package services

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"alfredoptarigan/scholarcheck/internal/models"
)

// Score bands. A score at a threshold belongs to the higher band.
const (
	FavorableThreshold  = 70.0
	BorderlineThreshold = 40.0
)

type ReportRenderer interface {
	Render(result *models.AnalysisResult) *models.Report
	RenderText(report *models.Report) string
}

type reportRenderer struct {
	markdown goldmark.Markdown
}

func NewReportRenderer() ReportRenderer {
	return &reportRenderer{
		// raw HTML in suggestions is dropped, goldmark's default
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func BandFor(score float64) models.Band {
	switch {
	case score >= FavorableThreshold:
		return models.BandFavorable
	case score >= BorderlineThreshold:
		return models.BandBorderline
	default:
		return models.BandUnfavorable
	}
}

// PriorityWeight orders priorities for display; unknown values weigh 0.
func PriorityWeight(p models.Priority) (int, string) {
	switch p {
	case models.PriorityHigh:
		return 3, "high"
	case models.PriorityMedium:
		return 2, "medium"
	case models.PriorityLow:
		return 1, "low"
	default:
		return 0, "neutral"
	}
}

// Render builds the presentation tree. It copies every list and keeps the
// input order.
func (r *reportRenderer) Render(result *models.AnalysisResult) *models.Report {
	report := &models.Report{
		Title:      "Analysis Report",
		Subtitle:   "Elsevier Journal Submission Advisory",
		Acceptance: scoreView(result.AcceptanceProbability),
		Verdict:    result.OverallVerdict,
		Strengths: models.ListSection{
			Heading: "Key Strengths",
			Items:   append(make([]string, 0, len(result.Strengths)), result.Strengths...),
		},
		Weaknesses: models.ListSection{
			Heading: "Critical Weaknesses",
			Items:   append(make([]string, 0, len(result.Weaknesses)), result.Weaknesses...),
		},
		Suggestions: models.SuggestionSection{
			Heading: "Improvement Roadmap",
			Items:   make([]models.SuggestionView, 0, len(result.ImprovementSuggestions)),
		},
		Journals: models.JournalSection{
			Heading: "Recommended Elsevier Journals",
			Items:   make([]models.JournalView, 0, len(result.JournalFit)),
		},
		Checklist: models.ChecklistSection{
			Heading: "Technical Compliance",
			Total:   len(result.TechnicalChecklist),
			Items:   make([]models.ChecklistView, 0, len(result.TechnicalChecklist)),
		},
	}

	for _, s := range result.ImprovementSuggestions {
		weight, tone := PriorityWeight(s.Priority)
		report.Suggestions.Items = append(report.Suggestions.Items, models.SuggestionView{
			Section:  s.Section,
			Priority: s.Priority,
			Weight:   weight,
			Tone:     tone,
			Markdown: s.Suggestion,
			HTML:     r.renderMarkdown(s.Suggestion),
		})
	}

	for _, j := range result.JournalFit {
		report.Journals.Items = append(report.Journals.Items, models.JournalView{
			Name:      j.JournalName,
			Reasoning: j.Reasoning,
			Fit:       scoreView(j.FitScore),
		})
	}

	for _, item := range result.TechnicalChecklist {
		status := "fail"
		if item.Passed {
			status = "pass"
			report.Checklist.Passed++
		}
		report.Checklist.Items = append(report.Checklist.Items, models.ChecklistView{
			Item:    item.Item,
			Passed:  item.Passed,
			Status:  status,
			Comment: item.Comment,
		})
	}

	return report
}

func (r *reportRenderer) renderMarkdown(src string) string {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "<p>" + html.EscapeString(src) + "</p>"
	}
	return strings.TrimSpace(buf.String())
}

// RenderText lays the report out for a terminal.
func (r *reportRenderer) RenderText(report *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n%s\n\n", report.Title, report.Subtitle)
	fmt.Fprintf(&b, "Acceptance probability: %s (%s)\n\n", report.Acceptance.Display, report.Acceptance.Band)
	fmt.Fprintf(&b, "Editorial verdict:\n  %q\n", report.Verdict)

	writeList(&b, report.Strengths)
	writeList(&b, report.Weaknesses)

	fmt.Fprintf(&b, "\n%s\n", report.Checklist.Heading)
	fmt.Fprintf(&b, "  %d/%d passed\n", report.Checklist.Passed, report.Checklist.Total)
	for _, item := range report.Checklist.Items {
		fmt.Fprintf(&b, "  [%s] %s: %s\n", strings.ToUpper(item.Status), item.Item, item.Comment)
	}

	fmt.Fprintf(&b, "\n%s\n", report.Suggestions.Heading)
	if len(report.Suggestions.Items) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, s := range report.Suggestions.Items {
		fmt.Fprintf(&b, "  %s - %s Priority\n", s.Section, s.Priority)
		for _, line := range strings.Split(strings.TrimSpace(s.Markdown), "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", report.Journals.Heading)
	if len(report.Journals.Items) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, j := range report.Journals.Items {
		fmt.Fprintf(&b, "  %s (%s fit)\n    %s\n", j.Name, j.Fit.Display, j.Reasoning)
	}

	return b.String()
}

func writeList(b *strings.Builder, section models.ListSection) {
	fmt.Fprintf(b, "\n%s\n", section.Heading)
	if len(section.Items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, item := range section.Items {
		fmt.Fprintf(b, "  - %s\n", item)
	}
}

func scoreView(value float64) models.ScoreView {
	return models.ScoreView{
		Value:   value,
		Display: strconv.FormatFloat(value, 'f', -1, 64) + "%",
		Band:    BandFor(value),
	}
}
