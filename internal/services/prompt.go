package services

import (
	"google.golang.org/genai"
)

const reviewerSystemInstruction = `You are an elite senior editor and peer reviewer for Elsevier journals (e.g., The Lancet, Cell, Journal of Financial Economics, Artificial Intelligence).
Your task is to provide a rigorous, constructive, and realistic evaluation of a submitted research paper.

Evaluate the paper based on:
1. Originality and Novelty.
2. Methodological Rigor.
3. Clarity of Writing and Structure.
4. Significance of Results.
5. Adherence to Elsevier's high standards.

Provide your response in JSON format according to the specified schema. Be honest about acceptance probability, Elsevier journals have very high rejection rates.`

const reviewerUserInstruction = "Analyze this research paper and provide a detailed report for Elsevier journal submission."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildReviewContents places the manuscript inline, followed by the fixed
// review instruction.
func (pb *PromptBuilder) BuildReviewContents(data []byte, mimeType string) []*genai.Content {
	return []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(reviewerUserInstruction),
		}, genai.RoleUser),
	}
}

func (pb *PromptBuilder) BuildReviewConfig(temperature float32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(reviewerSystemInstruction, genai.RoleUser),
		Temperature:       &temperature,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    AnalysisResponseSchema(),
	}
}

// AnalysisResponseSchema describes models.AnalysisResult. Every field is
// required so the provider never has grounds to omit one.
func AnalysisResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"acceptanceProbability": {
				Type:        genai.TypeNumber,
				Description: "Probability of acceptance in a top-tier Elsevier journal (0-100).",
			},
			"overallVerdict": {
				Type:        genai.TypeString,
				Description: "A 2-3 sentence summary of the paper's potential.",
			},
			"strengths": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"weaknesses": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"improvementSuggestions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"section":    {Type: genai.TypeString},
						"suggestion": {Type: genai.TypeString},
						"priority": {
							Type: genai.TypeString,
							Enum: []string{"High", "Medium", "Low"},
						},
					},
					Required: []string{"section", "suggestion", "priority"},
				},
			},
			"journalFit": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"journalName": {Type: genai.TypeString},
						"reasoning":   {Type: genai.TypeString},
						"fitScore":    {Type: genai.TypeNumber},
					},
					Required: []string{"journalName", "reasoning", "fitScore"},
				},
			},
			"technicalChecklist": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"item":    {Type: genai.TypeString},
						"passed":  {Type: genai.TypeBoolean},
						"comment": {Type: genai.TypeString},
					},
					Required: []string{"item", "passed", "comment"},
				},
			},
		},
		Required: []string{
			"acceptanceProbability",
			"overallVerdict",
			"strengths",
			"weaknesses",
			"improvementSuggestions",
			"journalFit",
			"technicalChecklist",
		},
	}
}
