package advisor

import (
	"context"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const defaultClaudeModel = "claude-sonnet-4-5"

// claudeAdvisor generates strategies with Anthropic Claude.
type claudeAdvisor struct {
	client *anthropic.Client
	model  string
}

// NewClaude creates a Claude advisor. If apiKey is empty, ANTHROPIC_API_KEY
// is used; if model is empty, a current Sonnet model is used.
func NewClaude(apiKey, model string) Advisor {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if model == "" {
		model = defaultClaudeModel
	}
	return &claudeAdvisor{client: anthropic.NewClient(apiKey), model: model}
}

func (c *claudeAdvisor) Generate(ctx context.Context, briefing string) (Strategy, error) {
	if strings.TrimSpace(briefing) == "" {
		return Strategy{}, fmt.Errorf("advisor: briefing cannot be empty")
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		System:    strategySystemPrompt,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(briefing),
		},
	})
	if err != nil {
		return Strategy{}, fmt.Errorf("advisor: claude request: %w", err)
	}
	if len(resp.Content) == 0 {
		return Strategy{}, fmt.Errorf("advisor: claude returned empty response")
	}
	return parseNarrative(c.model, resp.Content[0].GetText()), nil
}

const strategySystemPrompt = `You are an evidence-operations strategist.
Given a system briefing, reply in plain text with these sections:
SUMMARY: one sentence.
FOCUS: one focus area per line, prefixed with "- ".
RECOMMENDATIONS: one recommendation per line, prefixed with "- ".`

// parseNarrative extracts the sectioned plain-text reply used by both LLM
// providers into a Strategy. Unparseable replies degrade to a summary-only
// strategy rather than failing the report.
func parseNarrative(model, text string) Strategy {
	s := Strategy{Model: model}
	section := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SUMMARY:"):
			s.Summary = strings.TrimSpace(strings.TrimPrefix(line, "SUMMARY:"))
			section = ""
		case line == "FOCUS:" || strings.HasPrefix(line, "FOCUS:"):
			section = "focus"
		case line == "RECOMMENDATIONS:" || strings.HasPrefix(line, "RECOMMENDATIONS:"):
			section = "recs"
		case strings.HasPrefix(line, "- "):
			item := strings.TrimPrefix(line, "- ")
			if section == "focus" {
				s.FocusAreas = append(s.FocusAreas, item)
			} else if section == "recs" {
				s.Recommendations = append(s.Recommendations, item)
			}
		}
	}
	if s.Summary == "" {
		s.Summary = strings.TrimSpace(text)
	}
	return s
}
