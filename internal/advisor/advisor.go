// Package advisor produces strategic narrative guidance for system
// reports. The default provider is a deterministic heuristic engine;
// Claude and OpenAI backed providers are available when API keys are
// configured.
package advisor

import (
	"context"
	"fmt"
)

// Provider name constants.
const (
	ProviderHeuristic = "heuristic"
	ProviderClaude    = "claude"
	ProviderOpenAI    = "openai"
)

// ActionItem is one concrete step in a strategy.
type ActionItem struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// Strategy is the narrative plan generated for a briefing.
type Strategy struct {
	Model           string       `json:"model"`
	Summary         string       `json:"summary"`
	FocusAreas      []string     `json:"focus_areas,omitempty"`
	ActionItems     []ActionItem `json:"action_items,omitempty"`
	Recommendations []string     `json:"recommendations,omitempty"`
}

// Advisor generates a strategy from a free-form briefing describing the
// current system state and operator context.
type Advisor interface {
	Generate(ctx context.Context, briefing string) (Strategy, error)
}

// New constructs the Advisor for the named provider. Unknown providers
// are an error; an empty name selects the heuristic engine.
func New(provider, apiKey, model string) (Advisor, error) {
	switch provider {
	case "", ProviderHeuristic:
		return &Heuristic{}, nil
	case ProviderClaude:
		return NewClaude(apiKey, model), nil
	case ProviderOpenAI:
		return NewOpenAI(apiKey, model), nil
	}
	return nil, fmt.Errorf("advisor: unknown provider %q", provider)
}
