package advisor

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// openaiAdvisor generates strategies with an OpenAI chat model.
type openaiAdvisor struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI advisor. If apiKey is empty, OPENAI_API_KEY
// is used; if model is empty, gpt-4o-mini is used.
func NewOpenAI(apiKey, model string) Advisor {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openaiAdvisor{client: openai.NewClient(apiKey), model: model}
}

func (o *openaiAdvisor) Generate(ctx context.Context, briefing string) (Strategy, error) {
	if strings.TrimSpace(briefing) == "" {
		return Strategy{}, fmt.Errorf("advisor: briefing cannot be empty")
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: strategySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: briefing},
		},
		MaxTokens: 1024,
	})
	if err != nil {
		return Strategy{}, fmt.Errorf("advisor: openai request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Strategy{}, fmt.Errorf("advisor: openai returned no choices")
	}
	return parseNarrative(o.model, resp.Choices[0].Message.Content), nil
}
