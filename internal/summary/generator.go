// Package summary generates short LLM descriptions of candidate repositories
// and provides the bounded-concurrency fan-out used to produce them in bulk.
package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// DefaultMaxChars caps the excerpt handed to the model. Rough budget: four
// characters per token.
const DefaultMaxChars = 8000

// Generator produces one-line repository summaries.
type Generator struct {
	client   *openai.Client
	model    openai.ChatModel
	maxChars int
}

// NewGenerator creates a Generator sharing an existing OpenAI client.
func NewGenerator(client *openai.Client) *Generator {
	return &Generator{
		client:   client,
		model:    openai.ChatModelGPT4o,
		maxChars: DefaultMaxChars,
	}
}

// Summarize describes what a repository offers to a developer in one
// sentence, from its name, description, and an optional content excerpt.
func (g *Generator) Summarize(ctx context.Context, fullName, description, excerpt string) (string, error) {
	if len(excerpt) > g.maxChars {
		excerpt = excerpt[:g.maxChars]
	}

	prompt := fmt.Sprintf(`Summarize in one sentence what this repository offers to a developer studying its code.

Repository: %s
Description: %s

Excerpt:
%s`, fullName, description, excerpt)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: g.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
