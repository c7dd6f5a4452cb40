package backends

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"curator/internal/llm"
)

// OpenAITransport is the hosted fallback backend. Unlike the Ollama transport
// it is stateless per call: each request is a single-turn conversation, so
// there is no history to grow across files.
type OpenAITransport struct {
	client *openai.Client
	model  string
}

// NewOpenAITransport creates a hosted transport. Returns an error when the key
// is missing so the caller can leave this backend out of the fallback list.
func NewOpenAITransport(apiKey, model string) (*OpenAITransport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key not provided")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITransport{client: openai.NewClient(apiKey), model: model}, nil
}

func (t *OpenAITransport) Name() string { return "OpenAI" }

func (t *OpenAITransport) Generate(ctx context.Context, prompt, purpose string, maxTokens int) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     t.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion returned no choices")
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", &llm.GuardrailError{
			Transport: t.Name(),
			Err:       fmt.Errorf("content filter stopped the completion"),
		}
	}
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai chat completion returned empty content")
	}
	return content, nil
}
