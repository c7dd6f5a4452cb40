package backends

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OllamaTransport talks to a local Ollama server through its OpenAI-compatible
// endpoint. It keeps the chat history in the instance, so one transport maps to
// one conversational session; construct a fresh one per session if history must
// not leak between files.
type OllamaTransport struct {
	client   *openai.Client
	model    string
	messages []openai.ChatCompletionMessage
}

// NewOllamaTransport creates a transport against baseURL (default
// http://localhost:11434). systemMessage, when non-empty, seeds the history.
func NewOllamaTransport(model, baseURL, systemMessage string) *OllamaTransport {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"

	t := &OllamaTransport{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
	if systemMessage != "" {
		t.messages = append(t.messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemMessage,
		})
	}
	return t
}

func (t *OllamaTransport) Name() string { return "Ollama" }

// Generate sends the prompt as the next user turn and persists both sides of
// the exchange in the history. History is not rolled back on failure.
func (t *OllamaTransport) Generate(ctx context.Context, prompt, purpose string, maxTokens int) (string, error) {
	t.messages = append(t.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     t.model,
		Messages:  t.messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ollama chat returned no choices")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("ollama chat returned empty content")
	}
	t.messages = append(t.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: content,
	})
	return content, nil
}
