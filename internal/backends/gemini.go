package backends

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"curator/internal/llm"
)

// GeminiTransport wraps the Google Gemini API. Safety blocks surface as
// *genai.BlockedError, which we wrap in the explicit guardrail type so the
// engine never has to sniff message text for this backend.
type GeminiTransport struct {
	client *genai.Client
	model  string
}

// NewGeminiTransport creates a Gemini transport or an error when the key is
// missing or the client cannot be built.
func NewGeminiTransport(ctx context.Context, apiKey, model string) (*GeminiTransport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not provided")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiTransport{client: client, model: model}, nil
}

func (t *GeminiTransport) Name() string { return "Gemini" }

// Close releases the underlying client connection.
func (t *GeminiTransport) Close() error { return t.client.Close() }

func (t *GeminiTransport) Generate(ctx context.Context, prompt, purpose string, maxTokens int) (string, error) {
	model := t.client.GenerativeModel(t.model)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", &llm.GuardrailError{Transport: t.Name(), Err: err}
		}
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", &llm.GuardrailError{
			Transport: t.Name(),
			Err:       fmt.Errorf("candidate stopped for safety"),
		}
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("gemini returned empty candidate content")
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	content := strings.TrimSpace(b.String())
	if content == "" {
		return "", fmt.Errorf("gemini returned no text parts")
	}
	return content, nil
}
