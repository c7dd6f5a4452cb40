package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// Transport is the minimal contract a text backend must satisfy. Purpose is
// advisory only (used for logging); it never changes what is sent on the wire.
//
// A Transport instance is not safe for concurrent use: backends that keep chat
// history mutate it in place per call, so the engine drives transports strictly
// one request at a time.
type Transport interface {
	Name() string
	Generate(ctx context.Context, prompt, purpose string, maxTokens int) (string, error)
}

// ErrorKind classifies a failed Generate call. The engine switches on this
// value instead of inspecting error types or messages itself.
type ErrorKind int

const (
	// KindTransport covers connectivity and availability failures. These are
	// treated as non-recoverable: the engine does not try further backends.
	KindTransport ErrorKind = iota
	// KindGuardrail covers content-policy refusals. These are retried with a
	// minimal prompt on the first backend, then skipped to the next backend.
	KindGuardrail
)

// GuardrailError is the explicit refusal signal. Transports that can detect a
// safety block (e.g. Gemini's BlockedError) wrap it in one of these so the
// classifier does not have to fall back to message sniffing.
type GuardrailError struct {
	Transport string
	Err       error
}

func (e *GuardrailError) Error() string {
	return fmt.Sprintf("%s refused the prompt: %v", e.Transport, e.Err)
}

func (e *GuardrailError) Unwrap() error { return e.Err }

// ParseError reports a reply that does not match the accepted tag grammar.
// RawText always carries the offending reply verbatim for diagnostics.
type ParseError struct {
	Message string
	RawText string
}

func (e *ParseError) Error() string { return e.Message }

// ClassifyGenerateError maps a Generate failure onto the closed kind set.
// Explicit error types win; the substring heuristic is a last resort for
// backends that only surface refusals as message text.
func ClassifyGenerateError(err error) ErrorKind {
	var guardrail *GuardrailError
	if errors.As(err, &guardrail) {
		return KindGuardrail
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return KindGuardrail
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "guardrail") && strings.Contains(msg, "unsafe") {
		return KindGuardrail
	}
	return KindTransport
}
