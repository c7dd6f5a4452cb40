package llm

import (
	"context"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Token budgets per request variant.
const (
	renameMaxTokens = 200
	keepMaxTokens   = 120
	sortMaxTokens   = 120
)

// Engine sequences prompts across an ordered transport list, classifies
// failures, and applies the bounded retry rules:
//
//   - transport failure: propagate immediately, no further backends
//   - guardrail refusal: one minimal-prompt retry on the first backend only,
//     then fall through to the next backend
//   - parse failure: one format-fix attempt per backend, in list order
//
// Requests are processed strictly one at a time; the engine never calls two
// transports concurrently, so stateful backends keep a coherent history.
type Engine struct {
	transports []Transport
	context    string
}

// NewEngine builds an engine over an ordered transport list. Context, when
// non-empty, is prepended verbatim to rename and sort prompts.
func NewEngine(transports []Transport, sessionContext string) *Engine {
	return &Engine{transports: transports, context: sessionContext}
}

// Transports exposes the configured backend list in fallback order.
func (e *Engine) Transports() []Transport { return e.transports }

// Rename asks for a descriptive filename for currentName given its metadata.
// The returned name is sanitized and the reason normalized before returning.
func (e *Engine) Rename(ctx context.Context, currentName string, meta Metadata) (RenameResult, error) {
	req := RenameRequest{Metadata: meta, CurrentName: currentName, Context: e.context}
	prompt := BuildRenamePrompt(req)
	purpose := "filename based on content"

	raw, err := e.generateWithFallback(ctx, prompt, purpose, renameMaxTokens, BuildRenamePromptMinimal(req))
	if err != nil {
		return RenameResult{}, err
	}

	var result RenameResult
	parse := func(text string) error {
		parsed, err := ParseRenameResponse(text)
		if err != nil {
			return err
		}
		result = parsed
		return nil
	}
	if err := e.parseWithRetry(ctx, parse, prompt, RenameExampleOutput, raw, purpose, renameMaxTokens); err != nil {
		return RenameResult{}, err
	}
	result.NewName = SanitizeFilename(result.NewName)
	result.Reason = NormalizeReason(result.Reason)
	return result, nil
}

// StemAction decides what to do with the original filename stem. The feature
// vector is computed here, deterministically, before any backend sees the
// request.
func (e *Engine) StemAction(ctx context.Context, originalStem, suggestedName, extension string) (KeepResult, error) {
	req := KeepRequest{
		OriginalStem:  originalStem,
		SuggestedName: suggestedName,
		Extension:     extension,
		Features:      ComputeStemFeatures(originalStem, suggestedName),
	}
	prompt := BuildKeepPrompt(req)
	purpose := "how to handle the original filename stem"

	raw, err := e.generateWithFallback(ctx, prompt, purpose, keepMaxTokens, "")
	if err != nil {
		return KeepResult{}, err
	}

	var result KeepResult
	parse := func(text string) error {
		parsed, err := ParseKeepResponse(text, false)
		if err != nil {
			return err
		}
		result = parsed
		return nil
	}
	if err := e.parseWithRetry(ctx, parse, prompt, KeepExampleOutput, raw, purpose, keepMaxTokens); err != nil {
		return KeepResult{}, err
	}
	result.Reason = NormalizeReason(result.Reason)
	return result, nil
}

// Sort assigns a category to each item. Items are issued as independent
// single-item requests so one item's failure never blocks the items already
// processed; the partial result is returned alongside the error.
func (e *Engine) Sort(ctx context.Context, items []SortItem) (SortResult, error) {
	result := SortResult{Assignments: map[string]string{}, Reasons: map[string]string{}}
	if len(items) == 0 {
		return result, nil
	}
	purpose := "category assignment"
	for _, item := range items {
		req := SortRequest{Files: []SortItem{item}, Context: e.context}
		prompt := BuildSortPrompt(req)

		raw, err := e.generateWithFallback(ctx, prompt, purpose, sortMaxTokens, "")
		if err != nil {
			return result, err
		}

		var parsed SortResult
		parse := func(text string) error {
			p, err := ParseSortResponse(text, []string{item.Path})
			if err != nil {
				return err
			}
			parsed = p
			return nil
		}
		if err := e.parseWithRetry(ctx, parse, prompt, SortExampleOutput, raw, purpose, sortMaxTokens); err != nil {
			return result, err
		}
		for path, category := range parsed.Assignments {
			result.Assignments[path] = category
		}
		for path, reason := range parsed.Reasons {
			if cleaned := NormalizeReason(reason); cleaned != "" {
				result.Reasons[path] = cleaned
			}
		}
		result.RawText = parsed.RawText
	}
	return result, nil
}

// generateWithFallback walks the transport list in order. retryPrompt, when
// non-empty, is the minimal variant tried once on the first transport after a
// guardrail refusal. Unclassified errors propagate immediately.
func (e *Engine) generateWithFallback(ctx context.Context, prompt, purpose string, maxTokens int, retryPrompt string) (string, error) {
	if len(e.transports) == 0 {
		return "", errors.New("no transports configured")
	}
	var lastErr error
	for idx, transport := range e.transports {
		log.Debugf("asking %s for %s", transport.Name(), purpose)
		raw, err := transport.Generate(ctx, prompt, purpose, maxTokens)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if ClassifyGenerateError(err) != KindGuardrail {
			return "", err
		}
		if retryPrompt != "" && idx == 0 {
			log.Debugf("retrying %s with minimal prompt for %s", transport.Name(), purpose)
			raw, retryErr := transport.Generate(ctx, retryPrompt, purpose, maxTokens)
			if retryErr == nil {
				return raw, nil
			}
			lastErr = retryErr
			if ClassifyGenerateError(retryErr) != KindGuardrail {
				return "", retryErr
			}
		}
	}
	return "", lastErr
}

// parseWithRetry runs parse over the raw reply and, on a parse failure, issues
// one format-fix attempt per transport starting from transport 0. The first
// reply that parses wins. When everything is exhausted the most recent parse
// error is preferred over a transport error, since it is closer to resolution.
func (e *Engine) parseWithRetry(ctx context.Context, parse func(string) error, originalPrompt, exampleOutput, raw, purpose string, maxTokens int) error {
	initialErr := parse(raw)
	if initialErr == nil {
		return nil
	}
	var initialParse *ParseError
	if !errors.As(initialErr, &initialParse) {
		return initialErr
	}
	log.Warnf("parse_error: %s (excerpt: %s)", initialParse.Message, excerpt(raw))

	fixPrompt := BuildFormatFixPrompt(originalPrompt, exampleOutput)
	lastParse := initialParse
	for _, transport := range e.transports {
		log.Debugf("asking %s for %s (format fix)", transport.Name(), purpose)
		fixed, err := transport.Generate(ctx, fixPrompt, purpose+" (format fix)", maxTokens)
		if err != nil {
			log.Debugf("format fix on %s failed: %v", transport.Name(), err)
			continue
		}
		if err := parse(fixed); err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				lastParse = pe
				log.Warnf("parse_error after format fix on %s: %s (excerpt: %s)",
					transport.Name(), pe.Message, excerpt(fixed))
				continue
			}
			return err
		}
		return nil
	}
	return lastParse
}

// excerpt compacts raw text to a single short diagnostic line.
func excerpt(raw string) string {
	compact := strings.Join(strings.Fields(raw), " ")
	if len(compact) > 160 {
		compact = compact[:160]
	}
	return compact
}
