package llm

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
)

// FeatureVector holds deterministic lexical facts about a filename stem.
// It is a pure function of its two string inputs, computed before any backend
// call so the model judges pre-computed flags instead of re-deriving brittle
// string patterns itself.
type FeatureVector struct {
	HasLetter       bool
	AlphaTokenCount int
	TokenCount      int
	IsNumericOnly   bool
	LongDigitRun    bool
	DigitRatio      float64
	UUIDLike        bool
	HexBlob         bool
	GenericLabel    bool
	Length          int
	AlnumLength     int
	StemInSuggested bool
}

var (
	uuidRe = regexp.MustCompile(
		`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)
	hexBlobRe      = regexp.MustCompile(`\b[0-9a-fA-F]{8,}\b`)
	longDigitRunRe = regexp.MustCompile(`\d{8,}`)
	tokenSplitRe   = regexp.MustCompile(`[-_.\s]+`)
	genericLabelRe = regexp.MustCompile(
		`(?i)^(img|dsc|scan|screenshot|document|download|file|image|photo|picture)[-_ .]*\d+$`)
)

// ComputeStemFeatures derives the feature vector for a stem-action decision.
// Pure and total: identical inputs always yield an identical vector.
func ComputeStemFeatures(originalStem, suggestedName string) FeatureVector {
	stem := strings.TrimSpace(originalStem)

	var digits, letters, alnumLength int
	for _, ch := range stem {
		if unicode.IsLetter(ch) || unicode.IsDigit(ch) {
			alnumLength++
		}
		if unicode.IsDigit(ch) {
			digits++
		}
		if unicode.IsLetter(ch) {
			letters++
		}
	}
	denom := alnumLength
	if denom < 1 {
		denom = 1
	}
	// Rounded to 3 decimals so the rendered prompt is stable across calls.
	digitRatio := math.Round(float64(digits)/float64(denom)*1000) / 1000

	var tokens []string
	for _, t := range tokenSplitRe.Split(stem, -1) {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	alphaTokens := 0
	for _, t := range tokens {
		if strings.ContainsFunc(t, unicode.IsLetter) {
			alphaTokens++
		}
	}

	numericOnly := stem != "" && digits == len(stem)
	stemInSuggested := stem != "" && suggestedName != "" &&
		strings.Contains(strings.ToLower(suggestedName), strings.ToLower(stem))

	return FeatureVector{
		HasLetter:       letters > 0,
		AlphaTokenCount: alphaTokens,
		TokenCount:      len(tokens),
		IsNumericOnly:   numericOnly,
		LongDigitRun:    longDigitRunRe.MatchString(stem),
		DigitRatio:      digitRatio,
		UUIDLike:        uuidRe.MatchString(stem),
		HexBlob:         hexBlobRe.MatchString(stem),
		GenericLabel:    genericLabelRe.MatchString(stem),
		Length:          len(stem),
		AlnumLength:     alnumLength,
		StemInSuggested: stemInSuggested,
	}
}

// PromptLines renders the vector as "- key: value" lines in a fixed order so
// prompt text stays byte-identical for identical inputs.
func (f FeatureVector) PromptLines() []string {
	return []string{
		fmt.Sprintf("- has_letter: %t", f.HasLetter),
		fmt.Sprintf("- alpha_token_count: %d", f.AlphaTokenCount),
		fmt.Sprintf("- token_count: %d", f.TokenCount),
		fmt.Sprintf("- is_numeric_only: %t", f.IsNumericOnly),
		fmt.Sprintf("- long_digit_run: %t", f.LongDigitRun),
		fmt.Sprintf("- digit_ratio: %.3f", f.DigitRatio),
		fmt.Sprintf("- uuid_like: %t", f.UUIDLike),
		fmt.Sprintf("- hex_blob: %t", f.HexBlob),
		fmt.Sprintf("- generic_label: %t", f.GenericLabel),
		fmt.Sprintf("- length: %d", f.Length),
		fmt.Sprintf("- alnum_length: %d", f.AlnumLength),
		fmt.Sprintf("- stem_in_suggested: %t", f.StemInSuggested),
	}
}
