package llm

import (
	"regexp"
	"strings"
)

const (
	// MaxFilenameChars is the hard cap applied by SanitizeFilename.
	MaxFilenameChars = 100
	// PromptFilenameChars is the length guidance quoted inside prompts.
	PromptFilenameChars = 80

	promptMaxTokenLen  = 40
	promptExcerptChars = 240
)

// Categories is the closed set of destination folders. Unmapped category text
// always resolves to "Other".
var Categories = []string{
	"Document",
	"Spreadsheet",
	"Presentation",
	"Image",
	"Audio",
	"Video",
	"Code",
	"Data",
	"Project",
	"Other",
}

var placeholderReasons = map[string]struct{}{
	"short justification": {},
	"short reason":        {},
	"optional":            {},
	"n/a":                 {},
	"na":                  {},
}

var (
	nonPrintableRe = regexp.MustCompile(`[\x00-\x08\x0b-\x1f\x7f]`)
	nonAlnumRe     = regexp.MustCompile(`[^a-z0-9 ]+`)
)

// SanitizeFilename maps a proposed name onto the safe filename alphabet:
// whitespace becomes hyphen, anything outside letters/digits/.-_ becomes
// hyphen, repeated separators collapse, edges are trimmed, and the result is
// capped at MaxFilenameChars. Applying it twice yields the same output.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, ch := range name {
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			b.WriteByte('-')
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		case ch == '.' || ch == '-' || ch == '_':
			b.WriteRune(ch)
		default:
			b.WriteByte('-')
		}
	}
	cleaned := b.String()
	for strings.Contains(cleaned, "--") {
		cleaned = strings.ReplaceAll(cleaned, "--", "-")
	}
	for strings.Contains(cleaned, "__") {
		cleaned = strings.ReplaceAll(cleaned, "__", "_")
	}
	cleaned = strings.Trim(cleaned, "-_.")
	if len(cleaned) > MaxFilenameChars {
		cleaned = cleaned[:MaxFilenameChars]
		cleaned = strings.Trim(cleaned, "-_.")
	}
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// NormalizeReason collapses whitespace and maps placeholder phrases the model
// echoed back from the prompt ("short justification", "n/a", ...) to the empty
// string so they are never surfaced as real explanations.
func NormalizeReason(reason string) string {
	cleaned := strings.Join(strings.Fields(reason), " ")
	if cleaned == "" {
		return ""
	}
	lower := strings.ToLower(cleaned)
	plain := strings.TrimSpace(nonAlnumRe.ReplaceAllString(lower, ""))
	if _, ok := placeholderReasons[lower]; ok {
		return ""
	}
	if _, ok := placeholderReasons[plain]; ok {
		return ""
	}
	if strings.Contains(lower, "short justification") || strings.Contains(lower, "short reason") {
		return ""
	}
	if strings.Contains(lower, "justification") && len(strings.Fields(lower)) <= 3 {
		return ""
	}
	return cleaned
}

// sanitizePromptText prepares free-form metadata for inclusion in a prompt:
// CRLF normalized, non-printables stripped, duplicate lines collapsed, and any
// single token longer than promptMaxTokenLen dropped so run-on hashes or
// base64 blobs cannot bloat the prompt or leak as spurious identifiers.
func sanitizePromptText(value string) string {
	if value == "" {
		return ""
	}
	text := strings.ReplaceAll(value, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = nonPrintableRe.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\t", " ")

	var lines []string
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(text, "\n") {
		fields := strings.Fields(raw)
		kept := fields[:0]
		for _, token := range fields {
			if len(token) <= promptMaxTokenLen {
				kept = append(kept, token)
			}
		}
		if len(kept) == 0 {
			continue
		}
		line := strings.Join(kept, " ")
		key := strings.ToLower(line)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func sanitizePromptList(values []string) []string {
	var cleaned []string
	for _, item := range values {
		if text := sanitizePromptText(item); text != "" {
			cleaned = append(cleaned, text)
		}
	}
	return cleaned
}

// truncateClean caps sanitized text at max characters with an ellipsis.
func truncateClean(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return strings.TrimRight(text[:max-3], " ") + "..."
}
