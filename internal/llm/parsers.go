package llm

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// StemAction is the tri-state decision about the original filename stem.
type StemAction string

const (
	ActionKeep      StemAction = "keep"
	ActionDrop      StemAction = "drop"
	ActionNormalize StemAction = "normalize"
)

// RenameResult is a parsed rename reply.
type RenameResult struct {
	NewName string
	Reason  string
	RawText string
}

// KeepResult is a parsed stem-action reply.
type KeepResult struct {
	Action  StemAction
	Reason  string
	RawText string
}

// SortResult maps stable identifiers (file paths) to categories.
type SortResult struct {
	Assignments map[string]string
	Reasons     map[string]string
	RawText     string
}

var codeFenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_+-]*\n(.*?)```")

// coerceBody strips code fences and surrounding quotes, then un-escapes one
// layer of HTML entities if the expected tag only appears escaped. The reply
// grammar is flat; there is never an outer container tag to unwrap.
func coerceBody(text, expectedTag string) string {
	cleaned := strings.TrimSpace(text)
	if strings.Contains(cleaned, "```") {
		cleaned = codeFenceRe.ReplaceAllString(cleaned, "$1")
		cleaned = strings.TrimSpace(cleaned)
	}
	cleaned = strings.Trim(cleaned, `"'`)
	lower := strings.ToLower(cleaned)
	open := "<" + expectedTag
	if !strings.Contains(lower, open) && strings.Contains(lower, html.EscapeString(open)) {
		cleaned = html.UnescapeString(cleaned)
	}
	return cleaned
}

// tagValues returns the contents of every well-formed occurrence of the named
// tag, in order. Matching is case-insensitive and tolerates attributes in the
// opening tag.
func tagValues(text, tag string) []string {
	var values []string
	lower := strings.ToLower(text)
	openToken := "<" + tag
	closeToken := "</" + tag
	offset := 0
	for {
		start := strings.Index(lower[offset:], openToken)
		if start == -1 {
			return values
		}
		start += offset
		// Reject prefix collisions such as <new_name_note> matching <new_name>.
		rest := lower[start+len(openToken):]
		if rest == "" || (rest[0] != '>' && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '/' && rest[0] != '\n') {
			offset = start + len(openToken)
			continue
		}
		gt := strings.Index(lower[start:], ">")
		if gt == -1 {
			return values
		}
		contentStart := start + gt + 1
		end := strings.Index(lower[contentStart:], closeToken)
		if end == -1 {
			return values
		}
		values = append(values, strings.TrimSpace(text[contentStart:contentStart+end]))
		closeGt := strings.Index(lower[contentStart+end:], ">")
		if closeGt == -1 {
			return values
		}
		offset = contentStart + end + closeGt + 1
	}
}

// requiredTag enforces the exactly-once rule: zero occurrences and duplicates
// are both parse errors. Duplicates mean the backend contradicted itself and
// must never be resolved by picking first or last.
func requiredTag(body, tag, raw string) (string, error) {
	values := tagValues(body, tag)
	switch len(values) {
	case 0:
		return "", &ParseError{Message: fmt.Sprintf("missing <%s> in response", tag), RawText: raw}
	case 1:
		return values[0], nil
	default:
		return "", &ParseError{Message: fmt.Sprintf("duplicate <%s> in response", tag), RawText: raw}
	}
}

// optionalTag allows zero occurrences but still rejects duplicates.
func optionalTag(body, tag, raw string) (string, error) {
	values := tagValues(body, tag)
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		return values[0], nil
	default:
		return "", &ParseError{Message: fmt.Sprintf("duplicate <%s> in response", tag), RawText: raw}
	}
}

// ParseRenameResponse accepts exactly one <new_name> plus an optional <reason>.
func ParseRenameResponse(text string) (RenameResult, error) {
	body := coerceBody(text, "new_name")
	newName, err := requiredTag(body, "new_name", text)
	if err != nil {
		return RenameResult{}, err
	}
	if newName == "" {
		return RenameResult{}, &ParseError{Message: "empty <new_name> in response", RawText: text}
	}
	reason, err := optionalTag(body, "reason", text)
	if err != nil {
		return RenameResult{}, err
	}
	return RenameResult{NewName: newName, Reason: reason, RawText: text}, nil
}

// ParseKeepResponse accepts either <stem_action> (keep/drop/normalize) or the
// legacy <keep_original> boolean, mapping true to keep and false to drop.
// requireReason makes a missing <reason> a parse error (strict mode).
func ParseKeepResponse(text string, requireReason bool) (KeepResult, error) {
	body := coerceBody(text, "stem_action")
	actionText, err := optionalTag(body, "stem_action", text)
	if err != nil {
		return KeepResult{}, err
	}

	var action StemAction
	if actionText != "" {
		switch StemAction(strings.ToLower(actionText)) {
		case ActionKeep, ActionDrop, ActionNormalize:
			action = StemAction(strings.ToLower(actionText))
		default:
			return KeepResult{}, &ParseError{
				Message: fmt.Sprintf("invalid <stem_action> value %q", actionText),
				RawText: text,
			}
		}
	} else {
		legacyBody := coerceBody(text, "keep_original")
		keepText, err := optionalTag(legacyBody, "keep_original", text)
		if err != nil {
			return KeepResult{}, err
		}
		if keepText == "" {
			return KeepResult{}, &ParseError{
				Message: "missing <stem_action> and <keep_original> in response",
				RawText: text,
			}
		}
		keep, ok := parseBoolish(keepText)
		if !ok {
			return KeepResult{}, &ParseError{
				Message: fmt.Sprintf("invalid <keep_original> value %q", keepText),
				RawText: text,
			}
		}
		if keep {
			action = ActionKeep
		} else {
			action = ActionDrop
		}
		body = legacyBody
	}

	reason, err := optionalTag(body, "reason", text)
	if err != nil {
		return KeepResult{}, err
	}
	if reason == "" && requireReason {
		return KeepResult{}, &ParseError{Message: "missing <reason> in keep response", RawText: text}
	}
	reason = strings.ReplaceAll(reason, `\"`, `"`)
	reason = strings.ReplaceAll(reason, `\'`, `'`)
	return KeepResult{Action: action, Reason: reason, RawText: text}, nil
}

// parseBoolish matches the accepted boolean spellings: case-insensitive
// t*/1/yes for true and f*/0/no for false.
func parseBoolish(value string) (bool, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "1" || v == "yes" || strings.HasPrefix(v, "t"):
		return true, true
	case v == "0" || v == "no" || strings.HasPrefix(v, "f"):
		return false, true
	default:
		return false, false
	}
}

// ParseSortResponse accepts exactly one <category> plus an optional <reason>
// and assigns it to the single expected path. Batch sorting is sequenced by
// the engine, one parser call per item.
func ParseSortResponse(text string, expectedPaths []string) (SortResult, error) {
	if len(expectedPaths) != 1 {
		return SortResult{}, &ParseError{
			Message: fmt.Sprintf("sort parser handles exactly one item, got %d", len(expectedPaths)),
			RawText: text,
		}
	}
	body := coerceBody(text, "category")
	categoryText, err := requiredTag(body, "category", text)
	if err != nil {
		return SortResult{}, err
	}
	if categoryText == "" {
		return SortResult{}, &ParseError{Message: "empty <category> in response", RawText: text}
	}
	reason, err := optionalTag(body, "reason", text)
	if err != nil {
		return SortResult{}, err
	}

	path := expectedPaths[0]
	result := SortResult{
		Assignments: map[string]string{path: NormalizeCategory(categoryText)},
		Reasons:     map[string]string{},
		RawText:     text,
	}
	if reason != "" {
		result.Reasons[path] = reason
	}
	return result, nil
}

var categoryAliases = map[string]string{
	"doc":           "Document",
	"docs":          "Document",
	"text":          "Document",
	"sheet":         "Spreadsheet",
	"slides":        "Presentation",
	"deck":          "Presentation",
	"img":           "Image",
	"picture":       "Image",
	"photo":         "Image",
	"music":         "Audio",
	"sound":         "Audio",
	"movie":         "Video",
	"source":        "Code",
	"script":        "Code",
	"dataset":       "Data",
	"archive":       "Data",
	"repo":          "Project",
	"repository":    "Project",
	"misc":          "Other",
	"unknown":       "Other",
	"uncategorized": "Other",
}

// NormalizeCategory maps free-form category text onto the closed category set,
// tolerating common suffixes and separators plus a short alias table. Anything
// unmatched resolves to "Other" so a file always has a destination.
func NormalizeCategory(value string) string {
	val := strings.ToLower(strings.TrimSpace(value))
	if val == "" {
		return "Other"
	}
	for _, cat := range Categories {
		lc := strings.ToLower(cat)
		if val == lc {
			return cat
		}
		for _, sep := range []string{" ", "(", "-", "/", ":"} {
			if strings.HasPrefix(val, lc+sep) {
				return cat
			}
		}
	}
	if mapped, ok := categoryAliases[val]; ok {
		return mapped
	}
	return "Other"
}
