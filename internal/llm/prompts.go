package llm

import (
	"fmt"
	"strings"
)

// Metadata is the payload handed over by the extraction plugins. Zero-value
// fields are simply omitted from prompts.
type Metadata struct {
	Title        string
	Keywords     []string
	Summary      string
	Description  string
	Caption      string
	OCRText      string
	CaptionNote  string
	FiletypeHint string
	Extension    string
}

// RenameRequest asks for a fresh descriptive filename.
type RenameRequest struct {
	Metadata    Metadata
	CurrentName string
	Context     string
}

// KeepRequest asks what to do with the original filename stem. Features are
// computed deterministically by the caller, never re-derived by the backend.
type KeepRequest struct {
	OriginalStem  string
	SuggestedName string
	Extension     string
	Features      FeatureVector
}

// SortItem describes one file for category assignment. Path is the stable
// identifier that correlates the request with its result.
type SortItem struct {
	Path        string
	Name        string
	Ext         string
	Description string
}

// SortRequest asks for a category per file.
type SortRequest struct {
	Files   []SortItem
	Context string
}

// Example outputs quoted verbatim inside prompts and format-fix retries.
const (
	RenameExampleOutput = "<new_name>GV60_MAX_Fan_Manual_2015.pdf</new_name>\n" +
		"<reason>manual with model and year</reason>"
	KeepExampleOutput = "<stem_action>keep</stem_action>\n" +
		"<reason>stem has a meaningful model number</reason>"
	SortExampleOutput = "<category>Document</category>\n" +
		"<reason>manual with model and year</reason>"
)

// BuildRenamePrompt renders a rename request into deterministic prompt text:
// stable field order, no timestamps, empty fields omitted.
func BuildRenamePrompt(req RenameRequest) string {
	var lines []string
	if req.Context != "" {
		lines = append(lines, "Context: "+req.Context)
	}
	lines = append(lines,
		fmt.Sprintf("Rename this file concisely (max %d chars).", PromptFilenameChars),
		"If the document type is unclear, describe the content neutrally and avoid guessing.",
		"Do not include phone numbers, email addresses, or other personal identifiers.",
	)

	title := truncateClean(sanitizePromptText(req.Metadata.Title), 200)
	keywords := sanitizePromptList(req.Metadata.Keywords)
	description := req.Metadata.Summary
	if description == "" {
		description = req.Metadata.Description
	}
	description = truncateClean(sanitizePromptText(description), 1200)
	caption := truncateClean(sanitizePromptText(req.Metadata.Caption), 800)
	ocrText := truncateClean(sanitizePromptText(req.Metadata.OCRText), 800)
	captionNote := sanitizePromptText(req.Metadata.CaptionNote)
	filetypeHint := sanitizePromptText(req.Metadata.FiletypeHint)

	lines = append(lines, "current_name: "+req.CurrentName)
	if filetypeHint != "" {
		lines = append(lines, "filetype: "+filetypeHint)
	}
	if title != "" {
		lines = append(lines, "title: "+title)
	}
	if len(keywords) > 0 {
		lines = append(lines, "keywords: "+strings.Join(keywords, ", "))
	}
	if description != "" {
		lines = append(lines, "description: "+description)
	}
	if caption != "" {
		lines = append(lines, "caption: "+caption)
	}
	if ocrText != "" {
		lines = append(lines, "ocr_text: "+ocrText)
	}
	if captionNote != "" {
		lines = append(lines, "caption_note: "+captionNote)
	}
	if req.Metadata.Extension != "" {
		lines = append(lines, "extension: "+req.Metadata.Extension)
	}
	lines = append(lines,
		"Return only the tags shown below.",
		"Example output:",
		RenameExampleOutput,
	)
	return strings.Join(lines, "\n")
}

// BuildRenamePromptMinimal is the trimmed variant used as the first fallback
// when the full prompt is refused: same contract, but optional context and
// keyword fields are reduced to a single short excerpt.
func BuildRenamePromptMinimal(req RenameRequest) string {
	var lines []string
	if req.Context != "" {
		lines = append(lines, "Context: "+req.Context)
	}
	lines = append(lines,
		fmt.Sprintf("Rename this file concisely (max %d chars).", PromptFilenameChars),
		"If the document type is unclear, describe the content neutrally and avoid guessing.",
	)

	title := truncateClean(sanitizePromptText(req.Metadata.Title), 200)
	excerpt := promptExcerpt(req.Metadata)
	filetypeHint := sanitizePromptText(req.Metadata.FiletypeHint)

	lines = append(lines, "current_name: "+req.CurrentName)
	if filetypeHint != "" {
		lines = append(lines, "filetype: "+filetypeHint)
	}
	if title != "" {
		lines = append(lines, "title: "+title)
	}
	if excerpt != "" {
		lines = append(lines, "excerpt: "+excerpt)
	}
	if req.Metadata.Extension != "" {
		lines = append(lines, "extension: "+req.Metadata.Extension)
	}
	lines = append(lines,
		"Return only the tags shown below.",
		"Example output:",
		RenameExampleOutput,
	)
	return strings.Join(lines, "\n")
}

// promptExcerpt picks the first non-empty long-form field and caps it.
func promptExcerpt(meta Metadata) string {
	for _, value := range []string{meta.Summary, meta.Description, meta.Caption, meta.OCRText} {
		if text := sanitizePromptText(value); text != "" {
			return truncateClean(text, promptExcerptChars)
		}
	}
	return ""
}

// BuildKeepPrompt renders a stem-action request. The ordered rule list below
// is applied by the backend over the supplied features only; it is told not to
// re-derive the flags so the classification stays auditable.
func BuildKeepPrompt(req KeepRequest) string {
	lines := []string{
		"Choose stem_action: drop | normalize | keep.",
		"Apply these rules in order, using only the features listed below. Do not re-derive them:",
		"1. If uuid_like, hex_blob, is_numeric_only, or long_digit_run is true: drop.",
		"2. If generic_label is true and alpha_token_count <= 1: drop.",
		"3. If stem_in_suggested is true: drop.",
		"4. If digit_ratio > 0.8: drop.",
		"5. If length > 60 or token_count > 8: normalize.",
		"6. Otherwise: keep.",
		"Reason should mention what useful info is in the stem.",
		"Prefer keep when the stem is already concise; normalize only to shorten long or noisy stems.",
		"original_stem: " + req.OriginalStem,
		"suggested_name: " + req.SuggestedName,
	}
	if req.Extension != "" {
		lines = append(lines, "extension: "+req.Extension)
	}
	lines = append(lines, "features:")
	lines = append(lines, req.Features.PromptLines()...)
	lines = append(lines,
		"Return only the tags shown below.",
		"Example outputs (choose only one):",
		"keep:",
		"<stem_action>keep</stem_action>",
		"<reason>stem has a meaningful model number</reason>",
		"drop:",
		"<stem_action>drop</stem_action>",
		"<reason>stem is a generic download label</reason>",
		"normalize:",
		"<stem_action>normalize</stem_action>",
		"<reason>stem is long; keep only the core identifier</reason>",
	)
	return strings.Join(lines, "\n")
}

// BuildSortPrompt renders a single-item category request. Batch sorting is the
// engine's job; this builder always describes exactly one file.
func BuildSortPrompt(req SortRequest) string {
	var lines []string
	if req.Context != "" {
		lines = append(lines, "Context: "+req.Context)
	}
	lines = append(lines,
		"Assign one allowed category to the file below.",
		"Give a short reason tied to the file details.",
		"Allowed categories:",
	)
	for _, cat := range Categories {
		lines = append(lines, "- "+cat)
	}
	item := req.Files[0]
	lines = append(lines,
		"File:",
		fmt.Sprintf("path=%s | name=%s | ext=%s | desc=%s",
			item.Path, item.Name, item.Ext, sanitizePromptText(item.Description)),
		"Return only the tags shown below.",
		"Example output:",
		SortExampleOutput,
	)
	return strings.Join(lines, "\n")
}

// BuildFormatFixPrompt re-states the original request plus the exact accepted
// grammar after a parse failure.
func BuildFormatFixPrompt(originalPrompt, exampleOutput string) string {
	return strings.Join([]string{
		originalPrompt,
		"Your previous reply did not match the required format.",
		"Reply with tags only, exactly as in this example:",
		exampleOutput,
	}, "\n")
}
