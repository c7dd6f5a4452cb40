package metadata

import (
	"path/filepath"
	"strings"

	"curator/internal/llm"
)

// CodeExtractor summarizes source files from their leading comment block, the
// usual place a file says what it is for.
type CodeExtractor struct{}

var commentPrefixes = []string{"//", "#", "--", ";", "*", "/*"}

func (e *CodeExtractor) Extract(path string) (llm.Metadata, error) {
	meta := llm.Metadata{Extension: strings.ToLower(filepath.Ext(path))}
	meta.FiletypeHint = FiletypeHint(meta.Extension)

	raw, err := readHead(path, maxTextReadBytes)
	if err != nil {
		return meta, err
	}
	content, err := CleanFileContent(raw, path)
	if err != nil {
		return meta, err
	}

	var commentLines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(commentLines) > 0 {
				break
			}
			continue
		}
		stripped, ok := stripCommentMarker(line)
		if !ok {
			break
		}
		if stripped != "" {
			commentLines = append(commentLines, stripped)
		}
		if len(commentLines) >= 5 {
			break
		}
	}

	if len(commentLines) > 0 {
		meta.Summary = LeadingSentences(strings.Join(commentLines, " "), summarySentenceCap, summaryCharCap)
	}
	return meta, nil
}

func stripCommentMarker(line string) (string, bool) {
	if strings.HasPrefix(line, "#!") {
		return "", true
	}
	for _, p := range commentPrefixes {
		if strings.HasPrefix(line, p) {
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(line, p), "*/")), true
		}
	}
	return "", false
}
