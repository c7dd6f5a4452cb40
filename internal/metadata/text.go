package metadata

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/neurosnap/sentences"

	"curator/internal/llm"
)

const (
	maxTextReadBytes   = 64 * 1024
	summarySentenceCap = 3
	summaryCharCap     = 500
)

// TextExtractor reads plain-text files and produces a short leading-sentence
// summary plus a title from the first non-empty line.
type TextExtractor struct{}

func (e *TextExtractor) Extract(path string) (llm.Metadata, error) {
	meta := llm.Metadata{Extension: strings.ToLower(filepath.Ext(path))}
	meta.FiletypeHint = FiletypeHint(meta.Extension)

	binary, err := IsLikelyBinary(path)
	if err != nil {
		return meta, err
	}
	if binary {
		return meta, nil
	}

	raw, err := readHead(path, maxTextReadBytes)
	if err != nil {
		return meta, err
	}
	content, err := CleanFileContent(raw, path)
	if err != nil {
		return meta, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return meta, nil
	}

	meta.Title = firstLine(content)
	meta.Summary = LeadingSentences(content, summarySentenceCap, summaryCharCap)
	return meta, nil
}

// LeadingSentences returns up to maxSentences from the start of text, stopping
// early once charCap is reached. Falls back to a plain character cut when the
// tokenizer finds no sentence boundaries.
func LeadingSentences(text string, maxSentences, charCap int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return ""
	}

	tokenizer := sentences.NewSentenceTokenizer(nil)
	sents := tokenizer.Tokenize(text)
	if len(sents) == 0 {
		if len(text) > charCap {
			return text[:charCap]
		}
		return text
	}

	var b strings.Builder
	taken := 0
	for _, s := range sents {
		t := strings.TrimSpace(s.Text)
		if t == "" {
			continue
		}
		if taken == 0 || b.Len()+1+len(t) <= charCap {
			if taken > 0 {
				b.WriteString(" ")
			}
			b.WriteString(t)
			taken++
		}
		if taken >= maxSentences || b.Len() >= charCap {
			break
		}
	}
	out := b.String()
	if len(out) > charCap {
		out = out[:charCap]
	}
	return strings.TrimSpace(out)
}

func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return strings.TrimLeft(line, "# ")
		}
	}
	return ""
}

func readHead(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	read, err := f.Read(buf)
	if err != nil && read == 0 {
		return nil, err
	}
	return buf[:read], nil
}
