package metadata

import (
	"bytes"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"curator/internal/llm"
)

// HTMLExtractor parses HTML pages for the <title>, the meta description, and
// an excerpt of the visible body text.
type HTMLExtractor struct{}

func (e *HTMLExtractor) Extract(path string) (llm.Metadata, error) {
	meta := llm.Metadata{Extension: strings.ToLower(filepath.Ext(path))}
	meta.FiletypeHint = FiletypeHint(meta.Extension)

	raw, err := readHead(path, maxTextReadBytes)
	if err != nil {
		return meta, err
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return meta, err
	}

	var visible strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if n.FirstChild != nil && meta.Title == "" {
					meta.Title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			case "meta":
				var name, content string
				for _, a := range n.Attr {
					switch strings.ToLower(a.Key) {
					case "name":
						name = strings.ToLower(a.Val)
					case "content":
						content = a.Val
					}
				}
				if name == "description" && meta.Description == "" {
					meta.Description = strings.TrimSpace(content)
				}
				return
			}
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text != "" {
				visible.WriteString(text)
				visible.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	meta.Summary = LeadingSentences(visible.String(), summarySentenceCap, summaryCharCap)
	return meta, nil
}
