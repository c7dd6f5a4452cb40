package metadata

import (
	"path/filepath"
	"strings"

	"curator/internal/llm"
)

// GenericExtractor handles files no content extractor claims: it only reports
// the filetype hint derived from the extension.
type GenericExtractor struct{}

func (e *GenericExtractor) Extract(path string) (llm.Metadata, error) {
	ext := strings.ToLower(filepath.Ext(path))
	return llm.Metadata{
		Extension:    ext,
		FiletypeHint: FiletypeHint(ext),
	}, nil
}
