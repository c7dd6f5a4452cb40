package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRegistryRoutesByExtension(t *testing.T) {
	r := NewRegistry()

	txt := writeFile(t, "notes.txt", "Fan manual overview.\n\nCovers installation.")
	meta := r.Extract(txt)
	assert.Equal(t, ".txt", meta.Extension)
	assert.Equal(t, "plain text", meta.FiletypeHint)
	assert.Contains(t, meta.Summary, "Fan manual overview")

	bin := writeFile(t, "blob.xyz", "anything")
	meta = r.Extract(bin)
	assert.Equal(t, ".xyz", meta.Extension)
	assert.Empty(t, meta.Summary)
}

func TestRegistryMissingFileFallsBack(t *testing.T) {
	r := NewRegistry()
	meta := r.Extract("/does/not/exist.txt")
	assert.Equal(t, ".txt", meta.Extension)
	assert.Equal(t, "plain text", meta.FiletypeHint)
	assert.Empty(t, meta.Summary)
}

func TestTextExtractor(t *testing.T) {
	path := writeFile(t, "manual.md",
		"# GV60 Fan Manual\n\nThis manual covers installation. It also covers maintenance. Warranty terms follow. More text here.")
	meta, err := (&TextExtractor{}).Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "GV60 Fan Manual", meta.Title)
	assert.Contains(t, meta.Summary, "This manual covers installation.")
	assert.NotContains(t, meta.Summary, "More text here")
}

func TestTextExtractorSkipsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.txt")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 'a'}, 0o644))
	meta, err := (&TextExtractor{}).Extract(path)
	require.NoError(t, err)
	assert.Empty(t, meta.Summary)
}

func TestHTMLExtractor(t *testing.T) {
	page := `<html><head>
<title>GV60 Fan Manual</title>
<meta name="description" content="Installation guide for the GV60 fan.">
<script>ignore();</script>
</head><body><p>Mount the bracket first. Then wire the motor.</p></body></html>`
	path := writeFile(t, "manual.html", page)

	meta, err := (&HTMLExtractor{}).Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "GV60 Fan Manual", meta.Title)
	assert.Equal(t, "Installation guide for the GV60 fan.", meta.Description)
	assert.Contains(t, meta.Summary, "Mount the bracket first.")
	assert.NotContains(t, meta.Summary, "ignore()")
}

func TestCodeExtractor(t *testing.T) {
	src := "// Package fanctl drives the GV60 fan controller.\n// It exposes speed and timer control.\npackage fanctl\n"
	path := writeFile(t, "fanctl.go", src)

	meta, err := (&CodeExtractor{}).Extract(path)
	require.NoError(t, err)
	assert.Contains(t, meta.Summary, "Package fanctl drives the GV60 fan controller.")
	assert.Equal(t, "Go source", meta.FiletypeHint)
}

func TestCodeExtractorNoLeadingComment(t *testing.T) {
	path := writeFile(t, "plain.py", "x = 1\n")
	meta, err := (&CodeExtractor{}).Extract(path)
	require.NoError(t, err)
	assert.Empty(t, meta.Summary)
}

func TestIsLikelyBinary(t *testing.T) {
	text := writeFile(t, "a.txt", "plain text")
	got, err := IsLikelyBinary(text)
	require.NoError(t, err)
	assert.False(t, got)

	binPath := filepath.Join(t.TempDir(), "a.bin")
	require.NoError(t, os.WriteFile(binPath, []byte{'a', 0x00, 'b'}, 0o644))
	got, err = IsLikelyBinary(binPath)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCleanFileContent(t *testing.T) {
	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello ‘world’")...)
	got, err := CleanFileContent(bom, "test")
	require.NoError(t, err)
	assert.Equal(t, "hello 'world'", got)
}

func TestCleanFileContentRepairsInvalidUTF8(t *testing.T) {
	got, err := CleanFileContent([]byte{'a', 0xFF, 'b'}, "test")
	require.NoError(t, err)
	assert.Contains(t, got, "a")
	assert.Contains(t, got, "b")
}

func TestLeadingSentences(t *testing.T) {
	text := "First sentence here. Second one follows. Third closes it. Fourth is dropped."
	got := LeadingSentences(text, 3, 500)
	assert.Equal(t, "First sentence here. Second one follows. Third closes it.", got)
}

func TestLeadingSentencesCharCap(t *testing.T) {
	got := LeadingSentences("One short sentence. Another short sentence.", 3, 25)
	assert.LessOrEqual(t, len(got), 25)
	assert.Contains(t, got, "One short sentence.")
}

func TestFiletypeHint(t *testing.T) {
	assert.Equal(t, "PDF document", FiletypeHint(".pdf"))
	assert.Equal(t, "PDF document", FiletypeHint(".PDF"))
	assert.Equal(t, "", FiletypeHint(".unknown"))
}
