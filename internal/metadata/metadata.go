package metadata

import (
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"curator/internal/llm"
)

// Extractor reads descriptive metadata for one file. Implementations should
// return whatever they can recover; a partially filled result with a nil error
// is preferred over failing the whole file.
type Extractor interface {
	Extract(path string) (llm.Metadata, error)
}

// Registry routes files to extractors by extension. Extensions are stored
// lowercase with the leading dot (".txt" style, e.g. ".txt").
type Registry struct {
	byExt    map[string]Extractor
	fallback Extractor
}

// NewRegistry builds the default registry: text-like and markup files get
// content-aware extractors, everything else gets the generic one.
func NewRegistry() *Registry {
	r := &Registry{
		byExt:    make(map[string]Extractor),
		fallback: &GenericExtractor{},
	}
	text := &TextExtractor{}
	for _, ext := range []string{".txt", ".md", ".markdown", ".rst", ".log", ".csv"} {
		r.Register(ext, text)
	}
	html := &HTMLExtractor{}
	for _, ext := range []string{".html", ".htm", ".xhtml"} {
		r.Register(ext, html)
	}
	code := &CodeExtractor{}
	for _, ext := range []string{".go", ".py", ".js", ".ts", ".rb", ".rs", ".java", ".c", ".h", ".cpp", ".sh", ".sql"} {
		r.Register(ext, code)
	}
	return r
}

// Register maps an extension to an extractor, replacing any previous mapping.
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// Extract runs the extractor registered for the file's extension. Extraction
// errors are logged and demoted to a generic result so one unreadable file
// never stops a run.
func (r *Registry) Extract(path string) llm.Metadata {
	ext := strings.ToLower(filepath.Ext(path))
	extractor, ok := r.byExt[ext]
	if !ok {
		extractor = r.fallback
	}
	meta, err := extractor.Extract(path)
	if err != nil {
		log.Warnf("metadata extraction failed for %s: %v", path, err)
		meta, _ = r.fallback.Extract(path)
	}
	if meta.Extension == "" {
		meta.Extension = ext
	}
	if meta.FiletypeHint == "" {
		meta.FiletypeHint = FiletypeHint(ext)
	}
	return meta
}

var filetypeHints = map[string]string{
	".pdf": "PDF document", ".doc": "Word document", ".docx": "Word document",
	".odt": "OpenDocument text", ".txt": "plain text", ".md": "Markdown document",
	".rst": "reStructuredText document", ".log": "log file", ".csv": "CSV table",
	".xls": "Excel spreadsheet", ".xlsx": "Excel spreadsheet", ".ods": "OpenDocument spreadsheet",
	".ppt": "PowerPoint presentation", ".pptx": "PowerPoint presentation",
	".jpg": "JPEG image", ".jpeg": "JPEG image", ".png": "PNG image",
	".gif": "GIF image", ".webp": "WebP image", ".svg": "SVG image",
	".heic": "HEIC image", ".tiff": "TIFF image", ".bmp": "bitmap image",
	".mp3": "MP3 audio", ".wav": "WAV audio", ".flac": "FLAC audio",
	".ogg": "Ogg audio", ".m4a": "AAC audio",
	".mp4": "MP4 video", ".mkv": "Matroska video", ".mov": "QuickTime video",
	".avi": "AVI video", ".webm": "WebM video",
	".zip": "ZIP archive", ".tar": "tar archive", ".gz": "gzip archive",
	".7z": "7-Zip archive", ".rar": "RAR archive",
	".json": "JSON data", ".yaml": "YAML data", ".yml": "YAML data",
	".xml": "XML data", ".toml": "TOML data", ".sqlite": "SQLite database",
	".html": "HTML page", ".htm": "HTML page",
	".go": "Go source", ".py": "Python source", ".js": "JavaScript source",
	".ts": "TypeScript source", ".rb": "Ruby source", ".rs": "Rust source",
	".java": "Java source", ".c": "C source", ".h": "C header",
	".cpp": "C++ source", ".sh": "shell script", ".sql": "SQL script",
}

// FiletypeHint returns a short human phrase for the extension, or "" when the
// extension is unknown.
func FiletypeHint(ext string) string {
	return filetypeHints[strings.ToLower(ext)]
}
