package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MoveFile moves source to target, creating the destination directory and
// suffixing the name (-1, -2, ...) on collision. Returns the path actually
// written.
func MoveFile(source, target string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create destination directory: %w", err)
	}

	final := target
	ext := filepath.Ext(target)
	base := strings.TrimSuffix(target, ext)
	for i := 1; ; i++ {
		if _, err := os.Stat(final); os.IsNotExist(err) {
			break
		}
		if i > 1000 {
			return "", fmt.Errorf("too many collisions for %s", target)
		}
		final = fmt.Sprintf("%s-%d%s", base, i, ext)
	}

	if err := os.Rename(source, final); err != nil {
		return "", fmt.Errorf("failed to move %s to %s: %w", source, final, err)
	}
	return final, nil
}
