package organizer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Scanner walks the configured roots and yields candidate files. Hidden files
// and directories are skipped, as is anything already under the target root.
type Scanner struct {
	Roots      []string
	TargetRoot string
}

// Scan returns the candidate file paths in walk order. Unreadable directories
// are logged and skipped rather than failing the run.
func (s *Scanner) Scan() ([]string, error) {
	if len(s.Roots) == 0 {
		return nil, fmt.Errorf("no scan roots configured")
	}
	target, _ := filepath.Abs(s.TargetRoot)

	var files []string
	for _, root := range s.Roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve scan root %s: %w", root, err)
		}
		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warnf("skipping %s: %v", path, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			name := d.Name()
			if d.IsDir() {
				if path != absRoot && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				if target != "" && path == target {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasPrefix(name, ".") {
				return nil
			}
			if filepath.Ext(name) == "" {
				return nil
			}
			info, err := d.Info()
			if err != nil || !info.Mode().IsRegular() {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return files, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}
	return files, nil
}

// statSize is a small helper for display; errors collapse to zero.
func statSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
