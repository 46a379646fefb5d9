package scanner

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/fjglira/xraysync/internal/domain"
)

// Scanner discovers spreadsheets in the input directory.
type Scanner interface {
	Scan(rootDir string, patterns []string, excludes []string) ([]string, error)
	Resolve(rootDir, name string) (string, error)
}

// FileScanner implements Scanner on the local filesystem.
type FileScanner struct {
	Recursive bool
}

// NewScanner creates a new FileScanner.
func NewScanner(recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive}
}

// Scan walks rootDir and returns sorted file paths whose base name matches
// any of the given glob patterns and none of the excludes.
func (s *FileScanner) Scan(rootDir string, patterns []string, excludes []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !s.Recursive && path != rootDir {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if matchAny(name, excludes) {
			return nil
		}
		if matchAny(name, patterns) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, domain.NewError("scan", rootDir, 0, "failed to scan directory", err)
	}

	sort.Strings(files)
	return files, nil
}

// Resolve joins name onto rootDir and checks that it is a regular file.
func (s *FileScanner) Resolve(rootDir, name string) (string, error) {
	path := filepath.Join(rootDir, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", domain.NewErrorWithSuggestion("scan", path, 0,
			"spreadsheet not found",
			"run `xraysync list` to see the files available in PATH_EXCEL",
			err)
	}
	if info.IsDir() {
		return "", domain.NewError("scan", path, 0, "expected a spreadsheet, found a directory", nil)
	}
	return path, nil
}

func matchAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if matched, _ := filepath.Match(p, name); matched {
			return true
		}
	}
	return false
}
