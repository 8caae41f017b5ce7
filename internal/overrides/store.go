package overrides

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultLocations are the override file locations searched relative to the
// package tree root. Entries may be glob patterns.
var DefaultLocations = []string{
	"debian/source/lintian-overrides",
	"debian/*.lintian-overrides",
}

// Transform inspects one override record and returns its replacement, or
// nil to delete the record. Returning the input unchanged keeps the line
// as-is.
type Transform func(lineno int, override Override) (*Override, error)

// UpdateFile applies transform to every override record in the file at
// path, preserving comment and blank lines verbatim. The file is rewritten
// only when at least one record changed structurally; it is removed
// entirely when nothing, not even a comment, remains. A missing file counts
// as containing no overrides.
func UpdateFile(path string, transform Transform) (changed bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	lines := splitLines(string(data))
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if isVerbatim(line) {
			out = append(out, line)
			continue
		}
		override, err := ParseLine(line)
		if err != nil {
			return false, fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		replacement, err := transform(i+1, override)
		if err != nil {
			return false, fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		if replacement == nil {
			changed = true
			continue
		}
		if !replacement.Equal(override) {
			changed = true
		}
		out = append(out, replacement.String())
	}

	if !changed {
		return false, nil
	}
	if len(out) == 0 {
		if err := os.Remove(path); err != nil {
			return false, err
		}
		return true, nil
	}
	content := strings.Join(out, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), filePerm(path)); err != nil {
		return false, err
	}
	return true, nil
}

// Store reads and updates the override files of one package tree.
type Store struct {
	root      string
	locations []string
}

// NewStore creates a store rooted at the package tree root. Without
// explicit locations, DefaultLocations is searched.
func NewStore(root string, locations ...string) *Store {
	if len(locations) == 0 {
		locations = DefaultLocations
	}
	return &Store{root: root, locations: locations}
}

// Files returns the override files that currently exist under the store's
// locations, in location order.
func (s *Store) Files() ([]string, error) {
	var paths []string
	for _, loc := range s.locations {
		pattern := filepath.Join(s.root, loc)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad override location %q: %w", loc, err)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// Update applies transform across every known override file. It returns
// the paths of the files that were rewritten (or removed), relative to the
// tree root.
func (s *Store) Update(transform Transform) ([]string, error) {
	paths, err := s.Files()
	if err != nil {
		return nil, err
	}
	var changed []string
	for _, path := range paths {
		fileChanged, err := UpdateFile(path, transform)
		if err != nil {
			return changed, err
		}
		if fileChanged {
			rel, err := filepath.Rel(s.root, path)
			if err != nil {
				rel = path
			}
			changed = append(changed, rel)
		}
	}
	return changed, nil
}

// Exists reports whether any override record matches tag, and, when
// non-empty, info and pkg as well.
func (s *Store) Exists(tag, info, pkg string) (bool, error) {
	paths, err := s.Files()
	if err != nil {
		return false, err
	}
	for _, path := range paths {
		records, err := ReadFile(path)
		if err != nil {
			return false, err
		}
		for _, o := range records {
			if o.Tag != tag {
				continue
			}
			if info != "" && o.Info != info {
				continue
			}
			if pkg != "" && o.Package != pkg {
				continue
			}
			return true, nil
		}
	}
	return false, nil
}

// ReadFile parses every override record in the file at path. A missing file
// yields no records and no error.
func ReadFile(path string) ([]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var records []Override
	for i, line := range splitLines(string(data)) {
		if isVerbatim(line) {
			continue
		}
		o, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		records = append(records, o)
	}
	return records, nil
}

func isVerbatim(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

func splitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

func filePerm(path string) fs.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}
