// Package systemd edits systemd unit files shipped in debian/.
package systemd

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/debtidy/debtidy/internal/deb/inifile"
	"github.com/debtidy/debtidy/internal/edit"
)

// Open opens path as a systemd unit file.
func Open(path string, opts ...edit.Option) (*edit.Editor[*inifile.File], error) {
	return inifile.Open(path, inifile.UnitOptions, opts...)
}

var unitSuffixes = []string{".service", ".socket", ".timer", ".mount", ".target", ".path"}

// IsUnitPath reports whether path looks like a systemd unit by suffix.
func IsUnitPath(path string) bool {
	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// FindUnits returns the unit files under dir, in walk order. A missing dir
// yields no units.
func FindUnits(dir string) ([]string, error) {
	var units []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsUnitPath(path) {
			units = append(units, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return units, nil
}
