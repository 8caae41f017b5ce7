package fixers

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/debtidy/debtidy/internal/deb/desktop"
)

// deprecatedDesktopKeys are keys dropped from the desktop entry
// specification. Encoding in particular is required to be UTF-8 now and the
// key itself is flagged by lintian.
var deprecatedDesktopKeys = []string{
	"Encoding",
	"MiniIcon",
	"TerminalOptions",
	"Protocols",
	"Extensions",
	"BinaryPattern",
	"MapNotify",
	"SwallowTitle",
	"SwallowExec",
	"SortOrder",
	"FilePattern",
}

// DesktopKeys removes deprecated keys from desktop entries shipped in the
// package tree.
type DesktopKeys struct{}

func (DesktopKeys) Name() string { return "desktop-deprecated-keys" }

func (DesktopKeys) Tags() []string {
	return []string{"desktop-entry-contains-encoding-key", "desktop-entry-contains-deprecated-key"}
}

func (DesktopKeys) Fix(_ context.Context, tree *Tree) (*Result, error) {
	var entries []string
	err := filepath.WalkDir(tree.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != tree.Root() {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".desktop") {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var changedPaths []string
	var encodingFixed, deprecatedFixed bool
	for _, path := range entries {
		ed, err := desktop.Open(path)
		if err != nil {
			if skippable(err) {
				continue
			}
			return nil, err
		}
		for _, key := range deprecatedDesktopKeys {
			if !desktop.Entry(ed).Delete(key) {
				continue
			}
			if key == "Encoding" {
				encodingFixed = true
			} else {
				deprecatedFixed = true
			}
		}
		changed, err := ed.Close()
		if err != nil {
			return nil, err
		}
		if changed {
			changedPaths = append(changedPaths, tree.Rel(path))
		}
	}
	if len(changedPaths) == 0 {
		return &Result{}, nil
	}
	var fixed []string
	if encodingFixed {
		fixed = append(fixed, "desktop-entry-contains-encoding-key")
	}
	if deprecatedFixed {
		fixed = append(fixed, "desktop-entry-contains-deprecated-key")
	}
	return &Result{
		Summary:   "Remove deprecated keys from desktop entries.",
		Changed:   changedPaths,
		FixedTags: fixed,
	}, nil
}
