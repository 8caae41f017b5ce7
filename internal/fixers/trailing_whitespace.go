package fixers

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/debtidy/debtidy/internal/edit/lineedit"
)

// whitespaceFiles are the packaging files lintian checks for trailing
// whitespace.
var whitespaceFiles = []string{
	"debian/changelog",
	"debian/control",
	"debian/rules",
}

// TrailingWhitespace strips trailing spaces and tabs from packaging files.
type TrailingWhitespace struct{}

func (TrailingWhitespace) Name() string { return "trailing-whitespace" }

func (TrailingWhitespace) Tags() []string { return []string{"trailing-whitespace"} }

func (TrailingWhitespace) Fix(_ context.Context, tree *Tree) (*Result, error) {
	var changedPaths []string
	for _, rel := range whitespaceFiles {
		path := tree.Path(filepath.FromSlash(rel))
		ed, err := lineedit.Open(path)
		if err != nil {
			if skippable(err) {
				continue
			}
			return nil, err
		}
		model := ed.Model()
		for i, line := range model.Lines {
			model.Lines[i] = strings.TrimRight(line, " \t")
		}
		changed, err := ed.Close()
		if err != nil {
			return nil, err
		}
		if changed {
			changedPaths = append(changedPaths, rel)
		}
	}
	if len(changedPaths) == 0 {
		return &Result{}, nil
	}
	return &Result{
		Summary:   "Trim trailing whitespace.",
		Changed:   changedPaths,
		FixedTags: []string{"trailing-whitespace"},
	}, nil
}
