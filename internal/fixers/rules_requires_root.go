package fixers

import (
	"context"

	"github.com/debtidy/debtidy/internal/deb/control"
)

// RulesRequiresRoot declares that the package build needs no root, by
// adding Rules-Requires-Root: no to the source stanza of debian/control.
// Packages that stay silent get the slower fakeroot build path.
type RulesRequiresRoot struct{}

func (RulesRequiresRoot) Name() string { return "rules-requires-root" }

func (RulesRequiresRoot) Tags() []string {
	return []string{"silent-on-rules-requiring-root"}
}

func (RulesRequiresRoot) Fix(_ context.Context, tree *Tree) (*Result, error) {
	path := tree.Path("debian", "control")
	ed, err := control.Open(path)
	if err != nil {
		if skippable(err) {
			return &Result{}, nil
		}
		return nil, err
	}

	source := ed.Model().Source()
	if source == nil || source.Has("Rules-Requires-Root") {
		ed.Abort()
		return &Result{}, nil
	}
	source.Set("Rules-Requires-Root", "no")

	changed, err := ed.Close()
	if err != nil {
		return nil, err
	}
	if !changed {
		return &Result{}, nil
	}
	return &Result{
		Summary:   "Set Rules-Requires-Root: no.",
		Changed:   []string{tree.Rel(path)},
		FixedTags: []string{"silent-on-rules-requiring-root"},
	}, nil
}
