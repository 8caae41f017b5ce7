// Package fixers applies automatic fixes for lintian tags to a Debian
// source package tree. Each fixer owns one family of tags and edits the
// tree through the format-preserving editors, so untouched lines survive
// byte-for-byte.
package fixers

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/debtidy/debtidy/internal/edit"
	"github.com/debtidy/debtidy/internal/overrides"
)

// Tree is a Debian source package tree, the directory containing debian/.
type Tree struct {
	root string

	// overrideLocations, when set, replaces overrides.DefaultLocations.
	overrideLocations []string
}

// NewTree creates a tree rooted at root. Optional locations override where
// lintian override files are looked up.
func NewTree(root string, locations ...string) *Tree {
	return &Tree{root: root, overrideLocations: locations}
}

// Root returns the tree's root directory.
func (t *Tree) Root() string { return t.root }

// Path joins rel onto the tree root.
func (t *Tree) Path(rel ...string) string {
	return filepath.Join(append([]string{t.root}, rel...)...)
}

// Rel returns path relative to the tree root, falling back to path itself
// when it lies outside the tree.
func (t *Tree) Rel(path string) string {
	rel, err := filepath.Rel(t.root, path)
	if err != nil {
		return path
	}
	return rel
}

// Overrides returns the lintian override store of the tree.
func (t *Tree) Overrides() *overrides.Store {
	return overrides.NewStore(t.root, t.overrideLocations...)
}

// Result describes what one fixer changed in a tree.
type Result struct {
	// Summary is a one-line, changelog-style description of the change.
	Summary string

	// Changed lists the tree-relative paths that were rewritten or removed.
	Changed []string

	// FixedTags are the lintian tags addressed by the change.
	FixedTags []string
}

// Applied reports whether the fixer changed anything.
func (r *Result) Applied() bool {
	return r != nil && len(r.Changed) > 0
}

// Fixer fixes one family of lintian tags in a package tree.
//
// Fix returns an empty result when there is nothing to do. A tree missing
// the file a fixer edits, or carrying a file that is not machine readable,
// is never an error; the fixer simply does not apply. A round-trip
// fidelity failure (edit.ErrFormatNotPreservable) is an error and must
// surface to the runner.
type Fixer interface {
	Name() string
	Tags() []string
	Fix(ctx context.Context, tree *Tree) (*Result, error)
}

// skippable reports whether err means the fixer's input was absent or not
// in the expected dialect rather than the run being broken. Preservation
// failures are deliberately not included; those propagate.
func skippable(err error) bool {
	return errors.Is(err, edit.ErrNotFound) ||
		errors.Is(err, edit.ErrNotMachineReadable)
}
