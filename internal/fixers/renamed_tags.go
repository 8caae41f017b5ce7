package fixers

import (
	"context"

	"github.com/debtidy/debtidy/internal/overrides"
	"github.com/debtidy/debtidy/internal/overrides/infofix"
)

// renamedTags maps old lintian tag names to their current names. Overrides
// still using the old name no longer match anything lintian emits.
var renamedTags = map[string]string{
	"copyright-should-refer-to-common-license-file-for-apache-2": "copyright-not-using-common-license-for-apache2",
	"copyright-should-refer-to-common-license-file-for-gpl":      "copyright-not-using-common-license-for-gpl",
	"debian-watch-may-check-gpg-signature":                       "debian-watch-could-verify-download",
	"jar-not-in-usr-share":                                       "codeless-jar",
	"file-contains-fixme-placeholder":                            "file-contains-fix-me-placeholder",
}

// RenamedTags rewrites lintian overrides that refer to tags by an old name.
type RenamedTags struct{}

func (RenamedTags) Name() string { return "renamed-tags" }

func (RenamedTags) Tags() []string { return []string{"renamed-tag"} }

func (RenamedTags) Fix(_ context.Context, tree *Tree) (*Result, error) {
	changed, err := tree.Overrides().Update(func(_ int, o overrides.Override) (*overrides.Override, error) {
		replacement, ok := renamedTags[o.Tag]
		if !ok {
			return &o, nil
		}
		o.Tag = replacement
		// The new tag may also use a newer info convention.
		o.Info = infofix.Fix(o)
		return &o, nil
	})
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return &Result{}, nil
	}
	return &Result{
		Summary:   "Update renamed lintian tag names in lintian overrides.",
		Changed:   changed,
		FixedTags: []string{"renamed-tag"},
	}, nil
}
