package fixers

import (
	"context"

	"github.com/debtidy/debtidy/internal/overrides"
	"github.com/debtidy/debtidy/internal/overrides/infofix"
)

// OverrideInfo rewrites the info field of lintian overrides whose tag moved
// its free-text location convention to the bracketed [path:lineno] form.
// Overrides with stale info no longer match, so lintian reports the tag
// again despite the override.
type OverrideInfo struct{}

func (OverrideInfo) Name() string { return "override-info-format" }

func (OverrideInfo) Tags() []string { return []string{"mismatched-override"} }

func (OverrideInfo) Fix(_ context.Context, tree *Tree) (*Result, error) {
	changed, err := tree.Overrides().Update(func(_ int, o overrides.Override) (*overrides.Override, error) {
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
		Summary:   "Update lintian override info to new format.",
		Changed:   changed,
		FixedTags: []string{"mismatched-override"},
	}, nil
}
