package fixers

import (
	"context"
	"strings"

	"github.com/debtidy/debtidy/internal/edit/yamledit"
)

// metadataFields are the known debian/upstream/metadata field names in
// their canonical capitalization.
var metadataFields = []string{
	"Archive",
	"ASCL-Id",
	"Bug-Database",
	"Bug-Submit",
	"Cite-As",
	"Changelog",
	"Contact",
	"CPE",
	"Documentation",
	"Donation",
	"FAQ",
	"Funding",
	"Gallery",
	"Name",
	"Other-References",
	"Reference",
	"Registration",
	"Registry",
	"Repository",
	"Repository-Browse",
	"Screenshots",
	"Security-Contact",
	"Webservice",
}

var canonicalField = func() map[string]string {
	m := make(map[string]string, len(metadataFields))
	for _, name := range metadataFields {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// UpstreamMetadata renames miscapitalized fields in
// debian/upstream/metadata to their canonical form.
type UpstreamMetadata struct{}

func (UpstreamMetadata) Name() string { return "upstream-metadata-fields" }

func (UpstreamMetadata) Tags() []string {
	return []string{"upstream-metadata-field-unknown"}
}

func (UpstreamMetadata) Fix(_ context.Context, tree *Tree) (*Result, error) {
	path := tree.Path("debian", "upstream", "metadata")
	ed, err := yamledit.Open(path)
	if err != nil {
		if skippable(err) {
			return &Result{}, nil
		}
		return nil, err
	}

	doc := ed.Model()
	for _, key := range doc.Keys() {
		canonical, known := canonicalField[strings.ToLower(key)]
		if !known || canonical == key || doc.Has(canonical) {
			continue
		}
		doc.Rename(key, canonical)
	}

	changed, err := ed.Close()
	if err != nil {
		return nil, err
	}
	if !changed {
		return &Result{}, nil
	}
	return &Result{
		Summary:   "Use canonical field names in debian/upstream/metadata.",
		Changed:   []string{tree.Rel(path)},
		FixedTags: []string{"upstream-metadata-field-unknown"},
	}, nil
}
