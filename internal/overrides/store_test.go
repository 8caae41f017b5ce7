package overrides

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func identity(_ int, o Override) (*Override, error) {
	return &o, nil
}

func writeOverrides(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lintian-overrides")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUpdateFile_IdentityTransform_NeverRewrites(t *testing.T) {
	content := "# a comment\n\nfoo [any-i386] binary: another-tag optional-extra\nbar binary: onetag\n"
	path := writeOverrides(t, content)

	changed, err := UpdateFile(path, identity)
	require.NoError(t, err)
	require.False(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, content, string(data))
}

func TestUpdateFile_DeleteByTag_KeepsOtherRecords(t *testing.T) {
	path := writeOverrides(t, "foo [any-i386] binary: another-tag optional-extra\nbar binary: onetag\n")

	changed, err := UpdateFile(path, func(_ int, o Override) (*Override, error) {
		if o.Tag == "another-tag" {
			return nil, nil
		}
		return &o, nil
	})
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "bar binary: onetag\n", string(data))
}

func TestUpdateFile_SetArchlist_RewritesRecord(t *testing.T) {
	path := writeOverrides(t, "foo binary: another-tag optional-extra\n")

	changed, err := UpdateFile(path, func(_ int, o Override) (*Override, error) {
		o.Archlist = []string{"any-i386"}
		return &o, nil
	})
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "foo [any-i386] binary: another-tag optional-extra\n", string(data))
}

func TestUpdateFile_CommentsAndBlanks_PreservedVerbatim(t *testing.T) {
	path := writeOverrides(t, "# keep me\n\n  # indented comment\nfoo binary: some-tag\n")

	changed, err := UpdateFile(path, func(_ int, o Override) (*Override, error) {
		o.Info = "now with info"
		return &o, nil
	})
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# keep me\n\n  # indented comment\nfoo binary: some-tag now with info\n", string(data))
}

func TestUpdateFile_AllRecordsDeletedNoComments_RemovesFile(t *testing.T) {
	path := writeOverrides(t, "foo binary: some-tag\nbar source: other-tag\n")

	changed, err := UpdateFile(path, func(int, Override) (*Override, error) {
		return nil, nil
	})
	require.NoError(t, err)
	require.True(t, changed)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestUpdateFile_AllRecordsDeletedCommentsRemain_KeepsFile(t *testing.T) {
	path := writeOverrides(t, "# explanation\nfoo binary: some-tag\n")

	changed, err := UpdateFile(path, func(int, Override) (*Override, error) {
		return nil, nil
	})
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# explanation\n", string(data))
}

func TestUpdateFile_MissingFile_IsNoOverrides(t *testing.T) {
	changed, err := UpdateFile(filepath.Join(t.TempDir(), "absent"), identity)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestUpdateFile_MalformedLine_FailsWithParseError(t *testing.T) {
	path := writeOverrides(t, "foo [any-i386 binary: some-tag\n")

	_, err := UpdateFile(path, identity)
	require.ErrorIs(t, err, ErrParse)
	require.ErrorContains(t, err, ":1:")
}

func TestStore_Update_CoversAllLocations(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "debian", "source"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "debian", "source", "lintian-overrides"),
		[]byte("old-tag\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "debian", "foo.lintian-overrides"),
		[]byte("foo binary: old-tag\n"), 0o644))

	store := NewStore(root)
	changed, err := store.Update(func(_ int, o Override) (*Override, error) {
		if o.Tag == "old-tag" {
			o.Tag = "new-tag"
		}
		return &o, nil
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join("debian", "source", "lintian-overrides"),
		filepath.Join("debian", "foo.lintian-overrides"),
	}, changed)

	data, err := os.ReadFile(filepath.Join(root, "debian", "source", "lintian-overrides"))
	require.NoError(t, err)
	require.Equal(t, "new-tag\n", string(data))

	data, err = os.ReadFile(filepath.Join(root, "debian", "foo.lintian-overrides"))
	require.NoError(t, err)
	require.Equal(t, "foo binary: new-tag\n", string(data))
}

func TestStore_Exists_MatchesSuppliedFieldsExactly(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "debian", "source"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "debian", "source", "lintian-overrides"),
		[]byte("foo binary: some-tag some info\n"), 0o644))

	store := NewStore(root)

	found, err := store.Exists("some-tag", "", "")
	require.NoError(t, err)
	require.True(t, found)

	found, err = store.Exists("some-tag", "some info", "foo")
	require.NoError(t, err)
	require.True(t, found)

	found, err = store.Exists("some-tag", "other info", "")
	require.NoError(t, err)
	require.False(t, found)

	found, err = store.Exists("some-tag", "", "bar")
	require.NoError(t, err)
	require.False(t, found)

	found, err = store.Exists("missing-tag", "", "")
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_MissingTree_NoOverrides(t *testing.T) {
	store := NewStore(t.TempDir())

	found, err := store.Exists("any-tag", "", "")
	require.NoError(t, err)
	require.False(t, found)

	changed, err := store.Update(identity)
	require.NoError(t, err)
	require.Empty(t, changed)
}
