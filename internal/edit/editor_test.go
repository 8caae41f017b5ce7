package edit

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// wordsCodec models a file as a slice of whitespace-separated words, one per
// line on encode. Sorting on decode makes it lossy for unsorted input, which
// the format-preservation tests rely on.
type wordsCodec struct {
	sorted bool
}

func (c wordsCodec) Decode(data []byte) (*[]string, error) {
	words := strings.Fields(string(data))
	if c.sorted {
		sort.Strings(words)
	}
	return &words, nil
}

func (c wordsCodec) Encode(model *[]string) ([]byte, error) {
	if len(*model) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(*model, "\n") + "\n"), nil
}

func (c wordsCodec) IsEmpty(model *[]string) bool {
	return len(*model) == 0
}

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpen_MissingFile_ReturnsNotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent"), wordsCodec{})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestClose_NoMutation_LeavesFileUntouched(t *testing.T) {
	path := writeFixture(t, "alpha\nbeta\n")

	ed, err := Open(path, wordsCodec{})
	require.NoError(t, err)

	changed, err := ed.Close()
	require.NoError(t, err)
	require.False(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "alpha\nbeta\n", string(data))
}

func TestClose_Mutation_WritesBack(t *testing.T) {
	path := writeFixture(t, "alpha\nbeta\n")

	ed, err := Open(path, wordsCodec{})
	require.NoError(t, err)

	*ed.Model() = append(*ed.Model(), "gamma")

	changed, err := ed.Close()
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "alpha\nbeta\ngamma\n", string(data))
}

func TestClose_LossyCodecWithoutMutation_FailsWithoutWriting(t *testing.T) {
	// The sorting codec reorders "beta alpha", so the pristine re-encode
	// differs from the bytes on disk.
	path := writeFixture(t, "beta\nalpha\n")

	ed, err := Open(path, wordsCodec{sorted: true})
	require.NoError(t, err)

	changed, err := ed.Close()
	require.False(t, changed)
	require.ErrorIs(t, err, ErrFormatNotPreservable)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "beta\nalpha\n", string(data))
}

func TestClose_LossyCodecWithMutation_WritesMutatedContent(t *testing.T) {
	path := writeFixture(t, "beta\nalpha\n")

	ed, err := Open(path, wordsCodec{sorted: true})
	require.NoError(t, err)

	*ed.Model() = append(*ed.Model(), "gamma")

	changed, err := ed.Close()
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "alpha\nbeta\ngamma\n", string(data))
}

func TestClose_DeleteOnEmpty_RemovesFile(t *testing.T) {
	path := writeFixture(t, "alpha\n")

	ed, err := Open(path, wordsCodec{}, DeleteOnEmpty())
	require.NoError(t, err)

	*ed.Model() = nil

	changed, err := ed.Close()
	require.NoError(t, err)
	require.True(t, changed)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestClose_EmptyModelWithoutDeleteOnEmpty_WritesEmptyFile(t *testing.T) {
	path := writeFixture(t, "alpha\n")

	ed, err := Open(path, wordsCodec{})
	require.NoError(t, err)

	*ed.Model() = nil

	changed, err := ed.Close()
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestAbort_AfterMutation_WritesNothing(t *testing.T) {
	path := writeFixture(t, "alpha\n")

	ed, err := Open(path, wordsCodec{})
	require.NoError(t, err)

	*ed.Model() = append(*ed.Model(), "beta")
	ed.Abort()

	changed, err := ed.Close()
	require.NoError(t, err)
	require.False(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "alpha\n", string(data))
}

func TestClose_Twice_SecondCloseIsNoOp(t *testing.T) {
	path := writeFixture(t, "alpha\n")

	ed, err := Open(path, wordsCodec{})
	require.NoError(t, err)

	*ed.Model() = append(*ed.Model(), "beta")

	changed, err := ed.Close()
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = ed.Close()
	require.NoError(t, err)
	require.False(t, changed)
}
