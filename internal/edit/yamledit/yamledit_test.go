package yamledit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/debtidy/debtidy/internal/edit"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCodec_SimpleMapping_RoundTripsExactly(t *testing.T) {
	cases := []string{
		"Name: lintian-brush\nRepository: https://example.com/repo.git\n",
		"---\nName: foo\nBug-Database: https://bugs.example.com\n",
		"# upstream metadata\nName: foo\n",
	}

	for _, input := range cases {
		model, err := Codec{}.Decode([]byte(input))
		require.NoError(t, err)

		out, err := Codec{}.Encode(model)
		require.NoError(t, err)
		require.Equal(t, input, string(out))
	}
}

func TestCodec_NonMappingDocument_IsNotMachineReadable(t *testing.T) {
	_, err := Codec{}.Decode([]byte("- just\n- a\n- list\n"))
	require.ErrorIs(t, err, edit.ErrNotMachineReadable)
}

func TestCodec_InvalidYAML_IsNotMachineReadable(t *testing.T) {
	_, err := Codec{}.Decode([]byte("Name: [unclosed\n"))
	require.ErrorIs(t, err, edit.ErrNotMachineReadable)
}

func TestDocument_SetExistingKey_UpdatesValue(t *testing.T) {
	model, err := Codec{}.Decode([]byte("Name: foo\nRepository: old\n"))
	require.NoError(t, err)

	model.Set("Repository", "https://example.com/new.git")

	out, err := Codec{}.Encode(model)
	require.NoError(t, err)
	require.Equal(t, "Name: foo\nRepository: https://example.com/new.git\n", string(out))
}

func TestDocument_SetNewKey_AppendsAtEnd(t *testing.T) {
	model, err := Codec{}.Decode([]byte("Name: foo\n"))
	require.NoError(t, err)

	model.Set("Repository", "https://example.com/repo.git")

	out, err := Codec{}.Encode(model)
	require.NoError(t, err)
	require.Equal(t, "Name: foo\nRepository: https://example.com/repo.git\n", string(out))
}

func TestDocument_Rename_KeepsValueAndOrder(t *testing.T) {
	model, err := Codec{}.Decode([]byte("name: foo\nRepository: r\n"))
	require.NoError(t, err)

	require.True(t, model.Rename("name", "Name"))

	out, err := Codec{}.Encode(model)
	require.NoError(t, err)
	require.Equal(t, "Name: foo\nRepository: r\n", string(out))
}

func TestDocument_Delete_RemovesKey(t *testing.T) {
	model, err := Codec{}.Decode([]byte("Name: foo\nObsolete: x\n"))
	require.NoError(t, err)

	require.True(t, model.Delete("Obsolete"))
	require.False(t, model.Delete("Obsolete"))
	require.Equal(t, []string{"Name"}, model.Keys())
}

func TestOpen_DeleteLastKeyWithDeleteOnEmpty_RemovesFile(t *testing.T) {
	path := writeFixture(t, "Obsolete: x\n")

	ed, err := Open(path, edit.DeleteOnEmpty())
	require.NoError(t, err)

	ed.Model().Delete("Obsolete")

	changed, err := ed.Close()
	require.NoError(t, err)
	require.True(t, changed)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_UnmodifiedUnpreservableFile_Fails(t *testing.T) {
	// Extra spaces after the colon are not representable in the node
	// tree, so an unmodified edit must refuse to write.
	path := writeFixture(t, "Name:    foo\nRepository: r\n")

	ed, err := Open(path)
	require.NoError(t, err)

	_, err = ed.Close()
	require.ErrorIs(t, err, edit.ErrFormatNotPreservable)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Name:    foo\nRepository: r\n", string(data))
}
