package infofix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/debtidy/debtidy/internal/overrides"
)

func TestFix_UnknownTag_InfoUnchanged(t *testing.T) {
	o := overrides.Override{Tag: "no-such-tag", Info: "anything at all"}
	require.Equal(t, "anything at all", Fix(o))
}

func TestFix_MaintainerManualPage_BracketsInfo(t *testing.T) {
	o := overrides.Override{Tag: "maintainer-manual-page", Info: "*"}
	require.Equal(t, "[*]", Fix(o))
}

func TestFix_VeryLongLine_RewritesToBracketedLocation(t *testing.T) {
	o := overrides.Override{
		Tag:  "very-long-line-length-in-source-file",
		Info: "benchmark/samples/lorem1.txt line 3 is 881 characters long (>512)",
	}
	require.Equal(t, "881 > 512 [benchmark/samples/lorem1.txt:3]", Fix(o))
}

func TestFix_CallableNoMatch_FallsBackToOriginal(t *testing.T) {
	o := overrides.Override{
		Tag:  "very-long-line-length-in-source-file",
		Info: "already rewritten [foo.txt:3]",
	}
	require.Equal(t, "already rewritten [foo.txt:3]", Fix(o))
}

func TestFix_AlreadyBracketed_IsNoOp(t *testing.T) {
	for _, tag := range []string{"maintainer-manual-page", "national-encoding", "source-is-missing"} {
		o := overrides.Override{Tag: tag, Info: "[*]"}
		require.Equal(t, "[*]", Fix(o), tag)
	}
}

func TestFix_PatternNoMatch_IsNoOp(t *testing.T) {
	// Pattern wants a single token; two tokens leave the info untouched.
	o := overrides.Override{Tag: "source-is-missing", Info: "two tokens"}
	require.Equal(t, "two tokens", Fix(o))
}

func TestCompile_BadPattern_FailsWithInvalidRule(t *testing.T) {
	_, err := Compile(map[string]Spec{
		"broken": {Pattern: "([unclosed", Replacement: "x"},
	})
	require.ErrorIs(t, err, ErrInvalidRule)
}

func TestCompile_PatternAndFunction_FailsWithInvalidRule(t *testing.T) {
	_, err := Compile(map[string]Spec{
		"ambiguous": {Pattern: "^x$", Replacement: "y", Fn: func(string) string { return "" }},
	})
	require.ErrorIs(t, err, ErrInvalidRule)
}

func TestCompile_NeitherPatternNorFunction_FailsWithInvalidRule(t *testing.T) {
	_, err := Compile(map[string]Spec{"empty": {}})
	require.ErrorIs(t, err, ErrInvalidRule)
}

func TestDefaultSpecs_AllCompile(t *testing.T) {
	_, err := Compile(defaultSpecs)
	require.NoError(t, err)
}
