// Package infofix normalizes the info field of lintian overrides whose tag
// changed its free-text location convention, typically from the prose
// "(file) (line N)" form to the bracketed "[path:lineno]" form.
//
// Rules live in one validated table keyed by exact tag name, so the
// normalization set stays independently testable and decoupled from the
// fixers that invoke it.
package infofix

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/debtidy/debtidy/internal/overrides"
)

// ErrInvalidRule indicates a rewrite-table entry that is neither a valid
// pattern pair nor a callable. It surfaces when the table is compiled, not
// at point of use.
var ErrInvalidRule = errors.New("invalid info rewrite rule")

// Spec declares one rewrite rule before compilation: either a
// pattern/replacement pair or a function, never both.
type Spec struct {
	Pattern     string
	Replacement string
	Fn          func(info string) string
}

type rule struct {
	re   *regexp.Regexp
	repl string
	fn   func(string) string
}

func (r rule) apply(info string) string {
	if r.fn != nil {
		if out := r.fn(info); out != "" {
			return out
		}
		return info
	}
	return r.re.ReplaceAllString(info, r.repl)
}

// Table maps lintian tag names to compiled rewrite rules. Lookup is by
// exact tag only.
type Table map[string]rule

// Compile validates specs into a Table. Any entry with an uncompilable
// pattern, with both a pattern and a function, or with neither, fails with
// an error wrapping ErrInvalidRule.
func Compile(specs map[string]Spec) (Table, error) {
	table := make(Table, len(specs))
	for tag, spec := range specs {
		hasPattern := spec.Pattern != ""
		hasFn := spec.Fn != nil
		if hasPattern == hasFn {
			return nil, fmt.Errorf("%w: %s: need exactly one of pattern or function", ErrInvalidRule, tag)
		}
		if hasFn {
			table[tag] = rule{fn: spec.Fn}
			continue
		}
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRule, tag, err)
		}
		table[tag] = rule{re: re, repl: spec.Replacement}
	}
	return table, nil
}

// Fix normalizes the override's info field. Tags absent from the table, and
// patterns that do not match, leave the info unchanged.
func (t Table) Fix(o overrides.Override) string {
	r, ok := t[o.Tag]
	if !ok {
		return o.Info
	}
	return r.apply(o.Info)
}

// Fix applies the default rewrite table.
func Fix(o overrides.Override) string {
	return defaultTable.Fix(o)
}

var longLineRe = regexp.MustCompile(`^(.*) line (\d+) is (\d+) characters long \(>(\d+)\)$`)

func fixLongLineInfo(info string) string {
	m := longLineRe.FindStringSubmatch(info)
	if m == nil {
		return ""
	}
	return fmt.Sprintf("%s > %s [%s:%s]", m[3], m[4], m[1], m[2])
}

// defaultSpecs covers the tags whose info convention moved to the bracketed
// path form. The patterns refuse info that already starts with "[" so a
// second normalization pass leaves the file alone.
var defaultSpecs = map[string]Spec{
	"maintainer-manual-page": {
		Pattern:     `^([^\[].*)$`,
		Replacement: `[$1]`,
	},
	"very-long-line-length-in-source-file": {
		Fn: fixLongLineInfo,
	},
	"source-contains-prebuilt-windows-binary": {
		Pattern:     `^([^\[\s]\S*)$`,
		Replacement: `[$1]`,
	},
	"source-is-missing": {
		Pattern:     `^([^\[\s]\S*)$`,
		Replacement: `[$1]`,
	},
	"national-encoding": {
		Pattern:     `^([^\[\s]\S*)$`,
		Replacement: `[$1]`,
	},
}

var defaultTable = mustCompile(defaultSpecs)

func mustCompile(specs map[string]Spec) Table {
	table, err := Compile(specs)
	if err != nil {
		panic(err)
	}
	return table
}
