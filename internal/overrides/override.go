// Package overrides parses, rewrites, and serializes lintian override
// files. Comment and blank lines pass through byte-for-byte; override
// records are rewritten only when a transform changed them structurally.
package overrides

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse indicates an override line with no parsable tag token.
var ErrParse = errors.New("cannot parse override")

// Type is the package type an override applies to.
type Type string

// Override types recognized in the origin prefix of an override line.
const (
	TypeBinary Type = "binary"
	TypeSource Type = "source"
	TypeUdeb   Type = "udeb"
)

func isType(token string) bool {
	switch Type(token) {
	case TypeBinary, TypeSource, TypeUdeb:
		return true
	}
	return false
}

// Override is one lintian override record. Tag is always present; every
// other field is optional, with the empty value meaning "absent".
type Override struct {
	Package  string
	Archlist []string
	Type     Type
	Tag      string
	Info     string
}

// Equal reports structural equality across all fields.
func (o Override) Equal(other Override) bool {
	if o.Package != other.Package || o.Type != other.Type || o.Tag != other.Tag || o.Info != other.Info {
		return false
	}
	if len(o.Archlist) != len(other.Archlist) {
		return false
	}
	for i, arch := range o.Archlist {
		if other.Archlist[i] != arch {
			return false
		}
	}
	return true
}

// String serializes the override to its single-line form, without the
// trailing newline. ParseLine(o.String()) reproduces o for every valid
// override.
func (o Override) String() string {
	var origin []string
	if o.Package != "" {
		origin = append(origin, o.Package)
	}
	if len(o.Archlist) > 0 {
		origin = append(origin, "["+strings.Join(o.Archlist, " ")+"]")
	}
	if o.Type != "" {
		origin = append(origin, string(o.Type))
	}

	var parts []string
	if len(origin) > 0 {
		parts = append(parts, strings.Join(origin, " ")+":")
	}
	parts = append(parts, o.Tag)
	if o.Info != "" {
		parts = append(parts, o.Info)
	}
	return strings.Join(parts, " ")
}

// ParseLine parses one non-comment override line:
//
//	[<package>][ [<archlist>]][ <type>]: <tag>[ <info>]
//
// Without ": " the whole line is tag plus info and the origin fields stay
// unset. A line with no tag token fails with an error wrapping ErrParse.
func ParseLine(line string) (Override, error) {
	text := strings.TrimSpace(line)

	var o Override
	issue := text
	if i := strings.Index(text, ": "); i >= 0 {
		origin := text[:i]
		issue = text[i+2:]

		for origin != "" {
			origin = strings.TrimSpace(origin)
			if strings.HasPrefix(origin, "[") {
				end := strings.Index(origin, "]")
				if end < 0 {
					return Override{}, fmt.Errorf("%w: unterminated architecture list in %q", ErrParse, line)
				}
				o.Archlist = strings.Fields(origin[1:end])
				origin = origin[end+1:]
				continue
			}
			token := origin
			if sp := strings.IndexByte(origin, ' '); sp >= 0 {
				token, origin = origin[:sp], origin[sp+1:]
			} else {
				origin = ""
			}
			if isType(token) {
				o.Type = Type(token)
			} else {
				o.Package = token
			}
		}
	}

	fields := strings.Fields(issue)
	if len(fields) == 0 {
		return Override{}, fmt.Errorf("%w: no tag in %q", ErrParse, line)
	}
	o.Tag = fields[0]
	if rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(issue), fields[0])); rest != "" {
		o.Info = rest
	}
	return o, nil
}
