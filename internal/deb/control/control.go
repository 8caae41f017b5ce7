// Package control edits Debian control files (debian/control and friends)
// through the format-preserving editor.
//
// Unlike an RFC822-style reader that flattens stanzas into maps, the model
// here keeps every physical line of an untouched field, so files round-trip
// byte-for-byte until a fixer actually changes a value.
package control

import (
	"fmt"
	"strings"

	"github.com/debtidy/debtidy/internal/edit"
)

// entry is one logical unit inside a stanza: either a verbatim line
// (comment) or a field with its original physical lines.
type entry struct {
	verbatim string
	isField  bool

	name  string
	value string
	// raw holds the field's original lines; nil once the value was
	// rewritten and the field must be re-rendered.
	raw []string
}

// Stanza is one paragraph of a control file.
type Stanza struct {
	entries []*entry
}

func (s *Stanza) field(name string) *entry {
	for _, e := range s.entries {
		if e.isField && strings.EqualFold(e.name, name) {
			return e
		}
	}
	return nil
}

// Has reports whether the stanza carries the named field. Field names are
// matched case-insensitively, as dpkg does.
func (s *Stanza) Has(name string) bool {
	return s.field(name) != nil
}

// Get returns the logical value of the named field. Continuation lines are
// joined with newlines.
func (s *Stanza) Get(name string) (string, bool) {
	e := s.field(name)
	if e == nil {
		return "", false
	}
	return e.value, true
}

// Set stores value under name, updating the existing field in place or
// appending a new one at the end of the stanza.
func (s *Stanza) Set(name, value string) {
	if e := s.field(name); e != nil {
		if e.value == value {
			return
		}
		e.value = value
		e.raw = nil
		return
	}
	s.entries = append(s.entries, &entry{isField: true, name: name, value: value})
}

// Delete removes the named field and reports whether it was present.
func (s *Stanza) Delete(name string) bool {
	for i, e := range s.entries {
		if e.isField && strings.EqualFold(e.name, name) {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Fields returns the field names in stanza order.
func (s *Stanza) Fields() []string {
	var names []string
	for _, e := range s.entries {
		if e.isField {
			names = append(names, e.name)
		}
	}
	return names
}

// File is a parsed control file: stanzas interleaved with the verbatim
// blank lines separating them.
type File struct {
	items []fileItem
}

type fileItem struct {
	stanza *Stanza
	blank  string
}

// Stanzas returns the file's paragraphs in order.
func (f *File) Stanzas() []*Stanza {
	var out []*Stanza
	for _, it := range f.items {
		if it.stanza != nil {
			out = append(out, it.stanza)
		}
	}
	return out
}

// Source returns the first stanza, the source paragraph of debian/control.
func (f *File) Source() *Stanza {
	stanzas := f.Stanzas()
	if len(stanzas) == 0 {
		return nil
	}
	return stanzas[0]
}

// Binaries returns every stanza after the source paragraph.
func (f *File) Binaries() []*Stanza {
	stanzas := f.Stanzas()
	if len(stanzas) == 0 {
		return nil
	}
	return stanzas[1:]
}

// Codec implements edit.Codec for control files.
type Codec struct{}

// Decode parses data stanza by stanza. Lines that are neither fields,
// continuations, comments, nor blanks make the file not machine readable.
func (Codec) Decode(data []byte) (*File, error) {
	f := &File{}
	var current *Stanza
	var lastField *entry

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(data) == 0 {
		lines = nil
	}
	for lineno, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			current = nil
			lastField = nil
			f.items = append(f.items, fileItem{blank: line})

		case strings.HasPrefix(line, "#"):
			if current == nil {
				current = &Stanza{}
				f.items = append(f.items, fileItem{stanza: current})
			}
			current.entries = append(current.entries, &entry{verbatim: line})

		case line[0] == ' ' || line[0] == '\t':
			if lastField == nil {
				return nil, fmt.Errorf("%w: line %d: continuation without a field", edit.ErrNotMachineReadable, lineno+1)
			}
			lastField.raw = append(lastField.raw, line)
			lastField.value += "\n" + strings.TrimRight(line[1:], " \t")

		default:
			name, rest, ok := strings.Cut(line, ":")
			if !ok || name == "" || strings.ContainsAny(name, " \t") {
				return nil, fmt.Errorf("%w: line %d: expected a field", edit.ErrNotMachineReadable, lineno+1)
			}
			if current == nil {
				current = &Stanza{}
				f.items = append(f.items, fileItem{stanza: current})
			}
			lastField = &entry{
				isField: true,
				name:    name,
				value:   strings.TrimSpace(rest),
				raw:     []string{line},
			}
			current.entries = append(current.entries, lastField)
		}
	}
	return f, nil
}

// Encode serializes the file, emitting untouched fields from their original
// lines and re-rendering only rewritten ones.
func (Codec) Encode(model *File) ([]byte, error) {
	var lines []string
	for _, it := range model.items {
		if it.stanza == nil {
			lines = append(lines, it.blank)
			continue
		}
		for _, e := range it.stanza.entries {
			switch {
			case !e.isField:
				lines = append(lines, e.verbatim)
			case e.raw != nil:
				lines = append(lines, e.raw...)
			default:
				lines = append(lines, renderField(e.name, e.value)...)
			}
		}
	}
	if len(lines) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

// IsEmpty reports whether no stanzas remain.
func (Codec) IsEmpty(model *File) bool {
	return len(model.Stanzas()) == 0
}

func renderField(name, value string) []string {
	parts := strings.Split(value, "\n")
	lines := make([]string, 0, len(parts))
	if parts[0] == "" {
		lines = append(lines, name+":")
	} else {
		lines = append(lines, name+": "+parts[0])
	}
	for _, cont := range parts[1:] {
		if cont == "" {
			cont = "."
		}
		if cont[0] != ' ' && cont[0] != '\t' {
			cont = " " + cont
		}
		lines = append(lines, cont)
	}
	return lines
}

// Open opens path as a control file editor.
func Open(path string, opts ...edit.Option) (*edit.Editor[*File], error) {
	return edit.Open(path, Codec{}, opts...)
}
