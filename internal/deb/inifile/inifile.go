// Package inifile is the shared engine behind the desktop-entry and
// systemd-unit editors: sectioned Key=Value files whose untouched lines
// must survive an edit byte-for-byte.
package inifile

import (
	"fmt"
	"strings"

	"github.com/debtidy/debtidy/internal/edit"
)

// Options select the dialect details that differ between desktop entries
// and systemd units.
type Options struct {
	// CommentPrefixes are the line prefixes treated as comments.
	CommentPrefixes []string

	// AllowRepeats permits the same key to appear multiple times within a
	// section, as systemd units do for list-valued settings.
	AllowRepeats bool
}

// DesktopOptions is the desktop-entry dialect.
var DesktopOptions = Options{CommentPrefixes: []string{"#"}}

// UnitOptions is the systemd-unit dialect.
var UnitOptions = Options{CommentPrefixes: []string{"#", ";"}, AllowRepeats: true}

type entry struct {
	verbatim string
	isKey    bool

	key   string
	value string
	// raw is the original line; empty once the entry was rewritten.
	raw string
}

// Section is one [Name] group.
type Section struct {
	name    string
	header  string // original header line
	entries []*entry
}

// Name returns the section name without brackets.
func (s *Section) Name() string { return s.name }

func (s *Section) find(key string) *entry {
	for _, e := range s.entries {
		if e.isKey && e.key == key {
			return e
		}
	}
	return nil
}

// Has reports whether key is present in the section.
func (s *Section) Has(key string) bool { return s.find(key) != nil }

// Get returns the first value of key.
func (s *Section) Get(key string) (string, bool) {
	e := s.find(key)
	if e == nil {
		return "", false
	}
	return e.value, true
}

// GetAll returns every value of key, in order. Repeated keys only occur in
// dialects that allow them.
func (s *Section) GetAll(key string) []string {
	var values []string
	for _, e := range s.entries {
		if e.isKey && e.key == key {
			values = append(values, e.value)
		}
	}
	return values
}

// Set updates the first occurrence of key or appends a new entry.
func (s *Section) Set(key, value string) {
	if e := s.find(key); e != nil {
		if e.value == value {
			return
		}
		e.value = value
		e.raw = ""
		return
	}
	s.entries = append(s.entries, &entry{isKey: true, key: key, value: value})
}

// Delete removes every occurrence of key and reports whether any existed.
func (s *Section) Delete(key string) bool {
	deleted := false
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.isKey && e.key == key {
			deleted = true
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted
}

// Keys returns the keys of the section in file order, repeats included.
func (s *Section) Keys() []string {
	var keys []string
	for _, e := range s.entries {
		if e.isKey {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// File is a parsed sectioned Key=Value file. Lines before the first section
// header are kept verbatim.
type File struct {
	leading  []string
	sections []*Section
}

// Sections returns the file's sections in order.
func (f *File) Sections() []*Section { return f.sections }

// Section returns the named section, or nil.
func (f *File) Section(name string) *Section {
	for _, s := range f.sections {
		if s.name == name {
			return s
		}
	}
	return nil
}

// Codec implements edit.Codec for one dialect.
type Codec struct {
	Options Options
}

func (c Codec) isComment(line string) bool {
	for _, prefix := range c.Options.CommentPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// Decode parses data into sections. A Key=Value line outside any section,
// or a line that is neither header, comment, blank, nor Key=Value, makes
// the file not machine readable.
func (c Codec) Decode(data []byte) (*File, error) {
	f := &File{}
	var current *Section

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(data) == 0 {
		lines = nil
	}
	for lineno, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || c.isComment(trimmed):
			if current == nil {
				f.leading = append(f.leading, line)
			} else {
				current.entries = append(current.entries, &entry{verbatim: line})
			}

		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			current = &Section{
				name:   trimmed[1 : len(trimmed)-1],
				header: line,
			}
			f.sections = append(f.sections, current)

		default:
			key, value, ok := strings.Cut(line, "=")
			if !ok || current == nil {
				return nil, fmt.Errorf("%w: line %d: expected section header or key=value", edit.ErrNotMachineReadable, lineno+1)
			}
			if !c.Options.AllowRepeats && current.find(strings.TrimSpace(key)) != nil {
				return nil, fmt.Errorf("%w: line %d: duplicate key %q", edit.ErrNotMachineReadable, lineno+1, strings.TrimSpace(key))
			}
			current.entries = append(current.entries, &entry{
				isKey: true,
				key:   strings.TrimSpace(key),
				value: strings.TrimSpace(value),
				raw:   line,
			})
		}
	}
	return f, nil
}

// Encode serializes the file, reusing original lines for untouched entries.
func (c Codec) Encode(model *File) ([]byte, error) {
	var lines []string
	lines = append(lines, model.leading...)
	for _, s := range model.sections {
		lines = append(lines, s.header)
		for _, e := range s.entries {
			switch {
			case !e.isKey:
				lines = append(lines, e.verbatim)
			case e.raw != "":
				lines = append(lines, e.raw)
			default:
				lines = append(lines, e.key+"="+e.value)
			}
		}
	}
	if len(lines) == 0 {
		return []byte{}, nil
	}
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

// IsEmpty reports whether no sections remain.
func (c Codec) IsEmpty(model *File) bool {
	return len(model.sections) == 0
}

// Open opens path with the given dialect options.
func Open(path string, options Options, opts ...edit.Option) (*edit.Editor[*File], error) {
	return edit.Open(path, Codec{Options: options}, opts...)
}
