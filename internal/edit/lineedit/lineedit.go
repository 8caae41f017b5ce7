// Package lineedit edits files as plain lists of lines. The codec is exact:
// any byte content round-trips unchanged, so the format-preservation guard
// never fires for this editor.
package lineedit

import (
	"strings"

	"github.com/debtidy/debtidy/internal/edit"
)

// Lines is the decoded model: the file's lines without terminators, plus
// whether the file ended with a newline.
type Lines struct {
	Lines           []string
	TrailingNewline bool
}

// Append adds a line at the end.
func (l *Lines) Append(line string) {
	l.Lines = append(l.Lines, line)
	if len(l.Lines) == 1 {
		l.TrailingNewline = true
	}
}

// Delete removes the line at index i.
func (l *Lines) Delete(i int) {
	l.Lines = append(l.Lines[:i], l.Lines[i+1:]...)
}

// Codec implements edit.Codec for line lists.
type Codec struct{}

// Decode splits data on newlines.
func (Codec) Decode(data []byte) (*Lines, error) {
	if len(data) == 0 {
		return &Lines{}, nil
	}
	text := string(data)
	trailing := strings.HasSuffix(text, "\n")
	if trailing {
		text = text[:len(text)-1]
	}
	return &Lines{Lines: strings.Split(text, "\n"), TrailingNewline: trailing}, nil
}

// Encode joins lines back with newlines.
func (Codec) Encode(model *Lines) ([]byte, error) {
	if len(model.Lines) == 0 {
		return []byte{}, nil
	}
	text := strings.Join(model.Lines, "\n")
	if model.TrailingNewline {
		text += "\n"
	}
	return []byte(text), nil
}

// IsEmpty reports whether the file has no lines left.
func (Codec) IsEmpty(model *Lines) bool {
	return len(model.Lines) == 0
}

// Open opens path as a line editor.
func Open(path string, opts ...edit.Option) (*edit.Editor[*Lines], error) {
	return edit.Open(path, Codec{}, opts...)
}
