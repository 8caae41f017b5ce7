// Package edit implements the format-preserving editor used by every
// structured-file fixer.
//
// An Editor reads a file, decodes it through a Codec, lets the caller mutate
// the decoded model, and writes the file back at most once, on Close, and
// only when the mutation actually changed the serialized content. Directly
// after decoding, the model is re-encoded and kept as a pristine snapshot;
// if the caller makes no semantic change but the pristine snapshot differs
// from the bytes on disk, the codec is lossy for this file and Close fails
// with ErrFormatNotPreservable instead of silently rewriting the file in a
// different style.
package edit

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Editor failure conditions. Fixers treat ErrNotFound and
// ErrNotMachineReadable as "nothing to do"; ErrFormatNotPreservable must
// abort the edit.
var (
	// ErrNotFound indicates the file to edit does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrNotMachineReadable indicates the file exists but is not in the
	// machine-readable dialect the codec expects.
	ErrNotMachineReadable = errors.New("file is not machine readable")

	// ErrFormatNotPreservable indicates decode followed by encode does not
	// reproduce the original bytes, so an unmodified model cannot be
	// trusted to round-trip.
	ErrFormatNotPreservable = errors.New("file formatting cannot be preserved")
)

// Codec decodes file content into a model and encodes it back.
//
// Encode(Decode(data)) must be deterministic; it does not have to be
// byte-identical to data (the Editor detects that case and refuses to write).
// Decode reports undecodable input by wrapping ErrNotMachineReadable.
type Codec[M any] interface {
	Decode(data []byte) (M, error)
	Encode(model M) ([]byte, error)
}

// EmptyAware is an optional codec extension. When the codec implements it
// and the editor was opened with DeleteOnEmpty, a model that became empty
// deletes the backing file instead of writing empty content.
type EmptyAware[M any] interface {
	IsEmpty(model M) bool
}

// Option configures an Editor.
type Option func(*options)

type options struct {
	deleteOnEmpty bool
}

// DeleteOnEmpty makes Close remove the backing file when the mutated model
// is empty, for formats where an empty file means "absent".
func DeleteOnEmpty() Option {
	return func(o *options) { o.deleteOnEmpty = true }
}

// Editor is a scoped edit of a single file. It is not safe for concurrent
// use; the expected lifecycle is Open, mutate the model, Close (or Abort).
type Editor[M any] struct {
	path     string
	codec    Codec[M]
	opts     options
	original []byte
	pristine []byte
	model    M
	done     bool
}

// Open reads path and decodes it through codec.
//
// A missing file yields an error wrapping both ErrNotFound and the
// underlying fs.ErrNotExist. Decode errors propagate as returned by the
// codec.
func Open[M any](path string, codec Codec[M], opts ...Option) (*Editor[M], error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		return nil, err
	}

	model, err := codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	pristine, err := codec.Encode(model)
	if err != nil {
		return nil, fmt.Errorf("re-encoding %s: %w", path, err)
	}

	return &Editor[M]{
		path:     path,
		codec:    codec,
		opts:     o,
		original: raw,
		pristine: pristine,
		model:    model,
	}, nil
}

// Path returns the path of the file being edited.
func (e *Editor[M]) Path() string { return e.path }

// Model returns the decoded model for mutation. Reference-typed models can
// be mutated in place; value models go back through SetModel.
func (e *Editor[M]) Model() M { return e.model }

// SetModel replaces the model wholesale.
func (e *Editor[M]) SetModel(model M) { e.model = model }

// Abort cancels the edit. The file is left untouched and a subsequent Close
// is a no-op.
func (e *Editor[M]) Abort() { e.done = true }

// Close finishes the edit. It returns whether the backing file was
// rewritten (or removed, under DeleteOnEmpty).
//
// The lossy-round-trip guard fires here: an unmodified model whose pristine
// encoding differs from the original bytes fails with
// ErrFormatNotPreservable and writes nothing.
func (e *Editor[M]) Close() (changed bool, err error) {
	if e.done {
		return false, nil
	}
	e.done = true

	out, err := e.codec.Encode(e.model)
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", e.path, err)
	}

	if bytes.Equal(out, e.pristine) && !bytes.Equal(e.pristine, e.original) {
		return false, fmt.Errorf("%w: %s", ErrFormatNotPreservable, e.path)
	}

	if bytes.Equal(out, e.original) {
		return false, nil
	}

	if e.opts.deleteOnEmpty {
		if ea, ok := e.codec.(EmptyAware[M]); ok && ea.IsEmpty(e.model) {
			if err := os.Remove(e.path); err != nil {
				return false, fmt.Errorf("removing empty %s: %w", e.path, err)
			}
			return true, nil
		}
	}

	info, err := os.Stat(e.path)
	mode := fs.FileMode(0o644)
	if err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(e.path, out, mode); err != nil {
		return false, fmt.Errorf("writing %s: %w", e.path, err)
	}
	return true, nil
}
