// Package yamledit edits YAML mapping documents (debian/upstream/metadata
// and friends) through the format-preserving editor.
//
// Documents are decoded into yaml.Node trees rather than plain maps so that
// comments, key order, and most scalar styles survive re-encoding. Files the
// node round-trip cannot reproduce are caught by the editor's
// ErrFormatNotPreservable guard.
package yamledit

import (
	"bytes"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/debtidy/debtidy/internal/edit"
)

// Document is a YAML file whose top level is a mapping. A zero Document
// represents an empty file.
type Document struct {
	root *yaml.Node

	// hasMarker records whether the file opened with a "---" document
	// marker, which yaml.Node does not carry through a round trip.
	hasMarker bool
}

func (d *Document) mapping() *yaml.Node {
	if d.root == nil || len(d.root.Content) == 0 {
		return nil
	}
	return d.root.Content[0]
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	m := d.mapping()
	if m == nil {
		return 0
	}
	return len(m.Content) / 2
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	m := d.mapping()
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys
}

func (d *Document) pair(key string) (keyNode, valueNode *yaml.Node) {
	m := d.mapping()
	if m == nil {
		return nil, nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i], m.Content[i+1]
		}
	}
	return nil, nil
}

// Has reports whether key is present at the top level.
func (d *Document) Has(key string) bool {
	k, _ := d.pair(key)
	return k != nil
}

// Get returns the scalar value of key. Non-scalar values yield ok=false.
func (d *Document) Get(key string) (value string, ok bool) {
	_, v := d.pair(key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

// Node returns the value node for key, for callers needing non-scalar
// access.
func (d *Document) Node(key string) (*yaml.Node, bool) {
	_, v := d.pair(key)
	return v, v != nil
}

// Set stores a scalar value under key, appending the key if absent.
func (d *Document) Set(key, value string) {
	if _, v := d.pair(key); v != nil {
		v.SetString(value)
		return
	}
	if d.root == nil {
		d.root = &yaml.Node{Kind: yaml.DocumentNode}
	}
	if len(d.root.Content) == 0 {
		d.root.Content = []*yaml.Node{{Kind: yaml.MappingNode}}
	}
	m := d.root.Content[0]
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	valueNode := &yaml.Node{}
	valueNode.SetString(value)
	m.Content = append(m.Content, keyNode, valueNode)
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	m := d.mapping()
	if m == nil {
		return false
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return true
		}
	}
	return false
}

// Rename changes the key of an existing entry, keeping its value and any
// attached comments. It reports whether oldKey was present.
func (d *Document) Rename(oldKey, newKey string) bool {
	k, _ := d.pair(oldKey)
	if k == nil {
		return false
	}
	k.Value = newKey
	return true
}

// Codec implements edit.Codec for top-level-mapping YAML documents.
type Codec struct{}

// Decode parses data, requiring the document to be empty or a mapping.
func (Codec) Decode(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Document{}, nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", edit.ErrNotMachineReadable, err)
	}
	if len(root.Content) == 0 {
		return &Document{}, nil
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", edit.ErrNotMachineReadable)
	}
	hasMarker := bytes.HasPrefix(bytes.TrimLeft(data, "\n"), []byte("---"))
	return &Document{root: &root, hasMarker: hasMarker}, nil
}

// Encode serializes the document with two-space indent. An empty document
// encodes to zero bytes.
func (Codec) Encode(model *Document) ([]byte, error) {
	if model.Len() == 0 {
		return []byte{}, nil
	}
	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(model.root); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := buf.String()
	if model.hasMarker {
		out = "---\n" + out
	}
	return []byte(out), nil
}

// IsEmpty reports whether the document has no keys left.
func (Codec) IsEmpty(model *Document) bool {
	return model.Len() == 0
}

// Open opens path as a YAML document editor.
func Open(path string, opts ...edit.Option) (*edit.Editor[*Document], error) {
	return edit.Open(path, Codec{}, opts...)
}
