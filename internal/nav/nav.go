// Package nav models the ordered navigation tree of a documentation site.
//
// A nav entry is either a leaf (label + document path), a section
// (label + ordered children), or a bare path whose label is derived from
// the document filename at render time. Entries decode from and encode to
// the YAML shapes MkDocs uses, preserving document order.
package nav

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Entry is a single navigation entry.
type Entry struct {
	Label    string
	Path     string  // leaf document path, relative to docs_dir
	Children []Entry // non-empty for section entries
}

// IsLeaf reports whether the entry points at a document rather than a section.
func (e *Entry) IsLeaf() bool {
	return len(e.Children) == 0
}

// Tree is an ordered list of top-level navigation entries.
type Tree []Entry

// UnmarshalYAML decodes the MkDocs nav entry shapes:
//
//	- path.md                  (bare path, label derived from filename)
//	- Label: path.md           (leaf)
//	- Label: [<entries>]       (section)
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		e.Path = value.Value
		return nil
	case yaml.MappingNode:
		if len(value.Content) != 2 {
			return fmt.Errorf("line %d: nav entry must have exactly one label", value.Line)
		}
		key, val := value.Content[0], value.Content[1]
		e.Label = key.Value
		switch val.Kind {
		case yaml.ScalarNode:
			e.Path = val.Value
			return nil
		case yaml.SequenceNode:
			children := make([]Entry, 0, len(val.Content))
			for _, child := range val.Content {
				var ce Entry
				if err := ce.UnmarshalYAML(child); err != nil {
					return err
				}
				children = append(children, ce)
			}
			e.Children = children
			return nil
		default:
			return fmt.Errorf("line %d: nav entry %q must map to a path or a list", val.Line, e.Label)
		}
	default:
		return fmt.Errorf("line %d: nav entry must be a path or a single-key mapping", value.Line)
	}
}

// MarshalYAML encodes the entry back into the shape it was authored in.
func (e Entry) MarshalYAML() (any, error) {
	if e.Label == "" {
		return e.Path, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	key := &yaml.Node{Kind: yaml.ScalarNode, Value: e.Label}
	if e.IsLeaf() {
		node.Content = []*yaml.Node{key, {Kind: yaml.ScalarNode, Value: e.Path}}
		return node, nil
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, child := range e.Children {
		enc, err := child.MarshalYAML()
		if err != nil {
			return nil, err
		}
		var cn yaml.Node
		if err := cn.Encode(enc); err != nil {
			return nil, err
		}
		seq.Content = append(seq.Content, &cn)
	}
	node.Content = []*yaml.Node{key, seq}
	return node, nil
}

// Walk visits every entry depth-first in document order.
// Returning an error from fn aborts the walk.
func (t Tree) Walk(fn func(e *Entry, depth int) error) error {
	var walk func(entries []Entry, depth int) error
	walk = func(entries []Entry, depth int) error {
		for i := range entries {
			if err := fn(&entries[i], depth); err != nil {
				return err
			}
			if len(entries[i].Children) > 0 {
				if err := walk(entries[i].Children, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(t, 0)
}

// Leaf pairs a resolved display label with a document path.
type Leaf struct {
	Label string
	Path  string
}

// Leaves returns every document reference in document order.
// Labels for bare-path entries are derived from the filename.
func (t Tree) Leaves() []Leaf {
	var leaves []Leaf
	_ = t.Walk(func(e *Entry, _ int) error {
		if e.IsLeaf() && e.Path != "" {
			label := e.Label
			if label == "" {
				label = TitleFromPath(e.Path)
			}
			leaves = append(leaves, Leaf{Label: label, Path: e.Path})
		}
		return nil
	})
	return leaves
}

// DuplicateTopLabels returns top-level labels that appear more than once.
func (t Tree) DuplicateTopLabels() []string {
	seen := make(map[string]int)
	var dupes []string
	for _, e := range t {
		label := e.Label
		if label == "" {
			label = TitleFromPath(e.Path)
		}
		seen[label]++
		if seen[label] == 2 {
			dupes = append(dupes, label)
		}
	}
	return dupes
}

var titleCaser = cases.Title(language.English)

// TitleFromPath derives a display label from a document path,
// e.g. "api/attribution-methods.md" becomes "Attribution Methods".
func TitleFromPath(p string) string {
	base := path.Base(p)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	return titleCaser.String(base)
}
