// Package treeio reads and writes configuration documents. A document is a
// YAML (or JSON, its subset) mapping whose top-level keys name sections; each
// section is a nested mapping with numeric leaves. Key order is preserved in
// both directions.
package treeio

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/nsw-daq/feconf"
	"gopkg.in/yaml.v3"
)

// Document is a parsed configuration document.
type Document struct {
	root *yaml.Node // the top-level mapping
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{root: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

// Parse reads a document.
func Parse(data []byte) (*Document, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document parse error: %w", err)
	}
	if doc.Kind == 0 {
		return NewDocument(), nil
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document must be a mapping of sections")
	}
	return &Document{root: doc.Content[0]}, nil
}

// ReadFile reads a document from a file.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Sections returns the top-level keys in document order.
func (d *Document) Sections() []string {
	var names []string
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		names = append(names, d.root.Content[i].Value)
	}
	return names
}

func (d *Document) section(name string) (int, *yaml.Node) {
	for i := 0; i+1 < len(d.root.Content); i += 2 {
		if d.root.Content[i].Value == name {
			return i + 1, d.root.Content[i+1]
		}
	}
	return -1, nil
}

// Section converts one section into a Tree.
func (d *Document) Section(name string) (*feconf.Tree, error) {
	_, node := d.section(name)
	if node == nil {
		return nil, fmt.Errorf("no section %q", name)
	}
	return NodeToTree(node)
}

// Tree converts the whole document into a Tree.
func (d *Document) Tree() (*feconf.Tree, error) {
	return NodeToTree(d.root)
}

// SetSection replaces the named section, or appends it when absent. With
// hex set, values are written in hexadecimal.
func (d *Document) SetSection(name string, t *feconf.Tree, hex bool) {
	node := sectionNode(t, hex)
	if i, old := d.section(name); old != nil {
		d.root.Content[i] = node
		return
	}
	d.root.Content = append(d.root.Content, stringNode(name), node)
}

// A Converter turns one section into another representation.
type Converter func(*feconf.Tree) (*feconf.Tree, error)

// Rewrite walks the whole document, at any depth, and replaces every mapping
// whose key pick returns a Converter for by the converted tree. Nested
// mappings of a converted section are not visited again. It returns the
// number of sections converted.
func (d *Document) Rewrite(pick func(key string) Converter, hex bool) (int, error) {
	return rewrite(d.root, "", pick, hex)
}

func rewrite(node *yaml.Node, prefix string, pick func(string) Converter, hex bool) (int, error) {
	n := 0
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, child := node.Content[i].Value, node.Content[i+1]
		if child.Kind != yaml.MappingNode {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if conv := pick(key); conv != nil {
			t, err := NodeToTree(child)
			if err != nil {
				return n, fmt.Errorf("%s: %w", path, err)
			}
			out, err := conv(t)
			if err != nil {
				return n, fmt.Errorf("%s: %w", path, err)
			}
			node.Content[i+1] = sectionNode(out, hex)
			n++
			continue
		}
		m, err := rewrite(child, path, pick, hex)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Bytes encodes the document as YAML.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes the document into a file.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// NodeToTree converts a mapping node. Keys containing dots are split into
// nested levels. Leaves may be decimal, 0x hex or 0b binary numbers, quoted
// or not, or booleans. A key given twice, or used both for a value and for a
// group of values, is an error.
func NodeToTree(node *yaml.Node) (*feconf.Tree, error) {
	t := feconf.NewTree()
	if err := addNode(t, "", node); err != nil {
		return nil, err
	}
	return t, nil
}

func addNode(t *feconf.Tree, prefix string, node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			if err := addNode(t, key, node.Content[i+1]); err != nil {
				return err
			}
		}
		return nil
	case yaml.ScalarNode:
		if prefix == "" {
			return fmt.Errorf("line %d: expected a mapping", node.Line)
		}
		v, err := scalarValue(node)
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", node.Line, prefix, err)
		}
		if err := t.Insert(prefix, v); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		return nil
	}
	return fmt.Errorf("line %d: %s: lists are not configuration values", node.Line, prefix)
}

func scalarValue(node *yaml.Node) (feconf.Word, error) {
	switch strings.ToLower(node.Value) {
	case "true":
		return feconf.W64(1), nil
	case "false":
		return feconf.W64(0), nil
	}
	return feconf.ParseWord(node.Value)
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// sectionNode is TreeToNode except that an empty tree becomes an empty
// mapping rather than a zero.
func sectionNode(t *feconf.Tree, hex bool) *yaml.Node {
	if t.IsLeaf() {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	return TreeToNode(t, hex)
}

// TreeToNode converts a Tree into a nested mapping node, keeping child order.
func TreeToNode(t *feconf.Tree, hex bool) *yaml.Node {
	if t.IsLeaf() {
		v := t.Value()
		text := v.String()
		if hex {
			text = v.Hex()
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: text}
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range t.Keys() {
		node.Content = append(node.Content, stringNode(key), TreeToNode(t.Child(key), hex))
	}
	return node
}
