package feconf

import (
	"fmt"
	"strings"
)

// Tree is an ordered, hierarchical mapping addressed by dot-separated paths.
// All three configuration representations (value based, sub-register based
// and flat register based) are Trees of Word leaves. A leaf is a node without
// children. Children keep their insertion order.
type Tree struct {
	value    Word
	keys     []string
	children map[string]*Tree
}

// Leaf is one leaf of a Tree with its full dot path.
type Leaf struct {
	Path  string
	Value Word
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{}
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// Put stores v at path, creating intermediate nodes as needed. It
// overwrites: extending a leaf drops the leaf's value. Use Insert for input
// that must not lose values.
func (t *Tree) Put(path string, v Word) {
	node := t
	for _, key := range splitPath(path) {
		node = node.child(key, true)
	}
	node.value = v
}

// Insert stores v at path like Put, but refuses to lose data: a path that
// extends an existing leaf, names an existing inner node, or repeats a leaf
// is an error.
func (t *Tree) Insert(path string, v Word) error {
	keys := splitPath(path)
	node := t
	for i, key := range keys {
		c := node.child(key, false)
		last := i == len(keys)-1
		switch {
		case c == nil:
		case !last && len(c.children) == 0:
			return fmt.Errorf("%s extends the value at %s: %w", path, strings.Join(keys[:i+1], "."), ErrPathConflict)
		case last && len(c.children) > 0:
			return fmt.Errorf("%s already holds %d values: %w", path, c.Len(), ErrPathConflict)
		case last:
			return fmt.Errorf("%s given twice: %w", path, ErrDuplicateValue)
		}
		node = node.child(key, true)
	}
	node.value = v
	return nil
}

// PutUint64 stores v at path.
func (t *Tree) PutUint64(path string, v uint64) {
	t.Put(path, W64(v))
}

func (t *Tree) child(key string, create bool) *Tree {
	if c, ok := t.children[key]; ok {
		return c
	}
	if !create {
		return nil
	}
	if t.children == nil {
		t.children = make(map[string]*Tree)
	}
	c := &Tree{}
	t.children[key] = c
	t.keys = append(t.keys, key)
	return c
}

// Child returns the subtree at path, or nil if there is none.
func (t *Tree) Child(path string) *Tree {
	node := t
	for _, key := range splitPath(path) {
		if node = node.child(key, false); node == nil {
			return nil
		}
	}
	return node
}

// Has reports whether path names a node of the tree.
func (t *Tree) Has(path string) bool {
	return t.Child(path) != nil
}

// Get returns the value stored at path. The second result is false when the
// path does not exist or names an interior node.
func (t *Tree) Get(path string) (Word, bool) {
	node := t.Child(path)
	if node == nil || len(node.keys) > 0 {
		return Word{}, false
	}
	return node.value, true
}

// GetUint64 returns the value at path when it exists and fits in 64 bits.
func (t *Tree) GetUint64(path string) (uint64, bool) {
	w, ok := t.Get(path)
	if !ok {
		return 0, false
	}
	return w.Uint64()
}

// Value returns the value of this node itself.
func (t *Tree) Value() Word {
	return t.value
}

// Keys returns the names of the direct children in insertion order.
func (t *Tree) Keys() []string {
	return append([]string(nil), t.keys...)
}

// IsLeaf reports whether the node has no children.
func (t *Tree) IsLeaf() bool {
	return len(t.keys) == 0
}

// Leaves returns every leaf with its full path, depth first in insertion
// order. An empty tree has no leaves.
func (t *Tree) Leaves() []Leaf {
	var leaves []Leaf
	var walk func(node *Tree, prefix string)
	walk = func(node *Tree, prefix string) {
		if node.IsLeaf() {
			if prefix != "" {
				leaves = append(leaves, Leaf{prefix, node.value})
			}
			return
		}
		for _, key := range node.keys {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			walk(node.children[key], path)
		}
	}
	walk(t, "")
	return leaves
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.Leaves())
}

// Clone returns a deep copy.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	c := &Tree{value: t.value, keys: append([]string(nil), t.keys...)}
	if t.children != nil {
		c.children = make(map[string]*Tree, len(t.children))
		for k, v := range t.children {
			c.children[k] = v.Clone()
		}
	}
	return c
}

// Equal reports whether both trees have the same leaf paths holding the same
// values. Order is not compared.
func (t *Tree) Equal(other *Tree) bool {
	a, b := t.Leaves(), other.Leaves()
	if len(a) != len(b) {
		return false
	}
	values := make(map[string]Word, len(a))
	for _, l := range a {
		values[l.Path] = l.Value
	}
	for _, l := range b {
		if v, ok := values[l.Path]; !ok || v != l.Value {
			return false
		}
	}
	return true
}

// String lists the leaves one per line as "path: value".
func (t *Tree) String() string {
	var b strings.Builder
	for _, l := range t.Leaves() {
		fmt.Fprintf(&b, "%s: %s\n", l.Path, l.Value)
	}
	return b.String()
}
