// Package sexpr parses the parenthesized s-expression format used by
// schematic files into a navigable node tree and provides the typed
// accessors the document loader is built on.
package sexpr

import (
	"fmt"
	"strconv"
)

// Node is one element of the parsed tree. A node is either an atom, whose
// text lives in Value, or a list of child nodes. Quoted strings and bare
// symbols both become atoms; Quoted distinguishes them for the rare
// callers that care.
type Node struct {
	Value    string
	Quoted   bool
	Children []*Node

	list bool
	line int
}

// IsList reports whether the node is a list. An empty list is still a
// list, not an atom.
func (n *Node) IsList() bool { return n.list }

// Line returns the 1-based source line the node started on.
func (n *Node) Line() int { return n.line }

// Name returns the leading symbol of a list, or the atom's own text.
// Lists that do not start with an atom have no name.
func (n *Node) Name() string {
	if !n.list {
		return n.Value
	}
	if len(n.Children) > 0 && !n.Children[0].list {
		return n.Children[0].Value
	}
	return ""
}

// Find returns the first child list named key, or the first bare atom
// equal to key. Bare-atom matches cover flag-style entries like the
// lone word "hide" inside an effects list.
func (n *Node) Find(key string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Name() == key && (c.list || c.Value == key) {
			return c, true
		}
	}
	return nil, false
}

// FindAll returns every child list named key, in document order.
func (n *Node) FindAll(key string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.list && c.Name() == key {
			out = append(out, c)
		}
	}
	return out
}

// Has reports whether a child list or flag atom named key exists.
func (n *Node) Has(key string) bool {
	_, ok := n.Find(key)
	return ok
}

// Values returns the child nodes after the leading name symbol.
func (n *Node) Values() []*Node {
	if !n.list || len(n.Children) == 0 {
		return nil
	}
	return n.Children[1:]
}

func (n *Node) at(index int) (*Node, error) {
	if !n.list {
		return nil, fmt.Errorf("sexpr: line %d: %q is not a list", n.line, n.Value)
	}
	if index < 0 || index >= len(n.Children) {
		return nil, fmt.Errorf("sexpr: line %d: (%s ...) has no element %d", n.line, n.Name(), index)
	}
	c := n.Children[index]
	if c.list {
		return nil, fmt.Errorf("sexpr: line %d: (%s ...) element %d is a list, not an atom", n.line, n.Name(), index)
	}
	return c, nil
}

// Str returns the atom at index as a string. Index 0 is the list's name.
func (n *Node) Str(index int) (string, error) {
	c, err := n.at(index)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// StrOr returns the atom at index, or the fallback when absent.
func (n *Node) StrOr(index int, fallback string) string {
	s, err := n.Str(index)
	if err != nil {
		return fallback
	}
	return s
}

// Float returns the atom at index parsed as a float64.
func (n *Node) Float(index int) (float64, error) {
	c, err := n.at(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return 0, fmt.Errorf("sexpr: line %d: %q is not a number", c.line, c.Value)
	}
	return v, nil
}

// FloatOr returns the atom at index as a float64, or the fallback when
// absent or malformed.
func (n *Node) FloatOr(index int, fallback float64) float64 {
	v, err := n.Float(index)
	if err != nil {
		return fallback
	}
	return v
}

// Int returns the atom at index parsed as an int.
func (n *Node) Int(index int) (int, error) {
	c, err := n.at(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(c.Value)
	if err != nil {
		return 0, fmt.Errorf("sexpr: line %d: %q is not an integer", c.line, c.Value)
	}
	return v, nil
}

// String renders the subtree back to s-expression text, quoting atoms
// that were quoted in the source. Mainly used by diagnostics.
func (n *Node) String() string {
	if !n.list {
		if n.Quoted {
			return strconv.Quote(n.Value)
		}
		return n.Value
	}
	out := "("
	for i, c := range n.Children {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out + ")"
}
