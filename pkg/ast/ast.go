package ast

import (
	"fmt"
	"io"
	"strings"
)

// Node is the shape every parse tree must expose to the reader: a
// classification tag, the literal text matched, and ordered children.
type Node interface {
	Tag() string
	Contents() string
	Children() []Node
}

// Tags produced by the reference parser. They follow the mpc convention of
// '|'-joined rule names so classification works by substring.
const (
	TagRoot   = ">"
	TagNumber = "expr|number|regex"
	TagSymbol = "expr|symbol|regex"
	TagSExpr  = "expr|sexpr|>"
	TagQExpr  = "expr|qexpr|>"
	TagChar   = "char"
	TagRegex  = "regex"
)

// Position is a 1-based line/column location.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is the half-open source range a node covers.
type Span struct {
	Start Position
	End   Position
}

// Tree is the in-memory Node implementation.
type Tree struct {
	Kind  string
	Text  string
	Nodes []*Tree
	Span  Span
}

func (t *Tree) Tag() string      { return t.Kind }
func (t *Tree) Contents() string { return t.Text }

func (t *Tree) Children() []Node {
	out := make([]Node, len(t.Nodes))
	for i, n := range t.Nodes {
		out[i] = n
	}
	return out
}

// Leaf builds a childless node.
func Leaf(tag, text string) *Tree {
	return &Tree{Kind: tag, Text: text}
}

// Branch builds an interior node.
func Branch(tag string, children ...*Tree) *Tree {
	return &Tree{Kind: tag, Nodes: children}
}

// Num, Sym, Open, Close, Quote, SExpr, QExpr and Root are shorthands used
// to assemble trees in tests and embedders.
func Num(text string) *Tree { return Leaf(TagNumber, text) }
func Sym(text string) *Tree { return Leaf(TagSymbol, text) }
func Open() *Tree           { return Leaf(TagChar, "(") }
func Close() *Tree          { return Leaf(TagChar, ")") }
func Quote() *Tree          { return Leaf(TagChar, "'") }

func SExpr(items ...*Tree) *Tree {
	nodes := append([]*Tree{Open()}, items...)
	return Branch(TagSExpr, append(nodes, Close())...)
}

func QExpr(items ...*Tree) *Tree {
	nodes := append([]*Tree{Quote(), Open()}, items...)
	return Branch(TagQExpr, append(nodes, Close())...)
}

func Root(items ...*Tree) *Tree {
	nodes := append([]*Tree{Leaf(TagRegex, "")}, items...)
	return Branch(TagRoot, append(nodes, Leaf(TagRegex, ""))...)
}

// IsRaw reports whether the node is a non-semantic token (delimiters, anchors).
func IsRaw(n Node) bool {
	switch n.Tag() {
	case TagChar, TagRegex:
		return true
	default:
		return false
	}
}

// CountNodes returns the number of nodes in the tree rooted at n.
func CountNodes(n Node) int {
	children := n.Children()
	if len(children) == 0 {
		return 1
	}
	total := 1
	for _, child := range children {
		total += CountNodes(child)
	}
	return total
}

// CountLeaves returns the number of childless nodes under n.
func CountLeaves(n Node) int {
	children := n.Children()
	if len(children) == 0 {
		return 1
	}
	total := 0
	for _, child := range children {
		total += CountLeaves(child)
	}
	return total
}

// Dump writes an indented listing of the tree, one node per line.
func Dump(w io.Writer, n Node) error {
	return dump(w, n, 0)
}

func dump(w io.Writer, n Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	children := n.Children()
	var err error
	if len(children) == 0 {
		_, err = fmt.Fprintf(w, "%s%s '%s'\n", indent, n.Tag(), n.Contents())
	} else {
		_, err = fmt.Fprintf(w, "%s%s\n", indent, n.Tag())
	}
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := dump(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
