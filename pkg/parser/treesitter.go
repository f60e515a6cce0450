package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"lispy/interpreter-go/pkg/ast"
)

// TreeSitterParser wraps a tree-sitter parser for an externally supplied
// grammar and converts its syntax trees into reader nodes.
type TreeSitterParser struct {
	parser *sitter.Parser
	kinds  map[string]string
	name   string
}

// NewTreeSitterParser constructs a parser for lang. kinds maps grammar node
// kinds onto reader tags (for example "list" -> ast.TagSExpr); named kinds
// missing from the table keep their grammar name, and anonymous tokens become
// raw nodes the reader skips. Extra nodes such as comments are dropped.
func NewTreeSitterParser(lang *sitter.Language, kinds map[string]string) (*TreeSitterParser, error) {
	if lang == nil {
		return nil, fmt.Errorf("parser: tree-sitter language not available")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("parser: %w", err)
	}
	table := make(map[string]string, len(kinds))
	for k, v := range kinds {
		table[k] = v
	}
	return &TreeSitterParser{parser: p, kinds: table, name: "<tree-sitter>"}, nil
}

// SetName sets the source name used in syntax errors.
func (p *TreeSitterParser) SetName(name string) {
	p.name = name
}

// Close releases parser resources.
func (p *TreeSitterParser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
}

// Parse parses source and returns a detached copy of the syntax tree, so the
// result stays valid after the underlying tree-sitter tree is released.
func (p *TreeSitterParser) Parse(source []byte) (*ast.Tree, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: tree-sitter returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		return nil, p.syntaxError(root)
	}
	return p.convert(root, source), nil
}

func (p *TreeSitterParser) convert(node *sitter.Node, source []byte) *ast.Tree {
	out := &ast.Tree{Kind: p.tagFor(node), Span: nodeSpan(node)}
	count := node.ChildCount()
	if count == 0 {
		out.Text = node.Utf8Text(source)
		return out
	}
	out.Nodes = make([]*ast.Tree, 0, count)
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		// Extras (comments and the like) may appear anywhere and carry no
		// structure.
		if child == nil || child.IsExtra() {
			continue
		}
		out.Nodes = append(out.Nodes, p.convert(child, source))
	}
	return out
}

func (p *TreeSitterParser) tagFor(node *sitter.Node) string {
	if !node.IsNamed() {
		return ast.TagChar
	}
	if tag, ok := p.kinds[node.Kind()]; ok {
		return tag
	}
	return node.Kind()
}

func (p *TreeSitterParser) syntaxError(root *sitter.Node) error {
	bad := firstErrorNode(root)
	if bad == nil {
		bad = root
	}
	msg := "syntax error"
	if bad.IsMissing() {
		msg = fmt.Sprintf("missing %s", bad.Kind())
	} else if bad.IsError() {
		msg = "unexpected input"
	}
	return &SyntaxError{Name: p.name, Pos: nodeSpan(bad).Start, Msg: msg}
}

func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstErrorNode(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func nodeSpan(node *sitter.Node) ast.Span {
	start := node.StartPosition()
	end := node.EndPosition()
	return ast.Span{
		Start: ast.Position{Line: int(start.Row) + 1, Column: int(start.Column) + 1},
		End:   ast.Position{Line: int(end.Row) + 1, Column: int(end.Column) + 1},
	}
}
