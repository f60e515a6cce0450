// Package parser turns source text into the tagged trees consumed by the
// reader. Parse implements the reference grammar
//
//	number : /-?[0-9]+/ ;
//	symbol : /[a-zA-Z0-9_+\-*\/\\=<>!&]+/ ;
//	sexpr  : '(' <expr>* ')' ;
//	qexpr  : '\'' ( '(' <expr>* ')' | <number> | <symbol> ) ;
//	expr   : <number> | <symbol> | <sexpr> | <qexpr> ;
//	lispy  : /^/ <expr>* /$/ ;
//
// Line comments start with ';'. TreeSitterParser adapts externally supplied
// tree-sitter grammars to the same node interface.
package parser

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"lispy/interpreter-go/pkg/ast"
)

var numberPattern = regexp.MustCompile(`^-?[0-9]+$`)

// SyntaxError reports a parse failure at a source position.
type SyntaxError struct {
	Name string
	Pos  ast.Position
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: error: %s", e.Name, e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parse parses src into a root node whose children are the top-level
// expressions wrapped in start/end anchors.
func Parse(name, src string) (*ast.Tree, error) {
	p := &sourceParser{name: name, src: src, pos: ast.Position{Line: 1, Column: 1}}
	start := p.pos
	nodes := []*ast.Tree{{Kind: ast.TagRegex, Span: ast.Span{Start: start, End: start}}}
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	end := p.pos
	nodes = append(nodes, &ast.Tree{Kind: ast.TagRegex, Span: ast.Span{Start: end, End: end}})
	return &ast.Tree{Kind: ast.TagRoot, Nodes: nodes, Span: ast.Span{Start: start, End: end}}, nil
}

// ParseForms parses src and returns each top-level expression separately.
func ParseForms(name, src string) ([]*ast.Tree, error) {
	root, err := Parse(name, src)
	if err != nil {
		return nil, err
	}
	forms := make([]*ast.Tree, 0, len(root.Nodes))
	for _, node := range root.Nodes {
		if ast.IsRaw(node) {
			continue
		}
		forms = append(forms, node)
	}
	return forms, nil
}

type sourceParser struct {
	name   string
	src    string
	offset int
	pos    ast.Position
}

func (p *sourceParser) eof() bool {
	return p.offset >= len(p.src)
}

func (p *sourceParser) peek() byte {
	return p.src[p.offset]
}

func (p *sourceParser) advance() byte {
	c := p.src[p.offset]
	p.offset++
	if c == '\n' {
		p.pos.Line++
		p.pos.Column = 1
	} else {
		p.pos.Column++
	}
	return c
}

func (p *sourceParser) errorf(pos ast.Position, format string, args ...any) error {
	return &SyntaxError{Name: p.name, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *sourceParser) skipSpace() {
	for !p.eof() {
		switch c := p.peek(); {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.advance()
		case c == ';':
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *sourceParser) parseExpr() (*ast.Tree, error) {
	c := p.peek()
	switch {
	case c == '(':
		return p.parseList(ast.TagSExpr, nil)
	case c == '\'':
		return p.parseQuoted()
	case c == ')':
		return nil, p.errorf(p.pos, "unexpected ')'")
	case isSymbolChar(c):
		return p.parseAtom(), nil
	default:
		r, _ := utf8.DecodeRuneInString(p.src[p.offset:])
		return nil, p.errorf(p.pos, "unexpected character %q", r)
	}
}

// parseList consumes '(' <expr>* ')' and appends the nodes to prefix.
func (p *sourceParser) parseList(tag string, prefix []*ast.Tree) (*ast.Tree, error) {
	start := p.pos
	if len(prefix) > 0 {
		start = prefix[0].Span.Start
	}
	nodes := append(prefix, p.punct())
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(p.pos, "expected ')' to close list opened at %s", start)
		}
		if p.peek() == ')' {
			nodes = append(nodes, p.punct())
			return &ast.Tree{Kind: tag, Nodes: nodes, Span: ast.Span{Start: start, End: p.pos}}, nil
		}
		node, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

func (p *sourceParser) parseQuoted() (*ast.Tree, error) {
	start := p.pos
	marker := p.punct()
	if p.eof() {
		return nil, p.errorf(p.pos, "expected list or atom after '")
	}
	c := p.peek()
	switch {
	case c == '(':
		return p.parseList(ast.TagQExpr, []*ast.Tree{marker})
	case isSymbolChar(c):
		atom := p.parseAtom()
		return &ast.Tree{
			Kind:  ast.TagQExpr,
			Nodes: []*ast.Tree{marker, atom},
			Span:  ast.Span{Start: start, End: atom.Span.End},
		}, nil
	default:
		return nil, p.errorf(p.pos, "expected list or atom after '")
	}
}

func (p *sourceParser) parseAtom() *ast.Tree {
	start := p.pos
	begin := p.offset
	for !p.eof() && isSymbolChar(p.peek()) {
		p.advance()
	}
	text := p.src[begin:p.offset]
	tag := ast.TagSymbol
	if numberPattern.MatchString(text) {
		tag = ast.TagNumber
	}
	return &ast.Tree{Kind: tag, Text: text, Span: ast.Span{Start: start, End: p.pos}}
}

func (p *sourceParser) punct() *ast.Tree {
	start := p.pos
	c := p.advance()
	return &ast.Tree{Kind: ast.TagChar, Text: string(c), Span: ast.Span{Start: start, End: p.pos}}
}

func isSymbolChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '_', '+', '-', '*', '/', '\\', '=', '<', '>', '!', '&':
		return true
	}
	return false
}
