package parser

import (
	"errors"
	"strings"
	"testing"

	"lispy/interpreter-go/pkg/ast"
)

// shape renders a tree as tag[text] with children in parentheses, skipping
// spans so expectations stay readable.
func shape(n *ast.Tree) string {
	var b strings.Builder
	writeShape(&b, n)
	return b.String()
}

func writeShape(b *strings.Builder, n *ast.Tree) {
	switch n.Kind {
	case ast.TagRoot:
		b.WriteString("root")
	case ast.TagNumber:
		b.WriteString("num:" + n.Text)
	case ast.TagSymbol:
		b.WriteString("sym:" + n.Text)
	case ast.TagSExpr:
		b.WriteString("sexpr")
	case ast.TagQExpr:
		b.WriteString("qexpr")
	case ast.TagChar:
		b.WriteString("'" + n.Text + "'")
	case ast.TagRegex:
		b.WriteString("^$")
	default:
		b.WriteString(n.Kind)
	}
	if len(n.Nodes) == 0 {
		return
	}
	b.WriteByte('(')
	for i, child := range n.Nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeShape(b, child)
	}
	b.WriteByte(')')
}

func TestParseShapes(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "root(^$ ^$)"},
		{"number", "42", "root(^$ num:42 ^$)"},
		{"negative number", "-5", "root(^$ num:-5 ^$)"},
		{"minus symbol", "-", "root(^$ sym:- ^$)"},
		{"sexpr", "(+ 1 2)", "root(^$ sexpr('(' sym:+ num:1 num:2 ')') ^$)"},
		{"bare operator line", "+ 1 2", "root(^$ sym:+ num:1 num:2 ^$)"},
		{"qexpr list", "'(1 x)", "root(^$ qexpr(''' '(' num:1 sym:x ')') ^$)"},
		{"qexpr atom", "'x", "root(^$ qexpr(''' sym:x) ^$)"},
		{"nested", "(car '(1 (2)))", "root(^$ sexpr('(' sym:car qexpr(''' '(' num:1 sexpr('(' num:2 ')') ')') ')') ^$)"},
		{"comment", "; note\n(f) ; trailing", "root(^$ sexpr('(' sym:f ')') ^$)"},
		{"lambda symbol", `(\ x)`, `root(^$ sexpr('(' sym:\ sym:x ')') ^$)`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := Parse("<test>", tc.src)
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if got := shape(tree); got != tc.want {
				t.Fatalf("shape mismatch\nexpected: %s\n   actual: %s", tc.want, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		line int
		col  int
		msg  string
	}{
		{"(+ 1", 1, 5, "expected ')'"},
		{")", 1, 1, "unexpected ')'"},
		{"(+ 1 2))", 1, 8, "unexpected ')'"},
		{"\n  ' (1)", 2, 4, "expected list or atom after '"},
		{"(1 \"str\")", 1, 4, "unexpected character"},
	}
	for _, tc := range cases {
		_, err := Parse("<stdin>", tc.src)
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Fatalf("Parse(%q) error = %v, want *SyntaxError", tc.src, err)
		}
		if syntaxErr.Pos.Line != tc.line || syntaxErr.Pos.Column != tc.col {
			t.Fatalf("Parse(%q) position = %s, want %d:%d", tc.src, syntaxErr.Pos, tc.line, tc.col)
		}
		if !strings.Contains(syntaxErr.Msg, tc.msg) {
			t.Fatalf("Parse(%q) message = %q, want it to contain %q", tc.src, syntaxErr.Msg, tc.msg)
		}
		if !strings.HasPrefix(err.Error(), "<stdin>:") {
			t.Fatalf("error text %q must lead with the source name", err.Error())
		}
	}
}

func TestParseErrorNamesNonASCIICharacter(t *testing.T) {
	_, err := Parse("<stdin>", "(1 é)")
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if want := "unexpected character 'é'"; syntaxErr.Msg != want {
		t.Fatalf("message = %q, want %q", syntaxErr.Msg, want)
	}
	if syntaxErr.Pos != (ast.Position{Line: 1, Column: 4}) {
		t.Fatalf("position = %s, want 1:4", syntaxErr.Pos)
	}
}

func TestParseSpans(t *testing.T) {
	tree, err := Parse("<test>", "(f\n  12)")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	list := tree.Nodes[1]
	if list.Span.Start != (ast.Position{Line: 1, Column: 1}) || list.Span.End != (ast.Position{Line: 2, Column: 6}) {
		t.Fatalf("list span = %+v", list.Span)
	}
	num := list.Nodes[2]
	if num.Text != "12" || num.Span.Start != (ast.Position{Line: 2, Column: 3}) {
		t.Fatalf("number span = %+v (%q)", num.Span, num.Text)
	}
}

func TestParseForms(t *testing.T) {
	forms, err := ParseForms("<test>", "(def 'x 1)\nx\n'(a b)")
	if err != nil {
		t.Fatalf("ParseForms error: %v", err)
	}
	if len(forms) != 3 {
		t.Fatalf("expected 3 forms, got %d", len(forms))
	}
	if forms[0].Kind != ast.TagSExpr || forms[1].Kind != ast.TagSymbol || forms[2].Kind != ast.TagQExpr {
		t.Fatalf("unexpected form kinds: %s %s %s", forms[0].Kind, forms[1].Kind, forms[2].Kind)
	}
}
