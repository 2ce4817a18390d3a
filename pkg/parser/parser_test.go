package parser

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func parse(t *testing.T, source string) *ParseResult {
	t.Helper()
	p := New()
	t.Cleanup(p.Close)
	result, err := p.Parse([]byte(source), "test.py")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return result
}

func TestParseValidSource(t *testing.T) {
	result := parse(t, "x = 1\nprint(x)\n")
	if result.Tree == nil {
		t.Fatal("expected a parse tree")
	}
	if result.Tree.RootNode().Type() != "module" {
		t.Errorf("root type = %s, want module", result.Tree.RootNode().Type())
	}
	if perr := result.SyntaxError(); perr != nil {
		t.Errorf("unexpected syntax error: %v", perr)
	}
}

func TestSyntaxErrorDetected(t *testing.T) {
	result := parse(t, "def f(:\n    pass\n")
	perr := result.SyntaxError()
	if perr == nil {
		t.Fatal("expected a syntax error")
	}
	if perr.Msg != "invalid syntax" {
		t.Errorf("msg = %q", perr.Msg)
	}
	if perr.Line < 1 {
		t.Errorf("line = %d, want >= 1", perr.Line)
	}
}

func TestParseErrorString(t *testing.T) {
	perr := &ParseError{Msg: "invalid syntax", Line: 3, Column: 7}
	want := "invalid syntax at line 3, column 7"
	if perr.Error() != want {
		t.Errorf("Error() = %q, want %q", perr.Error(), want)
	}
}

func TestFindNodesByType(t *testing.T) {
	result := parse(t, "for a in range(2):\n    for b in range(2):\n        print(a, b)\n")
	loops := FindNodesByType(result.Tree.RootNode(), "for_statement")
	if len(loops) != 2 {
		t.Errorf("found %d for statements, want 2", len(loops))
	}
}

func TestContainsNodeType(t *testing.T) {
	result := parse(t, "while True:\n    break\n")
	root := result.Tree.RootNode()
	if !ContainsNodeType(root, "break_statement") {
		t.Error("break_statement not found")
	}
	if ContainsNodeType(root, "return_statement") {
		t.Error("unexpected return_statement")
	}
}

func TestGetNodeText(t *testing.T) {
	source := "value = 42\n"
	result := parse(t, source)
	idents := FindNodesByType(result.Tree.RootNode(), "identifier")
	if len(idents) != 1 {
		t.Fatalf("found %d identifiers, want 1", len(idents))
	}
	if got := GetNodeText(idents[0], result.Source); got != "value" {
		t.Errorf("text = %q, want %q", got, "value")
	}
	if got := GetNodeText(nil, result.Source); got != "" {
		t.Errorf("nil node text = %q, want empty", got)
	}
	if got := GetNodeText(idents[0], []byte("x")); got != "" {
		t.Errorf("out-of-bounds text = %q, want empty", got)
	}
}

func TestFieldChildrenRepeatedField(t *testing.T) {
	result := parse(t, "import os, sys\n")
	stmts := FindNodesByType(result.Tree.RootNode(), "import_statement")
	if len(stmts) != 1 {
		t.Fatalf("found %d import statements, want 1", len(stmts))
	}
	names := FieldChildren(stmts[0], "name")
	if len(names) != 2 {
		t.Fatalf("found %d name fields, want 2", len(names))
	}
	if GetNodeText(names[0], result.Source) != "os" || GetNodeText(names[1], result.Source) != "sys" {
		t.Errorf("names = %q, %q", GetNodeText(names[0], result.Source), GetNodeText(names[1], result.Source))
	}
}

func TestWalkStopsDescent(t *testing.T) {
	result := parse(t, "def f():\n    x = 1\n    return x\n")
	var visited int
	Walk(result.Tree.RootNode(), func(n *sitter.Node) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("visited %d nodes, want 1 when visitor returns false", visited)
	}
}
