// Package parser wraps tree-sitter for parsing Python source.
package parser

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ParseError describes a syntax error found in the source.
type ParseError struct {
	Msg    string
	Line   int // 1-based
	Column int // 0-based
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Line, e.Column)
}

// Parser wraps a tree-sitter parser configured for Python.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed tree and its source.
type ParseResult struct {
	Tree   *sitter.Tree
	Source []byte
	Path   string
}

// New creates a new Python parser.
func New() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{parser: p}
}

// Parse parses Python source code.
func (p *Parser) Parse(source []byte, path string) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return &ParseResult{Tree: tree, Source: source, Path: path}, nil
}

// ParseFile reads and parses a Python source file.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.Parse(source, path)
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// SyntaxError returns the first syntax error in the parsed tree, or nil
// if the tree is well formed. tree-sitter never rejects input outright;
// malformed regions surface as ERROR or MISSING nodes.
func (r *ParseResult) SyntaxError() *ParseError {
	root := r.Tree.RootNode()
	if !root.HasError() {
		return nil
	}
	n := firstErrorNode(root)
	if n == nil {
		n = root
	}
	return &ParseError{
		Msg:    "invalid syntax",
		Line:   int(n.StartPoint().Row) + 1,
		Column: int(n.StartPoint().Column),
	}
}

// firstErrorNode finds the first ERROR or MISSING node in document order.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	// The subtree reports an error that no child owns.
	return n
}

// NodeVisitor is a function that visits tree nodes. Returning false
// stops descent into the node's children.
type NodeVisitor func(node *sitter.Node) bool

// Walk traverses the tree depth-first, calling visitor for each node.
func Walk(node *sitter.Node, visitor NodeVisitor) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		Walk(node.Child(i), visitor)
	}
}

// FindNodesByType returns all nodes of a specific type under root.
func FindNodesByType(root *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, func(n *sitter.Node) bool {
		if n.Type() == nodeType {
			results = append(results, n)
		}
		return true
	})
	return results
}

// ContainsNodeType reports whether any node of the given type exists
// under root, including root itself.
func ContainsNodeType(root *sitter.Node, nodeType string) bool {
	found := false
	Walk(root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.Type() == nodeType {
			found = true
			return false
		}
		return true
	})
	return found
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// FieldChildren returns the children of n carrying the given field name,
// in order. ChildByFieldName only returns the first match, which is not
// enough for nodes like import statements that repeat a field.
func FieldChildren(n *sitter.Node, field string) []*sitter.Node {
	var out []*sitter.Node
	c := sitter.NewTreeCursor(n)
	defer c.Close()
	if !c.GoToFirstChild() {
		return nil
	}
	for {
		if c.CurrentFieldName() == field {
			out = append(out, c.CurrentNode())
		}
		if !c.GoToNextSibling() {
			break
		}
	}
	return out
}
