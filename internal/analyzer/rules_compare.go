package analyzer

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sibyl-dev/sibyl/pkg/parser"
)

// checkComparison evaluates one comparison chain pairwise: E711 and
// E712 for equality against None or a boolean literal, E721 for
// identity comparison between two type() calls. Each offending pair
// yields one diagnostic at the chain's line.
func checkComparison(r *run, n *sitter.Node) {
	operands := make([]*sitter.Node, 0, int(n.NamedChildCount()))
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "comment" {
			operands = append(operands, c)
		}
	}
	ops := comparisonOps(n)
	for i, op := range ops {
		if i+1 >= len(operands) {
			break
		}
		left, right := operands[i], operands[i+1]
		switch op {
		case "==", "!=":
			if left.Type() == "none" || right.Type() == "none" {
				r.report("E711", "Comparison to None should be 'is None' or 'is not None'", r.line(n))
			}
			if isBoolLiteral(left) || isBoolLiteral(right) {
				r.report("E712", "Comparison to True/False should be 'is True/False' or direct use of boolean", r.line(n))
			}
		case "is", "is not":
			if isTypeCall(r, left) && isTypeCall(r, right) {
				r.report("E721", "Do not compare types directly, use isinstance()", r.line(n))
			}
		}
	}
}

// comparisonOps collects the operator tokens of a comparison chain in
// order. `is not` and `not in` arrive as two adjacent tokens in some
// grammar versions and are merged here.
func comparisonOps(n *sitter.Node) []string {
	raw := parser.FieldChildren(n, "operators")
	ops := make([]string, 0, len(raw))
	for _, tok := range raw {
		t := tok.Type()
		if len(ops) > 0 {
			last := ops[len(ops)-1]
			if last == "is" && t == "not" {
				ops[len(ops)-1] = "is not"
				continue
			}
			if last == "not" && t == "in" {
				ops[len(ops)-1] = "not in"
				continue
			}
		}
		ops = append(ops, t)
	}
	return ops
}

func isBoolLiteral(n *sitter.Node) bool {
	return n.Type() == "true" || n.Type() == "false"
}

// isTypeCall reports whether a node is a direct call to the type
// built-in, i.e. `type(x)`.
func isTypeCall(r *run, n *sitter.Node) bool {
	if n.Type() != "call" {
		return false
	}
	fn := n.ChildByFieldName("function")
	return fn != nil && fn.Type() == "identifier" && r.text(fn) == "type"
}

// checkDivisionByZero reports E0001 when the right operand of a
// division, floor division, or modulo is the literal zero.
func checkDivisionByZero(r *run, n *sitter.Node) {
	op := n.ChildByFieldName("operator")
	if op == nil {
		return
	}
	switch op.Type() {
	case "/", "//", "%":
	default:
		return
	}
	right := n.ChildByFieldName("right")
	if right != nil && isZeroLiteral(r, right) {
		r.report("E0001", "Division by zero", r.line(n))
	}
}

// isZeroLiteral matches numeric literals equal to zero, including
// 0.0, 0x0, and False.
func isZeroLiteral(r *run, n *sitter.Node) bool {
	switch n.Type() {
	case "false":
		return true
	case "integer":
		text := strings.ReplaceAll(r.text(n), "_", "")
		v, err := strconv.ParseInt(text, 0, 64)
		return err == nil && v == 0
	case "float":
		text := strings.ReplaceAll(r.text(n), "_", "")
		v, err := strconv.ParseFloat(text, 64)
		return err == nil && v == 0
	}
	return false
}
