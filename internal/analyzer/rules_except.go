package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// checkExceptClauses evaluates every handler of a try statement, in
// order: an empty body (W0702), then a bare handler (E722) or a
// handler catching the generic Exception type (W0703). W0702 can
// co-occur with either of the other two on the same handler.
func checkExceptClauses(r *run, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "except_clause" {
			continue
		}
		line := r.line(clause)
		filter, body := splitExceptClause(clause)
		if isEmptyBlock(body) {
			r.report("W0702", "Empty except block", line)
		}
		if filter == nil {
			r.report("E722", "Do not use bare 'except:'", line)
		} else if filter.Type() == "identifier" && r.text(filter) == "Exception" {
			r.report("W0703", "Catching too general exception 'Exception'", line)
		}
	}
}

// splitExceptClause separates a handler into its exception type
// expression (nil for a bare `except:`) and its body block. An
// `except E as e` handler arrives as an as_pattern whose first child
// is the type.
func splitExceptClause(clause *sitter.Node) (filter, body *sitter.Node) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		switch c.Type() {
		case "comment":
		case "block":
			body = c
		case "as_pattern":
			if filter == nil {
				filter = c.NamedChild(0)
			}
		default:
			if filter == nil && body == nil {
				filter = c
			}
		}
	}
	return filter, body
}

// isEmptyBlock reports whether a handler body holds only pass
// statements and comments.
func isEmptyBlock(body *sitter.Node) bool {
	if body == nil {
		return true
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		switch body.NamedChild(i).Type() {
		case "pass_statement", "comment":
		default:
			return false
		}
	}
	return true
}
