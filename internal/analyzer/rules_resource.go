package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// checkCall marks imports exercised by calls and reports W6001 for an
// open() call that is not the guarded expression of a with item.
func checkCall(r *run, n *sitter.Node) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	switch fn.Type() {
	case "identifier":
		name := r.text(fn)
		if name == "open" && !isWithGuarded(r, n) {
			r.report("W6001", "File opened without 'with' statement", r.line(n))
		}
		r.syms.MarkImportUsed(name)
	case "attribute":
		// Method calls like module.function() count as a use of the
		// base module name.
		if obj := fn.ChildByFieldName("object"); obj != nil && obj.Type() == "identifier" {
			r.syms.MarkImportUsed(r.text(obj))
		}
	}
}

// isWithGuarded reports whether a call is the context expression of a
// with item, unwrapping an `as target` pattern if present.
func isWithGuarded(r *run, n *sitter.Node) bool {
	candidate := n
	p := r.parent(candidate)
	if p != nil && p.Type() == "as_pattern" && sameNode(candidate, p.NamedChild(0)) {
		candidate = p
		p = r.parent(candidate)
	}
	if p == nil || p.Type() != "with_item" {
		return false
	}
	value := p.ChildByFieldName("value")
	return value != nil && sameNode(candidate, value)
}
