package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sibyl-dev/sibyl/pkg/parser"
)

// checkLoopDepth reports C0200 on a loop whose nesting depth exceeds
// the threshold. The driver increments the counter before rules run,
// so the depth here includes the loop being entered.
func checkLoopDepth(r *run, n *sitter.Node) {
	if r.loopDepth > r.a.maxLoopDepth {
		r.report("C0200", "Nested loop too deep", r.line(n))
	}
}

// checkInfiniteLoop reports W0104 for `while True:` loops with no
// break anywhere in the subtree, at any nesting depth.
func checkInfiniteLoop(r *run, n *sitter.Node) {
	cond := n.ChildByFieldName("condition")
	if cond == nil || cond.Type() != "true" {
		return
	}
	if !parser.ContainsNodeType(n, "break_statement") {
		r.report("W0104", "Possible infinite loop (while True without break)", r.line(n))
	}
}

// recordReturn notes whether a return statement carries a value,
// attributed to the innermost function definition entered so far.
func recordReturn(r *run, n *sitter.Node) {
	if r.currentFn == "" {
		return
	}
	r.syms.RecordReturn(r.currentFn, n.NamedChildCount() > 0)
}
