package analyzer

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// ruleFunc is a single rule evaluator: a closed function over the
// current node, the run's ancestry lookup, and its symbol table. Each
// evaluator appends at most one diagnostic per trigger occurrence,
// except the naming checks which fire once per malformed identifier.
type ruleFunc func(r *run, n *sitter.Node)

// buildRegistry maps each node kind to its ordered rule evaluators.
// The driver invokes them in slice order, so the order here fixes the
// relative order of diagnostics reported on the same node.
func buildRegistry() map[string][]ruleFunc {
	return map[string][]ruleFunc{
		"module":                {checkModuleConstants},
		"import_statement":      {checkImportStatement},
		"import_from_statement": {checkImportFrom},
		"class_definition":      {checkClassDef},
		"function_definition":   {checkFunctionNaming, checkDocstring, checkMutableDefaults},
		"return_statement":      {recordReturn},
		"assignment":            {checkLambdaAssignment, checkAssignment},
		"augmented_assignment":  {declareAugmentedTarget},
		"named_expression":      {declareWalrusTarget},
		"identifier":            {checkNameUse},
		"for_statement":         {checkLoopDepth},
		"while_statement":       {checkLoopDepth, checkInfiniteLoop},
		"comparison_operator":   {checkComparison},
		"binary_operator":       {checkDivisionByZero},
		"try_statement":         {checkExceptClauses},
		"call":                  {checkCall},
		"global_statement":      {recordGlobals},
		"nonlocal_statement":    {recordNonlocals},
	}
}

// identContext classifies an identifier occurrence.
type identContext int

const (
	identLoad  identContext = iota // a read: record usage, resolve
	identStore                     // a write: bind in the current scope
	identSkip                      // not a name occurrence (field labels, params, import clauses)
)

// checkNameUse handles every identifier occurrence: reads are checked
// for visibility (E0602) and recorded as usages; bare store contexts
// are bound into the current scope.
func checkNameUse(r *run, n *sitter.Node) {
	switch classifyIdentifier(r, n) {
	case identLoad:
		name := r.text(n)
		if !r.scopes.Resolve(name, r.syms) {
			r.report("E0602", fmt.Sprintf("Undefined variable '%s'", name), r.line(n))
		}
		r.syms.RecordUsage(name, r.line(n))
	case identStore:
		r.scopes.DeclareIfAbsent(r.text(n), BindAssigned)
	}
}

// classifyIdentifier decides whether an identifier is a read, a write,
// or not a name occurrence at all, by inspecting its parent context.
func classifyIdentifier(r *run, n *sitter.Node) identContext {
	p := r.parent(n)
	if p == nil {
		return identLoad
	}
	switch p.Type() {
	case "attribute":
		// Only the base object of an attribute chain is a read.
		if sameNode(n, p.ChildByFieldName("attribute")) {
			return identSkip
		}
		return identLoad
	case "keyword_argument":
		if sameNode(n, p.ChildByFieldName("name")) {
			return identSkip
		}
		return identLoad
	case "parameters", "lambda_parameters", "typed_parameter",
		"list_splat_pattern", "dictionary_splat_pattern":
		return identSkip
	case "default_parameter", "typed_default_parameter":
		if sameNode(n, p.ChildByFieldName("name")) {
			return identSkip
		}
		return identLoad
	case "function_definition", "class_definition":
		if sameNode(n, p.ChildByFieldName("name")) {
			return identSkip
		}
		return identLoad
	case "global_statement", "nonlocal_statement":
		return identSkip
	case "import_statement", "import_from_statement", "aliased_import",
		"dotted_name", "relative_import", "wildcard_import":
		return identSkip
	case "assignment":
		if sameNode(n, p.ChildByFieldName("left")) {
			return identStore
		}
		return identLoad
	case "augmented_assignment":
		if sameNode(n, p.ChildByFieldName("left")) {
			return identStore
		}
		return identLoad
	case "named_expression":
		if sameNode(n, p.ChildByFieldName("name")) {
			return identStore
		}
		return identLoad
	case "for_statement":
		if sameNode(n, p.ChildByFieldName("left")) {
			return identStore
		}
		return identLoad
	case "for_in_clause":
		// Comprehension and generator targets bind in the current scope.
		if sameNode(n, p.ChildByFieldName("left")) {
			return identStore
		}
		return identLoad
	case "delete_statement":
		return identSkip
	case "expression_list":
		// `del a, b` targets; any other expression list is reads.
		if gp := r.parent(p); gp != nil && gp.Type() == "delete_statement" {
			return identSkip
		}
		return identLoad
	case "pattern_list", "tuple_pattern", "list_pattern":
		// Unpacking patterns only appear as assignment or loop targets.
		return identStore
	case "as_pattern_target":
		// `with ... as name` binds; `except ... as name` does not
		// count as a name occurrence.
		if insideExceptClause(r, p) {
			return identSkip
		}
		return identStore
	default:
		return identLoad
	}
}

// insideExceptClause walks the ancestry from n and reports whether an
// except clause is reached before a with item.
func insideExceptClause(r *run, n *sitter.Node) bool {
	for p := r.parent(n); p != nil; p = r.parent(p) {
		switch p.Type() {
		case "except_clause":
			return true
		case "with_item":
			return false
		}
	}
	return false
}

// sameNode compares nodes by underlying tree position.
func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Equal(b)
}

// declareAugmentedTarget binds the target of `x += ...` in the current
// scope. Augmented assignments are not recorded as assignments and get
// no naming checks.
func declareAugmentedTarget(r *run, n *sitter.Node) {
	left := n.ChildByFieldName("left")
	if left != nil && left.Type() == "identifier" {
		r.scopes.DeclareIfAbsent(r.text(left), BindAssigned)
	}
}

// declareWalrusTarget binds the target of `(x := ...)`.
func declareWalrusTarget(r *run, n *sitter.Node) {
	name := n.ChildByFieldName("name")
	if name != nil && name.Type() == "identifier" {
		r.scopes.DeclareIfAbsent(r.text(name), BindAssigned)
	}
}

// recordGlobals records names declared with a `global` statement into
// the persistent global region.
func recordGlobals(r *run, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "identifier" {
			r.scopes.DeclareGlobal(r.text(child))
		}
	}
}

// recordNonlocals records names declared with a `nonlocal` statement.
func recordNonlocals(r *run, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "identifier" {
			r.scopes.DeclareNonlocal(r.text(child))
		}
	}
}
