// Package analyzer implements a scope-aware lint engine for Python
// source. It walks the parsed tree once, tracking lexical scopes and a
// run-wide symbol table, and emits an ordered list of diagnostics.
package analyzer

import (
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sibyl-dev/sibyl/pkg/models"
	"github.com/sibyl-dev/sibyl/pkg/parser"
)

// defaultMaxLoopDepth is the nesting depth above which loops are
// reported as too deep.
const defaultMaxLoopDepth = 2

// Analyzer analyzes Python source for rule violations. Each Analyze
// call uses fresh scope, symbol, and diagnostic state; nothing persists
// across calls. An Analyzer owns a tree-sitter parser and must not be
// shared across concurrent calls — create or pool one per goroutine.
//
// Name resolution is flow-insensitive: a name assigned anywhere in an
// enclosing scope is treated as defined for that whole scope. Function
// names are not entered into any scope, so a call to a locally defined
// function resolves only if the name is visible some other way.
type Analyzer struct {
	parser       *parser.Parser
	registry     map[string][]ruleFunc
	builtins     map[string]struct{}
	disabled     map[string]struct{}
	maxLoopDepth int
}

// Option is a functional option for configuring an Analyzer.
type Option func(*Analyzer)

// WithMaxLoopDepth sets the loop-nesting depth threshold for C0200.
func WithMaxLoopDepth(depth int) Option {
	return func(a *Analyzer) {
		if depth > 0 {
			a.maxLoopDepth = depth
		}
	}
}

// WithExtraBuiltins extends the built-in identifier set, e.g. for
// names injected by an embedding application.
func WithExtraBuiltins(names []string) Option {
	return func(a *Analyzer) {
		for _, name := range names {
			a.builtins[name] = struct{}{}
		}
	}
}

// WithDisabledRules suppresses diagnostics for the given rule codes.
// E999 cannot be disabled.
func WithDisabledRules(codes []string) Option {
	return func(a *Analyzer) {
		for _, code := range codes {
			a.disabled[code] = struct{}{}
		}
	}
}

// New creates an analyzer with default options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		parser:       parser.New(),
		builtins:     defaultBuiltins(),
		disabled:     make(map[string]struct{}),
		maxLoopDepth: defaultMaxLoopDepth,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.registry = buildRegistry()
	return a
}

// Close releases the analyzer's parser resources.
func (a *Analyzer) Close() {
	a.parser.Close()
}

// Analyze parses and analyzes Python source, returning the ordered
// diagnostic list. On a syntax error the list contains exactly one
// E999 entry and no rule evaluation occurs.
func (a *Analyzer) Analyze(source []byte) []models.Diagnostic {
	result, err := a.parser.Parse(source, "")
	if err != nil {
		return []models.Diagnostic{syntaxErrorDiagnostic(&parser.ParseError{Msg: err.Error(), Line: 1})}
	}
	if perr := result.SyntaxError(); perr != nil {
		return []models.Diagnostic{syntaxErrorDiagnostic(perr)}
	}
	r := newRun(a, result)
	root := result.Tree.RootNode()
	r.visit(root)
	r.sweepUnusedImports()
	r.sweepUnusedVariables()
	return r.diags
}

// AnalyzeFile reads and analyzes a single Python file.
func (a *Analyzer) AnalyzeFile(path string) ([]models.Diagnostic, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.Analyze(source), nil
}

func syntaxErrorDiagnostic(perr *parser.ParseError) models.Diagnostic {
	return models.Diagnostic{
		Code:    models.CodeSyntaxError,
		Message: fmt.Sprintf("SyntaxError: %s at line %d, column %d", perr.Msg, perr.Line, perr.Column),
		Line:    perr.Line,
		Column:  perr.Column,
	}
}

// run holds the state of a single analysis pass.
type run struct {
	a         *Analyzer
	src       []byte
	scopes    *ScopeTracker
	syms      *SymbolTable
	parents   map[*sitter.Node]*sitter.Node
	diags     []models.Diagnostic
	loopDepth int
	currentFn string
}

func newRun(a *Analyzer, result *parser.ParseResult) *run {
	return &run{
		a:       a,
		src:     result.Source,
		scopes:  NewScopeTracker(a.builtins),
		syms:    NewSymbolTable(),
		parents: make(map[*sitter.Node]*sitter.Node),
	}
}

// report appends a diagnostic unless its rule is disabled.
func (r *run) report(code, message string, line int) {
	if _, off := r.a.disabled[code]; off {
		return
	}
	r.diags = append(r.diags, models.Diagnostic{Code: code, Message: message, Line: line})
}

func (r *run) text(n *sitter.Node) string {
	return parser.GetNodeText(n, r.src)
}

func (r *run) line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// parent looks up the derived parent of a node. The relation is
// populated top-down during the traversal, so it is always complete
// for the node currently being visited and its ancestors.
func (r *run) parent(n *sitter.Node) *sitter.Node {
	return r.parents[n]
}

// visit performs the single pre-order depth-first traversal. On entry
// it records parent back-references for the node's children, invokes
// the rule evaluators registered for the node kind, and then descends,
// pushing and popping scopes at function, class, and loop boundaries.
func (r *run) visit(n *sitter.Node) {
	kind := n.Type()

	for i := 0; i < int(n.ChildCount()); i++ {
		r.parents[n.Child(i)] = n
	}

	// The nesting counter is independent of the scope stack and must
	// be current before the loop-depth rule runs.
	if kind == "for_statement" || kind == "while_statement" {
		r.loopDepth++
		defer func() { r.loopDepth-- }()
	}

	for _, rule := range r.a.registry[kind] {
		rule(r, n)
	}

	switch kind {
	case "function_definition":
		r.visitFunction(n)
	case "class_definition":
		r.visitClass(n)
	case "for_statement":
		r.visitFor(n)
	case "while_statement":
		r.visitScopedChildren(n)
	default:
		for i := 0; i < int(n.ChildCount()); i++ {
			r.visit(n.Child(i))
		}
	}
}

// visitFunction enters a function scope, binds its parameters, visits
// the body, and checks return-shape consistency on the way out.
func (r *run) visitFunction(n *sitter.Node) {
	name := r.text(n.ChildByFieldName("name"))
	r.currentFn = name
	r.syms.BeginFunction(name, r.line(n))

	r.scopes.Push()
	defer r.scopes.Pop()

	for _, p := range parameterNames(n.ChildByFieldName("parameters"), r.src) {
		r.scopes.Declare(p.name, BindParameter)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		r.visit(n.Child(i))
	}

	r.checkReturnConsistency(name, r.line(n))
	r.currentFn = ""
}

// checkReturnConsistency reports W0631 when a function mixes returns
// with and without a value.
func (r *run) checkReturnConsistency(name string, line int) {
	rec := r.syms.Function(name)
	if rec == nil || len(rec.Returns) == 0 {
		return
	}
	var withValue, withoutValue bool
	for _, hasValue := range rec.Returns {
		if hasValue {
			withValue = true
		} else {
			withoutValue = true
		}
	}
	if withValue && withoutValue {
		r.report("W0631", fmt.Sprintf("Inconsistent return statements in function '%s'", name), line)
	}
}

// visitClass enters a class scope and visits the body. The class name
// itself was already bound in the enclosing scope by the class rule.
func (r *run) visitClass(n *sitter.Node) {
	r.scopes.Push()
	defer r.scopes.Pop()
	for i := 0; i < int(n.ChildCount()); i++ {
		r.visit(n.Child(i))
	}
}

// visitFor enters a loop scope and binds the loop target before
// descending into the body.
func (r *run) visitFor(n *sitter.Node) {
	r.scopes.Push()
	defer r.scopes.Pop()
	if left := n.ChildByFieldName("left"); left != nil {
		r.handleAssignTarget(left, r.atModuleLevel(n))
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		r.visit(n.Child(i))
	}
}

// visitScopedChildren enters a plain loop scope and visits children.
func (r *run) visitScopedChildren(n *sitter.Node) {
	r.scopes.Push()
	defer r.scopes.Pop()
	for i := 0; i < int(n.ChildCount()); i++ {
		r.visit(n.Child(i))
	}
}

// atModuleLevel reports whether a statement node is a direct child of
// the module.
func (r *run) atModuleLevel(n *sitter.Node) bool {
	p := r.parent(n)
	return p != nil && p.Type() == "module"
}

// sweepUnusedImports reports W0611 for every recorded import whose
// name was never read, in import encounter order.
func (r *run) sweepUnusedImports() {
	for _, imp := range r.syms.Imports() {
		if !r.syms.IsImportUsed(imp.Name) {
			r.report("W0611", fmt.Sprintf("Unused import '%s'", imp.Name), imp.Line)
		}
	}
}

// sweepUnusedVariables reports W0612 for every recorded assignment
// whose name was never read and is not an import or built-in, in
// first-assignment encounter order.
func (r *run) sweepUnusedVariables() {
	for _, asgn := range r.syms.Assignments() {
		if r.syms.IsUsed(asgn.Name) || r.syms.IsImportName(asgn.Name) || r.scopes.IsBuiltin(asgn.Name) {
			continue
		}
		r.report("W0612", fmt.Sprintf("Unused variable '%s'", asgn.Name), asgn.Line)
	}
}
