package analyzer

// BindingKind classifies how a name became visible in a scope.
type BindingKind string

const (
	BindParameter BindingKind = "param"
	BindAssigned  BindingKind = "assigned"
	BindImport    BindingKind = "import"
	BindClass     BindingKind = "class"
	BindGlobal    BindingKind = "global"
)

// Scope maps visible names to their binding kind for one lexical region
// (a function, class, or loop body, or the module itself).
type Scope map[string]BindingKind

// ScopeTracker models a stack of lexical scopes plus the persistent
// global region fed by explicit `global` declarations. Resolution is
// flow-insensitive: a name assigned anywhere in an enclosing scope
// counts as defined for that whole scope, regardless of control flow.
type ScopeTracker struct {
	stack     []Scope
	global    Scope
	builtins  map[string]struct{}
	nonlocals map[string]struct{}
}

// NewScopeTracker creates a tracker with the module scope at the bottom
// of the stack and the given built-in identifier set.
func NewScopeTracker(builtins map[string]struct{}) *ScopeTracker {
	return &ScopeTracker{
		stack:     []Scope{{}},
		global:    Scope{},
		builtins:  builtins,
		nonlocals: make(map[string]struct{}),
	}
}

// Push enters a new innermost scope.
func (t *ScopeTracker) Push() {
	t.stack = append(t.stack, Scope{})
}

// Pop leaves the innermost scope. The module scope is never popped.
func (t *ScopeTracker) Pop() {
	if len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// Depth returns the number of scopes on the stack.
func (t *ScopeTracker) Depth() int {
	return len(t.stack)
}

// Declare binds a name in the current (innermost) scope.
func (t *ScopeTracker) Declare(name string, kind BindingKind) {
	t.stack[len(t.stack)-1][name] = kind
}

// DeclareIfAbsent binds a name in the current scope unless it is
// already bound there, preserving the original binding kind.
func (t *ScopeTracker) DeclareIfAbsent(name string, kind BindingKind) {
	scope := t.stack[len(t.stack)-1]
	if _, ok := scope[name]; !ok {
		scope[name] = kind
	}
}

// DeclareGlobal records a name declared with a `global` statement.
// Entries survive scope pops for the rest of the run.
func (t *ScopeTracker) DeclareGlobal(name string) {
	t.global[name] = BindGlobal
}

// DeclareNonlocal records a name declared with a `nonlocal` statement.
// Recorded for bookkeeping only; it does not affect resolution.
func (t *ScopeTracker) DeclareNonlocal(name string) {
	t.nonlocals[name] = struct{}{}
}

// IsBuiltin reports whether name is in the built-in identifier set.
func (t *ScopeTracker) IsBuiltin(name string) bool {
	_, ok := t.builtins[name]
	return ok
}

// Resolve reports whether a name is visible at the current point.
// Search order: scope stack top to bottom, the persistent global
// region, recorded class names, recorded import names, built-ins.
func (t *ScopeTracker) Resolve(name string, syms *SymbolTable) bool {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if _, ok := t.stack[i][name]; ok {
			return true
		}
	}
	if _, ok := t.global[name]; ok {
		return true
	}
	if syms != nil {
		if syms.IsClassName(name) || syms.IsImportName(name) {
			return true
		}
	}
	return t.IsBuiltin(name)
}
