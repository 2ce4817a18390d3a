package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sibyl-dev/sibyl/pkg/parser"
)

var (
	snakeCaseRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	capWordsRe  = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	upperCaseRe = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)
)

// isDunder reports whether a name is double-underscore styled, which
// exempts it from the snake_case and docstring checks.
func isDunder(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// isUpperString mirrors Python's str.isupper: at least one cased
// character and no lowercase cased characters.
func isUpperString(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// isLowerString mirrors Python's str.islower.
func isLowerString(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

// checkModuleConstants is the module-level pre-pass over direct
// assignment statements. Its guard differs from the one in
// handleAssignTarget; both are kept literally (see DESIGN.md).
func checkModuleConstants(r *run, n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		stmt := n.NamedChild(i)
		if stmt.Type() != "expression_statement" {
			continue
		}
		asgn := stmt.NamedChild(0)
		if asgn == nil || asgn.Type() != "assignment" {
			continue
		}
		left := asgn.ChildByFieldName("left")
		if left == nil || left.Type() != "identifier" {
			continue
		}
		name := r.text(left)
		if !upperCaseRe.MatchString(name) && isUpperString(name) {
			r.report("C0103", fmt.Sprintf("Constant '%s' should be in UPPER_CASE_WITH_UNDERSCORES", name), r.line(left))
		}
	}
}

// checkClassDef binds the class name in the enclosing scope, records
// it, and checks CapWords naming.
func checkClassDef(r *run, n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := r.text(nameNode)
	r.scopes.Declare(name, BindClass)
	r.syms.AddClassName(name)
	if !capWordsRe.MatchString(name) {
		r.report("C0103", fmt.Sprintf("Class '%s' should be in CapWords (CamelCase) format", name), r.line(n))
	}
}

// paramKind distinguishes parameter positions for naming messages.
type paramKind int

const (
	paramRegular paramKind = iota
	paramKwOnly
	paramVararg
	paramKwarg
)

type paramInfo struct {
	name string
	kind paramKind
	node *sitter.Node
}

// parameterNames flattens a parameters node into named parameters.
// Parameters after a bare `*` (or a *args) are keyword-only.
func parameterNames(params *sitter.Node, src []byte) []paramInfo {
	if params == nil {
		return nil
	}
	var out []paramInfo
	kwOnly := false
	positional := func() paramKind {
		if kwOnly {
			return paramKwOnly
		}
		return paramRegular
	}
	addPattern := func(c *sitter.Node) {
		inner := c.NamedChild(0)
		if inner == nil || inner.Type() != "identifier" {
			return
		}
		kind := paramVararg
		if c.Type() == "dictionary_splat_pattern" {
			kind = paramKwarg
		}
		out = append(out, paramInfo{name: parser.GetNodeText(inner, src), kind: kind, node: inner})
	}

	for i := 0; i < int(params.NamedChildCount()); i++ {
		c := params.NamedChild(i)
		switch c.Type() {
		case "identifier":
			out = append(out, paramInfo{name: parser.GetNodeText(c, src), kind: positional(), node: c})
		case "default_parameter", "typed_default_parameter":
			if name := c.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
				out = append(out, paramInfo{name: parser.GetNodeText(name, src), kind: positional(), node: name})
			}
		case "typed_parameter":
			inner := c.NamedChild(0)
			if inner == nil {
				continue
			}
			switch inner.Type() {
			case "identifier":
				out = append(out, paramInfo{name: parser.GetNodeText(inner, src), kind: positional(), node: inner})
			case "list_splat_pattern", "dictionary_splat_pattern":
				addPattern(inner)
				if inner.Type() == "list_splat_pattern" {
					kwOnly = true
				}
			}
		case "list_splat_pattern":
			addPattern(c)
			kwOnly = true
		case "dictionary_splat_pattern":
			addPattern(c)
		case "keyword_separator":
			kwOnly = true
		}
	}
	return out
}

// checkFunctionNaming checks the function name and each parameter name
// for snake_case, one diagnostic per malformed identifier.
func checkFunctionNaming(r *run, n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	fnName := r.text(nameNode)
	if !isDunder(fnName) && !snakeCaseRe.MatchString(fnName) {
		r.report("C0103", fmt.Sprintf("Function '%s' should be in snake_case", fnName), r.line(n))
	}
	for _, p := range parameterNames(n.ChildByFieldName("parameters"), r.src) {
		if snakeCaseRe.MatchString(p.name) {
			continue
		}
		switch p.kind {
		case paramRegular:
			if p.name == "self" || p.name == "cls" {
				continue
			}
			r.report("C0103", fmt.Sprintf("Argument '%s' in function '%s' should be in snake_case", p.name, fnName), r.line(p.node))
		case paramKwOnly:
			r.report("C0103", fmt.Sprintf("Keyword-only argument '%s' in function '%s' should be in snake_case", p.name, fnName), r.line(p.node))
		case paramVararg:
			r.report("C0103", fmt.Sprintf("Variable argument '*%s' in function '%s' should be in snake_case", p.name, fnName), r.line(p.node))
		case paramKwarg:
			r.report("C0103", fmt.Sprintf("Keyword argument '**%s' in function '%s' should be in snake_case", p.name, fnName), r.line(p.node))
		}
	}
}

// checkDocstring reports C0111 when a function body does not start
// with a documentation string. Dunder-named functions are exempt.
func checkDocstring(r *run, n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := r.text(nameNode)
	if isDunder(name) {
		return
	}
	if !hasDocstring(n.ChildByFieldName("body")) {
		r.report("C0111", fmt.Sprintf("Function '%s' is missing a docstring", name), r.line(n))
	}
}

func hasDocstring(body *sitter.Node) bool {
	if body == nil {
		return false
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		return c.Type() == "expression_statement" &&
			c.NamedChild(0) != nil && c.NamedChild(0).Type() == "string"
	}
	return false
}

// checkMutableDefaults reports W0102 for each parameter default that
// is a literal list, dict, or set.
func checkMutableDefaults(r *run, n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	params := n.ChildByFieldName("parameters")
	if nameNode == nil || params == nil {
		return
	}
	fnName := r.text(nameNode)
	for i := 0; i < int(params.NamedChildCount()); i++ {
		c := params.NamedChild(i)
		if c.Type() != "default_parameter" && c.Type() != "typed_default_parameter" {
			continue
		}
		value := c.ChildByFieldName("value")
		if value == nil {
			continue
		}
		switch value.Type() {
		case "list", "dictionary", "set":
			r.report("W0102", fmt.Sprintf("Mutable default argument in function '%s'", fnName), r.line(n))
		}
	}
}

// checkLambdaAssignment reports E731 when an anonymous function is
// assigned to a single plain name.
func checkLambdaAssignment(r *run, n *sitter.Node) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil {
		return
	}
	if right.Type() == "lambda" && left.Type() == "identifier" {
		r.report("E731", fmt.Sprintf("Do not assign a lambda expression, use a 'def' for '%s'", r.text(left)), r.line(n))
	}
}

// checkAssignment runs the assignment-target checks and records the
// write. Annotation-only statements (`x: int`) and annotated
// assignments keep declaration behavior but skip the target checks.
func checkAssignment(r *run, n *sitter.Node) {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if left == nil || right == nil || n.ChildByFieldName("type") != nil {
		return
	}
	r.handleAssignTarget(left, r.assignmentAtModuleLevel(n))
}

// assignmentAtModuleLevel reports whether an assignment's enclosing
// statement is a direct child of the module.
func (r *run) assignmentAtModuleLevel(n *sitter.Node) bool {
	p := r.parent(n)
	if p == nil || p.Type() != "expression_statement" {
		return false
	}
	return r.atModuleLevel(p)
}

// handleAssignTarget processes one assignment target, recursing into
// unpacking patterns. Attribute and subscript targets are skipped.
func (r *run) handleAssignTarget(target *sitter.Node, isModuleLevel bool) {
	switch target.Type() {
	case "identifier":
		name := r.text(target)
		if r.scopes.IsBuiltin(name) {
			r.report("W0622", fmt.Sprintf("Redefining built-in '%s'", name), r.line(target))
		}
		// Module-level all-caps names are treated as constants; the
		// guard intentionally differs from the module pre-pass.
		isLikelyConstant := isModuleLevel && isUpperString(name) && !isLowerString(name)
		if isLikelyConstant {
			if !upperCaseRe.MatchString(name) {
				r.report("C0103", fmt.Sprintf("Constant '%s' should be in UPPER_CASE_WITH_UNDERSCORES", name), r.line(target))
			}
		} else if !isDunder(name) {
			if !r.syms.IsClassName(name) && !snakeCaseRe.MatchString(name) && !capWordsRe.MatchString(name) {
				r.report("C0103", fmt.Sprintf("Variable '%s' should be in snake_case", name), r.line(target))
			}
		}
		r.scopes.Declare(name, BindAssigned)
		r.syms.RecordAssignment(name, r.line(target))
	case "pattern_list", "tuple_pattern", "list_pattern":
		for i := 0; i < int(target.NamedChildCount()); i++ {
			r.handleAssignTarget(target.NamedChild(i), isModuleLevel)
		}
	}
}
