package analyzer

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sibyl-dev/sibyl/pkg/parser"
)

// checkImportStatement handles `import a, b as c`: E401 when more than
// one module is imported on the line, and a record per imported name.
// The recorded name is the alias when present, otherwise the full
// dotted module path.
func checkImportStatement(r *run, n *sitter.Node) {
	names := parser.FieldChildren(n, "name")
	if len(names) > 1 {
		r.report("E401", "Multiple imports on one line", r.line(n))
	}
	for _, clause := range names {
		r.recordImportClause(clause, r.line(n))
	}
}

// checkImportFrom handles `from m import a, b as c` and
// `from m import *`. The module path itself is not recorded, only the
// imported names; a wildcard records the literal "*".
func checkImportFrom(r *run, n *sitter.Node) {
	line := r.line(n)
	module := n.ChildByFieldName("module_name")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if module != nil && sameNode(c, module) {
			continue
		}
		switch c.Type() {
		case "dotted_name", "aliased_import":
			r.recordImportClause(c, line)
		case "wildcard_import":
			r.recordImport("*", line)
		}
	}
}

// recordImportClause records one import clause: the alias name for
// `x as y`, the dotted text otherwise.
func (r *run) recordImportClause(clause *sitter.Node, line int) {
	switch clause.Type() {
	case "aliased_import":
		if alias := clause.ChildByFieldName("alias"); alias != nil {
			r.recordImport(r.text(alias), line)
		}
	case "dotted_name", "identifier":
		r.recordImport(r.text(clause), line)
	}
}

func (r *run) recordImport(name string, line int) {
	r.syms.RecordImport(name, line)
	r.scopes.Declare(name, BindImport)
}
