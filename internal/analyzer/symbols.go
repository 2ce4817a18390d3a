package analyzer

// ImportRecord is one imported name occurrence. The same name imported
// at a different line is a distinct record.
type ImportRecord struct {
	Name string
	Line int
}

// Assignment is a recorded name assignment. Line is the last write.
type Assignment struct {
	Name string
	Line int
}

// FunctionRecord tracks the return statements seen in one function:
// one boolean per return, true when the return carries a value.
type FunctionRecord struct {
	Line    int
	Returns []bool
}

// SymbolTable records assignments, usages, and imports for a single
// analysis run. Entries are append or overwrite only, never deleted.
type SymbolTable struct {
	assignments map[string]int
	assignOrder []string
	usages      map[string]int
	imports     []ImportRecord
	importSeen  map[ImportRecord]struct{}
	importNames map[string]struct{}
	usedImports map[string]struct{}
	classNames  map[string]struct{}
	functions   map[string]*FunctionRecord
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		assignments: make(map[string]int),
		usages:      make(map[string]int),
		importSeen:  make(map[ImportRecord]struct{}),
		importNames: make(map[string]struct{}),
		usedImports: make(map[string]struct{}),
		classNames:  make(map[string]struct{}),
		functions:   make(map[string]*FunctionRecord),
	}
}

// RecordAssignment records a write to name. The last write wins for the
// reported line; the first write fixes the name's position in the
// unused-variable sweep order.
func (s *SymbolTable) RecordAssignment(name string, line int) {
	if _, ok := s.assignments[name]; !ok {
		s.assignOrder = append(s.assignOrder, name)
	}
	s.assignments[name] = line
}

// RecordUsage records a read of name. A read that matches a recorded
// import name also marks that import used.
func (s *SymbolTable) RecordUsage(name string, line int) {
	s.usages[name] = line
	if s.IsImportName(name) {
		s.usedImports[name] = struct{}{}
	}
}

// RecordImport records an imported name at a line. Re-importing the
// same name at a different line is a distinct record.
func (s *SymbolTable) RecordImport(name string, line int) {
	rec := ImportRecord{Name: name, Line: line}
	if _, ok := s.importSeen[rec]; ok {
		return
	}
	s.importSeen[rec] = struct{}{}
	s.imports = append(s.imports, rec)
	s.importNames[name] = struct{}{}
}

// MarkImportUsed marks name used if it matches a recorded import.
func (s *SymbolTable) MarkImportUsed(name string) {
	if s.IsImportName(name) {
		s.usedImports[name] = struct{}{}
	}
}

// IsImportName reports whether name was recorded by any import.
func (s *SymbolTable) IsImportName(name string) bool {
	_, ok := s.importNames[name]
	return ok
}

// IsImportUsed reports whether name was marked as a used import.
func (s *SymbolTable) IsImportUsed(name string) bool {
	_, ok := s.usedImports[name]
	return ok
}

// Imports returns the import records in encounter order.
func (s *SymbolTable) Imports() []ImportRecord {
	return s.imports
}

// AddClassName records a declared class name.
func (s *SymbolTable) AddClassName(name string) {
	s.classNames[name] = struct{}{}
}

// IsClassName reports whether name is a declared class.
func (s *SymbolTable) IsClassName(name string) bool {
	_, ok := s.classNames[name]
	return ok
}

// BeginFunction starts a return-shape record for a function. A later
// definition with the same name replaces the record.
func (s *SymbolTable) BeginFunction(name string, line int) {
	s.functions[name] = &FunctionRecord{Line: line}
}

// RecordReturn appends a return occurrence to a function's record.
func (s *SymbolTable) RecordReturn(name string, hasValue bool) {
	if rec, ok := s.functions[name]; ok {
		rec.Returns = append(rec.Returns, hasValue)
	}
}

// Function returns the record for name, or nil.
func (s *SymbolTable) Function(name string) *FunctionRecord {
	return s.functions[name]
}

// IsUsed reports whether name was ever read.
func (s *SymbolTable) IsUsed(name string) bool {
	_, ok := s.usages[name]
	return ok
}

// Assignments returns recorded assignments in first-write encounter
// order, each carrying its last-write line. This fixed order keeps the
// unused-variable sweep deterministic.
func (s *SymbolTable) Assignments() []Assignment {
	out := make([]Assignment, 0, len(s.assignOrder))
	for _, name := range s.assignOrder {
		out = append(out, Assignment{Name: name, Line: s.assignments[name]})
	}
	return out
}
