package translate

import (
	"strconv"

	"github.com/stonebound/rillc/internal/compileerr"
	"github.com/stonebound/rillc/internal/grammar"
	"github.com/stonebound/rillc/internal/lex"
	"github.com/stonebound/rillc/internal/parse"
)

// Translator implements parse.Translator: it is the semantic translator of
// spec.md §4.7, maintaining the global Word table, the ordered Process
// table, the emitted quadruple stream, and a per-function temporary
// counter, grounded on original_source/mySemantic.py's Semantic class.
type Translator struct {
	Reg *grammar.Grammar

	Globals   []*Word
	Processes []*Process
	Quads     []Quad

	StartAddress int

	Diagnostics   []error
	ErrorOccurred bool

	tempCounters map[string]int
}

// New returns a Translator over grammar g, emitting addresses relative to
// startAddress (default 100 per spec.md §6).
func New(g *grammar.Grammar, startAddress int) *Translator {
	return &Translator{
		Reg:          g,
		StartAddress: startAddress,
		tempCounters: map[string]int{},
	}
}

func (tr *Translator) currentProcess() *Process {
	if len(tr.Processes) == 0 {
		return nil
	}
	return tr.Processes[len(tr.Processes)-1]
}

// newTemp allocates the next __T<n> temporary name for the current
// process, guaranteed not to collide with any user-declared local since
// identifiers in this language may not begin with "__".
func (tr *Translator) newTemp() string {
	key := ""
	if p := tr.currentProcess(); p != nil {
		key = p.Name
	}
	n := tr.tempCounters[key]
	tr.tempCounters[key] = n + 1
	return "__T" + strconv.Itoa(n)
}

// wordRef is the result of a symbol lookup: Index follows
// mySemantic.py's checkup_word signed-index convention (positive: local to
// the current process, negative: global, as -i; zero: not found).
type wordRef struct {
	Index int
	Word  *Word
}

func (tr *Translator) lookupWord(name string) wordRef {
	if p := tr.currentProcess(); p != nil {
		if idx := p.lookupLocal(name); idx != 0 {
			return wordRef{Index: idx, Word: p.Words[idx-1]}
		}
	}
	for i, w := range tr.Globals {
		if w.Name == name {
			return wordRef{Index: -(i + 1), Word: w}
		}
	}
	return wordRef{}
}

func (tr *Translator) raiseError(loc lex.Loc, format string, a ...interface{}) {
	tr.ErrorOccurred = true
	err := compileerr.New(compileerr.StageSemantic, compileerr.SeverityError,
		compileerr.Loc{Row: loc.Row, Col: loc.Col}, "semantic error", format, a...)
	tr.Diagnostics = append(tr.Diagnostics, err)
}

// Shift implements parse.Translator: every shifted terminal's attribute
// carries its lexeme under Place, Op, and Identifier alike, since which
// field a given reduction reads depends on the production, not the token.
func (tr *Translator) Shift(tok lex.Token) any {
	return &Attribute{Place: tok.Content(), Op: tok.Content(), Identifier: tok.Content()}
}

// attrOf extracts the *Attribute a child frame carries, defaulting to an
// empty Attribute for frames the translator never assigned one to (the
// synthetic ε leaf of an empty production).
func attrOf(f parse.Frame) *Attribute {
	if a, ok := f.Attr.(*Attribute); ok && a != nil {
		return a
	}
	return &Attribute{}
}

// rhsNames returns the names of a production's right-hand side symbols.
func rhsNames(g *grammar.Grammar, p grammar.Production) []string {
	if p.IsEpsilon(g.Reg.EpsilonID()) {
		return nil
	}
	out := make([]string, len(p.RHS))
	for i, sym := range p.RHS {
		out[i], _ = g.Reg.NameOf(sym)
	}
	return out
}

// Reduce implements parse.Translator, dispatching on the reduced
// production's left-hand side name and right-hand side shape. This mirrors
// mySemantic.py's Semantic.analyse/analyse1, generalized from a Python
// string-equality dispatch to a Go switch over the production's textual
// shape, so it works for any grammar file following spec.md §4.7's naming
// convention rather than one grammar's fixed production ids.
func (tr *Translator) Reduce(p grammar.Production, children []parse.Frame, loc lex.Loc) any {
	lhs, _ := tr.Reg.Reg.NameOf(p.LHS)
	rhs := rhsNames(tr.Reg, p)

	switch lhs {
	case "Program", "Decl":
		return passthroughOrEmpty(children)

	case "DeclList":
		if len(children) == 2 {
			return attrOf(children[0])
		}
		return passthroughOrEmpty(children)

	case "S":
		tr.Emit("j", unused, unused, unused)
		return &Attribute{}

	case "P":
		proc := &Process{StartAddress: tr.StartAddress + tr.nextIndex()}
		tr.Processes = append(tr.Processes, proc)
		return &Attribute{Quad: tr.nextIndex()}

	case "M":
		return &Attribute{Quad: tr.nextIndex()}

	case "N":
		idx := tr.Emit("j", unused, unused, unused)
		return &Attribute{NextList: []int{idx}}

	case "VarDeclInner":
		// mut identifier
		return &Attribute{Identifier: attrOf(children[1]).Identifier, Type: "i32"}

	case "Type":
		return &Attribute{Place: attrOf(children[0]).Identifier}

	case "Param":
		// VarDeclInner : Type
		inner := attrOf(children[0])
		typ := "i32"
		if len(children) == 3 {
			typ = attrOf(children[2]).Place
		}
		proc := tr.currentProcess()
		w, err := proc.declareParam(inner.Identifier, typ)
		if err != nil {
			tr.raiseError(loc, "duplicate parameter %q", inner.Identifier)
			return &Attribute{}
		}
		return &Attribute{Word: w, Params: []*Word{w}}

	case "ParamList":
		if len(rhs) == 0 {
			return &Attribute{}
		}
		// Param ParamListTail
		head := attrOf(children[0])
		tail := attrOf(children[1])
		return &Attribute{Params: append(append([]*Word{}, head.Params...), tail.Params...)}

	case "ParamListTail":
		if rhs == nil || rhs[0] != "," {
			return &Attribute{}
		}
		// , Param ParamListTail
		head := attrOf(children[1])
		tail := attrOf(children[2])
		return &Attribute{Params: append(append([]*Word{}, head.Params...), tail.Params...)}

	case "FunctionHeader":
		return tr.reduceFunctionHeader(rhs, children, loc)

	case "FunctionDecl":
		return tr.reduceFunctionDecl(children)

	case "DeclOnly":
		return tr.reduceDeclOnly(rhs, children, loc)

	case "DeclAssign":
		return tr.reduceDeclAssign(rhs, children, loc)

	case "Lvalue":
		// identifier
		return &Attribute{Identifier: attrOf(children[0]).Identifier}

	case "AssignStmt":
		return tr.reduceAssignStmt(children, loc)

	case "Expr":
		if len(rhs) == 1 {
			return attrOf(children[0])
		}
		return tr.reduceBinary(children)

	case "AddExpr":
		if len(rhs) == 1 {
			return attrOf(children[0])
		}
		return tr.reduceBinary(children)

	case "Term":
		if len(rhs) == 1 {
			return attrOf(children[0])
		}
		return tr.reduceBinary(children)

	case "Factor":
		return attrOf(children[0])

	case "Element":
		return tr.reduceElement(rhs, children)

	case "ArgList":
		if len(rhs) == 0 {
			return &Attribute{}
		}
		head := attrOf(children[0])
		tail := attrOf(children[1])
		return &Attribute{Args: append(append([]string{}, head.Place), tail.Args...)}

	case "ArgListTail":
		if rhs == nil || rhs[0] != "," {
			return &Attribute{}
		}
		head := attrOf(children[1])
		tail := attrOf(children[2])
		return &Attribute{Args: append(append([]string{}, head.Place), tail.Args...)}

	case "CmpOp", "AddOp", "MulOp":
		return &Attribute{Op: attrOf(children[0]).Op}

	case "BoolExpr":
		expr := attrOf(children[0])
		jnz := tr.Emit("jnz", expr.Place, unused, unused)
		j := tr.Emit("j", unused, unused, unused)
		return &Attribute{TrueList: []int{jnz}, FalseList: []int{j}}

	case "WhileStmt":
		return tr.reduceWhile(children)

	case "IfStmt":
		return tr.reduceIf(rhs, children)

	case "ElsePart":
		if len(rhs) == 0 {
			return &Attribute{HasReturn: false}
		}
		// else IfStmt | else Block
		return attrOf(children[1])

	case "StmtList":
		return tr.reduceStmtList(rhs, children)

	case "Block":
		if len(children) >= 2 {
			return attrOf(children[1])
		}
		return &Attribute{}

	case "Stmt":
		if len(children) == 0 {
			return &Attribute{}
		}
		return attrOf(children[0])

	case "LoopStmt":
		return attrOf(children[0])

	case "ExprStmt":
		return &Attribute{}

	case "ReturnStmt":
		return tr.reduceReturn(rhs, children)

	case "BreakStmt", "ContinueStmt":
		// Loop-exit jump targets aren't specified by the translator rules
		// this grammar defines; parsed for structural completeness only.
		return &Attribute{}

	default:
		return passthroughOrEmpty(children)
	}
}

func passthroughOrEmpty(children []parse.Frame) *Attribute {
	if len(children) == 0 {
		return &Attribute{}
	}
	return attrOf(children[0])
}

func (tr *Translator) reduceBinary(children []parse.Frame) *Attribute {
	lhs := attrOf(children[0])
	op := attrOf(children[1])
	rhs := attrOf(children[2])
	t := tr.newTemp()
	tr.Emit(op.Op, lhs.Place, rhs.Place, t)
	return &Attribute{Place: t}
}

func (tr *Translator) reduceElement(rhs []string, children []parse.Frame) *Attribute {
	switch {
	case len(rhs) == 1:
		// integer_constant | identifier
		return &Attribute{Place: attrOf(children[0]).Place}
	case len(rhs) == 3 && rhs[0] == "(":
		// ( Expr )
		return attrOf(children[1])
	case len(rhs) == 4:
		// identifier ( ArgList )
		name := attrOf(children[0]).Identifier
		args := attrOf(children[2]).Args
		for _, a := range args {
			tr.Emit("arg", unused, unused, a)
		}
		t := tr.newTemp()
		tr.Emit("call", name, strconv.Itoa(len(args)), t)
		return &Attribute{Place: t}
	default:
		return &Attribute{}
	}
}

func (tr *Translator) reduceFunctionHeader(rhs []string, children []parse.Frame, loc lex.Loc) *Attribute {
	name := attrOf(children[1]).Identifier
	retType := "void"
	if len(rhs) >= 2 && rhs[len(rhs)-2] == "->" {
		retType = attrOf(children[len(children)-1]).Place
	}

	proc := tr.currentProcess()
	for _, other := range tr.Processes[:len(tr.Processes)-1] {
		if other.Name == name {
			tr.raiseError(loc, "function %q redefined", name)
			return &Attribute{}
		}
	}
	proc.Name = name
	proc.ReturnType = retType

	return &Attribute{Type: retType, Identifier: name}
}

func (tr *Translator) reduceFunctionDecl(children []parse.Frame) *Attribute {
	proc := tr.currentProcess()
	block := attrOf(children[len(children)-1])

	if block.NextList != nil {
		tr.Backpatch(block.NextList, tr.nextIndex())
	}

	hasReturn := block.HasReturn
	if proc.ReturnType == "void" {
		if !hasReturn {
			tr.Emit("ret", unused, unused, unused)
		}
	} else if !hasReturn {
		tr.raiseError(lex.Loc{}, "function %q is non-void and has no guaranteed return", proc.Name)
	}

	if proc.Name == "main" {
		tr.Quads[0].Tar = strconv.Itoa(proc.StartAddress)
	}

	return &Attribute{}
}

func (tr *Translator) reduceDeclOnly(rhs []string, children []parse.Frame, loc lex.Loc) *Attribute {
	inner := attrOf(children[1])
	typ := "i32"
	if len(rhs) == 5 {
		typ = attrOf(children[3]).Place
	}
	tr.declareLocal(inner.Identifier, typ, loc)
	return &Attribute{}
}

func (tr *Translator) reduceDeclAssign(rhs []string, children []parse.Frame, loc lex.Loc) *Attribute {
	inner := attrOf(children[1])
	exprIdx := len(children) - 2
	typ := "i32"
	if len(rhs) == 7 {
		typ = attrOf(children[3]).Place
	}
	tr.declareLocal(inner.Identifier, typ, loc)
	expr := attrOf(children[exprIdx])
	tr.Emit("=", expr.Place, unused, inner.Identifier)
	return &Attribute{}
}

func (tr *Translator) declareLocal(name, typ string, loc lex.Loc) {
	proc := tr.currentProcess()
	if proc == nil {
		return
	}
	if _, err := proc.declareLocal(name, typ); err != nil {
		tr.raiseError(loc, "variable %q redefined", name)
	}
}

func (tr *Translator) reduceAssignStmt(children []parse.Frame, loc lex.Loc) *Attribute {
	lvalue := attrOf(children[0])
	expr := attrOf(children[2])
	if tr.lookupWord(lvalue.Identifier).Index == 0 {
		tr.raiseError(loc, "undefined variable %q", lvalue.Identifier)
	}
	tr.Emit("=", expr.Place, unused, lvalue.Identifier)
	return &Attribute{}
}

func (tr *Translator) reduceWhile(children []parse.Frame) *Attribute {
	// while M1 BoolExpr M2 Block
	m1 := attrOf(children[1])
	boolExpr := attrOf(children[2])
	m2 := attrOf(children[3])
	block := attrOf(children[4])

	tr.Backpatch(boolExpr.TrueList, m2.Quad)
	tr.Backpatch(block.NextList, m1.Quad)
	tr.Emit("j", unused, unused, tr.address(m1.Quad))

	return &Attribute{NextList: boolExpr.FalseList}
}

func (tr *Translator) reduceIf(rhs []string, children []parse.Frame) *Attribute {
	boolExpr := attrOf(children[1])
	m1 := attrOf(children[2])
	block := attrOf(children[3])

	if len(children) == 4 {
		// if BoolExpr M Block
		tr.Backpatch(boolExpr.TrueList, m1.Quad)
		next := append(append([]int{}, boolExpr.FalseList...), block.NextList...)
		return &Attribute{NextList: next, HasReturn: block.HasReturn}
	}

	// if BoolExpr M1 Block N M2 ElsePart
	n := attrOf(children[4])
	m2 := attrOf(children[5])
	elsePart := attrOf(children[6])

	tr.Backpatch(boolExpr.TrueList, m1.Quad)
	tr.Backpatch(boolExpr.FalseList, m2.Quad)

	next := append(append([]int{}, block.NextList...), n.NextList...)
	next = append(next, elsePart.NextList...)
	return &Attribute{NextList: next, HasReturn: block.HasReturn && elsePart.HasReturn}
}

func (tr *Translator) reduceStmtList(rhs []string, children []parse.Frame) *Attribute {
	if len(rhs) == 0 {
		return &Attribute{}
	}
	// Stmt M StmtList
	stmt := attrOf(children[0])
	m := attrOf(children[1])
	tail := attrOf(children[2])

	tr.Backpatch(stmt.NextList, m.Quad)
	return &Attribute{
		NextList:  tail.NextList,
		HasReturn: stmt.HasReturn || tail.HasReturn,
	}
}

func (tr *Translator) reduceReturn(rhs []string, children []parse.Frame) *Attribute {
	place := unused
	if len(rhs) == 3 {
		place = attrOf(children[1]).Place
	}
	tr.Emit("ret", unused, unused, place)
	return &Attribute{HasReturn: true}
}
