package ast

type BlockStmt struct {
	StmtBase
	Statements []Stmt
}

type EmptyStmt struct {
	StmtBase
}

type ExpressionStmt struct {
	StmtBase
	Expr Expr
}

type IfStmt struct {
	StmtBase
	Cond *BooleanExpr
	Then Stmt
	// Else is nil when there is no else branch.
	Else Stmt
}

type WhileStmt struct {
	StmtBase
	Cond *BooleanExpr
	Body Stmt
}

type DoWhileStmt struct {
	StmtBase
	Body Stmt
	Cond *BooleanExpr
}

// ForStmt covers all three loop forms. A classic loop has a nil Variable and
// a ClosureListExpr collection holding init, condition and update.
type ForStmt struct {
	StmtBase
	Variable   *Parameter
	Collection Expr
	Body       Stmt
}

func (f *ForStmt) IsClassic() bool {
	return f.Variable == nil
}

type SwitchStmt struct {
	StmtBase
	Expr  Expr
	Cases []*CaseStmt
	// Default is an empty block without a span when the switch has no
	// default label.
	Default *BlockStmt
}

// CaseStmt is one case label. Labels sharing a body fall through: only the
// last of them carries the statements.
type CaseStmt struct {
	StmtBase
	Expr Expr
	Body *BlockStmt
}

type TryStmt struct {
	StmtBase
	Resources []*ExpressionStmt
	Body      Stmt
	Catches   []*CatchStmt
	Finally   Stmt
}

// CatchStmt handles one exception type. A multi-catch clause yields one
// CatchStmt per type, all sharing the same Body.
type CatchStmt struct {
	StmtBase
	Variable *Parameter
	Body     Stmt
}

type ThrowStmt struct {
	StmtBase
	Expr Expr
}

type ReturnStmt struct {
	StmtBase
	Expr Expr
}

type BreakStmt struct {
	StmtBase
	Label string
}

type ContinueStmt struct {
	StmtBase
	Label string
}

type AssertStmt struct {
	StmtBase
	Cond    *BooleanExpr
	Message Expr
}

type SynchronizedStmt struct {
	StmtBase
	Expr Expr
	Body Stmt
}
