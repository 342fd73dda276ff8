package groovy

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
	"github.com/tliron/commonlog"
)

// Strategy selects how the parser predicts between alternatives.
type Strategy int

const (
	// StrategyTwoTier parses with bounded lookahead first and reparses with
	// full lookahead only when the first pass gives up.
	StrategyTwoTier Strategy = iota
	StrategyFastOnly
	StrategyFullOnly
)

func (s Strategy) String() string {
	switch s {
	case StrategyFastOnly:
		return "fast"
	case StrategyFullOnly:
		return "full"
	}
	return "two-tier"
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "", "two-tier":
		return StrategyTwoTier, nil
	case "fast":
		return StrategyFastOnly, nil
	case "full":
		return StrategyFullOnly, nil
	}
	return 0, fmt.Errorf("unknown parse strategy %q (want two-tier, fast or full)", s)
}

type Option func(*Builder)

func WithStrategy(s Strategy) Option {
	return func(b *Builder) {
		b.strategy = s
	}
}

// WithMaxDiagnostics caps the diagnostics kept per unit. Zero keeps all.
func WithMaxDiagnostics(n int) Option {
	return func(b *Builder) {
		b.maxDiagnostics = n
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(b *Builder) {
		b.log = log
	}
}

// Builder turns one compilation unit into an AST. A Builder is not safe for
// concurrent use; build several units concurrently with one Builder each.
type Builder struct {
	src            Source
	strategy       Strategy
	maxDiagnostics int
	log            commonlog.Logger
}

func NewBuilder(src Source, opts ...Option) *Builder {
	b := &Builder{
		src:            src,
		strategy:       StrategyTwoTier,
		maxDiagnostics: DefaultMaxDiagnostics,
		log:            commonlog.GetLogger("groovyast.builder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type Result struct {
	Module      *ast.Module
	Diagnostics []Diagnostic
	// Tier is the prediction mode of the pass that produced the syntax
	// tree.
	Tier parser.PredictionMode
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return HasErrors(r.Diagnostics)
}

// BuildAST reads, parses and converts the unit. Syntax errors are returned
// as diagnostics next to a best-effort module. Anything that stops the
// conversion, including a failure to read the source, is a
// *CompilationFailedError wrapping the cause.
func (b *Builder) BuildAST() (*Result, error) {
	unit := b.src.Name()
	text, err := loadText(b.src)
	if err != nil {
		b.log.Errorf("%s: %s", unit, err)
		return nil, &CompilationFailedError{Unit: unit, Cause: err}
	}

	diags := newDiagnosticBag(b.maxDiagnostics)
	root, tier, comments, err := b.parse(text, diags)
	if err != nil {
		b.log.Errorf("%s: parse failed: %s", unit, err)
		return nil, &CompilationFailedError{Unit: unit, Cause: err, Diagnostics: diags.sorted()}
	}

	ctx := newBuilderContext(unit, diags)
	ctx.source = text
	ctx.docs = newGroovydocFinder(comments)
	module, err := ctx.buildModule(root)
	if err != nil {
		b.log.Errorf("%s: %s", unit, err)
		return nil, &CompilationFailedError{Unit: unit, Cause: err, Diagnostics: diags.sorted()}
	}
	return &Result{Module: module, Diagnostics: diags.sorted(), Tier: tier}, nil
}

// ParseCST reads and parses the unit without building an AST. Syntax
// errors are returned as diagnostics next to the recovered tree.
func (b *Builder) ParseCST() (*parser.Node, []Diagnostic, error) {
	unit := b.src.Name()
	text, err := loadText(b.src)
	if err != nil {
		return nil, nil, &CompilationFailedError{Unit: unit, Cause: err}
	}
	diags := newDiagnosticBag(b.maxDiagnostics)
	root, _, _, err := b.parse(text, diags)
	if err != nil {
		return nil, nil, &CompilationFailedError{Unit: unit, Cause: err, Diagnostics: diags.sorted()}
	}
	return root, diags.sorted(), nil
}

func (b *Builder) parse(text []byte, diags *diagnosticBag) (*parser.Node, parser.PredictionMode, []parser.Token, error) {
	opts := []parser.Option{parser.WithFile(b.src.Name()), parser.WithComments()}

	if b.strategy != StrategyTwoTier {
		mode := parser.PredictionFull
		if b.strategy == StrategyFastOnly {
			mode = parser.PredictionFast
		}
		p := parser.ParseCompilationUnit(bytes.NewReader(text), append(opts,
			parser.WithPredictionMode(mode),
			parser.WithErrorStrategy(parser.RecoveringErrorStrategy{}),
			parser.WithErrorListener(diags),
		)...)
		root, err := p.Finish()
		return root, mode, p.Comments(), err
	}

	p := parser.ParseCompilationUnit(bytes.NewReader(text), append(opts,
		parser.WithPredictionMode(parser.PredictionFast),
		parser.WithErrorStrategy(parser.BailErrorStrategy{}),
	)...)
	root, err := p.Finish()
	if err == nil {
		return root, parser.PredictionFast, p.Comments(), nil
	}
	if !errors.Is(err, parser.ErrParseCancelled) {
		return nil, parser.PredictionFast, nil, err
	}

	b.log.Debugf("%s: retrying with full prediction: %s", b.src.Name(), err)
	p.Reset()
	p.SetPredictionMode(parser.PredictionFull)
	p.SetErrorStrategy(parser.RecoveringErrorStrategy{})
	p.RemoveErrorListeners()
	p.AddErrorListener(diags)
	root, err = p.Finish()
	return root, parser.PredictionFull, p.Comments(), err
}
