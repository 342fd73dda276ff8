// Package parser is an error-tolerant lexer and parser for Groovy source
// code. It produces a concrete syntax tree (CST) that keeps every token of
// the input, including the newlines that terminate statements.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Input     │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  (tokens)   │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// The lexer never merges '>' characters into shift operators, so nested
// generic closers such as List<List<String>> need no splitting. The parser
// reassembles >> and >>> from adjacent '>' tokens in expression context and
// keeps every '>' as its own Operator child.
//
// Interpolated strings are delivered as a token sequence:
//
//	"a ${x} b $y.z"
//	GStringBegin `"a ` LBrace `${` Ident `x` RBrace GStringPart ` b `
//	Ident `y` Dot Ident `z` GStringEnd `"`
//
// # Prediction Modes
//
// Some decisions (is this a declaration or a command expression, is this
// parenthesized type a cast) are made by speculatively parsing ahead and
// rewinding. PredictionFull lets a speculation look as far as it needs.
// PredictionFast bounds it to FastLookahead tokens and reports anything
// longer as an ambiguity, which BailErrorStrategy turns into
// ErrParseCancelled:
//
//	p := parser.ParseCompilationUnit(r,
//	    parser.WithPredictionMode(parser.PredictionFast),
//	    parser.WithErrorStrategy(parser.BailErrorStrategy{}))
//	tree, err := p.Finish()
//	if errors.Is(err, parser.ErrParseCancelled) {
//	    p.Reset()
//	    p.SetPredictionMode(parser.PredictionFull)
//	    p.SetErrorStrategy(parser.RecoveringErrorStrategy{})
//	    p.AddErrorListener(listener)
//	    tree, err = p.Finish()
//	}
//
// # Error Recovery
//
// With RecoveringErrorStrategy the parser never gives up. Unparsable input
// becomes KindError nodes and parsing resumes at the next statement or
// member boundary. Only the first error of a run is reported to listeners.
//
// # Thread Safety
//
// A Parser is not safe for concurrent use. Create one per input.
package parser
