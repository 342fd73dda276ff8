package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenNewline
	TokenComment
	TokenLineComment

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenStringLiteral
	TokenGStringBegin
	TokenGStringPart
	TokenGStringEnd
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenAbstract
	TokenAs
	TokenAssert
	TokenBoolean
	TokenBreak
	TokenByte
	TokenCase
	TokenCatch
	TokenChar
	TokenClass
	TokenConst
	TokenContinue
	TokenDef
	TokenDefault
	TokenDo
	TokenDouble
	TokenElse
	TokenEnum
	TokenExtends
	TokenFinal
	TokenFinally
	TokenFloat
	TokenFor
	TokenGoto
	TokenIf
	TokenImplements
	TokenImport
	TokenIn
	TokenInstanceof
	TokenInt
	TokenInterface
	TokenLong
	TokenNative
	TokenNew
	TokenPackage
	TokenPrivate
	TokenProtected
	TokenPublic
	TokenReturn
	TokenShort
	TokenStatic
	TokenStrictfp
	TokenSuper
	TokenSwitch
	TokenSynchronized
	TokenThis
	TokenThrow
	TokenThrows
	TokenTrait
	TokenTransient
	TokenTry
	TokenVar
	TokenVoid
	TokenVolatile
	TokenWhile

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenSafeDot
	TokenSpreadDot
	TokenAttrDot
	TokenMethodPointer
	TokenColonColon
	TokenRange
	TokenRangeExclusive
	TokenEllipsis
	TokenAt

	TokenAssign
	TokenEQ
	TokenNE
	TokenIdentical
	TokenNotIdentical
	TokenSpaceship
	TokenRegexFind
	TokenRegexMatch
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenPower
	TokenIncrement
	TokenDecrement
	TokenQuestion
	TokenElvis
	TokenColon
	TokenArrow
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenPowerAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign
	TokenUShrAssign
	TokenElvisAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:            "EOF",
	TokenError:          "Error",
	TokenWhitespace:     "Whitespace",
	TokenNewline:        "Newline",
	TokenComment:        "Comment",
	TokenLineComment:    "LineComment",
	TokenIdent:          "Identifier",
	TokenIntLiteral:     "IntLiteral",
	TokenFloatLiteral:   "FloatLiteral",
	TokenStringLiteral:  "StringLiteral",
	TokenGStringBegin:   "GStringBegin",
	TokenGStringPart:    "GStringPart",
	TokenGStringEnd:     "GStringEnd",
	TokenTrue:           "true",
	TokenFalse:          "false",
	TokenNull:           "null",
	TokenAbstract:       "abstract",
	TokenAs:             "as",
	TokenAssert:         "assert",
	TokenBoolean:        "boolean",
	TokenBreak:          "break",
	TokenByte:           "byte",
	TokenCase:           "case",
	TokenCatch:          "catch",
	TokenChar:           "char",
	TokenClass:          "class",
	TokenConst:          "const",
	TokenContinue:       "continue",
	TokenDef:            "def",
	TokenDefault:        "default",
	TokenDo:             "do",
	TokenDouble:         "double",
	TokenElse:           "else",
	TokenEnum:           "enum",
	TokenExtends:        "extends",
	TokenFinal:          "final",
	TokenFinally:        "finally",
	TokenFloat:          "float",
	TokenFor:            "for",
	TokenGoto:           "goto",
	TokenIf:             "if",
	TokenImplements:     "implements",
	TokenImport:         "import",
	TokenIn:             "in",
	TokenInstanceof:     "instanceof",
	TokenInt:            "int",
	TokenInterface:      "interface",
	TokenLong:           "long",
	TokenNative:         "native",
	TokenNew:            "new",
	TokenPackage:        "package",
	TokenPrivate:        "private",
	TokenProtected:      "protected",
	TokenPublic:         "public",
	TokenReturn:         "return",
	TokenShort:          "short",
	TokenStatic:         "static",
	TokenStrictfp:       "strictfp",
	TokenSuper:          "super",
	TokenSwitch:         "switch",
	TokenSynchronized:   "synchronized",
	TokenThis:           "this",
	TokenThrow:          "throw",
	TokenThrows:         "throws",
	TokenTrait:          "trait",
	TokenTransient:      "transient",
	TokenTry:            "try",
	TokenVar:            "var",
	TokenVoid:           "void",
	TokenVolatile:       "volatile",
	TokenWhile:          "while",
	TokenLParen:         "(",
	TokenRParen:         ")",
	TokenLBrace:         "{",
	TokenRBrace:         "}",
	TokenLBracket:       "[",
	TokenRBracket:       "]",
	TokenSemicolon:      ";",
	TokenComma:          ",",
	TokenDot:            ".",
	TokenSafeDot:        "?.",
	TokenSpreadDot:      "*.",
	TokenAttrDot:        ".@",
	TokenMethodPointer:  ".&",
	TokenColonColon:     "::",
	TokenRange:          "..",
	TokenRangeExclusive: "..<",
	TokenEllipsis:       "...",
	TokenAt:             "@",
	TokenAssign:         "=",
	TokenEQ:             "==",
	TokenNE:             "!=",
	TokenIdentical:      "===",
	TokenNotIdentical:   "!==",
	TokenSpaceship:      "<=>",
	TokenRegexFind:      "=~",
	TokenRegexMatch:     "==~",
	TokenLT:             "<",
	TokenLE:             "<=",
	TokenGT:             ">",
	TokenGE:             ">=",
	TokenAnd:            "&&",
	TokenOr:             "||",
	TokenNot:            "!",
	TokenBitAnd:         "&",
	TokenBitOr:          "|",
	TokenBitXor:         "^",
	TokenBitNot:         "~",
	TokenShl:            "<<",
	TokenPlus:           "+",
	TokenMinus:          "-",
	TokenStar:           "*",
	TokenSlash:          "/",
	TokenPercent:        "%",
	TokenPower:          "**",
	TokenIncrement:      "++",
	TokenDecrement:      "--",
	TokenQuestion:       "?",
	TokenElvis:          "?:",
	TokenColon:          ":",
	TokenArrow:          "->",
	TokenPlusAssign:     "+=",
	TokenMinusAssign:    "-=",
	TokenStarAssign:     "*=",
	TokenSlashAssign:    "/=",
	TokenPercentAssign:  "%=",
	TokenPowerAssign:    "**=",
	TokenAndAssign:      "&=",
	TokenOrAssign:       "|=",
	TokenXorAssign:      "^=",
	TokenShlAssign:      "<<=",
	TokenShrAssign:      ">>=",
	TokenUShrAssign:     ">>>=",
	TokenElvisAssign:    "?=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsKeyword reports whether k is a reserved word. Keywords are accepted as
// member names after a dot.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenAbstract && k <= TokenWhile || k == TokenTrue || k == TokenFalse || k == TokenNull
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
}

var keywords = map[string]TokenKind{
	"abstract":     TokenAbstract,
	"as":           TokenAs,
	"assert":       TokenAssert,
	"boolean":      TokenBoolean,
	"break":        TokenBreak,
	"byte":         TokenByte,
	"case":         TokenCase,
	"catch":        TokenCatch,
	"char":         TokenChar,
	"class":        TokenClass,
	"const":        TokenConst,
	"continue":     TokenContinue,
	"def":          TokenDef,
	"default":      TokenDefault,
	"do":           TokenDo,
	"double":       TokenDouble,
	"else":         TokenElse,
	"enum":         TokenEnum,
	"extends":      TokenExtends,
	"final":        TokenFinal,
	"finally":      TokenFinally,
	"float":        TokenFloat,
	"for":          TokenFor,
	"goto":         TokenGoto,
	"if":           TokenIf,
	"implements":   TokenImplements,
	"import":       TokenImport,
	"in":           TokenIn,
	"instanceof":   TokenInstanceof,
	"int":          TokenInt,
	"interface":    TokenInterface,
	"long":         TokenLong,
	"native":       TokenNative,
	"new":          TokenNew,
	"package":      TokenPackage,
	"private":      TokenPrivate,
	"protected":    TokenProtected,
	"public":       TokenPublic,
	"return":       TokenReturn,
	"short":        TokenShort,
	"static":       TokenStatic,
	"strictfp":     TokenStrictfp,
	"super":        TokenSuper,
	"switch":       TokenSwitch,
	"synchronized": TokenSynchronized,
	"this":         TokenThis,
	"throw":        TokenThrow,
	"throws":       TokenThrows,
	"trait":        TokenTrait,
	"transient":    TokenTransient,
	"try":          TokenTry,
	"var":          TokenVar,
	"void":         TokenVoid,
	"volatile":     TokenVolatile,
	"while":        TokenWhile,
	"true":         TokenTrue,
	"false":        TokenFalse,
	"null":         TokenNull,
}

func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// IsPrimitive reports whether k names a primitive type.
func (k TokenKind) IsPrimitive() bool {
	switch k {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid:
		return true
	}
	return false
}

// IsModifier reports whether k can appear in a modifier list.
func (k TokenKind) IsModifier() bool {
	switch k {
	case TokenPublic, TokenProtected, TokenPrivate,
		TokenAbstract, TokenStatic, TokenFinal,
		TokenStrictfp, TokenNative, TokenSynchronized,
		TokenTransient, TokenVolatile, TokenDef, TokenVar:
		return true
	}
	return false
}
