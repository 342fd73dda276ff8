package groovy

import (
	"github.com/dhamidi/groovyast/groovy/ast"
	"github.com/dhamidi/groovyast/groovy/parser"
)

var modifierBits = map[parser.TokenKind]ast.Modifiers{
	parser.TokenStatic:       ast.Static,
	parser.TokenAbstract:     ast.Abstract,
	parser.TokenFinal:        ast.Final,
	parser.TokenNative:       ast.Native,
	parser.TokenSynchronized: ast.Synchronized,
	parser.TokenTransient:    ast.Transient,
	parser.TokenVolatile:     ast.Volatile,
	parser.TokenStrictfp:     ast.Strict,
}

var visibilityBits = map[parser.TokenKind]ast.Modifiers{
	parser.TokenPublic:    ast.Public,
	parser.TokenProtected: ast.Protected,
	parser.TokenPrivate:   ast.Private,
}

// modifierInfo summarizes a Modifiers node.
type modifierInfo struct {
	bits ast.Modifiers
	// explicit is set when a visibility keyword was written.
	explicit bool
	// any is set when a keyword other than def or var was written.
	any           bool
	def           bool
	hasAnnotation bool
}

// resolveModifiers folds the modifier keywords of mods into a bit set. A
// repeated keyword or a second visibility keyword is reported and ignored;
// the first occurrence wins. defaultVisibility applies when no visibility
// keyword was written.
func (c *builderContext) resolveModifiers(mods *parser.Node, defaultVisibility ast.Modifiers) modifierInfo {
	var info modifierInfo
	if mods == nil {
		info.bits = defaultVisibility
		return info
	}
	for _, m := range mods.Children {
		switch m.Kind {
		case parser.KindAnnotation:
			info.hasAnnotation = true
			continue
		case parser.KindModifier:
		default:
			continue
		}
		kind := m.TokenKind()
		switch kind {
		case parser.TokenDef, parser.TokenVar:
			info.def = true
			continue
		case parser.TokenDefault:
			continue
		}
		info.any = true
		if bit, ok := visibilityBits[kind]; ok {
			if info.explicit {
				c.diags.errorf(spanOf(m), "Cannot specify modifier: %s when access scope has already been defined", m.TokenLiteral())
				continue
			}
			info.explicit = true
			info.bits |= bit
			continue
		}
		bit, ok := modifierBits[kind]
		if !ok {
			continue
		}
		if info.bits&bit != 0 {
			c.diags.errorf(spanOf(m), "Cannot repeat modifier: %s", m.TokenLiteral())
			continue
		}
		info.bits |= bit
	}
	if !info.explicit {
		info.bits |= defaultVisibility
	}
	return info
}

// isSyntheticPublic decides whether a method's public visibility was
// implied rather than written.
func isSyntheticPublic(annotationDecl bool, info modifierInfo, hasReturnType bool) bool {
	switch {
	case info.explicit:
		return false
	case annotationDecl:
		return true
	case info.def && hasReturnType:
		return true
	case info.any || info.hasAnnotation || !hasReturnType:
		return true
	}
	return false
}

// hasModifierKeyword reports whether mods contains the keyword kind.
func hasModifierKeyword(mods *parser.Node, kind parser.TokenKind) bool {
	if mods == nil {
		return false
	}
	for _, m := range mods.Children {
		if m.Kind == parser.KindModifier && m.TokenKind() == kind {
			return true
		}
	}
	return false
}

// visibilityKeyword returns the first visibility keyword in mods.
func visibilityKeyword(mods *parser.Node) *parser.Node {
	if mods == nil {
		return nil
	}
	for _, m := range mods.Children {
		if m.Kind != parser.KindModifier {
			continue
		}
		if _, ok := visibilityBits[m.TokenKind()]; ok {
			return m
		}
	}
	return nil
}
