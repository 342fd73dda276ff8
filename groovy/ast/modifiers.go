package ast

import "strings"

// Modifiers is a set of declaration modifiers. The bit values are the JVM
// access flags so they can be handed to a class file writer unchanged.
type Modifiers int

const (
	Public       Modifiers = 0x0001
	Private      Modifiers = 0x0002
	Protected    Modifiers = 0x0004
	Static       Modifiers = 0x0008
	Final        Modifiers = 0x0010
	Synchronized Modifiers = 0x0020
	Volatile     Modifiers = 0x0040
	Transient    Modifiers = 0x0080
	Native       Modifiers = 0x0100
	Interface    Modifiers = 0x0200
	Abstract     Modifiers = 0x0400
	Strict       Modifiers = 0x0800
	Synthetic    Modifiers = 0x1000
	Annotation   Modifiers = 0x2000
	Enum         Modifiers = 0x4000

	VisibilityMask = Public | Private | Protected
)

var modifierNames = []struct {
	bit  Modifiers
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Static, "static"},
	{Final, "final"},
	{Transient, "transient"},
	{Volatile, "volatile"},
	{Synchronized, "synchronized"},
	{Native, "native"},
	{Strict, "strictfp"},
	{Interface, "interface"},
	{Annotation, "annotation"},
	{Enum, "enum"},
	{Synthetic, "synthetic"},
}

func (m Modifiers) Has(bits Modifiers) bool {
	return m&bits == bits
}

// Visibility returns only the visibility bits of m.
func (m Modifiers) Visibility() Modifiers {
	return m & VisibilityMask
}

// String lists the set modifiers in their conventional source order.
func (m Modifiers) String() string {
	var names []string
	for _, mn := range modifierNames {
		if m&mn.bit != 0 {
			names = append(names, mn.name)
		}
	}
	return strings.Join(names, " ")
}
