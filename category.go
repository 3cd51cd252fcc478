// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import "strings"

// Category is the tag set attached to a fragment.
//
// A hook carries exactly one calling convention (Plain is the absence of
// the others) and any combination of the First and System markers.
// Transforms and stages only consult System.
type Category uint8

const (
	// Static drops the receiver argument when invoked as a method.
	Static Category = 1 << iota
	// Nullary invokes the hook with no arguments.
	Nullary
	// OnlyReceiver invokes the hook with just the receiver.
	OnlyReceiver
	// RequireReceiver fails the call unless it is method-style.
	RequireReceiver
	// First runs the pre-phase before every non-First hook.
	First
	// System makes re-adding the same fragment a silent no-op.
	System
)

// Plain passes the full argument set.
const Plain Category = 0

const conventionMask = Static | Nullary | OnlyReceiver | RequireReceiver

// Convention returns the calling-convention part of c.
func (c Category) Convention() Category { return c & conventionMask }

// Has reports whether every tag in t is set in c.
// Has(Plain) reports whether c carries no calling convention.
func (c Category) Has(t Category) bool {
	if t == Plain {
		return c.Convention() == Plain
	}
	return c&t == t
}

// Valid reports whether c carries at most one calling convention.
func (c Category) Valid() bool {
	conv := c.Convention()
	return conv&(conv-1) == 0
}

// receiverBound reports whether the convention needs a method-style call.
func (c Category) receiverBound() bool {
	conv := c.Convention()
	return conv == RequireReceiver || conv == OnlyReceiver
}

var categoryNames = [...]struct {
	c    Category
	name string
}{
	{Static, "static"},
	{Nullary, "nullary"},
	{OnlyReceiver, "only_receiver"},
	{RequireReceiver, "require_receiver"},
	{First, "first"},
	{System, "system"},
}

func (c Category) String() string {
	if c == Plain {
		return "plain"
	}
	var b strings.Builder
	if c.Convention() == Plain {
		b.WriteString("plain")
	}
	for _, n := range categoryNames {
		if c&n.c == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(n.name)
	}
	return b.String()
}

// marshal derives the argument subset a hook is primed with.
func (c Category) marshal(call Call) []any {
	switch c.Convention() {
	case Nullary:
		return nil
	case Static:
		if call.Method && len(call.Args) > 0 {
			return call.Args[1:]
		}
	case OnlyReceiver:
		if len(call.Args) > 0 {
			return call.Args[:1]
		}
		return nil
	}
	return call.Args
}
