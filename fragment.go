// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"fmt"

	"code.hybscloud.com/kont"
)

// Func is an operation. For method-style calls args[0] is the receiver.
type Func func(args ...any) (any, error)

// Call describes one invocation of a bundle.
// When Method is set, Args[0] is the receiver.
type Call struct {
	Method bool
	Args   []any
}

// receiver returns the receiver of a method-style call.
func (c Call) receiver() any {
	if !c.Method || len(c.Args) == 0 {
		return nil
	}
	return c.Args[0]
}

// HookFunc builds a hook computation for the primed argument subset.
// The pre-phase is everything up to the Await effect; the post-phase is the
// continuation that receives the Outcome. A computation that completes
// without performing Await short-circuits and is never resumed.
// The completion value is the hook's error; nil means success.
type HookFunc func(args ...any) kont.Eff[error]

// TransformFunc maps an operation to its replacement.
type TransformFunc func(Func) Func

// StageFunc post-processes a call's result.
type StageFunc func(any) any

// Hook is a two-phase interceptor fragment.
// It holds either a Cont-world or an Expr-world hook computation.
type Hook struct {
	serial Serial
	name   string
	cat    Category
	fn     HookFunc
	expr   ExprHookFunc
}

// NewHook creates a hook fragment. Each call returns a distinct fragment,
// even for the same fn.
// Panics if cats combine more than one calling convention.
func NewHook(name string, fn HookFunc, cats ...Category) *Hook {
	if fn == nil {
		panic("advice: nil hook func")
	}
	return &Hook{serial: nextSerial(), name: name, cat: hookCategory(cats), fn: fn}
}

func hookCategory(cats []Category) Category {
	cat := join(cats)
	if !cat.Valid() {
		panic("advice: conflicting calling conventions " + cat.String())
	}
	return cat
}

// Name returns the hook's name.
func (h *Hook) Name() string { return h.name }

// Serial returns the hook's serial.
func (h *Hook) Serial() Serial { return h.serial }

// Category returns the hook's tag set.
func (h *Hook) Category() Category { return h.cat }

func (h *Hook) String() string {
	return fmt.Sprintf("hook(%s#%d %s)", h.name, h.serial, h.cat)
}

// Transform is an operation-replacing fragment.
type Transform struct {
	serial Serial
	name   string
	cat    Category
	fn     TransformFunc
}

// NewTransform creates a transform fragment. Only System is meaningful in cats.
func NewTransform(name string, fn TransformFunc, cats ...Category) *Transform {
	if fn == nil {
		panic("advice: nil transform func")
	}
	return &Transform{serial: nextSerial(), name: name, cat: join(cats), fn: fn}
}

// Name returns the transform's name.
func (t *Transform) Name() string { return t.name }

// Serial returns the transform's serial.
func (t *Transform) Serial() Serial { return t.serial }

// Category returns the transform's tag set.
func (t *Transform) Category() Category { return t.cat }

func (t *Transform) String() string {
	return fmt.Sprintf("transform(%s#%d)", t.name, t.serial)
}

// Stage is a pipeline fragment.
type Stage struct {
	serial Serial
	name   string
	cat    Category
	fn     StageFunc
}

// NewStage creates a pipeline stage. Only System is meaningful in cats.
func NewStage(name string, fn StageFunc, cats ...Category) *Stage {
	if fn == nil {
		panic("advice: nil stage func")
	}
	return &Stage{serial: nextSerial(), name: name, cat: join(cats), fn: fn}
}

// Name returns the stage's name.
func (s *Stage) Name() string { return s.name }

// Serial returns the stage's serial.
func (s *Stage) Serial() Serial { return s.serial }

// Category returns the stage's tag set.
func (s *Stage) Category() Category { return s.cat }

func (s *Stage) String() string {
	return fmt.Sprintf("stage(%s#%d)", s.name, s.serial)
}

func join(cats []Category) Category {
	var c Category
	for _, x := range cats {
		c |= x
	}
	return c
}

// fragment is the identity-compared element of a bundle list.
type fragment interface {
	comparable
	Category() Category
	fmt.Stringer
}

// appendUnique appends f unless it is already present.
// A present System fragment is skipped; any other duplicate is an error.
func appendUnique[F fragment](list []F, f F) ([]F, error) {
	for _, x := range list {
		if x != f {
			continue
		}
		if f.Category().Has(System) {
			return list, nil
		}
		return list, fmt.Errorf("%w: %s", ErrDuplicateAdvice, f)
	}
	return append(list, f), nil
}
