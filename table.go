// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import "fmt"

// Method is a plain member operation written against its receiver.
type Method func(self *Instance, args ...any) (any, error)

// Entry is one declared member.
//
// Value is one of:
//   - Func, Method or func(...any) (any, error): a plain operation;
//     invoked as a method, args[0] is the receiver
//   - *Bundle: a slot declaration
//   - Advice: a fragment aimed at a slot (Name is informational)
//   - anything else: class data
type Entry struct {
	Name  string
	Value any
}

// Table is a declared-member table, in declaration order.
type Table []Entry

// Lookup returns the value declared under name.
func (t Table) Lookup(name string) (any, bool) {
	for _, e := range t {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// normalize converts operation values to Func and rejects names declared
// twice. Only Advice entries may be unnamed.
func (t Table) normalize() (Table, error) {
	out := make(Table, 0, len(t))
	seen := make(map[string]struct{}, len(t))
	for _, e := range t {
		if _, isAdvice := e.Value.(Advice); e.Name == "" && !isAdvice {
			return nil, fmt.Errorf("%w: %T", ErrUnnamedMember, e.Value)
		}
		if e.Name != "" {
			if _, dup := seen[e.Name]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateMember, e.Name)
			}
			seen[e.Name] = struct{}{}
		}
		if fn, isOp := asFunc(e.Value); isOp {
			e.Value = fn
		}
		out = append(out, e)
	}
	return out, nil
}

// asFunc converts the accepted operation shapes to Func.
func asFunc(v any) (Func, bool) {
	switch fn := v.(type) {
	case Func:
		return fn, fn != nil
	case func(...any) (any, error):
		return Func(fn), fn != nil
	case Method:
		return fn.Func(), fn != nil
	case func(*Instance, ...any) (any, error):
		return Method(fn).Func(), fn != nil
	}
	return nil, false
}

// Func adapts m to a Func taking the receiver as args[0].
func (m Method) Func() Func {
	return func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, ErrRequiredReceiver
		}
		self, isInstance := args[0].(*Instance)
		if !isInstance {
			return nil, fmt.Errorf("%w: receiver is %T", ErrRequiredReceiver, args[0])
		}
		return m(self, args[1:]...)
	}
}

// Advice is a fragment declared for a slot rather than as a member.
type Advice struct {
	Slot      string
	hook      *Hook
	transform *Transform
	stage     *Stage
}

// HookOn aims h at slot.
func HookOn(slot string, h *Hook) Advice { return Advice{Slot: slot, hook: h} }

// TransformOn aims t at slot.
func TransformOn(slot string, t *Transform) Advice { return Advice{Slot: slot, transform: t} }

// StageOn aims s at slot.
func StageOn(slot string, s *Stage) Advice { return Advice{Slot: slot, stage: s} }

// addTo adds the fragment to b through the normal add operations.
func (a Advice) addTo(b *Bundle) error {
	switch {
	case a.hook != nil:
		return b.AddHook(a.hook)
	case a.transform != nil:
		return b.AddTransform(a.transform)
	case a.stage != nil:
		return b.AddStage(a.stage)
	}
	return ErrNilOperation
}
