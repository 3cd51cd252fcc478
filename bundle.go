// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"errors"
	"fmt"
	"slices"
)

// Bundle holds one operation and the advice attached to it.
//
// Fragment lists only grow. A bundle without an underlying operation is
// headless: it can be combined and bound, but not called.
//
// A Bundle is not safe for concurrent mutation. Calls on a fully built
// bundle may run concurrently.
type Bundle struct {
	underlying Func
	hooks      []*Hook
	transforms []*Transform
	stages     []*Stage

	// effective is underlying with transforms applied, rebuilt on change.
	effective Func
}

// New creates a bundle around op. A nil op yields a headless bundle.
func New(op Func) *Bundle {
	b := &Bundle{underlying: op}
	b.refresh()
	return b
}

// Headless reports whether b has no underlying operation.
func (b *Bundle) Headless() bool { return b.underlying == nil }

// Underlying returns the raw operation, without transforms.
func (b *Bundle) Underlying() Func { return b.underlying }

// SetUnderlying assigns the underlying operation. It may be set once.
func (b *Bundle) SetUnderlying(op Func) error {
	if op == nil {
		return ErrNilOperation
	}
	if b.underlying != nil {
		return ErrUnderlyingSet
	}
	b.underlying = op
	b.refresh()
	return nil
}

// Bind returns a new bundle wrapping op and carrying copies of b's
// fragments. b is left untouched and must be headless.
func (b *Bundle) Bind(op Func) (*Bundle, error) {
	if op == nil {
		return nil, ErrNilOperation
	}
	if b.underlying != nil {
		return nil, ErrUnderlyingSet
	}
	nb := b.Clone()
	nb.underlying = op
	nb.refresh()
	return nb, nil
}

// AddHook appends h. Adding a fragment b already holds fails with
// ErrDuplicateAdvice unless h is tagged System.
func (b *Bundle) AddHook(h *Hook) error {
	if h == nil {
		return ErrNilOperation
	}
	hooks, err := appendUnique(b.hooks, h)
	if err != nil {
		return err
	}
	b.hooks = hooks
	b.sortHooks()
	return nil
}

// AddTransform appends t. Transforms apply in order-added.
func (b *Bundle) AddTransform(t *Transform) error {
	if t == nil {
		return ErrNilOperation
	}
	transforms, err := appendUnique(b.transforms, t)
	if err != nil {
		return err
	}
	b.transforms = transforms
	b.refresh()
	return nil
}

// AddStage appends s to the pipeline. Stages apply in order-added.
func (b *Bundle) AddStage(s *Stage) error {
	if s == nil {
		return ErrNilOperation
	}
	stages, err := appendUnique(b.stages, s)
	if err != nil {
		return err
	}
	b.stages = stages
	return nil
}

// Update adds every fragment of other to b, in other's order.
// The underlying operation is not carried over.
func (b *Bundle) Update(other *Bundle) error {
	for _, h := range other.hooks {
		if err := b.AddHook(h); err != nil {
			return err
		}
	}
	for _, t := range other.transforms {
		if err := b.AddTransform(t); err != nil {
			return err
		}
	}
	for _, s := range other.stages {
		if err := b.AddStage(s); err != nil {
			return err
		}
	}
	return nil
}

// sortHooks moves First hooks ahead of the rest, keeping registration
// order within each group.
func (b *Bundle) sortHooks() {
	slices.SortStableFunc(b.hooks, func(x, y *Hook) int {
		xf, yf := x.cat.Has(First), y.cat.Has(First)
		switch {
		case xf == yf:
			return 0
		case xf:
			return -1
		default:
			return 1
		}
	})
}

// Hooks returns the hooks in priming order.
func (b *Bundle) Hooks() []*Hook { return slices.Clone(b.hooks) }

// Transforms returns the transforms in order-added.
func (b *Bundle) Transforms() []*Transform { return slices.Clone(b.transforms) }

// Stages returns the pipeline stages in order-added.
func (b *Bundle) Stages() []*Stage { return slices.Clone(b.stages) }

// Clone returns an independent copy of b.
func (b *Bundle) Clone() *Bundle {
	return &Bundle{
		underlying: b.underlying,
		hooks:      slices.Clone(b.hooks),
		transforms: slices.Clone(b.transforms),
		stages:     slices.Clone(b.stages),
		effective:  b.effective,
	}
}

// Effective returns the underlying operation with every transform applied,
// or nil for a headless bundle.
func (b *Bundle) Effective() Func { return b.effective }

func (b *Bundle) refresh() {
	if b.underlying == nil {
		b.effective = nil
		return
	}
	b.effective = b.transform(b.underlying)
}

func (b *Bundle) transform(fn Func) Func {
	for _, t := range b.transforms {
		fn = t.fn(fn)
	}
	return fn
}

// Call invokes b as a plain function.
func (b *Bundle) Call(args ...any) (any, error) {
	return b.Invoke(Call{Args: args})
}

// CallMethod invokes b as a method of recv.
func (b *Bundle) CallMethod(recv any, args ...any) (any, error) {
	return b.Invoke(Call{Method: true, Args: append([]any{recv}, args...)})
}

// Invoke runs the full advice protocol for call.
//
// Hooks are validated, then primed in order (First hooks ahead). The
// effective operation runs with the original arguments and its result
// flows through the pipeline. Suspended hooks are then resumed in reverse
// priming order with the final result. A hook error in the pre-phase
// aborts the call; post-phase errors are joined and returned with the
// result. If the operation fails, suspended hooks are discarded.
func (b *Bundle) Invoke(call Call) (any, error) {
	if b.underlying == nil {
		return nil, ErrInvalidOperation
	}
	return b.invoke(call, b.effective)
}

// invoke runs the protocol around fn, the already transformed operation.
func (b *Bundle) invoke(call Call, fn Func) (any, error) {
	for _, h := range b.hooks {
		if err := h.validate(call); err != nil {
			return nil, err
		}
	}

	pending := make([]*Pending, 0, len(b.hooks))
	for _, h := range b.hooks {
		p, err := h.prime(call)
		if err != nil {
			discardAll(pending)
			return nil, fmt.Errorf("advice: pre-phase of %s: %w", h, err)
		}
		if p != nil {
			pending = append(pending, p)
		}
	}

	ret, err := fn(call.Args...)
	if err != nil {
		discardAll(pending)
		return nil, err
	}
	for _, s := range b.stages {
		ret = s.fn(ret)
	}

	o := Outcome{Result: ret, Context: call.receiver()}
	var errs []error
	for i := len(pending) - 1; i >= 0; i-- {
		if err := pending[i].Settle(o); err != nil {
			errs = append(errs, fmt.Errorf("advice: post-phase of %s: %w", pending[i].hook, err))
		}
	}
	return ret, errors.Join(errs...)
}

func discardAll(pending []*Pending) {
	for _, p := range pending {
		p.Discard()
	}
}

func (b *Bundle) String() string {
	state := "bound"
	if b.underlying == nil {
		state = "headless"
	}
	return fmt.Sprintf("bundle(%s hooks=%d transforms=%d stages=%d)",
		state, len(b.hooks), len(b.transforms), len(b.stages))
}
