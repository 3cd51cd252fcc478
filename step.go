// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"code.hybscloud.com/kont"
)

// Pending is a hook suspended at Await, holding a one-shot resumption.
// Exactly one of Settle or Discard may be called.
type Pending struct {
	hook *Hook
	cont *kont.Suspension[error]
	expr *kont.Suspension[Verdict]
}

// Hook returns the suspended hook.
func (p *Pending) Hook() *Hook { return p.hook }

// Settle runs the post-phase with o and returns the hook's error.
// Panics if the hook suspends again or was already settled.
func (p *Pending) Settle(o Outcome) error {
	if p.cont != nil {
		err, next := p.cont.Resume(o)
		if next != nil {
			next.Discard()
			panic("advice: hook " + p.hook.String() + " suspended twice")
		}
		return err
	}
	v, next := p.expr.Resume(o)
	if next != nil {
		next.Discard()
		panic("advice: hook " + p.hook.String() + " suspended twice")
	}
	return verdictErr(v)
}

// Discard drops the suspension without running the post-phase.
func (p *Pending) Discard() {
	if p.cont != nil {
		p.cont.Discard()
		return
	}
	p.expr.Discard()
}

// validate checks the hook's convention against the call.
func (h *Hook) validate(call Call) error {
	if h.cat.receiverBound() && !call.Method {
		return &RequiredReceiverError{Hook: h}
	}
	return nil
}

// Prime validates call against h's convention and runs the pre-phase on
// the marshalled arguments.
// Returns (nil, nil) when the hook short-circuits, (nil, err) when the
// pre-phase completes with an error, or the suspended hook.
func Prime(h *Hook, call Call) (*Pending, error) {
	if err := h.validate(call); err != nil {
		return nil, err
	}
	return h.prime(call)
}

// prime runs the pre-phase until the first suspension.
func (h *Hook) prime(call Call) (*Pending, error) {
	args := h.cat.marshal(call)
	if h.expr != nil {
		v, susp := kont.StepExpr(h.expr(args...))
		if susp == nil {
			return nil, verdictErr(v)
		}
		checkAwait(h, susp.Op())
		return &Pending{hook: h, expr: susp}, nil
	}
	err, susp := kont.Step(h.fn(args...))
	if susp == nil {
		return nil, err
	}
	checkAwait(h, susp.Op())
	return &Pending{hook: h, cont: susp}, nil
}

// checkAwait panics for hooks suspending on foreign effects.
func checkAwait(h *Hook, op kont.Operation) {
	if _, isAwait := op.(Await); !isAwait {
		panic("advice: unhandled effect in hook " + h.String())
	}
}
