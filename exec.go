// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"code.hybscloud.com/kont"
)

// outcomeHandler implements kont.Handler for the Await effect.
// Value type: passed to the trampoline on the stack.
type outcomeHandler struct {
	outcome Outcome
}

// Dispatch implements kont.Handler, answering every Await with the fixed outcome.
func (h outcomeHandler) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if _, isAwait := op.(Await); !isAwait {
		panic("advice: unhandled effect in outcomeHandler")
	}
	return h.outcome, true
}

// Exec runs h to completion for call, answering its Await with o.
// Both phases run back to back without an underlying operation; this is
// how a hook is exercised outside a bundle.
func Exec(h *Hook, call Call, o Outcome) error {
	if err := h.validate(call); err != nil {
		return err
	}
	args := h.cat.marshal(call)
	if h.expr != nil {
		return verdictErr(kont.HandleExpr(h.expr(args...), outcomeHandler{outcome: o}))
	}
	return kont.Handle(h.fn(args...), outcomeHandler{outcome: o})
}
