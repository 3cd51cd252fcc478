// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"code.hybscloud.com/kont"
)

// AwaitOutcome suspends the pre-phase and yields the call's Outcome.
func AwaitOutcome() kont.Eff[Outcome] {
	return kont.Perform(Await{})
}

// AwaitThen suspends the pre-phase and then runs f as the post-phase.
// Fuses Perform(Await{}) + Map.
func AwaitThen(f func(Outcome)) kont.Eff[error] {
	return kont.Map(kont.Perform(Await{}), func(o Outcome) error {
		f(o)
		return nil
	})
}

// AwaitBind suspends the pre-phase and passes the Outcome to f.
// Fuses Perform(Await{}) + Bind.
func AwaitBind(f func(Outcome) kont.Eff[error]) kont.Eff[error] {
	return kont.Bind(kont.Perform(Await{}), f)
}

// Skip completes the hook without suspending. The hook opts out of its
// post-phase for this call.
func Skip() kont.Eff[error] {
	return kont.Pure[error](nil)
}

// Fail completes the hook with err. Returned from a pre-phase it aborts the
// call before the underlying operation runs.
func Fail(err error) kont.Eff[error] {
	return kont.Pure(err)
}

// Before builds a hook that only has a pre-phase.
func Before(f func(args ...any) error) HookFunc {
	return func(args ...any) kont.Eff[error] {
		if err := f(args...); err != nil {
			return Fail(err)
		}
		return Skip()
	}
}

// After builds a hook that only has a post-phase.
// The primed arguments are captured for f.
func After(f func(args []any, o Outcome) error) HookFunc {
	return func(args ...any) kont.Eff[error] {
		return AwaitBind(func(o Outcome) kont.Eff[error] {
			return kont.Pure(f(args, o))
		})
	}
}
