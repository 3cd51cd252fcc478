// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"code.hybscloud.com/kont"
)

// Verdict is the completion value of an Expr-world hook.
// Left carries the hook's error, Right is success.
// Expr frames assert their erased values, so the error travels in a
// non-nil sum type rather than as a bare (possibly nil) interface.
type Verdict = kont.Either[error, struct{}]

// ExprHookFunc is the Expr-world counterpart of HookFunc.
type ExprHookFunc func(args ...any) kont.Expr[Verdict]

// verdictOK is the shared success verdict.
var verdictOK = kont.Right[error](struct{}{})

// NewExprHook creates a hook fragment from an Expr-world computation.
// Panics if cats combine more than one calling convention.
func NewExprHook(name string, fn ExprHookFunc, cats ...Category) *Hook {
	if fn == nil {
		panic("advice: nil hook func")
	}
	return &Hook{serial: nextSerial(), name: name, cat: hookCategory(cats), expr: fn}
}

// ExprAwaitOutcome suspends the pre-phase and yields the call's Outcome.
func ExprAwaitOutcome() kont.Expr[Outcome] {
	return kont.ExprPerform(Await{})
}

// ExprAwaitThen suspends the pre-phase and then runs f as the post-phase.
// Fuses ExprPerform(Await{}) + ExprMap.
func ExprAwaitThen(f func(Outcome)) kont.Expr[Verdict] {
	return kont.ExprMap(kont.ExprPerform(Await{}), func(o Outcome) Verdict {
		f(o)
		return verdictOK
	})
}

// ExprAwaitBind suspends the pre-phase and passes the Outcome to f.
// Fuses ExprPerform(Await{}) + ExprBind.
func ExprAwaitBind(f func(Outcome) kont.Expr[Verdict]) kont.Expr[Verdict] {
	return kont.ExprBind(kont.ExprPerform(Await{}), f)
}

// ExprSkip completes the hook without suspending.
func ExprSkip() kont.Expr[Verdict] {
	return kont.ExprReturn(verdictOK)
}

// ExprFail completes the hook with err.
func ExprFail(err error) kont.Expr[Verdict] {
	if err == nil {
		return ExprSkip()
	}
	return kont.ExprReturn(kont.Left[error, struct{}](err))
}

// verdictErr unpacks a Verdict.
func verdictErr(v Verdict) error {
	if err, isLeft := v.GetLeft(); isLeft {
		return err
	}
	return nil
}

// errVerdict packs an error into a Verdict.
func errVerdict(err error) Verdict {
	if err != nil {
		return kont.Left[error, struct{}](err)
	}
	return verdictOK
}
