// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"code.hybscloud.com/kont"
)

// Reify converts a Cont-world hook to Expr-world.
// The resulting hook can be registered with NewExprHook.
func Reify(fn HookFunc) ExprHookFunc {
	return func(args ...any) kont.Expr[Verdict] {
		return kont.Reify(kont.Map(fn(args...), errVerdict))
	}
}

// Reflect converts an Expr-world hook to Cont-world.
// The resulting hook can be registered with NewHook.
func Reflect(fn ExprHookFunc) HookFunc {
	return func(args ...any) kont.Eff[error] {
		return kont.Map(kont.Reflect(fn(args...)), verdictErr)
	}
}
