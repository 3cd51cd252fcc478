// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package advice composes operations with reusable advice fragments:
// two-phase hooks, operation transforms and result pipelines, carried down
// class hierarchies and mixed into classes as features.
//
// Hooks are effectful computations on [code.hybscloud.com/kont]. A hook's
// pre-phase runs before the operation and ends by performing [Await]; the
// continuation is its post-phase, resumed with the call's [Outcome].
//
// # Architecture
//
//   - Fragments: [NewHook], [NewExprHook], [NewTransform], [NewStage], tagged with [Category] flags.
//   - Bundle: one operation plus its fragments. [New], [Bundle.Bind], [Combine].
//   - Protocol: validate, prime hooks (First ahead), run the transformed operation, apply stages, resume hooks in reverse.
//   - Guard: [Guard] runs advice once per outermost (receiver, slot) call; nested forwarding sees only the raw operation.
//   - Classes: [Registry], [Class], [Instance]. A [Meta] such as [AnchorMeta] propagates slots from parent to child.
//   - Features: [NewFeature] and [Registry.Mix] add slot advice and members to existing classes, journaled as [MixEvent].
//
// # Hook Topologies
//
//   - Cont-world: [AwaitOutcome], [AwaitThen], [AwaitBind], [Skip], [Fail], [Before], [After].
//   - Expr-world: [ExprAwaitOutcome], [ExprAwaitThen], [ExprAwaitBind], [ExprSkip], [ExprFail]. Bridge via [Reify] and [Reflect].
//   - Stepping: [Prime] and [Pending.Settle] drive one hook by hand; [Exec] runs one to completion.
//
// # Example
//
//	audit := advice.NewHook("audit", advice.After(func(args []any, o advice.Outcome) error {
//		log.Println("result", o.Result)
//		return nil
//	}))
//	b := advice.New(func(args ...any) (any, error) { return args[0].(int) + 1, nil })
//	_ = b.AddHook(audit)
//	v, err := b.Call(41)
package advice
