// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/advice"
	"code.hybscloud.com/kont"
	"github.com/google/go-cmp/cmp"
)

func TestDuplicateHook(t *testing.T) {
	b := advice.New(add(1))
	h := advice.NewHook("h", advice.Before(func(...any) error { return nil }))

	if err := b.AddHook(h); err != nil {
		t.Fatalf("first add: %v", err)
	}
	err := b.AddHook(h)
	if !errors.Is(err, advice.ErrDuplicateAdvice) {
		t.Fatalf("second add got %v, want ErrDuplicateAdvice", err)
	}
	if n := len(b.Hooks()); n != 1 {
		t.Fatalf("hooks got %d, want 1", n)
	}
}

func TestDuplicateSystemFragment(t *testing.T) {
	b := advice.New(add(1))
	h := advice.NewHook("sys", advice.Before(func(...any) error { return nil }), advice.System)
	tr := advice.NewTransform("sys", func(f advice.Func) advice.Func { return f }, advice.System)
	st := advice.NewStage("sys", func(v any) any { return v }, advice.System)

	for range 2 {
		if err := b.AddHook(h); err != nil {
			t.Fatalf("AddHook: %v", err)
		}
		if err := b.AddTransform(tr); err != nil {
			t.Fatalf("AddTransform: %v", err)
		}
		if err := b.AddStage(st); err != nil {
			t.Fatalf("AddStage: %v", err)
		}
	}
	if len(b.Hooks()) != 1 || len(b.Transforms()) != 1 || len(b.Stages()) != 1 {
		t.Fatalf("got %s, want one of each fragment", b)
	}
}

func TestDuplicateTransformAndStage(t *testing.T) {
	b := advice.New(add(1))
	tr := advice.NewTransform("t", func(f advice.Func) advice.Func { return f })
	st := advice.NewStage("s", func(v any) any { return v })
	_ = b.AddTransform(tr)
	_ = b.AddStage(st)

	if err := b.AddTransform(tr); !errors.Is(err, advice.ErrDuplicateAdvice) {
		t.Fatalf("transform got %v, want ErrDuplicateAdvice", err)
	}
	if err := b.AddStage(st); !errors.Is(err, advice.ErrDuplicateAdvice) {
		t.Fatalf("stage got %v, want ErrDuplicateAdvice", err)
	}
}

func TestFirstHooksPrimeAhead(t *testing.T) {
	var r recorder
	b := advice.New(add(0))
	h1 := r.tracer("h1", advice.First)
	h2 := r.tracer("h2")
	h3 := r.tracer("h3", advice.First)
	for _, h := range []*advice.Hook{h1, h2, h3} {
		if err := b.AddHook(h); err != nil {
			t.Fatal(err)
		}
	}

	if diff := cmp.Diff([]string{"h1", "h3", "h2"}, hookNames(b)); diff != "" {
		t.Fatalf("hook order (-want +got):\n%s", diff)
	}
	if _, err := b.Call(1); err != nil {
		t.Fatal(err)
	}
	want := []any{"h1:pre", "h3:pre", "h2:pre", "h2:post", "h3:post", "h1:post"}
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
}

func TestPipelineOrder(t *testing.T) {
	b := advice.New(func(args ...any) (any, error) {
		x := args[0]
		return []any{x, x}, nil
	})
	for _, n := range []int{1, 2} {
		_ = b.AddStage(advice.NewStage("add", func(v any) any {
			return append(v.([]any), n)
		}))
	}

	got, err := b.Call("x")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{"x", "x", 1, 2}, got); diff != "" {
		t.Fatalf("pipeline (-want +got):\n%s", diff)
	}
}

func TestShortCircuit(t *testing.T) {
	var r recorder
	b := advice.New(square)
	_ = b.AddHook(advice.NewHook("small", func(args ...any) kont.Eff[error] {
		if args[0].(int) > 10 {
			return advice.Skip()
		}
		r.add("pre")
		return advice.AwaitThen(func(o advice.Outcome) {
			r.add("post")
			r.add(o.Result)
		})
	}))

	got, err := b.Call(10)
	if err != nil || got != 100 {
		t.Fatalf("Call(10) got %v, %v; want 100", got, err)
	}
	if diff := cmp.Diff([]any{"pre", "post", 100}, r.events); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}

	r.events = nil
	got, err = b.Call(11)
	if err != nil || got != 121 {
		t.Fatalf("Call(11) got %v, %v; want 121", got, err)
	}
	if len(r.events) != 0 {
		t.Fatalf("events got %v, want none", r.events)
	}
}

func TestPostPhaseSeesPipelineResult(t *testing.T) {
	var seen any
	b := advice.New(add(1))
	_ = b.AddStage(advice.NewStage("double", func(v any) any { return v.(int) * 2 }))
	_ = b.AddHook(advice.NewHook("see", advice.After(func(_ []any, o advice.Outcome) error {
		seen = o.Result
		return nil
	})))

	got, _ := b.Call(4)
	if got != 10 || seen != 10 {
		t.Fatalf("got %v, hook saw %v; want 10", got, seen)
	}
}

func TestTransformOrder(t *testing.T) {
	b := advice.New(func(args ...any) (any, error) { return "op", nil })
	wrap := func(tag string) *advice.Transform {
		return advice.NewTransform(tag, func(f advice.Func) advice.Func {
			return func(args ...any) (any, error) {
				v, err := f(args...)
				return tag + "(" + v.(string) + ")", err
			}
		})
	}
	_ = b.AddTransform(wrap("a"))
	_ = b.AddTransform(wrap("b"))

	got, _ := b.Call()
	if got != "b(a(op))" {
		t.Fatalf("got %v, want b(a(op))", got)
	}
	raw, _ := b.Underlying()()
	if raw != "op" {
		t.Fatalf("underlying got %v, want op", raw)
	}
}

func TestPrePhaseErrorAborts(t *testing.T) {
	var r recorder
	boom := errors.New("boom")
	b := advice.New(func(args ...any) (any, error) {
		r.add("op")
		return nil, nil
	})
	_ = b.AddHook(r.tracer("outer"))
	_ = b.AddHook(advice.NewHook("deny", advice.Before(func(...any) error { return boom })))

	_, err := b.Call()
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if diff := cmp.Diff([]any{"outer:pre"}, r.events); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
}

func TestUnderlyingErrorDiscardsHooks(t *testing.T) {
	var r recorder
	boom := errors.New("boom")
	b := advice.New(func(...any) (any, error) { return nil, boom })
	_ = b.AddHook(r.tracer("h"))

	if _, err := b.Call(); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if diff := cmp.Diff([]any{"h:pre"}, r.events); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
}

func TestPostPhaseErrorsJoined(t *testing.T) {
	e1, e2 := errors.New("e1"), errors.New("e2")
	fail := func(err error) *advice.Hook {
		return advice.NewHook("fail", advice.After(func([]any, advice.Outcome) error { return err }))
	}
	b := advice.New(add(1))
	_ = b.AddHook(fail(e1))
	_ = b.AddHook(fail(e2))

	got, err := b.Call(1)
	if got != 2 {
		t.Fatalf("result got %v, want 2", got)
	}
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("got %v, want both e1 and e2", err)
	}
}

func TestRequiredReceiver(t *testing.T) {
	var r recorder
	b := advice.New(func(args ...any) (any, error) {
		r.add("op")
		return nil, nil
	})
	_ = b.AddHook(r.tracer("recv", advice.RequireReceiver))

	_, err := b.Call(1)
	var rr *advice.RequiredReceiverError
	if !errors.As(err, &rr) || !errors.Is(err, advice.ErrRequiredReceiver) {
		t.Fatalf("got %v, want RequiredReceiverError", err)
	}
	if len(r.events) != 0 {
		t.Fatalf("events got %v, want none", r.events)
	}

	if _, err := b.CallMethod("self", 1); err != nil {
		t.Fatalf("CallMethod: %v", err)
	}
}

func TestCallingConventions(t *testing.T) {
	var got [][]any
	capture := func(cat advice.Category) *advice.Hook {
		return advice.NewHook(cat.String(), advice.Before(func(args ...any) error {
			got = append(got, args)
			return nil
		}), cat)
	}
	b := advice.New(add(0))
	for _, c := range []advice.Category{advice.Plain, advice.Static, advice.Nullary, advice.OnlyReceiver} {
		_ = b.AddHook(capture(c))
	}

	if _, err := b.CallMethod(5, 7); err != nil {
		t.Fatal(err)
	}
	want := [][]any{{5, 7}, {7}, nil, {5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("arguments (-want +got):\n%s", diff)
	}
}

func TestHeadlessBundle(t *testing.T) {
	var r recorder
	h := r.tracer("h")
	b := advice.New(nil)
	_ = b.AddHook(h)

	if !b.Headless() {
		t.Fatal("expected headless")
	}
	if _, err := b.Call(1); !errors.Is(err, advice.ErrInvalidOperation) {
		t.Fatalf("got %v, want ErrInvalidOperation", err)
	}

	bound, err := b.Bind(add(2))
	if err != nil {
		t.Fatal(err)
	}
	if !b.Headless() {
		t.Fatal("Bind mutated the headless bundle")
	}
	got, err := bound.Call(1)
	if err != nil || got != 3 {
		t.Fatalf("bound got %v, %v; want 3", got, err)
	}
	if diff := cmp.Diff([]any{"h:pre", "h:post"}, r.events); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
	if _, err := bound.Bind(add(3)); !errors.Is(err, advice.ErrUnderlyingSet) {
		t.Fatalf("rebind got %v, want ErrUnderlyingSet", err)
	}
}

func TestSetUnderlyingOnce(t *testing.T) {
	b := advice.New(nil)
	if err := b.SetUnderlying(nil); !errors.Is(err, advice.ErrNilOperation) {
		t.Fatalf("nil got %v, want ErrNilOperation", err)
	}
	if err := b.SetUnderlying(add(1)); err != nil {
		t.Fatal(err)
	}
	if err := b.SetUnderlying(add(2)); !errors.Is(err, advice.ErrUnderlyingSet) {
		t.Fatalf("second got %v, want ErrUnderlyingSet", err)
	}
	if got, _ := b.Call(1); got != 2 {
		t.Fatalf("got %v, want 2", got)
	}
}

func TestCloneIndependent(t *testing.T) {
	b := advice.New(add(1))
	c := b.Clone()
	_ = c.AddHook(advice.NewHook("h", advice.Before(func(...any) error { return nil })))

	if len(b.Hooks()) != 0 {
		t.Fatal("clone shares hook list with original")
	}
}

func TestNilFragment(t *testing.T) {
	b := advice.New(add(1))
	if err := b.AddHook(nil); !errors.Is(err, advice.ErrNilOperation) {
		t.Fatalf("got %v, want ErrNilOperation", err)
	}
}

func TestOutcomeContext(t *testing.T) {
	var got []any
	h := advice.NewHook("ctx", advice.After(func(_ []any, o advice.Outcome) error {
		got = append(got, o.Context)
		return nil
	}))
	b := advice.New(func(...any) (any, error) { return nil, nil })
	_ = b.AddHook(h)

	_, _ = b.Call(1)
	recv := new(int)
	_, _ = b.Invoke(advice.Call{Method: true, Args: []any{recv, 1}})
	if len(got) != 2 || got[0] != nil || got[1] != recv {
		t.Fatalf("contexts got %v, want [nil %p]", got, recv)
	}
}
