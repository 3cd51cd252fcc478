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

func TestBeforeOnly(t *testing.T) {
	var r recorder
	h := advice.NewHook("before", advice.Before(func(args ...any) error {
		r.add(args[0])
		return nil
	}))
	p, err := advice.Prime(h, advice.Call{Args: []any{1}})
	if p != nil || err != nil {
		t.Fatalf("got %v, %v; want no suspension", p, err)
	}
	if diff := cmp.Diff([]any{1}, r.events); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
}

func TestAfterCapturesArgs(t *testing.T) {
	var gotArgs []any
	var gotResult any
	h := advice.NewHook("after", advice.After(func(args []any, o advice.Outcome) error {
		gotArgs, gotResult = args, o.Result
		return nil
	}))
	b := advice.New(add(10))
	_ = b.AddHook(h)

	if _, err := b.Call(5); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]any{5}, gotArgs); diff != "" {
		t.Fatalf("args (-want +got):\n%s", diff)
	}
	if gotResult != 15 {
		t.Fatalf("result got %v, want 15", gotResult)
	}
}

func TestAwaitBind(t *testing.T) {
	boom := errors.New("too big")
	h := advice.NewHook("limit", func(...any) kont.Eff[error] {
		return advice.AwaitBind(func(o advice.Outcome) kont.Eff[error] {
			if o.Result.(int) > 100 {
				return advice.Fail(boom)
			}
			return advice.Skip()
		})
	})
	b := advice.New(square)
	_ = b.AddHook(h)

	if _, err := b.Call(5); err != nil {
		t.Fatalf("Call(5): %v", err)
	}
	got, err := b.Call(11)
	if got != 121 || !errors.Is(err, boom) {
		t.Fatalf("Call(11) got %v, %v; want 121, too big", got, err)
	}
}

func TestAwaitOutcomeBind(t *testing.T) {
	var seen advice.Outcome
	h := advice.NewHook("raw", func(...any) kont.Eff[error] {
		return kont.Bind(advice.AwaitOutcome(), func(o advice.Outcome) kont.Eff[error] {
			seen = o
			return advice.Skip()
		})
	})
	if err := advice.Exec(h, advice.Call{}, advice.Outcome{Result: 1}); err != nil {
		t.Fatal(err)
	}
	if seen.Result != 1 {
		t.Fatalf("got %v, want 1", seen.Result)
	}
}
