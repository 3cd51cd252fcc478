// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/advice"
)

func TestMethodFunc(t *testing.T) {
	m := advice.Method(func(self *advice.Instance, args ...any) (any, error) {
		return len(args), nil
	})
	fn := m.Func()
	if _, err := fn(); !errors.Is(err, advice.ErrRequiredReceiver) {
		t.Fatalf("no receiver got %v, want ErrRequiredReceiver", err)
	}
	if _, err := fn("not an instance"); !errors.Is(err, advice.ErrRequiredReceiver) {
		t.Fatalf("wrong receiver got %v, want ErrRequiredReceiver", err)
	}

	reg := advice.NewRegistry()
	c, _ := reg.Define("C", nil, nil)
	o, _ := c.New()
	if got, err := fn(o, 1, 2); err != nil || got != 2 {
		t.Fatalf("got %v, %v; want 2", got, err)
	}
}

func TestTableOperationShapes(t *testing.T) {
	reg := advice.NewRegistry()
	c, err := reg.Define("C", nil, advice.Table{
		{Name: "fn", Value: advice.Func(func(args ...any) (any, error) { return "fn", nil })},
		{Name: "lit", Value: func(args ...any) (any, error) { return "lit", nil }},
		{Name: "method", Value: func(self *advice.Instance, args ...any) (any, error) { return "method", nil }},
	})
	if err != nil {
		t.Fatal(err)
	}
	o, _ := c.New()
	for _, name := range []string{"fn", "lit", "method"} {
		got, err := o.Call(name)
		if err != nil || got != name {
			t.Errorf("%s got %v, %v", name, got, err)
		}
	}
}

func TestTableUnnamedMember(t *testing.T) {
	reg := advice.NewRegistry()
	if _, err := reg.Define("C", nil, advice.Table{{Value: 5}}); !errors.Is(err, advice.ErrUnnamedMember) {
		t.Fatalf("got %v, want ErrUnnamedMember", err)
	}
	if _, found := reg.Class("C"); found {
		t.Fatal("rejected class was registered")
	}
	_, err := reg.Define("D", nil, advice.Table{{Value: advice.HookOn("run", advice.NewHook("h", advice.Before(func(...any) error { return nil })))}})
	if err != nil {
		t.Fatalf("unnamed advice rejected: %v", err)
	}
}

func TestTableLookup(t *testing.T) {
	tbl := advice.Table{{Name: "a", Value: 1}, {Name: "b", Value: 2}}
	if v, found := tbl.Lookup("b"); !found || v != 2 {
		t.Fatalf("got %v, %v; want 2", v, found)
	}
	if _, found := tbl.Lookup("c"); found {
		t.Fatal("unexpected entry c")
	}
}
