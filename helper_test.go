// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice_test

import (
	"code.hybscloud.com/advice"
	"code.hybscloud.com/kont"
)

// recorder collects events in the order hooks and operations emit them.
type recorder struct {
	events []any
}

func (r *recorder) add(v any) { r.events = append(r.events, v) }

// tracer builds a hook recording "<name>:pre" and "<name>:post".
func (r *recorder) tracer(name string, cats ...advice.Category) *advice.Hook {
	return advice.NewHook(name, func(args ...any) kont.Eff[error] {
		r.add(name + ":pre")
		return advice.AwaitThen(func(advice.Outcome) {
			r.add(name + ":post")
		})
	}, cats...)
}

// add builds an operation returning args[0] + n.
func add(n int) advice.Func {
	return func(args ...any) (any, error) {
		return args[0].(int) + n, nil
	}
}

func square(args ...any) (any, error) {
	x := args[0].(int)
	return x * x, nil
}

// method builds a plain member recording name with its receiver's class.
func method(r *recorder, name string) advice.Method {
	return func(self *advice.Instance, args ...any) (any, error) {
		r.add(name)
		return self.Class().Name(), nil
	}
}

func hookNames(b *advice.Bundle) []string {
	var names []string
	for _, h := range b.Hooks() {
		names = append(names, h.Name())
	}
	return names
}
