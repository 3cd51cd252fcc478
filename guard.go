// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"fmt"
	"reflect"
	"sync"
)

// guardKey identifies one in-flight slot invocation.
type guardKey struct {
	recv any
	slot string
}

// Guard is a call-once gate keyed by (receiver, slot).
//
// The outermost call of a slot on a receiver runs the full advice protocol.
// While it is in flight, nested calls of the same slot on the same receiver
// (an override forwarding to its ancestor's operation) bypass advice and run
// only the raw underlying operation. One external call therefore triggers
// hooks and pipeline exactly once.
//
// Receivers must be comparable; pointers are the intended keys. Invoke
// rejects other receivers with ErrUncomparableReceiver; Enter panics on them. The guard
// assumes a receiver is not invoked concurrently from several goroutines:
// a concurrent call would be taken for a nested one.
type Guard struct {
	mu       sync.Mutex
	inflight map[guardKey]struct{}
}

// NewGuard creates an empty guard.
func NewGuard() *Guard {
	return &Guard{inflight: make(map[guardKey]struct{})}
}

// defaultGuard is the process-wide guard used when none is configured.
var defaultGuard = NewGuard()

// DefaultGuard returns the process-wide guard.
func DefaultGuard() *Guard { return defaultGuard }

// Enter marks (recv, slot) in flight. It reports whether this is the
// outermost call; exit must be called exactly once when the call
// completes, on success or failure.
func (g *Guard) Enter(recv any, slot string) (outermost bool, exit func()) {
	key := guardKey{recv: recv, slot: slot}
	g.mu.Lock()
	_, nested := g.inflight[key]
	if !nested {
		g.inflight[key] = struct{}{}
	}
	g.mu.Unlock()
	if nested {
		return false, func() {}
	}
	return true, func() {
		g.mu.Lock()
		delete(g.inflight, key)
		g.mu.Unlock()
	}
}

// InFlight reports whether (recv, slot) is currently executing.
func (g *Guard) InFlight(recv any, slot string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, found := g.inflight[guardKey{recv: recv, slot: slot}]
	return found
}

// Len returns the number of in-flight keys.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}

// Invoke calls b as slot on recv. The outermost call runs the full
// protocol; nested calls run only the raw underlying operation.
func (g *Guard) Invoke(b *Bundle, slot string, recv any, args ...any) (any, error) {
	return g.invoke(b, slot, recv, b.underlying, args)
}

// invoke is Invoke with an explicit raw operation, used when a headless
// slot resolves its operation from the class chain.
func (g *Guard) invoke(b *Bundle, slot string, recv any, raw Func, args []any) (any, error) {
	if raw == nil {
		return nil, ErrInvalidOperation
	}
	if t := reflect.TypeOf(recv); t != nil && !t.Comparable() {
		return nil, fmt.Errorf("%w: %s", ErrUncomparableReceiver, t)
	}
	outermost, exit := g.Enter(recv, slot)
	defer exit()
	full := append([]any{recv}, args...)
	if !outermost {
		return raw(full...)
	}
	fn := b.effective
	if b.underlying == nil {
		fn = b.transform(raw)
	}
	return b.invoke(Call{Method: true, Args: full}, fn)
}
