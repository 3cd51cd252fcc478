// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ObjectName is the name of every registry's universal base class.
const ObjectName = "Object"

// Registry owns a family of classes: their definitions, the guard used to
// dispatch their slots and the journal of feature mixes.
//
// Define and Mix are serialized by the registry; lookups and calls may run
// concurrently with each other.
type Registry struct {
	mu      sync.RWMutex
	logger  *zap.Logger
	guard   *Guard
	meta    *Meta
	object  *Class
	classes map[string]*Class
	journal *journal
}

// NewRegistry creates a registry holding only the universal base.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logger:  zap.NewNop(),
		guard:   defaultGuard,
		meta:    AnchorMeta,
		classes: make(map[string]*Class),
		journal: newJournal(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.object = &Class{
		name:     ObjectName,
		meta:     r.meta,
		registry: r,
		members:  map[string]any{InitSlot: Func(noop)},
		order:    []string{InitSlot},
	}
	r.classes[ObjectName] = r.object
	return r
}

// noop is the universal base's construction operation.
func noop(...any) (any, error) { return nil, nil }

// Object returns the universal base.
func (r *Registry) Object() *Class { return r.object }

// Guard returns the call-once guard used for slot dispatch.
func (r *Registry) Guard() *Guard { return r.guard }

// Logger returns the registry logger.
func (r *Registry) Logger() *zap.Logger { return r.logger }

// Class returns the class registered under name.
func (r *Registry) Class(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, found := r.classes[name]
	return c, found
}

// Define creates a class named name under parent using parent's meta.
// A nil parent means the universal base.
func (r *Registry) Define(name string, parent *Class, table Table) (*Class, error) {
	return r.DefineWith(nil, name, parent, table)
}

// DefineWith is Define with an explicit meta. A nil meta inherits the
// parent's.
//
// The meta's construct hooks run in order over the normalized table; the
// final table becomes the class's own members.
func (r *Registry) DefineWith(m *Meta, name string, parent *Class, table Table) (*Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if parent == nil {
		parent = r.object
	}
	if parent.registry != r {
		return nil, fmt.Errorf("%w: %s", ErrForeignClass, parent.name)
	}
	if _, exists := r.classes[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrClassExists, name)
	}
	if m == nil {
		m = parent.meta
	}

	t, err := table.normalize()
	if err != nil {
		return nil, fmt.Errorf("advice: define %s: %w", name, err)
	}
	t, err = m.construct(name, []*Class{parent}, t)
	if err != nil {
		return nil, fmt.Errorf("advice: define %s: %w", name, err)
	}

	c := &Class{
		name:     name,
		parent:   parent,
		meta:     m,
		registry: r,
		members:  make(map[string]any, len(t)),
	}
	var slots []string
	for _, e := range t {
		if e.Name == "" {
			continue
		}
		if _, seen := c.members[e.Name]; !seen {
			c.order = append(c.order, e.Name)
		}
		c.members[e.Name] = e.Value
		if _, isSlot := e.Value.(*Bundle); isSlot {
			slots = append(slots, e.Name)
		}
	}
	r.classes[name] = c

	r.logger.Debug("class defined",
		zap.String("class", name),
		zap.String("parent", parent.name),
		zap.String("meta", m.name),
		zap.Strings("slots", slots))
	return c, nil
}

// Journal drains the buffered mix events, oldest first.
func (r *Registry) Journal() []MixEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.journal.drain()
}

// JournalDropped returns how many mix events were evicted from the full
// journal.
func (r *Registry) JournalDropped() uint32 {
	return r.journal.droppedCount()
}
