// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"fmt"
	"slices"
	"sync"
)

// InitSlot is the name of the construction slot.
const InitSlot = "init"

// Class is a defined type: a name, a parent, a meta and its own members.
// Members not declared on a class are inherited from its ancestors.
type Class struct {
	name     string
	parent   *Class
	meta     *Meta
	registry *Registry
	members  map[string]any
	order    []string

	// features is nil until the first Mix on this class; until then the
	// parent's list is in effect.
	features []*Feature
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Parent returns the parent class, or nil for the universal base.
func (c *Class) Parent() *Class { return c.parent }

// Meta returns the meta the class was constructed with.
func (c *Class) Meta() *Meta { return c.meta }

// Registry returns the owning registry.
func (c *Class) Registry() *Registry { return c.registry }

// Members returns the names of c's own members, in declaration order.
// Members added by Mix follow the declared ones.
func (c *Class) Members() []string {
	c.registry.mu.RLock()
	defer c.registry.mu.RUnlock()
	return slices.Clone(c.order)
}

// Own returns the member declared on c itself.
func (c *Class) Own(name string) (any, bool) {
	c.registry.mu.RLock()
	defer c.registry.mu.RUnlock()
	v, found := c.members[name]
	return v, found
}

// Slot returns c's own slot bundle named name.
func (c *Class) Slot(name string) (*Bundle, bool) {
	v, found := c.Own(name)
	if !found {
		return nil, false
	}
	b, isSlot := v.(*Bundle)
	return b, isSlot
}

// Lookup returns the nearest member named name along c's ancestry and the
// class declaring it.
func (c *Class) Lookup(name string) (any, *Class, bool) {
	c.registry.mu.RLock()
	defer c.registry.mu.RUnlock()
	return c.lookup(name)
}

func (c *Class) lookup(name string) (any, *Class, bool) {
	for k := c; k != nil; k = k.parent {
		if v, found := k.members[name]; found {
			return v, k, true
		}
	}
	return nil, nil, false
}

// resolve finds the operation for a headless slot named name, starting at
// c: the nearest plain operation or bound slot of that name.
func (c *Class) resolve(name string) Func {
	for k := c; k != nil; k = k.parent {
		switch v := k.members[name].(type) {
		case Func:
			return v
		case *Bundle:
			if v.underlying != nil {
				return v.underlying
			}
		}
	}
	return nil
}

// IsA reports whether c is other or descends from it.
func (c *Class) IsA(other *Class) bool {
	for k := c; k != nil; k = k.parent {
		if k == other {
			return true
		}
	}
	return false
}

// Features returns the features in effect on c, in application order.
func (c *Class) Features() []*Feature {
	c.registry.mu.RLock()
	defer c.registry.mu.RUnlock()
	return slices.Clone(c.effectiveFeatures())
}

func (c *Class) effectiveFeatures() []*Feature {
	for k := c; k != nil; k = k.parent {
		if k.features != nil {
			return k.features
		}
	}
	return nil
}

// New constructs an instance and runs its construction slot with args.
func (c *Class) New(args ...any) (*Instance, error) {
	o := &Instance{
		class:  c,
		serial: nextSerial(),
		fields: make(map[string]any),
	}
	if _, err := o.dispatch(c, InitSlot, args); err != nil {
		return nil, fmt.Errorf("advice: construct %s: %w", c.name, err)
	}
	return o, nil
}

func (c *Class) String() string { return "class " + c.name }

// Instance is an object of a Class. Fields are per-instance state.
type Instance struct {
	class  *Class
	serial Serial

	mu     sync.Mutex
	fields map[string]any
}

// Class returns the instance's class.
func (o *Instance) Class() *Class { return o.class }

// Serial returns the serial number assigned at construction.
func (o *Instance) Serial() Serial { return o.serial }

// Get returns the field named name.
func (o *Instance) Get(name string) (any, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, found := o.fields[name]
	return v, found
}

// Set stores v in the field named name.
func (o *Instance) Set(name string, v any) {
	o.mu.Lock()
	o.fields[name] = v
	o.mu.Unlock()
}

// Int returns the field named name as an int, or zero.
func (o *Instance) Int(name string) int {
	v, _ := o.Get(name)
	n, _ := v.(int)
	return n
}

// Call invokes the member named name on o, starting the lookup at o's
// class.
func (o *Instance) Call(name string, args ...any) (any, error) {
	return o.dispatch(o.class, name, args)
}

// Super invokes the member named name as found above from, the class whose
// override is forwarding. Within an outermost call of the same slot, the
// ancestor's raw operation runs without advice.
func (o *Instance) Super(from *Class, name string, args ...any) (any, error) {
	if from == nil || from.parent == nil || !o.class.IsA(from) {
		return nil, fmt.Errorf("%w: super %s", ErrUnknownMember, name)
	}
	return o.dispatch(from.parent, name, args)
}

// dispatch looks name up from start and invokes it with o as receiver.
// Slots go through the registry guard.
func (o *Instance) dispatch(start *Class, name string, args []any) (any, error) {
	r := start.registry
	r.mu.RLock()
	v, owner, found := start.lookup(name)
	var raw Func
	if b, isSlot := v.(*Bundle); isSlot {
		raw = b.underlying
		if raw == nil && owner.parent != nil {
			raw = owner.parent.resolve(name)
		}
	}
	r.mu.RUnlock()

	if !found {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMember, start.name, name)
	}
	switch v := v.(type) {
	case *Bundle:
		return r.guard.invoke(v, name, o, raw, args)
	case Func:
		return v(append([]any{o}, args...)...)
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrNotCallable, owner.name, name)
}

func (o *Instance) String() string {
	return fmt.Sprintf("%s#%d", o.class.name, o.serial)
}
