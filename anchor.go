// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"fmt"
	"slices"
)

// ConstructHook is one class-construction step. It receives the class name,
// its bases (nearest first) and the member table produced by the previous
// step, and returns the table for the next one. Steps run under the
// registry lock and must not call back into the Registry or Class accessors.
type ConstructHook func(name string, bases []*Class, table Table) (Table, error)

// Meta is an ordered list of construction steps. Classes inherit their
// parent's meta unless defined with another.
type Meta struct {
	name  string
	steps []ConstructHook
}

// NewMeta creates a meta running steps in order.
func NewMeta(name string, steps ...ConstructHook) *Meta {
	return &Meta{name: name, steps: slices.Clone(steps)}
}

// Name returns the meta name.
func (m *Meta) Name() string { return m.name }

// Extend returns a meta running m's steps followed by steps.
func (m *Meta) Extend(name string, steps ...ConstructHook) *Meta {
	return &Meta{name: name, steps: append(slices.Clone(m.steps), steps...)}
}

func (m *Meta) construct(name string, bases []*Class, t Table) (Table, error) {
	var err error
	for _, step := range m.steps {
		if t, err = step(name, bases, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

var (
	// AnchorMeta propagates slots from parent to child.
	AnchorMeta = NewMeta("anchor", Propagate(nil))
	// FeatureMeta propagates slots and runs the touch operation of every
	// applied feature once construction completes.
	FeatureMeta = NewMeta("feature", Propagate(map[string]Preprocess{
		InitSlot: attachFeatureRunner,
	}))
)

// Preprocess adjusts a child's local bundle before it is combined with the
// parent's. The parent bundle is shared and must not be mutated.
type Preprocess func(parent, child *Bundle) error

// Propagate returns the construction step that carries slots down the
// hierarchy.
//
// For every slot name the parent owns, the child declares, or pre names,
// the child's own bundle becomes Combine(parent, local), where local is
// the child's declared bundle followed by its Advice entries for that
// slot. A plain operation declared over a slot becomes the local
// underlying; a missing side is headless. Advice entries are consumed.
func Propagate(pre map[string]Preprocess) ConstructHook {
	extra := make([]string, 0, len(pre))
	for name := range pre {
		extra = append(extra, name)
	}
	slices.Sort(extra)

	return func(name string, bases []*Class, table Table) (Table, error) {
		var parent *Class
		if len(bases) > 0 {
			parent = bases[0]
		}
		inherited, names := ownSlots(parent)
		local, localNames, err := aggregate(table)
		if err != nil {
			return nil, err
		}
		names = appendNew(names, localNames...)
		names = appendNew(names, extra...)

		slots := make(map[string]*Bundle, len(names))
		for _, slot := range names {
			p := inherited[slot]
			c, declared := local[slot]
			if !declared {
				// Every name here is a parent slot or preprocessed, so a
				// plain member under it must be an operation.
				v, found := table.Lookup(slot)
				fn, isFunc := v.(Func)
				if found && !isFunc {
					return nil, fmt.Errorf("%w: %s.%s holds %T", ErrInvalidSlotOverride, name, slot, v)
				}
				c = New(fn)
			}
			if p == nil {
				p = New(nil)
			}
			if fn := pre[slot]; fn != nil {
				if err := fn(p, c); err != nil {
					return nil, fmt.Errorf("advice: preprocess %s.%s: %w", name, slot, err)
				}
			}
			b, err := Combine(p, c)
			if err != nil {
				return nil, fmt.Errorf("advice: propagate %s.%s: %w", name, slot, err)
			}
			slots[slot] = b
		}
		return rewrite(table, names, slots), nil
	}
}

// ownSlots returns the slot bundles declared on c itself, in member order.
func ownSlots(c *Class) (map[string]*Bundle, []string) {
	slots := make(map[string]*Bundle)
	var names []string
	if c == nil {
		return slots, names
	}
	for _, name := range c.order {
		if b, isSlot := c.members[name].(*Bundle); isSlot {
			slots[name] = b
			names = append(names, name)
		}
	}
	return slots, names
}

// aggregate groups a table's slot content per slot: a declared bundle
// first, then Advice entries in declaration order. The returned bundles
// are fresh copies.
func aggregate(table Table) (map[string]*Bundle, []string, error) {
	groups := make(map[string]*Bundle)
	var names []string
	for _, e := range table {
		switch v := e.Value.(type) {
		case *Bundle:
			if _, exists := groups[e.Name]; exists {
				return nil, nil, fmt.Errorf("%w: %s", ErrAnchorOrder, e.Name)
			}
			groups[e.Name] = v.Clone()
			names = append(names, e.Name)
		case Advice:
			b, exists := groups[v.Slot]
			if !exists {
				b = New(nil)
				groups[v.Slot] = b
				names = append(names, v.Slot)
			}
			if err := v.addTo(b); err != nil {
				return nil, nil, fmt.Errorf("advice: slot %s: %w", v.Slot, err)
			}
		}
	}
	return groups, names, nil
}

// rewrite replaces slot entries with their propagated bundles, drops Advice
// entries and appends slots the table never declared by name.
func rewrite(table Table, names []string, slots map[string]*Bundle) Table {
	out := make(Table, 0, len(table)+len(slots))
	placed := make(map[string]bool, len(slots))
	for _, e := range table {
		if _, isAdvice := e.Value.(Advice); isAdvice {
			continue
		}
		if b, isSlot := slots[e.Name]; isSlot {
			e.Value = b
			placed[e.Name] = true
		}
		out = append(out, e)
	}
	for _, name := range names {
		if b, isSlot := slots[name]; isSlot && !placed[name] {
			out = append(out, Entry{Name: name, Value: b})
		}
	}
	return out
}

func appendNew(list []string, names ...string) []string {
	for _, n := range names {
		if !slices.Contains(list, n) {
			list = append(list, n)
		}
	}
	return list
}
