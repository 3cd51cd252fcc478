// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import (
	"fmt"
	"slices"

	"code.hybscloud.com/kont"
	"go.uber.org/zap"
)

// Feature is a reusable unit of slot advice and members mixed into
// existing classes after their definition.
type Feature struct {
	name    string
	serial  Serial
	slots   map[string]*Bundle
	order   []string
	members Table
	touch   Func
}

// NewFeature builds a feature from table.
//
// Bundles and Advice entries become slot advice, aggregated the way
// propagation aggregates them. An operation bound to the construction
// slot, or declared plainly under InitSlot, becomes the feature's touch
// operation, installed on targets as TouchName(f). Every other slot must
// be headless. Remaining entries are members copied onto each target.
func NewFeature(name string, table Table) (*Feature, error) {
	t, err := table.normalize()
	if err != nil {
		return nil, fmt.Errorf("advice: feature %s: %w", name, err)
	}
	groups, order, err := aggregate(t)
	if err != nil {
		return nil, fmt.Errorf("advice: feature %s: %w", name, err)
	}

	f := &Feature{
		name:   name,
		serial: nextSerial(),
		slots:  make(map[string]*Bundle, len(groups)),
		order:  order,
	}
	for _, slot := range order {
		b := groups[slot]
		if b.underlying != nil {
			if slot != InitSlot {
				return nil, fmt.Errorf("%w: feature %s binds slot %s", ErrInvalidSlotOverride, name, slot)
			}
			f.touch = b.underlying
		}
		headless := New(nil)
		if err := headless.Update(b); err != nil {
			return nil, fmt.Errorf("advice: feature %s: %w", name, err)
		}
		f.slots[slot] = headless
	}
	for _, e := range t {
		switch e.Value.(type) {
		case *Bundle, Advice:
			continue
		}
		if e.Name == InitSlot {
			fn, isFunc := e.Value.(Func)
			if !isFunc {
				return nil, fmt.Errorf("%w: feature %s holds %T", ErrInvalidSlotOverride, name, e.Value)
			}
			f.touch = fn
			continue
		}
		f.members = append(f.members, e)
	}
	return f, nil
}

// Name returns the feature name.
func (f *Feature) Name() string { return f.name }

// Serial returns the serial number assigned at creation.
func (f *Feature) Serial() Serial { return f.serial }

// Slots returns the names of the slots f advises.
func (f *Feature) Slots() []string { return slices.Clone(f.order) }

// Slot returns f's headless advice bundle for slot.
func (f *Feature) Slot(slot string) (*Bundle, bool) {
	b, found := f.slots[slot]
	if !found {
		return nil, false
	}
	return b.Clone(), true
}

func (f *Feature) String() string { return "feature " + f.name }

// TouchName returns the member name under which f's touch operation is
// installed on a target.
func TouchName(f *Feature) string {
	return InitSlot + "_" + f.name
}

// Mix applies f to target.
//
// A feature already in effect on target, directly or through an ancestor,
// is not applied again: Mix returns false. Otherwise f's slot advice is
// combined into target's own slot bundles, its members and touch operation
// are added, and f is appended to target's feature list. A feature with a
// touch operation also installs the lifecycle runner on target's own
// construction slot, which must exist. Nothing changes unless every check
// passes.
func (r *Registry) Mix(target *Class, f *Feature) (bool, error) {
	if target == nil || f == nil {
		return false, ErrNilOperation
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if target.registry != r {
		return false, fmt.Errorf("%w: %s", ErrForeignClass, target.name)
	}

	applied := target.effectiveFeatures()
	if slices.Contains(applied, f) {
		r.logger.Info("feature already applied",
			zap.String("class", target.name),
			zap.String("feature", f.name))
		r.journal.record(MixEvent{Target: target.name, Feature: f.name})
		return false, nil
	}

	slots := make(map[string]*Bundle, len(f.order))
	for _, slot := range f.order {
		own, isSlot := target.members[slot].(*Bundle)
		if !isSlot {
			return false, fmt.Errorf("%w: %s.%s for %s", ErrConsistency, target.name, slot, f)
		}
		b, err := Combine(own, f.slots[slot])
		if err != nil {
			return false, fmt.Errorf("advice: mix %s into %s: %w", f.name, target.name, err)
		}
		slots[slot] = b
	}
	if f.touch != nil {
		// The touch runs from the lifecycle runner on the construction slot.
		b, staged := slots[InitSlot]
		if !staged {
			own, isSlot := target.members[InitSlot].(*Bundle)
			if !isSlot {
				return false, fmt.Errorf("%w: %s.%s for %s", ErrConsistency, target.name, InitSlot, f)
			}
			b = own.Clone()
		}
		if err := b.AddHook(featureRunner); err != nil {
			return false, fmt.Errorf("advice: mix %s into %s: %w", f.name, target.name, err)
		}
		slots[InitSlot] = b
	}

	members := slices.Clone(f.members)
	if f.touch != nil {
		members = append(members, Entry{Name: TouchName(f), Value: f.touch})
	}
	for _, e := range members {
		if _, exists := target.members[e.Name]; exists {
			return false, fmt.Errorf("%w: %s.%s from %s", ErrNamingConflict, target.name, e.Name, f)
		}
	}

	for slot, b := range slots {
		target.members[slot] = b
	}
	for _, e := range members {
		target.members[e.Name] = e.Value
		target.order = append(target.order, e.Name)
	}
	target.features = append(slices.Clone(applied), f)

	r.journal.record(MixEvent{Target: target.name, Feature: f.name, Applied: true})
	r.logger.Debug("feature mixed",
		zap.String("class", target.name),
		zap.String("feature", f.name),
		zap.Strings("slots", f.order))
	return true, nil
}

// featureRunner runs, after the outermost construction, the touch member
// of every feature in effect on the receiver's class.
var featureRunner = NewHook("run_feature_inits", runFeatureTouches, OnlyReceiver, System)

func runFeatureTouches(args ...any) kont.Eff[error] {
	if len(args) == 0 {
		return Skip()
	}
	o, isInstance := args[0].(*Instance)
	if !isInstance {
		return Skip()
	}
	return AwaitBind(func(Outcome) kont.Eff[error] {
		return kont.Pure(o.touchFeatures())
	})
}

func (o *Instance) touchFeatures() error {
	for _, f := range o.class.Features() {
		name := TouchName(f)
		if _, _, found := o.class.Lookup(name); !found {
			continue
		}
		if _, err := o.Call(name); err != nil {
			return fmt.Errorf("advice: touch %s: %w", f.name, err)
		}
	}
	return nil
}

func attachFeatureRunner(_, child *Bundle) error {
	return child.AddHook(featureRunner)
}
