// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package advice

import "errors"

var (
	// ErrDuplicateAdvice is returned when a non-System fragment is added to a
	// bundle that already holds it.
	ErrDuplicateAdvice = errors.New("advice: duplicate fragment")
	// ErrRequiredReceiver is the sentinel wrapped by RequiredReceiverError.
	ErrRequiredReceiver = errors.New("advice: hook requires a method call")
	// ErrInvalidOperation is returned when a headless bundle is called.
	ErrInvalidOperation = errors.New("advice: no underlying operation")
	// ErrUnderlyingSet is returned on a second assignment of the underlying operation.
	ErrUnderlyingSet = errors.New("advice: underlying operation already set")
	// ErrNilOperation is returned when a nil operation or fragment is supplied.
	ErrNilOperation = errors.New("advice: nil operation")
	// ErrNamingConflict is returned when a feature member collides with a
	// member declared on the target class.
	ErrNamingConflict = errors.New("advice: feature member conflicts with target member")
	// ErrConsistency is returned when a feature advises a slot that the
	// target class never propagated.
	ErrConsistency = errors.New("advice: target has no propagated slot")
	// ErrAnchorOrder is returned when a slot bundle is declared after
	// fragments aimed at the same slot.
	ErrAnchorOrder = errors.New("advice: slot bundle declared after its fragments")
	// ErrInvalidSlotOverride is returned when a slot is overridden by a value
	// that is neither an operation nor a bundle.
	ErrInvalidSlotOverride = errors.New("advice: invalid slot override")
	// ErrDuplicateMember is returned when a table declares a name twice.
	ErrDuplicateMember = errors.New("advice: duplicate member")
	// ErrClassExists is returned when a class name is already registered.
	ErrClassExists = errors.New("advice: class already defined")
	// ErrUnknownMember is returned when dispatch finds no member.
	ErrUnknownMember = errors.New("advice: unknown member")
	// ErrNotCallable is returned when dispatch finds a data member.
	ErrNotCallable = errors.New("advice: member is not callable")
	// ErrUnnamedMember is returned when a table entry other than Advice has
	// no name.
	ErrUnnamedMember = errors.New("advice: unnamed member")
	// ErrUncomparableReceiver is returned when a guarded call's receiver
	// cannot key the in-flight set.
	ErrUncomparableReceiver = errors.New("advice: receiver is not comparable")
	// ErrForeignClass is returned when a class from another registry is used.
	ErrForeignClass = errors.New("advice: class belongs to another registry")
)

// RequiredReceiverError reports a receiver-bound hook primed for a
// non-method call. It aborts the call before the underlying operation runs.
type RequiredReceiverError struct {
	Hook *Hook
}

func (e *RequiredReceiverError) Error() string {
	return "advice: " + e.Hook.String() + " expected a method call"
}

// Unwrap returns ErrRequiredReceiver.
func (e *RequiredReceiverError) Unwrap() error { return ErrRequiredReceiver }
