package hub

import "errors"

// Sentinel errors for the delegation engine.
var (
	// ErrNilBinder is returned when the engine is constructed without a
	// host platform binder.
	ErrNilBinder = errors.New("binder cannot be nil")

	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrDestroyed is returned when new registrations are attempted on a
	// destroyed engine.
	ErrDestroyed = errors.New("engine has been destroyed")

	// ErrEmptyType is returned when a descriptor carries no occurrence
	// type.
	ErrEmptyType = errors.New("occurrence type cannot be empty")
)

// HandlerPanicError wraps a panic raised by a handler during dispatch. It
// is never propagated out of dispatch; it is logged and counted.
type HandlerPanicError struct {
	// Action is the action name whose handler panicked.
	Action string

	// Type is the occurrence type being dispatched.
	Type string

	// Value is the value passed to panic().
	Value any
}

// Error implements the error interface.
func (e *HandlerPanicError) Error() string {
	return "handler panic for action " + e.Action + " on type " + e.Type
}
