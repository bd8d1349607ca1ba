package container

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrDuplicateBind is matched by DuplicateBindError.
	ErrDuplicateBind = errors.New("container: duplicate bind")

	// ErrNotBound is matched by NotBoundError.
	ErrNotBound = errors.New("container: key not bound")

	// ErrStrategyAlreadySet is raised when To, ToProvider or ToConstant is
	// called on a binding that already has a resolution strategy.
	ErrStrategyAlreadySet = errors.New("container: binding strategy already set")

	// ErrNoStrategy is returned when a bound key is resolved before its
	// binding was configured with To, ToProvider or ToConstant.
	ErrNoStrategy = errors.New("container: binding has no strategy")

	// ErrNotProvider is returned when a provider class does not implement Provider.
	ErrNotProvider = errors.New("container: class does not implement Provider")

	// ErrInvalidKey is matched by InvalidKeyError.
	ErrInvalidKey = errors.New("container: invalid key")
)

// DuplicateBindError is raised at setup time when a key is bound twice in
// the same Container.
type DuplicateBindError struct{ Key any }

func (e *DuplicateBindError) Error() string {
	// Example: container: duplicate bind key="db_name"
	return "container: duplicate bind key=" + formatKey(e.Key)
}

func (e *DuplicateBindError) Is(target error) bool { return target == ErrDuplicateBind }

// NotBoundError is returned when a key has no binding anywhere in the
// container chain.
type NotBoundError struct{ Key any }

func (e *NotBoundError) Error() string {
	// Example: container: key "db_name" not bound
	return "container: key " + formatKey(e.Key) + " not bound"
}

func (e *NotBoundError) Is(target error) bool { return target == ErrNotBound }

// WrongTypeError is returned by a Declaration setter when the resolved
// dependency cannot be assigned to the setter's parameter type.
type WrongTypeError struct {
	Key  any
	Want string
	Got  string
}

func (e *WrongTypeError) Error() string {
	return "container: dependency " + formatKey(e.Key) + " has wrong type (want " + e.Want + ", got " + e.Got + ")"
}

// InvalidKeyError is raised when Bind is called with a nil or
// non-comparable key.
type InvalidKeyError struct{ Key any }

func (e *InvalidKeyError) Error() string {
	return "container: invalid key " + formatKey(e.Key) + " (keys must be non-nil and comparable)"
}

func (e *InvalidKeyError) Is(target error) bool { return target == ErrInvalidKey }

// BindingError attaches a key to a setup or strategy failure.
type BindingError struct {
	Key any
	Err error
}

func (e *BindingError) Error() string {
	return e.Err.Error() + " (key=" + formatKey(e.Key) + ")"
}

func (e *BindingError) Unwrap() error { return e.Err }

// IsNotBound reports whether err is, or wraps, a NotBoundError.
func IsNotBound(err error) bool {
	return errors.Is(err, ErrNotBound)
}

func formatKey(key any) string {
	switch k := key.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", k)
	case reflect.Type:
		return k.String()
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprintf("%v", k)
	}
}
