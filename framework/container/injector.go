package container

import (
	"reflect"
	"unsafe"
)

// Declaration is one injectable setter discovered on a target: the key to
// resolve, whether a missing binding may be skipped, and the setter itself.
type Declaration struct {
	Key      any
	Optional bool
	Set      func(value any) error
}

// Injector discovers the injectable declarations of a freshly constructed
// instance. Declarations are applied in the order returned and must
// include those inherited from embedded structs.
type Injector interface {
	Discover(target any) ([]Declaration, error)
}

// Injectable is implemented by types that declare their own setters.
//
//	func (s *OrderService) Injections() []container.Declaration {
//	    return []container.Declaration{
//	        container.Inject("db", s.SetDB),
//	        container.Optional(container.TypeKey[Cache](), s.SetCache),
//	    }
//	}
//
// A struct embedding an Injectable inherits its declarations through method
// promotion. If the outer type declares Injections too, it must append the
// embedded type's declarations itself.
type Injectable interface {
	Injections() []Declaration
}

// MethodInjector discovers declarations through the Injectable capability.
// It is the default Injector of a Container.
type MethodInjector struct{}

// Discover implements Injector.
func (MethodInjector) Discover(target any) ([]Declaration, error) {
	if in, ok := target.(Injectable); ok {
		return in.Injections(), nil
	}
	return nil, nil
}

// Inject declares a mandatory setter for key.
func Inject[T any](key any, set func(T)) Declaration {
	return InjectE(key, func(v T) error {
		set(v)
		return nil
	})
}

// Optional declares a setter that is skipped when key is not bound.
func Optional[T any](key any, set func(T)) Declaration {
	d := Inject(key, set)
	d.Optional = true
	return d
}

// InjectE declares a mandatory setter that can fail. Its error is returned
// unchanged to the caller of Make.
func InjectE[T any](key any, set func(T) error) Declaration {
	return Declaration{
		Key: key,
		Set: func(value any) error {
			v, err := assign[T](key, value)
			if err != nil {
				return err
			}
			return set(v)
		},
	}
}

func assign[T any](key any, value any) (T, error) {
	if v, ok := value.(T); ok {
		return v, nil
	}
	var zero T
	want := reflect.TypeFor[T]()
	if value == nil && nilable(want.Kind()) {
		return zero, nil
	}
	got := "<nil>"
	if value != nil {
		got = reflect.TypeOf(value).String()
	}
	return zero, &WrongTypeError{Key: key, Want: want.String(), Got: got}
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// TableInjector is a registration table of declarations built per type,
// for types that cannot or should not implement Injectable.
//
// Discover walks embedded structs, so declarations registered for an
// embedded type are applied to every type embedding it, before the
// embedding type's own declarations.
type TableInjector struct {
	entries map[reflect.Type]func(target any) []Declaration
}

// NewTableInjector creates an empty table.
func NewTableInjector() *TableInjector {
	return &TableInjector{entries: make(map[reflect.Type]func(any) []Declaration)}
}

// Register adds the declarations of struct type T to the table. fn receives
// the *T being injected. Registering T twice replaces the first entry.
//
//	container.Register(table, func(s *Mailer) []container.Declaration {
//	    return []container.Declaration{container.Inject("smtp_host", func(h string) { s.host = h })}
//	})
func Register[T any](t *TableInjector, fn func(*T) []Declaration) *TableInjector {
	t.entries[reflect.TypeFor[T]()] = func(target any) []Declaration {
		return fn(target.(*T))
	}
	return t
}

// Discover implements Injector.
func (t *TableInjector) Discover(target any) ([]Declaration, error) {
	v := reflect.ValueOf(target)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, nil
	}
	var out []Declaration
	t.collect(v, &out)
	return out, nil
}

func (t *TableInjector) collect(ptr reflect.Value, out *[]Declaration) {
	elem := ptr.Elem()
	if elem.Kind() == reflect.Struct {
		for i := 0; i < elem.NumField(); i++ {
			field := elem.Type().Field(i)
			if !field.Anonymous {
				continue
			}
			fv := elem.Field(i)
			switch {
			case fv.Kind() == reflect.Struct:
				t.collect(reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())), out)
			case fv.Kind() == reflect.Pointer && !fv.IsNil() && fv.Type().Elem().Kind() == reflect.Struct:
				t.collect(reflect.NewAt(fv.Type().Elem(), fv.UnsafePointer()), out)
			}
		}
	}
	if fn, ok := t.entries[elem.Type()]; ok {
		*out = append(*out, fn(ptr.Interface())...)
	}
}
