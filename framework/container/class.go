package container

import "reflect"

// Class describes a constructible type: its pointer type, used as the key
// when a class is bound to itself, and a zero-argument construction path
// that produces a bare (not yet injected) instance.
type Class struct {
	typ reflect.Type
	ctor func() (any, error)
}

// ClassOf returns the Class for *T, constructed with new(T).
//
//	c.BindClass(container.ClassOf[UserService]())
func ClassOf[T any]() Class {
	return Class{
		typ: reflect.TypeFor[*T](),
		ctor: func() (any, error) {
			return new(T), nil
		},
	}
}

// ClassFunc returns the Class for *T, constructed with fn. Use it when the
// zero value of T is not a usable bare instance (maps, channels, defaults).
func ClassFunc[T any](fn func() *T) Class {
	return Class{
		typ: reflect.TypeFor[*T](),
		ctor: func() (any, error) {
			return fn(), nil
		},
	}
}

// ClassFuncE is ClassFunc for constructors that can fail. The error is
// returned unchanged to the caller of Make.
func ClassFuncE[T any](fn func() (*T, error)) Class {
	return Class{
		typ: reflect.TypeFor[*T](),
		ctor: func() (any, error) {
			v, err := fn()
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Type returns the pointer type the class constructs. It is also the key
// used by BindClass and Get.
func (cl Class) Type() reflect.Type { return cl.typ }

// String implements fmt.Stringer.
func (cl Class) String() string {
	if cl.typ == nil {
		return "<nil class>"
	}
	return cl.typ.String()
}

func (cl Class) valid() bool { return cl.typ != nil && cl.ctor != nil }

func (cl Class) construct() (any, error) { return cl.ctor() }

// TypeKey returns the key under which ClassOf[T] and ClassFunc[T] are bound
// by BindClass: the reflect.Type of *T.
//
//	key := container.TypeKey[UserService]()
//	svc, err := container.Resolve[*UserService](c, key)
func TypeKey[T any]() reflect.Type {
	return reflect.TypeFor[*T]()
}
