package thimble

import (
	"fmt"
	"reflect"
)

func lookupRef[T any](qualifiers []Marker) (Ref, error) {
	ref := RefOf[T]()
	switch len(qualifiers) {
	case 0:
		return ref, nil
	case 1:
		if markerKind(qualifiers[0]) != MarkerQualifier {
			return Ref{}, errIllegalAnnotation(ref.Component, qualifiers, "not a qualifier")
		}
		ref.Qualifier = qualifiers[0]
		return ref, nil
	default:
		return Ref{}, errIllegalAnnotation(ref.Component, qualifiers, "more than one qualifier")
	}
}

// Get resolves T, optionally qualified, from c. Requesting Lazy[T] returns a
// supplier without resolving T.
func Get[T any](c Context, qualifier ...Marker) (T, error) {
	var zero T

	ref, err := lookupRef[T](qualifier)
	if err != nil {
		return zero, err
	}

	opt, err := c.Get(ref)
	if err != nil {
		return zero, errResolutionFailed(ref.Component, err)
	}

	v, ok := opt.Get()
	if !ok {
		return zero, errNotBound(ref.Component)
	}

	if ref.Container == ContainerLazy {
		return wrapLazy(reflect.TypeFor[T](), v.(Supplier)).Interface().(T), nil
	}
	if v == nil {
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errResolutionFailed(ref.Component, fmt.Errorf("provider returned %T", v))
	}
	return typed, nil
}

func MustGet[T any](c Context, qualifier ...Marker) T {
	v, err := Get[T](c, qualifier...)
	if err != nil {
		panic(err)
	}
	return v
}

func GetLazy[T any](c Context, qualifier ...Marker) (Lazy[T], error) {
	return Get[Lazy[T]](c, qualifier...)
}

func TryGet[T any](c Context, qualifier ...Marker) (T, bool) {
	v, err := Get[T](c, qualifier...)
	return v, err == nil
}

func Has[T any](c *Container, qualifier ...Marker) bool {
	ref, err := lookupRef[T](qualifier)
	return err == nil && c.Has(ref.Component)
}

type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// GetOptional resolves T when it is bound. Unbound components and failed
// resolutions are both absent.
func GetOptional[T any](c Context, qualifier ...Marker) Optional[T] {
	v, err := Get[T](c, qualifier...)
	if err != nil {
		return None[T]()
	}
	return Some(v)
}
