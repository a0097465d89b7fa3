package thimble

import (
	"fmt"
	"reflect"
)

// Supplier is what a Container returns for a lazy Ref: each call resolves the
// component again through its provider.
type Supplier func() (any, error)

// Lazy defers resolution of T until Get is called. Declaring a dependency as
// Lazy[T] also exempts that edge from cycle detection.
type Lazy[T any] struct {
	get func() (any, error)
}

func (l Lazy[T]) Get() (T, error) {
	var zero T
	if l.get == nil {
		return zero, errNotBound(Component{Type: reflect.TypeFor[T]()})
	}

	v, err := l.get()
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errResolutionFailed(
			Component{Type: reflect.TypeFor[T]()},
			fmt.Errorf("supplier returned %T", v),
		)
	}
	return typed, nil
}

func (l Lazy[T]) MustGet() T {
	v, err := l.Get()
	if err != nil {
		panic(err)
	}
	return v
}

func (Lazy[T]) lazyTarget() reflect.Type {
	return reflect.TypeFor[T]()
}

func (Lazy[T]) lazyWrap(get func() (any, error)) reflect.Value {
	return reflect.ValueOf(Lazy[T]{get: get})
}

type lazyType interface {
	lazyTarget() reflect.Type
	lazyWrap(get func() (any, error)) reflect.Value
}

var lazyInterface = reflect.TypeFor[lazyType]()

func lazyTarget(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Struct || !t.Implements(lazyInterface) {
		return nil, false
	}
	return reflect.Zero(t).Interface().(lazyType).lazyTarget(), true
}

// wrapLazy builds a value of the Lazy[T] type t around s.
func wrapLazy(t reflect.Type, s Supplier) reflect.Value {
	return reflect.Zero(t).Interface().(lazyType).lazyWrap(s)
}
