package thimble

import (
	"reflect"

	reflectx "github.com/danpasecinic/thimble/internal/reflect"
)

// Component identifies a binding: a declared type plus an optional qualifier.
// Qualifiers compare by value, so Named("db") from two call sites is the same
// qualifier.
type Component struct {
	Type      reflect.Type
	Qualifier Marker
}

func ComponentOf[T any]() Component {
	return Component{Type: reflect.TypeFor[T]()}
}

func (c Component) String() string {
	name := reflectx.TypeName(c.Type)
	if c.Qualifier == nil {
		return name
	}
	return name + "@" + markerString(c.Qualifier)
}

type ContainerKind uint8

const (
	ContainerNone ContainerKind = iota
	ContainerLazy
	ContainerSlice
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerNone:
		return "none"
	case ContainerLazy:
		return "lazy"
	case ContainerSlice:
		return "slice"
	default:
		return "unknown"
	}
}

// Ref is a component as requested at an injection point. A Lazy[T] request
// targets T with ContainerLazy.
type Ref struct {
	Component
	Container ContainerKind
}

func RefOf[T any]() Ref {
	return RefFor(reflect.TypeFor[T](), nil)
}

func QualifiedRefOf[T any](qualifier Marker) Ref {
	return RefFor(reflect.TypeFor[T](), qualifier)
}

func RefFor(t reflect.Type, qualifier Marker) Ref {
	if target, ok := lazyTarget(t); ok {
		return Ref{
			Component: Component{Type: target, Qualifier: qualifier},
			Container: ContainerLazy,
		}
	}
	return Ref{Component: Component{Type: t, Qualifier: qualifier}}
}

func (r Ref) IsContainer() bool {
	return r.Container != ContainerNone
}

func (r Ref) String() string {
	switch r.Container {
	case ContainerLazy:
		return "Lazy[" + r.Component.String() + "]"
	case ContainerSlice:
		return "[]" + r.Component.String()
	default:
		return r.Component.String()
	}
}
