package thimble

import (
	"reflect"

	reflectx "github.com/danpasecinic/thimble/internal/reflect"
)

// Argument attaches markers to the parameter at Index of a constructor or
// method.
type Argument struct {
	Index   int
	Markers []Marker
}

func Arg(index int, markers ...Marker) Argument {
	return Argument{Index: index, Markers: markers}
}

type DescribeOption func(*description)

type description struct {
	constructors []constructorDecl
	fields       []fieldDecl
	methods      []methodDecl
	overrides    map[string]bool
	markers      []Marker
	abstract     bool
}

type constructorDecl struct {
	fn   any
	args []Argument
}

type fieldDecl struct {
	name    string
	markers []Marker
}

type methodDecl struct {
	name string
	args []Argument
}

// Constructor declares the function used to build the type. Its parameters
// are resolved as dependencies; it may return a trailing error.
func Constructor(fn any, args ...Argument) DescribeOption {
	return func(d *description) {
		d.constructors = append(d.constructors, constructorDecl{fn: fn, args: args})
	}
}

// Field declares an injected field of the described struct, as an
// alternative to an inject struct tag.
func Field(name string, markers ...Marker) DescribeOption {
	return func(d *description) {
		d.fields = append(d.fields, fieldDecl{name: name, markers: markers})
	}
}

// Method declares a method called after construction with its parameters
// resolved. A method declared again on an embedding type runs once, using the
// embedding type's implementation.
func Method(name string, args ...Argument) DescribeOption {
	return func(d *description) {
		d.methods = append(d.methods, methodDecl{name: name, args: args})
	}
}

// Overrides names methods the described type redefines without injection.
// Matching methods declared on embedded types are not called.
func Overrides(names ...string) DescribeOption {
	return func(d *description) {
		if d.overrides == nil {
			d.overrides = make(map[string]bool, len(names))
		}
		for _, name := range names {
			d.overrides[name] = true
		}
	}
}

// Markers declares the qualifiers and scope a type is bound with when a bind
// call passes none.
func Markers(markers ...Marker) DescribeOption {
	return func(d *description) {
		d.markers = append(d.markers, markers...)
	}
}

// Abstract forbids binding the type as an implementation.
func Abstract() DescribeOption {
	return func(d *description) {
		d.abstract = true
	}
}

func (d *description) declares(method string) bool {
	if d == nil {
		return false
	}
	for _, m := range d.methods {
		if m.name == method {
			return true
		}
	}
	return false
}

func (d *description) redefines(method string) bool {
	return d != nil && d.overrides[method]
}

// descriptionKey maps a type and a pointer to it onto the same description.
func descriptionKey(t reflect.Type) reflect.Type {
	if st, ok := reflectx.StructOf(t); ok {
		return st
	}
	return t
}

func argMarkers(args []Argument, index int) []Marker {
	var markers []Marker
	for _, a := range args {
		if a.Index == index {
			markers = append(markers, a.Markers...)
		}
	}
	return markers
}

// Describe records injection metadata for t. Describe a type, and the types
// it embeds, before binding it.
func (cfg *Config) Describe(t reflect.Type, opts ...DescribeOption) error {
	key := descriptionKey(t)
	c := Component{Type: t}

	if _, exists := cfg.descriptions[key]; exists {
		return errIllegalComponent(c, ErrAlreadyDescribed)
	}

	d := &description{}
	for _, opt := range opts {
		opt(d)
	}

	if set := classify(d.markers); len(set.illegal) > 0 {
		return errIllegalAnnotation(c, set.illegal, "unrecognized markers")
	}

	cfg.descriptions[key] = d
	return nil
}

func Describe[T any](cfg *Config, opts ...DescribeOption) error {
	return cfg.Describe(reflect.TypeFor[T](), opts...)
}
