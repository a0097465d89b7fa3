package thimble

import (
	"fmt"
	"reflect"
	"strconv"

	reflectx "github.com/danpasecinic/thimble/internal/reflect"
)

type MarkerKind uint8

const (
	MarkerUnknown MarkerKind = iota
	MarkerQualifier
	MarkerScope
)

// Marker tags a binding or an injection point. Qualifiers tell apart bindings
// of one type; scopes select a lifecycle decorator. Implementations must be
// comparable.
type Marker interface {
	MarkerKind() MarkerKind
}

// Named is the built-in qualifier.
type Named string

func (Named) MarkerKind() MarkerKind { return MarkerQualifier }

func (n Named) String() string {
	return "Named(" + strconv.Quote(string(n)) + ")"
}

// Singleton keeps the first instance for the lifetime of a Container. It is
// registered on every Config.
type Singleton struct{}

func (Singleton) MarkerKind() MarkerKind { return MarkerScope }

func (Singleton) String() string { return "Singleton" }

// Pooled selects a bounded instance pool. Register it with PooledScope.
type Pooled struct{}

func (Pooled) MarkerKind() MarkerKind { return MarkerScope }

func (Pooled) String() string { return "Pooled" }

func markerString(m Marker) string {
	if m == nil {
		return "<nil>"
	}
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return reflectx.ShortName(reflect.TypeOf(m))
}

func markerKind(m Marker) MarkerKind {
	if m == nil || !reflect.TypeOf(m).Comparable() {
		return MarkerUnknown
	}
	return m.MarkerKind()
}

// hashable reports whether c can be used as a binding key.
func hashable(c Component) bool {
	return c.Qualifier == nil || reflect.TypeOf(c.Qualifier).Comparable()
}

// markerSet splits markers into qualifiers and scopes. Anything else is
// returned as illegal.
type markerSet struct {
	qualifiers []Marker
	scopes     []Marker
	illegal    []Marker
}

func classify(markers []Marker) markerSet {
	var set markerSet
	for _, m := range markers {
		switch markerKind(m) {
		case MarkerQualifier:
			set.qualifiers = append(set.qualifiers, m)
		case MarkerScope:
			set.scopes = append(set.scopes, m)
		default:
			set.illegal = append(set.illegal, m)
		}
	}
	return set
}

// TagMarker builds a marker from the value of a struct tag entry, e.g. "db"
// for `inject:"named=db"`.
type TagMarker func(value string) (Marker, error)

func namedTag(value string) (Marker, error) {
	if value == "" {
		return nil, fmt.Errorf("named requires a value")
	}
	return Named(value), nil
}

func singletonTag(string) (Marker, error) { return Singleton{}, nil }

func pooledTag(string) (Marker, error) { return Pooled{}, nil }

func defaultTags() map[string]TagMarker {
	return map[string]TagMarker{
		"named":     namedTag,
		"singleton": singletonTag,
		"pooled":    pooledTag,
	}
}
