package reflect

import (
	"reflect"
	"slices"
)

// Level is one struct of an embedding hierarchy. Index is the field path from
// the root struct; the root has an empty Index.
type Level struct {
	Type     reflect.Type
	Index    []int
	Settable bool
}

// Embeds reports whether l is more derived than other, i.e. other is reached
// from l through one or more embedded fields.
func (l Level) Embeds(other Level) bool {
	return len(l.Index) < len(other.Index) && slices.Equal(l.Index, other.Index[:len(l.Index)])
}

// Levels walks the embedded structs of root and returns them ancestors first,
// root last. Anonymous fields carrying tagKey are injection points, not
// ancestors, and are not descended into.
func Levels(root reflect.Type, tagKey string) []Level {
	var levels []Level
	onPath := make(map[reflect.Type]bool)

	var walk func(t reflect.Type, index []int, settable bool)
	walk = func(t reflect.Type, index []int, settable bool) {
		if onPath[t] {
			return
		}
		onPath[t] = true

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}
			if _, tagged := f.Tag.Lookup(tagKey); tagged {
				continue
			}
			st, ok := StructOf(f.Type)
			if !ok {
				continue
			}
			walk(st, append(slices.Clone(index), i), settable && f.IsExported())
		}

		onPath[t] = false
		levels = append(levels, Level{Type: t, Index: index, Settable: settable})
	}

	walk(root, nil, true)
	return levels
}

// Field is a struct field located relative to the root of a hierarchy.
type Field struct {
	reflect.StructField
	Path []int
}

// TaggedFields returns the fields declared directly on l that carry tagKey,
// in declaration order.
func TaggedFields(l Level, tagKey string) []Field {
	var fields []Field
	for i := 0; i < l.Type.NumField(); i++ {
		f := l.Type.Field(i)
		if _, ok := f.Tag.Lookup(tagKey); !ok {
			continue
		}
		fields = append(fields, Field{StructField: f, Path: append(slices.Clone(l.Index), i)})
	}
	return fields
}

// FieldByName finds a field declared directly on l.
func FieldByName(l Level, name string) (Field, bool) {
	for i := 0; i < l.Type.NumField(); i++ {
		f := l.Type.Field(i)
		if f.Name == name {
			return Field{StructField: f, Path: append(slices.Clone(l.Index), i)}, true
		}
	}
	return Field{}, false
}

// FieldByPath follows path from the addressable struct v, allocating nil
// embedded pointers on the way.
func FieldByPath(v reflect.Value, path []int) reflect.Value {
	for _, i := range path {
		v = deref(v)
		v = v.Field(i)
	}
	return v
}

// LevelPointer returns a pointer to the level struct found at path from the
// addressable struct v.
func LevelPointer(v reflect.Value, path []int) reflect.Value {
	v = FieldByPath(v, path)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return v
	}
	return v.Addr()
}

func deref(v reflect.Value) reflect.Value {
	if v.Kind() != reflect.Ptr {
		return v
	}
	if v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}
	return v.Elem()
}
