package thimble

import (
	"fmt"
	"reflect"

	reflectx "github.com/danpasecinic/thimble/internal/reflect"
)

// SourceTag holds binding options on the fields of a configuration struct
// passed to Config.From.
const SourceTag = "thimble"

// Types maps names used by declarative sources to Go types.
type Types struct {
	byName map[string]reflect.Type
}

func NewTypes() *Types {
	return &Types{byName: make(map[string]reflect.Type)}
}

func (t *Types) Register(name string, typ reflect.Type) {
	t.byName[name] = typ
}

func (t *Types) Lookup(name string) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	typ, ok := t.byName[name]
	return typ, ok
}

func RegisterType[T any](types *Types, name string) {
	types.Register(name, reflect.TypeFor[T]())
}

type declaration struct {
	markers []Marker
	static  bool
	export  reflect.Type
}

func (cfg *Config) parseDeclaration(c Component, tag string, types *Types) (declaration, error) {
	var decl declaration
	for _, entry := range reflectx.ParseTag(tag) {
		switch entry.Key {
		case "static":
			decl.static = true
		case "export":
			typ, ok := types.Lookup(entry.Value)
			if !ok {
				return decl, errInvalidSource(fmt.Sprintf("unknown export type %q", entry.Value), nil)
			}
			decl.export = typ
		default:
			m, err := cfg.tagMarker(c, entry)
			if err != nil {
				return decl, err
			}
			decl.markers = append(decl.markers, m)
		}
	}
	return decl, nil
}

// From binds every exported field of the struct obj. A field holding a
// non-zero value becomes an instance binding; a zero field becomes a class
// binding with the field's type as implementation. The thimble tag takes
// markers plus "static" and "export=<name>", which binds under a type from
// types instead of the field's type. Fields tagged "-" are skipped.
func (cfg *Config) From(obj any, types *Types) error {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errInvalidSource(fmt.Sprintf("expected a struct, got %T", obj), nil)
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag := f.Tag.Get(SourceTag)
		if tag == "-" {
			continue
		}

		decl, err := cfg.parseDeclaration(Component{Type: f.Type}, tag, types)
		if err != nil {
			return errInvalidSource("field "+f.Name, err)
		}

		exported := f.Type
		if decl.export != nil {
			exported = decl.export
		}

		fv := v.Field(i)
		if !fv.IsZero() {
			err = cfg.bindInstance(exported, fv.Interface(), decl.markers, decl.static)
		} else {
			err = cfg.bindComponent(exported, f.Type, decl.markers, decl.static)
		}
		if err != nil {
			return errInvalidSource("field "+f.Name, err)
		}
	}
	return nil
}
