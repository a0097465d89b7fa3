package reflect

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

var typeNameCache sync.Map

var errorType = reflect.TypeFor[error]()

// TypeName returns a package-qualified, stable display name for t.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if cached, ok := typeNameCache.Load(t); ok {
		return cached.(string)
	}

	name := buildTypeName(t)
	typeNameCache.Store(t, name)
	return name
}

func buildTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildTypeName(t.Elem())
	case reflect.Slice:
		return "[]" + buildTypeName(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + buildTypeName(t.Elem())
	case reflect.Map:
		return "map[" + buildTypeName(t.Key()) + "]" + buildTypeName(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildTypeName(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildTypeName(t.Elem())
		default:
			return "chan " + buildTypeName(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}

// ShortName strips the import path from a TypeName, keeping pointer and
// container prefixes.
func ShortName(t reflect.Type) string {
	s := TypeName(t)
	prefix := strings.TrimRightFunc(s, func(r rune) bool { return r != '*' && r != ']' })
	rest := s[len(prefix):]
	if idx := strings.LastIndex(rest, "/"); idx != -1 {
		rest = rest[idx+1:]
	}
	return prefix + rest
}

func IsAbstract(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

// StructOf returns the struct behind t when t is a struct or a pointer to one.
func StructOf(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}
	switch {
	case t.Kind() == reflect.Struct:
		return t, true
	case t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct:
		return t.Elem(), true
	default:
		return nil, false
	}
}

// ReturnsError reports whether the last result of fn is the error interface.
func ReturnsError(fn reflect.Type) bool {
	n := fn.NumOut()
	return n > 0 && fn.Out(n-1) == errorType
}

// Params lists the parameter types of fn, skipping the first skip entries
// (1 for method expressions, whose first parameter is the receiver).
func Params(fn reflect.Type, skip int) []reflect.Type {
	params := make([]reflect.Type, 0, fn.NumIn()-skip)
	for i := skip; i < fn.NumIn(); i++ {
		params = append(params, fn.In(i))
	}
	return params
}
