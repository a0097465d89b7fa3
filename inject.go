package thimble

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/pkg/errors"

	reflectx "github.com/danpasecinic/thimble/internal/reflect"
)

// TagKey marks injected struct fields. The tag body is a marker list such as
// `inject:"named=primary"`.
const TagKey = "inject"

type fieldPoint struct {
	name string
	path []int
	typ  reflect.Type
	ref  Ref
}

type methodPoint struct {
	name      string
	level     []int
	params    []reflect.Type
	refs      []Ref
	withError bool
}

// injectionProvider builds an implementation type: constructor first, then
// fields, then methods, ancestors before the types embedding them.
type injectionProvider struct {
	impl       reflect.Type
	ctor       reflect.Value
	ctorError  bool
	ctorParams []reflect.Type
	ctorRefs   []Ref
	fields     []fieldPoint
	methods    []methodPoint
}

type methodCandidate struct {
	level reflectx.Level
	decl  methodDecl
}

func (cfg *Config) newInjection(impl reflect.Type) (*injectionProvider, error) {
	c := Component{Type: impl}
	desc := cfg.descriptions[descriptionKey(impl)]

	if reflectx.IsAbstract(impl) || (desc != nil && desc.abstract) {
		return nil, errIllegalComponent(c, ErrAbstractType)
	}

	p := &injectionProvider{impl: impl}
	if err := cfg.extractConstructor(p, desc); err != nil {
		return nil, err
	}

	st, isStruct := reflectx.StructOf(impl)
	if !isStruct {
		if desc != nil && len(desc.fields) > 0 {
			return nil, errIllegalComponent(c, errors.Wrapf(ErrFieldNotFound, "%s is not a struct", impl))
		}
		if desc != nil && len(desc.methods) > 0 {
			return nil, errIllegalComponent(c, errors.Wrapf(ErrMethodNotFound, "%s is not a struct", impl))
		}
		return p, nil
	}

	levels := reflectx.Levels(st, TagKey)
	for _, level := range levels {
		if err := cfg.extractFields(p, level); err != nil {
			return nil, err
		}
	}
	if err := cfg.extractMethods(p, levels); err != nil {
		return nil, err
	}

	return p, nil
}

func (cfg *Config) extractConstructor(p *injectionProvider, desc *description) error {
	c := Component{Type: p.impl}

	var decls []constructorDecl
	if desc != nil {
		decls = desc.constructors
	}

	switch len(decls) {
	case 0:
		if _, ok := reflectx.StructOf(p.impl); !ok {
			return errIllegalComponent(c, ErrNoConstructor)
		}
		return nil
	case 1:
	default:
		return errIllegalComponent(c, ErrMultipleConstructors)
	}

	decl := decls[0]
	fn := reflect.ValueOf(decl.fn)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return errIllegalComponent(c, errors.Wrapf(ErrInvalidConstructor, "%T is not a function", decl.fn))
	}

	ft := fn.Type()
	switch {
	case ft.IsVariadic():
		return errIllegalComponent(c, errors.Wrap(ErrInvalidConstructor, "variadic constructor"))
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && reflectx.ReturnsError(ft):
		p.ctorError = true
	default:
		return errIllegalComponent(c, errors.Wrapf(ErrInvalidConstructor, "%s must return T or (T, error)", ft))
	}

	if !ft.Out(0).AssignableTo(p.impl) {
		return errIllegalComponent(c, errors.Wrapf(ErrInvalidConstructor, "returns %s", ft.Out(0)))
	}

	p.ctor = fn
	p.ctorParams = reflectx.Params(ft, 0)
	refs, err := cfg.paramRefs(c, p.ctorParams, decl.args)
	if err != nil {
		return err
	}
	p.ctorRefs = refs
	return nil
}

func (cfg *Config) extractFields(p *injectionProvider, level reflectx.Level) error {
	c := Component{Type: p.impl}
	desc := cfg.descriptions[level.Type]

	var fields []reflectx.Field
	markers := make(map[string][]Marker)

	for _, f := range reflectx.TaggedFields(level, TagKey) {
		tagged, err := cfg.parseMarkers(c, f.Tag.Get(TagKey))
		if err != nil {
			return err
		}
		fields = append(fields, f)
		markers[f.Name] = tagged
	}

	if desc != nil {
		for _, decl := range desc.fields {
			if _, seen := markers[decl.name]; !seen {
				f, ok := reflectx.FieldByName(level, decl.name)
				if !ok {
					return errIllegalComponent(c, errors.Wrapf(ErrFieldNotFound, "%s.%s", level.Type, decl.name))
				}
				fields = append(fields, f)
			}
			markers[decl.name] = append(markers[decl.name], decl.markers...)
		}
	}

	for _, f := range fields {
		if !f.IsExported() || !level.Settable {
			return errIllegalComponent(c, errors.Wrapf(ErrImmutableField, "%s.%s", level.Type, f.Name))
		}

		ref, err := pointRef(c, f.Type, markers[f.Name])
		if err != nil {
			return err
		}

		p.fields = append(
			p.fields, fieldPoint{
				name: f.Name,
				path: f.Path,
				typ:  f.Type,
				ref:  ref,
			},
		)
	}
	return nil
}

// extractMethods keeps a method declared on a level unless a more derived
// level on the same embedding path declares it again or lists it as
// overridden.
func (cfg *Config) extractMethods(p *injectionProvider, levels []reflectx.Level) error {
	c := Component{Type: p.impl}

	var candidates []methodCandidate
	for _, level := range levels {
		if desc := cfg.descriptions[level.Type]; desc != nil {
			for _, decl := range desc.methods {
				candidates = append(candidates, methodCandidate{level: level, decl: decl})
			}
		}
	}

	for _, cand := range candidates {
		if shadowed(cfg, cand, levels) {
			continue
		}

		if !cand.level.Settable {
			return errIllegalComponent(
				c, errors.Wrapf(ErrUnsupportedMethod, "%s.%s is reached through an unexported field", cand.level.Type, cand.decl.name),
			)
		}

		m, ok := reflect.PointerTo(cand.level.Type).MethodByName(cand.decl.name)
		if !ok {
			return errIllegalComponent(c, errors.Wrapf(ErrMethodNotFound, "%s.%s", cand.level.Type, cand.decl.name))
		}
		if m.Type.IsVariadic() {
			return errIllegalComponent(c, errors.Wrapf(ErrUnsupportedMethod, "%s.%s is variadic", cand.level.Type, cand.decl.name))
		}

		params := reflectx.Params(m.Type, 1)
		refs, err := cfg.paramRefs(c, params, cand.decl.args)
		if err != nil {
			return err
		}

		p.methods = append(
			p.methods, methodPoint{
				name:      cand.decl.name,
				level:     cand.level.Index,
				params:    params,
				refs:      refs,
				withError: reflectx.ReturnsError(m.Type),
			},
		)
	}
	return nil
}

func shadowed(cfg *Config, cand methodCandidate, levels []reflectx.Level) bool {
	for _, other := range levels {
		if !other.Embeds(cand.level) {
			continue
		}
		desc := cfg.descriptions[other.Type]
		if desc.declares(cand.decl.name) || desc.redefines(cand.decl.name) {
			return true
		}
	}
	return false
}

func (cfg *Config) paramRefs(c Component, params []reflect.Type, args []Argument) ([]Ref, error) {
	for _, a := range args {
		if a.Index < 0 || a.Index >= len(params) {
			return nil, errIllegalComponent(c, fmt.Errorf("argument index %d out of range", a.Index))
		}
	}

	refs := make([]Ref, len(params))
	for i, pt := range params {
		ref, err := pointRef(c, pt, argMarkers(args, i))
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return refs, nil
}

// pointRef builds the reference of one field or parameter. Points accept a
// single qualifier and no scope.
func pointRef(c Component, t reflect.Type, markers []Marker) (Ref, error) {
	set := classify(markers)
	if len(set.illegal) > 0 {
		return Ref{}, errIllegalAnnotation(c, set.illegal, "unrecognized markers on injection point")
	}
	if len(set.scopes) > 0 {
		return Ref{}, errIllegalAnnotation(c, set.scopes, "scope markers on injection point")
	}
	if len(set.qualifiers) > 1 {
		return Ref{}, errIllegalComponent(c, ErrMultipleQualifiers)
	}

	var qualifier Marker
	if len(set.qualifiers) == 1 {
		qualifier = set.qualifiers[0]
	}
	return RefFor(t, qualifier), nil
}

func (p *injectionProvider) Dependencies() []Ref {
	deps := slices.Clone(p.ctorRefs)
	for _, f := range p.fields {
		deps = append(deps, f.ref)
	}
	for _, m := range p.methods {
		deps = append(deps, m.refs...)
	}
	return deps
}

func (p *injectionProvider) Get(c Context) (any, error) {
	instance, err := p.construct(c)
	if err != nil {
		return nil, err
	}

	if len(p.fields) == 0 && len(p.methods) == 0 {
		return instance.Interface(), nil
	}

	root, err := p.root(instance)
	if err != nil {
		return nil, err
	}

	for _, f := range p.fields {
		v, err := resolve(c, f.typ, f.ref)
		if err != nil {
			return nil, errors.WithMessagef(err, "inject %s.%s", reflectx.ShortName(p.impl), f.name)
		}
		reflectx.FieldByPath(root, f.path).Set(v)
	}

	for _, m := range p.methods {
		args, err := resolveAll(c, m.params, m.refs)
		if err != nil {
			return nil, errors.WithMessagef(err, "inject %s.%s", reflectx.ShortName(p.impl), m.name)
		}

		out := reflectx.LevelPointer(root, m.level).MethodByName(m.name).Call(args)
		if m.withError {
			if callErr, _ := out[len(out)-1].Interface().(error); callErr != nil {
				return nil, errors.Wrapf(callErr, "call %s.%s", reflectx.ShortName(p.impl), m.name)
			}
		}
	}

	if p.impl.Kind() == reflect.Ptr {
		return instance.Interface(), nil
	}
	return root.Interface(), nil
}

func (p *injectionProvider) construct(c Context) (reflect.Value, error) {
	instance := reflect.New(p.impl).Elem()

	if !p.ctor.IsValid() {
		if p.impl.Kind() == reflect.Ptr {
			instance.Set(reflect.New(p.impl.Elem()))
		}
		return instance, nil
	}

	args, err := resolveAll(c, p.ctorParams, p.ctorRefs)
	if err != nil {
		return reflect.Value{}, errors.WithMessagef(err, "construct %s", reflectx.ShortName(p.impl))
	}

	out := p.ctor.Call(args)
	if p.ctorError {
		if ctorErr, _ := out[1].Interface().(error); ctorErr != nil {
			return reflect.Value{}, errors.Wrapf(ctorErr, "construct %s", reflectx.ShortName(p.impl))
		}
	}

	instance.Set(out[0])
	return instance, nil
}

// root returns the addressable struct that fields and methods are applied to.
func (p *injectionProvider) root(instance reflect.Value) (reflect.Value, error) {
	if p.impl.Kind() == reflect.Ptr {
		if instance.IsNil() {
			return reflect.Value{}, errors.Errorf("constructor of %s returned nil", reflectx.ShortName(p.impl))
		}
		return instance.Elem(), nil
	}
	return instance, nil
}

func resolveAll(c Context, types []reflect.Type, refs []Ref) ([]reflect.Value, error) {
	values := make([]reflect.Value, len(refs))
	for i, ref := range refs {
		v, err := resolve(c, types[i], ref)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func resolve(c Context, t reflect.Type, ref Ref) (reflect.Value, error) {
	opt, err := c.Get(ref)
	if err != nil {
		return reflect.Value{}, err
	}

	v, ok := opt.Get()
	if !ok {
		return reflect.Value{}, errNotBound(ref.Component)
	}

	if ref.Container == ContainerLazy {
		s, ok := v.(Supplier)
		if !ok {
			return reflect.Value{}, errResolutionFailed(ref.Component, errors.Errorf("expected supplier, got %T", v))
		}
		return wrapLazy(t, s), nil
	}

	if v == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, errResolutionFailed(ref.Component, errors.Errorf("%s is not assignable to %s", rv.Type(), t))
	}
	return rv, nil
}
