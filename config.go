package thimble

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/danpasecinic/thimble/internal/container"
	"github.com/danpasecinic/thimble/internal/graph"
	reflectx "github.com/danpasecinic/thimble/internal/reflect"
)

type bindingKind uint8

const (
	bindingInstance bindingKind = iota
	bindingClass
	bindingProvider
)

func (k bindingKind) String() string {
	switch k {
	case bindingInstance:
		return "instance"
	case bindingClass:
		return "class"
	default:
		return "provider"
	}
}

type binding struct {
	provider Provider
	kind     bindingKind
	impl     reflect.Type
	scope    Marker
	factory  ScopeFactory
}

// instantiate returns the binding a single container resolves through. The
// scope factory runs here, so every container keeps its own scoped instances.
func (b *binding) instantiate() *binding {
	inst := *b
	if b.factory != nil {
		inst.provider = b.factory(b.provider)
		inst.factory = nil
	}
	return &inst
}

// Config collects bindings and builds a Container from them. It is meant to
// be filled from a single goroutine; Build snapshots it, and later changes do
// not affect containers already built.
type Config struct {
	bindings     *container.Registry[Component, *binding]
	scopes       map[reflect.Type]ScopeFactory
	tags         map[string]TagMarker
	descriptions map[reflect.Type]*description
	opts         *options
}

func NewConfig(opts ...Option) *Config {
	o := &options{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Config{
		bindings: container.NewRegistry[Component, *binding](),
		scopes: map[reflect.Type]ScopeFactory{
			reflect.TypeFor[Singleton](): SingletonScope,
		},
		tags:         defaultTags(),
		descriptions: make(map[reflect.Type]*description),
		opts:         o,
	}
}

// RegisterScope associates a scope marker with the decorator applied to
// class bindings carrying it.
func (cfg *Config) RegisterScope(marker Marker, factory ScopeFactory) error {
	if markerKind(marker) != MarkerScope {
		return errIllegalAnnotation(Component{}, []Marker{marker}, "not a scope marker")
	}
	if factory == nil {
		return errIllegalAnnotation(Component{}, []Marker{marker}, "nil scope factory")
	}
	cfg.scopes[reflect.TypeOf(marker)] = factory
	cfg.opts.logger.Debug("scope registered", zap.String("scope", markerString(marker)))
	return nil
}

// RegisterTag adds a key to the struct tag grammar used by inject and
// thimble tags.
func (cfg *Config) RegisterTag(name string, marker TagMarker) {
	cfg.tags[name] = marker
}

func (cfg *Config) parseMarkers(c Component, tag string) ([]Marker, error) {
	var markers []Marker
	for _, entry := range reflectx.ParseTag(tag) {
		m, err := cfg.tagMarker(c, entry)
		if err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return markers, nil
}

func (cfg *Config) tagMarker(c Component, entry reflectx.TagEntry) (Marker, error) {
	build, ok := cfg.tags[entry.Key]
	if !ok {
		return nil, newError(
			ErrCodeIllegalAnnotation,
			fmt.Sprintf("unknown marker %q", entry.Key),
			nil,
		).WithComponent(c)
	}

	m, err := build(entry.Value)
	if err != nil {
		return nil, newError(
			ErrCodeIllegalAnnotation,
			fmt.Sprintf("invalid marker %q", entry.Key),
			err,
		).WithComponent(c)
	}
	return m, nil
}

// BindInstance binds value to t under each qualifier among markers, or to
// the unqualified identity when there is none. Scope markers have no effect
// on instances.
func (cfg *Config) BindInstance(t reflect.Type, value any, markers ...Marker) error {
	return cfg.bindInstance(t, value, markers, false)
}

func (cfg *Config) bindInstance(t reflect.Type, value any, markers []Marker, static bool) error {
	c := Component{Type: t}
	if t == nil {
		return errIllegalComponent(c, errors.New("nil type"))
	}
	if value != nil && !reflect.TypeOf(value).AssignableTo(t) {
		return errIllegalComponent(c, fmt.Errorf("%w: %T", ErrNotAssignable, value))
	}

	set := classify(markers)
	if len(set.illegal) > 0 {
		return errIllegalAnnotation(c, set.illegal, "unrecognized markers")
	}

	b := &binding{
		provider: instanceProvider{value: value},
		kind:     bindingInstance,
		impl:     reflect.TypeOf(value),
	}
	return cfg.bind(t, set.qualifiers, b, static)
}

// BindComponent binds impl, built by injection, to abstract. Without markers
// the qualifiers and scope declared with Markers on impl apply; without a
// scope marker the declared scope applies.
func (cfg *Config) BindComponent(abstract, impl reflect.Type, markers ...Marker) error {
	return cfg.bindComponent(abstract, impl, markers, false)
}

func (cfg *Config) bindComponent(abstract, impl reflect.Type, markers []Marker, static bool) error {
	c := Component{Type: abstract}
	if abstract == nil || impl == nil {
		return errIllegalComponent(c, errors.New("nil type"))
	}
	if !impl.AssignableTo(abstract) {
		return errIllegalComponent(c, fmt.Errorf("%w: %s", ErrNotAssignable, reflectx.TypeName(impl)))
	}

	declared := cfg.descriptions[descriptionKey(impl)]
	if len(markers) == 0 && declared != nil {
		markers = declared.markers
	}

	set := classify(markers)
	if len(set.illegal) > 0 {
		return errIllegalAnnotation(c, set.illegal, "unrecognized markers")
	}
	if len(set.scopes) == 0 && declared != nil {
		set.scopes = classify(declared.markers).scopes
	}
	if len(set.scopes) > 1 {
		return errIllegalAnnotation(c, set.scopes, "more than one scope")
	}

	injection, err := cfg.newInjection(impl)
	if err != nil {
		return err
	}

	b := &binding{
		provider: injection,
		kind:     bindingClass,
		impl:     impl,
	}
	if err := cfg.applyScope(c, b, set.scopes); err != nil {
		return err
	}
	return cfg.bind(abstract, set.qualifiers, b, static)
}

// BindProvider binds a custom provider to t. Scope markers wrap it like a
// class binding.
func (cfg *Config) BindProvider(t reflect.Type, p Provider, markers ...Marker) error {
	c := Component{Type: t}
	if t == nil || p == nil {
		return errIllegalComponent(c, errors.New("nil type or provider"))
	}

	set := classify(markers)
	if len(set.illegal) > 0 {
		return errIllegalAnnotation(c, set.illegal, "unrecognized markers")
	}
	if len(set.scopes) > 1 {
		return errIllegalAnnotation(c, set.scopes, "more than one scope")
	}

	b := &binding{
		provider: p,
		kind:     bindingProvider,
	}
	if err := cfg.applyScope(c, b, set.scopes); err != nil {
		return err
	}
	return cfg.bind(t, set.qualifiers, b, false)
}

func (cfg *Config) applyScope(c Component, b *binding, scopes []Marker) error {
	if len(scopes) == 0 {
		return nil
	}

	factory, ok := cfg.scopes[reflect.TypeOf(scopes[0])]
	if !ok {
		return errUnknownScope(c, scopes[0])
	}
	b.factory = factory
	b.scope = scopes[0]
	return nil
}

func (cfg *Config) bind(t reflect.Type, qualifiers []Marker, b *binding, static bool) error {
	keys := make([]Component, 0, max(1, len(qualifiers)))
	if len(qualifiers) == 0 {
		keys = append(keys, Component{Type: t})
	}
	for _, q := range qualifiers {
		keys = append(keys, Component{Type: t, Qualifier: q})
	}

	if err := cfg.bindings.RegisterAll(keys, b, static); err != nil {
		var dup *container.DuplicateError[Component]
		if errors.As(err, &dup) {
			return errDuplicateBinding(dup.Key)
		}
		return err
	}

	for _, key := range keys {
		cfg.opts.logger.Debug(
			"component bound",
			zap.Stringer("component", key),
			zap.Stringer("kind", b.kind),
			zap.Bool("static", static),
		)
		for _, hook := range cfg.opts.onBind {
			hook(key)
		}
	}
	return nil
}

func (cfg *Config) Has(c Component) bool {
	return hashable(c) && cfg.bindings.Has(c)
}

// Build checks that every dependency is bound and that no cycle runs through
// non-lazy references, then freezes the bindings into a Container. Scoped
// bindings start empty in each container built.
func (cfg *Config) Build() (*Container, error) {
	instances := make(map[*binding]*binding)
	bindings := cfg.bindings.Clone(
		func(b *binding) *binding {
			if inst, ok := instances[b]; ok {
				return inst
			}
			inst := b.instantiate()
			instances[b] = inst
			return inst
		},
	)

	g := graph.New[Component]()
	for _, key := range bindings.Keys() {
		b, _ := bindings.Get(key)
		deps := b.provider.Dependencies()

		edges := make([]graph.Edge[Component], 0, len(deps))
		for _, d := range deps {
			edges = append(
				edges, graph.Edge[Component]{
					To:       d.Component,
					Deferred: d.IsContainer(),
				},
			)
		}
		g.AddNode(key, edges)
	}

	if err := g.Check(); err != nil {
		var missing *graph.MissingError[Component]
		var cycle *graph.CycleError[Component]
		switch {
		case errors.As(err, &missing):
			return nil, errDependencyNotFound(missing.From, missing.To)
		case errors.As(err, &cycle):
			return nil, errCyclicDependency(cycle.Cycle)
		default:
			return nil, err
		}
	}

	cfg.opts.logger.Debug(
		"container built",
		zap.Int("components", bindings.Size()),
		zap.Int("statics", len(bindings.Statics())),
	)

	return &Container{
		bindings:  bindings,
		graph:     g,
		logger:    cfg.opts.logger,
		onResolve: cfg.opts.onResolve,
	}, nil
}

func BindValue[T any](cfg *Config, value T, markers ...Marker) error {
	return cfg.BindInstance(reflect.TypeFor[T](), value, markers...)
}

func Bind[I, Impl any](cfg *Config, markers ...Marker) error {
	return cfg.BindComponent(reflect.TypeFor[I](), reflect.TypeFor[Impl](), markers...)
}

func BindProvider[T any](cfg *Config, p Provider, markers ...Marker) error {
	return cfg.BindProvider(reflect.TypeFor[T](), p, markers...)
}
