package thimble

// Context resolves references. A Container is a Context; providers receive
// the Container they are resolved from.
type Context interface {
	Get(ref Ref) (Optional[any], error)
}

// Provider builds instances of a bound component. Dependencies lists the
// references Get will request; Build uses it to check the graph.
type Provider interface {
	Get(c Context) (any, error)
	Dependencies() []Ref
}

type instanceProvider struct {
	value any
}

func (p instanceProvider) Get(Context) (any, error) {
	return p.value, nil
}

func (instanceProvider) Dependencies() []Ref {
	return nil
}

func (instanceProvider) instantiated() bool {
	return true
}

type funcProvider struct {
	fn   func(c Context) (any, error)
	deps []Ref
}

// ProviderFunc adapts fn to a Provider that declares deps.
func ProviderFunc(fn func(c Context) (any, error), deps ...Ref) Provider {
	return &funcProvider{fn: fn, deps: deps}
}

func (p *funcProvider) Get(c Context) (any, error) {
	return p.fn(c)
}

func (p *funcProvider) Dependencies() []Ref {
	return p.deps
}

// instantiation is implemented by providers that can tell whether they hold
// an instance already.
type instantiation interface {
	instantiated() bool
}

func isInstantiated(p Provider) bool {
	i, ok := p.(instantiation)
	return ok && i.instantiated()
}
