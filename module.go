package thimble

import "reflect"

// Module bundles configuration steps. Applying a module runs its included
// modules first, then its descriptions, then its bindings, each in the order
// they were added.
type Module struct {
	name         string
	descriptions []func(cfg *Config) error
	steps        []func(cfg *Config) error
	submodules   []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

// Configure adds an arbitrary step, e.g. registering a scope.
func (m *Module) Configure(step func(cfg *Config) error) *Module {
	m.steps = append(m.steps, step)
	return m
}

func (m *Module) BindInstance(t reflect.Type, value any, markers ...Marker) *Module {
	return m.Configure(
		func(cfg *Config) error {
			return cfg.BindInstance(t, value, markers...)
		},
	)
}

func (m *Module) BindComponent(abstract, impl reflect.Type, markers ...Marker) *Module {
	return m.Configure(
		func(cfg *Config) error {
			return cfg.BindComponent(abstract, impl, markers...)
		},
	)
}

func (m *Module) Describe(t reflect.Type, opts ...DescribeOption) *Module {
	m.descriptions = append(
		m.descriptions, func(cfg *Config) error {
			return cfg.Describe(t, opts...)
		},
	)
	return m
}

func (m *Module) apply(cfg *Config) error {
	for _, sub := range m.submodules {
		if err := sub.apply(cfg); err != nil {
			return errModuleApplyFailed(sub.name, err)
		}
	}

	for _, describe := range m.descriptions {
		if err := describe(cfg); err != nil {
			return err
		}
	}

	for _, step := range m.steps {
		if err := step(cfg); err != nil {
			return err
		}
	}

	return nil
}

func (cfg *Config) Apply(modules ...*Module) error {
	for _, m := range modules {
		if err := m.apply(cfg); err != nil {
			return errModuleApplyFailed(m.name, err)
		}
	}
	return nil
}

func ModuleBind[I, Impl any](m *Module, markers ...Marker) *Module {
	return m.BindComponent(reflect.TypeFor[I](), reflect.TypeFor[Impl](), markers...)
}

func ModuleBindValue[T any](m *Module, value T, markers ...Marker) *Module {
	return m.BindInstance(reflect.TypeFor[T](), value, markers...)
}

func ModuleDescribe[T any](m *Module, opts ...DescribeOption) *Module {
	return m.Describe(reflect.TypeFor[T](), opts...)
}
