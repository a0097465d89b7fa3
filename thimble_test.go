package thimble_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/thimble"
)

type Dependency interface {
	Name() string
}

type concreteDependency struct {
	name string
}

func (d *concreteDependency) Name() string {
	return d.name
}

type Service interface {
	Dependency() Dependency
}

type concreteService struct {
	dependency Dependency
}

func newConcreteService(d Dependency) *concreteService {
	return &concreteService{dependency: d}
}

func (s *concreteService) Dependency() Dependency {
	return s.dependency
}

func asError(t *testing.T, err error) *thimble.Error {
	t.Helper()

	var e *thimble.Error
	require.ErrorAs(t, err, &e)
	return e
}

func TestEndToEnd_ConstructorInjection(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	dependency := &concreteDependency{name: "dep"}

	require.NoError(t, thimble.BindValue[Dependency](cfg, dependency))
	require.NoError(t, thimble.Describe[*concreteService](cfg, thimble.Constructor(newConcreteService)))
	require.NoError(t, thimble.Bind[Service, *concreteService](cfg))

	c, err := cfg.Build()
	require.NoError(t, err)

	svc, err := thimble.Get[Service](c)
	require.NoError(t, err)
	require.IsType(t, &concreteService{}, svc)

	resolved, err := thimble.Get[Dependency](c)
	require.NoError(t, err)

	assert.Same(t, resolved, svc.Dependency())
	assert.Same(t, dependency, svc.Dependency())
}

func TestBindInstance_ResolvesExactIdentity(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	dependency := &concreteDependency{name: "dep"}
	require.NoError(t, thimble.BindValue[Dependency](cfg, dependency))

	c, err := cfg.Build()
	require.NoError(t, err)

	opt, err := c.Get(thimble.RefOf[Dependency]())
	require.NoError(t, err)
	v, ok := opt.Get()
	require.True(t, ok)
	assert.Same(t, dependency, v)

	opt, err = c.Get(thimble.RefOf[*concreteDependency]())
	require.NoError(t, err)
	assert.False(t, opt.Present())
}

func TestQualifier_ComparesByValue(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	chosen := &concreteDependency{name: "chosen"}
	skywalker := &concreteDependency{name: "skywalker"}

	require.NoError(t, thimble.BindValue[Dependency](cfg, chosen, thimble.Named("ChosenOne")))
	require.NoError(t, thimble.BindValue[Dependency](cfg, skywalker, thimble.Named("Skywalker")))

	c, err := cfg.Build()
	require.NoError(t, err)

	name := "Chosen" + "One"
	got, err := thimble.Get[Dependency](c, thimble.Named(name))
	require.NoError(t, err)
	assert.Same(t, chosen, got)

	got, err = thimble.Get[Dependency](c, thimble.Named("Skywalker"))
	require.NoError(t, err)
	assert.Same(t, skywalker, got)

	assert.False(t, thimble.Has[Dependency](c))
	assert.True(t, thimble.Has[Dependency](c, thimble.Named("ChosenOne")))
}

func TestBind_MultipleQualifiersBindEachIdentity(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	dependency := &concreteDependency{name: "both"}
	require.NoError(
		t, thimble.BindValue[Dependency](cfg, dependency, thimble.Named("a"), thimble.Named("b")),
	)

	c, err := cfg.Build()
	require.NoError(t, err)

	a := thimble.MustGet[Dependency](c, thimble.Named("a"))
	b := thimble.MustGet[Dependency](c, thimble.Named("b"))
	assert.Same(t, a, b)
	assert.False(t, thimble.Has[Dependency](c))
}

func TestBind_Duplicate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		first  []thimble.Marker
		second []thimble.Marker
	}{
		{name: "unqualified", first: nil, second: nil},
		{
			name:   "same qualifier",
			first:  []thimble.Marker{thimble.Named("x")},
			second: []thimble.Marker{thimble.Named("x")},
		},
		{
			name:   "overlapping qualifiers",
			first:  []thimble.Marker{thimble.Named("x")},
			second: []thimble.Marker{thimble.Named("y"), thimble.Named("x")},
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				t.Parallel()

				cfg := thimble.NewConfig()
				require.NoError(t, thimble.BindValue[Dependency](cfg, &concreteDependency{}, tt.first...))

				err := thimble.BindValue[Dependency](cfg, &concreteDependency{}, tt.second...)
				require.Error(t, err)
				assert.True(t, thimble.IsDuplicateBinding(err))
			},
		)
	}
}

func TestBind_DuplicateIsAtomic(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	require.NoError(t, thimble.BindValue[Dependency](cfg, &concreteDependency{}, thimble.Named("x")))

	err := thimble.BindValue[Dependency](cfg, &concreteDependency{}, thimble.Named("y"), thimble.Named("x"))
	require.True(t, thimble.IsDuplicateBinding(err))

	assert.False(t, cfg.Has(thimble.QualifiedRefOf[Dependency](thimble.Named("y")).Component))
}

func TestBuild_DependencyNotFound(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	require.NoError(t, thimble.Describe[*concreteService](cfg, thimble.Constructor(newConcreteService)))
	require.NoError(t, thimble.Bind[Service, *concreteService](cfg))

	_, err := cfg.Build()
	require.True(t, thimble.IsDependencyNotFound(err))

	e := asError(t, err)
	assert.Equal(t, thimble.ComponentOf[Service](), e.Component)
	assert.Equal(t, thimble.ComponentOf[Dependency](), e.Dependency)
}

type chainTop struct {
	Middle *chainMiddle `inject:""`
}

type chainMiddle struct {
	Dependency Dependency `inject:""`
}

func TestBuild_TransitiveDependencyNotFound(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	require.NoError(t, thimble.Bind[*chainTop, *chainTop](cfg))
	require.NoError(t, thimble.Bind[*chainMiddle, *chainMiddle](cfg))

	_, err := cfg.Build()
	require.True(t, thimble.IsDependencyNotFound(err))

	e := asError(t, err)
	assert.Equal(t, thimble.ComponentOf[*chainMiddle](), e.Component)
	assert.Equal(t, thimble.ComponentOf[Dependency](), e.Dependency)
	assert.Contains(t, err.Error(), "chainMiddle")
}

func TestBuild_QualifiedDependencyNotFound(t *testing.T) {
	t.Parallel()

	type consumer struct {
		Dependency Dependency `inject:"named=primary"`
	}

	cfg := thimble.NewConfig()
	require.NoError(t, thimble.BindValue[Dependency](cfg, &concreteDependency{}))
	require.NoError(t, thimble.Bind[*consumer, *consumer](cfg))

	_, err := cfg.Build()
	require.True(t, thimble.IsDependencyNotFound(err))
	assert.Equal(t, thimble.QualifiedRefOf[Dependency](thimble.Named("primary")).Component, asError(t, err).Dependency)
}

type cycleA struct{ b *cycleB }

type cycleB struct{ a *cycleA }

type cycleC struct{ a *cycleA }

type cycleB3 struct{ c *cycleC }

type cycleA3 struct{ b *cycleB3 }

type cycleC3 struct{ a *cycleA3 }

func TestBuild_CyclicDependency(t *testing.T) {
	t.Parallel()

	t.Run(
		"two nodes", func(t *testing.T) {
			t.Parallel()

			cfg := thimble.NewConfig()
			require.NoError(
				t, thimble.Describe[*cycleA](cfg, thimble.Constructor(func(b *cycleB) *cycleA { return &cycleA{b: b} })),
			)
			require.NoError(
				t, thimble.Describe[*cycleB](cfg, thimble.Constructor(func(a *cycleA) *cycleB { return &cycleB{a: a} })),
			)
			require.NoError(t, thimble.Bind[*cycleA, *cycleA](cfg))
			require.NoError(t, thimble.Bind[*cycleB, *cycleB](cfg))

			_, err := cfg.Build()
			require.True(t, thimble.IsCyclicDependency(err))
			assert.Equal(
				t,
				[]thimble.Component{thimble.ComponentOf[*cycleA](), thimble.ComponentOf[*cycleB]()},
				asError(t, err).Cycle,
			)
		},
	)

	t.Run(
		"three nodes", func(t *testing.T) {
			t.Parallel()

			cfg := thimble.NewConfig()
			require.NoError(
				t, thimble.Describe[*cycleA3](cfg, thimble.Constructor(func(b *cycleB3) *cycleA3 { return &cycleA3{b: b} })),
			)
			require.NoError(
				t, thimble.Describe[*cycleB3](cfg, thimble.Constructor(func(c *cycleC3) *cycleB3 { return nil })),
			)
			require.NoError(
				t, thimble.Describe[*cycleC3](cfg, thimble.Constructor(func(a *cycleA3) *cycleC3 { return &cycleC3{a: a} })),
			)
			require.NoError(t, thimble.Bind[*cycleA3, *cycleA3](cfg))
			require.NoError(t, thimble.Bind[*cycleB3, *cycleB3](cfg))
			require.NoError(t, thimble.Bind[*cycleC3, *cycleC3](cfg))

			_, err := cfg.Build()
			require.True(t, thimble.IsCyclicDependency(err))
			assert.Equal(
				t,
				[]thimble.Component{
					thimble.ComponentOf[*cycleA3](),
					thimble.ComponentOf[*cycleB3](),
					thimble.ComponentOf[*cycleC3](),
				},
				asError(t, err).Cycle,
			)
		},
	)

	t.Run(
		"lead-in is not part of the cycle", func(t *testing.T) {
			t.Parallel()

			cfg := thimble.NewConfig()
			require.NoError(
				t, thimble.Describe[*cycleC](cfg, thimble.Constructor(func(a *cycleA) *cycleC { return &cycleC{a: a} })),
			)
			require.NoError(
				t, thimble.Describe[*cycleA](cfg, thimble.Constructor(func(b *cycleB) *cycleA { return &cycleA{b: b} })),
			)
			require.NoError(
				t, thimble.Describe[*cycleB](cfg, thimble.Constructor(func(a *cycleA) *cycleB { return &cycleB{a: a} })),
			)
			require.NoError(t, thimble.Bind[*cycleC, *cycleC](cfg))
			require.NoError(t, thimble.Bind[*cycleA, *cycleA](cfg))
			require.NoError(t, thimble.Bind[*cycleB, *cycleB](cfg))

			_, err := cfg.Build()
			require.True(t, thimble.IsCyclicDependency(err))
			assert.ElementsMatch(
				t,
				[]thimble.Component{thimble.ComponentOf[*cycleA](), thimble.ComponentOf[*cycleB]()},
				asError(t, err).Cycle,
			)
		},
	)
}

type lazyA struct {
	B *lazyB `inject:""`
}

type lazyB struct {
	A thimble.Lazy[*lazyA] `inject:""`
}

func TestBuild_LazyEdgeBreaksCycle(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	require.NoError(t, thimble.Bind[*lazyA, *lazyA](cfg))
	require.NoError(t, thimble.Bind[*lazyB, *lazyB](cfg))

	c, err := cfg.Build()
	require.NoError(t, err)

	a, err := thimble.Get[*lazyA](c)
	require.NoError(t, err)
	require.NotNil(t, a.B)

	again, err := a.B.A.Get()
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.NotSame(t, a, again)
	assert.NotNil(t, again.B)
}

func TestBuild_LazyEdgeStillRequiresBinding(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	require.NoError(t, thimble.Bind[*lazyB, *lazyB](cfg))

	_, err := cfg.Build()
	require.True(t, thimble.IsDependencyNotFound(err))
	assert.Equal(t, thimble.ComponentOf[*lazyA](), asError(t, err).Dependency)
}

func TestRefFor_Lazy(t *testing.T) {
	t.Parallel()

	ref := thimble.RefOf[thimble.Lazy[Dependency]]()
	assert.Equal(t, thimble.ContainerLazy, ref.Container)
	assert.Equal(t, thimble.ComponentOf[Dependency](), ref.Component)
	assert.Equal(t, "Lazy[github.com/danpasecinic/thimble_test.Dependency]", ref.String())

	plain := thimble.RefOf[Dependency]()
	assert.Equal(t, thimble.ContainerNone, plain.Container)
	assert.False(t, plain.IsContainer())
}

func TestContainer_Get(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	dependency := &concreteDependency{name: "dep"}
	require.NoError(t, thimble.BindValue[Dependency](cfg, dependency))

	c, err := cfg.Build()
	require.NoError(t, err)

	t.Run(
		"lazy bound yields supplier", func(t *testing.T) {
			opt, err := c.Get(thimble.RefOf[thimble.Lazy[Dependency]]())
			require.NoError(t, err)

			v, ok := opt.Get()
			require.True(t, ok)
			supplier, ok := v.(thimble.Supplier)
			require.True(t, ok)

			got, err := supplier()
			require.NoError(t, err)
			assert.Same(t, dependency, got)
		},
	)

	t.Run(
		"lazy unbound is absent", func(t *testing.T) {
			opt, err := c.Get(thimble.RefOf[thimble.Lazy[Service]]())
			require.NoError(t, err)
			assert.False(t, opt.Present())
		},
	)

	t.Run(
		"unsupported container is absent", func(t *testing.T) {
			ref := thimble.Ref{
				Component: thimble.ComponentOf[Dependency](),
				Container: thimble.ContainerSlice,
			}
			opt, err := c.Get(ref)
			require.NoError(t, err)
			assert.False(t, opt.Present())
		},
	)

	t.Run(
		"unbound is absent", func(t *testing.T) {
			opt, err := c.Get(thimble.RefOf[Service]())
			require.NoError(t, err)
			assert.False(t, opt.Present())
		},
	)
}

func TestGet_Helpers(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	dependency := &concreteDependency{name: "dep"}
	require.NoError(t, thimble.BindValue[Dependency](cfg, dependency))

	c, err := cfg.Build()
	require.NoError(t, err)

	_, err = thimble.Get[Service](c)
	assert.True(t, thimble.IsNotBound(err))

	_, ok := thimble.TryGet[Service](c)
	assert.False(t, ok)

	assert.False(t, thimble.GetOptional[Service](c).Present())
	assert.Same(t, dependency, thimble.GetOptional[Dependency](c).Value())

	fallback := &concreteDependency{name: "fallback"}
	assert.Same(t, fallback, thimble.GetOptional[Dependency](c, thimble.Named("other")).OrElse(fallback))

	lazy, err := thimble.GetLazy[Dependency](c)
	require.NoError(t, err)
	assert.Same(t, dependency, lazy.MustGet())

	_, err = thimble.Get[Dependency](c, thimble.Named("a"), thimble.Named("b"))
	assert.True(t, thimble.IsIllegalAnnotation(err))

	_, err = thimble.Get[Dependency](c, thimble.Singleton{})
	assert.True(t, thimble.IsIllegalAnnotation(err))

	assert.Panics(t, func() { thimble.MustGet[Service](c) })
}

func TestLazy_ZeroValue(t *testing.T) {
	t.Parallel()

	var lazy thimble.Lazy[Dependency]
	_, err := lazy.Get()
	assert.True(t, thimble.IsNotBound(err))
}

func TestGet_ProviderErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	cfg := thimble.NewConfig()
	require.NoError(
		t, thimble.BindProvider[Dependency](
			cfg, thimble.ProviderFunc(
				func(thimble.Context) (any, error) {
					return nil, boom
				},
			),
		),
	)

	c, err := cfg.Build()
	require.NoError(t, err)

	_, err = thimble.Get[Dependency](c)
	require.ErrorIs(t, err, boom)
	assert.True(t, thimble.IsResolutionFailed(err))

	_, err = c.Get(thimble.RefOf[Dependency]())
	assert.ErrorIs(t, err, boom)
}

func TestBuild_SnapshotIgnoresLaterBindings(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	c, err := cfg.Build()
	require.NoError(t, err)

	require.NoError(t, thimble.BindValue[Dependency](cfg, &concreteDependency{}))

	assert.False(t, thimble.Has[Dependency](c))
	assert.Equal(t, 0, c.Size())
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	cfg := thimble.NewConfig()
	require.NoError(t, thimble.BindValue[Dependency](cfg, &concreteDependency{}, thimble.Named("x")))
	err := thimble.BindValue[Dependency](cfg, &concreteDependency{}, thimble.Named("x"))

	assert.Equal(
		t,
		`[DUPLICATE_BINDING] component="github.com/danpasecinic/thimble_test.Dependency@Named(\"x\")": `+
			`component github.com/danpasecinic/thimble_test.Dependency@Named("x") already bound`,
		err.Error(),
	)
	assert.Equal(t, "DUPLICATE_BINDING", thimble.ErrCodeDuplicateBinding.String())
	assert.Equal(t, "UNKNOWN(999)", thimble.ErrorCode(999).String())
}
