package thimble

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danpasecinic/thimble/internal/container"
	"github.com/danpasecinic/thimble/internal/graph"
)

// Container is the validated, read-only result of Config.Build. It is safe
// for concurrent use.
type Container struct {
	bindings  *container.Registry[Component, *binding]
	graph     *graph.Graph[Component]
	logger    *zap.Logger
	onResolve []ResolveHook
}

// Get resolves ref. A lazy ref to a bound component yields a Supplier; a
// slice ref and an unbound component yield an absent value.
func (c *Container) Get(ref Ref) (Optional[any], error) {
	if !hashable(ref.Component) {
		return None[any](), errIllegalAnnotation(
			Component{Type: ref.Type}, []Marker{ref.Qualifier}, "qualifier is not comparable",
		)
	}
	b, ok := c.bindings.Get(ref.Component)

	switch ref.Container {
	case ContainerNone:
		if !ok {
			return None[any](), nil
		}
		v, err := c.provide(ref.Component, b)
		if err != nil {
			return None[any](), err
		}
		return Some(v), nil
	case ContainerLazy:
		if !ok {
			return None[any](), nil
		}
		supplier := Supplier(
			func() (any, error) {
				return c.provide(ref.Component, b)
			},
		)
		return Some[any](supplier), nil
	default:
		return None[any](), nil
	}
}

func (c *Container) provide(component Component, b *binding) (any, error) {
	start := time.Now()
	v, err := b.provider.Get(c)
	duration := time.Since(start)

	for _, hook := range c.onResolve {
		hook(component, duration, err)
	}

	if err != nil {
		c.logger.Debug(
			"resolution failed",
			zap.Stringer("component", component),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
	return v, err
}

func (c *Container) Has(component Component) bool {
	return hashable(component) && c.bindings.Has(component)
}

func (c *Container) Size() int {
	return c.bindings.Size()
}

// Components returns the bound identities in bind order.
func (c *Container) Components() []Component {
	return c.bindings.Keys()
}

// Statics returns the components bound as static, in bind order.
func (c *Container) Statics() []Component {
	return c.bindings.Statics()
}

// InitStatics resolves every static component. Components are resolved level
// by level along their non-lazy dependencies; those on one level are resolved
// concurrently.
func (c *Container) InitStatics(ctx context.Context) error {
	groups, err := c.graph.Groups(c.Statics())
	if err != nil {
		return err
	}

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.logger.Debug(
			"initializing statics",
			zap.Int("level", group.Level),
			zap.Int("count", len(group.Nodes)),
		)

		eg, egCtx := errgroup.WithContext(ctx)
		for _, component := range group.Nodes {
			eg.Go(
				func() error {
					if err := egCtx.Err(); err != nil {
						return err
					}
					b, _ := c.bindings.Get(component)
					if _, err := c.provide(component, b); err != nil {
						return errResolutionFailed(component, err)
					}
					return nil
				},
			)
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}
	return nil
}
