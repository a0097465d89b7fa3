package thimble

import "github.com/danpasecinic/thimble/internal/scope"

// ScopeFactory wraps a provider with a lifecycle.
type ScopeFactory func(Provider) Provider

type singletonProvider struct {
	Provider
	memo scope.Memo[any]
}

// SingletonScope is the factory registered for Singleton.
func SingletonScope(p Provider) Provider {
	return &singletonProvider{Provider: p}
}

func (p *singletonProvider) Get(c Context) (any, error) {
	return p.memo.Get(
		func() (any, error) {
			return p.Provider.Get(c)
		},
	)
}

func (p *singletonProvider) instantiated() bool {
	_, ok := p.memo.Load()
	return ok
}

type pooledProvider struct {
	Provider
	pool *scope.Ring[any]
}

// PooledScope returns a factory whose providers build at most size instances
// and then hand them out round-robin.
func PooledScope(size int) ScopeFactory {
	return func(p Provider) Provider {
		return &pooledProvider{
			Provider: p,
			pool:     scope.NewRing[any](size),
		}
	}
}

func (p *pooledProvider) Get(c Context) (any, error) {
	return p.pool.Get(
		func() (any, error) {
			return p.Provider.Get(c)
		},
	)
}

func (p *pooledProvider) instantiated() bool {
	return p.pool.Len() > 0
}
