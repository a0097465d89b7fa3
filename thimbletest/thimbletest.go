// Package thimbletest wraps a thimble.Config for tests: failures call
// Fatalf and container logs go to the test log.
package thimbletest

import (
	"go.uber.org/zap/zaptest"

	"github.com/danpasecinic/thimble"
)

type TB interface {
	zaptest.TestingT
	Helper()
	Fatalf(format string, args ...any)
}

type TestConfig struct {
	*thimble.Config
	tb TB
}

type TestContainer struct {
	*thimble.Container
	tb TB
}

func New(tb TB, opts ...thimble.Option) *TestConfig {
	tb.Helper()

	opts = append([]thimble.Option{thimble.WithLogger(zaptest.NewLogger(tb))}, opts...)
	return &TestConfig{
		Config: thimble.NewConfig(opts...),
		tb:     tb,
	}
}

func (tc *TestConfig) RequireBuild() *TestContainer {
	tc.tb.Helper()

	c, err := tc.Build()
	if err != nil {
		tc.tb.Fatalf("failed to build container: %v", err)
	}
	return &TestContainer{Container: c, tb: tc.tb}
}

func (tc *TestConfig) RequireApply(modules ...*thimble.Module) {
	tc.tb.Helper()

	if err := tc.Apply(modules...); err != nil {
		tc.tb.Fatalf("failed to apply modules: %v", err)
	}
}

func MustBind[I, Impl any](tc *TestConfig, markers ...thimble.Marker) {
	tc.tb.Helper()

	if err := thimble.Bind[I, Impl](tc.Config, markers...); err != nil {
		tc.tb.Fatalf("failed to bind %s: %v", thimble.ComponentOf[I](), err)
	}
}

func MustBindValue[T any](tc *TestConfig, value T, markers ...thimble.Marker) {
	tc.tb.Helper()

	if err := thimble.BindValue(tc.Config, value, markers...); err != nil {
		tc.tb.Fatalf("failed to bind value %s: %v", thimble.ComponentOf[T](), err)
	}
}

func MustDescribe[T any](tc *TestConfig, opts ...thimble.DescribeOption) {
	tc.tb.Helper()

	if err := thimble.Describe[T](tc.Config, opts...); err != nil {
		tc.tb.Fatalf("failed to describe %s: %v", thimble.ComponentOf[T](), err)
	}
}

func MustGet[T any](tc *TestContainer, qualifier ...thimble.Marker) T {
	tc.tb.Helper()

	v, err := thimble.Get[T](tc.Container, qualifier...)
	if err != nil {
		tc.tb.Fatalf("failed to get %s: %v", thimble.ComponentOf[T](), err)
	}
	return v
}

func AssertHas[T any](tc *TestContainer, qualifier ...thimble.Marker) {
	tc.tb.Helper()

	if !thimble.Has[T](tc.Container, qualifier...) {
		tc.tb.Fatalf("expected container to have %s", thimble.ComponentOf[T]())
	}
}

func AssertNotHas[T any](tc *TestContainer, qualifier ...thimble.Marker) {
	tc.tb.Helper()

	if thimble.Has[T](tc.Container, qualifier...) {
		tc.tb.Fatalf("expected container to not have %s", thimble.ComponentOf[T]())
	}
}
