package thimble

import "go.uber.org/zap"

type Option func(*options)

type options struct {
	logger    *zap.Logger
	onResolve []ResolveHook
	onBind    []BindHook
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(o *options) {
		o.onResolve = append(o.onResolve, hook)
	}
}

func WithBindObserver(hook BindHook) Option {
	return func(o *options) {
		o.onBind = append(o.onBind, hook)
	}
}
