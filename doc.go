// Package thimble is a dependency injection container with constructor,
// field and method injection, qualifiers, pluggable scopes and build-time
// graph validation.
//
// # Quick Start
//
// Bind implementations to the types they are requested as, build, resolve:
//
//	cfg := thimble.NewConfig()
//
//	thimble.Describe[*Service](cfg, thimble.Constructor(NewService))
//	thimble.Bind[Repository, *PostgresRepository](cfg, thimble.Singleton{})
//	thimble.Bind[*Service, *Service](cfg)
//
//	c, err := cfg.Build()
//	svc, err := thimble.Get[*Service](c)
//
// Build fails when a dependency is unbound or when dependencies form a cycle.
// Bind calls fail eagerly on duplicate identities, unknown scopes and types
// that cannot be injected.
//
// # Injection Points
//
// A type is built by its declared constructor, or from its zero value when it
// is a struct or a pointer to one. Fields tagged inject are then set, and
// declared methods are called with resolved arguments:
//
//	type Service struct {
//	    Cache Cache   `inject:""`
//	    Audit Auditor `inject:"named=audit"`
//	}
//
//	thimble.Describe[*Service](cfg,
//	    thimble.Field("Clock"),
//	    thimble.Method("SetLogger", thimble.Arg(0, thimble.Named("app"))),
//	)
//
// Embedded structs are ancestors: their fields and methods are injected
// before those of the embedding type. A method declared on both runs once,
// with the embedding type's implementation. Overrides names methods the
// embedding type redefines without injection; those are not called.
//
// # Qualifiers and Scopes
//
// Qualifiers are comparable markers that tell apart bindings of one type.
// Named is built in:
//
//	thimble.BindValue(cfg, primaryDB, thimble.Named("primary"))
//	db, err := thimble.Get[*DB](c, thimble.Named("primary"))
//
// Scopes decorate class bindings. Singleton is registered by default; Pooled
// needs a capacity:
//
//	cfg.RegisterScope(thimble.Pooled{}, thimble.PooledScope(4))
//	thimble.Bind[*Worker, *Worker](cfg, thimble.Pooled{})
//
// # Lazy Dependencies
//
// Lazy[T] defers resolution until Get is called. Lazy edges are not followed
// when checking for cycles:
//
//	type Node struct {
//	    Parent thimble.Lazy[*Node] `inject:""`
//	}
//
// # Declarative Sources
//
// Config.From binds the fields of a configuration struct and Config.FromYAML
// reads a bindings document. Both accept a Types catalog naming the types
// they refer to. Bindings marked static are listed by Container.Statics and
// resolved in dependency order by Container.InitStatics.
//
// # Modules
//
// Group configuration into modules:
//
//	var Storage = thimble.NewModule("storage")
//	thimble.ModuleBind[Repository, *PostgresRepository](Storage, thimble.Singleton{})
//
//	cfg.Apply(Storage)
//
// # Debug Visualization
//
//	c.PrintGraph()           // text to stdout
//	dot := c.SprintGraphDOT() // Graphviz
//	info := c.Graph()        // structured GraphInfo
//
// # Observers
//
//	cfg := thimble.NewConfig(
//	    thimble.WithLogger(logger),
//	    thimble.WithResolveObserver(func(c thimble.Component, d time.Duration, err error) {
//	        ...
//	    }),
//	)
//
// The metrics package exports these observations to Prometheus.
package thimble
