package thimble

import (
	"time"
)

// ResolveHook observes every provider call made by a Container, including
// calls made for dependencies and lazy suppliers.
type ResolveHook func(c Component, duration time.Duration, err error)

// BindHook observes every identity added to a Config.
type BindHook func(c Component)
