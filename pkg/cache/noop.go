package cache

import (
	"context"
	"time"
)

// Noop is a Cache that never stores anything. It stands in when Redis is
// unreachable at startup so the service keeps running uncached.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error)        { return "", false, nil }
func (Noop) Set(context.Context, string, string, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error                  { return nil }
func (Noop) Close() error                                             { return nil }
