package cache

import (
	"context"
	"time"
)

// NullCache misses on every Get and drops every Set. It backs --no-cache
// and is what a runner uses when no cache is given.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)      { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                    { return nil }
func (NullCache) Close() error                                            { return nil }

var _ Cache = NullCache{}
