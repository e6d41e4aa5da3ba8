package cache

import "errors"

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("cache closed")
