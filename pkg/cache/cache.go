// Package cache stores rendered export artifacts keyed by snapshot content.
//
// Rendering a PNG or SVG is the expensive step of an export. Artifacts are
// keyed by the SHA-256 of the snapshot's JSON encoding plus the render
// options, so re-exporting an unchanged diagram is a cache hit.
//
// Implementations:
//   - [FileCache]: one file per entry under a directory (CLI)
//   - [MemoryCache]: bounded in-process map (HTTP server)
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are built by a [Keyer]; [ScopedKeyer] prefixes them, e.g. with the
// release version.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// ArtifactKeyOpts holds the render options that affect an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Padding  float64 `json:"padding,omitempty"`
	Pinned   bool    `json:"pinned,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Chrome   bool    `json:"chrome,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of an artifact rendered from the snapshot
	// whose content hash is snapshotHash.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds unscoped keys of the form "artifact:<format>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the snapshot hash together with opts.
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", opts.Format, snapshotHash, opts)
}
