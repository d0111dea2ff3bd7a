// Package cache stores intermediate and final pipeline results.
//
// Three kinds of entries are cached, each under its own key namespace:
//
//   - trees: the expression tree parsed from a pattern and flags
//   - layouts: the diagram computed for a tree hash and layout options
//   - artifacts: rendered bytes for a layout hash and render options
//
// Every stage is deterministic, so entries never go stale; TTLs only bound
// disk and memory use.
//
// # Backends
//
//   - [FileCache]: zstd-compressed files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP API
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing
//
// Wrap any backend with [Instrument] to report hits, misses and writes to
// the observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default time-to-live per entry kind.
const (
	TTLTree     = 30 * 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Key namespaces, also used as the keyType of cache hooks.
const (
	KindTree     = "tree"
	KindLayout   = "layout"
	KindArtifact = "artifact"
)

// Keyer builds cache keys. Implementations must produce the same key for
// equal inputs and different keys for inputs that affect the result.
type Keyer interface {
	// TreeKey is the key of the tree parsed from pattern with flags.
	TreeKey(pattern, flags string) string

	// LayoutKey is the key of the diagram computed for a tree.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey is the key of a rendered artifact of a diagram.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the layout inputs besides the tree.
type LayoutKeyOpts struct {
	ConfigHash string `json:"config_hash"`
	Measurer   string `json:"measurer"`
}

// ArtifactKeyOpts holds the render inputs besides the diagram.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Style      string  `json:"style,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`
	ShowLabels bool    `json:"show_labels,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) TreeKey(pattern, flags string) string {
	return hashKey(KindTree, pattern, flags)
}

func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey(KindLayout, treeHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, layoutHash, opts)
}
