package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/railyard/pkg/observability"
)

// instrumented reports cache traffic to the registered observability hooks.
type instrumented struct {
	Cache
}

// Instrument wraps c so every Get reports a hit or miss and every Set
// reports a write to [observability.Cache]. The key type passed to the
// hooks is the key's namespace (tree, layout or artifact).
func Instrument(c Cache) Cache {
	if c == nil {
		c = NewNullCache()
	}
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

// keyType extracts the namespace of a key, skipping any scope prefix.
func keyType(key string) string {
	for _, kind := range []string{KindTree, KindLayout, KindArtifact} {
		if strings.HasPrefix(key, kind+":") || strings.Contains(key, ":"+kind+":") {
			return kind
		}
	}
	return "unknown"
}
