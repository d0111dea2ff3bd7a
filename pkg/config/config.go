// Package config loads railyard settings from a TOML file.
//
// A config file overrides the built-in defaults section by section; keys it
// leaves out keep their default value, and a missing file means defaults
// throughout. Command-line flags override the file.
//
//	[layout]
//	node_margin_h = 24
//	font_size = 14
//
//	[render]
//	style = "handdrawn"
//	formats = ["svg", "png"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/railyard/pkg/cache"
	"github.com/matzehuels/railyard/pkg/errors"
	"github.com/matzehuels/railyard/pkg/measure"
	"github.com/matzehuels/railyard/pkg/pipeline"
	"github.com/matzehuels/railyard/pkg/railroad"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Defaults for values without a natural zero.
const (
	DefaultAddr          = ":8080"
	DefaultMaxBodyBytes  = 1 << 20
	DefaultMongoDatabase = "railyard"
)

// Config is the contents of a config file.
type Config struct {
	Layout railroad.Config `toml:"layout"`
	Render Render          `toml:"render"`
	Cache  Cache           `toml:"cache"`
	Server Server          `toml:"server"`
}

// Render holds the render defaults.
type Render struct {
	Style      string   `toml:"style"`
	Formats    []string `toml:"formats"`
	Measurer   string   `toml:"measurer"`
	Scale      float64  `toml:"scale"`
	Seed       uint64   `toml:"seed"`
	ShowLabels bool     `toml:"show_labels"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"` // file backend; empty means the user cache dir
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	// KeyPrefix scopes every key so several deployments can share a backend.
	KeyPrefix string `toml:"key_prefix"`
}

// Server configures `railyard serve`.
type Server struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: railroad.DefaultConfig(),
		Render: Render{
			Style:    pipeline.DefaultStyle,
			Formats:  []string{pipeline.FormatSVG},
			Measurer: pipeline.DefaultMeasurer,
			Scale:    pipeline.DefaultScale,
			Seed:     pipeline.DefaultSeed,
		},
		Cache: Cache{
			Backend:       BackendFile,
			MongoDatabase: DefaultMongoDatabase,
		},
		Server: Server{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// Path returns the default config file location,
// $XDG_CONFIG_HOME/railyard/config.toml or ~/.config/railyard/config.toml.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "railyard", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "railyard", "config.toml"), nil
}

// Load reads the config file at path over the defaults. A missing file is
// not an error. Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML from r over the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	return cfg, cfg.Validate()
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if _, err := measure.ByName(c.Render.Measurer); err != nil {
		return err
	}
	if c.Render.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must not be negative")
	}
	return c.Cache.Validate()
}

// Validate checks that the selected backend has what it needs.
func (c Cache) Validate() error {
	switch c.Backend {
	case "", BackendFile, BackendNone:
		return nil
	case BackendRedis:
		if !strings.HasPrefix(c.RedisURL, "redis") {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url must be a redis:// or rediss:// URL")
		}
		return errors.ValidateURL(c.RedisURL)
	case BackendMongo:
		if !strings.HasPrefix(c.MongoURI, "mongodb") {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo_uri must be a mongodb:// URL")
		}
		return errors.ValidateURL(c.MongoURI)
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of file, redis, mongo, none)", c.Backend)
	}
}

// Open connects the configured backend and wraps it with
// [cache.Instrument]. defaultDir is used by the file backend when Dir is
// empty.
func (c Cache) Open(ctx context.Context, defaultDir string) (cache.Cache, error) {
	var (
		backend cache.Cache
		err     error
	)
	switch c.Backend {
	case BackendNone:
		backend = cache.NewNullCache()
	case BackendRedis:
		backend, err = cache.NewRedisCache(ctx, c.RedisURL)
	case BackendMongo:
		db := c.MongoDatabase
		if db == "" {
			db = DefaultMongoDatabase
		}
		backend, err = cache.NewMongoCache(ctx, c.MongoURI, db)
	default:
		dir := c.Dir
		if dir == "" {
			dir = defaultDir
		}
		backend, err = cache.NewFileCache(dir)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "open %s cache", c.backendName())
	}
	return cache.Instrument(backend), nil
}

// Keyer returns the key generator for the backend, scoped by KeyPrefix.
func (c Cache) Keyer() cache.Keyer {
	if c.KeyPrefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.KeyPrefix)
}

func (c Cache) backendName() string {
	if c.Backend == "" {
		return BackendFile
	}
	return c.Backend
}

// Options returns pipeline options carrying the configured layout and
// render defaults.
func (c Config) Options() pipeline.Options {
	layout := c.Layout
	return pipeline.Options{
		Config:     &layout,
		Measurer:   c.Render.Measurer,
		Formats:    append([]string(nil), c.Render.Formats...),
		Style:      c.Render.Style,
		Scale:      c.Render.Scale,
		Seed:       c.Render.Seed,
		ShowLabels: c.Render.ShowLabels,
	}
}
