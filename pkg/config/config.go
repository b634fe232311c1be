// Package config loads wikimap settings.
//
// Values are resolved in order, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/wikimap/config.toml
//  3. a .env file in the working directory
//  4. WIKIMAP_* environment variables
//
// Command-line flags are applied on top by the caller.
//
// Example config.toml:
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[fetch]
//	rate = 5
//	timeout = "2m"
//
//	[locales]
//	file = "/etc/wikimap/locales.toml" # more [locales.<code>] tables
//
//	[locales.de]
//	excluded = ["Einzelnachweise", "Weblinks", "Siehe auch"]
//	markers  = ["Hauptartikel"]
//	[locales.de.callout]
//	attr  = "role"
//	value = "note"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/wikimap/pkg/cache"
	"github.com/matzehuels/wikimap/pkg/integrations/wikipedia"
	"github.com/matzehuels/wikimap/pkg/locale"
	"github.com/matzehuels/wikimap/pkg/pipeline"
	"github.com/matzehuels/wikimap/pkg/snapshot"
)

// AppName names the XDG subdirectories.
const AppName = "wikimap"

// Config is the resolved configuration.
type Config struct {
	Cache     CacheConfig                  `toml:"cache"`
	Fetch     FetchConfig                  `toml:"fetch"`
	Snapshots SnapshotConfig               `toml:"snapshots"`
	Server    ServerConfig                 `toml:"server"`
	Locales   map[string]locale.Definition `toml:"-"`

	// LocalesFile names a separate TOML file of [locales.<code>] tables,
	// loaded after the inline ones.
	LocalesFile string `toml:"-"`

	// Path of the file that was loaded, if any.
	Path string `toml:"-"`
}

type CacheConfig struct {
	Backend   string `toml:"backend"` // file, memory, redis, none
	Dir       string `toml:"dir"`
	Size      int    `toml:"size"`
	RedisAddr string `toml:"redis_addr"`
	KeyPrefix string `toml:"key_prefix"`
}

type FetchConfig struct {
	UserAgent   string        `toml:"user_agent"`
	Rate        float64       `toml:"rate"`
	Burst       int           `toml:"burst"`
	Concurrency int           `toml:"concurrency"`
	MaxDepth    int           `toml:"max_depth"`
	Timeout     time.Duration `toml:"timeout"`
}

type SnapshotConfig struct {
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"` // selects the mongo store when set
	MongoDB  string `toml:"mongo_db"`
}

type ServerConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cacheDir, _ := CacheDir()
	dataDir, _ := DataDir()
	return &Config{
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			Dir:     cacheDir,
			Size:    cache.DefaultMemorySize,
		},
		Fetch: FetchConfig{
			Rate:        wikipedia.DefaultRate,
			Burst:       1,
			Concurrency: pipeline.DefaultConcurrency,
			MaxDepth:    pipeline.DefaultMaxDepth,
		},
		Snapshots: SnapshotConfig{
			Dir:     filepath.Join(dataDir, "maps"),
			MongoDB: snapshot.DefaultDatabase,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
	}
}

// Load resolves the configuration. An empty path looks for the default
// config file and silently skips it when absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if _, err := toml.Decode(string(data), c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.decodeLocales(data); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	c.Path = path
	return nil
}

// decodeLocales splits the [locales] table: "file" is a path, every other
// key is a locale definition.
func (c *Config) decodeLocales(data []byte) error {
	var doc struct {
		Locales map[string]toml.Primitive `toml:"locales"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return err
	}
	for key, prim := range doc.Locales {
		if key == "file" {
			if err := md.PrimitiveDecode(prim, &c.LocalesFile); err != nil {
				return fmt.Errorf("locales.file: %w", err)
			}
			continue
		}
		var def locale.Definition
		if err := md.PrimitiveDecode(prim, &def); err != nil {
			return fmt.Errorf("locales.%s: %w", key, err)
		}
		if c.Locales == nil {
			c.Locales = make(map[string]locale.Definition)
		}
		c.Locales[key] = def
	}
	return nil
}

// applyEnv overrides fields from WIKIMAP_* variables.
func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("WIKIMAP_CACHE", &c.Cache.Backend)
	str("WIKIMAP_CACHE_DIR", &c.Cache.Dir)
	str("WIKIMAP_REDIS_ADDR", &c.Cache.RedisAddr)
	str("WIKIMAP_MONGO_URI", &c.Snapshots.MongoURI)
	str("WIKIMAP_MONGO_DB", &c.Snapshots.MongoDB)
	str("WIKIMAP_SNAPSHOT_DIR", &c.Snapshots.Dir)
	str("WIKIMAP_USER_AGENT", &c.Fetch.UserAgent)
	str("WIKIMAP_ADDR", &c.Server.Addr)
	str("WIKIMAP_CACHE_PREFIX", &c.Cache.KeyPrefix)
	str("WIKIMAP_LOCALES_FILE", &c.LocalesFile)

	if v := strings.TrimSpace(getenv("WIKIMAP_RATE")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("WIKIMAP_RATE: %w", err)
		}
		c.Fetch.Rate = f
	}
	if v := strings.TrimSpace(getenv("WIKIMAP_CONCURRENCY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WIKIMAP_CONCURRENCY: %w", err)
		}
		c.Fetch.Concurrency = n
	}
	return nil
}

// CacheConfig converts the cache section for [cache.New].
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{
		Backend:   c.Cache.Backend,
		Dir:       c.Cache.Dir,
		Size:      c.Cache.Size,
		RedisAddr: c.Cache.RedisAddr,
		KeyPrefix: c.Cache.KeyPrefix,
	}
}

// Registry returns the built-in locales, then those from inline
// [locales.<code>] tables, then those from LocalesFile. Later definitions of
// a code replace earlier ones.
func (c *Config) Registry() (*locale.Registry, error) {
	reg := locale.Default()
	inline, err := locale.BuildAll(c.Locales)
	if err != nil {
		return nil, err
	}
	for _, l := range inline {
		reg.Register(l)
	}

	if c.LocalesFile == "" {
		return reg, nil
	}
	data, err := os.ReadFile(c.LocalesFile)
	if err != nil {
		return nil, fmt.Errorf("locales file: %w", err)
	}
	extra, err := locale.LoadTOML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.LocalesFile, err)
	}
	for _, l := range extra {
		reg.Register(l)
	}
	return reg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/wikimap/config.toml, or "" when no
// home directory is known.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName, "config.toml")
}

// CacheDir returns the cache directory using XDG standard (~/.cache/wikimap/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// DataDir returns the data directory using XDG standard (~/.local/share/wikimap/).
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", AppName), nil
}
