// Package config loads sysmlite settings.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file: --config, or sysmlite.toml in the working directory
//  3. environment variables prefixed SYSMLITE_ (SYSMLITE_CACHE_DIR=... sets
//     cache-dir)
//  4. command-line flags that were set explicitly
//
// The merged result is validated before it is returned.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	koanftoml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	errs "github.com/matzehuels/sysmlite/pkg/errors"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "sysmlite.toml"

	// EnvPrefix prefixes every environment variable.
	EnvPrefix = "SYSMLITE_"

	// FlagConfig names the flag holding an explicit config path.
	FlagConfig = "config"
)

// Config holds all configuration for the application.
type Config struct {
	File     string `koanf:"file" validate:"required"`
	Verbose  bool   `koanf:"verbose"`
	NoCache  bool   `koanf:"no-cache"`
	CacheDir string `koanf:"cache-dir"`

	// Export
	Formats  []string `koanf:"formats" validate:"required,min=1,dive,oneof=json mmd dot svg png"`
	Out      string   `koanf:"out" validate:"required"`
	Scale    float64  `koanf:"scale" validate:"gt=0,lte=8"`
	Padding  float64  `koanf:"padding" validate:"gte=0,lte=2000"`
	Chrome   bool     `koanf:"chrome"`
	Engine   string   `koanf:"engine" validate:"oneof=raster graphviz"`
	Pinned   bool     `koanf:"pinned"`
	Detailed bool     `koanf:"detailed"`

	// Server
	Addr        string   `koanf:"addr" validate:"required,hostname_port"`
	CORSOrigins []string `koanf:"cors-origins"`

	// Watch
	Debounce time.Duration `koanf:"debounce" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		File:        "diagram.json",
		Formats:     []string{"png"},
		Out:         ".",
		Scale:       1,
		Padding:     40,
		Engine:      "raster",
		Addr:        "127.0.0.1:8080",
		CORSOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		Debounce:    300 * time.Millisecond,
	}
}

// Map returns c keyed by config key. Durations are rendered as strings so
// the map can be fed back through the loader and dumped as TOML.
func (c Config) Map() map[string]any {
	return map[string]any{
		"file":         c.File,
		"verbose":      c.Verbose,
		"no-cache":     c.NoCache,
		"cache-dir":    c.CacheDir,
		"formats":      c.Formats,
		"out":          c.Out,
		"scale":        c.Scale,
		"padding":      c.Padding,
		"chrome":       c.Chrome,
		"engine":       c.Engine,
		"pinned":       c.Pinned,
		"detailed":     c.Detailed,
		"addr":         c.Addr,
		"cors-origins": c.CORSOrigins,
		"debounce":     c.Debounce.String(),
	}
}

// Dump encodes c as TOML.
func (c Config) Dump() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c.Map()); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
//
// f may be nil. If f defines a "config" flag that was set, that file must
// exist; otherwise FileName is read when present.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(Default().Map()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	path, explicit := configPath(f)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), koanftoml.Parser()); err != nil {
			return nil, errs.Wrap(errs.ErrCodeParse, err, "read config %s", path)
		}
	} else if explicit {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps SYSMLITE_CACHE_DIR to cache-dir.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

func configPath(f *pflag.FlagSet) (string, bool) {
	if f != nil {
		if fl := f.Lookup(FlagConfig); fl != nil && fl.Changed && fl.Value.String() != "" {
			return fl.Value.String(), true
		}
	}
	return FileName, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report config keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks c against its field rules.
func Validate(c *Config) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid config")
	}
	fe := verrs[0]
	key := fe.Field()
	if i := strings.IndexByte(key, '['); i >= 0 {
		key = key[:i]
	}
	if fe.Param() != "" {
		return errs.New(errs.ErrCodeInvalidInput, "invalid config %s=%v: must satisfy %s=%s", key, fe.Value(), fe.Tag(), fe.Param())
	}
	return errs.New(errs.ErrCodeInvalidInput, "invalid config %s=%v: %s", key, fe.Value(), fe.Tag())
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]any
}

func makeMapProvider(m map[string]any) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]any, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("not implemented")
}
