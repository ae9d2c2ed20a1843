// Package config loads postcard settings from TOML, .env files and the
// environment.
//
// Precedence, lowest first: built-in defaults, the TOML file, environment
// variables. A .env file only seeds variables that are not already set.
//
// # File Format
//
//	output_dir      = "output"
//	backgrounds_dir = "assets/previews"
//	texts_dir       = "assets/texts"
//
//	[fonts]
//	title = "fonts/Montserrat-Bold.ttf"
//	body  = "fonts/Montserrat-Bold.ttf"
//
//	[render]
//	concurrency    = 4
//	best_effort    = false
//	timeout        = "30s"
//	min_title_size = 40
//
//	[cache]
//	backend    = "file"   # none, file, redis
//	dir        = ""
//	redis_addr = "localhost:6379"
//	ttl        = "24h"
//	namespace  = ""
//
//	[server]
//	addr            = ":8080"
//	allowed_origins = ["https://*"]
//	public_url      = "https://cards.example.com"
//
//	[[styles]]
//	id           = "gold"
//	fill         = [229, 152, 35, 255]
//	stroke       = [255, 255, 255, 200]
//	stroke_width = 10
//
//	[[occasions]]
//	key   = "new_year"
//	title = "С Новым годом!"
//	texts = ["Счастья и здоровья!"]
//
// Omitting [[styles]] or [[occasions]] keeps the built-in tables; giving
// any entry replaces the whole table.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/postcard/pkg/errors"
)

// Environment variables that override file settings.
const (
	EnvConfig         = "POSTCARD_CONFIG"
	EnvOutputDir      = "POSTCARD_OUTPUT_DIR"
	EnvBackgroundsDir = "POSTCARD_BACKGROUNDS_DIR"
	EnvRedisAddr      = "POSTCARD_REDIS_ADDR"
)

// DefaultPath is read when no path is given and it exists.
const DefaultPath = "postcard.toml"

// Config is the complete application configuration.
type Config struct {
	OutputDir      string `toml:"output_dir"`
	BackgroundsDir string `toml:"backgrounds_dir"`
	TextsDir       string `toml:"texts_dir"`

	Fonts  FontsConfig  `toml:"fonts"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`

	Styles    []StyleConfig    `toml:"styles"`
	Occasions []OccasionConfig `toml:"occasions"`
}

// FontsConfig points at TrueType files. Empty paths use the embedded font.
type FontsConfig struct {
	Title string `toml:"title"`
	Body  string `toml:"body"`
}

// RenderConfig tunes the pipeline.
type RenderConfig struct {
	Concurrency  int      `toml:"concurrency"`
	BestEffort   bool     `toml:"best_effort"`
	Timeout      Duration `toml:"timeout"`
	MinTitleSize int      `toml:"min_title_size"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
	Namespace string   `toml:"namespace"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"` // CORS origins; empty disables CORS
	PublicURL      string   `toml:"public_url"`      // prefix for card URLs in responses
}

// Duration is a time.Duration written as a Go duration string in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputDir:      "output",
		BackgroundsDir: "assets/previews",
		Render: RenderConfig{
			MinTitleSize: 40,
		},
		Cache: CacheConfig{
			Backend: "none",
			TTL:     Duration{24 * time.Hour},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// LoadEnvFiles loads .env style files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", p)
		}
	}
	return nil
}

// Load reads the configuration. When path is empty, POSTCARD_CONFIG is used,
// then DefaultPath if it exists. An explicitly named file must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		if env := os.Getenv(EnvConfig); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultPath
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err) && !explicit:
	case os.IsNotExist(err):
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
	case err != nil:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML data on top of the defaults without consulting the
// environment.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvBackgroundsDir); v != "" {
		c.BackgroundsDir = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
}

// Validate checks value ranges. Style and occasion tables are checked when
// they are built.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output_dir cannot be empty")
	}
	if c.Render.Concurrency < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.concurrency must not be negative")
	}
	if c.Render.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.timeout must not be negative")
	}
	if c.Render.MinTitleSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.min_title_size must not be negative")
	}
	switch c.Cache.Backend {
	case "", "none", "file", "redis":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend (or set %s)", EnvRedisAddr)
	}
	return nil
}

// Summary returns the effective settings as ordered key/value pairs for
// display.
func (c Config) Summary() [][2]string {
	return [][2]string{
		{"output_dir", c.OutputDir},
		{"backgrounds_dir", c.BackgroundsDir},
		{"texts_dir", c.TextsDir},
		{"fonts.title", orDefault(c.Fonts.Title, "embedded")},
		{"fonts.body", orDefault(c.Fonts.Body, "embedded")},
		{"render.concurrency", orDefault(itoa(c.Render.Concurrency), "cpus")},
		{"render.best_effort", strconv.FormatBool(c.Render.BestEffort)},
		{"render.timeout", orDefault(durationString(c.Render.Timeout), "none")},
		{"cache.backend", orDefault(c.Cache.Backend, "none")},
		{"server.addr", c.Server.Addr},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func durationString(d Duration) string {
	if d.Duration == 0 {
		return ""
	}
	return d.Duration.String()
}
