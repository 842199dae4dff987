package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/roster/internal/logging"
	"github.com/five82/roster/internal/pathutil"
	"github.com/five82/roster/internal/snapshot"
)

// Config is roster's runtime configuration.
type Config struct {
	APIBase           string         `env:"ROSTER_API_BASE"`
	RequestTimeout    time.Duration  `env:"ROSTER_REQUEST_TIMEOUT"`
	RequestsPerSecond float64        `env:"ROSTER_REQUESTS_PER_SECOND"`
	RefreshInterval   time.Duration  `env:"ROSTER_REFRESH_INTERVAL"`
	ToastDuration     time.Duration  `env:"ROSTER_TOAST_DURATION"`
	Snapshot          SnapshotConfig `env-prefix:"ROSTER_SNAPSHOT_"`
	Log               LogConfig      `env-prefix:"ROSTER_LOG_"`
}

// SnapshotConfig selects where the user cache is persisted.
type SnapshotConfig struct {
	Backend       string `env:"BACKEND"`
	Path          string `env:"PATH"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisKey      string `env:"REDIS_KEY"`
	RedisDB       int    `env:"REDIS_DB"`
}

// LogConfig controls roster's own log output.
type LogConfig struct {
	Output string `env:"OUTPUT"`
	Level  string `env:"LEVEL"`
	JSON   bool   `env:"JSON"`
}

const (
	defaultConfigPath     = "~/.config/roster/config.toml"
	defaultAPIBase        = "https://jsonplaceholder.typicode.com"
	defaultRequestTimeout = 10 * time.Second
	defaultToastDuration  = 5 * time.Second
	defaultSnapshotPath   = snapshot.DefaultPath
	defaultSnapshotKind   = snapshot.BackendFile
	defaultRedisKey       = snapshot.DefaultRedisKey
	defaultLogOutput      = logging.DefaultFile
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{}
	cfg.normalize()
	return cfg
}

// Load reads the TOML file at path (or the default location), then applies
// ROSTER_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	file, err := os.Open(resolved) //nolint:gosec // user-supplied config path
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		cfg, err = parse(bytes)
		if err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// Path returns the config file Load would read for path.
func Path(path string) string {
	resolved, err := resolvePath(path)
	if err != nil {
		return path
	}
	return resolved
}

func parse(data []byte) (Config, error) {
	var raw struct {
		APIBase           string  `toml:"api_base"`
		RequestTimeout    string  `toml:"request_timeout"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
		RefreshInterval   string  `toml:"refresh_interval"`
		ToastDuration     string  `toml:"toast_duration"`
		Snapshot          struct {
			Backend       string `toml:"backend"`
			Path          string `toml:"path"`
			RedisAddr     string `toml:"redis_addr"`
			RedisPassword string `toml:"redis_password"`
			RedisKey      string `toml:"redis_key"`
			RedisDB       int    `toml:"redis_db"`
		} `toml:"snapshot"`
		Log struct {
			Output string `toml:"output"`
			Level  string `toml:"level"`
			JSON   bool   `toml:"json"`
		} `toml:"log"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		APIBase:           raw.APIBase,
		RequestsPerSecond: raw.RequestsPerSecond,
		Snapshot: SnapshotConfig{
			Backend:       raw.Snapshot.Backend,
			Path:          raw.Snapshot.Path,
			RedisAddr:     raw.Snapshot.RedisAddr,
			RedisPassword: raw.Snapshot.RedisPassword,
			RedisKey:      raw.Snapshot.RedisKey,
			RedisDB:       raw.Snapshot.RedisDB,
		},
		Log: LogConfig{
			Output: raw.Log.Output,
			Level:  raw.Log.Level,
			JSON:   raw.Log.JSON,
		},
	}

	var err error
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = parseDuration("refresh_interval", raw.RefreshInterval); err != nil {
		return Config{}, err
	}
	if cfg.ToastDuration, err = parseDuration("toast_duration", raw.ToastDuration); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseDuration(key, value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	return d, nil
}

// normalize trims values, fills blanks with defaults and expands paths.
func (c *Config) normalize() {
	c.APIBase = strings.TrimSpace(c.APIBase)
	if c.APIBase == "" {
		c.APIBase = defaultAPIBase
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.RequestsPerSecond < 0 {
		c.RequestsPerSecond = 0
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0
	}
	if c.ToastDuration <= 0 {
		c.ToastDuration = defaultToastDuration
	}

	c.Snapshot.Backend = strings.ToLower(strings.TrimSpace(c.Snapshot.Backend))
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = defaultSnapshotKind
	}
	c.Snapshot.Path = strings.TrimSpace(c.Snapshot.Path)
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = defaultSnapshotPath
	}
	c.Snapshot.Path = mustExpand(c.Snapshot.Path)
	c.Snapshot.RedisAddr = strings.TrimSpace(c.Snapshot.RedisAddr)
	c.Snapshot.RedisKey = strings.TrimSpace(c.Snapshot.RedisKey)
	if c.Snapshot.RedisKey == "" {
		c.Snapshot.RedisKey = defaultRedisKey
	}

	c.Log.Output = strings.TrimSpace(c.Log.Output)
	switch strings.ToLower(c.Log.Output) {
	case "":
		c.Log.Output = mustExpand(defaultLogOutput)
	case "stdout", "stderr", "discard":
		c.Log.Output = strings.ToLower(c.Log.Output)
	default:
		c.Log.Output = mustExpand(c.Log.Output)
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
}

// LogFile returns the log file path, or "" when logs go to a stream.
func (c Config) LogFile() string {
	switch c.Log.Output {
	case "stdout", "stderr", "discard":
		return ""
	case "":
		return mustExpand(defaultLogOutput)
	}
	return c.Log.Output
}

func resolvePath(path string) (string, error) {
	return pathutil.ExpandOr(path, defaultConfigPath)
}

func mustExpand(path string) string {
	expanded, err := pathutil.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
