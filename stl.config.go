package stl

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the file form of the engine configuration.
//
//	max_depth: 32
//	element_prefix: "stl:"
//	log_level: info
//	cache:
//	  enabled: true
//	  ttl: 5m
//	  max_entries: 1000
//	  max_result_size: 1048576
type Config struct {
	MaxDepth      int         `yaml:"max_depth"`
	ElementPrefix string      `yaml:"element_prefix"`
	LogLevel      string      `yaml:"log_level"`
	Cache         CacheSource `yaml:"cache"`
}

// CacheSource is the cache section of Config.
type CacheSource struct {
	Enabled       bool          `yaml:"enabled"`
	TTL           time.Duration `yaml:"ttl"`
	MaxEntries    int           `yaml:"max_entries"`
	MaxResultSize int           `yaml:"max_result_size"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:      DefaultMaxDepth,
		ElementPrefix: DefaultElementPrefix,
		LogLevel:      DefaultLogLevel,
		Cache: CacheSource{
			TTL:           DefaultCacheTTL,
			MaxEntries:    DefaultCacheMaxEntries,
			MaxResultSize: DefaultCacheMaxResultSize,
		},
	}
}

// LoadConfig reads and validates a YAML config file. Keys missing from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigReadFailed, path, err)
	}
	return parseConfig(data, path)
}

// ParseConfig parses and validates YAML config data.
func ParseConfig(data []byte) (*Config, error) {
	return parseConfig(data, "")
}

func parseConfig(data []byte, path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewConfigError(ErrMsgConfigParseFailed, path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(path string) error {
	if c.MaxDepth < 0 {
		return NewConfigError(ErrMsgInvalidMaxDepth, path, nil)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return NewConfigError(ErrMsgInvalidLogLevel, path, err)
	}
	if c.Cache.TTL < 0 {
		return NewConfigError(ErrMsgInvalidCacheTTL, path, nil)
	}
	if c.Cache.MaxEntries < 0 {
		return NewConfigError(ErrMsgInvalidCacheEntries, path, nil)
	}
	if c.Cache.MaxResultSize < 0 {
		return NewConfigError(ErrMsgInvalidCacheSize, path, nil)
	}
	return nil
}

// Logger builds a JSON zap logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, NewConfigError(ErrMsgInvalidLogLevel, "", err)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core), nil
}

// Options converts the configuration to engine options. A nil logger leaves
// the engine silent.
func (c *Config) Options(logger *zap.Logger) []Option {
	opts := []Option{
		WithMaxDepth(c.MaxDepth),
		WithElementPrefix(c.ElementPrefix),
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	if c.Cache.Enabled {
		opts = append(opts, WithCache(NewParsedContentCache(CacheConfig{
			TTL:           c.Cache.TTL,
			MaxEntries:    c.Cache.MaxEntries,
			MaxResultSize: c.Cache.MaxResultSize,
		})))
	}
	return opts
}
