// Package config loads meetingkit credentials and settings.
//
// Configuration is assembled from three sources, later sources winning:
//
//  1. [Default] values,
//  2. a TOML file read by [LoadFile],
//  3. environment variables prefixed with MEETINGKIT_, applied by [ApplyEnv].
//
// Example file:
//
//	app_id = "200000001"
//	sdk_id = "18000000001"
//	secret_id = "..."
//	secret_key = "..."
//	auth_type = "jwt"
//	timeout = "15s"
//
//	[response_cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "10m"
//
// [Config.Validate] checks structure only. Credentials are checked by the
// client constructors that need them, so a config without secrets is still
// valid for kinds such as the webhook decoder.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"

	"github.com/matzehuels/meetingkit/pkg/errors"
)

// Authentication modes supported by the platform.
const (
	AuthJWT    = "jwt"
	AuthOAuth2 = "oauth2"
)

// Response cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// DefaultBaseURL is the public API endpoint of the meeting platform.
const DefaultBaseURL = "https://api.meeting.qq.com"

// EnvPrefix prefixes every environment variable read by [ApplyEnv].
const EnvPrefix = "MEETINGKIT_"

// Config holds credentials and client settings.
type Config struct {
	// Credentials
	AppID       string `toml:"app_id" env:"APP_ID"`
	SDKID       string `toml:"sdk_id" env:"SDK_ID"`
	SecretID    string `toml:"secret_id" env:"SECRET_ID"`
	SecretKey   string `toml:"secret_key" env:"SECRET_KEY"`
	AuthType    string `toml:"auth_type" env:"AUTH_TYPE"`
	AccessToken string `toml:"access_token" env:"ACCESS_TOKEN"`
	OperatorID  string `toml:"operator_id" env:"OPERATOR_ID"`

	// Client settings
	BaseURL      string   `toml:"base_url" env:"BASE_URL"`
	Timeout      Duration `toml:"timeout" env:"TIMEOUT"`
	CacheEnabled bool     `toml:"cache_enabled" env:"CACHE_ENABLED"`
	Debug        bool     `toml:"debug" env:"DEBUG"`

	ResponseCache ResponseCacheConfig `toml:"response_cache" envPrefix:"RESPONSE_CACHE_"`
}

// ResponseCacheConfig selects where GET responses are cached.
type ResponseCacheConfig struct {
	Backend   string   `toml:"backend" env:"BACKEND"`
	Dir       string   `toml:"dir" env:"DIR"`
	RedisAddr string   `toml:"redis_addr" env:"REDIS_ADDR"`
	TTL       Duration `toml:"ttl" env:"TTL"`
}

// Duration is a time.Duration that decodes from TOML strings such as "15s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML and env decoding.
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
	return []byte(d.String()), nil
}

// Default returns the configuration used when nothing else is specified.
func Default() Config {
	return Config{
		AuthType:     AuthJWT,
		BaseURL:      DefaultBaseURL,
		Timeout:      Duration{10 * time.Second},
		CacheEnabled: true,
		ResponseCache: ResponseCacheConfig{
			Backend: CacheNone,
			TTL:     Duration{5 * time.Minute},
		},
	}
}

// LoadFile decodes the TOML file at path over cfg.
// Keys absent from the file keep their current values; unknown keys are rejected.
func LoadFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeConfiguration, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	return nil
}

// ApplyEnv overrides cfg with MEETINGKIT_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	return applyEnv(cfg, nil)
}

func applyEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "read environment")
	}
	return nil
}

// Load builds a Config from defaults, the optional file at path and the environment.
// An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfiguration, err, "config file %s", path)
		}
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration structure.
func (c Config) Validate() error {
	switch c.AuthType {
	case AuthJWT, AuthOAuth2:
	default:
		return errors.New(errors.ErrCodeConfiguration, "auth_type must be %q or %q, got %q", AuthJWT, AuthOAuth2, c.AuthType)
	}
	if c.Timeout.Duration <= 0 {
		return errors.New(errors.ErrCodeConfiguration, "timeout must be positive, got %s", c.Timeout.Duration)
	}
	if err := errors.ValidateURL(c.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "base_url")
	}

	switch c.ResponseCache.Backend {
	case "", CacheNone, CacheFile:
	case CacheRedis:
		if c.ResponseCache.RedisAddr == "" {
			return errors.New(errors.ErrCodeConfiguration, "response_cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeConfiguration, "unknown response_cache.backend %q", c.ResponseCache.Backend)
	}
	if c.ResponseCache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeConfiguration, "response_cache.ttl cannot be negative")
	}
	return nil
}

// HasCredentials reports whether the credentials required by AuthType are present.
func (c Config) HasCredentials() bool {
	if c.AppID == "" {
		return false
	}
	if c.AuthType == AuthOAuth2 {
		return c.AccessToken != ""
	}
	return c.SecretID != "" && c.SecretKey != ""
}

// Redacted returns a copy of c with secrets masked, suitable for display.
func (c Config) Redacted() Config {
	c.SecretKey = mask(c.SecretKey)
	c.AccessToken = mask(c.AccessToken)
	return c
}

func mask(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 4:
		return "****"
	default:
		return s[:2] + "****" + s[len(s)-2:]
	}
}

// Encode writes c as TOML.
func (c Config) Encode() (string, error) {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}
