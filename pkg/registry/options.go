package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/meetingkit/pkg/config"
	"github.com/matzehuels/meetingkit/pkg/errors"
)

// Recognized Configure keys.
const (
	KeyCacheEnabled = "cache_enabled"
	KeyTimeout      = "timeout"
	KeyDebug        = "debug"
	KeyBaseURL      = "base_url"
)

// Keys lists every key accepted by [Registry.Configure].
func Keys() []string {
	return []string{KeyCacheEnabled, KeyTimeout, KeyDebug, KeyBaseURL}
}

// Options is the mutable registry configuration.
type Options struct {
	CacheEnabled bool
	Timeout      time.Duration
	Debug        bool
	BaseURL      string
}

func optionsFromConfig(cfg config.Config) Options {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = config.DefaultBaseURL
	}
	return Options{
		CacheEnabled: cfg.CacheEnabled,
		Timeout:      cfg.Timeout.Duration,
		Debug:        cfg.Debug,
		BaseURL:      base,
	}
}

// Map renders the options with their Configure keys. The timeout is in seconds.
func (o Options) Map() map[string]any {
	return map[string]any{
		KeyCacheEnabled: o.CacheEnabled,
		KeyTimeout:      o.Timeout.Seconds(),
		KeyDebug:        o.Debug,
		KeyBaseURL:      o.BaseURL,
	}
}

// Configure validates every entry of options and, only if all are valid,
// merges them into the current options and counts a configuration.
// Unknown keys and invalid values fail with INVALID_CONFIG and leave the
// registry unchanged.
func (r *Registry) Configure(options map[string]any) error {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.opts
	for _, key := range keys {
		if err := apply(&next, key, options[key]); err != nil {
			r.logger.Debug("configuration rejected", "key", key, "err", err)
			return err
		}
	}

	r.opts = next
	r.stats.Configurations++
	r.hooks.OnConfigure(keys)
	r.logger.Debug("registry configured", "keys", keys)
	return nil
}

func apply(o *Options, key string, v any) error {
	switch key {
	case KeyCacheEnabled:
		b, ok := v.(bool)
		if !ok {
			return invalid(key, v, "expected a boolean")
		}
		o.CacheEnabled = b
	case KeyDebug:
		b, ok := v.(bool)
		if !ok {
			return invalid(key, v, "expected a boolean")
		}
		o.Debug = b
	case KeyTimeout:
		d, err := parseTimeout(v)
		if err != nil {
			return invalid(key, v, err.Error())
		}
		o.Timeout = d
	case KeyBaseURL:
		s, ok := v.(string)
		if !ok {
			return invalid(key, v, "expected a string")
		}
		if err := errors.ValidateURL(s); err != nil {
			return invalid(key, v, errors.UserMessage(err))
		}
		o.BaseURL = strings.TrimRight(s, "/")
	default:
		return errors.New(errors.ErrCodeConfiguration, "unknown configuration option %q (accepted: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}

func invalid(key string, v any, reason string) error {
	return errors.New(errors.ErrCodeConfiguration, "invalid value %v (%T) for %s: %s", v, v, key, reason)
}

// maxTimeoutSeconds is the largest whole number of seconds a time.Duration holds.
const maxTimeoutSeconds = math.MaxInt64 / int64(time.Second)

// parseTimeout accepts seconds as a number, a time.Duration or a duration
// string. The result must be positive and representable as a time.Duration.
// Errors carry only the reason; apply adds the code and key.
func parseTimeout(v any) (time.Duration, error) {
	switch t := v.(type) {
	case time.Duration:
		if t <= 0 {
			return 0, errNotPositive
		}
		return t, nil
	case int:
		return secondsToDuration(int64(t))
	case int64:
		return secondsToDuration(t)
	case float64:
		switch {
		case math.IsNaN(t) || math.IsInf(t, 0):
			return 0, fmt.Errorf("not a finite number")
		case t <= 0:
			return 0, errNotPositive
		case t >= float64(math.MaxInt64)/float64(time.Second):
			return 0, errTooLarge
		}
		d := time.Duration(t * float64(time.Second))
		if d <= 0 {
			return 0, errNotPositive
		}
		return d, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number")
		}
		return parseTimeout(f)
	case string:
		if parsed, err := time.ParseDuration(t); err == nil {
			return parseTimeout(parsed)
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("expected seconds or a duration such as \"15s\"")
		}
		return parseTimeout(f)
	default:
		return 0, fmt.Errorf("expected seconds or a duration")
	}
}

var (
	errNotPositive = fmt.Errorf("must be positive")
	errTooLarge    = fmt.Errorf("too large, at most %d seconds", maxTimeoutSeconds)
)

func secondsToDuration(n int64) (time.Duration, error) {
	if n <= 0 {
		return 0, errNotPositive
	}
	if n > maxTimeoutSeconds {
		return 0, errTooLarge
	}
	return time.Duration(n) * time.Second, nil
}
