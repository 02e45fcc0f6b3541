// Package config loads the page runtime's deployment configuration from
// YAML — session cache timings, webhook secrets, and the observability/
// metrics toggles pkg/observe and pkg/metrics consume — grounded on the
// layered-config approach the wider example pack's services use for their
// own runtime.yaml, adapted to gopkg.in/yaml.v3 (the one YAML library
// actually listed among this module's dependencies).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SessionConfig controls SessionCache timings (§5).
type SessionConfig struct {
	// IdleTimeout is how long a chat session may sit unused before it is
	// evicted from the cache.
	IdleTimeout time.Duration `yaml:"idleTimeout"`
	// EvictEvery is the request-count cadence SessionCache opportunistically
	// sweeps for idle sessions and expired callback tokens on (§5: "every
	// 100 requests").
	EvictEvery int `yaml:"evictEvery"`
	// MaxActivePages bounds each BotUser's MRU active-page list.
	MaxActivePages int `yaml:"maxActivePages"`
}

// CallbackConfig controls CallbackRegistry's TTL eviction (§4.6).
type CallbackConfig struct {
	ClearCacheTime time.Duration `yaml:"clearCacheTime"`
}

// WebhookConfig controls the transport webhook server (§6).
type WebhookConfig struct {
	ListenAddr string `yaml:"listenAddr"`
	Path       string `yaml:"path"`
	Secret     string `yaml:"secret"`
}

// ObservabilityConfig switches between the console and Sentry error
// reporters (pkg/observe).
type ObservabilityConfig struct {
	SentryDSN   string `yaml:"sentryDsn"`
	Environment string `yaml:"environment"`
	Release     string `yaml:"release"`
	Verbose     bool   `yaml:"verbose"`
}

// MetricsConfig switches on Prometheus instrumentation (pkg/metrics).
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listenAddr"`
}

// I18nConfig points at the localisation pack (pkg/i18n).
type I18nConfig struct {
	DefaultLang string `yaml:"defaultLang"`
	ResourceDir string `yaml:"resourceDir"`
}

// RuntimeConfig is the top-level deployment configuration, loaded once at
// process startup.
type RuntimeConfig struct {
	Session       SessionConfig       `yaml:"session"`
	Callback      CallbackConfig      `yaml:"callback"`
	Webhook       WebhookConfig       `yaml:"webhook"`
	Observability ObservabilityConfig `yaml:"observability"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	I18n          I18nConfig          `yaml:"i18n"`
}

// Defaults returns a RuntimeConfig with every value a fresh deployment
// should start from, before Load overlays a file on top of it.
func Defaults() *RuntimeConfig {
	return &RuntimeConfig{
		Session: SessionConfig{
			IdleTimeout:    30 * time.Minute,
			EvictEvery:     100,
			MaxActivePages: 10,
		},
		Callback: CallbackConfig{
			ClearCacheTime: 15 * time.Minute,
		},
		Webhook: WebhookConfig{
			ListenAddr: ":8443",
			Path:       "/webhook",
		},
		I18n: I18nConfig{
			DefaultLang: "en",
			ResourceDir: ".",
		},
	}
}

// Load reads and parses path, overlaying it onto Defaults(). A missing
// file is not an error — it returns the defaults unchanged, matching a
// zero-config local run.
func Load(path string) (*RuntimeConfig, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
