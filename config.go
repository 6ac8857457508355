package safestreet

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config defines the full tuning surface of the SDK.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable; [Builder.Build] clones them.
type Config struct {
	HTTP    HTTPConfig    `envPrefix:"SAFESTREET_HTTP_"`
	Refresh RefreshConfig `envPrefix:"SAFESTREET_REFRESH_"`
	Session SessionConfig `envPrefix:"SAFESTREET_SESSION_"`
	Guard   GuardConfig   `envPrefix:"SAFESTREET_GUARD_"`
	Notify  NotifyConfig  `envPrefix:"SAFESTREET_NOTIFY_"`
	Metrics MetricsConfig `envPrefix:"SAFESTREET_METRICS_"`
	Pacing  PacingConfig  `envPrefix:"SAFESTREET_PACING_"`
}

/*
====================================
HTTP CONFIG
====================================
*/

// HTTPConfig covers the transport-level settings of the client.
type HTTPConfig struct {
	// BaseURL is the API origin including the /api base path.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:4000/api"`
	// Timeout bounds every non-refresh request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
	// UserAgent is sent on every request.
	UserAgent string `env:"USER_AGENT" envDefault:"safestreet-go"`
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig tunes the single-flight refresh coordinator. Zero values are
// replaced by the defaults shown on each field.
type RefreshConfig struct {
	// Cooldown is the window after a refresh attempt during which a new 401
	// does not trigger another refresh; the request assumes a sibling process
	// refreshed the shared session and simply retries.
	Cooldown time.Duration `env:"COOLDOWN" envDefault:"5s"`
	// RetryDelay is how long a cooldown-window 401 waits before its single
	// replay of the original request.
	RetryDelay time.Duration `env:"RETRY_DELAY" envDefault:"100ms"`
	// MaxAttempts caps consecutive failed refreshes before forced logout.
	MaxAttempts int `env:"MAX_ATTEMPTS" envDefault:"3"`
	// Timeout bounds the refresh network call itself.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig selects the durable storage backend when none is injected
// through the builder.
type SessionConfig struct {
	// StoragePath, when set, persists the session to this file.
	StoragePath string `env:"STORAGE_PATH"`
	// RedisPrefix namespaces the session key when Redis storage is used.
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"safestreet"`
	// MaxAge expires Redis-stored sessions; zero keeps them until cleared.
	MaxAge time.Duration `env:"MAX_AGE"`
}

/*
====================================
GUARD CONFIG
====================================
*/

// GuardConfig fixes the route targets guards redirect to. Each role has its
// own landing page: a visitor who fails a role check lands on their own
// dashboard, never on a generic forbidden page.
type GuardConfig struct {
	LoginPath      string `env:"LOGIN_PATH" envDefault:"/login"`
	HomePath       string `env:"HOME_PATH" envDefault:"/"`
	UserLanding    string `env:"USER_LANDING" envDefault:"/dashboard"`
	ClientLanding  string `env:"CLIENT_LANDING" envDefault:"/client"`
	AdminLanding   string `env:"ADMIN_LANDING" envDefault:"/admin"`
	DefaultLanding string `env:"DEFAULT_LANDING" envDefault:"/"`
}

/*
====================================
NOTIFY / METRICS / PACING
====================================
*/

// NotifyConfig controls the notification dispatcher.
type NotifyConfig struct {
	Enabled    bool `env:"ENABLED" envDefault:"true"`
	BufferSize int  `env:"BUFFER_SIZE" envDefault:"64"`
	DropIfFull bool `env:"DROP_IF_FULL" envDefault:"true"`
}

// MetricsConfig controls the in-process metrics system.
type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED" envDefault:"true"`
	EnableLatencyHistograms bool `env:"LATENCY_HISTOGRAMS"`
}

// PacingConfig throttles outbound requests; disabled by default.
type PacingConfig struct {
	Enabled           bool    `env:"ENABLED"`
	RequestsPerSecond float64 `env:"RPS" envDefault:"25"`
	Burst             int     `env:"BURST" envDefault:"10"`
}

func defaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			BaseURL:   "http://localhost:4000/api",
			Timeout:   30 * time.Second,
			UserAgent: "safestreet-go",
		},
		Refresh: RefreshConfig{
			Cooldown:    5 * time.Second,
			RetryDelay:  100 * time.Millisecond,
			MaxAttempts: 3,
			Timeout:     10 * time.Second,
		},
		Session: SessionConfig{
			RedisPrefix: "safestreet",
		},
		Guard: GuardConfig{
			LoginPath:      "/login",
			HomePath:       "/",
			UserLanding:    "/dashboard",
			ClientLanding:  "/client",
			AdminLanding:   "/admin",
			DefaultLanding: "/",
		},
		Notify: NotifyConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Pacing: PacingConfig{
			RequestsPerSecond: 25,
			Burst:             10,
		},
	}
}

// cloneConfig returns a value copy; Config has no reference fields today but
// every construction path goes through here so adding one later stays safe.
func cloneConfig(cfg Config) Config {
	return cfg
}

// ConfigFromEnv builds a Config from SAFESTREET_* environment variables on
// top of library defaults.
func ConfigFromEnv() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("safestreet: parse environment: %w", err)
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime behavior.
func (c *Config) Validate() error {
	if c.HTTP.BaseURL == "" {
		return errors.New("HTTP.BaseURL required")
	}
	u, err := url.Parse(c.HTTP.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("HTTP.BaseURL invalid: %q", c.HTTP.BaseURL)
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("HTTP.Timeout must be positive")
	}
	if c.Refresh.MaxAttempts < 1 {
		return errors.New("Refresh.MaxAttempts must be at least 1")
	}
	if c.Refresh.Timeout <= 0 {
		return errors.New("Refresh.Timeout must be positive")
	}
	if c.Refresh.Cooldown < 0 || c.Refresh.RetryDelay < 0 {
		return errors.New("Refresh durations must not be negative")
	}
	if c.Refresh.RetryDelay >= c.Refresh.Cooldown && c.Refresh.Cooldown > 0 {
		return errors.New("Refresh.RetryDelay must be shorter than Refresh.Cooldown")
	}
	if c.Guard.LoginPath == "" {
		return errors.New("Guard.LoginPath required")
	}
	if c.Pacing.Enabled && c.Pacing.RequestsPerSecond <= 0 {
		return errors.New("Pacing.RequestsPerSecond must be positive when pacing is enabled")
	}
	return nil
}
