package safestreet

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/safestreet/safestreet-go/guard"
	"github.com/safestreet/safestreet-go/internal/notify"
	"github.com/safestreet/safestreet-go/internal/rate"
	"github.com/safestreet/safestreet-go/session"
)

// Builder assembles a [Client]. Builders are single-use: configure, call
// [Builder.Build] once, then discard.
type Builder struct {
	config     Config
	storage    session.Storage
	redis      *redis.Client
	httpClient *http.Client
	sink       notify.Sink
	logger     *zerolog.Logger
	now        func() time.Time

	built bool
}

// New returns a Builder preloaded with library defaults.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL overrides the API origin.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.HTTP.BaseURL = baseURL
	return b
}

// WithStorage injects a durable session store. Takes precedence over
// WithRedis and Session.StoragePath.
func (b *Builder) WithStorage(storage session.Storage) *Builder {
	b.storage = storage
	return b
}

// WithRedis installs Redis-backed session storage so a fleet of processes
// shares one session the way browser tabs share local storage.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithHTTPClient replaces the underlying transport. The provided client must
// carry a cookie jar if the backend uses cookie sessions.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithNotifySink routes user-visible notifications (toasts, session-expired
// notices) to sink.
func (b *Builder) WithNotifySink(sink notify.Sink) *Builder {
	b.sink = sink
	return b
}

// WithLogger attaches a zerolog logger for request-level debug output. The
// default logger discards everything.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithNowTime sets the time source (primarily for testing).
func (b *Builder) WithNowTime(nowFunc func() time.Time) *Builder {
	b.now = nowFunc
	return b
}

// WithMetricsEnabled toggles the in-process metrics system.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires every subsystem, and returns the
// ready client.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(cfg.HTTP.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	// -------- SESSION STORAGE --------
	storage := b.storage
	if storage == nil && b.redis != nil {
		storage, err = session.NewRedisStorage(b.redis, cfg.Session.RedisPrefix, cfg.Session.MaxAge)
		if err != nil {
			return nil, err
		}
	}
	if storage == nil && cfg.Session.StoragePath != "" {
		storage, err = session.NewFileStorage(cfg.Session.StoragePath)
		if err != nil {
			return nil, err
		}
	}
	if storage == nil {
		storage = session.NewMemoryStorage()
	}

	// -------- TRANSPORT --------
	httpClient := b.httpClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar}
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	logger := zerolog.Nop()
	if b.logger != nil {
		logger = *b.logger
	}

	client := &Client{
		config:      cfg,
		httpClient:  httpClient,
		baseURL:     baseURL,
		sessions:    session.NewManager(storage),
		coordinator: newRefreshCoordinator(cfg.Refresh, now),
		metrics:     NewMetrics(cfg.Metrics),
		pacer:       rate.New(rate.Config(cfg.Pacing)),
		logger:      logger,
		now:         now,
	}
	client.notifier = notify.NewDispatcher(notify.Config(cfg.Notify), b.sink)

	// -------- ROUTE GUARD --------
	routes := guard.NewRouteTable(cfg.Guard.DefaultLanding)
	routes.Register(session.RoleUser, cfg.Guard.UserLanding)
	routes.Register(session.RoleClient, cfg.Guard.ClientLanding)
	routes.Register(session.RoleAdmin, cfg.Guard.AdminLanding)
	routes.Register(session.RoleSuperAdmin, cfg.Guard.AdminLanding)
	routes.Freeze()
	client.guards = guard.New(routes, client.sessions, client.VerifyRole, cfg.Guard.LoginPath,
		guard.WithHomePath(cfg.Guard.HomePath),
		guard.WithOnRedirect(func(guard.Result) {
			client.metricInc(MetricGuardRedirect)
		}))

	b.built = true

	return client, nil
}
