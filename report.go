package safestreet

import "time"

// ClientReport is a point-in-time snapshot of the client's auth posture and
// active subsystems, for diagnostics pages and startup logging.
type ClientReport struct {
	BaseURL          string
	Authenticated    bool
	RoleVerified     bool
	Role             string
	RefreshCooldown  time.Duration
	RefreshAttempts  int
	RefreshTimeout   time.Duration
	CSRFExpiry       time.Time
	CSRFExpiryKnown  bool
	DurableSessions  bool
	PacingActive     bool
	MetricsActive    bool
	NotifyActive     bool
	GuardTableFrozen bool
}

// Report assembles the posture snapshot. Safe to call on a nil client.
func (c *Client) Report() ClientReport {
	if c == nil {
		return ClientReport{}
	}

	r := ClientReport{
		BaseURL:          c.config.HTTP.BaseURL,
		RefreshCooldown:  c.config.Refresh.Cooldown,
		RefreshAttempts:  c.config.Refresh.MaxAttempts,
		RefreshTimeout:   c.config.Refresh.Timeout,
		DurableSessions:  c.sessions.Durable(),
		PacingActive:     c.config.Pacing.Enabled && c.config.Pacing.RequestsPerSecond > 0,
		MetricsActive:    c.metrics.Enabled(),
		NotifyActive:     c.config.Notify.Enabled,
		GuardTableFrozen: c.guards != nil,
	}

	if s := c.sessions.Get(); s.Authenticated() {
		r.Authenticated = true
		r.RoleVerified = s.RoleVerified
		r.Role = string(s.User.Role)
	}
	r.CSRFExpiry, r.CSRFExpiryKnown = c.TokenExpiry()
	return r
}
