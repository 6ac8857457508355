package internaldefs

import (
	safestreet "github.com/safestreet/safestreet-go"
)

// CounterDef binds a client metric ID to its stable exported name.
type CounterDef struct {
	ID   safestreet.MetricID
	Name string
	Help string
}

// HistogramDef binds a client histogram ID to its stable exported name.
type HistogramDef struct {
	ID   safestreet.MetricID
	Name string
	Help string
}

// CounterDefs is the canonical counter list shared by every exporter.
var CounterDefs = []CounterDef{
	{ID: safestreet.MetricRequestSuccess, Name: "safestreet_request_success_total", Help: "Requests answered with 2xx."},
	{ID: safestreet.MetricRequestFailure, Name: "safestreet_request_failure_total", Help: "Requests that failed with a non-2xx status or transport error."},
	{ID: safestreet.MetricRequestRetried, Name: "safestreet_request_retried_total", Help: "Original requests replayed after session recovery."},
	{ID: safestreet.MetricRefreshSuccess, Name: "safestreet_refresh_success_total", Help: "Successful session refresh calls."},
	{ID: safestreet.MetricRefreshFailure, Name: "safestreet_refresh_failure_total", Help: "Failed session refresh calls."},
	{ID: safestreet.MetricRefreshCoalesced, Name: "safestreet_refresh_coalesced_total", Help: "401s that joined an in-flight refresh instead of issuing their own."},
	{ID: safestreet.MetricRefreshCooldownRetry, Name: "safestreet_refresh_cooldown_retry_total", Help: "Requests replayed inside the refresh cooldown window."},
	{ID: safestreet.MetricForcedLogout, Name: "safestreet_forced_logout_total", Help: "Terminal session teardowns."},
	{ID: safestreet.MetricLoginSuccess, Name: "safestreet_login_success_total", Help: "Successful logins."},
	{ID: safestreet.MetricLoginFailure, Name: "safestreet_login_failure_total", Help: "Rejected logins, including approval-state rejections."},
	{ID: safestreet.MetricRoleSelfHeal, Name: "safestreet_role_self_heal_total", Help: "Verifications where the server role replaced a stale cached role."},
	{ID: safestreet.MetricVerifyFailure, Name: "safestreet_verify_failure_total", Help: "Role verifications that collapsed the session."},
	{ID: safestreet.MetricGuardRedirect, Name: "safestreet_guard_redirect_total", Help: "Route-guard decisions that redirected."},
}

// HistogramDefs is the canonical histogram list shared by every exporter.
var HistogramDefs = []HistogramDef{
	{ID: safestreet.MetricRequestLatency, Name: "safestreet_request_latency_seconds", Help: "Request latency histogram."},
}

// HistogramBounds are the upper bucket bounds, in seconds, as Prometheus
// label values.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix encodes the bounds as metric-name-safe suffixes for
// backends without bucket labels.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to cumulative counts; the
// last element is the total sample count.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
