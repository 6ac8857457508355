// Package rate paces outbound requests with a local token bucket so a burst
// of page loads cannot hammer the backend. Disabled by default; the refresh
// endpoint is never paced because delaying it would stall every queued
// request behind the coordinator.
package rate
