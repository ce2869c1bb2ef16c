// Package monitoring provides Prometheus metrics for the gateway:
// HTTP request counters and latency histograms, per-operation call and
// error counters, WebSocket connection gauges, and process uptime.
package monitoring
