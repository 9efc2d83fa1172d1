// Package server exposes the wrapper's metrics and session status on a
// local HTTP endpoint.
//
// Routes:
//
//	GET /health          liveness plus whether the child is running
//	GET /session         host.Stats as JSON
//	GET /session/output  recent child output as text (?bytes=N)
//	GET /metrics         Prometheus exposition
//	GET /metrics/json    monitoring.Snapshot as JSON
package server
