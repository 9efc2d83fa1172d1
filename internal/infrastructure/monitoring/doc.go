/*
Package monitoring provides metrics collection for the PTY wrapper.

# Overview

This package implements Prometheus-based metrics for the hosted session:
bytes moved through the PTY, classified output chunks, injected
suggestions, estimated tokens, resizes, and read latency.

# Usage

	// Create metrics collector on a registry
	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	// Record values from the host pipeline
	metrics.RecordBytes(monitoring.DirectionOut, n)
	metrics.RecordChunk(content.String())

	// Time PTY reads
	timer := monitoring.NewTimer(metrics)
	// ... read ...
	timer.Stop()

# Metrics Endpoint

Expose metrics via the status server:

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
*/
package monitoring
