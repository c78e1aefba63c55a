/*
Package monitoring provides Prometheus metrics for the shell.

# Overview

Metrics live on a private registry so several shells (or tests) can run in
one process. The registry also carries the Go and process collectors.

# Features

- HTTP request metrics (latency, status)
- Bridge call metrics (result code, callback latency, pending calls)
- Content command metrics (handled or declined)
- WebSocket connection metrics
- Auxiliary runtime state and port

# Usage

	metrics := monitoring.NewMetrics()
	defer metrics.Close()

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "fs.stat")
	// ... deliver callback ...
	timer.Stop("NO_ERROR", false)
*/
package monitoring
