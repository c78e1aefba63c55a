// Package server assembles the shell's loopback HTTP server.
//
// The router carries recovery, request logging, metrics, CORS and optional
// per-client rate limiting, and serves the bridge websocket, diagnostic
// endpoints and the editor content.
//
// Example Usage:
//
//	srv := server.New(cfg, server.Deps{Hub: hub, Catalog: b, Metrics: metrics, Logger: logger})
//	go srv.Run()
//	defer srv.Shutdown(ctx)
package server
