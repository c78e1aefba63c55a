// Package middleware provides HTTP middleware for the shell's loopback server.
//
// Middleware stack includes:
//   - CORS: content origins on loopback plus configured extras
//   - RateLimit: per-IP token bucket with idle client eviction
//   - GlobalRateLimit: one bucket for all clients
//   - RequestLogger: X-Request-ID tagging and zap request logs
//
// Example Usage:
//
//	router.Use(middleware.RequestLogger(logger))
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
