// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON lines, one "component" field per subsystem
//   - Development: Colored console output for human readability
//
// Every shell component receives a named child logger:
//
//	logger := logging.NewDefault()
//	bridgeLog := logger.Component("bridge")
//	bridgeLog.Info("call", zap.String("method", "fs.stat"))
package logging
