// Package types provides shared data structures for the shell.
//
// Core Types:
//   - FileStat, StatWire: File metadata and its bridge form
//   - ReadResult: Decoded file contents
//   - Service, Operation, Parameter: Bridge operation catalog
//   - Capabilities: Optional features a platform back-end supports
//
// Example Usage:
//
//	info, _ := os.Stat(path)
//	stat := types.NewFileStat(info, "")
//	wire := stat.Wire()
package types
