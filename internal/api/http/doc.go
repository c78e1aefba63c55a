// Package http provides the loopback HTTP handlers of the shell.
//
// Endpoints:
//   - Health and launch history for diagnostics
//   - The bridge operation catalog
//   - Menu inspection and activation
//   - Window file drops and content log streaming
//   - Gzip-compressed editor content
package http
