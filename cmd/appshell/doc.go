// Command appshell runs the native side of the editor shell.
//
// It serves the editor content and the bridge websocket on a loopback
// address, keeps the menu tree and application state, and supervises the
// auxiliary runtime.
//
// Usage:
//
//	appshell [--config shell.toml] [--port 8123] [--dev] [--no-runtime] [file...]
//
// Configuration is read from APPSHELL_* environment variables, then the
// TOML file, then flags.
package main
