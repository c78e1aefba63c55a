// Package ws serves the bridge to the embedded content over websockets.
//
// Each connection carries JSON-RPC 2.0:
//   - content to shell: method is the bridge method ("fs.stat"), params are
//     the positional arguments, the result is [code, ...values]
//   - shell to content: method "command" with params [commandId], the
//     result is true when the content handled the command
//
// Unknown methods answer with a method-not-found error and malformed
// arguments with an invalid-params error; neither reaches the bridge.
//
// Example Usage:
//
//	hub := ws.NewHub(bridge, ws.Options{Metrics: metrics, Logger: logger})
//	router.GET("/bridge", hub.HandleConnection)
package ws
