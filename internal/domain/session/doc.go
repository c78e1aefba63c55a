// Package session tracks the auxiliary runtime bundled with the shell.
//
// The runtime is an external executable. Process launches it and reads
// frames from its stdout ("<id>|<command>|<args>" separated by blank
// lines); a "port" frame marks the Session ready, "ping" frames are
// answered with "pong" on stdin.
//
// Session states only move forward:
//
//	NotStarted -> Starting -> Ready(port)
//	                       \-> Failed
//
// Ready and Failed are terminal; a runtime that exits is never restarted.
// NodeState reads the current state without waiting:
//
//	code, port := sess.NodeState()
//	if code == errcode.ErrNodePortNotYetSet {
//	    // poll again later
//	}
package session
