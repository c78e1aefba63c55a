package session

import (
	"sync"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// State is the lifecycle state of the auxiliary runtime.
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateReady
	StateFailed
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed
}

// Listener observes state transitions.
type Listener func(state State, port int)

// Session tracks the auxiliary runtime. Transitions only move forward:
// NotStarted -> Starting -> Ready(port) | Failed. Readers never block on
// the runtime itself.
type Session struct {
	mu        sync.RWMutex
	state     State
	port      int
	listeners []Listener
}

// New creates a session in the NotStarted state.
func New() *Session {
	return &Session{}
}

// OnChange registers a listener called after every transition.
func (s *Session) OnChange(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Snapshot returns the current state and port (0 unless Ready).
func (s *Session) Snapshot() (State, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.port
}

// NodeState reports the runtime port, or the lifecycle code that explains
// why there is none yet.
func (s *Session) NodeState() (errcode.Code, int) {
	state, port := s.Snapshot()
	switch state {
	case StateReady:
		return errcode.NoError, port
	case StateStarting:
		return errcode.ErrNodePortNotYetSet, 0
	case StateFailed:
		return errcode.ErrNodeFailed, 0
	default:
		return errcode.ErrNodeNotYetStarted, 0
	}
}

// MarkStarting moves NotStarted to Starting.
func (s *Session) MarkStarting() bool {
	return s.transition(StateStarting, 0, StateNotStarted)
}

// MarkReady records the port reported by the runtime.
func (s *Session) MarkReady(port int) bool {
	if port < 0 || port > 65535 {
		return false
	}
	return s.transition(StateReady, port, StateNotStarted, StateStarting)
}

// MarkFailed moves any non-terminal state to Failed.
func (s *Session) MarkFailed() bool {
	return s.transition(StateFailed, 0, StateNotStarted, StateStarting)
}

func (s *Session) transition(to State, port int, from ...State) bool {
	s.mu.Lock()
	allowed := false
	for _, f := range from {
		if s.state == f {
			allowed = true
			break
		}
	}
	if !allowed {
		s.mu.Unlock()
		return false
	}
	s.state = to
	s.port = port
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(to, port)
	}
	return true
}
