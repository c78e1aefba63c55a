package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/menu"
)

// QuitState is the position of the shell in the quit sequence.
type QuitState int

const (
	// QuitIdle means no quit is in progress.
	QuitIdle QuitState = iota
	// QuitConfirming means the content was asked to close and may still
	// cancel with abortQuit.
	QuitConfirming
	// QuitTearingDown is terminal; quit can no longer be cancelled.
	QuitTearingDown
)

func (s QuitState) String() string {
	switch s {
	case QuitConfirming:
		return "confirming"
	case QuitTearingDown:
		return "tearing_down"
	default:
		return "idle"
	}
}

// commandTimeout bounds how long the content may take to answer a command.
const commandTimeout = 30 * time.Second

// QuitState returns the current quit state.
func (m *Manager) QuitState() QuitState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quit
}

// OnTeardown registers fn to run once when teardown begins.
func (m *Manager) OnTeardown(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown = append(m.teardown, fn)
}

// Done is closed when teardown begins.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Quit starts or confirms quitting. From idle the content is asked to close
// its window; if it declines, or nothing is connected, teardown begins. A
// second Quit while confirming begins teardown.
func (m *Manager) Quit() {
	m.mu.Lock()
	state := m.quit
	content := m.opts.Content
	switch state {
	case QuitIdle:
		m.quit = QuitConfirming
		m.quitGen++
	case QuitConfirming:
		m.mu.Unlock()
		m.beginTeardown()
		return
	}
	gen := m.quitGen
	m.mu.Unlock()

	if state == QuitTearingDown {
		return
	}
	if content == nil {
		m.beginTeardown()
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		handled, err := content.SendCommand(ctx, menu.CommandCloseWindow)
		m.recordCommand(menu.CommandCloseWindow, handled)
		if err != nil {
			m.log.Warn("Content did not answer close request", zap.Error(err))
		}
		if err != nil || !handled {
			m.confirmTeardown(gen)
		}
	}()
}

// AbortQuit cancels a quit that is still being confirmed. It has no effect
// in any other state.
func (m *Manager) AbortQuit() bool {
	m.mu.Lock()
	if m.quit != QuitConfirming {
		m.mu.Unlock()
		return false
	}
	m.quit = QuitIdle
	content := m.opts.Content
	m.mu.Unlock()

	m.log.Info("Quit aborted")
	if content != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()
			handled, err := content.SendCommand(ctx, menu.CommandAbortQuit)
			m.recordCommand(menu.CommandAbortQuit, handled)
			if err != nil {
				m.log.Debug("Content did not answer abort", zap.Error(err))
			}
		}()
	}
	return true
}

// confirmTeardown begins teardown only if the quit numbered gen is still
// being confirmed. A reply to a quit that was aborted, even one followed by
// a new quit, is ignored.
func (m *Manager) confirmTeardown(gen uint64) {
	m.mu.Lock()
	current := m.quitGen == gen
	m.mu.Unlock()
	if !current {
		m.log.Debug("Ignoring close reply for an aborted quit")
		return
	}
	m.teardownFrom(QuitConfirming)
}

func (m *Manager) beginTeardown() {
	m.teardownFrom(QuitIdle, QuitConfirming)
}

func (m *Manager) teardownFrom(states ...QuitState) {
	m.mu.Lock()
	allowed := false
	for _, s := range states {
		allowed = allowed || m.quit == s
	}
	if !allowed {
		m.mu.Unlock()
		return
	}
	m.quit = QuitTearingDown
	hooks := m.teardown
	m.teardown = nil
	m.mu.Unlock()

	m.log.Info("Tearing down")
	close(m.done)
	for _, fn := range hooks {
		fn()
	}
}

func (m *Manager) recordCommand(command string, handled bool) {
	if m.metrics != nil {
		m.metrics.RecordContentCommand(command, handled)
	}
}
