package app

import (
	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// PendingFiles returns the files the shell was asked to open at launch as
// a serialized list, and forgets them.
func (m *Manager) PendingFiles() string {
	m.mu.Lock()
	files := m.pending
	m.pending = nil
	m.mu.Unlock()
	return m.serialize(files)
}

// DropFiles records files dropped onto the window.
func (m *Manager) DropFiles(paths ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropped = append(m.dropped, paths...)
}

// DroppedFiles returns dropped files as a serialized list, and forgets them.
func (m *Manager) DroppedFiles() string {
	m.mu.Lock()
	files := m.dropped
	m.dropped = nil
	m.mu.Unlock()
	return m.serialize(files)
}

func (m *Manager) serialize(files []string) string {
	if len(files) == 0 {
		return "[]"
	}
	out, err := sonic.MarshalString(files)
	if err != nil {
		m.log.Warn("Failed to serialize file list", zap.Error(err))
		return ""
	}
	return out
}
