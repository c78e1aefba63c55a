package app

import (
	"errors"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appshell/internal/menu"
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/store"
)

// Zoom levels accepted by SetZoomLevel.
const (
	MinZoomLevel = -8.0
	MaxZoomLevel = 9.0
)

// ZoomStore persists the window zoom level.
type ZoomStore interface {
	ZoomLevel() (float64, error)
	SetZoomLevel(level float64) error
}

// Zoomer applies a zoom level to the window.
type Zoomer interface {
	ApplyZoom(level float64)
}

// Options configures a Manager.
type Options struct {
	SupportDir   string
	DocumentsDir string
	// Language overrides the locale read from the environment.
	Language            string
	RemoteDebuggingPort int
	PendingFiles        []string

	Store   ZoomStore
	Window  Zoomer
	Content menu.CommandSender
	Logger  *zap.Logger
	Now     func() time.Time
}

// Manager orchestrates the application lifecycle: quit confirmation, zoom,
// files handed to the shell and user directories.
type Manager struct {
	opts       Options
	log        *zap.Logger
	metrics    *monitoring.Metrics
	instanceID string
	started    time.Time

	mu       sync.Mutex
	quit     QuitState
	quitGen  uint64
	pending  []string
	dropped  []string
	teardown []func()
	done     chan struct{}
}

// NewManager creates a new app manager
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		opts:       opts,
		log:        opts.Logger.Named("app"),
		instanceID: uuid.NewString(),
		started:    opts.Now(),
		pending:    append([]string(nil), opts.PendingFiles...),
		done:       make(chan struct{}),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// SetContent sets the receiver of native-to-content commands.
func (m *Manager) SetContent(content menu.CommandSender) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts.Content = content
}

// InstanceID identifies this shell process.
func (m *Manager) InstanceID() string {
	return m.instanceID
}

// StartedAt returns the launch time.
func (m *Manager) StartedAt() time.Time {
	return m.started
}

// ElapsedMilliseconds returns the time since launch.
func (m *Manager) ElapsedMilliseconds() int64 {
	return m.opts.Now().Sub(m.started).Milliseconds()
}

// RemoteDebuggingPort returns the configured devtools port.
func (m *Manager) RemoteDebuggingPort() int {
	return m.opts.RemoteDebuggingPort
}

// ZoomLevel returns the persisted zoom level; 0 when never set.
func (m *Manager) ZoomLevel() (float64, errcode.Code) {
	if m.opts.Store == nil {
		return 0, errcode.NoError
	}
	level, err := m.opts.Store.ZoomLevel()
	switch {
	case errors.Is(err, store.ErrNotSet):
		return 0, errcode.NoError
	case err != nil:
		m.log.Warn("Failed to read zoom level", zap.Error(err))
		return 0, errcode.ErrCantRead
	}
	return level, errcode.NoError
}

// SetZoomLevel applies and persists a zoom level.
func (m *Manager) SetZoomLevel(level float64) errcode.Code {
	if math.IsNaN(level) || level < MinZoomLevel || level > MaxZoomLevel {
		return errcode.ErrInvalidParams
	}
	if m.opts.Window != nil {
		m.opts.Window.ApplyZoom(level)
	}
	if m.opts.Store == nil {
		return errcode.NoError
	}
	if err := m.opts.Store.SetZoomLevel(level); err != nil {
		m.log.Warn("Failed to persist zoom level", zap.Error(err))
		return errcode.ErrCantWrite
	}
	return errcode.NoError
}

// RestoreZoom applies the persisted zoom level to the window.
func (m *Manager) RestoreZoom() {
	level, code := m.ZoomLevel()
	if code.OK() && m.opts.Window != nil {
		m.opts.Window.ApplyZoom(level)
	}
}

// SupportDirectory returns the per-user application support directory.
func (m *Manager) SupportDirectory() string {
	return m.opts.SupportDir
}

// DocumentsDirectory returns the user's documents directory.
func (m *Manager) DocumentsDirectory() string {
	return m.opts.DocumentsDir
}

// Language returns the UI language as a BCP 47 tag ("en-US").
func (m *Manager) Language() string {
	if m.opts.Language != "" {
		return m.opts.Language
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag := localeTag(os.Getenv(env)); tag != "" {
			return tag
		}
	}
	return "en"
}

// localeTag converts a POSIX locale ("pt_BR.UTF-8@euro") to a tag.
func localeTag(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}
