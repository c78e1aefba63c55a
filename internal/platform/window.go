package platform

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// ErrNoEditTarget is returned by windows without a native text field to
// apply edit commands to.
var ErrNoEditTarget = errors.New("window has no native edit target")

// Window controls the top-level shell window.
type Window interface {
	ShowDeveloperTools(ctx context.Context) errcode.Code
	DragWindow() errcode.Code
	ApplyZoom(level float64)
	Zoom() float64
	ApplyEdit(ctx context.Context, command string) error
}

// HeadlessWindow is the window of a shell whose content is rendered by an
// external embedder. Developer tools open the remote debugging front end in
// the default browser.
type HeadlessWindow struct {
	backend   Backend
	debugPort int
	log       *zap.Logger

	mu   sync.Mutex
	zoom float64
}

// NewHeadlessWindow creates a window bound to backend.
func NewHeadlessWindow(backend Backend, debugPort int, log *zap.Logger) *HeadlessWindow {
	if log == nil {
		log = zap.NewNop()
	}
	return &HeadlessWindow{backend: backend, debugPort: debugPort, log: log.Named("window")}
}

// ShowDeveloperTools opens the devtools front end of the content.
func (w *HeadlessWindow) ShowDeveloperTools(ctx context.Context) errcode.Code {
	if w.debugPort <= 0 || !w.backend.Capabilities().RemoteDebugging {
		return errcode.ErrUnknown
	}
	return w.backend.OpenURL(ctx, "http://127.0.0.1:"+strconv.Itoa(w.debugPort))
}

// DragWindow is accepted and ignored; there is no native frame to move.
func (w *HeadlessWindow) DragWindow() errcode.Code {
	w.log.Debug("Drag requested")
	return errcode.NoError
}

// ApplyZoom records the zoom level for the embedder.
func (w *HeadlessWindow) ApplyZoom(level float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.zoom = level
}

// Zoom returns the applied zoom level.
func (w *HeadlessWindow) Zoom() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.zoom
}

// ApplyEdit always fails: edit commands must be handled by the content.
func (w *HeadlessWindow) ApplyEdit(_ context.Context, command string) error {
	w.log.Debug("No native edit target", zap.String("command", command))
	return ErrNoEditTarget
}
