package bridge

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appshell/internal/menu"
	"github.com/GriffinCanCode/appshell/internal/platform"
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// Timings applied to deferred and bounded calls.
const (
	DialogDelay         = 10 * time.Millisecond
	CloseBrowserTimeout = 3 * time.Minute
)

// MenuTree is the menu state the bridge mutates.
type MenuTree interface {
	AddMenu(title, id string, position menu.Position, relativeID string) errcode.Code
	AddMenuItem(parentID, title, id, key, displayStr string, position menu.Position, relativeID string) errcode.Code
	RemoveMenu(id string) errcode.Code
	RemoveMenuItem(id string) errcode.Code
	SetMenuTitle(id, title string) errcode.Code
	GetMenuTitle(id string) (string, errcode.Code)
	SetMenuItemState(id string, enabled, checked bool) errcode.Code
	GetMenuItemState(id string) (enabled, checked bool, index int, code errcode.Code)
	SetMenuItemShortcut(id, key, displayStr string) errcode.Code
	GetMenuPosition(id string) (string, int, errcode.Code)
}

// RuntimeState reports the auxiliary runtime's state without blocking.
type RuntimeState interface {
	NodeState() (errcode.Code, int)
}

// Application is the app lifecycle the bridge forwards to.
type Application interface {
	Quit()
	AbortQuit() bool
	ElapsedMilliseconds() int64
	RemoteDebuggingPort() int
	PendingFiles() string
	DroppedFiles() string
	SupportDirectory() string
	DocumentsDirectory() string
	Language() string
	ZoomLevel() (float64, errcode.Code)
	SetZoomLevel(level float64) errcode.Code
}

// Deps are the collaborators a Bridge dispatches to.
type Deps struct {
	Loop    *Loop
	Backend platform.Backend
	Window  platform.Window
	Menus   MenuTree
	Session RuntimeState
	App     Application
	Metrics *monitoring.Metrics
	Logger  *zap.Logger
}

// Bridge exposes every native capability as a call with a trailing
// completion callback. Callbacks always run on the loop in a task of
// their own, after the call that registered them has returned.
type Bridge struct {
	loop    *Loop
	backend platform.Backend
	window  platform.Window
	menus   MenuTree
	session RuntimeState
	app     Application
	metrics *monitoring.Metrics
	log     *zap.Logger

	dialogDelay  time.Duration
	closeTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a bridge. The loop must be started by the caller.
func New(deps Deps) *Bridge {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	loop := deps.Loop
	if loop == nil {
		loop = NewLoop(log)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		loop:         loop,
		backend:      deps.Backend,
		window:       deps.Window,
		menus:        deps.Menus,
		session:      deps.Session,
		app:          deps.App,
		metrics:      deps.Metrics,
		log:          log.Named("bridge"),
		dialogDelay:  DialogDelay,
		closeTimeout: CloseBrowserTimeout,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Loop returns the loop the bridge dispatches on.
func (b *Bridge) Loop() *Loop {
	return b.loop
}

// Close cancels helper processes still running for pending calls.
func (b *Bridge) Close() {
	b.cancel()
}

// work performs a call and returns its code plus the delivery of its
// results to the callback.
type work func() (errcode.Code, func())

// onLoop runs w on the loop.
func (b *Bridge) onLoop(method string, w work) {
	timer := monitoring.NewTimer(b.metrics, method)
	if !b.loop.Post(func() {
		code, deliver := w()
		b.complete(method, timer, code, deliver)
	}) {
		b.dropped(method, timer)
	}
}

// offLoop runs w on its own goroutine after delay. It is used for calls that
// wait on helper processes or the network so the loop keeps serving.
func (b *Bridge) offLoop(method string, delay time.Duration, w work) {
	timer := monitoring.NewTimer(b.metrics, method)
	start := func() {
		go func() {
			code, deliver := w()
			b.complete(method, timer, code, deliver)
		}()
	}
	if delay > 0 {
		b.loop.PostAfter(delay, start, func() { b.dropped(method, timer) })
		return
	}
	if !b.loop.Post(start) {
		b.dropped(method, timer)
	}
}

func (b *Bridge) complete(method string, timer *monitoring.Timer, code errcode.Code, deliver func()) {
	if !b.loop.Post(func() {
		timer.Stop(code.String(), !code.OK())
		if !code.OK() {
			b.log.Debug("Call failed", zap.String("method", method), zap.Stringer("code", code))
		}
		deliver()
	}) {
		b.dropped(method, timer)
	}
}

func (b *Bridge) dropped(method string, timer *monitoring.Timer) {
	b.log.Warn("Loop stopped, dropping callback", zap.String("method", method))
	timer.Stop(errcode.ErrUnknown.String(), true)
}

// done builds the delivery of a result-less callback.
func done(cb Callback, code errcode.Code) (errcode.Code, func()) {
	return code, func() { cb(code) }
}
