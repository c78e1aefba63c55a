package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/appshell/internal/menu"
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/store"
)

type MockContent struct {
	mock.Mock
	sent chan string
}

func newMockContent() *MockContent {
	return &MockContent{sent: make(chan string, 8)}
}

func (m *MockContent) SendCommand(ctx context.Context, commandID string) (bool, error) {
	args := m.Called(commandID)
	m.sent <- commandID
	return args.Bool(0), args.Error(1)
}

func (m *MockContent) waitSent(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-m.sent:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("command %s was not sent", want)
	}
}

// heldContent blocks its first close request until released and answers
// every later one as handled.
type heldContent struct {
	mu      sync.Mutex
	closes  int
	entered chan string
	release chan bool
}

func newHeldContent() *heldContent {
	return &heldContent{entered: make(chan string, 8), release: make(chan bool)}
}

func (c *heldContent) SendCommand(_ context.Context, commandID string) (bool, error) {
	c.entered <- commandID
	if commandID != menu.CommandCloseWindow {
		return true, nil
	}
	c.mu.Lock()
	c.closes++
	first := c.closes == 1
	c.mu.Unlock()
	if first {
		return <-c.release, nil
	}
	return true, nil
}

func (c *heldContent) waitEntered(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-c.entered:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("command %s was not sent", want)
	}
}

type recordingWindow struct {
	zoom float64
}

func (w *recordingWindow) ApplyZoom(level float64) { w.zoom = level }

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "shell.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func waitDone(t *testing.T, m *Manager) {
	t.Helper()
	select {
	case <-m.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("teardown did not begin")
	}
}

func TestQuitWithoutContentTearsDown(t *testing.T) {
	m := NewManager(Options{})
	ran := 0
	m.OnTeardown(func() { ran++ })

	m.Quit()
	waitDone(t, m)
	assert.Equal(t, QuitTearingDown, m.QuitState())

	m.Quit()
	assert.Equal(t, 1, ran)
	assert.False(t, m.AbortQuit(), "abort after teardown has no effect")
}

func TestQuitDeclinedByContent(t *testing.T) {
	content := newMockContent()
	content.On("SendCommand", menu.CommandCloseWindow).Return(false, nil)

	m := NewManager(Options{Content: content})
	m.Quit()
	waitDone(t, m)
	content.AssertExpectations(t)
}

func TestQuitContentErrorTearsDown(t *testing.T) {
	content := newMockContent()
	content.On("SendCommand", menu.CommandCloseWindow).Return(false, errors.New("disconnected"))

	m := NewManager(Options{Content: content})
	m.Quit()
	waitDone(t, m)
}

func TestQuitConfirmedByContent(t *testing.T) {
	content := newMockContent()
	content.On("SendCommand", menu.CommandCloseWindow).Return(true, nil)

	m := NewManager(Options{Content: content})
	m.Quit()
	content.waitSent(t, menu.CommandCloseWindow)
	assert.Equal(t, QuitConfirming, m.QuitState())

	m.Quit()
	waitDone(t, m)
}

func TestAbortQuit(t *testing.T) {
	content := newMockContent()
	content.On("SendCommand", menu.CommandCloseWindow).Return(true, nil)
	content.On("SendCommand", menu.CommandAbortQuit).Return(true, nil)

	m := NewManager(Options{Content: content})
	assert.False(t, m.AbortQuit(), "nothing to abort")

	m.Quit()
	content.waitSent(t, menu.CommandCloseWindow)
	assert.True(t, m.AbortQuit())
	assert.Equal(t, QuitIdle, m.QuitState())
	content.waitSent(t, menu.CommandAbortQuit)
	select {
	case <-m.Done():
		t.Fatal("aborted quit must not tear down")
	default:
	}
}

func TestLateReplyToAbortedQuitIsIgnored(t *testing.T) {
	content := newHeldContent()
	m := NewManager(Options{Content: content})

	m.Quit()
	content.waitEntered(t, menu.CommandCloseWindow)
	require.True(t, m.AbortQuit())
	content.waitEntered(t, menu.CommandAbortQuit)

	m.Quit()
	content.waitEntered(t, menu.CommandCloseWindow)
	require.Equal(t, QuitConfirming, m.QuitState())

	// The first quit's content declines only now.
	content.release <- false
	assert.Never(t, func() bool {
		return m.QuitState() != QuitConfirming
	}, 100*time.Millisecond, 5*time.Millisecond)

	assert.True(t, m.AbortQuit(), "the second quit stays abortable")
	assert.Equal(t, QuitIdle, m.QuitState())
}

func TestZoomPersistence(t *testing.T) {
	s := openStore(t)
	window := &recordingWindow{}
	m := NewManager(Options{Store: s, Window: window})

	level, code := m.ZoomLevel()
	assert.Equal(t, errcode.NoError, code)
	assert.Equal(t, 0.0, level)

	require.Equal(t, errcode.NoError, m.SetZoomLevel(1.5))
	assert.Equal(t, 1.5, window.zoom)

	restored := &recordingWindow{}
	NewManager(Options{Store: s, Window: restored}).RestoreZoom()
	assert.Equal(t, 1.5, restored.zoom)

	assert.Equal(t, errcode.ErrInvalidParams, m.SetZoomLevel(42))
	assert.Equal(t, 1.5, window.zoom)
}

func TestPendingAndDroppedFiles(t *testing.T) {
	m := NewManager(Options{PendingFiles: []string{"/a.js", "/b c.css"}})

	var files []string
	require.NoError(t, sonic.UnmarshalString(m.PendingFiles(), &files))
	assert.Equal(t, []string{"/a.js", "/b c.css"}, files)
	assert.Equal(t, "[]", m.PendingFiles(), "pending files are drained")

	assert.Equal(t, "[]", m.DroppedFiles())
	m.DropFiles("/x.md")
	m.DropFiles("/y.md")
	require.NoError(t, sonic.UnmarshalString(m.DroppedFiles(), &files))
	assert.Equal(t, []string{"/x.md", "/y.md"}, files)
}

func TestElapsedMilliseconds(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(Options{Now: func() time.Time { return now }})
	now = now.Add(1500 * time.Millisecond)
	assert.Equal(t, int64(1500), m.ElapsedMilliseconds())
}

func TestLanguage(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "pt_BR.UTF-8")
	assert.Equal(t, "pt-BR", NewManager(Options{}).Language())

	t.Setenv("LANG", "C")
	assert.Equal(t, "en", NewManager(Options{}).Language())

	t.Setenv("LC_ALL", "de_DE@euro")
	assert.Equal(t, "de-DE", NewManager(Options{}).Language())

	assert.Equal(t, "fr", NewManager(Options{Language: "fr"}).Language())
}

func TestInstanceID(t *testing.T) {
	a, b := NewManager(Options{}), NewManager(Options{})
	assert.Len(t, a.InstanceID(), 36)
	assert.NotEqual(t, a.InstanceID(), b.InstanceID())
}
