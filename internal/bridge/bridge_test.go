package bridge

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/appshell/internal/domain/session"
	"github.com/GriffinCanCode/appshell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/appshell/internal/menu"
	"github.com/GriffinCanCode/appshell/internal/platform"
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

func newBridge(t *testing.T, backend platform.Backend, app Application) (*Bridge, *menu.Tree, *session.Session) {
	t.Helper()
	loop := NewLoop(nil)
	loop.Start()

	tree := menu.NewTree()
	sess := session.New()
	b := New(Deps{
		Loop:    loop,
		Backend: backend,
		Window:  platform.NewHeadlessWindow(backend, 0, nil),
		Menus:   tree,
		Session: sess,
		App:     app,
	})
	t.Cleanup(func() {
		b.Close()
		loop.Stop()
	})
	return b, tree, sess
}

func nativeBridge(t *testing.T) *Bridge {
	b, _, _ := newBridge(t, platform.New(platform.Options{}), new(MockApp))
	return b
}

// invoke calls method with positional params and waits for the reply.
func invoke(t *testing.T, b *Bridge, method string, params ...any) []any {
	t.Helper()
	raw, err := sonic.Marshal(params)
	require.NoError(t, err)

	result := make(chan []any, 1)
	require.NoError(t, b.Invoke(method, raw, func(r []any) { result <- r }))

	select {
	case r := <-result:
		return r
	case <-time.After(5 * time.Second):
		t.Fatalf("%s: no reply", method)
		return nil
	}
}

func code(c errcode.Code) int {
	return int(c)
}

func TestFileScenario(t *testing.T) {
	b := nativeBridge(t)
	dir := filepath.Join(t.TempDir(), "X")
	file := filepath.Join(dir, "f.txt")

	assert.Equal(t, []any{code(errcode.NoError)}, invoke(t, b, "fs.makedir", dir, 0o755))
	assert.Equal(t, []any{code(errcode.NoError)}, invoke(t, b, "fs.writeFile", file, "hello", "utf8"))
	assert.Equal(t, []any{code(errcode.NoError), "hello", "utf8", false}, invoke(t, b, "fs.readFile", file, "utf8"))
	assert.Equal(t, []any{code(errcode.NoError)}, invoke(t, b, "fs.unlink", file))
	assert.Equal(t, []any{code(errcode.ErrNotFound), nil}, invoke(t, b, "fs.stat", file))
}

func TestStatMissingPath(t *testing.T) {
	b := nativeBridge(t)

	got := make(chan errcode.Code, 1)
	b.Stat(filepath.Join(t.TempDir(), "missing"), func(code errcode.Code, stat types.FileStat) {
		assert.Equal(t, types.FileStat{}, stat)
		got <- code
	})
	assert.Equal(t, errcode.ErrNotFound, <-got)
}

func TestReadDirWithStatsAligned(t *testing.T) {
	b := nativeBridge(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("bb"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	r := invoke(t, b, "fs.readDirWithStats", dir)
	require.Len(t, r, 3)
	assert.Equal(t, code(errcode.NoError), r[0])

	names := r[1].([]string)
	stats := r[2].([]types.StatWire)
	require.Len(t, stats, len(names))
	assert.Equal(t, []string{"sub", "a.txt", "b.txt"}, names)
	assert.True(t, stats[0].IsDirectory)
	assert.Equal(t, int64(2), stats[2].Size)

	r = invoke(t, b, "fs.readDirWithStats", filepath.Join(dir, "a.txt"))
	assert.Equal(t, []any{code(errcode.ErrNotDirectory), []string{}, []types.StatWire{}}, r)
}

func TestChmodIdempotent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not fully supported on windows")
	}
	b := nativeBridge(t)
	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.Equal(t, []any{code(errcode.NoError)}, invoke(t, b, "fs.chmod", file, 0o600))
	first := invoke(t, b, "fs.stat", file)
	assert.Equal(t, []any{code(errcode.NoError)}, invoke(t, b, "fs.chmod", file, 0o600))
	second := invoke(t, b, "fs.stat", file)

	assert.Equal(t, uint32(0o600), first[1].(types.StatWire).Mode)
	assert.Equal(t, first[1].(types.StatWire).Mode, second[1].(types.StatWire).Mode)

	assert.Equal(t, []any{code(errcode.ErrInvalidParams)}, invoke(t, b, "fs.chmod", file, -1))
}

func TestCallbacksAreNeverReentrant(t *testing.T) {
	b := nativeBridge(t)
	dir := t.TempDir()

	var registered atomic.Bool
	fired := make(chan bool, 2)
	b.Loop().Post(func() {
		b.Stat(dir, func(errcode.Code, types.FileStat) { fired <- registered.Load() })
		b.GetNodeState(func(errcode.Code, int) { fired <- registered.Load() })
		registered.Store(true)
	})

	for i := 0; i < 2; i++ {
		select {
		case ok := <-fired:
			assert.True(t, ok, "callback ran inside the registering call")
		case <-time.After(5 * time.Second):
			t.Fatal("callback never ran")
		}
	}
}

func TestNilCallbacksAreAccepted(t *testing.T) {
	b := nativeBridge(t)
	dir := t.TempDir()

	assert.NotPanics(t, func() {
		b.Stat(dir, nil)
		b.ReadDirWithStats(dir, nil)
		b.MakeDir(filepath.Join(dir, "new"), 0o755, nil)
		b.GetNodeState(nil)
		b.GetMenuPosition("missing", nil)
	})

	done := make(chan errcode.Code, 1)
	b.Stat(filepath.Join(dir, "new"), func(code errcode.Code, _ types.FileStat) { done <- code })
	assert.Equal(t, errcode.NoError, <-done)
}

func TestMenuScenario(t *testing.T) {
	b := nativeBridge(t)
	ok := []any{code(errcode.NoError)}

	assert.Equal(t, ok, invoke(t, b, "app.addMenu", "File", "file", "first", ""))
	assert.Equal(t, ok, invoke(t, b, "app.addMenuItem", "file", "Open", "file.open", "Cmd-O", "", "first", ""))
	assert.Equal(t, []any{code(errcode.NoError), "Open"}, invoke(t, b, "app.getMenuTitle", "file.open"))
	assert.Equal(t, []any{code(errcode.NoError), "file", 0}, invoke(t, b, "app.getMenuPosition", "file.open"))
	assert.Equal(t, []any{code(errcode.NoError), nil, 0}, invoke(t, b, "app.getMenuPosition", "file"))

	assert.Equal(t, ok, invoke(t, b, "app.setMenuItemState", "file.open", false, true))
	assert.Equal(t, []any{code(errcode.NoError), false, true, 0}, invoke(t, b, "app.getMenuItemState", "file.open"))
	assert.Equal(t, ok, invoke(t, b, "app.setMenuItemShortcut", "file.open", "Cmd-Shift-O", ""))
	assert.Equal(t, ok, invoke(t, b, "app.setMenuTitle", "file.open", "Open…"))

	assert.Equal(t, ok, invoke(t, b, "app.removeMenuItem", "file.open"))
	assert.Equal(t, []any{code(errcode.ErrNotFound), nil, -1}, invoke(t, b, "app.getMenuPosition", "file.open"))

	assert.Equal(t, []any{code(errcode.ErrFileExists)}, invoke(t, b, "app.addMenu", "Again", "file", "", ""))
	assert.Equal(t, ok, invoke(t, b, "app.removeMenu", "file"))
	assert.Equal(t, []any{code(errcode.ErrNotFound), ""}, invoke(t, b, "app.getMenuTitle", "file"))
}

func TestGetNodeStateNeverBlocks(t *testing.T) {
	b, _, sess := newBridge(t, platform.New(platform.Options{}), new(MockApp))

	start := time.Now()
	assert.Equal(t, []any{code(errcode.ErrNodeNotYetStarted), 0}, invoke(t, b, "app.getNodeState"))
	require.True(t, sess.MarkStarting())
	assert.Equal(t, []any{code(errcode.ErrNodePortNotYetSet), 0}, invoke(t, b, "app.getNodeState"))
	assert.Less(t, time.Since(start), time.Second)

	require.True(t, sess.MarkReady(51234))
	assert.Equal(t, []any{code(errcode.NoError), 51234}, invoke(t, b, "app.getNodeState"))
}

func TestInvokeArgumentErrors(t *testing.T) {
	b := nativeBridge(t)
	never := func([]any) { t.Error("reply called for a rejected call") }

	err := b.Invoke("fs.nope", nil, never)
	assert.ErrorIs(t, err, ErrUnknownMethod)

	tests := []struct {
		name   string
		method string
		params string
		index  int
		reason string
	}{
		{"missing", "fs.stat", `[]`, 0, "missing"},
		{"null required", "fs.rename", `["/a", null]`, 1, "missing"},
		{"wrong type", "fs.stat", `[42]`, 0, "expected string"},
		{"not an array", "fs.stat", `{"path":"/a"}`, -1, "params must be a positional array"},
		{"bad bool", "app.setMenuItemState", `["x", "yes", false]`, 1, "expected boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.Invoke(tt.method, []byte(tt.params), never)
			var argErr *ArgumentError
			require.ErrorAs(t, err, &argErr)
			assert.Equal(t, tt.method, argErr.Method)
			assert.Equal(t, tt.index, argErr.Index)
			assert.Equal(t, tt.reason, argErr.Reason)
			assert.Contains(t, err.Error(), tt.method)
		})
	}
}

func TestOptionalArgumentsDefault(t *testing.T) {
	backend := new(MockBackend)
	backend.On("ReadFile", "/tmp/a.txt", "").Return(types.ReadResult{Contents: "a", Encoding: "utf8"}, errcode.NoError)
	backend.On("MakeDir", "/tmp/d", os.FileMode(0)).Return(errcode.NoError)
	b, _, _ := newBridge(t, backend, new(MockApp))

	assert.Equal(t, []any{code(errcode.NoError), "a", "utf8", false}, invoke(t, b, "fs.readFile", "/tmp/a.txt"))
	assert.Equal(t, []any{code(errcode.NoError)}, invoke(t, b, "fs.makedir", "/tmp/d"))
	backend.AssertExpectations(t)
}

func TestUnsupportedCapabilities(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Capabilities").Return(types.Capabilities{})
	b, _, _ := newBridge(t, backend, new(MockApp))

	assert.Equal(t, []any{code(errcode.ErrCLToolsNotSupported)}, invoke(t, b, "app.installCommandLine"))
	assert.Equal(t, []any{code(errcode.ErrUnknown)}, invoke(t, b, "fs.moveToTrash", "/tmp/x"))
	assert.Equal(t, []any{code(errcode.ErrUnknown), false}, invoke(t, b, "fs.isNetworkDrive", "/tmp"))
	assert.Equal(t, []any{code(errcode.ErrUnknown)}, invoke(t, b, "app.openLiveBrowser", "http://localhost/"))

	backend.AssertNotCalled(t, "InstallCommandLine", mock.Anything)
	backend.AssertNotCalled(t, "MoveToTrash", mock.Anything, mock.Anything)
	backend.AssertNotCalled(t, "IsNetworkDrive", mock.Anything)
	backend.AssertNotCalled(t, "OpenLiveBrowser", mock.Anything, mock.Anything, mock.Anything)
}

func TestSupportedCapabilitiesReachBackend(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Capabilities").Return(types.Capabilities{Trash: true, CommandLineTools: true, NetworkDrive: true})
	backend.On("MoveToTrash", mock.Anything, "/tmp/x").Return(errcode.NoError)
	backend.On("InstallCommandLine", mock.Anything).Return(errcode.ErrCLToolsCancelled)
	backend.On("IsNetworkDrive", "/mnt/share").Return(true, errcode.NoError)
	b, _, _ := newBridge(t, backend, new(MockApp))

	assert.Equal(t, []any{code(errcode.NoError)}, invoke(t, b, "fs.moveToTrash", "/tmp/x"))
	assert.Equal(t, []any{code(errcode.ErrCLToolsCancelled)}, invoke(t, b, "app.installCommandLine"))
	assert.Equal(t, []any{code(errcode.NoError), true}, invoke(t, b, "fs.isNetworkDrive", "/mnt/share"))
	backend.AssertExpectations(t)
}

func TestOpenLiveBrowserIgnoresUnsupportedDebugFlag(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Capabilities").Return(types.Capabilities{LiveBrowser: true})
	backend.On("OpenLiveBrowser", mock.Anything, "http://localhost:8000/", false).Return(errcode.NoError)
	b, _, _ := newBridge(t, backend, new(MockApp))

	assert.Equal(t, []any{code(errcode.NoError)}, invoke(t, b, "app.openLiveBrowser", "http://localhost:8000/", true))
	assert.Equal(t, []any{code(errcode.NoError)}, invoke(t, b, "app.openLiveBrowser", "http://localhost:8000/"))
	backend.AssertExpectations(t)
}

func TestCloseLiveBrowserTimesOut(t *testing.T) {
	backend := new(MockBackend)
	backend.On("CloseLiveBrowser", mock.Anything).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		<-ctx.Done()
	}).Return(errcode.ErrUnknown)
	b, _, _ := newBridge(t, backend, new(MockApp))
	b.closeTimeout = 50 * time.Millisecond

	start := time.Now()
	assert.Equal(t, []any{code(errcode.ErrUnknown)}, invoke(t, b, "app.closeLiveBrowser"))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestDialogsAreDeferred(t *testing.T) {
	backend := new(MockBackend)
	req := platform.OpenDialog{AllowMultiple: true, Title: "Open", FileTypes: []string{"js"}}
	backend.On("ShowOpenDialog", mock.Anything, req).Return(nil, errcode.NoError)
	backend.On("ShowSaveDialog", mock.Anything, platform.SaveDialog{ProposedName: "a.txt"}).Return("/tmp/a.txt", errcode.NoError)
	b, _, _ := newBridge(t, backend, new(MockApp))
	b.dialogDelay = 40 * time.Millisecond

	start := time.Now()
	assert.Equal(t, []any{code(errcode.NoError), []string{}}, invoke(t, b, "fs.showOpenDialog", true, false, "Open", "", []string{"js"}))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)

	assert.Equal(t, []any{code(errcode.NoError), "/tmp/a.txt"}, invoke(t, b, "fs.showSaveDialog", nil, nil, "a.txt"))
	backend.AssertExpectations(t)
}

func TestDeferredDialogDroppedAfterStop(t *testing.T) {
	backend := new(MockBackend)
	metrics := monitoring.NewMetrics()
	defer metrics.Close()

	loop := NewLoop(nil)
	loop.Start()
	b := New(Deps{
		Loop:    loop,
		Backend: backend,
		Window:  platform.NewHeadlessWindow(backend, 0, nil),
		Menus:   menu.NewTree(),
		Session: session.New(),
		App:     new(MockApp),
		Metrics: metrics,
	})
	defer b.Close()
	b.dialogDelay = 30 * time.Millisecond

	var called atomic.Bool
	b.ShowOpenDialog(false, false, "Open", "", nil, func(errcode.Code, []string) { called.Store(true) })
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BridgePending))
	loop.Stop()

	assert.Eventually(t, func() bool {
		return testutil.ToFloat64(metrics.BridgePending) == 0
	}, 5*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BridgeCalls.WithLabelValues("fs.showOpenDialog", errcode.ErrUnknown.String())))
	assert.False(t, called.Load())
	backend.AssertNotCalled(t, "ShowOpenDialog", mock.Anything, mock.Anything)
}

func TestAppOperations(t *testing.T) {
	app := new(MockApp)
	app.On("Quit").Return()
	app.On("AbortQuit").Return(false)
	app.On("ElapsedMilliseconds").Return(int64(1500))
	app.On("RemoteDebuggingPort").Return(9234)
	app.On("PendingFiles").Return(`["/a.js","/b.css"]`)
	app.On("DroppedFiles").Return("not json")
	app.On("SupportDirectory").Return("/home/u/.config/Brackets")
	app.On("DocumentsDirectory").Return("/home/u/Documents")
	app.On("Language").Return("pt-BR")
	app.On("ZoomLevel").Return(1.5, errcode.NoError)
	app.On("SetZoomLevel", 2.0).Return(errcode.NoError)
	app.On("SetZoomLevel", 42.0).Return(errcode.ErrInvalidParams)
	b, _, _ := newBridge(t, platform.New(platform.Options{}), app)

	ok := []any{code(errcode.NoError)}
	assert.Equal(t, ok, invoke(t, b, "app.quit"))
	assert.Equal(t, ok, invoke(t, b, "app.abortQuit"))
	assert.Equal(t, []any{code(errcode.NoError), int64(1500)}, invoke(t, b, "app.getElapsedMilliseconds"))
	assert.Equal(t, []any{code(errcode.NoError), 9234}, invoke(t, b, "app.getRemoteDebuggingPort"))
	assert.Equal(t, []any{code(errcode.NoError), []string{"/a.js", "/b.css"}}, invoke(t, b, "app.getPendingFilesToOpen"))
	assert.Equal(t, []any{code(errcode.NoError), []string{}}, invoke(t, b, "app.getDroppedFiles"))
	assert.Equal(t, []any{code(errcode.NoError), "/home/u/.config/Brackets"}, invoke(t, b, "app.getApplicationSupportDirectory"))
	assert.Equal(t, []any{code(errcode.NoError), "/home/u/Documents"}, invoke(t, b, "app.getUserDocumentsDirectory"))
	assert.Equal(t, []any{code(errcode.NoError), "pt-BR"}, invoke(t, b, "app.getCurrentLanguage"))
	assert.Equal(t, []any{code(errcode.NoError), 1.5}, invoke(t, b, "app.getZoomLevel"))
	assert.Equal(t, ok, invoke(t, b, "app.setZoomLevel", 2))
	assert.Equal(t, []any{code(errcode.ErrInvalidParams)}, invoke(t, b, "app.setZoomLevel", 42))
	assert.Equal(t, ok, invoke(t, b, "app.dragWindow"))
	assert.Equal(t, []any{code(errcode.ErrUnknown)}, invoke(t, b, "app.showDeveloperTools"))
	app.AssertExpectations(t)
}

func TestParseFileList(t *testing.T) {
	b := nativeBridge(t)
	tests := []struct {
		input    string
		expected []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"null", []string{}},
		{"[]", []string{}},
		{"{", []string{}},
		{`{"a":1}`, []string{}},
		{`["/x"]`, []string{"/x"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, b.parseFileList(tt.input))
		})
	}
}

func TestCatalog(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Capabilities").Return(types.Capabilities{Dialogs: true})
	b, _, _ := newBridge(t, backend, new(MockApp))

	catalog := b.Catalog()
	require.Len(t, catalog, 4)

	ops := map[string]types.Operation{}
	for _, svc := range catalog {
		for _, op := range svc.Operations {
			ops[op.ID] = op
		}
	}
	assert.Len(t, ops, len(Methods()))
	assert.Len(t, ops, 44)

	assert.True(t, ops["fs.showOpenDialog"].Supported)
	assert.False(t, ops["app.installCommandLine"].Supported)
	assert.True(t, ops["fs.stat"].Supported)
	assert.Equal(t, []string{"error", "stat"}, ops["fs.stat"].Returns)
	assert.Equal(t, "getNodeState", ops["app.getNodeState"].Name)

	assert.Equal(t, types.CategoryFilesystem, catalog[0].Category)
	assert.Equal(t, []string{CapDialogs, CapNetworkDrive, CapTrash}, catalog[0].Capabilities)
}
