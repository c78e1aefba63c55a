package bridge

import (
	"context"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// Quit starts the quit sequence. The content is asked to confirm first.
func (b *Bridge) Quit(cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.quit", func() (errcode.Code, func()) {
		b.app.Quit()
		return done(cb, errcode.NoError)
	})
}

// AbortQuit cancels a quit that is still waiting for confirmation.
func (b *Bridge) AbortQuit(cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.abortQuit", func() (errcode.Code, func()) {
		if !b.app.AbortQuit() {
			b.log.Debug("No quit to abort")
		}
		return done(cb, errcode.NoError)
	})
}

// ShowDeveloperTools opens the developer tools for the content.
func (b *Bridge) ShowDeveloperTools(cb Callback) {
	cb = cb.orNoop()
	b.offLoop("app.showDeveloperTools", 0, func() (errcode.Code, func()) {
		return done(cb, b.window.ShowDeveloperTools(b.ctx))
	})
}

// GetNodeState reports the auxiliary runtime's port, or a negative code
// while it is not ready. It never waits for the runtime.
func (b *Bridge) GetNodeState(cb IntCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getNodeState", func() (errcode.Code, func()) {
		code, port := b.session.NodeState()
		return code, func() { cb(code, port) }
	})
}

// GetElapsedMilliseconds reports the time since launch.
func (b *Bridge) GetElapsedMilliseconds(cb Int64Callback) {
	cb = cb.orNoop()
	b.onLoop("app.getElapsedMilliseconds", func() (errcode.Code, func()) {
		ms := b.app.ElapsedMilliseconds()
		return errcode.NoError, func() { cb(errcode.NoError, ms) }
	})
}

// OpenLiveBrowser launches the preview browser at url. The remote debugging
// flag is ignored where the back-end cannot debug remotely.
func (b *Bridge) OpenLiveBrowser(url string, enableRemoteDebugging bool, cb Callback) {
	cb = cb.orNoop()
	caps := b.backend.Capabilities()
	if !caps.LiveBrowser {
		b.onLoop("app.openLiveBrowser", func() (errcode.Code, func()) {
			return done(cb, errcode.ErrUnknown)
		})
		return
	}
	debug := enableRemoteDebugging && caps.RemoteDebugging
	b.offLoop("app.openLiveBrowser", 0, func() (errcode.Code, func()) {
		return done(cb, b.backend.OpenLiveBrowser(b.ctx, url, debug))
	})
}

// CloseLiveBrowser closes the preview browser. A browser still running when
// the close timeout expires yields ErrUnknown.
func (b *Bridge) CloseLiveBrowser(cb Callback) {
	cb = cb.orNoop()
	timeout := b.closeTimeout
	b.offLoop("app.closeLiveBrowser", 0, func() (errcode.Code, func()) {
		ctx, cancel := context.WithTimeout(b.ctx, timeout)
		defer cancel()
		return done(cb, b.backend.CloseLiveBrowser(ctx))
	})
}

// OpenURLInDefaultBrowser opens url with the desktop's default browser.
func (b *Bridge) OpenURLInDefaultBrowser(url string, cb Callback) {
	cb = cb.orNoop()
	b.offLoop("app.openURLInDefaultBrowser", 0, func() (errcode.Code, func()) {
		return done(cb, b.backend.OpenURL(b.ctx, url))
	})
}

// GetPendingFilesToOpen returns the files the shell was asked to open.
func (b *Bridge) GetPendingFilesToOpen(cb StringsCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getPendingFilesToOpen", func() (errcode.Code, func()) {
		files := b.parseFileList(b.app.PendingFiles())
		return errcode.NoError, func() { cb(errcode.NoError, files) }
	})
}

// GetDroppedFiles returns the files dropped on the window since the last call.
func (b *Bridge) GetDroppedFiles(cb StringsCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getDroppedFiles", func() (errcode.Code, func()) {
		files := b.parseFileList(b.app.DroppedFiles())
		return errcode.NoError, func() { cb(errcode.NoError, files) }
	})
}

// GetRemoteDebuggingPort reports the content's remote debugging port.
func (b *Bridge) GetRemoteDebuggingPort(cb IntCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getRemoteDebuggingPort", func() (errcode.Code, func()) {
		port := b.app.RemoteDebuggingPort()
		return errcode.NoError, func() { cb(errcode.NoError, port) }
	})
}

// GetApplicationSupportDirectory reports the per-user application data dir.
func (b *Bridge) GetApplicationSupportDirectory(cb StringCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getApplicationSupportDirectory", func() (errcode.Code, func()) {
		dir := b.app.SupportDirectory()
		return errcode.NoError, func() { cb(errcode.NoError, dir) }
	})
}

// GetUserDocumentsDirectory reports the user's documents dir.
func (b *Bridge) GetUserDocumentsDirectory(cb StringCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getUserDocumentsDirectory", func() (errcode.Code, func()) {
		dir := b.app.DocumentsDirectory()
		return errcode.NoError, func() { cb(errcode.NoError, dir) }
	})
}

// GetCurrentLanguage reports the UI language as a BCP 47 tag.
func (b *Bridge) GetCurrentLanguage(cb StringCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getCurrentLanguage", func() (errcode.Code, func()) {
		lang := b.app.Language()
		return errcode.NoError, func() { cb(errcode.NoError, lang) }
	})
}

// ShowOSFolder reveals path in the file manager.
func (b *Bridge) ShowOSFolder(path string, cb Callback) {
	cb = cb.orNoop()
	b.offLoop("app.showOSFolder", 0, func() (errcode.Code, func()) {
		return done(cb, b.backend.ShowFolder(b.ctx, path))
	})
}

// DragWindow starts a window move from the content's title bar.
func (b *Bridge) DragWindow(cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.dragWindow", func() (errcode.Code, func()) {
		return done(cb, b.window.DragWindow())
	})
}

// GetZoomLevel reports the window zoom level.
func (b *Bridge) GetZoomLevel(cb FloatCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getZoomLevel", func() (errcode.Code, func()) {
		level, code := b.app.ZoomLevel()
		return code, func() { cb(code, level) }
	})
}

// SetZoomLevel applies and persists the window zoom level.
func (b *Bridge) SetZoomLevel(level float64, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.setZoomLevel", func() (errcode.Code, func()) {
		return done(cb, b.app.SetZoomLevel(level))
	})
}

// InstallCommandLine installs the command-line launcher.
func (b *Bridge) InstallCommandLine(cb Callback) {
	cb = cb.orNoop()
	if !b.backend.Capabilities().CommandLineTools {
		b.onLoop("app.installCommandLine", func() (errcode.Code, func()) {
			return done(cb, errcode.ErrCLToolsNotSupported)
		})
		return
	}
	b.offLoop("app.installCommandLine", 0, func() (errcode.Code, func()) {
		return done(cb, b.backend.InstallCommandLine(b.ctx))
	})
}

// GetMachineHash reports the machine fingerprint.
func (b *Bridge) GetMachineHash(cb StringCallback) {
	cb = cb.orNoop()
	b.offLoop("app.getMachineHash", 0, func() (errcode.Code, func()) {
		hash, code := b.backend.MachineHash(b.ctx)
		return code, func() { cb(code, hash) }
	})
}

// parseFileList decodes a serialized JSON array of paths. Empty or malformed
// input yields an empty list.
func (b *Bridge) parseFileList(serialized string) []string {
	files := []string{}
	if strings.TrimSpace(serialized) == "" {
		return files
	}
	if err := sonic.UnmarshalString(serialized, &files); err != nil || files == nil {
		b.log.Debug("Discarding malformed file list", zap.Error(err))
		return []string{}
	}
	return files
}
