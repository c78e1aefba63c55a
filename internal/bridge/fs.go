package bridge

import (
	"os"

	"github.com/GriffinCanCode/appshell/internal/platform"
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

// maxMode bounds the permission bits accepted by MakeDir and Chmod.
const maxMode = 0o7777

// ShowOpenDialog asks the user for files or a directory. Cancel yields an
// empty selection.
func (b *Bridge) ShowOpenDialog(allowMultiple, chooseDirectory bool, title, initialPath string, fileTypes []string, cb StringsCallback) {
	cb = cb.orNoop()
	req := platform.OpenDialog{
		AllowMultiple:   allowMultiple,
		ChooseDirectory: chooseDirectory,
		Title:           title,
		InitialPath:     initialPath,
		FileTypes:       fileTypes,
	}
	b.offLoop("fs.showOpenDialog", b.dialogDelay, func() (errcode.Code, func()) {
		files, code := b.backend.ShowOpenDialog(b.ctx, req)
		if files == nil {
			files = []string{}
		}
		return code, func() { cb(code, files) }
	})
}

// ShowSaveDialog asks the user for a path to save to. Cancel yields "".
func (b *Bridge) ShowSaveDialog(title, initialPath, proposedName string, cb StringCallback) {
	cb = cb.orNoop()
	req := platform.SaveDialog{Title: title, InitialPath: initialPath, ProposedName: proposedName}
	b.offLoop("fs.showSaveDialog", b.dialogDelay, func() (errcode.Code, func()) {
		path, code := b.backend.ShowSaveDialog(b.ctx, req)
		return code, func() { cb(code, path) }
	})
}

// IsNetworkDrive reports whether path lives on a network volume.
func (b *Bridge) IsNetworkDrive(path string, cb BoolCallback) {
	cb = cb.orNoop()
	b.onLoop("fs.isNetworkDrive", func() (errcode.Code, func()) {
		if !b.backend.Capabilities().NetworkDrive {
			return errcode.ErrUnknown, func() { cb(errcode.ErrUnknown, false) }
		}
		remote, code := b.backend.IsNetworkDrive(path)
		return code, func() { cb(code, remote) }
	})
}

// ReadDir lists the names in a directory.
func (b *Bridge) ReadDir(path string, cb StringsCallback) {
	cb = cb.orNoop()
	b.onLoop("fs.readdir", func() (errcode.Code, func()) {
		names, code := b.backend.ReadDir(path)
		if names == nil {
			names = []string{}
		}
		return code, func() { cb(code, names) }
	})
}

// ReadDirWithStats lists a directory with index-aligned stats.
func (b *Bridge) ReadDirWithStats(path string, cb DirStatsCallback) {
	cb = cb.orNoop()
	b.onLoop("fs.readDirWithStats", func() (errcode.Code, func()) {
		names, stats, code := b.backend.ReadDirWithStats(path)
		if !code.OK() || len(names) != len(stats) {
			names, stats = []string{}, []types.FileStat{}
		}
		return code, func() { cb(code, names, stats) }
	})
}

// MakeDir creates path and any missing parents with mode.
func (b *Bridge) MakeDir(path string, mode int, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("fs.makedir", func() (errcode.Code, func()) {
		if mode < 0 || mode > maxMode {
			return done(cb, errcode.ErrInvalidParams)
		}
		return done(cb, b.backend.MakeDir(path, os.FileMode(mode)))
	})
}

// Rename moves oldPath to newPath. An existing target is not replaced.
func (b *Bridge) Rename(oldPath, newPath string, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("fs.rename", func() (errcode.Code, func()) {
		return done(cb, b.backend.Rename(oldPath, newPath))
	})
}

// Stat describes path.
func (b *Bridge) Stat(path string, cb StatCallback) {
	cb = cb.orNoop()
	b.onLoop("fs.stat", func() (errcode.Code, func()) {
		stat, code := b.backend.Stat(path)
		return code, func() { cb(code, stat) }
	})
}

// ReadFile reads and decodes a text file.
func (b *Bridge) ReadFile(path, encoding string, cb ReadCallback) {
	cb = cb.orNoop()
	b.onLoop("fs.readFile", func() (errcode.Code, func()) {
		result, code := b.backend.ReadFile(path, encoding)
		return code, func() { cb(code, result) }
	})
}

// WriteFile encodes and writes data to path.
func (b *Bridge) WriteFile(path, data, encoding string, preserveBOM bool, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("fs.writeFile", func() (errcode.Code, func()) {
		return done(cb, b.backend.WriteFile(path, data, encoding, preserveBOM))
	})
}

// Chmod sets the permission bits of path.
func (b *Bridge) Chmod(path string, mode int, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("fs.chmod", func() (errcode.Code, func()) {
		if mode < 0 || mode > maxMode {
			return done(cb, errcode.ErrInvalidParams)
		}
		return done(cb, b.backend.Chmod(path, os.FileMode(mode)))
	})
}

// Unlink deletes path, recursively for directories.
func (b *Bridge) Unlink(path string, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("fs.unlink", func() (errcode.Code, func()) {
		return done(cb, b.backend.Unlink(path))
	})
}

// MoveToTrash moves path to the desktop trash.
func (b *Bridge) MoveToTrash(path string, cb Callback) {
	cb = cb.orNoop()
	if !b.backend.Capabilities().Trash {
		b.onLoop("fs.moveToTrash", func() (errcode.Code, func()) {
			return done(cb, errcode.ErrUnknown)
		})
		return
	}
	b.offLoop("fs.moveToTrash", 0, func() (errcode.Code, func()) {
		return done(cb, b.backend.MoveToTrash(b.ctx, path))
	})
}

// CopyFile copies a regular file.
func (b *Bridge) CopyFile(src, dest string, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("fs.copyFile", func() (errcode.Code, func()) {
		return done(cb, b.backend.CopyFile(src, dest))
	})
}
