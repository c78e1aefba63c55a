package bridge

import (
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

// Capability names an optional back-end feature an operation depends on.
const (
	CapDialogs          = "dialogs"
	CapTrash            = "trash"
	CapNetworkDrive     = "networkDrive"
	CapCommandLineTools = "commandLineTools"
	CapLiveBrowser      = "liveBrowser"
)

type operation struct {
	method   string
	category types.Category
	summary  string
	params   []types.Parameter
	returns  []string
	requires string
	// call decodes the arguments and returns the dispatch to run when they
	// are well formed.
	call func(b *Bridge, a *args, r Reply) func()
}

func required(name, typ string) types.Parameter {
	return types.Parameter{Name: name, Type: typ, Required: true}
}

func optional(name, typ, description string) types.Parameter {
	return types.Parameter{Name: name, Type: typ, Description: description}
}

func replyCode(r Reply) Callback {
	return func(code errcode.Code) { r.send(code) }
}

func replyString(r Reply) StringCallback {
	return func(code errcode.Code, v string) { r.send(code, v) }
}

func replyStrings(r Reply) StringsCallback {
	return func(code errcode.Code, v []string) { r.send(code, v) }
}

func replyInt(r Reply) IntCallback {
	return func(code errcode.Code, v int) { r.send(code, v) }
}

var operations = []*operation{
	// File system.
	{
		method: "fs.showOpenDialog", category: types.CategoryFilesystem, requires: CapDialogs,
		summary: "Ask the user for files or a directory",
		params: []types.Parameter{
			required("allowMultipleSelection", "boolean"),
			required("chooseDirectory", "boolean"),
			optional("title", "string", ""),
			optional("initialPath", "string", ""),
			optional("fileTypes", "string[]", "extensions or glob patterns"),
		},
		returns: []string{"files"},
		call: func(b *Bridge, a *args, r Reply) func() {
			multi, dir, title, initial, filters := a.boolean(0), a.boolean(1), a.str(2), a.str(3), a.strings(4)
			return func() { b.ShowOpenDialog(multi, dir, title, initial, filters, replyStrings(r)) }
		},
	},
	{
		method: "fs.showSaveDialog", category: types.CategoryFilesystem, requires: CapDialogs,
		summary: "Ask the user for a path to save to",
		params: []types.Parameter{
			optional("title", "string", ""),
			optional("initialPath", "string", ""),
			optional("proposedNewFilename", "string", ""),
		},
		returns: []string{"path"},
		call: func(b *Bridge, a *args, r Reply) func() {
			title, initial, proposed := a.str(0), a.str(1), a.str(2)
			return func() { b.ShowSaveDialog(title, initial, proposed, replyString(r)) }
		},
	},
	{
		method: "fs.isNetworkDrive", category: types.CategoryFilesystem, requires: CapNetworkDrive,
		summary: "Report whether a path is on a network volume",
		params:  []types.Parameter{required("path", "string")},
		returns: []string{"isRemote"},
		call: func(b *Bridge, a *args, r Reply) func() {
			path := a.str(0)
			return func() {
				b.IsNetworkDrive(path, func(code errcode.Code, remote bool) { r.send(code, remote) })
			}
		},
	},
	{
		method: "fs.readdir", category: types.CategoryFilesystem,
		summary: "List the names in a directory",
		params:  []types.Parameter{required("path", "string")},
		returns: []string{"names"},
		call: func(b *Bridge, a *args, r Reply) func() {
			path := a.str(0)
			return func() { b.ReadDir(path, replyStrings(r)) }
		},
	},
	{
		method: "fs.readDirWithStats", category: types.CategoryFilesystem,
		summary: "List a directory with index-aligned stats",
		params:  []types.Parameter{required("path", "string")},
		returns: []string{"names", "stats"},
		call: func(b *Bridge, a *args, r Reply) func() {
			path := a.str(0)
			return func() {
				b.ReadDirWithStats(path, func(code errcode.Code, names []string, stats []types.FileStat) {
					wire := make([]types.StatWire, len(stats))
					for i, s := range stats {
						wire[i] = s.Wire()
					}
					r.send(code, names, wire)
				})
			}
		},
	},
	{
		method: "fs.makedir", category: types.CategoryFilesystem,
		summary: "Create a directory and its parents",
		params:  []types.Parameter{required("path", "string"), optional("mode", "integer", "permission bits, default 0777")},
		call: func(b *Bridge, a *args, r Reply) func() {
			path, mode := a.str(0), a.integer(1)
			return func() { b.MakeDir(path, mode, replyCode(r)) }
		},
	},
	{
		method: "fs.rename", category: types.CategoryFilesystem,
		summary: "Rename a file or directory",
		params:  []types.Parameter{required("oldPath", "string"), required("newPath", "string")},
		call: func(b *Bridge, a *args, r Reply) func() {
			oldPath, newPath := a.str(0), a.str(1)
			return func() { b.Rename(oldPath, newPath, replyCode(r)) }
		},
	},
	{
		method: "fs.stat", category: types.CategoryFilesystem,
		summary: "Describe a file system entry",
		params:  []types.Parameter{required("path", "string")},
		returns: []string{"stat"},
		call: func(b *Bridge, a *args, r Reply) func() {
			path := a.str(0)
			return func() {
				b.Stat(path, func(code errcode.Code, stat types.FileStat) {
					if !code.OK() {
						r.send(code, nil)
						return
					}
					r.send(code, stat.Wire())
				})
			}
		},
	},
	{
		method: "fs.readFile", category: types.CategoryFilesystem,
		summary: "Read and decode a text file",
		params:  []types.Parameter{required("path", "string"), optional("encoding", "string", "utf8, a WHATWG label, or auto")},
		returns: []string{"contents", "encoding", "preserveBOM"},
		call: func(b *Bridge, a *args, r Reply) func() {
			path, encoding := a.str(0), a.str(1)
			return func() {
				b.ReadFile(path, encoding, func(code errcode.Code, res types.ReadResult) {
					r.send(code, res.Contents, res.Encoding, res.PreserveBOM)
				})
			}
		},
	},
	{
		method: "fs.writeFile", category: types.CategoryFilesystem,
		summary: "Encode and write a text file",
		params: []types.Parameter{
			required("path", "string"),
			required("data", "string"),
			optional("encoding", "string", "default utf8"),
			optional("preserveBOM", "boolean", ""),
		},
		call: func(b *Bridge, a *args, r Reply) func() {
			path, data, encoding, bom := a.str(0), a.str(1), a.str(2), a.boolean(3)
			return func() { b.WriteFile(path, data, encoding, bom, replyCode(r)) }
		},
	},
	{
		method: "fs.chmod", category: types.CategoryFilesystem,
		summary: "Set permission bits",
		params:  []types.Parameter{required("path", "string"), required("mode", "integer")},
		call: func(b *Bridge, a *args, r Reply) func() {
			path, mode := a.str(0), a.integer(1)
			return func() { b.Chmod(path, mode, replyCode(r)) }
		},
	},
	{
		method: "fs.unlink", category: types.CategoryFilesystem,
		summary: "Delete a file or directory tree",
		params:  []types.Parameter{required("path", "string")},
		call: func(b *Bridge, a *args, r Reply) func() {
			path := a.str(0)
			return func() { b.Unlink(path, replyCode(r)) }
		},
	},
	{
		method: "fs.moveToTrash", category: types.CategoryFilesystem, requires: CapTrash,
		summary: "Move an entry to the desktop trash",
		params:  []types.Parameter{required("path", "string")},
		call: func(b *Bridge, a *args, r Reply) func() {
			path := a.str(0)
			return func() { b.MoveToTrash(path, replyCode(r)) }
		},
	},
	{
		method: "fs.copyFile", category: types.CategoryFilesystem,
		summary: "Copy a regular file",
		params:  []types.Parameter{required("src", "string"), required("dest", "string")},
		call: func(b *Bridge, a *args, r Reply) func() {
			src, dest := a.str(0), a.str(1)
			return func() { b.CopyFile(src, dest, replyCode(r)) }
		},
	},

	// Application.
	{
		method: "app.quit", category: types.CategoryApp,
		summary: "Start the quit sequence",
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.Quit(replyCode(r)) }
		},
	},
	{
		method: "app.abortQuit", category: types.CategoryApp,
		summary: "Cancel a quit awaiting confirmation",
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.AbortQuit(replyCode(r)) }
		},
	},
	{
		method: "app.showDeveloperTools", category: types.CategoryApp,
		summary: "Open developer tools for the content",
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.ShowDeveloperTools(replyCode(r)) }
		},
	},
	{
		method: "app.getElapsedMilliseconds", category: types.CategoryApp,
		summary: "Time since launch",
		returns: []string{"milliseconds"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() {
				b.GetElapsedMilliseconds(func(code errcode.Code, ms int64) { r.send(code, ms) })
			}
		},
	},
	{
		method: "app.openLiveBrowser", category: types.CategoryApp, requires: CapLiveBrowser,
		summary: "Launch the preview browser",
		params:  []types.Parameter{required("url", "string"), optional("enableRemoteDebugging", "boolean", "ignored where unsupported")},
		call: func(b *Bridge, a *args, r Reply) func() {
			url, debug := a.str(0), a.boolean(1)
			return func() { b.OpenLiveBrowser(url, debug, replyCode(r)) }
		},
	},
	{
		method: "app.closeLiveBrowser", category: types.CategoryApp, requires: CapLiveBrowser,
		summary: "Close the preview browser",
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.CloseLiveBrowser(replyCode(r)) }
		},
	},
	{
		method: "app.openURLInDefaultBrowser", category: types.CategoryApp,
		summary: "Open a URL in the default browser",
		params:  []types.Parameter{required("url", "string")},
		call: func(b *Bridge, a *args, r Reply) func() {
			url := a.str(0)
			return func() { b.OpenURLInDefaultBrowser(url, replyCode(r)) }
		},
	},
	{
		method: "app.getPendingFilesToOpen", category: types.CategoryApp,
		summary: "Files the shell was asked to open",
		returns: []string{"files"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.GetPendingFilesToOpen(replyStrings(r)) }
		},
	},
	{
		method: "app.getDroppedFiles", category: types.CategoryApp,
		summary: "Files dropped on the window",
		returns: []string{"files"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.GetDroppedFiles(replyStrings(r)) }
		},
	},
	{
		method: "app.getRemoteDebuggingPort", category: types.CategoryApp,
		summary: "Remote debugging port of the content",
		returns: []string{"port"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.GetRemoteDebuggingPort(replyInt(r)) }
		},
	},
	{
		method: "app.getApplicationSupportDirectory", category: types.CategoryApp,
		summary: "Per-user application data directory",
		returns: []string{"path"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.GetApplicationSupportDirectory(replyString(r)) }
		},
	},
	{
		method: "app.getUserDocumentsDirectory", category: types.CategoryApp,
		summary: "User documents directory",
		returns: []string{"path"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.GetUserDocumentsDirectory(replyString(r)) }
		},
	},
	{
		method: "app.getCurrentLanguage", category: types.CategoryApp,
		summary: "UI language tag",
		returns: []string{"language"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.GetCurrentLanguage(replyString(r)) }
		},
	},
	{
		method: "app.showOSFolder", category: types.CategoryApp,
		summary: "Reveal a path in the file manager",
		params:  []types.Parameter{required("path", "string")},
		call: func(b *Bridge, a *args, r Reply) func() {
			path := a.str(0)
			return func() { b.ShowOSFolder(path, replyCode(r)) }
		},
	},
	{
		method: "app.dragWindow", category: types.CategoryApp,
		summary: "Move the window from the content's title bar",
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.DragWindow(replyCode(r)) }
		},
	},
	{
		method: "app.getZoomLevel", category: types.CategoryApp,
		summary: "Window zoom level",
		returns: []string{"level"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() {
				b.GetZoomLevel(func(code errcode.Code, level float64) { r.send(code, level) })
			}
		},
	},
	{
		method: "app.setZoomLevel", category: types.CategoryApp,
		summary: "Apply and persist the window zoom level",
		params:  []types.Parameter{required("level", "number")},
		call: func(b *Bridge, a *args, r Reply) func() {
			level := a.number(0)
			return func() { b.SetZoomLevel(level, replyCode(r)) }
		},
	},
	{
		method: "app.installCommandLine", category: types.CategoryApp, requires: CapCommandLineTools,
		summary: "Install the command-line launcher",
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.InstallCommandLine(replyCode(r)) }
		},
	},
	{
		method: "app.getMachineHash", category: types.CategoryApp,
		summary: "Stable machine fingerprint",
		returns: []string{"hash"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.GetMachineHash(replyString(r)) }
		},
	},

	// Menus.
	{
		method: "app.addMenu", category: types.CategoryMenu,
		summary: "Add a top-level menu",
		params: []types.Parameter{
			required("title", "string"),
			required("id", "string"),
			optional("position", "string", "before, after, first, last or empty"),
			optional("relativeId", "string", ""),
		},
		call: func(b *Bridge, a *args, r Reply) func() {
			title, id, pos, rel := a.str(0), a.str(1), a.str(2), a.str(3)
			return func() { b.AddMenu(title, id, pos, rel, replyCode(r)) }
		},
	},
	{
		method: "app.addMenuItem", category: types.CategoryMenu,
		summary: "Add a menu item or separator",
		params: []types.Parameter{
			required("parentId", "string"),
			required("title", "string"),
			required("id", "string"),
			optional("key", "string", "shortcut such as Cmd-Shift-O"),
			optional("displayStr", "string", ""),
			optional("position", "string", ""),
			optional("relativeId", "string", ""),
		},
		call: func(b *Bridge, a *args, r Reply) func() {
			parent, title, id, key := a.str(0), a.str(1), a.str(2), a.str(3)
			display, pos, rel := a.str(4), a.str(5), a.str(6)
			return func() { b.AddMenuItem(parent, title, id, key, display, pos, rel, replyCode(r)) }
		},
	},
	{
		method: "app.removeMenu", category: types.CategoryMenu,
		summary: "Remove a menu and its items",
		params:  []types.Parameter{required("id", "string")},
		call: func(b *Bridge, a *args, r Reply) func() {
			id := a.str(0)
			return func() { b.RemoveMenu(id, replyCode(r)) }
		},
	},
	{
		method: "app.removeMenuItem", category: types.CategoryMenu,
		summary: "Remove a menu item",
		params:  []types.Parameter{required("id", "string")},
		call: func(b *Bridge, a *args, r Reply) func() {
			id := a.str(0)
			return func() { b.RemoveMenuItem(id, replyCode(r)) }
		},
	},
	{
		method: "app.setMenuTitle", category: types.CategoryMenu,
		summary: "Rename a menu or item",
		params:  []types.Parameter{required("id", "string"), required("title", "string")},
		call: func(b *Bridge, a *args, r Reply) func() {
			id, title := a.str(0), a.str(1)
			return func() { b.SetMenuTitle(id, title, replyCode(r)) }
		},
	},
	{
		method: "app.getMenuTitle", category: types.CategoryMenu,
		summary: "Title of a menu or item",
		params:  []types.Parameter{required("id", "string")},
		returns: []string{"title"},
		call: func(b *Bridge, a *args, r Reply) func() {
			id := a.str(0)
			return func() { b.GetMenuTitle(id, replyString(r)) }
		},
	},
	{
		method: "app.setMenuItemState", category: types.CategoryMenu,
		summary: "Enable and check an item",
		params:  []types.Parameter{required("id", "string"), required("enabled", "boolean"), required("checked", "boolean")},
		call: func(b *Bridge, a *args, r Reply) func() {
			id, enabled, checked := a.str(0), a.boolean(1), a.boolean(2)
			return func() { b.SetMenuItemState(id, enabled, checked, replyCode(r)) }
		},
	},
	{
		method: "app.getMenuItemState", category: types.CategoryMenu,
		summary: "State and index of an item",
		params:  []types.Parameter{required("id", "string")},
		returns: []string{"enabled", "checked", "index"},
		call: func(b *Bridge, a *args, r Reply) func() {
			id := a.str(0)
			return func() {
				b.GetMenuItemState(id, func(code errcode.Code, enabled, checked bool, index int) {
					r.send(code, enabled, checked, index)
				})
			}
		},
	},
	{
		method: "app.setMenuItemShortcut", category: types.CategoryMenu,
		summary: "Change an item's shortcut",
		params:  []types.Parameter{required("id", "string"), required("shortcut", "string"), optional("displayStr", "string", "")},
		call: func(b *Bridge, a *args, r Reply) func() {
			id, key, display := a.str(0), a.str(1), a.str(2)
			return func() { b.SetMenuItemShortcut(id, key, display, replyCode(r)) }
		},
	},
	{
		method: "app.getMenuPosition", category: types.CategoryMenu,
		summary: "Parent and index of a menu node",
		params:  []types.Parameter{required("id", "string")},
		returns: []string{"parentId", "index"},
		call: func(b *Bridge, a *args, r Reply) func() {
			id := a.str(0)
			return func() {
				b.GetMenuPosition(id, func(code errcode.Code, parent string, index int) {
					if parent == "" {
						r.send(code, nil, index)
						return
					}
					r.send(code, parent, index)
				})
			}
		},
	},

	// Auxiliary runtime.
	{
		method: "app.getNodeState", category: types.CategoryRuntime,
		summary: "Port of the auxiliary runtime, or its lifecycle code",
		returns: []string{"port"},
		call: func(b *Bridge, _ *args, r Reply) func() {
			return func() { b.GetNodeState(replyInt(r)) }
		},
	},
}

var operationIndex = func() map[string]*operation {
	index := make(map[string]*operation, len(operations))
	for _, op := range operations {
		index[op.method] = op
	}
	return index
}()

// Methods lists every bridge method name.
func Methods() []string {
	methods := make([]string, len(operations))
	for i, op := range operations {
		methods[i] = op.method
	}
	return methods
}
