// Package menu holds the application menu tree and routes menu commands.
//
// The tree is one id namespace shared by menus and items. Mutations report
// errcode values so the bridge can hand them straight to the content:
//
//	tree := menu.NewTree()
//	tree.AddMenu("File", "file", menu.PositionFirst, "")
//	tree.AddMenuItem("file", "Open", "file.open", "Cmd-O", "", menu.PositionFirst, "")
//	parent, index, code := tree.GetMenuPosition("file.open") // "file", 0, NoError
//
// Positions:
//   - first, last, "" (append)
//   - before, after: relative to a sibling id
//   - firstInSection, lastInSection: relative to the separator-delimited
//     run of items containing the sibling
//
// A relative id that does not exist still adds the node, at the end, and
// reports ErrNotFound.
//
// The Dispatcher gives the content first refusal on every command. Edit
// commands (undo, redo, cut, copy, paste, select all) fall back to the
// platform's native edit handler.
package menu
