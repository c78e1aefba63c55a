// Package paths locates the per-user directories the shell works with.
//
//	support, _ := paths.SupportDir("Brackets") // ~/.config/Brackets on Linux
//	docs, _ := paths.DocumentsDir()
//	trash, _ := paths.TrashDir()             // XDG trash
//
// FileURL and EscapePath encode paths for file managers and trash info
// files.
package paths
