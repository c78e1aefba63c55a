// Package platform is the native dispatch layer of the shell.
//
// Native implements Backend for the running OS. File system operations are
// portable and live in files.go and encoding.go; everything that talks to
// the desktop is split per OS:
//
//   - Dialogs: zenity or kdialog (Linux), osascript (macOS), PowerShell
//     Windows.Forms (Windows)
//   - Trash: XDG trash (Linux and other Unix), Finder, Recycle Bin
//   - Network drives: statfs magic numbers, MNT_LOCAL, GetDriveType
//   - Machine id: /etc/machine-id, IOPlatformUUID, MachineGuid
//   - Command-line launcher: macOS only
//
// Every operation is synchronous and returns an errcode.Code chosen as
// narrowly as the OS allows. Helper programs are run through a Runner so
// tests can stand in for them.
//
// LiveBrowser launches a Chromium-family preview browser in a throwaway
// profile and, when remote debugging is on, drives it over the devtools
// HTTP endpoint behind a circuit breaker.
package platform
