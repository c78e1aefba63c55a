package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/paths"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

func capabilities() types.Capabilities {
	return types.Capabilities{
		Dialogs:          true,
		Trash:            true,
		NetworkDrive:     true,
		CommandLineTools: true,
		LiveBrowser:      true,
	}
}

func defaultBrowsers() []string {
	return []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
	}
}

// appleString quotes s as an AppleScript string literal.
func appleString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func (n *Native) osascript(ctx context.Context, lines ...string) ([]byte, error) {
	args := make([]string, 0, len(lines)*2)
	for _, l := range lines {
		args = append(args, "-e", l)
	}
	return n.runner.Run(ctx, "osascript", args...)
}

func (n *Native) openDialog(ctx context.Context, req OpenDialog, _ []string) ([]string, error) {
	chooser := "choose file"
	if req.ChooseDirectory {
		chooser = "choose folder"
	}
	if req.Title != "" {
		chooser += " with prompt " + appleString(req.Title)
	}
	if req.InitialPath != "" {
		chooser += " default location (POSIX file " + appleString(req.InitialPath) + ")"
	}
	if req.AllowMultiple {
		chooser += " with multiple selections allowed"
	}

	out, err := n.osascript(ctx,
		"set picked to ("+chooser+") as list",
		`set out to ""`,
		"repeat with p in picked",
		"set out to out & POSIX path of p & linefeed",
		"end repeat",
		"return out")
	return splitLines(out), err
}

func (n *Native) saveDialog(ctx context.Context, req SaveDialog) (string, error) {
	chooser := "choose file name"
	if req.Title != "" {
		chooser += " with prompt " + appleString(req.Title)
	}
	if req.ProposedName != "" {
		chooser += " default name " + appleString(req.ProposedName)
	}
	if req.InitialPath != "" {
		chooser += " default location (POSIX file " + appleString(req.InitialPath) + ")"
	}
	out, err := n.osascript(ctx, "return POSIX path of ("+chooser+")")
	return firstLine(out), err
}

// MoveToTrash asks Finder to move path to the Trash.
func (n *Native) MoveToTrash(ctx context.Context, path string) errcode.Code {
	abs, code := n.resolve(path)
	if !code.OK() {
		return code
	}
	if _, err := n.osascript(ctx, `tell application "Finder" to delete POSIX file `+appleString(abs)); err != nil {
		n.log.Warn("Finder refused to trash", zap.String("path", abs), zap.Error(err))
		return errcode.ErrCantWrite
	}
	return errcode.NoError
}

func (n *Native) openURL(ctx context.Context, url string) error {
	_, err := n.runner.Run(ctx, "open", url)
	return err
}

func (n *Native) showFolder(ctx context.Context, path string) error {
	_, err := n.runner.Run(ctx, "open", "-R", path)
	return err
}

func networkDrive(path string) (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return false, err
	}
	return st.Flags&unix.MNT_LOCAL == 0, nil
}

func (n *Native) machineID(ctx context.Context) (string, error) {
	out, err := n.runner.Run(ctx, "ioreg", "-rd1", "-c", "IOPlatformExpertDevice")
	if err != nil {
		return "", err
	}
	return parseIOPlatformUUID(string(out))
}

// installCommandLine links the launcher into /usr/local/bin, asking for
// administrator rights when the plain attempt is denied.
func (n *Native) installCommandLine(ctx context.Context) errcode.Code {
	target, err := n.launcherTarget()
	if err != nil {
		return errcode.ErrCLToolsServFailed
	}
	name := n.launcherName()

	code, err := installLauncher(paths.LauncherDir, name, target)
	if code.OK() || !errors.Is(err, os.ErrPermission) {
		if err != nil {
			n.log.Warn("Command line install failed", zap.Stringer("code", code), zap.Error(err))
		}
		return code
	}

	link := paths.LauncherDir + "/" + name
	script := fmt.Sprintf("mkdir -p %s && rm -f %s && ln -s %s %s",
		shellQuote(paths.LauncherDir), shellQuote(link), shellQuote(target), shellQuote(link))
	if _, err := n.osascript(ctx, "do shell script "+appleString(script)+" with administrator privileges"); err != nil {
		if strings.Contains(err.Error(), "-128") {
			return errcode.ErrCLToolsCancelled
		}
		n.log.Warn("Privileged command line install failed", zap.Error(err))
		return errcode.ErrCLToolsServFailed
	}
	return errcode.NoError
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func terminate(p *os.Process) error {
	return p.Signal(os.Interrupt)
}
