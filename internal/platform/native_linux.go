package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/paths"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

// statfs magic numbers of remote file systems.
var remoteFilesystems = map[uint32]string{
	0x6969:     "nfs",
	0x517B:     "smb",
	0xFE534D42: "smb2",
	0xFF534D42: "cifs",
	0x73757245: "coda",
	0x5346414F: "afs",
	0x564C:     "ncp",
	0x01021997: "9p",
	0x00C36400: "ceph",
}

var machineIDFiles = []string{"/etc/machine-id", "/var/lib/dbus/machine-id"}

func capabilities() types.Capabilities {
	return types.Capabilities{
		Dialogs:         true,
		Trash:           true,
		NetworkDrive:    true,
		RemoteDebugging: true,
		LiveBrowser:     true,
	}
}

func defaultBrowsers() []string {
	return []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"}
}

func (n *Native) openDialog(ctx context.Context, req OpenDialog, patterns []string) ([]string, error) {
	if _, err := n.runner.LookPath("zenity"); err == nil {
		args := []string{"--file-selection", "--separator=\n"}
		if req.Title != "" {
			args = append(args, "--title="+req.Title)
		}
		if req.InitialPath != "" {
			args = append(args, "--filename="+dialogDir(req.InitialPath))
		}
		if req.AllowMultiple {
			args = append(args, "--multiple")
		}
		if req.ChooseDirectory {
			args = append(args, "--directory")
		} else if len(patterns) > 0 {
			args = append(args, "--file-filter=Files | "+strings.Join(patterns, " "))
		}
		out, err := n.runner.Run(ctx, "zenity", args...)
		return splitLines(out), err
	}

	if _, err := n.runner.LookPath("kdialog"); err == nil {
		var args []string
		start := req.InitialPath
		if start == "" {
			start = "."
		}
		switch {
		case req.ChooseDirectory:
			args = []string{"--getexistingdirectory", start}
		default:
			args = []string{"--getopenfilename", start}
			if len(patterns) > 0 {
				args = append(args, strings.Join(patterns, " ")+"|Files")
			}
			if req.AllowMultiple {
				args = append(args, "--multiple", "--separate-output")
			}
		}
		if req.Title != "" {
			args = append(args, "--title", req.Title)
		}
		out, err := n.runner.Run(ctx, "kdialog", args...)
		return splitLines(out), err
	}

	return nil, errNoDialogHelper
}

func (n *Native) saveDialog(ctx context.Context, req SaveDialog) (string, error) {
	target := dialogDir(req.InitialPath) + req.ProposedName

	if _, err := n.runner.LookPath("zenity"); err == nil {
		args := []string{"--file-selection", "--save", "--confirm-overwrite"}
		if req.Title != "" {
			args = append(args, "--title="+req.Title)
		}
		if target != "" {
			args = append(args, "--filename="+target)
		}
		out, err := n.runner.Run(ctx, "zenity", args...)
		return firstLine(out), err
	}

	if _, err := n.runner.LookPath("kdialog"); err == nil {
		if target == "" {
			target = "."
		}
		args := []string{"--getsavefilename", target}
		if req.Title != "" {
			args = append(args, "--title", req.Title)
		}
		out, err := n.runner.Run(ctx, "kdialog", args...)
		return firstLine(out), err
	}

	return "", errNoDialogHelper
}

func (n *Native) openURL(ctx context.Context, url string) error {
	_, err := n.runner.Run(ctx, "xdg-open", url)
	return err
}

// showFolder asks the desktop file manager to select path, falling back to
// opening its directory.
func (n *Native) showFolder(ctx context.Context, path string) error {
	_, err := n.runner.Run(ctx, "dbus-send", "--session", "--print-reply",
		"--dest=org.freedesktop.FileManager1",
		"--type=method_call",
		"/org/freedesktop/FileManager1",
		"org.freedesktop.FileManager1.ShowItems",
		"array:string:"+paths.FileURL(path),
		"string:")
	if err == nil {
		return nil
	}

	dir := path
	if info, serr := os.Stat(path); serr == nil && !info.IsDir() {
		dir = filepath.Dir(path)
	}
	if _, ferr := n.runner.Run(ctx, "xdg-open", dir); ferr != nil {
		return fmt.Errorf("file manager: %w", ferr)
	}
	return nil
}

func networkDrive(path string) (bool, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return false, err
	}
	_, remote := remoteFilesystems[uint32(st.Type)]
	return remote, nil
}

func (n *Native) machineID(context.Context) (string, error) {
	for _, f := range machineIDFiles {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}
	return "", errNoMachineID
}

func (n *Native) installCommandLine(context.Context) errcode.Code {
	return errcode.ErrCLToolsNotSupported
}

func terminate(p *os.Process) error {
	return p.Signal(os.Interrupt)
}
