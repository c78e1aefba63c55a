package platform

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

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
	var list []string
	for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)", "LocalAppData"} {
		if base := os.Getenv(env); base != "" {
			list = append(list, filepath.Join(base, `Google\Chrome\Application\chrome.exe`))
		}
	}
	return append(list, "chrome.exe", "msedge.exe")
}

// psString quotes s as a PowerShell single-quoted literal.
func psString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (n *Native) powershell(ctx context.Context, lines ...string) ([]byte, error) {
	return n.runner.Run(ctx, "powershell", "-NoProfile", "-NonInteractive", "-STA",
		"-Command", strings.Join(lines, "; "))
}

func (n *Native) openDialog(ctx context.Context, req OpenDialog, patterns []string) ([]string, error) {
	script := []string{"Add-Type -AssemblyName System.Windows.Forms"}
	if req.ChooseDirectory {
		script = append(script, "$d = New-Object System.Windows.Forms.FolderBrowserDialog")
		if req.Title != "" {
			script = append(script, "$d.Description = "+psString(req.Title))
		}
		if req.InitialPath != "" {
			script = append(script, "$d.SelectedPath = "+psString(req.InitialPath))
		}
		script = append(script, "if ($d.ShowDialog() -eq 'OK') { $d.SelectedPath }")
	} else {
		script = append(script, "$d = New-Object System.Windows.Forms.OpenFileDialog")
		if req.Title != "" {
			script = append(script, "$d.Title = "+psString(req.Title))
		}
		if req.InitialPath != "" {
			script = append(script, "$d.InitialDirectory = "+psString(req.InitialPath))
		}
		if req.AllowMultiple {
			script = append(script, "$d.Multiselect = $true")
		}
		if len(patterns) > 0 {
			script = append(script, "$d.Filter = "+psString("Files|"+strings.Join(patterns, ";")))
		}
		script = append(script, "if ($d.ShowDialog() -eq 'OK') { $d.FileNames -join \"`n\" }")
	}
	out, err := n.powershell(ctx, script...)
	return splitLines(out), err
}

func (n *Native) saveDialog(ctx context.Context, req SaveDialog) (string, error) {
	script := []string{
		"Add-Type -AssemblyName System.Windows.Forms",
		"$d = New-Object System.Windows.Forms.SaveFileDialog",
	}
	if req.Title != "" {
		script = append(script, "$d.Title = "+psString(req.Title))
	}
	if req.InitialPath != "" {
		script = append(script, "$d.InitialDirectory = "+psString(req.InitialPath))
	}
	if req.ProposedName != "" {
		script = append(script, "$d.FileName = "+psString(req.ProposedName))
	}
	script = append(script, "if ($d.ShowDialog() -eq 'OK') { $d.FileName }")
	out, err := n.powershell(ctx, script...)
	return firstLine(out), err
}

// MoveToTrash sends path to the Recycle Bin.
func (n *Native) MoveToTrash(ctx context.Context, path string) errcode.Code {
	abs, code := n.resolve(path)
	if !code.OK() {
		return code
	}
	method := "DeleteFile"
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		method = "DeleteDirectory"
	}
	_, err := n.powershell(ctx,
		"Add-Type -AssemblyName Microsoft.VisualBasic",
		"[Microsoft.VisualBasic.FileIO.FileSystem]::"+method+"("+psString(abs)+", 'OnlyErrorDialogs', 'SendToRecycleBin')")
	if err != nil {
		n.log.Warn("Recycle bin refused path", zap.String("path", abs), zap.Error(err))
		return errcode.ErrCantWrite
	}
	return errcode.NoError
}

func (n *Native) openURL(ctx context.Context, url string) error {
	_, err := n.runner.Run(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	return err
}

func (n *Native) showFolder(ctx context.Context, path string) error {
	// explorer exits non-zero even when it opened the window.
	_, _ = n.runner.Run(ctx, "explorer", "/select,"+path)
	return nil
}

func networkDrive(path string) (bool, error) {
	if strings.HasPrefix(path, `\\`) {
		return true, nil
	}
	root := filepath.VolumeName(path) + `\`
	p, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return false, err
	}
	return windows.GetDriveType(p) == windows.DRIVE_REMOTE, nil
}

func (n *Native) machineID(context.Context) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Cryptography`,
		registry.QUERY_VALUE|registry.WOW64_64KEY)
	if err != nil {
		return "", err
	}
	defer k.Close()

	guid, _, err := k.GetStringValue("MachineGuid")
	return guid, err
}

func (n *Native) installCommandLine(context.Context) errcode.Code {
	return errcode.ErrCLToolsNotSupported
}

func terminate(p *os.Process) error {
	return p.Kill()
}
