package platform

import (
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// installLauncher links dir/name to target, replacing an existing link.
// Each step that fails reports its own command-line tools code.
func installLauncher(dir, name, target string) (errcode.Code, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errcode.ErrCLToolsMkdirFailed, err
	}
	link := filepath.Join(dir, name)
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return errcode.ErrCLToolsRmFailed, err
		}
	}
	if err := os.Symlink(target, link); err != nil {
		return errcode.ErrCLToolsSymlinkFailed, err
	}
	return errcode.NoError, nil
}

func (n *Native) launcherTarget() (string, error) {
	if n.opts.CommandLineTarget != "" {
		return n.opts.CommandLineTarget, nil
	}
	return os.Executable()
}

func (n *Native) launcherName() string {
	if n.opts.CommandLineName != "" {
		return n.opts.CommandLineName
	}
	return "brackets"
}
