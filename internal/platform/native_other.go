//go:build !linux && !darwin && !windows

package platform

import (
	"context"
	"errors"
	"os"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

var errUnsupported = errors.New("not supported on this platform")

func capabilities() types.Capabilities {
	return types.Capabilities{Trash: true, LiveBrowser: true}
}

func defaultBrowsers() []string {
	return []string{"chromium", "chrome"}
}

func (n *Native) openDialog(context.Context, OpenDialog, []string) ([]string, error) {
	return nil, errNoDialogHelper
}

func (n *Native) saveDialog(context.Context, SaveDialog) (string, error) {
	return "", errNoDialogHelper
}

func (n *Native) openURL(ctx context.Context, url string) error {
	_, err := n.runner.Run(ctx, "xdg-open", url)
	return err
}

func (n *Native) showFolder(ctx context.Context, path string) error {
	_, err := n.runner.Run(ctx, "xdg-open", path)
	return err
}

func networkDrive(string) (bool, error) {
	return false, nil
}

func (n *Native) machineID(context.Context) (string, error) {
	return "", errUnsupported
}

func (n *Native) installCommandLine(context.Context) errcode.Code {
	return errcode.ErrCLToolsNotSupported
}

func terminate(p *os.Process) error {
	return p.Signal(os.Interrupt)
}
