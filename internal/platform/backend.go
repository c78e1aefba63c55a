package platform

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
	"github.com/GriffinCanCode/appshell/internal/shared/utils"
)

// Backend is the native dispatch layer. Every method is synchronous and
// reports failures as a code; callers decide how results reach the content.
type Backend interface {
	Capabilities() types.Capabilities

	ShowOpenDialog(ctx context.Context, req OpenDialog) ([]string, errcode.Code)
	ShowSaveDialog(ctx context.Context, req SaveDialog) (string, errcode.Code)

	IsNetworkDrive(path string) (bool, errcode.Code)
	ReadDir(path string) ([]string, errcode.Code)
	ReadDirWithStats(path string) ([]string, []types.FileStat, errcode.Code)
	MakeDir(path string, mode os.FileMode) errcode.Code
	Rename(oldPath, newPath string) errcode.Code
	Stat(path string) (types.FileStat, errcode.Code)
	ReadFile(path, encoding string) (types.ReadResult, errcode.Code)
	WriteFile(path, data, encoding string, preserveBOM bool) errcode.Code
	Chmod(path string, mode os.FileMode) errcode.Code
	Unlink(path string) errcode.Code
	MoveToTrash(ctx context.Context, path string) errcode.Code
	CopyFile(src, dest string) errcode.Code

	OpenURL(ctx context.Context, url string) errcode.Code
	ShowFolder(ctx context.Context, path string) errcode.Code
	OpenLiveBrowser(ctx context.Context, url string, remoteDebugging bool) errcode.Code
	CloseLiveBrowser(ctx context.Context) errcode.Code
	InstallCommandLine(ctx context.Context) errcode.Code
	MachineHash(ctx context.Context) (string, errcode.Code)
}

// Runner executes helper programs (dialog tools, file managers).
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	LookPath(name string) (string, error)
}

// ExecRunner runs helpers with os/exec.
type ExecRunner struct{}

// Run executes name and returns its stdout. Stderr is attached to the error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// LookPath resolves name on PATH.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Options configures the native back-end.
type Options struct {
	AppName string
	// CommandLineName is the launcher installed by InstallCommandLine.
	CommandLineName string
	// CommandLineTarget is what the launcher points at; defaults to the
	// running executable.
	CommandLineTarget string

	RemoteDebuggingPort int
	BrowserProbeTimeout time.Duration
	// Browsers overrides the live browser candidates for this OS.
	Browsers []string

	Runner Runner
	Logger *zap.Logger
}

var _ Backend = (*Native)(nil)

// Native implements Backend for the running OS.
type Native struct {
	opts    Options
	runner  Runner
	log     *zap.Logger
	browser *LiveBrowser
	hasher  *utils.Hasher
}

// New creates the back-end for runtime.GOOS.
func New(opts Options) *Native {
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.AppName == "" {
		opts.AppName = "Brackets"
	}
	if len(opts.Browsers) == 0 {
		opts.Browsers = defaultBrowsers()
	}

	log := opts.Logger.Named("platform")
	return &Native{
		opts:   opts,
		runner: opts.Runner,
		log:    log,
		browser: NewLiveBrowser(BrowserConfig{
			Candidates:   opts.Browsers,
			DebugPort:    opts.RemoteDebuggingPort,
			ProbeTimeout: opts.BrowserProbeTimeout,
			Logger:       log,
		}),
		hasher: utils.DefaultHasher(),
	}
}

// Capabilities reports the optional operations supported on this OS.
func (n *Native) Capabilities() types.Capabilities {
	return capabilities()
}

// OpenURL opens url with the desktop's default handler.
func (n *Native) OpenURL(ctx context.Context, url string) errcode.Code {
	if url == "" {
		return errcode.ErrInvalidParams
	}
	if err := n.openURL(ctx, url); err != nil {
		n.log.Warn("Failed to open URL", zap.String("url", url), zap.Error(err))
		return errcode.ErrUnknown
	}
	return errcode.NoError
}

// ShowFolder reveals path in the OS file manager.
func (n *Native) ShowFolder(ctx context.Context, path string) errcode.Code {
	abs, code := n.resolve(path)
	if !code.OK() {
		return code
	}
	if err := n.showFolder(ctx, abs); err != nil {
		n.log.Warn("Failed to show folder", zap.String("path", abs), zap.Error(err))
		return errcode.ErrUnknown
	}
	return errcode.NoError
}

// OpenLiveBrowser launches the preview browser at url.
func (n *Native) OpenLiveBrowser(ctx context.Context, url string, remoteDebugging bool) errcode.Code {
	if !capabilities().RemoteDebugging {
		remoteDebugging = false
	}
	return n.browser.Open(ctx, url, remoteDebugging)
}

// CloseLiveBrowser closes the preview browser, waiting until ctx is done.
func (n *Native) CloseLiveBrowser(ctx context.Context) errcode.Code {
	return n.browser.Close(ctx)
}

// InstallCommandLine links the command-line launcher where supported.
func (n *Native) InstallCommandLine(ctx context.Context) errcode.Code {
	if !capabilities().CommandLineTools {
		return errcode.ErrCLToolsNotSupported
	}
	return n.installCommandLine(ctx)
}

// MachineHash derives a stable machine fingerprint. The OS machine id is
// preferred; the host name is used when no id is available.
func (n *Native) MachineHash(ctx context.Context) (string, errcode.Code) {
	machineID, err := n.machineID(ctx)
	if err != nil || machineID == "" {
		n.log.Debug("Machine id unavailable, falling back to host name", zap.Error(err))
		host, herr := os.Hostname()
		if herr != nil {
			return "", errcode.ErrUnknown
		}
		machineID = host
	}
	fp := utils.NewFingerprint(n.hasher, n.opts.AppName)
	return fp.Generate(runtime.GOOS, machineID), errcode.NoError
}
