package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

func TestInstallLauncher(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := filepath.Join(t.TempDir(), "bin")

	code, err := installLauncher(dir, "brackets", "/opt/first")
	require.NoError(t, err)
	assert.Equal(t, errcode.NoError, code)

	code, err = installLauncher(dir, "brackets", "/opt/second")
	require.NoError(t, err)
	assert.Equal(t, errcode.NoError, code)

	target, err := os.Readlink(filepath.Join(dir, "brackets"))
	require.NoError(t, err)
	assert.Equal(t, "/opt/second", target)
}

func TestInstallLauncherMkdirFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	code, err := installLauncher(filepath.Join(blocker, "bin"), "brackets", "/opt/x")
	assert.Error(t, err)
	assert.Equal(t, errcode.ErrCLToolsMkdirFailed, code)
}

func TestInstallCommandLineCapability(t *testing.T) {
	if capabilities().CommandLineTools {
		t.Skip("command line tools supported here")
	}
	n := newTestNative(t)
	assert.Equal(t, errcode.ErrCLToolsNotSupported, n.InstallCommandLine(testContext(t)))
}
