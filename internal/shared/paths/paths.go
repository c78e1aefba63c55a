package paths

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Standard file names inside the support directory
const (
	StateFile  = "shell.db"
	ConfigFile = "appshell.toml"
	MenuFile   = "menus.yaml"
)

// LauncherDir is where the command-line launcher is linked on macOS.
const LauncherDir = "/usr/local/bin"

// SupportDir returns the per-user application support directory.
func SupportDir(appName string) (string, error) {
	if err := ValidateAppName(appName); err != nil {
		return "", err
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// DocumentsDir returns the user's documents directory.
func DocumentsDir() (string, error) {
	if dir := os.Getenv("XDG_DOCUMENTS_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home dir: %w", err)
	}
	return filepath.Join(home, "Documents"), nil
}

// TrashDir returns the XDG trash directory of the home volume.
func TrashDir() (string, error) {
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		return filepath.Join(data, "Trash"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "Trash"), nil
}

// FileURL converts an absolute path to a file:// URL.
func FileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// EscapePath percent-encodes path the way file URLs do, keeping slashes.
func EscapePath(path string) string {
	return (&url.URL{Path: filepath.ToSlash(path)}).EscapedPath()
}

// ValidateAppName checks that name can be used as a directory name.
func ValidateAppName(name string) error {
	if name == "" {
		return fmt.Errorf("app name cannot be empty")
	}
	if filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("app name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("app name cannot be %q", name)
	}
	return nil
}
