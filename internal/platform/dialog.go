package platform

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

var errNoDialogHelper = errors.New("no dialog helper available")

// OpenDialog describes an open-file or choose-directory dialog.
type OpenDialog struct {
	AllowMultiple   bool
	ChooseDirectory bool
	Title           string
	InitialPath     string
	// FileTypes are extensions ("js", ".css") or glob patterns ("*.md").
	FileTypes []string
}

// SaveDialog describes a save-file dialog.
type SaveDialog struct {
	Title        string
	InitialPath  string
	ProposedName string
}

// ShowOpenDialog runs the native open dialog. A cancelled dialog yields an
// empty selection and no error.
func (n *Native) ShowOpenDialog(ctx context.Context, req OpenDialog) ([]string, errcode.Code) {
	var patterns []string
	if !req.ChooseDirectory {
		var err error
		if patterns, err = filterPatterns(req.FileTypes); err != nil {
			n.log.Debug("Rejected dialog filters", zap.Strings("fileTypes", req.FileTypes), zap.Error(err))
			return nil, errcode.ErrInvalidParams
		}
	}

	paths, err := n.openDialog(ctx, req, patterns)
	if code := dialogCode(err); !code.OK() {
		n.log.Warn("Open dialog failed", zap.Error(err))
		return nil, code
	}
	return applyFilters(paths, patterns), errcode.NoError
}

// ShowSaveDialog runs the native save dialog. Cancel yields "".
func (n *Native) ShowSaveDialog(ctx context.Context, req SaveDialog) (string, errcode.Code) {
	path, err := n.saveDialog(ctx, req)
	if code := dialogCode(err); !code.OK() {
		n.log.Warn("Save dialog failed", zap.Error(err))
		return "", code
	}
	return path, errcode.NoError
}

func dialogCode(err error) errcode.Code {
	switch {
	case err == nil, isCancel(err):
		return errcode.NoError
	case errors.Is(err, errNoDialogHelper):
		return errcode.ErrNotFound
	}
	return errcode.ErrUnknown
}

// isCancel reports the exit status dialog helpers use when the user
// dismisses the dialog.
func isCancel(err error) bool {
	var exit *exec.ExitError
	return errors.As(err, &exit) && exit.ExitCode() == 1
}

// filterPatterns turns file types into lower-case glob patterns.
func filterPatterns(fileTypes []string) ([]string, error) {
	patterns := make([]string, 0, len(fileTypes))
	for _, ft := range fileTypes {
		ft = strings.TrimSpace(ft)
		if ft == "" {
			return nil, errors.New("empty file type")
		}
		if !strings.ContainsAny(ft, "*?[{") {
			ft = "*." + strings.TrimPrefix(ft, ".")
		}
		ft = strings.ToLower(ft)
		if strings.ContainsAny(ft, `/\`) || !doublestar.ValidatePattern(ft) {
			return nil, errors.New("invalid file type pattern " + ft)
		}
		patterns = append(patterns, ft)
	}
	return patterns, nil
}

func applyFilters(paths, patterns []string) []string {
	if len(patterns) == 0 {
		return paths
	}
	kept := paths[:0]
	for _, p := range paths {
		base := strings.ToLower(filepath.Base(p))
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, base); ok {
				kept = append(kept, p)
				break
			}
		}
	}
	return kept
}

// splitLines parses helper output with one path per line.
func splitLines(out []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func firstLine(out []byte) string {
	if lines := splitLines(out); len(lines) > 0 {
		return lines[0]
	}
	return ""
}

// dialogDir returns the directory part of an initial path.
func dialogDir(initial string) string {
	if initial == "" {
		return ""
	}
	if strings.HasSuffix(initial, string(filepath.Separator)) {
		return initial
	}
	return initial + string(filepath.Separator)
}
