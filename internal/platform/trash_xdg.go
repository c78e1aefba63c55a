//go:build !darwin && !windows

package platform

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/paths"
)

const trashInfoTime = "2006-01-02T15:04:05"

// MoveToTrash moves path into the XDG trash of the home volume.
func (n *Native) MoveToTrash(_ context.Context, path string) errcode.Code {
	abs, err := filepath.Abs(path)
	if err != nil || path == "" {
		return errcode.ErrInvalidParams
	}
	if _, err := os.Lstat(abs); err != nil {
		return errcode.FromError(err, errcode.Reading)
	}

	trash, err := paths.TrashDir()
	if err != nil {
		return errcode.ErrUnknown
	}
	filesDir := filepath.Join(trash, "files")
	infoDir := filepath.Join(trash, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errcode.FromError(err, errcode.Writing)
		}
	}

	name, info, err := reserveTrashName(infoDir, filepath.Base(abs))
	if err != nil {
		return errcode.FromError(err, errcode.Writing)
	}
	record := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		paths.EscapePath(abs), time.Now().Format(trashInfoTime))
	if _, err := info.WriteString(record); err != nil {
		info.Close()
		os.Remove(info.Name())
		return errcode.FromError(err, errcode.Writing)
	}
	info.Close()

	dest := filepath.Join(filesDir, name)
	if err := moveTree(abs, dest); err != nil {
		os.Remove(info.Name())
		n.log.Warn("Failed to move to trash", zap.String("path", abs), zap.Error(err))
		return errcode.FromError(err, errcode.Writing)
	}
	return errcode.NoError
}

// reserveTrashName creates the .trashinfo file for the first free name.
func reserveTrashName(infoDir, base string) (string, *os.File, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; i < 10000; i++ {
		name := base
		if i > 1 {
			name = stem + "." + strconv.Itoa(i) + ext
		}
		f, err := os.OpenFile(filepath.Join(infoDir, name+".trashinfo"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return name, f, err
	}
	return "", nil, fmt.Errorf("no free trash name for %s", base)
}

// moveTree renames src to dest, copying across devices when needed.
func moveTree(src, dest string) error {
	err := os.Rename(src, dest)
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyTree(src, dest); err != nil {
		os.RemoveAll(dest)
		return err
	}
	return os.RemoveAll(src)
}

func copyTree(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyNode(src, dest, info)
	}

	conf := fastwalk.Config{Follow: false}
	return fastwalk.Walk(&conf, src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return copyNode(p, filepath.Join(dest, rel), fi)
	})
}

func copyNode(src, dest string, info fs.FileInfo) error {
	switch {
	case info.IsDir():
		return os.MkdirAll(dest, info.Mode().Perm()|0o700)
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o700); err != nil {
			return err
		}
		return os.Symlink(target, dest)
	case info.Mode().IsRegular():
		if err := os.MkdirAll(filepath.Dir(dest), 0o700); err != nil {
			return err
		}
		return copyRegular(src, dest, info.Mode().Perm())
	}
	return nil
}
