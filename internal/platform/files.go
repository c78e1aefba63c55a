package platform

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
	"github.com/GriffinCanCode/appshell/internal/shared/types"
)

const defaultDirMode os.FileMode = 0o777

type dirEntry struct {
	name string
	stat types.FileStat
}

// ReadDir lists path: directories first, then files, each in name order.
// Entries that are neither (sockets, dangling links) are skipped.
func (n *Native) ReadDir(path string) ([]string, errcode.Code) {
	entries, code := n.listDir(path)
	if !code.OK() {
		return nil, code
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names, errcode.NoError
}

// ReadDirWithStats lists path like ReadDir with index-aligned stats.
func (n *Native) ReadDirWithStats(path string) ([]string, []types.FileStat, errcode.Code) {
	entries, code := n.listDir(path)
	if !code.OK() {
		return nil, nil, code
	}
	names := make([]string, len(entries))
	stats := make([]types.FileStat, len(entries))
	for i, e := range entries {
		names[i] = e.name
		stats[i] = e.stat
	}
	return names, stats, errcode.NoError
}

func (n *Native) listDir(path string) ([]dirEntry, errcode.Code) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errcode.FromError(err, errcode.Reading)
	}
	if !info.IsDir() {
		return nil, errcode.ErrNotDirectory
	}

	raw, err := os.ReadDir(path)
	if err != nil {
		return nil, errcode.FromError(err, errcode.Reading)
	}

	var dirs, files []dirEntry
	for _, d := range raw {
		full := filepath.Join(path, d.Name())
		stat, code := statEntry(full)
		if !code.OK() {
			continue
		}
		switch {
		case stat.IsDirectory:
			dirs = append(dirs, dirEntry{name: d.Name(), stat: stat})
		case stat.IsFile:
			files = append(files, dirEntry{name: d.Name(), stat: stat})
		}
	}

	byName := func(list []dirEntry) {
		sort.SliceStable(list, func(i, j int) bool { return list[i].name < list[j].name })
	}
	byName(dirs)
	byName(files)
	return append(dirs, files...), errcode.NoError
}

// Stat describes path, following links. RealPath is set when the path is,
// or passes through, a symbolic link.
func (n *Native) Stat(path string) (types.FileStat, errcode.Code) {
	return statEntry(path)
}

func statEntry(path string) (types.FileStat, errcode.Code) {
	info, err := os.Stat(path)
	if err != nil {
		return types.FileStat{}, errcode.FromError(err, errcode.Reading)
	}
	return types.NewFileStat(info, realPath(path)), errcode.NoError
}

func realPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil || resolved == abs {
		return ""
	}
	return resolved
}

// MakeDir creates path and any missing parents. Mode 0 means 0777.
func (n *Native) MakeDir(path string, mode os.FileMode) errcode.Code {
	if path == "" {
		return errcode.ErrInvalidParams
	}
	if _, err := os.Lstat(path); err == nil {
		return errcode.ErrFileExists
	}
	if mode == 0 {
		mode = defaultDirMode
	}
	if err := os.MkdirAll(path, mode.Perm()); err != nil {
		return errcode.FromError(err, errcode.Writing)
	}
	return errcode.NoError
}

// Rename moves oldPath to newPath without replacing an existing entry.
func (n *Native) Rename(oldPath, newPath string) errcode.Code {
	if oldPath == "" || newPath == "" {
		return errcode.ErrInvalidParams
	}
	if _, err := os.Lstat(oldPath); err != nil {
		return errcode.FromError(err, errcode.Reading)
	}
	if _, err := os.Lstat(newPath); err == nil {
		return errcode.ErrFileExists
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return errcode.FromError(err, errcode.Writing)
	}
	return errcode.NoError
}

// Chmod sets the permission bits of path.
func (n *Native) Chmod(path string, mode os.FileMode) errcode.Code {
	if err := os.Chmod(path, mode.Perm()); err != nil {
		return errcode.FromError(err, errcode.Writing)
	}
	return errcode.NoError
}

// Unlink removes path; directories are removed recursively.
func (n *Native) Unlink(path string) errcode.Code {
	if path == "" {
		return errcode.ErrInvalidParams
	}
	if _, err := os.Lstat(path); err != nil {
		return errcode.FromError(err, errcode.Reading)
	}
	if err := os.RemoveAll(path); err != nil {
		return errcode.FromError(err, errcode.Writing)
	}
	return errcode.NoError
}

// CopyFile copies the regular file src to dest, replacing dest.
func (n *Native) CopyFile(src, dest string) errcode.Code {
	info, err := os.Stat(src)
	if err != nil {
		return errcode.FromError(err, errcode.Reading)
	}
	if !info.Mode().IsRegular() {
		return errcode.ErrNotFile
	}
	if err := copyRegular(src, dest, info.Mode().Perm()); err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) && pe.Path == src {
			return errcode.FromError(err, errcode.Reading)
		}
		return errcode.FromError(err, errcode.Writing)
	}
	return errcode.NoError
}

func copyRegular(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// IsNetworkDrive reports whether path lives on a remote file system.
func (n *Native) IsNetworkDrive(path string) (bool, errcode.Code) {
	abs, code := n.resolve(path)
	if !code.OK() {
		return false, code
	}
	remote, err := networkDrive(abs)
	if err != nil {
		return false, errcode.FromError(err, errcode.Reading)
	}
	return remote, errcode.NoError
}

func (n *Native) resolve(path string) (string, errcode.Code) {
	if path == "" {
		return "", errcode.ErrInvalidParams
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errcode.ErrInvalidParams
	}
	if _, err := os.Stat(abs); err != nil {
		return "", errcode.FromError(err, errcode.Reading)
	}
	return abs, errcode.NoError
}
