//go:build !windows

package errcode

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func fromErrno(errno syscall.Errno, access Access) (Code, bool) {
	switch errno {
	case unix.ENOENT:
		return ErrNotFound, true
	case unix.EACCES, unix.EPERM:
		return permissionCode(access), true
	case unix.ENOTDIR:
		return ErrNotDirectory, true
	case unix.EEXIST, unix.ENOTEMPTY:
		return ErrFileExists, true
	case unix.ENOSPC, unix.EDQUOT:
		return ErrOutOfSpace, true
	case unix.EISDIR:
		return ErrNotFile, true
	case unix.EROFS, unix.ETXTBSY:
		return ErrCantWrite, true
	case unix.EINVAL, unix.ENAMETOOLONG:
		return ErrInvalidParams, true
	}
	return ErrUnknown, false
}
