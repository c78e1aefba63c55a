//go:build windows

package errcode

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func fromErrno(errno syscall.Errno, access Access) (Code, bool) {
	switch errno {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND, windows.ERROR_INVALID_DRIVE:
		return ErrNotFound, true
	case windows.ERROR_ACCESS_DENIED, windows.ERROR_SHARING_VIOLATION, windows.ERROR_LOCK_VIOLATION:
		return permissionCode(access), true
	case windows.ERROR_DIRECTORY:
		return ErrNotDirectory, true
	case windows.ERROR_FILE_EXISTS, windows.ERROR_ALREADY_EXISTS, windows.ERROR_DIR_NOT_EMPTY:
		return ErrFileExists, true
	case windows.ERROR_DISK_FULL, windows.ERROR_HANDLE_DISK_FULL:
		return ErrOutOfSpace, true
	case windows.ERROR_WRITE_PROTECT:
		return ErrCantWrite, true
	case windows.ERROR_INVALID_NAME, windows.ERROR_INVALID_PARAMETER, windows.ERROR_FILENAME_EXCED_RANGE:
		return ErrInvalidParams, true
	}
	return ErrUnknown, false
}
