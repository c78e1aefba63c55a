package errcode

import (
	"errors"
	"io/fs"
	"strconv"
	"syscall"
)

// Code is a result code returned by every native operation.
type Code int

// File system and application codes. Values are part of the wire contract.
const (
	NoError                     Code = 0
	ErrUnknown                  Code = 1
	ErrInvalidParams            Code = 2
	ErrNotFound                 Code = 3
	ErrCantRead                 Code = 4
	ErrUnsupportedEncoding      Code = 5
	ErrCantWrite                Code = 6
	ErrOutOfSpace               Code = 7
	ErrNotFile                  Code = 8
	ErrNotDirectory             Code = 9
	ErrFileExists               Code = 10
	ErrBrowserNotInstalled      Code = 11
	ErrCLToolsCancelled         Code = 12
	ErrCLToolsRmFailed          Code = 13
	ErrCLToolsMkdirFailed       Code = 14
	ErrCLToolsSymlinkFailed     Code = 15
	ErrCLToolsServFailed        Code = 16
	ErrCLToolsNotSupported      Code = 17
	ErrEncodeFileFailed         Code = 18
	ErrDecodeFileFailed         Code = 19
	ErrUnsupportedUTF16Encoding Code = 20
)

// Auxiliary runtime lifecycle codes.
const (
	ErrNodeNotYetStarted Code = -1
	ErrNodePortNotYetSet Code = -2
	ErrNodeFailed        Code = -3
)

var names = map[Code]string{
	NoError:                     "NO_ERROR",
	ErrUnknown:                  "ERR_UNKNOWN",
	ErrInvalidParams:            "ERR_INVALID_PARAMS",
	ErrNotFound:                 "ERR_NOT_FOUND",
	ErrCantRead:                 "ERR_CANT_READ",
	ErrUnsupportedEncoding:      "ERR_UNSUPPORTED_ENCODING",
	ErrCantWrite:                "ERR_CANT_WRITE",
	ErrOutOfSpace:               "ERR_OUT_OF_SPACE",
	ErrNotFile:                  "ERR_NOT_FILE",
	ErrNotDirectory:             "ERR_NOT_DIRECTORY",
	ErrFileExists:               "ERR_FILE_EXISTS",
	ErrBrowserNotInstalled:      "ERR_BROWSER_NOT_INSTALLED",
	ErrCLToolsCancelled:         "ERR_CL_TOOLS_CANCELLED",
	ErrCLToolsRmFailed:          "ERR_CL_TOOLS_RMFAILED",
	ErrCLToolsMkdirFailed:       "ERR_CL_TOOLS_MKDIRFAILED",
	ErrCLToolsSymlinkFailed:     "ERR_CL_TOOLS_SYMLINKFAILED",
	ErrCLToolsServFailed:        "ERR_CL_TOOLS_SERVFAILED",
	ErrCLToolsNotSupported:      "ERR_CL_TOOLS_NOTSUPPORTED",
	ErrEncodeFileFailed:         "ERR_ENCODE_FILE_FAILED",
	ErrDecodeFileFailed:         "ERR_DECODE_FILE_FAILED",
	ErrUnsupportedUTF16Encoding: "ERR_UNSUPPORTED_UTF16_ENCODING",
	ErrNodeNotYetStarted:        "ERR_NODE_NOT_YET_STARTED",
	ErrNodePortNotYetSet:        "ERR_NODE_PORT_NOT_YET_SET",
	ErrNodeFailed:               "ERR_NODE_FAILED",
}

// String returns the constant name used by the content layer.
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "ERR_" + strconv.Itoa(int(c))
}

// OK reports whether c is NoError.
func (c Code) OK() bool {
	return c == NoError
}

// IsRuntime reports whether c belongs to the auxiliary runtime subrange.
func (c Code) IsRuntime() bool {
	return c < 0
}

// Known reports whether c is a defined code.
func (c Code) Known() bool {
	_, ok := names[c]
	return ok
}

// All returns every defined code, runtime codes first.
func All() []Code {
	codes := make([]Code, 0, len(names))
	for c := ErrNodeFailed; c <= ErrUnsupportedUTF16Encoding; c++ {
		if _, ok := names[c]; ok {
			codes = append(codes, c)
		}
	}
	return codes
}

// Access tells FromError which side of a permission failure to report.
type Access int

const (
	Reading Access = iota
	Writing
)

// FromError maps a Go or OS error to the narrowest code it can identify.
func FromError(err error, access Access) Code {
	if err == nil {
		return NoError
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if code, ok := fromErrno(errno, access); ok {
			return code
		}
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrExist):
		return ErrFileExists
	case errors.Is(err, fs.ErrPermission):
		return permissionCode(access)
	case errors.Is(err, fs.ErrInvalid):
		return ErrInvalidParams
	}
	return ErrUnknown
}

func permissionCode(access Access) Code {
	if access == Writing {
		return ErrCantWrite
	}
	return ErrCantRead
}
