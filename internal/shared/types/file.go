package types

import (
	"os"
	"time"
)

// FileStat describes a file system entry after a successful stat.
type FileStat struct {
	IsFile      bool
	IsDirectory bool
	ModTime     time.Time
	Size        int64
	Mode        os.FileMode
	// RealPath is set when the entry is, or is reached through, a link.
	RealPath string
}

// StatWire is the bridge representation of a FileStat.
type StatWire struct {
	IsFile      bool    `json:"isFile"`
	IsDirectory bool    `json:"isDirectory"`
	Mtime       int64   `json:"mtime"`
	Modified    string  `json:"modified"`
	Size        int64   `json:"size"`
	Mode        uint32  `json:"mode"`
	RealPath    *string `json:"realPath"`
}

// NewFileStat builds a FileStat from os.FileInfo.
func NewFileStat(info os.FileInfo, realPath string) FileStat {
	return FileStat{
		IsFile:      info.Mode().IsRegular(),
		IsDirectory: info.IsDir(),
		ModTime:     info.ModTime(),
		Size:        info.Size(),
		Mode:        info.Mode().Perm(),
		RealPath:    realPath,
	}
}

// Wire converts the stat to its bridge form. The modification time is sent
// as epoch seconds plus an RFC 3339 display timestamp.
func (s FileStat) Wire() StatWire {
	w := StatWire{
		IsFile:      s.IsFile,
		IsDirectory: s.IsDirectory,
		Mtime:       s.ModTime.Unix(),
		Modified:    s.ModTime.UTC().Format(time.RFC3339),
		Size:        s.Size,
		Mode:        uint32(s.Mode),
	}
	if s.RealPath != "" {
		rp := s.RealPath
		w.RealPath = &rp
	}
	return w
}

// ReadResult is the outcome of reading and decoding a text file.
type ReadResult struct {
	Contents    string `json:"contents"`
	Encoding    string `json:"encoding"`
	PreserveBOM bool   `json:"preserveBOM"`
}
