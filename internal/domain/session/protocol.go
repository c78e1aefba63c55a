package session

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Frames on the runtime's stdio are delimited by a blank line; fields
// within a frame are separated by "|".
const (
	frameDelimiter = "\n\n"
	fieldSeparator = "|"

	// MaxFrameSize bounds a frame; larger undelimited input is dropped.
	MaxFrameSize = 4 << 20
)

// Message commands sent by the runtime.
const (
	CommandPing = "ping"
	CommandPort = "port"
	CommandLog  = "log"
)

var errShortMessage = errors.New("message needs an id and a command")

// Message is one decoded frame: "<id>|<command>|<args...>".
type Message struct {
	ID      string
	Command string
	Args    []string
}

// ParseMessage decodes a frame.
func ParseMessage(frame string) (Message, error) {
	parts := strings.Split(strings.TrimSpace(frame), fieldSeparator)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Message{}, fmt.Errorf("%w: %q", errShortMessage, frame)
	}
	return Message{ID: parts[0], Command: parts[1], Args: parts[2:]}, nil
}

// FormatPong builds the reply to a ping. n counts messages sent by the shell.
func FormatPong(n int, pingID string) string {
	return fmt.Sprintf("%s%d%spong%s%s%s", frameDelimiter, n, fieldSeparator, fieldSeparator, pingID, frameDelimiter)
}

// SplitFrames is a bufio.SplitFunc yielding non-empty frames. A buffer that
// reaches MaxFrameSize without a delimiter is discarded.
func SplitFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && data[start] == '\n' {
		start++
	}

	if i := bytes.Index(data[start:], []byte(frameDelimiter)); i >= 0 {
		if i >= MaxFrameSize {
			return start + i + len(frameDelimiter), nil, nil
		}
		return start + i + len(frameDelimiter), data[start : start+i], nil
	}

	if len(data)-start >= MaxFrameSize {
		return len(data), nil, nil
	}
	if atEOF {
		if start < len(data) {
			return len(data), data[start:], nil
		}
		return len(data), nil, nil
	}
	// Leading newlines are consumed so they never count towards a frame.
	return start, nil, nil
}
