package menu

import (
	"fmt"
	"runtime"
	"strings"
)

// Shortcut is a parsed key binding such as "Cmd-Shift-O".
type Shortcut struct {
	Modifiers []string
	Key       string
}

// modifierOrder is the canonical order modifiers are written in.
var modifierOrder = []string{"Cmd", "Ctrl", "Alt", "Shift"}

var modifierAliases = map[string]string{
	"cmd":     "Cmd",
	"command": "Cmd",
	"ctrl":    "Ctrl",
	"control": "Ctrl",
	"alt":     "Alt",
	"opt":     "Alt",
	"option":  "Alt",
	"shift":   "Shift",
}

// ParseShortcut parses a key binding. The empty string is a valid, empty
// shortcut.
func ParseShortcut(s string) (Shortcut, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Shortcut{}, nil
	}

	// "Cmd--" binds the minus key
	key := ""
	if strings.HasSuffix(s, "--") {
		key = "-"
		s = strings.TrimSuffix(s, "--")
	} else if i := strings.LastIndexByte(s, '-'); i >= 0 {
		key = s[i+1:]
		s = s[:i]
	} else {
		key = s
		s = ""
	}
	if key == "" {
		return Shortcut{}, fmt.Errorf("shortcut %q has no key", s)
	}

	seen := make(map[string]bool)
	if s != "" {
		for _, part := range strings.Split(s, "-") {
			mod, ok := modifierAliases[strings.ToLower(part)]
			if !ok {
				return Shortcut{}, fmt.Errorf("unknown modifier %q", part)
			}
			if seen[mod] {
				return Shortcut{}, fmt.Errorf("duplicate modifier %q", part)
			}
			seen[mod] = true
		}
	}

	var mods []string
	for _, m := range modifierOrder {
		if seen[m] {
			mods = append(mods, m)
		}
	}

	if len(key) == 1 {
		key = strings.ToUpper(key)
	}
	return Shortcut{Modifiers: mods, Key: key}, nil
}

// IsZero reports whether the shortcut is empty.
func (s Shortcut) IsZero() bool {
	return s.Key == ""
}

// String returns the canonical form, e.g. "Cmd-Shift-O".
func (s Shortcut) String() string {
	if s.IsZero() {
		return ""
	}
	return strings.Join(append(append([]string{}, s.Modifiers...), s.Key), "-")
}

// Display renders the shortcut for goos: symbols on macOS, "Ctrl+O" style
// elsewhere, where Cmd maps to Ctrl.
func (s Shortcut) Display(goos string) string {
	if s.IsZero() {
		return ""
	}

	if goos == "darwin" {
		symbols := map[string]string{"Cmd": "⌘", "Ctrl": "⌃", "Alt": "⌥", "Shift": "⇧"}
		var b strings.Builder
		// macOS menus list Ctrl, Alt, Shift, Cmd
		for _, m := range []string{"Ctrl", "Alt", "Shift", "Cmd"} {
			for _, have := range s.Modifiers {
				if have == m {
					b.WriteString(symbols[m])
				}
			}
		}
		b.WriteString(s.Key)
		return b.String()
	}

	var parts []string
	hasCtrl := false
	for _, m := range s.Modifiers {
		if m == "Cmd" || m == "Ctrl" {
			if hasCtrl {
				continue
			}
			hasCtrl = true
			m = "Ctrl"
		}
		parts = append(parts, m)
	}
	return strings.Join(append(parts, s.Key), "+")
}

func displayFor(s Shortcut, displayStr string) string {
	if displayStr != "" {
		return displayStr
	}
	return s.Display(runtime.GOOS)
}
