package menu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Command ids with native meaning.
const (
	CommandUndo      = "edit.undo"
	CommandRedo      = "edit.redo"
	CommandCut       = "edit.cut"
	CommandCopy      = "edit.copy"
	CommandPaste     = "edit.paste"
	CommandSelectAll = "edit.selectAll"

	CommandCloseWindow     = "file.close_window"
	CommandQuit            = "file.quit"
	CommandAbortQuit       = "app.abort_quit"
	CommandBeforeMenuPopup = "app.before_menupopup"
	CommandAbout           = "help.about"
)

var editCommands = []string{
	CommandUndo, CommandRedo, CommandCut, CommandCopy, CommandPaste, CommandSelectAll,
}

// IsEditCommand reports whether id is a standard edit command.
func IsEditCommand(id string) bool {
	for _, c := range editCommands {
		if c == id {
			return true
		}
	}
	return false
}

// CommandSender offers a command to the content, which reports whether it
// handled it.
type CommandSender interface {
	SendCommand(ctx context.Context, commandID string) (bool, error)
}

// EditHandler applies a standard edit command natively.
type EditHandler interface {
	ApplyEdit(ctx context.Context, command string) error
}

// Outcome describes who handled a menu activation.
type Outcome int

const (
	OutcomeUnhandled Outcome = iota
	OutcomeContent
	OutcomeNative
	OutcomeDisabled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeContent:
		return "content"
	case OutcomeNative:
		return "native"
	case OutcomeDisabled:
		return "disabled"
	default:
		return "unhandled"
	}
}

var (
	ErrUnknownItem   = errors.New("unknown menu item")
	ErrNotActionable = errors.New("menu node cannot be activated")
)

// Dispatcher routes menu activations. The content always gets the first
// chance to handle a command; native handlers run only when it declines.
type Dispatcher struct {
	tree    *Tree
	content CommandSender
	log     *zap.Logger

	mu      sync.RWMutex
	natives map[string]func(context.Context) error
}

// NewDispatcher creates a dispatcher. edit may be nil when the platform has
// no native edit behavior.
func NewDispatcher(tree *Tree, content CommandSender, edit EditHandler, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		tree:    tree,
		content: content,
		log:     log,
		natives: make(map[string]func(context.Context) error),
	}
	if edit != nil {
		for _, cmd := range editCommands {
			cmd := cmd
			d.natives[cmd] = func(ctx context.Context) error {
				return edit.ApplyEdit(ctx, cmd)
			}
		}
	}
	return d
}

// Handle registers a native fallback for a command id.
func (d *Dispatcher) Handle(commandID string, fn func(context.Context) error) {
	d.mu.Lock()
	d.natives[commandID] = fn
	d.mu.Unlock()
}

// Activate runs the command bound to a menu item.
func (d *Dispatcher) Activate(ctx context.Context, id string) (Outcome, error) {
	node, ok := d.tree.Lookup(id)
	if !ok {
		return OutcomeUnhandled, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	if node.Kind != KindItem {
		return OutcomeUnhandled, fmt.Errorf("%w: %s", ErrNotActionable, id)
	}
	if !node.Enabled {
		return OutcomeDisabled, nil
	}
	return d.Execute(ctx, id)
}

// Execute offers a command to the content and falls back to the native
// handler. It is also used for commands with no menu item.
func (d *Dispatcher) Execute(ctx context.Context, commandID string) (Outcome, error) {
	if d.content != nil {
		handled, err := d.content.SendCommand(ctx, commandID)
		if err != nil {
			d.log.Debug("content did not answer command",
				zap.String("command", commandID), zap.Error(err))
		}
		if handled {
			return OutcomeContent, nil
		}
	}

	d.mu.RLock()
	fn, ok := d.natives[commandID]
	d.mu.RUnlock()
	if !ok {
		return OutcomeUnhandled, nil
	}

	if err := fn(ctx); err != nil {
		return OutcomeNative, fmt.Errorf("native %s: %w", commandID, err)
	}
	return OutcomeNative, nil
}
