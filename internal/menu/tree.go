package menu

import (
	"sync"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// Kind is the type of a menu node.
type Kind string

const (
	KindMenu      Kind = "menu"
	KindItem      Kind = "item"
	KindSeparator Kind = "separator"
)

// SeparatorTitle marks an item as a separator when passed to AddMenuItem.
const SeparatorTitle = "---"

// Node is one entry in the menu tree.
type Node struct {
	ID              string
	Title           string
	Kind            Kind
	ParentID        string
	Shortcut        string
	DisplayShortcut string
	Enabled         bool
	Checked         bool

	children []string
}

// Tree is the application menu. Menus and items share one id namespace.
type Tree struct {
	mu       sync.RWMutex
	nodes    map[string]*Node
	roots    []string
	onChange []func()
}

// NewTree creates an empty menu tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[string]*Node)}
}

// OnChange registers fn to run after every successful mutation.
func (t *Tree) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = append(t.onChange, fn)
	t.mu.Unlock()
}

func (t *Tree) changed() {
	t.mu.RLock()
	hooks := append([]func(){}, t.onChange...)
	t.mu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
}

// AddMenu adds a top-level menu. Menus have no sections, so only the
// before, after, first and last positions apply.
func (t *Tree) AddMenu(title, id string, position Position, relativeID string) errcode.Code {
	if id == "" || !position.Valid() || position.InSection() {
		return errcode.ErrInvalidParams
	}

	t.mu.Lock()
	if _, exists := t.nodes[id]; exists {
		t.mu.Unlock()
		return errcode.ErrFileExists
	}

	node := &Node{ID: id, Title: title, Kind: KindMenu, Enabled: true}
	t.nodes[id] = node

	var code errcode.Code
	t.roots, code = t.insert(t.roots, id, position, relativeID)
	t.mu.Unlock()

	t.changed()
	return code
}

// AddMenuItem adds an item to a menu. A title of "---" adds a separator.
// An unknown relative id still adds the item, appended at the end, and
// reports ErrNotFound.
func (t *Tree) AddMenuItem(parentID, title, id, key, displayStr string, position Position, relativeID string) errcode.Code {
	if id == "" || !position.Valid() {
		return errcode.ErrInvalidParams
	}

	shortcut, err := ParseShortcut(key)
	if err != nil {
		return errcode.ErrInvalidParams
	}

	t.mu.Lock()
	parent, ok := t.nodes[parentID]
	if !ok || parent.Kind != KindMenu {
		t.mu.Unlock()
		return errcode.ErrNotFound
	}
	if _, exists := t.nodes[id]; exists {
		t.mu.Unlock()
		return errcode.ErrFileExists
	}

	node := &Node{
		ID:       id,
		Title:    title,
		Kind:     KindItem,
		ParentID: parentID,
		Enabled:  true,
	}
	if title == SeparatorTitle {
		node.Kind = KindSeparator
	} else if !shortcut.IsZero() {
		node.Shortcut = shortcut.String()
		node.DisplayShortcut = displayFor(shortcut, displayStr)
	}
	t.nodes[id] = node

	var code errcode.Code
	parent.children, code = t.insert(parent.children, id, position, relativeID)
	t.mu.Unlock()

	t.changed()
	return code
}

// RemoveMenu removes a top-level menu and every item under it.
func (t *Tree) RemoveMenu(id string) errcode.Code {
	t.mu.Lock()
	node, ok := t.nodes[id]
	if !ok {
		t.mu.Unlock()
		return errcode.ErrNotFound
	}
	if node.Kind != KindMenu {
		t.mu.Unlock()
		return errcode.ErrInvalidParams
	}

	t.removeSubtree(node)
	t.roots = without(t.roots, id)
	t.mu.Unlock()

	t.changed()
	return errcode.NoError
}

// RemoveMenuItem removes a single item or separator.
func (t *Tree) RemoveMenuItem(id string) errcode.Code {
	t.mu.Lock()
	node, ok := t.nodes[id]
	if !ok {
		t.mu.Unlock()
		return errcode.ErrNotFound
	}
	if node.Kind == KindMenu {
		t.mu.Unlock()
		return errcode.ErrInvalidParams
	}

	if parent, ok := t.nodes[node.ParentID]; ok {
		parent.children = without(parent.children, id)
	}
	delete(t.nodes, id)
	t.mu.Unlock()

	t.changed()
	return errcode.NoError
}

// SetMenuTitle renames a menu or item.
func (t *Tree) SetMenuTitle(id, title string) errcode.Code {
	t.mu.Lock()
	node, ok := t.nodes[id]
	if !ok {
		t.mu.Unlock()
		return errcode.ErrNotFound
	}
	node.Title = title
	t.mu.Unlock()

	t.changed()
	return errcode.NoError
}

// GetMenuTitle returns the title of a menu or item.
func (t *Tree) GetMenuTitle(id string) (string, errcode.Code) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[id]
	if !ok {
		return "", errcode.ErrNotFound
	}
	return node.Title, errcode.NoError
}

// SetMenuItemState updates the enabled and checked flags of an item.
func (t *Tree) SetMenuItemState(id string, enabled, checked bool) errcode.Code {
	t.mu.Lock()
	node, ok := t.nodes[id]
	if !ok {
		t.mu.Unlock()
		return errcode.ErrNotFound
	}
	if node.Kind == KindMenu {
		t.mu.Unlock()
		return errcode.ErrInvalidParams
	}
	node.Enabled = enabled
	node.Checked = checked
	t.mu.Unlock()

	t.changed()
	return errcode.NoError
}

// GetMenuItemState returns the flags of an item and its index in its menu.
func (t *Tree) GetMenuItemState(id string) (enabled, checked bool, index int, code errcode.Code) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[id]
	if !ok || node.Kind == KindMenu {
		return false, false, -1, errcode.ErrNotFound
	}
	return node.Enabled, node.Checked, t.indexOf(node), errcode.NoError
}

// SetMenuItemShortcut replaces the shortcut of an item. An empty shortcut
// clears it.
func (t *Tree) SetMenuItemShortcut(id, key, displayStr string) errcode.Code {
	shortcut, err := ParseShortcut(key)
	if err != nil {
		return errcode.ErrInvalidParams
	}

	t.mu.Lock()
	node, ok := t.nodes[id]
	if !ok {
		t.mu.Unlock()
		return errcode.ErrNotFound
	}
	if node.Kind != KindItem {
		t.mu.Unlock()
		return errcode.ErrInvalidParams
	}
	node.Shortcut = ""
	node.DisplayShortcut = ""
	if !shortcut.IsZero() {
		node.Shortcut = shortcut.String()
		node.DisplayShortcut = displayFor(shortcut, displayStr)
	}
	t.mu.Unlock()

	t.changed()
	return errcode.NoError
}

// GetMenuPosition returns the parent id ("" for top-level menus) and the
// index among siblings. Unknown ids yield ("", -1, ErrNotFound).
func (t *Tree) GetMenuPosition(id string) (string, int, errcode.Code) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[id]
	if !ok {
		return "", -1, errcode.ErrNotFound
	}
	return node.ParentID, t.indexOf(node), errcode.NoError
}

// Lookup returns a copy of the node with the given id.
func (t *Tree) Lookup(id string) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	cp := *node
	cp.children = nil
	return cp, true
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

func (t *Tree) indexOf(node *Node) int {
	siblings := t.roots
	if node.ParentID != "" {
		siblings = t.nodes[node.ParentID].children
	}
	return index(siblings, node.ID)
}

func (t *Tree) removeSubtree(node *Node) {
	for _, child := range node.children {
		if c, ok := t.nodes[child]; ok {
			t.removeSubtree(c)
		}
	}
	delete(t.nodes, node.ID)
}

func index(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func without(ids []string, id string) []string {
	i := index(ids, id)
	if i < 0 {
		return ids
	}
	return append(ids[:i], ids[i+1:]...)
}
