package menu

// Snapshot is an immutable view of a node and its children, used by the
// platform menu presenter and the inspection endpoint.
type Snapshot struct {
	ID              string     `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	Kind            Kind       `json:"kind" yaml:"kind"`
	Shortcut        string     `json:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	DisplayShortcut string     `json:"displayShortcut,omitempty" yaml:"displayShortcut,omitempty"`
	Enabled         bool       `json:"enabled" yaml:"enabled"`
	Checked         bool       `json:"checked" yaml:"checked"`
	Children        []Snapshot `json:"children,omitempty" yaml:"children,omitempty"`
}

// Snapshot returns the whole tree, menus in display order.
func (t *Tree) Snapshot() []Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Snapshot, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.snapshot(t.nodes[id]))
	}
	return out
}

func (t *Tree) snapshot(node *Node) Snapshot {
	s := Snapshot{
		ID:              node.ID,
		Title:           node.Title,
		Kind:            node.Kind,
		Shortcut:        node.Shortcut,
		DisplayShortcut: node.DisplayShortcut,
		Enabled:         node.Enabled,
		Checked:         node.Checked,
	}
	for _, id := range node.children {
		s.Children = append(s.Children, t.snapshot(t.nodes[id]))
	}
	return s
}
