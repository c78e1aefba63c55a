package bridge

import (
	"github.com/GriffinCanCode/appshell/internal/menu"
	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// AddMenu adds a top-level menu.
func (b *Bridge) AddMenu(title, id, position, relativeID string, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.addMenu", func() (errcode.Code, func()) {
		return done(cb, b.menus.AddMenu(title, id, menu.Position(position), relativeID))
	})
}

// AddMenuItem adds an item, or a separator when title is "---".
func (b *Bridge) AddMenuItem(parentID, title, id, key, displayStr, position, relativeID string, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.addMenuItem", func() (errcode.Code, func()) {
		return done(cb, b.menus.AddMenuItem(parentID, title, id, key, displayStr, menu.Position(position), relativeID))
	})
}

// RemoveMenu removes a menu and all of its items.
func (b *Bridge) RemoveMenu(id string, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.removeMenu", func() (errcode.Code, func()) {
		return done(cb, b.menus.RemoveMenu(id))
	})
}

// RemoveMenuItem removes a single item.
func (b *Bridge) RemoveMenuItem(id string, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.removeMenuItem", func() (errcode.Code, func()) {
		return done(cb, b.menus.RemoveMenuItem(id))
	})
}

// SetMenuTitle renames a menu or item.
func (b *Bridge) SetMenuTitle(id, title string, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.setMenuTitle", func() (errcode.Code, func()) {
		return done(cb, b.menus.SetMenuTitle(id, title))
	})
}

// GetMenuTitle reports the title of a menu or item.
func (b *Bridge) GetMenuTitle(id string, cb StringCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getMenuTitle", func() (errcode.Code, func()) {
		title, code := b.menus.GetMenuTitle(id)
		return code, func() { cb(code, title) }
	})
}

// SetMenuItemState enables and checks an item in place.
func (b *Bridge) SetMenuItemState(id string, enabled, checked bool, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.setMenuItemState", func() (errcode.Code, func()) {
		return done(cb, b.menus.SetMenuItemState(id, enabled, checked))
	})
}

// GetMenuItemState reports an item's state and index within its menu.
func (b *Bridge) GetMenuItemState(id string, cb ItemStateCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getMenuItemState", func() (errcode.Code, func()) {
		enabled, checked, index, code := b.menus.GetMenuItemState(id)
		return code, func() { cb(code, enabled, checked, index) }
	})
}

// SetMenuItemShortcut changes an item's keyboard shortcut in place.
func (b *Bridge) SetMenuItemShortcut(id, shortcut, displayStr string, cb Callback) {
	cb = cb.orNoop()
	b.onLoop("app.setMenuItemShortcut", func() (errcode.Code, func()) {
		return done(cb, b.menus.SetMenuItemShortcut(id, shortcut, displayStr))
	})
}

// GetMenuPosition reports a node's parent and index. Unknown ids give
// ("", -1, ErrNotFound).
func (b *Bridge) GetMenuPosition(id string, cb PositionCallback) {
	cb = cb.orNoop()
	b.onLoop("app.getMenuPosition", func() (errcode.Code, func()) {
		parent, index, code := b.menus.GetMenuPosition(id)
		if !code.OK() {
			parent, index = "", -1
		}
		return code, func() { cb(code, parent, index) }
	})
}
