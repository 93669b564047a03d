package ui

import "panelshell/internal/panel"

// Container is the area panels are drawn in: the terminal minus the
// status bar.
type Container struct {
	width, height int
	reserved      int
}

var _ panel.ContainerView = (*Container)(nil)

// NewContainer reserves rows at the bottom of the terminal.
func NewContainer(reservedRows int) *Container {
	return &Container{reserved: reservedRows}
}

// SetTerminalSize records the terminal size.
func (c *Container) SetTerminalSize(width, height int) {
	c.width = max(width, 0)
	c.height = max(height-c.reserved, 0)
}

// Size returns the drawable size.
func (c *Container) Size() (width, height int) {
	return c.width, c.height
}

// PanelBox returns the outer size of a panel box for this container.
func (c *Container) PanelBox() (width, height int) {
	return panelBox(c.width, c.height)
}

func panelBox(cw, ch int) (w, h int) {
	w = cw * 2 / 3
	if w < 40 {
		w = min(40, cw)
	}
	h = ch * 2 / 3
	if h < 8 {
		h = min(8, ch)
	}
	return w, h
}
