package logic

// Navigator handles cursor movement and viewport management
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	totalItems     int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{viewportHeight: 20}
}

// UpdateState loads the current cursor, viewport and row count
func (n *Navigator) UpdateState(selectedIndex, viewportOffset, viewportHeight, totalItems int) {
	n.selectedIndex = selectedIndex
	n.viewportOffset = viewportOffset
	n.viewportHeight = viewportHeight
	n.totalItems = totalItems
}

// Position returns the cursor and viewport offset
func (n *Navigator) Position() (int, int) {
	return n.selectedIndex, n.viewportOffset
}

// MaxIndex is the last selectable row, -1 when empty
func (n *Navigator) MaxIndex() int {
	return n.totalItems - 1
}

// Move shifts the cursor by delta rows, clamped
func (n *Navigator) Move(delta int) {
	n.SetSelectedIndex(n.selectedIndex + delta)
}

// SetSelectedIndex places the cursor and keeps it visible
func (n *Navigator) SetSelectedIndex(index int) {
	if index > n.MaxIndex() {
		index = n.MaxIndex()
	}
	if index < 0 {
		index = 0
	}
	n.selectedIndex = index
	n.ensureSelectedVisible()
}

// PageUp moves one viewport up
func (n *Navigator) PageUp() {
	n.Move(-n.pageSize())
}

// PageDown moves one viewport down
func (n *Navigator) PageDown() {
	n.Move(n.pageSize())
}

func (n *Navigator) pageSize() int {
	if n.viewportHeight > 2 {
		return n.viewportHeight - 2
	}
	return 1
}

// EffectiveHeight is the number of rows shown at a viewport offset once the
// scroll indicators take their lines
func EffectiveHeight(offset, height, total int) int {
	eff := height
	if offset > 0 {
		eff--
	}
	if offset+height < total {
		eff--
	}
	if eff < 1 {
		eff = 1
	}
	return eff
}

// ensureSelectedVisible adjusts the viewport to keep the cursor visible
func (n *Navigator) ensureSelectedVisible() {
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	// scrolling down can add the top indicator, so settle in a few passes
	for i := 0; i < 3; i++ {
		eff := EffectiveHeight(n.viewportOffset, n.viewportHeight, n.totalItems)
		if n.selectedIndex < n.viewportOffset+eff {
			break
		}
		n.viewportOffset = n.selectedIndex - eff + 1
	}

	if n.viewportOffset > n.selectedIndex {
		n.viewportOffset = n.selectedIndex
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
