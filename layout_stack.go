package dockwerk

// StackLayout is the degenerate layout underlying both a "stacked" panel
// (one child visible, swapped programmatically) and a tab panel (one
// child visible, swapped by the tab strip): every item gets the full
// content rect, and all but the current item are hidden. It is the core
// geometry half of dock tabbing (C6); the tab strip itself — the row of
// clickable labels — is an external, styled collaborator and out of
// scope here.
type StackLayout struct {
	baseLayout
	current int
}

// NewStackLayout creates a stack layout and installs it on w.
func NewStackLayout(w *Widget) *StackLayout {
	l := &StackLayout{current: -1}
	l.attach(l, w)
	return l
}

func (l *StackLayout) Current() int { return l.current }

// SetCurrent shows items[index] and hides every other item. index -1
// hides everything; any other out-of-range index is ignored.
func (l *StackLayout) SetCurrent(index int) {
	l.syncItems()
	if index < -1 || index >= len(l.items) {
		return
	}
	l.current = index
	for i, it := range l.items {
		if i == index {
			it.Widget.Show()
		} else {
			it.Widget.Hide()
		}
	}
}

// SizeHint is the hint of the current item, or the zero value if none is
// current — a stack's footprint is whatever its visible page needs.
func (l *StackLayout) SizeHint() SizeHint {
	l.syncItems()
	if l.current < 0 || l.current >= len(l.items) {
		return SizeHint{}
	}
	return l.items[l.current].Hint
}

func (l *StackLayout) WidgetRemoved(child *Widget) {
	removedIndex := -1
	for i, it := range l.items {
		if it.Widget == child {
			removedIndex = i
			break
		}
	}
	l.removeItem(child)
	switch {
	case removedIndex < 0:
	case removedIndex < l.current:
		l.current--
	case removedIndex == l.current:
		l.current = -1
		if len(l.items) > 0 {
			l.SetCurrent(minInt(removedIndex, len(l.items)-1))
		}
	}
}

// Update applies rect to whichever item is current; hidden items are not
// resized, matching the teacher convention that a hidden widget's
// geometry is left stale until it is shown again.
func (l *StackLayout) Update(rect Rect) {
	l.syncItems()
	if l.current < 0 || l.current >= len(l.items) {
		return
	}
	it := l.items[l.current]
	it.Rect = rect
	it.Widget.SetRect(rect)
}
