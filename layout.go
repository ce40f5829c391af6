package dockwerk

// Rect is an integer cell-box region: origin plus extent, in host cells.
type Rect struct {
	X, Y, Width, Height int
}

// LayoutItem pairs a child widget with the geometry the layout last
// computed for it. Layouts keep their own []*LayoutItem rather than
// reading Widget.Hint() on every pass, so a handle drag can override
// Stretch locally without touching the widget's own hint.
type LayoutItem struct {
	Widget    *Widget
	Hint      SizeHint
	Padding   Insets
	Rect      Rect
	Stretch   int
	Collapsed bool
}

// Layout is installed on exactly one widget (its "parent") and arranges
// that widget's children. A Layout is deliberately not itself a Widget:
// per §4.5 it installs itself as a message hook on the parent so the
// parent stays unaware that anything beyond ProcessMessage intercepts its
// resize/fit/child-structure traffic.
type Layout interface {
	Widget() *Widget
	SizeHint() SizeHint
	// Update recomputes and applies child geometry for the given content
	// rect of the parent widget.
	Update(rect Rect)
	// WidgetRemoved lets the layout drop its LayoutItem bookkeeping when a
	// child widget leaves the parent (removed or disposed).
	WidgetRemoved(child *Widget)
}

// baseLayout is embedded by the concrete layout engines (SplitLayout,
// StackLayout) to share parent-wiring and hook installation. Concrete
// types pass themselves as self to attach because Go has no virtual
// dispatch through embedding: the hook must close over the outer type's
// SizeHint/Update/WidgetRemoved, not baseLayout's (nonexistent) own.
type baseLayout struct {
	widget *Widget
	items  []*LayoutItem
}

func (b *baseLayout) Widget() *Widget { return b.widget }

// attach installs self on w: records w as the owning widget (panicking
// via Widget.setLayout if w already carries a layout), then installs a
// message hook that reacts to resize/fit-request/child-removed traffic
// arriving at w.
func (b *baseLayout) attach(self Layout, w *Widget) {
	b.widget = w
	w.setLayout(self)
	w.Loop().InstallHook(w, func(handler Handler, msg Message) bool {
		switch m := msg.(type) {
		case *Resize:
			self.Update(Rect{Width: m.Width, Height: m.Height})
		default:
			switch msg.MessageType() {
			case TypeFitRequest:
				w.SetHint(self.SizeHint())
			case TypeChildRemoved:
				if cm, ok := msg.(ChildMessage); ok {
					self.WidgetRemoved(cm.Child)
				}
			}
		}
		return true
	})
}

// itemFor returns the existing LayoutItem for child, creating one on
// first sight (e.g. on the first Update after a ChildAdded message).
func (b *baseLayout) itemFor(child *Widget) *LayoutItem {
	for _, it := range b.items {
		if it.Widget == child {
			return it
		}
	}
	it := &LayoutItem{Widget: child, Hint: child.Hint(), Padding: child.Padding, Stretch: child.Hint().Stretch}
	b.items = append(b.items, it)
	return it
}

func (b *baseLayout) removeItem(child *Widget) {
	for i, it := range b.items {
		if it.Widget == child {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

func (b *baseLayout) syncItems() {
	children := b.widget.Children()
	live := make(map[*Widget]bool, len(children))
	for _, c := range children {
		live[c] = true
		b.itemFor(c)
	}
	kept := b.items[:0]
	for _, it := range b.items {
		if live[it.Widget] {
			kept = append(kept, it)
		}
	}
	b.items = kept
}
