package dockwerk

// Flags is the bitmask tracking a widget's lifecycle state, per §3/§4.4.
// IsVisible is derived rather than stored: a widget is visible only if it
// and every ancestor up to the root are attached and not hidden.
type Flags uint8

const (
	FlagAttached Flags = 1 << iota
	FlagHidden
	FlagDisposed
	FlagDisallowLayout
)

// SizeHint is a box-sizing input: preferred, minimum and maximum content
// size plus a stretch factor, read by the layout engine (C5).
type SizeHint struct {
	PreferredWidth, PreferredHeight int
	MinWidth, MinHeight             int
	MaxWidth, MaxHeight             int
	Stretch                         int
}

// Widget is the lifecycle state machine and tree node of C4: a generic
// content holder, not a dressed concrete panel class (those are external
// collaborators, see the Scope section in doc.go). A Widget owns a single
// host cell-box (its Node), a parent pointer, an ordered child list, and
// the bitmask flags above.
type Widget struct {
	id    string
	flags Flags

	parent   *Widget
	children []*Widget

	node HostNode
	rect Rect

	// Padding is the inset between a widget's own box (what a parent
	// layout sizes and positions) and its content area. Layouts read it
	// to reserve extra room along their major axis; ContentRect applies
	// it to the widget's own placed Rect.
	Padding Insets

	loop     *MessageLoop
	registry *signalRegistry

	title *Title

	// Content, when set, supplies the virtual tree rendered into Node on
	// each update-request. Renderer is the shared reconciler the owning
	// Host (tcell.Screen-backed, see host_tcell.go) was built with.
	Content  func() *VNode
	renderer *Renderer

	layout Layout // installed by baseLayout.attach, see layout.go; nil if none

	// handlers lets a constructor customize lifecycle behaviour without a
	// subclass, mirroring the On/Emit map in the teacher's base widget:
	// keyed by message type, run after the built-in handling for that type.
	handlers map[string][]func(*Widget, Message)

	hint SizeHint

	Disposed *Signal // emits the *Widget once, during Dispose, before its bindings are severed
}

// NewWidget creates a detached, shown widget with its own host node.
func NewWidget(id string, loop *MessageLoop, registry *signalRegistry, renderer *Renderer, node HostNode) *Widget {
	w := &Widget{
		id:       id,
		loop:     loop,
		registry: registry,
		renderer: renderer,
		node:     node,
		handlers: make(map[string][]func(*Widget, Message)),
	}
	w.title = NewTitle(w, registry)
	w.Disposed = NewSignal(w, registry)
	return w
}

func (w *Widget) ID() string       { return w.id }
func (w *Widget) Node() HostNode   { return w.node }
func (w *Widget) Title() *Title    { return w.title }
func (w *Widget) Parent() *Widget  { return w.parent }
func (w *Widget) Loop() *MessageLoop { return w.loop }
func (w *Widget) Layout() Layout   { return w.layout }
func (w *Widget) Hint() SizeHint   { return w.hint }
func (w *Widget) SetHint(h SizeHint) { w.hint = h }

func (w *Widget) Children() []*Widget {
	out := make([]*Widget, len(w.children))
	copy(out, w.children)
	return out
}

func (w *Widget) IsAttached() bool { return w.flags&FlagAttached != 0 }
func (w *Widget) IsHidden() bool   { return w.flags&FlagHidden != 0 }
func (w *Widget) IsDisposed() bool { return w.flags&FlagDisposed != 0 }

// IsVisible reports whether this widget is attached, not itself hidden,
// and every ancestor is too.
func (w *Widget) IsVisible() bool {
	if !w.IsAttached() || w.IsHidden() {
		return false
	}
	if w.parent == nil {
		return true
	}
	return w.parent.IsVisible()
}

// On registers an additional callback for a message type, run after the
// built-in ProcessMessage handling for that type. Multiple callbacks for
// the same type run in registration order.
func (w *Widget) On(msgType string, fn func(*Widget, Message)) {
	w.handlers[msgType] = append(w.handlers[msgType], fn)
}

func (w *Widget) runHandlers(msgType string, msg Message) {
	for _, fn := range w.handlers[msgType] {
		fn(w, msg)
	}
}

// setLayout installs a layout for this widget's children. Per §4.4/§4.5 a
// widget may carry at most one layout; assigning a second is a contract
// violation.
func (w *Widget) setLayout(l Layout) {
	if w.layout != nil {
		panic("dockwerk: widget already has a layout assigned")
	}
	w.layout = l
}

// AddChild appends child as the last child of w, attaching it if w is
// itself attached, and notifies w of the structural change synchronously
// (TypeChildAdded via Send, not Post — a parent's layout often needs to
// react before the next frame).
func (w *Widget) AddChild(child *Widget) {
	w.InsertChild(len(w.children), child)
}

// InsertChild inserts child at index, clamped to [0, len(children)].
func (w *Widget) InsertChild(index int, child *Widget) {
	if child.parent != nil {
		panic("dockwerk: widget already has a parent")
	}
	index = clampInt(index, 0, len(w.children))

	w.children = append(w.children, nil)
	copy(w.children[index+1:], w.children[index:])
	w.children[index] = child
	child.parent = w

	if w.IsAttached() {
		child.attachSubtree()
	}
	w.loop.Send(w, ChildMessage{Type: TypeChildAdded, Child: child})
}

// RemoveChild detaches and unparents child. A no-op if child is not
// actually a child of w.
func (w *Widget) RemoveChild(child *Widget) {
	idx := -1
	for i, c := range w.children {
		if c == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	if child.IsAttached() {
		child.detachSubtree()
	}
	w.children = append(w.children[:idx], w.children[idx+1:]...)
	child.parent = nil
	w.loop.Send(w, ChildMessage{Type: TypeChildRemoved, Child: child})
}

// Attach mounts w (and recursively any pre-existing children) under
// parent in strict depth-first order: each node receives before-attach,
// is flagged attached, then after-attach, before the traversal descends
// into its own children. Panics if w is already attached.
func (w *Widget) Attach(parent *Widget) {
	if w.IsAttached() {
		panic("dockwerk: widget already attached")
	}
	if parent != nil {
		parent.AddChild(w)
		return // AddChild attaches w itself when parent is attached
	}
	w.attachSubtree()
}

func (w *Widget) attachSubtree() {
	w.loop.Send(w, NewMessage(TypeBeforeAttach))
	w.flags |= FlagAttached
	w.loop.Send(w, NewMessage(TypeAfterAttach))
	for _, c := range w.children {
		c.attachSubtree()
	}
}

// Detach unmounts w from its parent (if any) in reverse depth-first
// order: every descendant is detached, leaves first, before w itself
// receives before-detach/after-detach. A no-op if w is not attached.
func (w *Widget) Detach() {
	if !w.IsAttached() {
		return
	}
	w.detachSubtree()
	if w.parent != nil {
		w.parent.RemoveChild(w)
	}
}

func (w *Widget) detachSubtree() {
	for i := len(w.children) - 1; i >= 0; i-- {
		w.children[i].detachSubtree()
	}
	w.loop.Send(w, NewMessage(TypeBeforeDetach))
	w.flags &^= FlagAttached
	w.loop.Send(w, NewMessage(TypeAfterDetach))
}

// Hide marks w hidden. If w was visible, before-hide/after-hide is
// delivered to w and to every attached descendant not already hidden in
// its own right, depth-first. A no-op if w is already hidden.
func (w *Widget) Hide() {
	if w.IsHidden() {
		return
	}
	wasVisible := w.IsVisible()
	w.flags |= FlagHidden
	if wasVisible {
		w.propagateHide()
	}
	if w.parent != nil {
		w.loop.Send(w.parent, ChildMessage{Type: TypeChildHidden, Child: w})
	}
}

func (w *Widget) propagateHide() {
	w.loop.Send(w, NewMessage(TypeBeforeHide))
	w.loop.Send(w, NewMessage(TypeAfterHide))
	for _, c := range w.children {
		if !c.IsHidden() {
			c.propagateHide()
		}
	}
}

// Show clears w's own hidden flag. If that makes w newly visible,
// before-show/after-show is delivered to w and its not-independently-
// hidden descendants, depth-first. A no-op if w is not hidden.
func (w *Widget) Show() {
	if !w.IsHidden() {
		return
	}
	w.flags &^= FlagHidden
	if w.IsVisible() {
		w.propagateShow()
	}
	if w.parent != nil {
		w.loop.Send(w.parent, ChildMessage{Type: TypeChildShown, Child: w})
	}
}

func (w *Widget) propagateShow() {
	w.loop.Send(w, NewMessage(TypeBeforeShow))
	w.loop.Send(w, NewMessage(TypeAfterShow))
	for _, c := range w.children {
		if !c.IsHidden() {
			c.propagateShow()
		}
	}
}

// Resize posts a coalescing resize request for the next frame. Per the
// Conflatable contract only *Resize (pointer receiver Conflate) satisfies
// Conflatable, so the message is always posted by address.
func (w *Widget) Resize(width, height int) {
	w.loop.Post(w, &Resize{Width: width, Height: height})
}

// Rect returns the box rect a parent layout last placed w at (ContentRect
// is this rect deflated by Padding). It is
// updated synchronously by SetRect, ahead of the conflated Resize message
// that actually triggers a rerender, so hit-testing (C6) always sees the
// latest geometry even mid-frame.
func (w *Widget) Rect() Rect { return w.rect }

// ContentRect returns w's last placed Rect deflated by Padding on all four
// sides, clamped to a non-negative width/height.
func (w *Widget) ContentRect() Rect {
	r := w.rect
	r.X += w.Padding.Left
	r.Y += w.Padding.Top
	r.Width = maxInt(0, r.Width-w.Padding.Horizontal())
	r.Height = maxInt(0, r.Height-w.Padding.Vertical())
	return r
}

// SetRect records rect and posts the corresponding resize request. Called
// by a parent layout (C5) once per item per Update pass.
func (w *Widget) SetRect(rect Rect) {
	w.rect = rect
	w.Resize(rect.Width, rect.Height)
}

// Update requests a rerender on the next frame; repeated calls within the
// same frame collapse to one (LayoutRequest-style conflation).
func (w *Widget) Update() {
	w.loop.Post(w, NewMessage(TypeUpdateRequest))
}

// Fit requests the widget recompute its SizeHint on the next frame.
func (w *Widget) Fit() {
	w.loop.Post(w, NewMessage(TypeFitRequest))
}

// ProcessMessage is the built-in lifecycle handling shared by every
// widget; it runs before any handler registered via On for the same type.
func (w *Widget) ProcessMessage(msg Message) {
	switch msg.(type) {
	case *Resize:
		if w.renderer != nil && w.Content != nil {
			w.renderer.Render(w.Content(), w.node)
		}
		w.runHandlers(TypeResize, msg)
	default:
		switch msg.MessageType() {
		case TypeUpdateRequest:
			if w.renderer != nil && w.Content != nil {
				w.renderer.Render(w.Content(), w.node)
			}
		case TypeFitRequest:
			if w.layout != nil {
				w.hint = w.layout.SizeHint()
			}
		case TypeChildAdded, TypeChildRemoved, TypeChildShown, TypeChildHidden:
			if w.layout != nil {
				w.loop.Post(w, LayoutRequest{})
			}
		}
		w.runHandlers(msg.MessageType(), msg)
	}
}

// FindWidget searches root's subtree depth-first for the first widget
// matching pred, root included. Traversal uses an explicit Stack instead
// of recursion so a pathologically deep dock/split tree cannot blow the
// call stack.
func FindWidget(root *Widget, pred func(*Widget) bool) *Widget {
	var pending Stack[*Widget]
	pending.Push(root)
	for !pending.IsEmpty() {
		w := pending.Pop()
		if pred(w) {
			return w
		}
		children := w.Children()
		for i := len(children) - 1; i >= 0; i-- {
			pending.Push(children[i])
		}
	}
	return nil
}

// Dispose is idempotent: the second and later calls are no-ops. It sets
// the disposed flag first, detaches w (if attached), disposes every child,
// then emits Disposed exactly once, and only after that severs every
// signal/message binding touching w, so observers are still connected
// when the signal fires.
func (w *Widget) Dispose() {
	if w.IsDisposed() {
		return
	}
	w.flags |= FlagDisposed

	if w.IsAttached() {
		w.Detach()
	}

	for _, c := range w.Children() {
		c.Dispose()
	}

	if w.Disposed != nil {
		w.Disposed.Emit(w, w.loop.logger)
	}

	w.loop.ClearMessageData(w)
	if w.registry != nil {
		w.registry.ClearData(w)
	}
}
