package dockwerk

import "fmt"

// DockMode selects where addWidget places a widget relative to a
// reference panel, mirroring the PhosphorJS/Lumino DockPanel insertion
// modes.
type DockMode int

const (
	ModeTabBefore DockMode = iota
	ModeTabAfter
	ModeSplitTop
	ModeSplitLeft
	ModeSplitRight
	ModeSplitBottom
)

type panelKind int

const (
	kindTab panelKind = iota
	kindSplit
)

// Panel is one node of the dock tree: either a tab panel (a StackLayout
// hosting a row of widgets, one visible at a time) or a split panel (a
// SplitLayout hosting child Panels). The tree's geometry is the ordinary
// widget/layout tree of C4/C5; Panel only adds dock-specific bookkeeping
// (which widgets are tab pages, which Panel is whose parent) on top.
type Panel struct {
	kind   panelKind
	widget *Widget

	split *SplitLayout
	stack *StackLayout

	parent   *Panel
	children []*Panel // kindSplit only
	tabs     []*Widget
}

// Overlay is the drop-indicator collaborator Dock.ShowOverlay drives: a
// host renders whatever rectangle it is given as the drag-hover
// highlight, and clears it on HideOverlay. A nil Overlay makes
// ShowOverlay a pure zone-classifying query with no visible effect.
type Overlay interface {
	ShowOverlay(rect Rect)
	HideOverlay()
}

// Dock is the root of a dock tree plus its shared collaborators (message
// loop, signal registry, focus tracker) — the C6 engine proper.
type Dock struct {
	loop     *MessageLoop
	registry *signalRegistry
	renderer *Renderer

	root     *Panel
	focus    *FocusTracker
	nextID   int
	byWidget map[*Widget]*Panel

	overlay Overlay
	drag    *dragSession
}

// NewDock creates an empty dock rooted at a fresh tab panel.
func NewDock(loop *MessageLoop, registry *signalRegistry, renderer *Renderer, rootNode HostNode) *Dock {
	d := &Dock{
		loop:     loop,
		registry: registry,
		renderer: renderer,
		focus:    NewFocusTracker("dock", registry),
		byWidget: make(map[*Widget]*Panel),
	}
	d.root = d.newTabPanel(rootNode)
	return d
}

func (d *Dock) newID(prefix string) string {
	d.nextID++
	return fmt.Sprintf("%s-%d", prefix, d.nextID)
}

func (d *Dock) newTabPanel(node HostNode) *Panel {
	w := NewWidget(d.newID("tab"), d.loop, d.registry, d.renderer, node)
	p := &Panel{kind: kindTab, widget: w}
	p.stack = NewStackLayout(w)
	return p
}

func (d *Dock) newSplitPanel(node HostNode, orientation Orientation) *Panel {
	w := NewWidget(d.newID("split"), d.loop, d.registry, d.renderer, node)
	p := &Panel{kind: kindSplit, widget: w}
	p.split = NewSplitLayout(w, orientation)
	return p
}

// Root returns the dock tree's root panel.
func (d *Dock) Root() *Panel { return d.root }

// SetOverlay installs the collaborator ShowOverlay drives. Pass nil to
// disable overlay rendering without disabling zone classification.
func (d *Dock) SetOverlay(overlay Overlay) { d.overlay = overlay }

// Current returns the most recently activated docked widget, or nil.
func (d *Dock) Current() *Widget { return d.focus.Current() }

// CurrentChanged exposes the dock's FocusTracker.CurrentChanged signal,
// the `currentChanged` entry of the engine's external interface.
func (d *Dock) CurrentChanged() *Signal { return d.focus.CurrentChanged }

// ActivateWidget brings widget to the front of its hosting tab panel and
// makes it the dock's current widget. It is an error if widget is not
// docked here.
func (d *Dock) ActivateWidget(widget *Widget) error {
	panel, ok := d.byWidget[widget]
	if !ok {
		return errNotDocked(widget.ID())
	}
	idx := -1
	for i, t := range panel.tabs {
		if t == widget {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errNotDocked(widget.ID())
	}
	panel.stack.SetCurrent(idx)
	d.focus.Focused(widget, d.loop.logger)
	return nil
}

// PanelFor returns the tab panel currently hosting widget, if any.
func (d *Dock) PanelFor(widget *Widget) (*Panel, bool) {
	p, ok := d.byWidget[widget]
	return p, ok
}

// AddWidget inserts widget into the dock relative to ref (nil meaning the
// root tab panel) per mode. widget must not already be in this dock.
func (d *Dock) AddWidget(widget *Widget, ref *Panel, mode DockMode, childNode HostNode) error {
	if _, already := d.byWidget[widget]; already {
		return errAlreadyDocked(widget.ID())
	}
	if ref == nil {
		ref = d.root
	}
	if ref.kind != kindTab {
		return ErrUnknownDockReference
	}

	switch mode {
	case ModeTabBefore:
		d.insertTab(ref, widget, 0)
	case ModeTabAfter:
		d.insertTab(ref, widget, len(ref.tabs))
	case ModeSplitTop, ModeSplitLeft, ModeSplitRight, ModeSplitBottom:
		d.split(ref, widget, mode, childNode)
	default:
		return fmt.Errorf("dockwerk: unknown dock mode %d", mode)
	}
	return nil
}

func (d *Dock) insertTab(panel *Panel, widget *Widget, index int) {
	index = clampInt(index, 0, len(panel.tabs))
	panel.tabs = append(panel.tabs, nil)
	copy(panel.tabs[index+1:], panel.tabs[index:])
	panel.tabs[index] = widget

	panel.widget.InsertChild(index, widget)
	panel.stack.SetCurrent(index)
	d.byWidget[widget] = panel
	d.focus.Add(widget)
}

// split wraps ref in a new split panel (reusing ref's parent slot if that
// parent is already a split on the matching axis, avoiding a redundant
// nesting level) and places a fresh tab panel containing widget on the
// requested side.
func (d *Dock) split(ref *Panel, widget *Widget, mode DockMode, childNode HostNode) {
	orientation := Horizontal
	if mode == ModeSplitTop || mode == ModeSplitBottom {
		orientation = Vertical
	}
	before := mode == ModeSplitTop || mode == ModeSplitLeft

	newTab := d.newTabPanel(childNode)
	d.insertTab(newTab, widget, 0)

	parent := ref.parent
	if parent != nil && parent.kind == kindSplit && parent.split.Orientation == orientation {
		idx := indexOfChild(parent, ref)
		insertAt := idx
		if !before {
			insertAt = idx + 1
		}
		d.insertSplitChild(parent, insertAt, newTab)
		return
	}

	// ref is the dock root, or its parent is a split on the other axis:
	// wrap ref in a fresh split panel at ref's old position.
	splitNode := ref.widget.Node()
	wrapper := d.newSplitPanel(splitNode, orientation)

	if parent == nil {
		d.root = wrapper
	} else {
		idx := indexOfChild(parent, ref)
		parent.children[idx] = wrapper
		wrapper.parent = parent
		parent.widget.RemoveChild(ref.widget)
		parent.widget.InsertChild(idx, wrapper.widget)
	}

	ref.parent = wrapper
	if before {
		wrapper.children = []*Panel{newTab, ref}
	} else {
		wrapper.children = []*Panel{ref, newTab}
	}
	newTab.parent = wrapper
	for _, c := range wrapper.children {
		wrapper.widget.AddChild(c.widget)
	}
}

func (d *Dock) insertSplitChild(parent *Panel, index int, child *Panel) {
	index = clampInt(index, 0, len(parent.children))
	parent.children = append(parent.children, nil)
	copy(parent.children[index+1:], parent.children[index:])
	parent.children[index] = child
	child.parent = parent
	parent.widget.InsertChild(index, child.widget)
}

func indexOfChild(parent *Panel, child *Panel) int {
	for i, c := range parent.children {
		if c == child {
			return i
		}
	}
	return -1
}

// RemoveWidget removes widget from the dock, then collapses any tab or
// split panel left structurally redundant (tree-merge-on-collapse): an
// emptied tab panel is pruned from its parent split, and a split left
// with a single remaining child is replaced by that child everywhere the
// split itself was referenced, repeating up the tree as far as the
// collapse propagates.
func (d *Dock) RemoveWidget(widget *Widget) {
	panel, ok := d.byWidget[widget]
	if !ok {
		return
	}
	idx := -1
	for i, t := range panel.tabs {
		if t == widget {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	panel.tabs = append(panel.tabs[:idx], panel.tabs[idx+1:]...)
	panel.widget.RemoveChild(widget)
	delete(d.byWidget, widget)
	d.focus.Remove(widget)

	if len(panel.tabs) > 0 {
		panel.stack.SetCurrent(minInt(idx, len(panel.tabs)-1))
		return
	}
	d.collapseFrom(panel)
}

// collapseFrom prunes an emptied tab panel and then merges every
// ancestor split left with exactly one child, up to the root.
func (d *Dock) collapseFrom(empty *Panel) {
	if empty == d.root {
		return // root tab panel is allowed to be empty
	}
	parent := empty.parent
	d.detachFromParent(parent, empty)

	for parent != nil && parent.kind == kindSplit && len(parent.children) == 1 {
		survivor := parent.children[0]
		grandparent := parent.parent
		survivor.parent = grandparent
		parent.widget.RemoveChild(survivor.widget)
		if grandparent == nil {
			d.root = survivor
		} else {
			idx := indexOfChild(grandparent, parent)
			grandparent.children[idx] = survivor
			grandparent.widget.RemoveChild(parent.widget)
			grandparent.widget.InsertChild(idx, survivor.widget)
		}
		parent = grandparent
	}
}

func (d *Dock) detachFromParent(parent *Panel, child *Panel) {
	if parent == nil {
		return
	}
	idx := indexOfChild(parent, child)
	if idx < 0 {
		return
	}
	parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	parent.widget.RemoveChild(child.widget)
}

// Zone is the region of a drop target a pointer landed in.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneCenter
	ZoneTop
	ZoneLeft
	ZoneRight
	ZoneBottom
)

// rootEdgeSize is the fixed-width band, in cells, along each edge of the
// dock's overall bounding rect that reads as a root split zone rather
// than descending into whichever leaf panel happens to be underneath.
const rootEdgeSize = 5

// cornerZone resolves a diagonal corner tie between a "main" zone and an
// "opposite" zone (the two candidates along one axis, e.g. top/bottom)
// against a single "side" zone on the other axis (e.g. left), favoring
// whichever of the three has the smallest distance, main first.
func cornerZone(distMain, distOpposite, distSide int, mainZone, oppositeZone, sideZone Zone) Zone {
	if distMain < distSide {
		return mainZone
	}
	if distOpposite < distSide {
		return oppositeZone
	}
	return sideZone
}

// classifyRootZone implements the dock's outer edge-band test: a fixed
// rootEdgeSize band along each side of the whole dock's bounding rect,
// with NW/NE corners tie-broken by whichever of top/bottom/left(right)
// is closest. SW/SE corners get no diagonal treatment — a point there
// falls through to the plain top/bottom/left/right bands, per the
// "pure bands otherwise" rule.
func classifyRootZone(rect Rect, x, y int) Zone {
	left := x - rect.X
	right := rect.X + rect.Width - x
	top := y - rect.Y
	bottom := rect.Y + rect.Height - y

	nearLeft := left < rootEdgeSize
	nearRight := right < rootEdgeSize
	nearTop := top < rootEdgeSize
	nearBottom := bottom < rootEdgeSize

	switch {
	case nearLeft && nearTop:
		return cornerZone(top, bottom, left, ZoneTop, ZoneBottom, ZoneLeft)
	case nearRight && nearTop:
		return cornerZone(top, bottom, right, ZoneTop, ZoneBottom, ZoneRight)
	case nearTop:
		return ZoneTop
	case nearBottom:
		return ZoneBottom
	case nearLeft:
		return ZoneLeft
	case nearRight:
		return ZoneRight
	default:
		return ZoneCenter
	}
}

// classifyPanelZone implements the leaf-panel test: the panel rect is
// divided into a 3x3 grid of thirds; the center cell is ZoneCenter, the
// four edge cells are the obvious direction, and the four corner cells
// are tie-broken the same way classifyRootZone breaks its NW/NE corners,
// generalized to all four corners (on an exact tie the horizontal
// left/right zone wins over the vertical one).
func classifyPanelZone(rect Rect, x, y int) Zone {
	if rect.Width <= 0 || rect.Height <= 0 {
		return ZoneNone
	}
	colThird := rect.Width / 3
	rowThird := rect.Height / 3

	left := x - rect.X
	top := y - rect.Y

	col := 1
	switch {
	case left < colThird:
		col = 0
	case left >= rect.Width-colThird:
		col = 2
	}
	row := 1
	switch {
	case top < rowThird:
		row = 0
	case top >= rect.Height-rowThird:
		row = 2
	}

	if row == 1 && col == 1 {
		return ZoneCenter
	}
	if row == 1 {
		if col == 0 {
			return ZoneLeft
		}
		return ZoneRight
	}
	if col == 1 {
		if row == 0 {
			return ZoneTop
		}
		return ZoneBottom
	}

	right := rect.X + rect.Width - x
	bottom := rect.Y + rect.Height - y
	sideZone, distSide := ZoneLeft, left
	if col == 2 {
		sideZone, distSide = ZoneRight, right
	}
	if row == 0 {
		return cornerZone(top, bottom, distSide, ZoneTop, ZoneBottom, sideZone)
	}
	return cornerZone(bottom, top, distSide, ZoneBottom, ZoneTop, sideZone)
}

// FindDropTarget classifies (x, y) in two tiers, per §4.6: first against
// the whole dock's bounding rect using the fixed-band root rule; only
// when that reads as center does it descend the split tree to the leaf
// tab panel under the point and classify against that panel's own 3x3
// grid. It returns (nil, ZoneNone) if the point is outside the dock
// entirely.
func (d *Dock) FindDropTarget(x, y int) (*Panel, Zone) {
	rootRect := d.root.widget.Rect()
	if rootRect.Width <= 0 || rootRect.Height <= 0 {
		return nil, ZoneNone
	}
	if x < rootRect.X || x >= rootRect.X+rootRect.Width || y < rootRect.Y || y >= rootRect.Y+rootRect.Height {
		return nil, ZoneNone
	}
	if zone := classifyRootZone(rootRect, x, y); zone != ZoneCenter {
		return d.root, zone
	}

	panel := d.root
	for panel.kind == kindSplit {
		found := false
		for _, c := range panel.children {
			r := c.widget.Rect()
			if x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height {
				panel = c
				found = true
				break
			}
		}
		if !found {
			return nil, ZoneNone
		}
	}
	r := panel.widget.Rect()
	if x < r.X || x >= r.X+r.Width || y < r.Y || y >= r.Y+r.Height {
		return nil, ZoneNone
	}
	return panel, classifyPanelZone(r, x, y)
}

// overlayRect derives the highlight rectangle for a classified drop
// zone, per §4.6: a root zone fills 2/3 of the panel towards the chosen
// side, a panel zone fills half, and center always fills the whole
// target rect.
func overlayRect(panel *Panel, zone Zone, isRoot bool) Rect {
	r := panel.widget.Rect()
	if zone == ZoneNone || zone == ZoneCenter {
		return r
	}
	frac := 0.5
	if isRoot {
		frac = 2.0 / 3.0
	}
	switch zone {
	case ZoneLeft:
		w := int(float64(r.Width) * frac)
		return Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height}
	case ZoneRight:
		w := int(float64(r.Width) * frac)
		return Rect{X: r.X + r.Width - w, Y: r.Y, Width: w, Height: r.Height}
	case ZoneTop:
		h := int(float64(r.Height) * frac)
		return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: h}
	case ZoneBottom:
		h := int(float64(r.Height) * frac)
		return Rect{X: r.X, Y: r.Y + r.Height - h, Width: r.Width, Height: h}
	default:
		return r
	}
}

// ShowOverlay classifies (x, y) via FindDropTarget and, if a collaborator
// is installed (SetOverlay), drives it to highlight the derived
// rectangle — or to hide any existing highlight when the point is over
// no valid drop zone. It always returns the classified zone so a caller
// can decide whether the drop itself would be accepted.
func (d *Dock) ShowOverlay(x, y int) Zone {
	panel, zone := d.FindDropTarget(x, y)
	if panel == nil || zone == ZoneNone {
		if d.overlay != nil {
			d.overlay.HideOverlay()
		}
		return ZoneNone
	}
	if d.overlay != nil {
		isRoot := panel == d.root && classifyRootZone(d.root.widget.Rect(), x, y) != ZoneCenter
		d.overlay.ShowOverlay(overlayRect(panel, zone, isRoot))
	}
	return zone
}

// zoneToMode maps a drop zone to the addWidget mode that realizes it;
// ZoneCenter docks as a tab.
func zoneToMode(z Zone) (DockMode, bool) {
	switch z {
	case ZoneTop:
		return ModeSplitTop, true
	case ZoneLeft:
		return ModeSplitLeft, true
	case ZoneRight:
		return ModeSplitRight, true
	case ZoneBottom:
		return ModeSplitBottom, true
	case ZoneCenter:
		return ModeTabAfter, true
	default:
		return 0, false
	}
}
