package dockwerk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDockTestWidget(id string, loop *MessageLoop, registry *signalRegistry) *Widget {
	return NewWidget(id, loop, registry, nil, &fakeNode{tag: id})
}

func TestDockAddWidgetTabInsertsIntoRoot(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	b := newDockTestWidget("b", loop, registry)

	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	require.NoError(t, d.AddWidget(b, nil, ModeTabBefore, &fakeNode{tag: "b"}))

	panel, ok := d.PanelFor(a)
	require.True(t, ok)
	assert.Same(t, d.Root(), panel)
	assert.Equal(t, []*Widget{b, a}, panel.tabs, "ModeTabBefore must insert b ahead of a")
}

func TestDockAddWidgetRejectsDuplicateAndNonTabRef(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))

	err := d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a2"})
	assert.Error(t, err)

	b := newDockTestWidget("b", loop, registry)
	require.NoError(t, d.AddWidget(b, nil, ModeSplitRight, &fakeNode{tag: "b"}))
	splitPanel := d.Root()
	require.Equal(t, kindSplit, splitPanel.kind)

	c := newDockTestWidget("c", loop, registry)
	err = d.AddWidget(c, splitPanel, ModeTabAfter, &fakeNode{tag: "c"})
	assert.ErrorIs(t, err, ErrUnknownDockReference)
}

func TestDockSplitWrapsRootAndPositionsBySide(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	rootTab := d.Root()

	b := newDockTestWidget("b", loop, registry)
	require.NoError(t, d.AddWidget(b, rootTab, ModeSplitLeft, &fakeNode{tag: "b"}))

	wrapper := d.Root()
	require.Equal(t, kindSplit, wrapper.kind)
	assert.Equal(t, Horizontal, wrapper.split.Orientation)
	require.Len(t, wrapper.children, 2)

	bPanel, ok := d.PanelFor(b)
	require.True(t, ok)
	assert.Same(t, wrapper.children[0], bPanel, "SplitLeft places the new panel before the reference")
	assert.Same(t, wrapper.children[1], rootTab)
}

func TestDockRemoveWidgetCollapsesEmptySplit(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	rootTab := d.Root()

	b := newDockTestWidget("b", loop, registry)
	require.NoError(t, d.AddWidget(b, rootTab, ModeSplitRight, &fakeNode{tag: "b"}))
	require.Equal(t, kindSplit, d.Root().kind)

	bPanel, _ := d.PanelFor(b)
	d.RemoveWidget(b)

	assert.Same(t, rootTab, d.Root(), "removing the only tab in one split arm must collapse the split away")
	_, stillDocked := d.PanelFor(b)
	assert.False(t, stillDocked)
	_ = bPanel
}

func TestDockRemoveLastTabLeavesEmptyRootPanel(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))

	d.RemoveWidget(a)
	assert.Equal(t, kindTab, d.Root().kind)
	assert.Empty(t, d.Root().tabs)
}

func TestClassifyPanelZoneCenterAndEdges(t *testing.T) {
	rect := Rect{X: 0, Y: 0, Width: 100, Height: 20}

	assert.Equal(t, ZoneCenter, classifyPanelZone(rect, 50, 10))
	assert.Equal(t, ZoneLeft, classifyPanelZone(rect, 1, 10))
	assert.Equal(t, ZoneRight, classifyPanelZone(rect, 99, 10))
	assert.Equal(t, ZoneTop, classifyPanelZone(rect, 50, 0))
	assert.Equal(t, ZoneBottom, classifyPanelZone(rect, 50, 19))
}

func TestClassifyPanelZoneCornerPrefersCloserAxis(t *testing.T) {
	rect := Rect{X: 0, Y: 0, Width: 30, Height: 30}

	assert.Equal(t, ZoneTop, classifyPanelZone(rect, 8, 2), "closer to the top edge than the left")
	assert.Equal(t, ZoneLeft, classifyPanelZone(rect, 2, 8), "closer to the left edge than the top")
}

func TestClassifyPanelZoneCornerTieFavorsSide(t *testing.T) {
	// An exact corner tie (equidistant from both edges): the strict
	// less-than comparisons both fail, so the side (horizontal) zone
	// wins by falling through to the default.
	rect := Rect{X: 0, Y: 0, Width: 100, Height: 10}
	assert.Equal(t, ZoneLeft, classifyPanelZone(rect, 0, 0))
}

func TestClassifyRootZoneFixedBandAndCornerTieBreak(t *testing.T) {
	rect := Rect{X: 0, Y: 0, Width: 100, Height: 40}

	assert.Equal(t, ZoneCenter, classifyRootZone(rect, 50, 20), "well clear of the edge band on every side")
	assert.Equal(t, ZoneLeft, classifyRootZone(rect, 1, 20))
	assert.Equal(t, ZoneRight, classifyRootZone(rect, 98, 20))
	assert.Equal(t, ZoneTop, classifyRootZone(rect, 50, 1))
	assert.Equal(t, ZoneBottom, classifyRootZone(rect, 50, 38))

	// NW corner, closer to the top than the left edge.
	assert.Equal(t, ZoneTop, classifyRootZone(rect, 3, 1))
	// NE corner, closer to the right than the top edge.
	assert.Equal(t, ZoneRight, classifyRootZone(rect, 97, 4))
	// SW corner gets no diagonal treatment: falls through to the plain
	// bottom band ahead of left, per the "pure bands otherwise" rule.
	assert.Equal(t, ZoneBottom, classifyRootZone(rect, 1, 38))
}

func TestFindDropTargetDescendsSplitTree(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	rootTab := d.Root()

	b := newDockTestWidget("b", loop, registry)
	require.NoError(t, d.AddWidget(b, rootTab, ModeSplitRight, &fakeNode{tag: "b"}))

	wrapper := d.Root()
	wrapper.widget.SetRect(Rect{X: 0, Y: 0, Width: 100, Height: 20})
	wrapper.split.Update(Rect{X: 0, Y: 0, Width: 100, Height: 20})

	aPanel, _ := d.PanelFor(a)
	bPanel, _ := d.PanelFor(b)

	aRect := aPanel.widget.Rect()
	panel, zone := d.FindDropTarget(aRect.X+aRect.Width/2, aRect.Y+aRect.Height/2)
	require.NotNil(t, panel)
	assert.Same(t, aPanel, panel)
	assert.Equal(t, ZoneCenter, zone)

	bRect := bPanel.widget.Rect()
	panel, zone = d.FindDropTarget(bRect.X, bRect.Y+bRect.Height/2)
	require.NotNil(t, panel)
	assert.Same(t, bPanel, panel)
	assert.Equal(t, ZoneLeft, zone, "a point on b's own left edge must read as a split zone, not center")

	panel, zone = d.FindDropTarget(-5, -5)
	assert.Nil(t, panel)
	assert.Equal(t, ZoneNone, zone)
}

func TestDragLifecyclePendingThenActive(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	d.Root().widget.SetRect(Rect{X: 0, Y: 0, Width: 100, Height: 20})

	require.True(t, d.BeginDrag(a, 10, 10))
	active, pending := d.DragPhase()
	assert.False(t, active)
	assert.True(t, pending)

	_, zone := d.Move(11, 10) // below dragThreshold
	assert.Equal(t, ZoneNone, zone)
	active, pending = d.DragPhase()
	assert.False(t, active)
	assert.True(t, pending, "a sub-threshold move must not promote to active")

	d.Move(50, 10) // past dragThreshold
	active, _ = d.DragPhase()
	assert.True(t, active)

	assert.False(t, d.BeginDrag(a, 0, 0), "a second BeginDrag while one is in flight must be rejected")
}

func TestDragFinalizeMovesWidgetToNewZone(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	b := newDockTestWidget("b", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	require.NoError(t, d.AddWidget(b, nil, ModeTabAfter, &fakeNode{tag: "b"}))
	root := d.Root()
	root.widget.SetRect(Rect{X: 0, Y: 0, Width: 100, Height: 20})

	require.True(t, d.BeginDrag(a, 10, 10))
	d.Move(1, 10) // promote to active, pointer near the left edge

	require.NoError(t, d.FinalizeDrag(1, 10))

	active, pending := d.DragPhase()
	assert.False(t, active)
	assert.False(t, pending)

	_, stillInRoot := d.PanelFor(a)
	assert.True(t, stillInRoot, "a was moved, not removed from the dock entirely")
	assert.NotSame(t, root, d.Root(), "dropping on an edge zone must have split the tree")
}

func TestDragFinalizeOntoOwnSinglePanelIsNoop(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	d.Root().widget.SetRect(Rect{X: 0, Y: 0, Width: 100, Height: 20})

	root := d.Root()
	require.True(t, d.BeginDrag(a, 50, 10))
	d.Move(50, 10)

	require.NoError(t, d.FinalizeDrag(50, 10)) // dropped back in the center of its own only panel
	assert.Same(t, root, d.Root(), "tree must be unchanged")
	panel, _ := d.PanelFor(a)
	assert.Same(t, d.Root(), panel)
}

func TestDragCancelLeavesTreeUntouched(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))

	require.True(t, d.BeginDrag(a, 10, 10))
	d.CancelDrag()

	active, pending := d.DragPhase()
	assert.False(t, active)
	assert.False(t, pending)

	require.NoError(t, d.FinalizeDrag(10, 10))
	panel, _ := d.PanelFor(a)
	assert.Same(t, d.Root(), panel)
}

func TestDockActivateWidgetBringsTabToFrontAndUpdatesCurrent(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	b := newDockTestWidget("b", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	require.NoError(t, d.AddWidget(b, nil, ModeTabAfter, &fakeNode{tag: "b"}))

	var currentHistory []*Widget
	d.CurrentChanged().Connect("observer", func(v any) { currentHistory = append(currentHistory, v.(*Widget)) })

	require.NoError(t, d.ActivateWidget(a))

	root := d.Root()
	require.Equal(t, kindTab, root.kind)
	assert.Equal(t, 0, root.stack.Current())
	assert.Same(t, a, d.Current())
	require.Len(t, currentHistory, 1)
	assert.Same(t, a, currentHistory[0])
}

func TestDockActivateWidgetRejectsUndocked(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	stray := newDockTestWidget("stray", loop, registry)
	assert.Error(t, d.ActivateWidget(stray))
}

type fakeOverlay struct {
	shown  []Rect
	hidden int
}

func (o *fakeOverlay) ShowOverlay(rect Rect) { o.shown = append(o.shown, rect) }
func (o *fakeOverlay) HideOverlay()          { o.hidden++ }

func TestDockShowOverlayRootZoneFillsTwoThirds(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	d.Root().widget.SetRect(Rect{X: 0, Y: 0, Width: 90, Height: 30})

	overlay := &fakeOverlay{}
	d.SetOverlay(overlay)

	zone := d.ShowOverlay(1, 15) // inside the fixed left edge band
	assert.Equal(t, ZoneLeft, zone)
	require.Len(t, overlay.shown, 1)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 60, Height: 30}, overlay.shown[0], "a root zone fills 2/3 of the panel towards the chosen side")
}

func TestDockShowOverlayHidesOnInvalidZone(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	d := NewDock(loop, registry, nil, &fakeNode{tag: "root"})

	a := newDockTestWidget("a", loop, registry)
	require.NoError(t, d.AddWidget(a, nil, ModeTabAfter, &fakeNode{tag: "a"}))
	d.Root().widget.SetRect(Rect{X: 0, Y: 0, Width: 90, Height: 30})

	overlay := &fakeOverlay{}
	d.SetOverlay(overlay)

	zone := d.ShowOverlay(-5, -5) // outside the dock entirely
	assert.Equal(t, ZoneNone, zone)
	assert.Equal(t, 1, overlay.hidden)
	assert.Empty(t, overlay.shown)
}
