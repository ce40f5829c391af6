package dockwerk

import (
	"fmt"

	"golang.org/x/sync/singleflight"
)

// dragPhase is the drag lifecycle state machine from §4.6: idle until a
// pointer goes down on a tab, pending until the pointer has moved enough
// to count as an actual drag (vs. a click), active while an overlay
// tracks the pointer, finalizing while the drop itself is being applied.
type dragPhase int

const (
	dragIdle dragPhase = iota
	dragPending
	dragActive
	dragFinalizing
)

// dragThreshold is how many cells the pointer must move from its
// mouse-down position before a pending drag promotes to active.
const dragThreshold = 3

// dragSession tracks one in-flight tab drag. finalizeGroup deduplicates
// concurrent Finalize calls for the same session: a host can legitimately
// deliver more than one "pointer released" notification for a single
// physical release (e.g. a mouse-up arriving alongside a synthesized
// touch-end), and only the first should actually move the widget —
// the rest should observe its result, not race to do it again.
type dragSession struct {
	dock  *Dock
	phase dragPhase

	widget *Widget
	source *Panel

	startX, startY int

	finalizeGroup singleflight.Group
}

// BeginDrag starts tracking a potential drag of widget from its current
// panel, originating at (x, y). It is a no-op (and returns false) if a
// drag is already in progress for this dock.
func (d *Dock) BeginDrag(widget *Widget, x, y int) bool {
	if d.drag != nil && d.drag.phase != dragIdle {
		return false
	}
	panel, ok := d.PanelFor(widget)
	if !ok {
		return false
	}
	d.drag = &dragSession{dock: d, phase: dragPending, widget: widget, source: panel, startX: x, startY: y}
	return true
}

// Move reports the pointer's current position. Once it has moved past
// dragThreshold from the start point, the session promotes pending to
// active and Move begins returning the current drop target so the caller
// can draw a drop overlay. It returns (nil, ZoneNone) while still
// pending, or if there is no active drag.
func (d *Dock) Move(x, y int) (*Panel, Zone) {
	s := d.drag
	if s == nil || s.phase == dragIdle || s.phase == dragFinalizing {
		return nil, ZoneNone
	}
	if s.phase == dragPending {
		dx, dy := x-s.startX, y-s.startY
		if dx*dx+dy*dy < dragThreshold*dragThreshold {
			return nil, ZoneNone
		}
		s.phase = dragActive
	}
	return d.FindDropTarget(x, y)
}

// CancelDrag abandons the current drag without moving the widget,
// returning the session to idle. Safe to call when there is no drag.
func (d *Dock) CancelDrag() {
	if d.drag != nil {
		d.drag.phase = dragIdle
	}
}

// FinalizeDrag completes the drag at (x, y): if the pointer is over a
// valid drop zone, the widget is removed from its panel and re-added
// there (its own source panel included); dropping a panel's only tab
// back onto that same panel, or onto no valid zone, leaves the tree
// untouched. Either way the
// session returns to idle. Concurrent/duplicate finalize notifications
// for the same session collapse into a single actual move via
// finalizeGroup.
func (d *Dock) FinalizeDrag(x, y int) error {
	s := d.drag
	if s == nil || s.phase == dragIdle {
		return nil
	}
	s.phase = dragFinalizing

	_, err, _ := s.finalizeGroup.Do("finalize", func() (any, error) {
		target, zone := d.FindDropTarget(x, y)
		defer func() { d.drag.phase = dragIdle }()

		if target == nil || zone == ZoneNone {
			return nil, nil
		}
		if target == s.source && len(target.tabs) == 1 {
			return nil, nil // dropping a single-tab panel's only tab on itself: no-op
		}
		mode, ok := zoneToMode(zone)
		if !ok {
			return nil, nil
		}

		d.RemoveWidget(s.widget)
		if err := d.AddWidget(s.widget, target, mode, s.widget.Node()); err != nil {
			return nil, fmt.Errorf("dockwerk: finalize drag: %w", err)
		}
		return nil, nil
	})
	return err
}

// DragPhase reports whether a drag is in progress, for tests and for a
// host deciding whether to render a drop overlay.
func (d *Dock) DragPhase() (active bool, pending bool) {
	if d.drag == nil {
		return false, false
	}
	return d.drag.phase == dragActive, d.drag.phase == dragPending
}
