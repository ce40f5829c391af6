package dockwerk

import "fmt"

// Error handling in this package follows three distinct shapes, per the
// component's own contract:
//
//   - Programmer contract violations on a widget (attaching an
//     already-attached widget, inserting a widget that already has a
//     parent, assigning a widget a second layout) panic immediately:
//     these are bugs in the caller, not runtime conditions to recover
//     from. Dock misuse (re-docking a widget already in the tree, a
//     reference that is not a tab panel, activating a widget that is not
//     docked) is reported as a returned error instead.
//   - Out-of-range or structurally meaningless requests (an index past
//     the end of a child list, a drag finalize with no active session, an
//     empty split) clamp to the nearest valid value or silently no-op,
//     matching how the teacher's own widgets treat bad indices.
//   - A user-supplied callback (a slot, a hook, a Widget.On handler)
//     panicking is always contained: MessageLoop.dispatch and
//     Signal.Emit both recover and log, because one misbehaving callback
//     must never take down the whole dispatch loop.

// ErrUnknownDockReference is returned by Dock.AddWidget when ref is not a
// tab panel (only a leaf tab panel is a valid dock insertion point).
var ErrUnknownDockReference = fmt.Errorf("dockwerk: dock reference must be a tab panel")

// errAlreadyDocked is returned by Dock.AddWidget when widget is already
// present somewhere in the same dock tree.
func errAlreadyDocked(id string) error {
	return fmt.Errorf("dockwerk: widget %s is already docked", id)
}

// errNotDocked is returned by Dock.ActivateWidget (and similar
// by-widget lookups) when widget is not present in this dock tree.
func errNotDocked(id string) error {
	return fmt.Errorf("dockwerk: widget %s is not docked here", id)
}
