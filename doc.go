// Package dockwerk implements the runtime core shared by every widget in a
// dockable terminal UI toolkit: a cooperative message loop, a signal/slot
// bus with weak-lifetime semantics, a keyed virtual-tree reconciler, the
// widget attach/show/resize/dispose lifecycle, the layout-request protocol
// and box-sizing algorithm behind split/stacked/tab layouts, and the
// split/tab dock tree that lets tabs be dragged between docking zones.
//
// # Scope
//
// dockwerk owns the plumbing every concrete widget depends on. It does not
// ship concrete panel widgets (box, button, list, table, ...), styling, or
// drag-image visuals — those are external collaborators built on top of the
// types exported here. The host environment is a github.com/gdamore/tcell/v3
// screen: "DOM element" in the original design note becomes a rectangular
// cell region of that screen plus its registered key/mouse handlers.
//
// # Components
//
//   - MessageLoop (loop.go): send/post/installHook/removeHook/clearMessageData
//   - Signal (signal.go): typed connect/disconnect/emit with auto-cleanup
//   - Render/Host (vdom.go, vdom_attrs.go): h()-style builder + keyed diff
//   - Widget (widget.go): attach/detach, show/hide, resize/update/fit, dispose
//   - Layout (layout.go, layout_split.go, layout_stack.go): box-sizing engine
//   - Dock (dock.go, dock_drag.go): split/tab tree, drag lifecycle, hit-testing
//
// Ambient concerns — configuration (config.go), an optional sqlite-backed
// audit trail (audit.go), and debug introspection (debug.go) — follow the
// same patterns used throughout the package: plain Go values, explicit
// construction, no hidden global state.
package dockwerk
