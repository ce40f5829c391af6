package dockwerk

import (
	"fmt"
	"strings"
)

// WidgetType returns a short type name for w, suitable for debug dumps and
// test assertions — there being only one concrete Widget type in this
// package, it reports "Widget" plus whether a layout is installed.
func WidgetType(w *Widget) string {
	if w == nil {
		return "<nil>"
	}
	if w.Layout() != nil {
		return fmt.Sprintf("Widget[%T]", w.Layout())
	}
	return "Widget"
}

// WidgetDetails formats a one-line summary of w's lifecycle state,
// grouped the way a log line would read: id, flags, rect.
func WidgetDetails(w *Widget) string {
	if w == nil {
		return "<nil>"
	}
	var flags []string
	if w.IsAttached() {
		flags = append(flags, "attached")
	}
	if w.IsHidden() {
		flags = append(flags, "hidden")
	}
	if w.IsDisposed() {
		flags = append(flags, "disposed")
	}
	if len(flags) == 0 {
		flags = append(flags, "detached")
	}
	r := w.Rect()
	return fmt.Sprintf("%s(%s) [%s] rect=%d,%d %dx%d", WidgetType(w), w.ID(), strings.Join(flags, ","), r.X, r.Y, r.Width, r.Height)
}

// DumpWidgetTree renders w and its descendants as an indented tree, depth
// first, for test failure output and interactive debugging.
func DumpWidgetTree(w *Widget) string {
	var b strings.Builder
	dumpWidget(&b, w, 0)
	return b.String()
}

func dumpWidget(b *strings.Builder, w *Widget, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(WidgetDetails(w))
	b.WriteString("\n")
	for _, c := range w.Children() {
		dumpWidget(b, c, depth+1)
	}
}

// DumpDockTree renders a Dock's panel tree as an indented outline naming
// each split's orientation and each tab panel's hosted widget ids.
func DumpDockTree(d *Dock) string {
	var b strings.Builder
	dumpPanel(&b, d.root, 0)
	return b.String()
}

func dumpPanel(b *strings.Builder, p *Panel, depth int) {
	indent := strings.Repeat("  ", depth)
	switch p.kind {
	case kindSplit:
		orientation := "horizontal"
		if p.split.Orientation == Vertical {
			orientation = "vertical"
		}
		fmt.Fprintf(b, "%ssplit(%s) %s\n", indent, orientation, WidgetDetails(p.widget))
		for _, c := range p.children {
			dumpPanel(b, c, depth+1)
		}
	case kindTab:
		ids := make([]string, len(p.tabs))
		for i, t := range p.tabs {
			ids[i] = t.ID()
		}
		fmt.Fprintf(b, "%stab[current=%d] {%s} %s\n", indent, p.stack.Current(), strings.Join(ids, ", "), WidgetDetails(p.widget))
	}
}
