package dockwerk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWidget(id string, loop *MessageLoop, registry *signalRegistry) *Widget {
	return NewWidget(id, loop, registry, nil, &fakeNode{tag: id})
}

func TestWidgetAttachDetachOrder(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()

	var order []string
	record := func(name, phase string) func(*Widget, Message) {
		return func(*Widget, Message) { order = append(order, name+":"+phase) }
	}

	root := newTestWidget("root", loop, registry)
	child := newTestWidget("child", loop, registry)
	grandchild := newTestWidget("grandchild", loop, registry)

	for _, pair := range []struct {
		w    *Widget
		name string
	}{{root, "root"}, {child, "child"}, {grandchild, "grandchild"}} {
		pair.w.On(TypeAfterAttach, record(pair.name, "after-attach"))
		pair.w.On(TypeAfterDetach, record(pair.name, "after-detach"))
	}

	child.AddChild(grandchild)
	root.AddChild(child)
	root.Attach(nil)

	assert.Equal(t, []string{
		"root:after-attach",
		"child:after-attach",
		"grandchild:after-attach",
	}, order, "attach must be strict depth-first, parent before children")

	order = nil
	root.Detach()

	assert.Equal(t, []string{
		"grandchild:after-detach",
		"child:after-detach",
		"root:after-detach",
	}, order, "detach must be reverse order, leaves before parent")
}

func TestWidgetShowHideRespectsAncestors(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()

	root := newTestWidget("root", loop, registry)
	child := newTestWidget("child", loop, registry)
	root.AddChild(child)
	root.Attach(nil)

	require.True(t, child.IsVisible())

	root.Hide()
	assert.False(t, child.IsVisible(), "a hidden ancestor makes descendants non-visible")
	assert.False(t, child.IsHidden(), "child's own hidden flag is untouched by an ancestor hide")

	root.Show()
	assert.True(t, child.IsVisible())
}

func TestWidgetResizeConflatesAcrossFrame(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	w := newTestWidget("w", loop, registry)

	w.Resize(1, 1)
	w.Resize(100, 200)

	assert.Equal(t, 1, loop.Pending(w))
	loop.DrainFrame()
	assert.Equal(t, Rect{}, w.Rect(), "Resize alone (no layout) never sets Rect, only SetRect does")
}

func TestWidgetContentRectDeflatesByPadding(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	w := newTestWidget("w", loop, registry)

	w.Padding = *NewInsets(1, 2, 3, 4)
	w.SetRect(Rect{X: 10, Y: 10, Width: 20, Height: 20})

	content := w.ContentRect()
	assert.Equal(t, Rect{X: 14, Y: 11, Width: 14, Height: 16}, content)
}

func TestWidgetContentRectClampsAtZero(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()
	w := newTestWidget("w", loop, registry)

	w.Padding = *NewInsets(50)
	w.SetRect(Rect{Width: 10, Height: 10})

	content := w.ContentRect()
	assert.Equal(t, 0, content.Width)
	assert.Equal(t, 0, content.Height)
}

func TestWidgetDisposeIsIdempotent(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()

	root := newTestWidget("root", loop, registry)
	child := newTestWidget("child", loop, registry)
	root.AddChild(child)
	root.Attach(nil)

	disposedCount := 0
	root.Disposed.Connect("observer", func(any) { disposedCount++ })

	root.Dispose()
	root.Dispose() // must be a no-op

	assert.Equal(t, 1, disposedCount)
	assert.True(t, root.IsDisposed())
	assert.True(t, child.IsDisposed())
	assert.False(t, root.IsAttached())
}

func TestWidgetDisposeReentrantViaOwnSignalIsNoop(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()

	root := newTestWidget("root", loop, registry)
	child := newTestWidget("child", loop, registry)
	root.AddChild(child)
	root.Attach(nil)

	disposedCount := 0
	root.Disposed.Connect("observer", func(any) {
		disposedCount++
		root.Dispose() // reentrant: fires while root is still mid-Dispose
	})

	root.Dispose()

	assert.Equal(t, 1, disposedCount, "the reentrant call must see IsDisposed already true and no-op")
	assert.True(t, root.IsDisposed())
	assert.True(t, child.IsDisposed())
	assert.False(t, root.IsAttached())
}

func TestFindWidgetDepthFirst(t *testing.T) {
	loop := NewMessageLoop(nil)
	registry := NewSignalRegistry()

	root := newTestWidget("root", loop, registry)
	a := newTestWidget("a", loop, registry)
	b := newTestWidget("b", loop, registry)
	root.AddChild(a)
	root.AddChild(b)

	found := FindWidget(root, func(w *Widget) bool { return w.ID() == "b" })
	require.NotNil(t, found)
	assert.Equal(t, "b", found.ID())

	assert.Nil(t, FindWidget(root, func(w *Widget) bool { return w.ID() == "missing" }))
}
