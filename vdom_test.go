package dockwerk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHost is an in-memory Host for exercising the reconciler without a
// real tcell screen.
type fakeHost struct {
	created []HostNode
	attrLog []string
}

type fakeNode struct {
	text     bool
	tag      string
	content  string
	attrs    map[string]any
	children []*fakeNode
}

func (h *fakeHost) CreateElement(tag string) HostNode {
	n := &fakeNode{tag: tag, attrs: make(map[string]any)}
	h.created = append(h.created, n)
	return n
}

func (h *fakeHost) CreateText(content string) HostNode {
	n := &fakeNode{text: true, content: content}
	h.created = append(h.created, n)
	return n
}

func (h *fakeHost) InsertBefore(parent HostNode, node, before HostNode) {
	p, n := parent.(*fakeNode), node.(*fakeNode)
	if before == nil {
		p.children = append(p.children, n)
		return
	}
	b := before.(*fakeNode)
	for i, c := range p.children {
		if c == b {
			p.children = append(p.children, nil)
			copy(p.children[i+1:], p.children[i:])
			p.children[i] = n
			return
		}
	}
	p.children = append(p.children, n)
}

func (h *fakeHost) RemoveChild(parent HostNode, node HostNode) {
	p, n := parent.(*fakeNode), node.(*fakeNode)
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

func (h *fakeHost) SetText(node HostNode, content string) {
	node.(*fakeNode).content = content
}

func (h *fakeHost) ApplyAttr(node HostNode, name string, old, new any) {
	h.attrLog = append(h.attrLog, name)
	n := node.(*fakeNode)
	if new == nil {
		delete(n.attrs, name)
		return
	}
	n.attrs[name] = new
}

func TestRenderClearsHostOnNil(t *testing.T) {
	host := &fakeHost{}
	r := NewRenderer(host)
	root := &fakeNode{tag: "root", attrs: map[string]any{}}

	r.Render(H("row", nil, Text("hi")), root)
	require.Len(t, root.children, 1)

	r.Render(nil, root)
	assert.Empty(t, root.children)
}

func TestRenderIdenticalReferenceSkipsRecursion(t *testing.T) {
	host := &fakeHost{}
	r := NewRenderer(host)
	root := &fakeNode{tag: "root", attrs: map[string]any{}}

	child := H("item", map[string]any{"value": 1}, Text("a"))
	r.Render(child, root)
	before := len(host.attrLog)

	r.Render(child, root) // same *VNode pointer
	assert.Equal(t, before, len(host.attrLog), "re-rendering the same object reference must not touch attrs")
}

func TestRenderKeyedMovePreservesHostNode(t *testing.T) {
	host := &fakeHost{}
	r := NewRenderer(host)
	root := &fakeNode{tag: "root", attrs: map[string]any{}}

	a := H("item", map[string]any{"key": "a"}, Text("A"))
	b := H("item", map[string]any{"key": "b"}, Text("B"))
	r.Render([]*VNode{a, b}, root)
	require.Len(t, root.children, 2)
	firstHost := root.children[0]
	secondHost := root.children[1]

	a2 := H("item", map[string]any{"key": "a"}, Text("A"))
	b2 := H("item", map[string]any{"key": "b"}, Text("B"))
	r.Render([]*VNode{b2, a2}, root) // order swapped

	require.Len(t, root.children, 2)
	assert.Same(t, secondHost, root.children[0], "the node keyed b must be moved, not recreated")
	assert.Same(t, firstHost, root.children[1], "the node keyed a must be moved, not recreated")
}

func TestRenderKeyedTagChangeIsFreshNode(t *testing.T) {
	host := &fakeHost{}
	r := NewRenderer(host)
	root := &fakeNode{tag: "root", attrs: map[string]any{}}

	r.Render(H("button", map[string]any{"key": "x"}), root)
	original := root.children[0]

	r.Render(H("input", map[string]any{"key": "x"}), root)

	require.Len(t, root.children, 1)
	assert.NotSame(t, original, root.children[0], "same key but different tag must produce a fresh node")
	assert.Equal(t, "input", root.children[0].tag)
}

func TestRenderRefPublishesHostNode(t *testing.T) {
	host := &fakeHost{}
	r := NewRenderer(host)
	root := &fakeNode{tag: "root", attrs: map[string]any{}}

	r.Render(H("panel", map[string]any{"ref": "main"}), root)

	node, ok := r.Ref("main")
	require.True(t, ok)
	assert.Same(t, root.children[0], node)
}

func TestDiffAttrsOnlyTouchesChanged(t *testing.T) {
	host := &fakeHost{}
	r := NewRenderer(host)
	root := &fakeNode{tag: "root", attrs: map[string]any{}}

	r.Render(H("box", map[string]any{"width": 10, "title": "a"}), root)
	host.attrLog = nil

	r.Render(H("box", map[string]any{"width": 10, "title": "b"}), root)

	assert.ElementsMatch(t, []string{"title"}, host.attrLog)
}
