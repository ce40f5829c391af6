package dockwerk

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// cellNode is the HostNode concrete type for the tcell host: a
// rectangular region of the screen plus whatever the reconciler/layout
// last applied to it. Text nodes carry Content; element nodes carry Tag,
// attrs, and children in host-creation order (mirroring a real DOM
// node's childNodes, needed so InsertBefore/RemoveChild can find a
// sibling's position).
type cellNode struct {
	parent   *cellNode
	children []*cellNode

	isText  bool
	content string

	tag   string
	attrs map[string]any

	rect Rect
}

// TcellHost implements both Host (C3's reconciler collaborator) and the
// frame-scheduling contract MessageLoop needs, backed by a tcell.Screen.
// It corresponds to the teacher's UI.Run/EventLoop: one goroutine polls
// tcell events onto a channel, the main loop goroutine drains frames in
// response.
type TcellHost struct {
	screen tcell.Screen

	mu   sync.Mutex
	loop *MessageLoop
	root *Widget

	events chan tcell.Event
	quit   chan struct{}
	redraw chan struct{}

	focus *FocusTracker
}

// NewTcellHost creates a host wrapping an already-initialized tcell
// screen, whose root widget receives resize notifications as the
// terminal window changes size. Call Run to start the event/frame pump.
func NewTcellHost(screen tcell.Screen, root *Widget, focus *FocusTracker) *TcellHost {
	h := &TcellHost{
		screen: screen,
		root:   root,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
		redraw: make(chan struct{}, 1),
		focus:  focus,
	}
	h.loop = NewMessageLoop(h.scheduleFrame)
	return h
}

// Loop returns the message loop this host drains.
func (h *TcellHost) Loop() *MessageLoop { return h.loop }

func (h *TcellHost) scheduleFrame() {
	select {
	case h.redraw <- struct{}{}:
	default:
	}
}

// Run starts the tcell event-poll goroutine and blocks, draining frames
// and dispatching input events, until Close is called.
func (h *TcellHost) Run() {
	go h.pollEvents()

	for {
		select {
		case <-h.quit:
			return
		case <-h.redraw:
			h.loop.DrainFrame()
			h.paint()
		case ev := <-h.events:
			h.handleEvent(ev)
		}
	}
}

func (h *TcellHost) pollEvents() {
	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case h.events <- ev:
		case <-h.quit:
			return
		}
	}
}

func (h *TcellHost) handleEvent(ev tcell.Event) {
	switch ev.(type) {
	case *tcell.EventResize:
		w, hgt := h.screen.Size()
		if h.root != nil {
			h.root.Resize(w, hgt)
		}
	}
	h.scheduleFrame()
}

// paint is a placeholder full-screen flush; the cellNode tree already
// carries every host mutation the reconciler/layout applied, a concrete
// renderer would walk it here and call screen.SetContent per cell.
func (h *TcellHost) paint() {
	h.screen.Show()
}

// Close stops Run and finalizes the tcell screen.
func (h *TcellHost) Close() {
	close(h.quit)
	h.screen.Fini()
}

// --- Host interface (vdom.go) ---

func (h *TcellHost) CreateElement(tag string) HostNode {
	return &cellNode{tag: tag, attrs: make(map[string]any)}
}

func (h *TcellHost) CreateText(content string) HostNode {
	return &cellNode{isText: true, content: content}
}

func (h *TcellHost) InsertBefore(parent HostNode, node, before HostNode) {
	p, n := parent.(*cellNode), node.(*cellNode)
	n.parent = p
	if before == nil {
		p.children = append(p.children, n)
		return
	}
	b := before.(*cellNode)
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

func (h *TcellHost) RemoveChild(parent HostNode, node HostNode) {
	p, n := parent.(*cellNode), node.(*cellNode)
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

func (h *TcellHost) SetText(node HostNode, content string) {
	node.(*cellNode).content = content
}

func (h *TcellHost) ApplyAttr(node HostNode, name string, old, new any) {
	n := node.(*cellNode)
	if new == nil {
		delete(n.attrs, name)
		return
	}
	n.attrs[name] = new
}

// --- text measurement ---

// GraphemeWidth returns the display width of s in host cells, using
// grapheme cluster segmentation so combining marks and wide (CJK)
// runes are counted once rather than per-rune.
func GraphemeWidth(s string) int {
	width := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		width += uniseg.StringWidth(gr.Str())
	}
	return width
}

// TruncateToWidth returns the longest grapheme-safe prefix of s whose
// display width does not exceed width, appending an ellipsis rune when
// truncation actually occurred.
func TruncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if GraphemeWidth(s) <= width {
		return s
	}
	budget := width - 1
	var out []rune
	w := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cw := uniseg.StringWidth(gr.Str())
		if w+cw > budget {
			break
		}
		out = append(out, gr.Runes()...)
		w += cw
	}
	return fmt.Sprintf("%s…", string(out))
}
