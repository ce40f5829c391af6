package dockwerk

// NodeKind discriminates the tagged virtual-node variant from §3.
type NodeKind int

const (
	KindText NodeKind = iota
	KindElement
)

// VNode is a virtual node descriptor. It is always handled through a
// pointer so that "rendering an identical object reference skips children
// recursion entirely" (edge case (b) of §4.3) can be detected with a plain
// pointer comparison, exactly as a real vdom would compare by identity.
type VNode struct {
	Kind     NodeKind
	Text     string         // content, for KindText
	Tag      string         // element tag, for KindElement
	Attrs    map[string]any // attrs.key / attrs.ref are meta, see below
	Children []*VNode
}

// Key returns the reconciliation key for this node, or "" if unkeyed.
func (n *VNode) Key() string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	if k, ok := n.Attrs["key"].(string); ok {
		return k
	}
	return ""
}

// Ref returns the ref name this node's realized HostNode should be
// published under, or "" if none.
func (n *VNode) Ref() string {
	if n == nil || n.Attrs == nil {
		return ""
	}
	if r, ok := n.Attrs["ref"].(string); ok {
		return r
	}
	return ""
}

// Text builds a text virtual node.
func Text(content string) *VNode { return &VNode{Kind: KindText, Text: content} }

// H builds an element virtual node: the external h(tag, attrs?, children...)
// builder from §6. attrs may be nil.
func H(tag string, attrs map[string]any, children ...*VNode) *VNode {
	return &VNode{Kind: KindElement, Tag: tag, Attrs: attrs, Children: children}
}

// HostNode is an opaque handle to a realized node on the host (a
// rectangular cell region plus its registered handlers, for the tcell
// host in host_tcell.go). Reconciliation only ever moves/creates/removes
// these through the Host interface below; it never inspects host-specific
// fields.
type HostNode any

// Host is the reconciler's DOM-equivalent collaborator (§6 "a DOM host
// providing document, element construction, and event registration").
type Host interface {
	CreateElement(tag string) HostNode
	CreateText(content string) HostNode
	// InsertBefore inserts node as a child of parent, immediately before
	// "before" (nil meaning "append at the end").
	InsertBefore(parent HostNode, node, before HostNode)
	RemoveChild(parent HostNode, node HostNode)
	SetText(node HostNode, content string)
	// ApplyAttr is called once per changed attribute name (including
	// "style" as a single nested value) with the previous and new value;
	// old is nil on first application.
	ApplyAttr(node HostNode, name string, old, new any)
}

// instance pairs a previously-rendered VNode with the HostNode it
// produced, forming the host binding from §3 ("per host DOM element, the
// reconciler remembers the virtual node list most recently applied").
type instance struct {
	vnode *VNode
	host  HostNode
}

// Renderer owns the host-binding table and performs reconciliation. It
// corresponds to C3's render/realize pair.
type Renderer struct {
	host     Host
	bindings map[HostNode][]instance
	refs     map[string]HostNode
}

// NewRenderer creates a reconciler against the given host collaborator.
func NewRenderer(host Host) *Renderer {
	return &Renderer{host: host, bindings: make(map[HostNode][]instance), refs: make(map[string]HostNode)}
}

// Ref looks up a HostNode previously published under a vnode's "ref" attr.
func (r *Renderer) Ref(name string) (HostNode, bool) {
	n, ok := r.refs[name]
	return n, ok
}

// Render reconciles hostParent to match content, which may be a single
// *VNode, a []*VNode, or nil/empty (clearing hostParent). This is the
// §4.3 "render(content, host)" operation.
func (r *Renderer) Render(content any, hostParent HostNode) {
	next := normalizeContent(content)
	prev := r.bindings[hostParent]

	result := r.diffChildren(hostParent, prev, next)
	r.bindings[hostParent] = result
}

// Realize creates a detached host fragment from a single virtual node with
// no diffing against any prior state — the §4.3 "realize(node)" operation.
func (r *Renderer) Realize(n *VNode) HostNode {
	return r.create(n)
}

func normalizeContent(content any) []*VNode {
	switch v := content.(type) {
	case nil:
		return nil
	case *VNode:
		if v == nil {
			return nil
		}
		return []*VNode{v}
	case []*VNode:
		return v
	default:
		return nil
	}
}

// diffChildren implements the §4.3 keyed-diff algorithm: old children are
// first split into a by-key pool and an unkeyed pool; each new child
// either claims its matching keyed entry (only if the tag also still
// matches — edge case (c)), claims the next compatible entry from the
// unkeyed pool, or is created fresh. Matched hosts are then updated in
// place, repositioned into the new order via InsertBefore, and whatever
// old hosts nothing claimed are removed.
func (r *Renderer) diffChildren(parent HostNode, prev []instance, next []*VNode) []instance {
	oldByKey := make(map[string]instance, len(prev))
	var oldUnkeyed []instance
	for _, inst := range prev {
		if k := inst.vnode.Key(); k != "" {
			oldByKey[k] = inst
		} else {
			oldUnkeyed = append(oldUnkeyed, inst)
		}
	}

	matched := make([]instance, len(next))
	usedHosts := make(map[HostNode]bool, len(prev))

	for i, nv := range next {
		if key := nv.Key(); key != "" {
			if old, ok := oldByKey[key]; ok && sameNodeType(old.vnode, nv) {
				matched[i] = instance{vnode: nv, host: old.host}
				usedHosts[old.host] = true
				delete(oldByKey, key)
			} else {
				matched[i] = instance{vnode: nv}
			}
			continue
		}
		matched[i] = instance{vnode: nv}
		for j, cand := range oldUnkeyed {
			if cand.host == nil || usedHosts[cand.host] {
				continue
			}
			if sameNodeType(cand.vnode, nv) {
				matched[i] = instance{vnode: nv, host: cand.host}
				usedHosts[cand.host] = true
				oldUnkeyed[j].host = nil // consumed
				break
			}
		}
	}

	for i := range matched {
		if matched[i].host == nil {
			matched[i].host = r.create(matched[i].vnode)
		} else {
			r.update(matched[i].host, oldVNodeFor(prev, matched[i].host), matched[i].vnode)
		}
	}

	for i := len(matched) - 1; i >= 0; i-- {
		var before HostNode
		if i+1 < len(matched) {
			before = matched[i+1].host
		}
		if usedHosts[matched[i].host] {
			// A reused host is still under parent at its old position:
			// take it out so InsertBefore moves it instead of adding a copy.
			r.host.RemoveChild(parent, matched[i].host)
		}
		r.host.InsertBefore(parent, matched[i].host, before)
	}

	for _, inst := range oldByKey {
		r.host.RemoveChild(parent, inst.host)
	}
	for _, inst := range oldUnkeyed {
		if inst.host != nil && !usedHosts[inst.host] {
			r.host.RemoveChild(parent, inst.host)
		}
	}

	for _, inst := range matched {
		r.publishRef(inst.vnode, inst.host)
	}

	return matched
}

func oldVNodeFor(prev []instance, host HostNode) *VNode {
	for _, inst := range prev {
		if inst.host == host {
			return inst.vnode
		}
	}
	return nil
}

// sameNodeType reports whether two vnodes are diffable in place: same
// Kind, and for elements the same Tag. A keyed element whose tag changes
// is therefore treated as a fresh element, never moved — edge case (c).
func sameNodeType(a, b *VNode) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindElement {
		return a.Tag == b.Tag
	}
	return true
}

func (r *Renderer) create(n *VNode) HostNode {
	if n.Kind == KindText {
		return r.host.CreateText(n.Text)
	}
	hn := r.host.CreateElement(n.Tag)
	for name, val := range n.Attrs {
		if isMetaAttr(name) {
			continue
		}
		r.host.ApplyAttr(hn, name, nil, val)
	}
	childResult := r.diffChildren(hn, nil, n.Children)
	r.bindings[hn] = childResult
	return hn
}

// update diffs an existing HostNode from old to new in place: for Text,
// replace content only if changed; for Element, diff attrs then recurse
// on children. Rendering an identical object reference (old == new,
// pointer-equal) skips children recursion entirely — edge case (b).
func (r *Renderer) update(hn HostNode, old, next *VNode) {
	if old == next {
		return
	}
	if next.Kind == KindText {
		if old.Kind != KindText || old.Text != next.Text {
			r.host.SetText(hn, next.Text)
		}
		return
	}

	diffAttrs(r.host, hn, old.Attrs, next.Attrs)

	prevChildren := r.bindings[hn]
	r.bindings[hn] = r.diffChildren(hn, prevChildren, next.Children)
}

func (r *Renderer) publishRef(n *VNode, hn HostNode) {
	if name := n.Ref(); name != "" {
		r.refs[name] = hn
	}
}

func isMetaAttr(name string) bool {
	return name == "key" || name == "ref"
}
