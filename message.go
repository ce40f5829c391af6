package dockwerk

import "fmt"

// Handler is anything that can receive a Message from the loop. The loop
// never introspects a handler beyond this single method.
type Handler interface {
	ProcessMessage(Message)
}

// Message is a value carrying a string Type and, for conflatable subtypes,
// enough payload for Conflate to decide whether two queued messages can be
// merged. Conflation is modelled as a capability on the concrete message
// rather than a loop-level special case, per the "conflation as a
// polymorphic hook" design note: a message type implements Conflatable to
// opt in, everything else is delivered as-is.
type Message interface {
	// MessageType returns the string discriminator used for conflation
	// matching and for hook/handler switch statements.
	MessageType() string
}

// Conflatable is implemented by message types that may be merged with an
// already-queued message of the same type for the same handler.
type Conflatable interface {
	Message

	// IsConflatable reports whether this particular instance may still be
	// merged away. A message can implement Conflatable yet return false for
	// a specific instance; the message types in this package (Resize,
	// LayoutRequest and the simple control messages) always return true.
	IsConflatable() bool

	// Conflate is asked on the message already sitting in the queue,
	// passed the newly posted message. Returning true means the new
	// message has been absorbed (its data merged into the receiver, if
	// it carries payload) and should be dropped instead of enqueued.
	Conflate(next Message) bool
}

// simpleMessage is the base for the small, stateless control messages the
// loop and layout protocol use internally (before-attach, after-attach,
// update-request, ...). It conflates with itself: two posts of the same
// type for the same handler collapse into one, since there is no payload
// to lose.
type simpleMessage struct {
	typ string
}

func NewMessage(typ string) Message { return simpleMessage{typ: typ} }

func (m simpleMessage) MessageType() string    { return m.typ }
func (m simpleMessage) IsConflatable() bool    { return true }
func (m simpleMessage) Conflate(Message) bool  { return true }
func (m simpleMessage) String() string         { return fmt.Sprintf("Message(%s)", m.typ) }

// Well-known control message types used by the widget lifecycle (C4) and
// layout protocol (C5). Concrete widgets are free to define their own
// Message implementations for application-specific events; the loop does
// not care which ones are used.
const (
	TypeBeforeAttach   = "before-attach"
	TypeAfterAttach    = "after-attach"
	TypeBeforeDetach   = "before-detach"
	TypeAfterDetach    = "after-detach"
	TypeBeforeShow     = "before-show"
	TypeAfterShow      = "after-show"
	TypeBeforeHide     = "before-hide"
	TypeAfterHide      = "after-hide"
	TypeUpdateRequest  = "update-request"
	TypeFitRequest     = "fit-request"
	TypeLayoutRequest  = "layout-request"
	TypeChildAdded     = "child-added"
	TypeChildRemoved   = "child-removed"
	TypeChildShown     = "child-shown"
	TypeChildHidden    = "child-hidden"
	TypeResize         = "resize"
)

// Resize carries the new content size for a widget. Width/Height of -1
// signal "rely on the host node's own dimensions" per §4.4. It conflates
// with any other queued Resize for the same handler, keeping the most
// recent dimensions — the "stateful subclass" case from §3: the merge
// must preserve payload, so Conflate overwrites the receiver's own fields
// with the incoming ones before reporting success.
type Resize struct {
	Width, Height int
}

func (Resize) MessageType() string    { return TypeResize }
func (Resize) IsConflatable() bool    { return true }
func (r *Resize) Conflate(next Message) bool {
	other, ok := next.(*Resize)
	if !ok {
		return false
	}
	r.Width, r.Height = other.Width, other.Height
	return true
}

// ChildMessage reports a structural change to a parent's child list:
// child-added, child-removed, child-shown, child-hidden.
type ChildMessage struct {
	Type  string
	Child *Widget
}

func (c ChildMessage) MessageType() string { return c.Type }

// LayoutRequest is posted by a widget to its parent layout to ask for a
// geometry recompute. It is conflatable per (handler, type) and coalesces
// per frame, per §4.4.
type LayoutRequest struct{}

func (LayoutRequest) MessageType() string   { return TypeLayoutRequest }
func (LayoutRequest) IsConflatable() bool   { return true }
func (LayoutRequest) Conflate(Message) bool { return true }
