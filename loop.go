package dockwerk

import (
	"fmt"
	"sync"
)

// hookNode is one link in a handler's hook chain. Hooks are kept as a
// linked list rather than a slice so that RemoveHook is safe to call while
// a dispatch is in flight: the node is tombstoned (fn set to nil) and
// unlinked from the chain, but keeps its own next pointer, so a traversal
// already standing on it carries on and simply skips nil fns. See the
// "message hooks as composable interceptors" design note.
type hookNode struct {
	fn   Hook
	next *hookNode
}

// Hook is a pre-dispatch filter bound to a specific handler. Returning
// false vetoes the message: no later hook and no handler runs for it.
type Hook func(handler Handler, msg Message) bool

// queuedEntry is one FIFO slot. A nil Handler marks the entry canceled by
// ClearMessageData; entries are never physically removed so that indices
// stay stable while draining.
type queuedEntry struct {
	handler Handler
	message Message
}

// sentinel is pushed onto the queue once per scheduled frame. Draining
// stops after processing the first sentinel it encounters, giving strict
// round-based fairness: anything posted during a drain runs next frame.
type sentinelHandler struct{}

func (sentinelHandler) ProcessMessage(Message) {}

var frameSentinel = queuedEntry{handler: sentinelHandler{}, message: NewMessage("\x00frame-sentinel")}

func isSentinel(e queuedEntry) bool {
	_, ok := e.handler.(sentinelHandler)
	return ok
}

// Logger receives loop/signal diagnostics. It mirrors the parent-delegation
// chain the widget tree already uses for Widget.Log: framework-internal
// faults are never thrown back at the caller, they are reported here.
type Logger interface {
	Logf(source, level, format string, args ...any)
}

// NopLogger discards everything. It is the zero-value-friendly default.
type NopLogger struct{}

func (NopLogger) Logf(string, string, string, ...any) {}

// MessageLoop is the cooperative dispatcher described in §4.1. It is safe
// for use only from the goroutine that drains it (Drain/Send/Post are not
// meant to be called concurrently; §5 assumes a single-threaded cooperative
// model with one external event-pump goroutine feeding it through a
// channel, see Host/Run in host_tcell.go).
type MessageLoop struct {
	mu sync.Mutex

	queue []queuedEntry
	hooks map[Handler]*hookNode

	frameScheduled bool
	scheduleFrame  func() // host callback requesting the next frame/drain

	logger Logger
	audit  *MessageAudit
}

// NewMessageLoop creates a loop. scheduleFrame is invoked (at most once
// between drains) whenever Post appends a message and no frame is already
// pending; it is the loop's only outward dependency on a host scheduler.
// A nil scheduleFrame is legal for tests that drive DrainFrame manually.
func NewMessageLoop(scheduleFrame func()) *MessageLoop {
	return &MessageLoop{
		hooks:  make(map[Handler]*hookNode),
		logger: NopLogger{},
		scheduleFrame: func() {
			if scheduleFrame != nil {
				scheduleFrame()
			}
		},
	}
}

// SetLogger installs the sink used for recovered panics.
func (l *MessageLoop) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	l.logger = logger
}

// SetAudit attaches an optional audit trail. Nil disables it.
func (l *MessageLoop) SetAudit(a *MessageAudit) { l.audit = a }

// Send dispatches msg synchronously: installed hooks run front-to-back,
// aborting on the first false; if none abort, handler.ProcessMessage runs.
// Send never throws — panics inside a hook or the handler are recovered
// and logged, per §4.1 and §7. Send is not conflated against the queue and
// always runs strictly before any message already sitting in the queue for
// the same handler (MSG-P1): it bypasses the queue entirely.
func (l *MessageLoop) Send(handler Handler, msg Message) {
	l.dispatch(handler, msg)
	if l.audit != nil {
		l.audit.Record("send", handler, msg)
	}
}

// dispatch runs the hook chain then the handler, recovering any panic.
func (l *MessageLoop) dispatch(handler Handler, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Logf(fmt.Sprintf("%T", handler), "error", "panic dispatching %s: %v", msg.MessageType(), r)
		}
	}()

	l.mu.Lock()
	node := l.hooks[handler]
	l.mu.Unlock()

	for node != nil {
		fn := node.fn
		if fn != nil {
			if !fn(handler, msg) {
				return
			}
		}
		node = node.next
	}

	handler.ProcessMessage(msg)
}

// Post enqueues msg for delivery on the next drain. If msg is conflatable,
// the already-enqueued entries (not a moving target — entries appended by
// this very call are never considered) are scanned for one with the same
// handler, the same message type, that is itself conflatable and whose
// Conflate(msg) returns true; on a match msg is dropped (MSG-P2). A frame
// is requested after any append, per the single-outstanding-frame
// scheduling contract.
func (l *MessageLoop) Post(handler Handler, msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := msg.(Conflatable); ok && c.IsConflatable() {
		snapshot := l.queue
		for _, e := range snapshot {
			if e.handler != handler || e.message == nil {
				continue
			}
			if e.message.MessageType() != msg.MessageType() {
				continue
			}
			existing, ok := e.message.(Conflatable)
			if !ok || !existing.IsConflatable() {
				continue
			}
			if existing.Conflate(msg) {
				if l.audit != nil {
					l.audit.Record("post-conflated", handler, msg)
				}
				l.requestFrameLocked()
				return
			}
		}
	}

	l.queue = append(l.queue, queuedEntry{handler: handler, message: msg})
	if l.audit != nil {
		l.audit.Record("post", handler, msg)
	}
	l.requestFrameLocked()
}

func (l *MessageLoop) requestFrameLocked() {
	if l.frameScheduled {
		return
	}
	l.frameScheduled = true
	l.queue = append(l.queue, frameSentinel)
	l.scheduleFrame()
}

// InstallHook prepends hook to handler's chain, after first removing any
// existing identical hook — so the freshly installed hook always runs
// first (MSG-P4).
func (l *MessageLoop) InstallHook(handler Handler, hook Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.removeHookLocked(handler, hook)
	l.hooks[handler] = &hookNode{fn: hook, next: l.hooks[handler]}
}

// RemoveHook unlinks hook from handler's chain without disturbing nodes
// currently being walked by an in-flight dispatch: the node is tombstoned
// (fn set to nil), and Dispatch's traversal already skips nil fns.
func (l *MessageLoop) RemoveHook(handler Handler, hook Hook) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeHookLocked(handler, hook)
}

func (l *MessageLoop) removeHookLocked(handler Handler, hook Hook) {
	node := l.hooks[handler]
	var prev *hookNode
	for node != nil {
		if sameHook(node.fn, hook) {
			node.fn = nil
			if prev == nil {
				l.hooks[handler] = node.next
			} else {
				prev.next = node.next
			}
			return
		}
		prev = node
		node = node.next
	}
}

// sameHook compares two Hook values by identity. Go forbids comparing
// func values directly; reflect.Value.Pointer is the idiomatic workaround
// used for this exact purpose.
func sameHook(a, b Hook) bool {
	if a == nil || b == nil {
		return false
	}
	return funcPointer(a) == funcPointer(b)
}

// ClearMessageData nulls all of handler's hooks, drops it from the hook
// map, and cancels (handler=nil) any queued entries that target it. Entries
// stay in place — only their handler slot is cleared — to keep queue
// index math stable for anything mid-drain.
func (l *MessageLoop) ClearMessageData(handler Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()

	node := l.hooks[handler]
	for node != nil {
		node.fn = nil
		node = node.next
	}
	delete(l.hooks, handler)

	for i, e := range l.queue {
		if e.handler == handler {
			l.queue[i].handler = nil
			l.queue[i].message = nil
		}
	}
}

// DrainFrame processes queued entries up to and including the first
// sentinel. It is meant to be invoked by the host each time scheduleFrame's
// request is honoured (see TcellHost.Run in host_tcell.go). Entries posted while
// draining are appended to the live queue and are not visited by this
// call — they wait for the next DrainFrame, giving strict round-based
// fairness. Entries that were already queued behind the sentinel before
// this call started (a second Post to an already-scheduled frame) are
// never dropped: the unconsumed tail of the snapshot is requeued ahead of
// anything freshly posted during this drain.
func (l *MessageLoop) DrainFrame() {
	l.mu.Lock()
	queue := l.queue
	l.queue = nil
	l.frameScheduled = false
	l.mu.Unlock()

	for i, e := range queue {
		if isSentinel(e) {
			tail := queue[i+1:]
			if len(tail) > 0 {
				l.mu.Lock()
				l.queue = append(append([]queuedEntry(nil), tail...), l.queue...)
				l.requestFrameLocked()
				l.mu.Unlock()
			}
			return
		}
		if e.handler == nil || e.message == nil {
			continue // canceled by ClearMessageData
		}
		l.dispatch(e.handler, e.message)
	}
}

// Pending reports the number of live (non-canceled, non-sentinel) queued
// entries. Exposed for tests asserting conflation behaviour (MSG-P2/P3).
func (l *MessageLoop) Pending(handler Handler) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.queue {
		if e.handler == handler && e.message != nil {
			n++
		}
	}
	return n
}
