package dockwerk

import "sync"

// Slot is a function attached to a Signal. It receives the signal's
// argument payload; the concrete element type is up to the emitter.
type Slot func(arg any)

// binding is one (receiver, slot, thisArg) triple recorded against a
// Signal. A nil Slot is a tombstone: Disconnect marks bindings nil in
// place instead of slicing them out so an in-flight Emit (iterating a
// snapshot) safely skips them.
type binding struct {
	receiver any
	slot     Slot
	thisArg  any
}

// Signal is a named notification channel owned by a sender object. Per
// §4.2 / §9, bindings live in a flat list on the Signal itself; a process-
// wide inverse index (signalRegistry) tracks which signals mention which
// sender/receiver so disposal can sever every binding touching an object
// without the owner needing a reference back.
type Signal struct {
	sender    any
	bindings  []*binding
	registry  *signalRegistry
}

// NewSignal creates a signal owned by sender and registered with registry.
// registry may be nil, in which case DisconnectSender/DisconnectReceiver/
// ClearData cannot find this signal (it can still be used directly).
func NewSignal(sender any, registry *signalRegistry) *Signal {
	s := &Signal{sender: sender, registry: registry}
	if registry != nil {
		registry.track(s)
	}
	return s
}

// Connect adds a binding if (receiver, slot, thisArg) is not already
// present on this signal and reports whether it was added (SIG-P1:
// idempotent on the triple).
func (s *Signal) Connect(receiver any, slot Slot, thisArg ...any) bool {
	var arg any
	if len(thisArg) > 0 {
		arg = thisArg[0]
	}
	for _, b := range s.bindings {
		if b == nil || b.slot == nil {
			continue
		}
		if b.receiver == receiver && funcPointer(b.slot) == funcPointer(slot) && b.thisArg == arg {
			return false
		}
	}
	s.bindings = append(s.bindings, &binding{receiver: receiver, slot: slot, thisArg: arg})
	if s.registry != nil {
		s.registry.noteReceiver(s, receiver)
	}
	return true
}

// Disconnect removes one binding matching (receiver, slot, thisArg) by
// tombstoning it: a pending Emit's snapshot still holds the *binding
// pointer but sees slot==nil and skips it.
func (s *Signal) Disconnect(receiver any, slot Slot, thisArg ...any) bool {
	var arg any
	if len(thisArg) > 0 {
		arg = thisArg[0]
	}
	for _, b := range s.bindings {
		if b == nil || b.slot == nil {
			continue
		}
		if b.receiver == receiver && funcPointer(b.slot) == funcPointer(slot) && b.thisArg == arg {
			b.slot = nil
			return true
		}
	}
	return false
}

// Emit invokes every live binding with arg, iterating a snapshot of the
// binding list taken at the start of the call. Bindings added during this
// Emit are not part of the snapshot and so do not fire this round;
// bindings removed mid-iteration are tombstoned and skipped as they are
// reached, even if not yet visited. A panicking slot is recovered and
// logged — it must never abort delivery to the remaining slots.
func (s *Signal) Emit(arg any, logger Logger) {
	snapshot := make([]*binding, len(s.bindings))
	copy(snapshot, s.bindings)

	for _, b := range snapshot {
		if b == nil || b.slot == nil {
			continue
		}
		invokeSlot(b, arg, logger)
	}
}

func invokeSlot(b *binding, arg any, logger Logger) {
	defer func() {
		if r := recover(); r != nil {
			if logger != nil {
				logger.Logf("signal", "error", "panic in slot: %v", r)
			}
		}
	}()
	b.slot(arg)
}

// disconnectAllReceiver removes every binding on this signal that names
// obj as its receiver. Sender-side removal of the whole signal is handled
// by the registry (a sender may own many signals).
func (s *Signal) disconnectAllReceiver(obj any) {
	for _, b := range s.bindings {
		if b != nil && b.receiver == obj {
			b.slot = nil
		}
	}
}

// signalRegistry is the process-wide inverse index from §9: flat maps
// keyed by sender and by receiver, purged explicitly via ClearData rather
// than relying on GC finalizers for notification correctness.
type signalRegistry struct {
	mu        sync.Mutex
	bySender  map[any][]*Signal
	byReceiver map[any][]*Signal
}

// NewSignalRegistry creates an empty registry. One registry is normally
// shared by an entire widget tree / application instance.
func NewSignalRegistry() *signalRegistry {
	return &signalRegistry{
		bySender:   make(map[any][]*Signal),
		byReceiver: make(map[any][]*Signal),
	}
}

func (r *signalRegistry) track(s *Signal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySender[s.sender] = append(r.bySender[s.sender], s)
}

func (r *signalRegistry) noteReceiver(s *Signal, receiver any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.byReceiver[receiver]
	for _, existing := range list {
		if existing == s {
			return
		}
	}
	r.byReceiver[receiver] = append(list, s)
}

// DisconnectSender severs every binding on every signal owned by sender.
func (r *signalRegistry) DisconnectSender(sender any) {
	r.mu.Lock()
	signals := r.bySender[sender]
	delete(r.bySender, sender)
	r.mu.Unlock()

	for _, s := range signals {
		s.bindings = nil
	}
}

// DisconnectReceiver severs every binding, on any signal, that names
// receiver as its receiver.
func (r *signalRegistry) DisconnectReceiver(receiver any) {
	r.mu.Lock()
	signals := r.byReceiver[receiver]
	delete(r.byReceiver, receiver)
	r.mu.Unlock()

	for _, s := range signals {
		s.disconnectAllReceiver(receiver)
	}
}

// ClearData combines DisconnectSender and DisconnectReceiver for obj,
// matching Signal.clearData from §4.2. It is the call a widget's dispose()
// makes to sever every binding that touches it in either role.
func (r *signalRegistry) ClearData(obj any) {
	r.DisconnectSender(obj)
	r.DisconnectReceiver(obj)
}
