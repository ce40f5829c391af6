package dockwerk

// FocusTracker keeps a most-recently-focused ordering over a set of
// widgets it was told to watch, and emits CurrentChanged whenever the
// front of that ordering changes. It does not itself decide what counts
// as "focus" — its owner calls Add/Remove to register focusable widgets
// and Focused to report focus changes (Dock does so for docked widgets,
// reporting ActivateWidget as a focus change).
type FocusTracker struct {
	widgets []*Widget
	current *Widget

	CurrentChanged *Signal // emits *Widget (new current, nil if none)
}

// NewFocusTracker creates an empty tracker registered with registry.
func NewFocusTracker(owner any, registry *signalRegistry) *FocusTracker {
	return &FocusTracker{CurrentChanged: NewSignal(owner, registry)}
}

// Add registers w as focusable. It does not change current.
func (f *FocusTracker) Add(w *Widget) {
	for _, existing := range f.widgets {
		if existing == w {
			return
		}
	}
	f.widgets = append(f.widgets, w)
}

// Remove drops w from the tracked set. If w was current, the next most
// recently focused remaining widget (if any) becomes current.
func (f *FocusTracker) Remove(w *Widget) {
	for i, existing := range f.widgets {
		if existing == w {
			f.widgets = append(f.widgets[:i], f.widgets[i+1:]...)
			break
		}
	}
	if f.current == w {
		var next *Widget
		if len(f.widgets) > 0 {
			next = f.widgets[0]
		}
		f.setCurrent(next, nil)
	}
}

// Focused reports that the host just focused w, moving it to the front
// of the MRU ordering. w must already have been registered with Add.
func (f *FocusTracker) Focused(w *Widget, logger Logger) {
	idx := -1
	for i, existing := range f.widgets {
		if existing == w {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	f.widgets = append(f.widgets[:idx], f.widgets[idx+1:]...)
	f.widgets = append([]*Widget{w}, f.widgets...)
	f.setCurrent(w, logger)
}

// Current returns the most recently focused tracked widget, or nil.
func (f *FocusTracker) Current() *Widget { return f.current }

func (f *FocusTracker) setCurrent(w *Widget, logger Logger) {
	if f.current == w {
		return
	}
	f.current = w
	if f.CurrentChanged != nil {
		f.CurrentChanged.Emit(w, logger)
	}
}
