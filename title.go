package dockwerk

// Title is the value object a widget publishes for whatever presents it
// as a labelled panel — a dock tab, a window caption. It carries no
// behaviour of its own, and nothing else in this package reads it.
type Title struct {
	Label    string
	Icon     string
	Caption  string
	Closable bool
	Changed  *Signal // emits the *Title whenever a field setter changes its field
}

// NewTitle creates a Title with Changed wired to registry so a dock panel
// or tab strip can Connect to be notified of label/icon edits.
func NewTitle(owner any, registry *signalRegistry) *Title {
	return &Title{Changed: NewSignal(owner, registry)}
}

func (t *Title) emit(logger Logger) {
	if t.Changed != nil {
		t.Changed.Emit(t, logger)
	}
}

func (t *Title) SetLabel(label string, logger Logger) {
	if t.Label == label {
		return
	}
	t.Label = label
	t.emit(logger)
}

func (t *Title) SetIcon(icon string, logger Logger) {
	if t.Icon == icon {
		return
	}
	t.Icon = icon
	t.emit(logger)
}

func (t *Title) SetCaption(caption string, logger Logger) {
	if t.Caption == caption {
		return
	}
	t.Caption = caption
	t.emit(logger)
}

func (t *Title) SetClosable(closable bool, logger Logger) {
	if t.Closable == closable {
		return
	}
	t.Closable = closable
	t.emit(logger)
}
