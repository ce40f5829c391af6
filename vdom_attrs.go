package dockwerk

import (
	"reflect"
	"strings"
)

// attrMode classifies how a single attribute name is applied to a
// HostNode, mirroring the "attrs.key and attrs.ref are meta; everything
// else is property, attribute, event, or dataset" table from §4.3.
type attrMode int

const (
	modeAttribute attrMode = iota
	modeProperty
	modeEvent
	modeDataset
)

// knownProperties lists the attribute names applied as host-node
// properties (copied straight onto the realized node, no further
// rendering side effect) rather than as generic string attributes — the
// cell-box analogue of DOM IDL properties like .value or .checked.
var knownProperties = map[string]bool{
	"value":      true,
	"checked":    true,
	"focusable":  true,
	"style":      true,
	"width":      true,
	"height":     true,
}

func classifyAttr(name string) attrMode {
	switch {
	case strings.HasPrefix(name, "on") && len(name) > 2:
		return modeEvent
	case strings.HasPrefix(name, "data-"):
		return modeDataset
	case knownProperties[name]:
		return modeProperty
	default:
		return modeAttribute
	}
}

// diffAttrs applies only the attributes that changed between old and next,
// in a single pass over next (added/changed) plus a pass over old to catch
// removals. Mode classification itself has no bearing on whether a value
// changed — modeEvent/modeDataset/modeProperty/modeAttribute all go through
// the same ApplyAttr call, the Host implementation decides how each mode is
// realized (e.g. registering vs. deregistering a handler for modeEvent).
func diffAttrs(host Host, node HostNode, old, next map[string]any) {
	for name, newVal := range next {
		if isMetaAttr(name) {
			continue
		}
		oldVal, existed := old[name]
		if !existed || !attrEqual(oldVal, newVal) {
			host.ApplyAttr(node, name, oldVal, newVal)
		}
	}
	for name, oldVal := range old {
		if isMetaAttr(name) {
			continue
		}
		if _, stillPresent := next[name]; !stillPresent {
			host.ApplyAttr(node, name, oldVal, nil)
		}
	}
}

// attrEqual compares attribute values for change detection. Event handler
// values of type func(any) are compared by code pointer, since Go forbids
// == on func values; two closures made from the same function literal
// therefore compare equal even when their captured variables differ. Any
// other value, including funcs of other types, goes through
// reflect.DeepEqual, which reports two non-nil funcs as unequal.
func attrEqual(a, b any) bool {
	af, aok := a.(func(any))
	bf, bok := b.(func(any))
	if aok || bok {
		if aok != bok {
			return false
		}
		return funcPointer(Slot(af)) == funcPointer(Slot(bf))
	}
	return reflect.DeepEqual(a, b)
}
