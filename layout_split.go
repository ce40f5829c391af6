package dockwerk

import "sync"

// Orientation is the major axis a SplitLayout arranges its items along.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// SplitLayout arranges its parent's children along one axis, separated by
// fixed-size drag handles, using the box-sizing algorithm from §4.5:
//  1. each item is saturated at its SizeHint.Preferred, clamped to
//     [Min, Max];
//  2. if the sum exceeds the available space, the deficit is removed from
//     items proportional to Stretch, never below Min;
//  3. if the sum is under the available space, the surplus is distributed
//     to items proportional to Stretch;
//  4. when every Stretch is zero, steps 2 and 3 hand out (or take back)
//     one cell per item per round, round-robin, among items not yet at
//     Max (or Min); space left once every item is pinned stays as
//     trailing slack. There is no "expansive" item flag;
//  5. a handle drag renormalizes the two adjacent items' Stretch so a
//     later resize preserves the user's split rather than reverting to
//     the original proportions.
type SplitLayout struct {
	baseLayout
	Orientation Orientation
	HandleSize  int

	dragMu   sync.Mutex
	dragging bool
}

// NewSplitLayout creates a split layout with a 1-cell handle and installs
// it on w.
func NewSplitLayout(w *Widget, orientation Orientation) *SplitLayout {
	l := &SplitLayout{Orientation: orientation, HandleSize: 1}
	l.attach(l, w)
	return l
}

func (l *SplitLayout) axisExtent(r Rect) int {
	if l.Orientation == Horizontal {
		return r.Width
	}
	return r.Height
}

func (l *SplitLayout) crossExtent(r Rect) int {
	if l.Orientation == Horizontal {
		return r.Height
	}
	return r.Width
}

// SizeHint sums minimums along the major axis and takes the max along the
// cross axis, per the usual box-layout convention.
func (l *SplitLayout) SizeHint() SizeHint {
	l.syncItems()
	var total SizeHint
	for _, it := range l.items {
		pref, min, _ := l.majorHint(it)
		if l.Orientation == Horizontal {
			total.MinWidth += min
			total.PreferredWidth += pref
			total.MinHeight = maxInt(total.MinHeight, it.Hint.MinHeight+it.Padding.Vertical())
			total.PreferredHeight = maxInt(total.PreferredHeight, it.Hint.PreferredHeight+it.Padding.Vertical())
		} else {
			total.MinHeight += min
			total.PreferredHeight += pref
			total.MinWidth = maxInt(total.MinWidth, it.Hint.MinWidth+it.Padding.Horizontal())
			total.PreferredWidth = maxInt(total.PreferredWidth, it.Hint.PreferredWidth+it.Padding.Horizontal())
		}
	}
	handles := maxInt(0, len(l.items)-1) * l.HandleSize
	if l.Orientation == Horizontal {
		total.MinWidth += handles
		total.PreferredWidth += handles
	} else {
		total.MinHeight += handles
		total.PreferredHeight += handles
	}
	return total
}

func (l *SplitLayout) WidgetRemoved(child *Widget) {
	l.removeItem(child)
}

// Update runs the five-step box-sizing algorithm against rect's major-axis
// extent and applies the resulting Rect to each child via Widget.Resize.
func (l *SplitLayout) Update(rect Rect) {
	l.syncItems()
	n := len(l.items)
	if n == 0 {
		return
	}

	handles := maxInt(0, n-1) * l.HandleSize
	available := l.axisExtent(rect) - handles

	sizes := make([]int, n)
	mins := make([]int, n)
	maxs := make([]int, n)
	stretch := make([]int, n)
	sum := 0
	for i, it := range l.items {
		pref, min, max := l.majorHint(it)
		sizes[i] = clampInt(pref, min, max)
		mins[i] = min
		maxs[i] = max
		stretch[i] = it.Stretch
		sum += sizes[i]
	}

	if sum > available {
		shrinkProportional(sizes, mins, stretch, sum-available)
	} else if sum < available {
		growProportional(sizes, maxs, stretch, available-sum)
	}

	pos := 0
	if l.Orientation == Horizontal {
		pos = rect.X
	} else {
		pos = rect.Y
	}
	cross := l.crossExtent(rect)
	crossOrigin := rect.Y
	if l.Orientation == Horizontal {
		crossOrigin = rect.Y
	} else {
		crossOrigin = rect.X
	}

	for i, it := range l.items {
		var itemRect Rect
		if l.Orientation == Horizontal {
			itemRect = Rect{X: pos, Y: crossOrigin, Width: sizes[i], Height: cross}
		} else {
			itemRect = Rect{X: crossOrigin, Y: pos, Width: cross, Height: sizes[i]}
		}
		it.Rect = itemRect
		it.Widget.SetRect(itemRect)
		pos += sizes[i] + l.HandleSize
	}
}

// majorHint returns an item's preferred/min/max extent along the split's
// major axis, inflating preferred and min by the item widget's own
// Padding so a padded widget's declared content size still fits after the
// parent box is sized.
func (l *SplitLayout) majorHint(it *LayoutItem) (pref, min, max int) {
	var pad int
	if l.Orientation == Horizontal {
		pad = it.Padding.Horizontal()
		return it.Hint.PreferredWidth + pad, it.Hint.MinWidth + pad, maxOrUnbounded(it.Hint.MaxWidth)
	}
	pad = it.Padding.Vertical()
	return it.Hint.PreferredHeight + pad, it.Hint.MinHeight + pad, maxOrUnbounded(it.Hint.MaxHeight)
}

func maxOrUnbounded(v int) int {
	if v <= 0 {
		return 1 << 30
	}
	return v
}

// shrinkProportional removes deficit total cells from sizes, proportional
// to stretch, never pushing an item below its min (step 2).
func shrinkProportional(sizes, mins, stretch []int, deficit int) {
	totalStretch := 0
	for _, s := range stretch {
		totalStretch += s
	}
	for deficit > 0 {
		progress := false
		for i := range sizes {
			if deficit <= 0 {
				break
			}
			if sizes[i] <= mins[i] {
				continue
			}
			share := 1
			if totalStretch > 0 {
				share = maxInt(1, stretch[i]*deficit/maxInt(1, totalStretch))
			}
			cut := minInt(share, sizes[i]-mins[i])
			cut = minInt(cut, deficit)
			if cut <= 0 {
				continue
			}
			sizes[i] -= cut
			deficit -= cut
			progress = true
		}
		if !progress {
			break
		}
	}
}

// growProportional distributes surplus total cells among sizes,
// proportional to stretch, never exceeding an item's max. Every item
// below its max gets at least one cell per round, so with every stretch
// zero the surplus is shared out one cell at a time, round-robin; once
// every item is pinned at max the rest is left unassigned (step 3/4).
func growProportional(sizes, maxs, stretch []int, surplus int) {
	totalStretch := 0
	for _, s := range stretch {
		totalStretch += s
	}
	for surplus > 0 {
		progress := false
		for i := range sizes {
			if surplus <= 0 {
				break
			}
			if sizes[i] >= maxs[i] {
				continue
			}
			share := 1
			if totalStretch > 0 {
				share = maxInt(1, stretch[i]*surplus/maxInt(1, totalStretch))
			}
			add := minInt(share, maxs[i]-sizes[i])
			add = minInt(add, surplus)
			if add <= 0 {
				continue
			}
			sizes[i] += add
			surplus -= add
			progress = true
		}
		if !progress {
			break
		}
	}
}

// BeginDrag acquires the exclusive right to renormalize this layout's
// stretch factors from a handle drag. It returns a Release func; the
// caller must invoke it exactly once. A second BeginDrag before Release
// returns nil, meaning a handle drag is already in progress.
func (l *SplitLayout) BeginDrag() func() {
	l.dragMu.Lock()
	defer l.dragMu.Unlock()
	if l.dragging {
		return nil
	}
	l.dragging = true
	return func() {
		l.dragMu.Lock()
		l.dragging = false
		l.dragMu.Unlock()
	}
}

// ApplyHandleDrag moves the boundary between items at index and index+1
// by delta cells (positive grows the first, shrinks the second), applies
// the two new Rects, then renormalizes both items' Stretch from their new
// sizes so a subsequent parent resize preserves this split (step 5).
func (l *SplitLayout) ApplyHandleDrag(index, delta int) {
	if index < 0 || index+1 >= len(l.items) {
		return
	}
	a, b := l.items[index], l.items[index+1]

	_, aMin, aMax := l.majorHint(a)
	_, bMin, bMax := l.majorHint(b)

	newA := clampInt(a.Rect.Width, aMin, aMax)
	newB := clampInt(b.Rect.Width, bMin, bMax)
	if l.Orientation == Vertical {
		newA, newB = clampInt(a.Rect.Height, aMin, aMax), clampInt(b.Rect.Height, bMin, bMax)
	}

	moved := clampInt(delta, -(newA - aMin), newB-bMin)
	newA += moved
	newB -= moved

	if l.Orientation == Horizontal {
		a.Rect.Width = newA
		b.Rect.X = a.Rect.X + newA + l.HandleSize
		b.Rect.Width = newB
	} else {
		a.Rect.Height = newA
		b.Rect.Y = a.Rect.Y + newA + l.HandleSize
		b.Rect.Height = newB
	}
	a.Widget.SetRect(a.Rect)
	b.Widget.SetRect(b.Rect)

	total := newA + newB
	if total <= 0 {
		return
	}
	a.Stretch = maxInt(1, newA*100/total)
	b.Stretch = maxInt(1, newB*100/total)
}
