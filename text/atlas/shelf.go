package atlas

// shelfAllocator implements shelf-based rectangle packing.
//
// Rectangles are placed left-to-right on horizontal shelves. A shelf is as
// tall as the tallest item placed on it; when an item does not fit on any
// shelf a new one is started below the last.
type shelfAllocator struct {
	width   int
	height  int
	padding int
	shelves []shelf

	usedArea int
}

type shelf struct {
	y      int // top of the shelf
	height int // tallest item so far
	x      int // next free x
}

func newShelfAllocator(width, height, padding int) *shelfAllocator {
	return &shelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// allocate finds space for a w×h rectangle. It returns -1, -1, false if
// none is left.
func (a *shelfAllocator) allocate(w, h int) (x, y int, ok bool) {
	paddedW := w + a.padding
	paddedH := h + a.padding

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.x+paddedW > a.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow, and only into free space.
			if i != len(a.shelves)-1 || s.y+paddedH > a.height {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += paddedW
		a.usedArea += w * h
		return x, y, true
	}

	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height + a.padding
	}
	if newY+paddedH > a.height || paddedW > a.width {
		return -1, -1, false
	}

	a.shelves = append(a.shelves, shelf{y: newY, height: h, x: paddedW})
	a.usedArea += w * h
	return 0, newY, true
}

// fits reports whether a w×h rectangle could ever fit in an empty allocator.
func (a *shelfAllocator) fits(w, h int) bool {
	return w+a.padding <= a.width && h+a.padding <= a.height
}

func (a *shelfAllocator) reset() {
	a.shelves = a.shelves[:0]
	a.usedArea = 0
}

// utilization returns the fraction of the area covered by allocations.
func (a *shelfAllocator) utilization() float64 {
	if a.width <= 0 || a.height <= 0 {
		return 0
	}
	return float64(a.usedArea) / float64(a.width*a.height)
}
