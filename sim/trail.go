package sim

// Trail is the time-ordered point history a ship draws behind itself while
// the trail input is held. It is both a visual ribbon and, for other
// players, a collision hazard. Oldest points are evicted FIFO once the cap
// is reached; deactivating the input or crashing truncates it to empty.
type Trail struct {
	points []Vec3
	max    int
}

// NewTrail creates an empty trail capped at max points
func NewTrail(max int) *Trail {
	if max < 2 {
		max = 2
	}
	return &Trail{max: max}
}

// Push appends a point, evicting the oldest when full
func (t *Trail) Push(p Vec3) {
	if len(t.points) >= t.max {
		copy(t.points, t.points[1:])
		t.points = t.points[:len(t.points)-1]
	}
	t.points = append(t.points, p)
}

// Clear truncates the trail to empty, keeping capacity
func (t *Trail) Clear() {
	t.points = t.points[:0]
}

// Len returns the number of recorded points
func (t *Trail) Len() int {
	return len(t.points)
}

// Segments returns the number of consecutive point pairs
func (t *Trail) Segments() int {
	if len(t.points) < 2 {
		return 0
	}
	return len(t.points) - 1
}

// Segment returns the i-th consecutive point pair
func (t *Trail) Segment(i int) (Vec3, Vec3) {
	return t.points[i], t.points[i+1]
}

// Points returns the recorded points, oldest first. The slice aliases the
// trail's storage; callers must not mutate it.
func (t *Trail) Points() []Vec3 {
	return t.points
}
