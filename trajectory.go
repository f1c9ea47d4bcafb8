package trajectory

// Trajectory stores multi-channel time-stamped waypoints and reconstructs
// continuous values at any time within its duration. Construct with New,
// initialize with Init, then insert waypoint rows.
//
// Waypoint data is a contiguous row-major buffer of N x DOF scalars. If the
// spec contains a "deltatime" group, its channel holds the time to traverse
// from the previous waypoint (the starting time for waypoint 0). The prefix
// sums and reciprocals of the deltatime channel are derived lazily and
// invalidated by every mutation.
type Trajectory struct {
	spec        ConfigurationSpec
	data        []Real
	description string
	readables   []readableEntry

	timeOffset int

	// per-group bound kernels and per-channel resolved aux offsets,
	// rebound on every spec change
	groupFns     []groupFn
	derivOffsets []int
	ddOffsets    []int
	dddOffsets   []int
	integOffsets []int
	iiOffsets    []int

	// lazily derived time index
	accumTime    []Real
	deltaInvTime []Real

	initialized      bool
	changed          bool
	samplingVerified bool
	validateSegments bool
}

// New returns an empty, uninitialized trajectory.
func New() *Trajectory {
	return &Trajectory{timeOffset: -1}
}

// Init initializes the trajectory with a channel layout and clears all
// waypoint data. Groups are sorted into canonical order and the per-group
// reconstruction kernels are bound. Re-initializing with an equal spec skips
// the rebinding but still clears the waypoints.
func (t *Trajectory) Init(spec ConfigurationSpec) error {
	return t.InitWithCapacity(spec, 0, false)
}

// InitWithCapacity is Init with room reserved for nWaypoints rows. When
// reserveTimeIndex is set the derived time arrays are preallocated too;
// leave it unset if the sampling APIs will not be used.
func (t *Trajectory) InitWithCapacity(spec ConfigurationSpec, nWaypoints int, reserveTimeIndex bool) error {
	if !t.initialized || !t.spec.Equal(&spec) {
		t.initialized = false
		t.spec = spec.clone()
		t.spec.sortCanonical()
		t.timeOffset = -1
		for _, g := range t.spec.Groups {
			if g.Name == "deltatime" {
				t.timeOffset = g.Offset
			}
		}
		t.initGroupFunctions()
	}
	t.data = t.data[:0]
	t.accumTime = t.accumTime[:0]
	t.deltaInvTime = t.deltaInvTime[:0]
	t.changed = true
	t.samplingVerified = false
	if n := nWaypoints * t.spec.DOF(); n > cap(t.data) {
		t.data = make([]Real, 0, n)
	}
	if reserveTimeIndex && nWaypoints > cap(t.accumTime) {
		t.accumTime = make([]Real, 0, nWaypoints)
		t.deltaInvTime = make([]Real, 0, nWaypoints)
	}
	t.initialized = true
	return nil
}

// Spec returns the trajectory's channel layout. The returned spec is the
// internal one; callers must not mutate it.
func (t *Trajectory) Spec() *ConfigurationSpec { return &t.spec }

// Description returns the free-form trajectory description.
func (t *Trajectory) Description() string { return t.description }

// SetDescription sets the free-form trajectory description.
func (t *Trajectory) SetDescription(d string) { t.description = d }

// NumWaypoints returns the number of waypoint rows.
func (t *Trajectory) NumWaypoints() int {
	if dof := t.spec.DOF(); dof > 0 {
		return len(t.data) / dof
	}
	return 0
}

// ClearWaypoints removes all waypoints, keeping the spec.
func (t *Trajectory) ClearWaypoints() {
	if t.initialized && len(t.data) > 0 {
		t.data = t.data[:0]
		t.changed = true
		t.samplingVerified = false
	}
}

// Insert inserts waypoint rows at the given row index. len(data) must be a
// multiple of the spec DOF and index at most NumWaypoints. With overwrite
// set and index inside the buffer, leading rows of data overwrite existing
// rows and any remainder is appended as new rows after them.
func (t *Trajectory) Insert(index int, data []Real, overwrite bool) error {
	if !t.initialized {
		return invalidArgf("trajectory is not initialized")
	}
	if len(data) == 0 {
		return nil
	}
	dof := t.spec.DOF()
	if dof <= 0 {
		return invalidArgf("specification has no channels")
	}
	if len(data)%dof != 0 {
		return invalidArgf("data size %d is not a multiple of dof %d", len(data), dof)
	}
	if index*dof > len(t.data) {
		return invalidArgf("insert index %d out of range (have %d waypoints)", index, len(t.data)/dof)
	}
	if overwrite && index*dof < len(t.data) {
		n := copy(t.data[index*dof:], data)
		if n < len(data) {
			t.data = append(t.data, data[n:]...)
		}
	} else {
		t.data = append(t.data, make([]Real, len(data))...)
		copy(t.data[index*dof+len(data):], t.data[index*dof:])
		copy(t.data[index*dof:], data)
	}
	t.changed = true
	t.samplingVerified = false
	return nil
}

// InsertWithSpec inserts waypoint rows given in a foreign layout, translating
// each row into the internal spec. Overwritten rows keep their unmatched
// channels; purely inserted rows have unmatched channels filled with the
// category defaults.
func (t *Trajectory) InsertWithSpec(index int, data []Real, spec ConfigurationSpec, overwrite bool) error {
	if !t.initialized {
		return invalidArgf("trajectory is not initialized")
	}
	if len(data) == 0 {
		return nil
	}
	srcDOF := spec.DOF()
	if srcDOF <= 0 {
		return invalidArgf("source specification has no channels")
	}
	if len(data)%srcDOF != 0 {
		return invalidArgf("data size %d is not a multiple of source dof %d", len(data), srcDOF)
	}
	dof := t.spec.DOF()
	if index*dof > len(t.data) {
		return invalidArgf("insert index %d out of range (have %d waypoints)", index, len(t.data)/dof)
	}
	if t.spec.Equal(&spec) {
		return t.Insert(index, data, overwrite)
	}
	rows := len(data) / srcDOF
	consumed := 0
	if overwrite && index*dof < len(t.data) {
		n := len(t.data)/dof - index
		if n > rows {
			n = rows
		}
		ConvertData(t.data[index*dof:], &t.spec, data, &spec, n, false)
		consumed = n
		index += n
	}
	if consumed < rows {
		n := rows - consumed
		converted := make([]Real, n*dof)
		ConvertData(converted, &t.spec, data[consumed*srcDOF:], &spec, n, true)
		t.data = append(t.data, make([]Real, len(converted))...)
		copy(t.data[index*dof+len(converted):], t.data[index*dof:])
		copy(t.data[index*dof:], converted)
	}
	t.changed = true
	t.samplingVerified = false
	return nil
}

// Remove erases waypoint rows [start, end).
func (t *Trajectory) Remove(start, end int) error {
	if !t.initialized {
		return invalidArgf("trajectory is not initialized")
	}
	if start == end {
		return nil
	}
	dof := t.spec.DOF()
	if start > end || end*dof > len(t.data) {
		return invalidArgf("remove range [%d, %d) out of range (have %d waypoints)", start, end, len(t.data)/dof)
	}
	t.data = append(t.data[:start*dof], t.data[end*dof:]...)
	t.changed = true
	t.samplingVerified = false
	return nil
}

// Waypoint copies row i.
func (t *Trajectory) Waypoint(i int) ([]Real, error) {
	return t.Waypoints(i, i+1)
}

// Waypoints copies rows [start, end).
func (t *Trajectory) Waypoints(start, end int) ([]Real, error) {
	if !t.initialized {
		return nil, invalidArgf("trajectory is not initialized")
	}
	dof := t.spec.DOF()
	if start > end || end*dof > len(t.data) {
		return nil, invalidArgf("waypoint range [%d, %d) out of range (have %d waypoints)", start, end, len(t.data)/dof)
	}
	out := make([]Real, (end-start)*dof)
	copy(out, t.data[start*dof:end*dof])
	return out, nil
}

// WaypointsInSpec copies rows [start, end) translated into the given layout,
// filling unmatched channels with category defaults.
func (t *Trajectory) WaypointsInSpec(start, end int, spec *ConfigurationSpec) ([]Real, error) {
	if !t.initialized {
		return nil, invalidArgf("trajectory is not initialized")
	}
	dof := t.spec.DOF()
	if start > end || end*dof > len(t.data) {
		return nil, invalidArgf("waypoint range [%d, %d) out of range (have %d waypoints)", start, end, len(t.data)/dof)
	}
	out := make([]Real, (end-start)*spec.DOF())
	if start < end {
		ConvertData(out, spec, t.data[start*dof:], &t.spec, end-start, true)
	}
	return out, nil
}

// Duration returns the total trajectory time, 0 when empty.
func (t *Trajectory) Duration() (Real, error) {
	if !t.initialized {
		return 0, invalidArgf("trajectory is not initialized")
	}
	if err := t.computeInternal(); err != nil {
		return 0, err
	}
	if len(t.accumTime) == 0 {
		return 0, nil
	}
	return t.accumTime[len(t.accumTime)-1], nil
}

// FirstWaypointIndexAfterTime returns 0 for times before the first waypoint,
// NumWaypoints for times at or past the last, otherwise the smallest index i
// with accumulated time >= the given time.
func (t *Trajectory) FirstWaypointIndexAfterTime(time Real) (int, error) {
	if !t.initialized {
		return 0, invalidArgf("trajectory is not initialized")
	}
	if t.timeOffset < 0 {
		return 0, invalidArgf("specification has no deltatime group")
	}
	if err := t.computeInternal(); err != nil {
		return 0, err
	}
	n := len(t.accumTime)
	if n == 0 || time < t.accumTime[0] {
		return 0, nil
	}
	if time >= t.accumTime[n-1] {
		return t.NumWaypoints(), nil
	}
	return lowerBound(t.accumTime, time), nil
}

// Clone returns a deep copy of the trajectory: spec, waypoint data,
// description and readable annotations.
func (t *Trajectory) Clone() *Trajectory {
	c := New()
	if t.initialized {
		c.Init(t.spec)
		c.data = append(c.data[:0], t.data...)
		c.changed = true
	}
	c.description = t.description
	c.readables = make([]readableEntry, len(t.readables))
	for i, e := range t.readables {
		c.readables[i] = readableEntry{id: e.id, readable: e.readable.cloneReadable()}
	}
	return c
}

// Swap exchanges the full state of two trajectories.
func (t *Trajectory) Swap(other *Trajectory) {
	*t, *other = *other, *t
}

// SetSegmentValidation enables per-segment numeric validation during
// sampling verification: each enabled validator recomputes the segment
// endpoint from the derived coefficients and fails the verification if the
// error exceeds the label tolerance.
func (t *Trajectory) SetSegmentValidation(enabled bool) {
	t.validateSegments = enabled
	t.samplingVerified = false
}

// computeInternal rebuilds the derived time arrays after a mutation.
func (t *Trajectory) computeInternal() error {
	if !t.changed {
		return nil
	}
	if t.timeOffset < 0 {
		t.accumTime = t.accumTime[:0]
		t.deltaInvTime = t.deltaInvTime[:0]
	} else {
		n := t.NumWaypoints()
		if cap(t.accumTime) < n || cap(t.deltaInvTime) < n {
			t.accumTime = make([]Real, n)
			t.deltaInvTime = make([]Real, n)
		} else {
			t.accumTime = t.accumTime[:n]
			t.deltaInvTime = t.deltaInvTime[:n]
		}
		if n == 0 {
			t.changed = false
			t.samplingVerified = false
			return nil
		}
		dof := t.spec.DOF()
		t.accumTime[0] = t.data[t.timeOffset]
		t.deltaInvTime[0] = 1 / t.data[t.timeOffset]
		for i := 1; i < n; i++ {
			deltatime := t.data[i*dof+t.timeOffset]
			if deltatime < 0 {
				return invalidStatef("deltatime (%.15e) is < 0 at point %d/%d", deltatime, i, n)
			}
			t.deltaInvTime[i] = 1 / deltatime
			t.accumTime[i] = t.accumTime[i-1] + deltatime
		}
	}
	t.changed = false
	t.samplingVerified = false
	return nil
}

// lowerBound returns the smallest index i in a with a[i] >= x, or len(a).
func lowerBound(a []Real, x Real) int {
	lo, hi := 0, len(a)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if a[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
