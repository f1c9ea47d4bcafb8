package trajectory

import (
	"log"
	"math"
)

// invokeKernel dispatches one group's bound kernel for the segment
// [ipoint, ipoint+1] at intra-segment time deltatime, writing into out.
func (t *Trajectory) invokeKernel(gi, ipoint int, deltatime Real, out []Real) error {
	g := t.spec.Groups[gi]
	switch fn := t.groupFns[gi]; fn.kernel {
	case kernelNone:
		// unresolved label: leave the zero fill
		return nil
	case kernelPrevious:
		t.interpPrevious(g, ipoint, deltatime, out)
	case kernelNext:
		t.interpNext(g, ipoint, deltatime, out)
	case kernelMax:
		t.interpMax(g, ipoint, deltatime, out)
	case kernelLinear:
		t.interpLinear(g, ipoint, deltatime, out)
	case kernelLinearIk:
		t.interpLinearIk(g, ipoint, deltatime, out, fn.ikType)
	case kernelQuadratic:
		t.interpQuadratic(g, ipoint, deltatime, out)
	case kernelQuadraticIk:
		t.interpQuadraticIk(g, ipoint, deltatime, out, fn.ikType)
	case kernelCubic:
		return t.interpCubic(g, ipoint, deltatime, out)
	case kernelCubicIk:
		return t.interpCubicIk(g, ipoint, deltatime, out, fn.ikType)
	case kernelQuartic:
		return t.interpQuartic(g, ipoint, deltatime, out)
	case kernelQuintic:
		return t.interpQuintic(g, ipoint, deltatime, out)
	case kernelSextic:
		return t.interpSextic(g, ipoint, deltatime, out)
	}
	return nil
}

// verifySampling checks once per mutation cycle that the trajectory can be
// sampled: every non-time group should have a bound kernel (missing labels
// only warn), and no group may require neighboring derivative/integral data
// that is unavailable on both chains. When segment validation is enabled it
// additionally recomputes every segment endpoint with the per-label
// validators. Assumes computeInternal has run.
func (t *Trajectory) verifySampling() error {
	if t.samplingVerified {
		return nil
	}
	for i := range t.spec.Groups {
		g := t.spec.Groups[i]
		if g.Offset != t.timeOffset && t.groupFns[i].kernel == kernelNone {
			log.Printf("unknown interpolation method '%s' for group '%s'", g.Interpolation, g.Name)
		}
	}
	for _, g := range t.spec.Groups {
		for j := 0; j < g.DOF; j++ {
			if t.derivOffsets[g.Offset+j] < -2 && t.integOffsets[g.Offset+j] < -2 {
				return invalidArgf("%s interpolation group '%s' needs derivatives/integrals for sampling", g.Interpolation, g.Name)
			}
		}
	}
	if t.validateSegments {
		for ipoint := 0; ipoint+1 < len(t.accumTime); ipoint++ {
			deltatime := t.accumTime[ipoint+1] - t.accumTime[ipoint]
			for i := range t.spec.Groups {
				g := t.spec.Groups[i]
				var err error
				switch t.groupFns[i].validator {
				case validateLinear:
					err = t.validateLinearSegment(g, ipoint, deltatime)
				case validateQuadratic:
					err = t.validateQuadraticSegment(g, ipoint, deltatime)
				}
				if err != nil {
					return err
				}
			}
		}
	}
	t.samplingVerified = true
	return nil
}

// prepareSampling runs the precondition checks shared by the sampling APIs.
func (t *Trajectory) prepareSampling() error {
	if !t.initialized {
		return invalidArgf("trajectory is not initialized")
	}
	if t.timeOffset < 0 {
		return invalidArgf("specification has no deltatime group")
	}
	if err := t.computeInternal(); err != nil {
		return err
	}
	if len(t.data) < t.spec.DOF() {
		return invalidArgf("trajectory needs at least one point to sample from")
	}
	return t.verifySampling()
}

// Sample reconstructs the waypoint row at the given time. Times at or past
// the duration return the last row verbatim; otherwise the deltatime slot of
// the output holds the time relative to the preceding waypoint, so a sample
// can be re-inserted as a waypoint without re-basing time.
func (t *Trajectory) Sample(time Real) ([]Real, error) {
	if time < -epsilon {
		return nil, invalidArgf("sample time %g is negative", time)
	}
	if err := t.prepareSampling(); err != nil {
		return nil, err
	}
	out := make([]Real, t.spec.DOF())
	if err := t.sampleInto(out, math.Max(time, 0)); err != nil {
		return nil, err
	}
	return out, nil
}

// SampleInSpec samples at the given time and translates the row into the
// given layout. An equal layout returns the internal form directly.
func (t *Trajectory) SampleInSpec(time Real, spec *ConfigurationSpec) ([]Real, error) {
	row, err := t.Sample(time)
	if err != nil {
		return nil, err
	}
	if t.spec.Equal(spec) {
		return row, nil
	}
	out := make([]Real, spec.DOF())
	ConvertData(out, spec, row, &t.spec, 1, true)
	return out, nil
}

// SamplePoints samples each of the given times and returns the rows
// back-to-back.
func (t *Trajectory) SamplePoints(times []Real) ([]Real, error) {
	if err := t.prepareSampling(); err != nil {
		return nil, err
	}
	dof := t.spec.DOF()
	out := make([]Real, len(times)*dof)
	for i, time := range times {
		if time < -epsilon {
			return nil, invalidArgf("sample time %g is negative", time)
		}
		if err := t.sampleInto(out[i*dof:(i+1)*dof], math.Max(time, 0)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SamplePointsInSpec is SamplePoints translated into the given layout.
func (t *Trajectory) SamplePointsInSpec(times []Real, spec *ConfigurationSpec) ([]Real, error) {
	rows, err := t.SamplePoints(times)
	if err != nil {
		return nil, err
	}
	return t.convertRows(rows, spec), nil
}

// SamplePointsSameDeltaTime samples the whole duration at a fixed step,
// matching the semantics of a half-open [0, duration) range. With ensureLast
// set, a verbatim copy of the terminal waypoint is appended when the last
// step would not land on it.
func (t *Trajectory) SamplePointsSameDeltaTime(deltatime Real, ensureLast bool) ([]Real, error) {
	duration, err := t.Duration()
	if err != nil {
		return nil, err
	}
	return t.SampleRangeSameDeltaTime(deltatime, 0, duration, ensureLast)
}

// SamplePointsSameDeltaTimeInSpec is SamplePointsSameDeltaTime translated
// into the given layout.
func (t *Trajectory) SamplePointsSameDeltaTimeInSpec(deltatime Real, ensureLast bool, spec *ConfigurationSpec) ([]Real, error) {
	rows, err := t.SamplePointsSameDeltaTime(deltatime, ensureLast)
	if err != nil {
		return nil, err
	}
	return t.convertRows(rows, spec), nil
}

// SampleRangeSameDeltaTime samples [startTime, stopTime) at a fixed step
// using an ascending cursor over the time index instead of re-searching per
// sample.
func (t *Trajectory) SampleRangeSameDeltaTime(deltatime, startTime, stopTime Real, ensureLast bool) ([]Real, error) {
	if deltatime <= 0 {
		return nil, invalidArgf("sampling deltatime %g must be positive", deltatime)
	}
	if startTime < 0 {
		return nil, invalidArgf("start time needs to be non-negative")
	}
	if stopTime < startTime {
		return nil, invalidArgf("stop time needs to be at least start time")
	}
	if err := t.prepareSampling(); err != nil {
		return nil, err
	}
	dof := t.spec.DOF()
	trajDuration := t.accumTime[len(t.accumTime)-1]

	duration := stopTime - startTime
	// ceil to behave like an open-right half-range
	numPoints := int(math.Ceil(duration / deltatime))
	if ensureLast && Real(numPoints-1)*deltatime+epsilon < duration {
		numPoints++
	}
	out := make([]Real, dof*numPoints)

	cursor := 0
	n := numPoints
	if ensureLast {
		n = numPoints - 1
	}
	for i := 0; i < n; i++ {
		row := out[i*dof : (i+1)*dof]
		sampleTime := startTime + Real(i)*deltatime
		if sampleTime >= trajDuration {
			copy(row, t.data[len(t.data)-dof:])
			continue
		}
		// time only increases, so the search can resume from the cursor
		cursor += lowerBound(t.accumTime[cursor:], sampleTime)
		if cursor == 0 {
			copy(row, t.data[:dof])
			row[t.timeOffset] = sampleTime
			continue
		}
		if err := t.sampleSegment(row, cursor, sampleTime); err != nil {
			return nil, err
		}
	}
	if ensureLast && numPoints > 0 {
		copy(out[(numPoints-1)*dof:], t.data[len(t.data)-dof:])
	}
	return out, nil
}

// SampleRangeSameDeltaTimeInSpec is SampleRangeSameDeltaTime translated into
// the given layout.
func (t *Trajectory) SampleRangeSameDeltaTimeInSpec(deltatime, startTime, stopTime Real, ensureLast bool, spec *ConfigurationSpec) ([]Real, error) {
	rows, err := t.SampleRangeSameDeltaTime(deltatime, startTime, stopTime, ensureLast)
	if err != nil {
		return nil, err
	}
	return t.convertRows(rows, spec), nil
}

// sampleInto writes the reconstruction at time into row (length DOF),
// assuming prepareSampling has run.
func (t *Trajectory) sampleInto(row []Real, time Real) error {
	dof := t.spec.DOF()
	if time >= t.accumTime[len(t.accumTime)-1] {
		copy(row, t.data[len(t.data)-dof:])
		return nil
	}
	index := lowerBound(t.accumTime, time)
	if index == 0 {
		copy(row, t.data[:dof])
		row[t.timeOffset] = time
		return nil
	}
	return t.sampleSegment(row, index, time)
}

// sampleSegment reconstructs at an absolute time inside segment
// [index-1, index], zero-filling channels with no resolved kernel.
func (t *Trajectory) sampleSegment(row []Real, index int, time Real) error {
	dof := t.spec.DOF()
	deltatime := time - t.accumTime[index-1]
	waypointDelta := t.data[dof*index+t.timeOffset]
	// floating-point error can push deltatime outside [0, waypointDelta]
	if deltatime < 0 {
		deltatime = 0
	} else if deltatime > waypointDelta {
		deltatime = waypointDelta
	}
	for i := range row {
		row[i] = 0
	}
	for gi := range t.groupFns {
		if err := t.invokeKernel(gi, index-1, deltatime, row); err != nil {
			return err
		}
	}
	// segment-relative time, so samples can be re-inserted as waypoints
	row[t.timeOffset] = deltatime
	return nil
}

// convertRows translates back-to-back internal rows into the given layout.
func (t *Trajectory) convertRows(rows []Real, spec *ConfigurationSpec) []Real {
	if t.spec.Equal(spec) {
		return rows
	}
	dof := t.spec.DOF()
	n := len(rows) / dof
	out := make([]Real, n*spec.DOF())
	ConvertData(out, spec, rows, &t.spec, n, true)
	return out
}
