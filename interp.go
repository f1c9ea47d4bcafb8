package trajectory

import "math"

// Scalar reconstruction kernels. Each kernel reconstructs one group on the
// segment [ipoint, ipoint+1] at intra-segment time deltatime in [0, d],
// where d is the deltatime channel of waypoint ipoint+1, and writes the
// group's channels into out (a full row in the internal layout).

func (t *Trajectory) interpPrevious(g Group, ipoint int, deltatime Real, out []Real) {
	dof := t.spec.DOF()
	offset := ipoint*dof + g.Offset
	if (ipoint+1)*dof < len(t.data) {
		// snap to the next point when the sample sits on it
		if f := t.deltaInvTime[ipoint+1] * deltatime; f > 1-epsilon {
			offset += dof
		}
	}
	copy(out[g.Offset:g.Offset+g.DOF], t.data[offset:offset+g.DOF])
}

func (t *Trajectory) interpNext(g Group, ipoint int, deltatime Real, out []Real) {
	dof := t.spec.DOF()
	if (ipoint+1)*dof < len(t.data) {
		ipoint++
	}
	offset := ipoint*dof + g.Offset
	if deltatime <= epsilon && ipoint > 0 {
		// snap to the previous point when the sample sits on it
		offset -= dof
	}
	copy(out[g.Offset:g.Offset+g.DOF], t.data[offset:offset+g.DOF])
}

func (t *Trajectory) interpMax(g Group, ipoint int, deltatime Real, out []Real) {
	dof := t.spec.DOF()
	offset := ipoint*dof + g.Offset
	for i := 0; i < g.DOF; i++ {
		out[g.Offset+i] = math.Max(t.data[offset+i], t.data[dof+offset+i])
	}
}

// interpLinear reconstructs a linear group. With a resolved derivative the
// segment follows x0 + dt*v1 (the derivative channel of the far endpoint
// drives the whole segment). Without one but with a resolved integral, the
// group reads the segment slope of its integral. Otherwise it blends the two
// endpoints in time; the blend can be wrong for circular joints.
func (t *Trajectory) interpLinear(g Group, ipoint int, deltatime Real, out []Real) {
	dof := t.spec.DOF()
	offset := ipoint * dof
	derivOffset := t.derivOffsets[g.Offset]
	integOffset := t.integOffsets[g.Offset]
	switch {
	case derivOffset >= 0:
		for i := 0; i < g.DOF; i++ {
			deriv0 := t.data[dof+offset+derivOffset+i]
			out[g.Offset+i] = t.data[offset+g.Offset+i] + deltatime*deriv0
		}
	case integOffset >= 0:
		idelta := t.deltaInvTime[ipoint+1]
		for i := 0; i < g.DOF; i++ {
			integ0 := t.data[offset+integOffset+i]
			integ1 := t.data[dof+offset+integOffset+i]
			out[g.Offset+i] = (integ1 - integ0) * idelta
		}
	default:
		f := t.deltaInvTime[ipoint+1] * deltatime
		for i := 0; i < g.DOF; i++ {
			out[g.Offset+i] = t.data[offset+g.Offset+i]*(1-f) + f*t.data[dof+offset+g.Offset+i]
		}
	}
}

// interpQuadratic reconstructs a quadratic group from its endpoint values and
// either the derivative group at both endpoints or the integral group.
func (t *Trajectory) interpQuadratic(g Group, ipoint int, deltatime Real, out []Real) {
	dof := t.spec.DOF()
	offset := ipoint * dof
	if deltatime <= epsilon {
		copy(out[g.Offset:g.Offset+g.DOF], t.data[offset+g.Offset:offset+g.Offset+g.DOF])
		return
	}
	if derivOffset := t.derivOffsets[g.Offset]; derivOffset >= 0 {
		for i := 0; i < g.DOF; i++ {
			// coeff*t^2 + deriv0*t + pos0
			deriv0 := t.data[offset+derivOffset+i]
			deriv1 := t.data[dof+offset+derivOffset+i]
			coeff := 0.5 * t.deltaInvTime[ipoint+1] * (deriv1 - deriv0)
			out[g.Offset+i] = t.data[offset+g.Offset+i] + deltatime*(deriv0+deltatime*coeff)
		}
		return
	}
	idelta := t.deltaInvTime[ipoint+1]
	idelta2 := idelta * idelta
	integOffset := t.integOffsets[g.Offset]
	for i := 0; i < g.DOF; i++ {
		// c2*t**2 + c1*t + v0 with dt the segment duration and
		// c1*dt = 6*(i1-i0)/dt - 4*v0 - 2*v1
		integ0 := t.data[offset+integOffset+i]
		integ1 := t.data[dof+offset+integOffset+i]
		value0 := t.data[offset+g.Offset+i]
		value1 := t.data[dof+offset+g.Offset+i]
		c1TimesDelta := 6*(integ1-integ0)*idelta - 4*value0 - 2*value1
		c1 := c1TimesDelta * idelta
		c2 := (value1 - value0 - c1TimesDelta) * idelta2
		out[g.Offset+i] = value0 + deltatime*(c1+deltatime*c2)
	}
}

// interpCubic reconstructs a cubic group: Hermite form from the derivative
// group, or the closed form from the first and second integral groups.
func (t *Trajectory) interpCubic(g Group, ipoint int, deltatime Real, out []Real) error {
	dof := t.spec.DOF()
	offset := ipoint * dof
	if deltatime <= epsilon {
		copy(out[g.Offset:g.Offset+g.DOF], t.data[offset+g.Offset:offset+g.Offset+g.DOF])
		return nil
	}
	derivOffset := t.derivOffsets[g.Offset]
	integOffset := t.integOffsets[g.Offset]
	iiOffset := t.iiOffsets[g.Offset]
	switch {
	case derivOffset >= 0:
		// c3 = (v1*dt + v0*dt - 2*(x1 - x0))/dt**3
		// c2 = (3*(x1 - x0) - 2*v0*dt - v1*dt)/dt**2
		idelta := t.deltaInvTime[ipoint+1]
		idelta2 := idelta * idelta
		idelta3 := idelta2 * idelta
		for i := 0; i < g.DOF; i++ {
			deriv0 := t.data[offset+derivOffset+i]
			deriv1 := t.data[dof+offset+derivOffset+i]
			px := t.data[dof+offset+g.Offset+i] - t.data[offset+g.Offset+i]
			c3 := (deriv1+deriv0)*idelta2 - 2*px*idelta3
			c2 := 3*px*idelta2 - (2*deriv0+deriv1)*idelta
			out[g.Offset+i] = t.data[offset+g.Offset+i] + deltatime*(deriv0+deltatime*(c2+deltatime*c3))
		}
	case integOffset >= 0 && iiOffset >= 0:
		// boundary conditions p(0), p(dt), ip(dt), iip(dt):
		// c3 = (10*(x1-x0)*dt**2 - 60*(i1-i0)*dt + 120*(ii1-ii0-i0*dt))/dt**5
		// c2 = ((18*x0-12*x1)*dt**2 + 84*(i1-i0)*dt - 180*(ii1-ii0-i0*dt))/dt**4
		// c1 = ((3*x1-9*x0)*dt**2 - 24*(i1-i0)*dt + 60*(ii1-ii0-i0*dt))/dt**3
		idelta := t.deltaInvTime[ipoint+1]
		idelta2 := idelta * idelta
		idelta3 := idelta2 * idelta
		idelta4 := idelta3 * idelta
		idelta5 := idelta4 * idelta
		segDelta := t.data[dof+offset+t.timeOffset]
		for i := 0; i < g.DOF; i++ {
			integ0 := t.data[offset+integOffset+i]
			idiff := t.data[dof+offset+integOffset+i] - integ0
			temp := t.data[dof+offset+iiOffset+i] - t.data[offset+iiOffset+i] - integ0*segDelta
			x0 := t.data[offset+g.Offset+i]
			x1 := t.data[dof+offset+g.Offset+i]
			c3 := 10*(x1-x0)*idelta3 - 60*idiff*idelta4 + 120*temp*idelta5
			c2 := (18*x0-12*x1)*idelta2 + 84*idiff*idelta3 - 180*temp*idelta4
			c1 := (-9*x0+3*x1)*idelta - 24*idiff*idelta2 + 60*temp*idelta3
			out[g.Offset+i] = x0 + deltatime*(c1+deltatime*(c2+deltatime*c3))
		}
	default:
		return invalidArgf("cubic interpolation for group '%s' does not have all data", g.Name)
	}
	return nil
}

// interpQuartic reconstructs a quartic group from derivative plus second
// derivative, or derivative plus integral.
func (t *Trajectory) interpQuartic(g Group, ipoint int, deltatime Real, out []Real) error {
	dof := t.spec.DOF()
	offset := ipoint * dof
	if deltatime <= epsilon {
		copy(out[g.Offset:g.Offset+g.DOF], t.data[offset+g.Offset:offset+g.Offset+g.DOF])
		return nil
	}
	derivOffset := t.derivOffsets[g.Offset]
	ddOffset := t.ddOffsets[g.Offset]
	integOffset := t.integOffsets[g.Offset]
	switch {
	case derivOffset >= 0 && ddOffset >= 0:
		// boundary conditions p(0), dp(0), dp(dt), ddp(0), ddp(dt):
		// c4 = (-2*(v1-v0) + (a0+a1)*dt)/(4*dt**3)
		// c3 = ((v1-v0)*3 - (2*a0+a1)*dt)/(3*dt**2)
		idelta := t.deltaInvTime[ipoint+1]
		idelta2 := idelta * idelta
		idelta3 := idelta2 * idelta
		for i := 0; i < g.DOF; i++ {
			deriv0 := t.data[offset+derivOffset+i]
			deriv1 := t.data[dof+offset+derivOffset+i]
			dd0 := t.data[offset+ddOffset+i]
			dd1 := t.data[dof+offset+ddOffset+i]
			c4 := -0.5*(deriv1-deriv0)*idelta3 + (dd0+dd1)*idelta2*0.25
			c3 := (deriv1-deriv0)*idelta2 - (2*dd0+dd1)*idelta/3.0
			out[g.Offset+i] = t.data[offset+g.Offset+i] + deltatime*(deriv0+deltatime*(0.5*dd0+deltatime*(c3+deltatime*c4)))
		}
	case derivOffset >= 0 && integOffset >= 0:
		// boundary conditions p(0), p(dt), dp(0), dp(dt), ip(dt):
		// c4 = 2.5*(v1-v0)/dt**3 - 15*(x0+x1)/dt**4 + 30*(i1-i0)/dt**5
		// c3 = (6*v0-4*v1)/dt**2 + (32*x0+28*x1)/dt**3 - 60*(i1-i0)/dt**4
		// c2 = (-4.5*v0+1.5*v1)/dt - (18*x0+12*x1)/dt**2 + 30*(i1-i0)/dt**3
		idelta := t.deltaInvTime[ipoint+1]
		idelta2 := idelta * idelta
		idelta3 := idelta2 * idelta
		idelta4 := idelta3 * idelta
		idelta5 := idelta4 * idelta
		for i := 0; i < g.DOF; i++ {
			deriv0 := t.data[offset+derivOffset+i]
			deriv1 := t.data[dof+offset+derivOffset+i]
			pos0 := t.data[offset+g.Offset+i]
			pos1 := t.data[dof+offset+g.Offset+i]
			idiff := t.data[dof+offset+integOffset+i] - t.data[offset+integOffset+i]
			c4 := 2.5*(deriv1-deriv0)*idelta3 - 15*(pos0+pos1)*idelta4 + 30*idiff*idelta5
			c3 := (6*deriv0-4*deriv1)*idelta2 + (32*pos0+28*pos1)*idelta3 - 60*idiff*idelta4
			c2 := (-4.5*deriv0+1.5*deriv1)*idelta - (18*pos0+12*pos1)*idelta2 + 30*idiff*idelta3
			out[g.Offset+i] = pos0 + deltatime*(deriv0+deltatime*(c2+deltatime*(c3+deltatime*c4)))
		}
	default:
		return invalidArgf("quartic interpolation for group '%s' does not have all data", g.Name)
	}
	return nil
}

// interpQuintic reconstructs a quintic group from first and second
// derivatives at both endpoints.
func (t *Trajectory) interpQuintic(g Group, ipoint int, deltatime Real, out []Real) error {
	dof := t.spec.DOF()
	offset := ipoint * dof
	if deltatime <= epsilon {
		copy(out[g.Offset:g.Offset+g.DOF], t.data[offset+g.Offset:offset+g.Offset+g.DOF])
		return nil
	}
	derivOffset := t.derivOffsets[g.Offset]
	ddOffset := t.ddOffsets[g.Offset]
	if derivOffset < 0 || ddOffset < 0 {
		return invalidArgf("quintic interpolation for group '%s' does not have all data", g.Name)
	}
	// c5 = (-a0/2 + a1/2)/dt**3 - 3*(v0+v1)/dt**4 + 6*(p1-p0)/dt**5
	// c4 = (1.5*a0 - a1)/dt**2 + (8*v0+7*v1)/dt**3 - 15*(p1-p0)/dt**4
	// c3 = (-1.5*a0 + a1/2)/dt + (-6*v0-4*v1)/dt**2 + 10*(p1-p0)/dt**3
	idelta := t.deltaInvTime[ipoint+1]
	idelta2 := idelta * idelta
	idelta3 := idelta2 * idelta
	idelta4 := idelta2 * idelta2
	idelta5 := idelta4 * idelta
	for i := 0; i < g.DOF; i++ {
		p0 := t.data[offset+g.Offset+i]
		px := t.data[dof+offset+g.Offset+i] - p0
		deriv0 := t.data[offset+derivOffset+i]
		deriv1 := t.data[dof+offset+derivOffset+i]
		dd0 := t.data[offset+ddOffset+i]
		dd1 := t.data[dof+offset+ddOffset+i]
		c5 := (-0.5*dd0+dd1*0.5)*idelta3 - (3*deriv0+3*deriv1)*idelta4 + px*6*idelta5
		c4 := (1.5*dd0-dd1)*idelta2 + (8*deriv0+7*deriv1)*idelta3 - px*15*idelta4
		c3 := (-1.5*dd0+dd1*0.5)*idelta + (-6*deriv0-4*deriv1)*idelta2 + px*10*idelta3
		out[g.Offset+i] = p0 + deltatime*(deriv0+deltatime*(0.5*dd0+deltatime*(c3+deltatime*(c4+deltatime*c5))))
	}
	return nil
}

// interpSextic reconstructs a sextic group from first, second and third
// derivatives at both endpoints.
func (t *Trajectory) interpSextic(g Group, ipoint int, deltatime Real, out []Real) error {
	dof := t.spec.DOF()
	offset := ipoint * dof
	if deltatime <= epsilon {
		copy(out[g.Offset:g.Offset+g.DOF], t.data[offset+g.Offset:offset+g.Offset+g.DOF])
		return nil
	}
	derivOffset := t.derivOffsets[g.Offset]
	ddOffset := t.ddOffsets[g.Offset]
	dddOffset := t.dddOffsets[g.Offset]
	if derivOffset < 0 || ddOffset < 0 || dddOffset < 0 {
		return invalidArgf("sextic interpolation for group '%s' does not have all data", g.Name)
	}
	// c6 = -(a0+a1)/(2*dt**4) + (j1-j0)/(12*dt**3) + (v1-v0)/dt**5
	// c5 = (8*a0/5 + 7*a1/5)/dt**3 + (3*j0/10 - j1/5)/dt**2 + 3*(v0-v1)/dt**4
	// c4 = (-3*a0/2 - a1)/dt**2 + (-3*j0/8 + j1/8)/dt + 5*(v1-v0)/(2*dt**3)
	idelta := t.deltaInvTime[ipoint+1]
	idelta2 := idelta * idelta
	idelta3 := idelta2 * idelta
	idelta4 := idelta2 * idelta2
	idelta5 := idelta4 * idelta
	for i := 0; i < g.DOF; i++ {
		p0 := t.data[offset+g.Offset+i]
		deriv0 := t.data[offset+derivOffset+i]
		deriv1 := t.data[dof+offset+derivOffset+i]
		dd0 := t.data[offset+ddOffset+i]
		dd1 := t.data[dof+offset+ddOffset+i]
		ddd0 := t.data[offset+dddOffset+i]
		ddd1 := t.data[dof+offset+dddOffset+i]
		c6 := (-dd0-dd1)*0.5*idelta4 + (-ddd0+ddd1)/12.0*idelta3 + (-deriv0+deriv1)*idelta5
		c5 := (1.6*dd0+1.4*dd1)*idelta3 + (0.3*ddd0-ddd1*0.2)*idelta2 + (3*deriv0-3*deriv1)*idelta4
		c4 := (-1.5*dd0-dd1)*idelta2 + (-0.375*ddd0+ddd1*0.125)*idelta + (-2.5*deriv0+2.5*deriv1)*idelta3
		out[g.Offset+i] = p0 + deltatime*(deriv0+deltatime*(0.5*dd0+deltatime*(ddd0/6.0+deltatime*(c4+deltatime*(c5+deltatime*c6)))))
	}
	return nil
}

// validateLinearSegment recomputes the far endpoint of a linear segment from
// the derivative channel and fails when the error exceeds the linear
// tolerance. Errors within the tolerance of 2*pi are permitted to
// accommodate circular joints.
func (t *Trajectory) validateLinearSegment(g Group, ipoint int, deltatime Real) error {
	dof := t.spec.DOF()
	offset := ipoint * dof
	derivOffset := t.derivOffsets[g.Offset]
	if derivOffset < 0 {
		return nil
	}
	for i := 0; i < g.DOF; i++ {
		deriv0 := t.data[dof+offset+derivOffset+i]
		expected := t.data[offset+g.Offset+i] + deltatime*deriv0
		err := math.Abs(t.data[dof+offset+g.Offset+i] - expected)
		if math.Abs(err-2*math.Pi) > epsLinear && err > epsLinear {
			return invalidStatef("trajectory segment for group %s interpolation %s points %d-%d dof %d is invalid", g.Name, g.Interpolation, ipoint, ipoint+1, i)
		}
	}
	return nil
}

// validateQuadraticSegment recomputes the far endpoint of a quadratic
// segment from the derivative channels and fails when the error exceeds
// 1e-4; errors within 1e-5 of 2*pi are permitted for circular joints.
func (t *Trajectory) validateQuadraticSegment(g Group, ipoint int, deltatime Real) error {
	if deltatime <= epsilon {
		return nil
	}
	dof := t.spec.DOF()
	offset := ipoint * dof
	derivOffset := t.derivOffsets[g.Offset]
	if derivOffset < 0 {
		// integral-driven segments are underconstrained; nothing to verify
		return nil
	}
	for i := 0; i < g.DOF; i++ {
		deriv0 := t.data[offset+derivOffset+i]
		coeff := 0.5 * t.deltaInvTime[ipoint+1] * (t.data[dof+offset+derivOffset+i] - deriv0)
		expected := t.data[offset+g.Offset+i] + deltatime*(deriv0+deltatime*coeff)
		err := math.Abs(t.data[dof+offset+g.Offset+i] - expected)
		if math.Abs(err-2*math.Pi) > 1e-5 && err > 1e-4 {
			return invalidStatef("trajectory segment for group %s interpolation %s time %f points %d-%d dof %d is invalid", g.Name, g.Interpolation, deltatime, ipoint, ipoint+1, i)
		}
	}
	return nil
}
