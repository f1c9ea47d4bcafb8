package trajectory

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Rotation-aware kernels for ikparam groups. Quaternions occupy the first
// four channels of the group as (w,x,y,z); 5D directions the first three.
// All kernels first run the scalar reconstruction, then overwrite the
// rotation channels; degenerate cases (null axis, zero deltatime) leave the
// scalar result untouched.

func quatAt(data []Real, offset int) quat.Number {
	return quat.Number{Real: data[offset], Imag: data[offset+1], Jmag: data[offset+2], Kmag: data[offset+3]}
}

func writeQuat(out []Real, offset int, q quat.Number) {
	out[offset] = q.Real
	out[offset+1] = q.Imag
	out[offset+2] = q.Jmag
	out[offset+3] = q.Kmag
}

// quatSlerp interpolates along the shorter great arc between two unit
// quaternions.
func quatSlerp(q0, q1 quat.Number, f Real) quat.Number {
	dot := q0.Real*q1.Real + q0.Imag*q1.Imag + q0.Jmag*q1.Jmag + q0.Kmag*q1.Kmag
	if dot < 0 {
		q1 = quat.Scale(-1, q1)
		dot = -dot
	}
	if dot > 1-epsilon {
		// nearly parallel: normalized lerp
		q := quat.Add(quat.Scale(1-f, q0), quat.Scale(f, q1))
		if n := quat.Abs(q); n > 0 {
			return quat.Scale(1/n, q)
		}
		return q0
	}
	theta := math.Acos(dot)
	s := math.Sin(theta)
	return quat.Add(quat.Scale(math.Sin((1-f)*theta)/s, q0), quat.Scale(math.Sin(f*theta)/s, q1))
}

// quatFromAxisAngle returns the rotation quaternion for the axis-angle
// vector (x,y,z) whose norm is the rotation angle.
func quatFromAxisAngle(x, y, z Real) quat.Number {
	return quat.Exp(quat.Number{Imag: 0.5 * x, Jmag: 0.5 * y, Kmag: 0.5 * z})
}

// quatRotateVec rotates the vector v by the unit quaternion q.
func quatRotateVec(q quat.Number, x, y, z Real) (Real, Real, Real) {
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: x, Jmag: y, Kmag: z}), quat.Inv(q))
	return p.Imag, p.Jmag, p.Kmag
}

// angularVelocity returns omega = 2 * qdot * q^-1 as a quaternion whose
// imaginary part is the angular velocity vector.
func angularVelocity(qdot, q quat.Number) quat.Number {
	return quat.Scale(2, quat.Mul(qdot, quat.Inv(q)))
}

// interpLinearIk overwrites the rotation channels of a linear ikparam group
// with a slerp between the segment endpoints.
func (t *Trajectory) interpLinearIk(g Group, ipoint int, deltatime Real, out []Real, ikType IkParamType) {
	t.interpLinear(g, ipoint, deltatime, out)
	if deltatime <= epsilon {
		return
	}
	dof := t.spec.DOF()
	offset := ipoint * dof
	f := t.deltaInvTime[ipoint+1] * deltatime
	switch {
	case ikType.rotationLike():
		q0 := quatAt(t.data, offset+g.Offset)
		q1 := quatAt(t.data, dof+offset+g.Offset)
		writeQuat(out, g.Offset, quatSlerp(q0, q1, f))
	case ikType.directionLike():
		d0x, d0y, d0z := t.data[offset+g.Offset], t.data[offset+g.Offset+1], t.data[offset+g.Offset+2]
		d1x, d1y, d1z := t.data[dof+offset+g.Offset], t.data[dof+offset+g.Offset+1], t.data[dof+offset+g.Offset+2]
		// rotate dir0 towards dir1 along the great arc by f of the angle
		ax := d0y*d1z - d0z*d1y
		ay := d0z*d1x - d0x*d1z
		az := d0x*d1y - d0y*d1x
		sin := math.Sqrt(ax*ax + ay*ay + az*az)
		if sin <= epsilon {
			return
		}
		scale := f * math.Asin(math.Min(1, sin)) / sin
		q := quatFromAxisAngle(ax*scale, ay*scale, az*scale)
		out[g.Offset], out[g.Offset+1], out[g.Offset+2] = quatRotateVec(q, d0x, d0y, d0z)
	}
}

// interpQuadraticIk overwrites the rotation channels of a quadratic ikparam
// group by integrating a quadratic angular velocity over the segment and
// rotating the starting orientation by the accumulated axis angle.
func (t *Trajectory) interpQuadraticIk(g Group, ipoint int, deltatime Real, out []Real, ikType IkParamType) {
	t.interpQuadratic(g, ipoint, deltatime, out)
	if deltatime <= epsilon {
		return
	}
	dof := t.spec.DOF()
	offset := ipoint * dof
	derivOffset := t.derivOffsets[g.Offset]
	if derivOffset < 0 {
		return
	}
	switch {
	case ikType.rotationLike():
		q0 := quatAt(t.data, offset+g.Offset)
		q0vel := quatAt(t.data, offset+derivOffset)
		q1 := quatAt(t.data, dof+offset+g.Offset)
		q1vel := quatAt(t.data, dof+offset+derivOffset)
		omega0 := angularVelocity(q0vel, q0)
		omega1 := angularVelocity(q1vel, q1)
		coeff := quat.Scale(0.5*t.deltaInvTime[ipoint+1], quat.Sub(omega1, omega0))
		total := quat.Add(quat.Scale(deltatime, omega0), quat.Scale(deltatime*deltatime, coeff))
		q := quat.Mul(quatFromAxisAngle(total.Imag, total.Jmag, total.Kmag), q0)
		writeQuat(out, g.Offset, q)
	case ikType.directionLike():
		d0x, d0y, d0z := t.data[offset+g.Offset], t.data[offset+g.Offset+1], t.data[offset+g.Offset+2]
		d1x, d1y, d1z := t.data[dof+offset+g.Offset], t.data[dof+offset+g.Offset+1], t.data[dof+offset+g.Offset+2]
		ax := d0y*d1z - d0z*d1y
		ay := d0z*d1x - d0x*d1z
		az := d0x*d1y - d0y*d1x
		if ax*ax+ay*ay+az*az <= epsilon {
			return
		}
		w0x, w0y, w0z := t.data[offset+derivOffset], t.data[offset+derivOffset+1], t.data[offset+derivOffset+2]
		w1x, w1y, w1z := t.data[dof+offset+derivOffset], t.data[dof+offset+derivOffset+1], t.data[dof+offset+derivOffset+2]
		c := 0.5 * t.deltaInvTime[ipoint+1] * deltatime * deltatime
		tx := w0x*deltatime + (w1x-w0x)*c
		ty := w0y*deltatime + (w1y-w0y)*c
		tz := w0z*deltatime + (w1z-w0z)*c
		q := quatFromAxisAngle(tx, ty, tz)
		out[g.Offset], out[g.Offset+1], out[g.Offset+2] = quatRotateVec(q, d0x, d0y, d0z)
	}
}

// interpCubicIk overwrites the rotation channels of a cubic ikparam group
// using the angular accelerations at both endpoints. 5D direction groups
// have no cubic rotation form yet.
func (t *Trajectory) interpCubicIk(g Group, ipoint int, deltatime Real, out []Real, ikType IkParamType) error {
	if err := t.interpCubic(g, ipoint, deltatime, out); err != nil {
		return err
	}
	if deltatime <= epsilon {
		return nil
	}
	derivOffset := t.derivOffsets[g.Offset]
	ddOffset := t.ddOffsets[g.Offset]
	if derivOffset < 0 || ddOffset < 0 {
		return notImplementedf("cubic ikparam interpolation without derivative and second-derivative groups (derivoffset=%d, ddoffset=%d)", derivOffset, ddOffset)
	}
	if ikType.directionLike() {
		return notImplementedf("cubic interpolation of 5D direction groups")
	}
	if !ikType.rotationLike() {
		return nil
	}
	dof := t.spec.DOF()
	offset := ipoint * dof
	next := offset + dof
	q0 := quatAt(t.data, offset+g.Offset)
	q0acc := quatAt(t.data, offset+ddOffset)
	q1 := quatAt(t.data, next+g.Offset)
	q1acc := quatAt(t.data, next+ddOffset)
	omega0 := angularVelocity(quatAt(t.data, offset+derivOffset), q0)
	alpha0 := angularVelocity(q0acc, q0)
	alpha1 := angularVelocity(q1acc, q1)
	jerk := quat.Scale(t.deltaInvTime[ipoint+1], quat.Sub(alpha1, alpha0))
	total := quat.Scale(deltatime, quat.Add(omega0, quat.Scale(deltatime, quat.Add(quat.Scale(0.5, alpha0), quat.Scale(deltatime/6.0, jerk)))))
	q := quat.Mul(quatFromAxisAngle(total.Imag, total.Jmag, total.Kmag), q0)
	writeQuat(out, g.Offset, q)
	return nil
}
