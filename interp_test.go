package trajectory

import (
	"math"
	"testing"

	"github.com/banshee-data/trajectory/internal/testutil"
)

// polynomial trajectories with consistent derivative channels reconstruct
// exactly; every test below drives one kernel family through Sample.

func TestInterpolateCubicHermite(t *testing.T) {
	// x(t) = t^3 on [0, 1]: v = 3t^2
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values", Offset: 0, DOF: 1, Interpolation: "cubic"},
		{Name: "joint_velocities", Offset: 1, DOF: 1, Interpolation: "quadratic"},
		{Name: "deltatime", Offset: 2, DOF: 1},
	}}
	traj := New()
	testutil.AssertNoError(t, traj.Init(spec))
	testutil.AssertNoError(t, traj.Insert(0, []Real{
		0, 0, 0,
		1, 3, 1,
	}, false))

	for _, time := range []Real{0.1, 0.25, 0.5, 0.9} {
		row, err := traj.Sample(time)
		testutil.AssertNoError(t, err)
		testutil.AssertNear(t, row[0], time*time*time, 1e-12)
		// the velocity group reconstructs from its integral (the cubic)
		testutil.AssertNear(t, row[1], 3*time*time, 1e-12)
	}
}

func TestInterpolateQuadraticFromIntegral(t *testing.T) {
	// a velocity-only view: v(t) = 3t^2 with its integral x = t^3 present,
	// but no acceleration group
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values", Offset: 0, DOF: 1, Interpolation: "cubic"},
		{Name: "joint_velocities", Offset: 1, DOF: 1, Interpolation: "quadratic"},
		{Name: "deltatime", Offset: 2, DOF: 1},
	}}
	traj := New()
	testutil.AssertNoError(t, traj.Init(spec))
	testutil.AssertNoError(t, traj.Insert(0, []Real{
		0, 0, 0,
		1, 3, 1,
	}, false))

	row, err := traj.Sample(0.5)
	testutil.AssertNoError(t, err)
	testutil.AssertNear(t, row[1], 0.75, 1e-12)
}

func TestInterpolateQuartic(t *testing.T) {
	// x(t) = t^4: v = 4t^3, a = 12t^2
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values", Offset: 0, DOF: 1, Interpolation: "quartic"},
		{Name: "joint_velocities", Offset: 1, DOF: 1, Interpolation: "cubic"},
		{Name: "joint_accelerations", Offset: 2, DOF: 1, Interpolation: "quadratic"},
		{Name: "deltatime", Offset: 3, DOF: 1},
	}}
	traj := New()
	testutil.AssertNoError(t, traj.Init(spec))
	testutil.AssertNoError(t, traj.Insert(0, []Real{
		0, 0, 0, 0,
		1, 4, 12, 1,
	}, false))

	for _, time := range []Real{0.2, 0.5, 0.8} {
		row, err := traj.Sample(time)
		testutil.AssertNoError(t, err)
		testutil.AssertNear(t, row[0], math.Pow(time, 4), 1e-10)
	}
}

func TestInterpolateQuintic(t *testing.T) {
	// x(t) = t^5: v = 5t^4, a = 20t^3
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values", Offset: 0, DOF: 1, Interpolation: "quintic"},
		{Name: "joint_velocities", Offset: 1, DOF: 1, Interpolation: "quartic"},
		{Name: "joint_accelerations", Offset: 2, DOF: 1, Interpolation: "cubic"},
		{Name: "deltatime", Offset: 3, DOF: 1},
	}}
	traj := New()
	testutil.AssertNoError(t, traj.Init(spec))
	testutil.AssertNoError(t, traj.Insert(0, []Real{
		0, 0, 0, 0,
		1, 5, 20, 1,
	}, false))

	for _, time := range []Real{0.25, 0.5, 0.75} {
		row, err := traj.Sample(time)
		testutil.AssertNoError(t, err)
		testutil.AssertNear(t, row[0], math.Pow(time, 5), 1e-10)
		// the velocity reconstructs through the quartic deriv+integral form
		testutil.AssertNear(t, row[1], 5*math.Pow(time, 4), 1e-10)
	}
}

func TestInterpolateSextic(t *testing.T) {
	// x(t) = t^6: v = 6t^5, a = 30t^4, j = 120t^3
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values", Offset: 0, DOF: 1, Interpolation: "sextic"},
		{Name: "joint_velocities", Offset: 1, DOF: 1, Interpolation: "quintic"},
		{Name: "joint_accelerations", Offset: 2, DOF: 1, Interpolation: "quartic"},
		{Name: "joint_jerks", Offset: 3, DOF: 1, Interpolation: "cubic"},
		{Name: "deltatime", Offset: 4, DOF: 1},
	}}
	traj := New()
	testutil.AssertNoError(t, traj.Init(spec))
	testutil.AssertNoError(t, traj.Insert(0, []Real{
		0, 0, 0, 0, 0,
		1, 6, 30, 120, 1,
	}, false))

	for _, time := range []Real{0.25, 0.5, 0.75} {
		row, err := traj.Sample(time)
		testutil.AssertNoError(t, err)
		testutil.AssertNear(t, row[0], math.Pow(time, 6), 1e-9)
		// the jerk group exercises the cubic double-integral form
		testutil.AssertNear(t, row[3], 120*math.Pow(time, 3), 1e-8)
	}
}

func TestInterpolatePreviousAndMax(t *testing.T) {
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values", Offset: 0, DOF: 1, Interpolation: "previous"},
		{Name: "joint_torques", Offset: 1, DOF: 1, Interpolation: "max"},
		{Name: "deltatime", Offset: 2, DOF: 1},
	}}
	traj := New()
	testutil.AssertNoError(t, traj.Init(spec))
	testutil.AssertNoError(t, traj.Insert(0, []Real{
		2, 7, 0,
		5, 3, 1,
	}, false))

	row, err := traj.Sample(0.5)
	testutil.AssertNoError(t, err)
	if row[0] != 2 {
		t.Errorf("previous kernel mid-segment = %g, want 2", row[0])
	}
	if row[1] != 7 {
		t.Errorf("max kernel = %g, want 7", row[1])
	}

	// right at the far endpoint previous snaps forward
	row, err = traj.Sample(1 - 1e-16)
	testutil.AssertNoError(t, err)
	if row[0] != 5 {
		t.Errorf("previous kernel at far endpoint = %g, want 5", row[0])
	}
}

func TestLinearFallbackBlendsWithoutDerivative(t *testing.T) {
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values", Offset: 0, DOF: 1, Interpolation: "linear"},
		{Name: "deltatime", Offset: 1, DOF: 1},
	}}
	traj := New()
	testutil.AssertNoError(t, traj.Init(spec))
	testutil.AssertNoError(t, traj.Insert(0, []Real{0, 0, 1, 1}, false))

	row, err := traj.Sample(0.25)
	testutil.AssertNoError(t, err)
	testutil.AssertNear(t, row[0], 0.25, 1e-12)
}
