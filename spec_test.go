package trajectory

import (
	"testing"

	"github.com/banshee-data/trajectory/internal/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestCanonicalGroupOrder(t *testing.T) {
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values robot", Offset: 0, DOF: 2, Interpolation: "linear"},
		{Name: "outputSignals 3", Offset: 7, DOF: 1, Interpolation: "next"},
		{Name: "deltatime", Offset: 4, DOF: 1},
		{Name: "joint_velocities robot", Offset: 2, DOF: 2, Interpolation: "linear"},
		{Name: "affine_transform robot 7", Offset: 5, DOF: 2, Interpolation: "linear"},
	}}

	traj := New()
	testutil.AssertNoError(t, traj.Init(spec))

	var got []string
	for _, g := range traj.Spec().Groups {
		got = append(got, g.Category())
	}
	want := []string{"deltatime", "joint_velocities", "joint_values", "affine_transform", "outputSignals"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("canonical order mismatch (-want +got):\n%s", diff)
	}

	// re-init with the already-sorted spec must keep the order
	sorted := traj.Spec().clone()
	testutil.AssertNoError(t, traj.Init(sorted))
	if diff := cmp.Diff(sorted.Groups, traj.Spec().Groups); diff != "" {
		t.Errorf("re-init changed group order (-want +got):\n%s", diff)
	}
}

func TestCanonicalOrderUnknownCategories(t *testing.T) {
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "zeta_custom", Offset: 0, DOF: 1},
		{Name: "alpha_custom", Offset: 1, DOF: 1},
		{Name: "joint_torques r", Offset: 2, DOF: 1},
	}}
	traj := New()
	testutil.AssertNoError(t, traj.Init(spec))
	got := traj.Spec().Groups
	if got[0].Category() != "joint_torques" || got[1].Category() != "alpha_custom" || got[2].Category() != "zeta_custom" {
		t.Errorf("unknown categories must sort lexicographically after known ones, got %v", got)
	}
}

func TestSpecDOFWithGaps(t *testing.T) {
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values", Offset: 0, DOF: 2, Interpolation: "linear"},
		{Name: "deltatime", Offset: 5, DOF: 1},
	}}
	if got := spec.DOF(); got != 6 {
		t.Errorf("DOF() = %d, want 6 (gaps count toward the row width)", got)
	}
}

func TestFindCompatibleGroup(t *testing.T) {
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values robotA", Offset: 0, DOF: 3, Interpolation: "linear"},
		{Name: "joint_values robotB", Offset: 3, DOF: 2, Interpolation: "linear"},
		{Name: "deltatime", Offset: 5, DOF: 1},
	}}

	tests := []struct {
		name  string
		query Group
		want  int
	}{
		{"exact name wins", Group{Name: "joint_values robotB", DOF: 2}, 1},
		{"category and dof", Group{Name: "joint_values other", DOF: 3}, 0},
		{"dof mismatch", Group{Name: "joint_values robotA", DOF: 4}, -1},
		{"unknown category", Group{Name: "joint_torques robotA", DOF: 3}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spec.FindCompatibleGroup(tt.query); got != tt.want {
				t.Errorf("FindCompatibleGroup() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindTimeDerivativeAndIntegralGroups(t *testing.T) {
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "joint_values arm", Offset: 0, DOF: 2, Interpolation: "quadratic"},
		{Name: "joint_velocities arm", Offset: 2, DOF: 2, Interpolation: "linear"},
		{Name: "joint_velocities leg", Offset: 4, DOF: 2, Interpolation: "linear"},
		{Name: "deltatime", Offset: 6, DOF: 1},
	}}

	if got := spec.FindTimeDerivativeGroup(spec.Groups[0]); got != 1 {
		t.Errorf("derivative of joint_values arm = %d, want 1 (parameter data must match)", got)
	}
	if got := spec.FindTimeIntegralGroup(spec.Groups[2]); got != -1 {
		t.Errorf("integral of joint_velocities leg = %d, want -1", got)
	}
	if got := spec.FindTimeIntegralGroup(spec.Groups[1]); got != 0 {
		t.Errorf("integral of joint_velocities arm = %d, want 0", got)
	}
	if got := spec.FindTimeDerivativeGroup(spec.Groups[3]); got != -1 {
		t.Errorf("derivative of deltatime = %d, want -1", got)
	}
}

func TestInterpolationLadder(t *testing.T) {
	tests := []struct {
		label string
		deriv string
		integ string
	}{
		{"sextic", "quintic", "sextic"},
		{"quintic", "quartic", "sextic"},
		{"quartic", "cubic", "quintic"},
		{"cubic", "quadratic", "quartic"},
		{"quadratic", "linear", "cubic"},
		{"linear", "linear", "linear"},
		{"unknown", "", ""},
	}
	for _, tt := range tests {
		if got := InterpolationDerivative(tt.label, 1); got != tt.deriv {
			t.Errorf("InterpolationDerivative(%q, 1) = %q, want %q", tt.label, got, tt.deriv)
		}
		if got := InterpolationIntegral(tt.label, 1); got != tt.integ {
			t.Errorf("InterpolationIntegral(%q, 1) = %q, want %q", tt.label, got, tt.integ)
		}
	}
	if got := InterpolationDerivative("cubic", 2); got != "linear" {
		t.Errorf("second derivative of cubic = %q, want linear", got)
	}
}

func TestConvertDataIdentity(t *testing.T) {
	spec := ConfigurationSpec{Groups: []Group{
		{Name: "deltatime", Offset: 2, DOF: 1},
		{Name: "joint_values", Offset: 0, DOF: 2, Interpolation: "linear"},
	}}
	src := []Real{1, 2, 3, 4, 5, 6}
	dst := make([]Real, len(src))
	ConvertData(dst, &spec, src, &spec, 2, false)
	if diff := cmp.Diff(src, dst); diff != "" {
		t.Errorf("identity conversion mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertDataDefaults(t *testing.T) {
	srcSpec := ConfigurationSpec{Groups: []Group{
		{Name: "deltatime", Offset: 0, DOF: 1},
	}}
	dstSpec := ConfigurationSpec{Groups: []Group{
		{Name: "deltatime", Offset: 0, DOF: 1},
		{Name: "affine_transform robot 39", Offset: 1, DOF: 7, Interpolation: "linear"},
		{Name: "outputSignals 2", Offset: 8, DOF: 2, Interpolation: "next"},
		{Name: "joint_values robot", Offset: 10, DOF: 1, Interpolation: "linear"},
	}}

	src := []Real{0.25}
	dst := make([]Real, dstSpec.DOF())
	for i := range dst {
		dst[i] = 99 // sentinel that must be replaced
	}
	ConvertData(dst, &dstSpec, src, &srcSpec, 1, true)

	// affine dofs 39 = X|Y|Z|RotationQuat: zero translation + identity quat
	want := []Real{0.25, 0, 0, 0, 1, 0, 0, 0, -1, -1, 0}
	testutil.AssertRowsNear(t, dst, want, 0)
}

func TestConvertDataSkipsUnmatchedWithoutFill(t *testing.T) {
	srcSpec := ConfigurationSpec{Groups: []Group{{Name: "deltatime", Offset: 0, DOF: 1}}}
	dstSpec := ConfigurationSpec{Groups: []Group{
		{Name: "deltatime", Offset: 0, DOF: 1},
		{Name: "joint_values", Offset: 1, DOF: 1, Interpolation: "linear"},
	}}
	dst := []Real{9, 9}
	ConvertData(dst, &dstSpec, []Real{0.5}, &srcSpec, 1, false)
	if dst[0] != 0.5 || dst[1] != 9 {
		t.Errorf("unmatched group must stay untouched, got %v", dst)
	}
}

func TestAffineDOF(t *testing.T) {
	tests := []struct {
		dofs int
		want int
	}{
		{AffineX | AffineY | AffineZ, 3},
		{AffineX | AffineY | AffineZ | AffineRotationAxis, 4},
		{AffineX | AffineY | AffineZ | AffineRotation3D, 6},
		{AffineX | AffineY | AffineZ | AffineRotationQuat, 7},
	}
	for _, tt := range tests {
		if got := AffineDOF(tt.dofs); got != tt.want {
			t.Errorf("AffineDOF(%d) = %d, want %d", tt.dofs, got, tt.want)
		}
	}
}
