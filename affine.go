package trajectory

import (
	"strconv"
	"strings"
)

// Affine DOF flags for affine_transform groups. The trailing integer tag of
// an affine_transform group name is a bitmask of these flags and determines
// how a pose is packed into the group's channels.
const (
	AffineX            = 1 << 0
	AffineY            = 1 << 1
	AffineZ            = 1 << 2
	AffineRotationAxis = 1 << 3
	AffineRotation3D   = 1 << 4
	AffineRotationQuat = 1 << 5
)

// AffineDOF returns the number of channels an affine_transform group with
// the given dof bitmask occupies.
func AffineDOF(dofs int) int {
	n := 0
	if dofs&AffineX != 0 {
		n++
	}
	if dofs&AffineY != 0 {
		n++
	}
	if dofs&AffineZ != 0 {
		n++
	}
	switch {
	case dofs&AffineRotationAxis != 0:
		n++
	case dofs&AffineRotation3D != 0:
		n += 3
	case dofs&AffineRotationQuat != 0:
		n += 4
	}
	return n
}

// affineIdentityValues packs the identity pose into dst using the affine dof
// bitmask: zero translation, zero axis angle, identity quaternion (1,0,0,0).
// dst must have AffineDOF(dofs) elements.
func affineIdentityValues(dst []Real, dofs int) {
	i := 0
	if dofs&AffineX != 0 {
		dst[i] = 0
		i++
	}
	if dofs&AffineY != 0 {
		dst[i] = 0
		i++
	}
	if dofs&AffineZ != 0 {
		dst[i] = 0
		i++
	}
	switch {
	case dofs&AffineRotationAxis != 0:
		dst[i] = 0
	case dofs&AffineRotation3D != 0:
		dst[i], dst[i+1], dst[i+2] = 0, 0, 0
	case dofs&AffineRotationQuat != 0:
		dst[i], dst[i+1], dst[i+2], dst[i+3] = 1, 0, 0, 0
	}
}

// parseAffineDOFTag extracts the affine dof bitmask from the parameter data
// of an affine_transform group name ("<robotname> <affinedofs>").
func parseAffineDOFTag(suffix string) (int, bool) {
	fields := strings.Fields(suffix)
	if len(fields) < 2 {
		return 0, false
	}
	dofs, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, false
	}
	return dofs, true
}
