package trajectory

import (
	"strconv"
	"strings"
)

// IkParamType identifies the rotation/direction subtype of an ikparam group,
// encoded as the trailing integer tag of the group name.
type IkParamType int

const (
	// IkNone means the group carries no rotation-aware channels.
	IkNone IkParamType = 0

	// IkRotation3D: the first four channels are a unit quaternion (w,x,y,z).
	IkRotation3D IkParamType = 4

	// IkTranslationDirection5D: the first three channels are a unit
	// direction, followed by a translation.
	IkTranslationDirection5D IkParamType = 5

	// IkTransform6D: the first four channels are a unit quaternion,
	// followed by a translation.
	IkTransform6D IkParamType = 6
)

// rotationLike reports whether the subtype carries a quaternion in its first
// four channels.
func (t IkParamType) rotationLike() bool {
	return t == IkRotation3D || t == IkTransform6D
}

// directionLike reports whether the subtype carries a unit direction in its
// first three channels.
func (t IkParamType) directionLike() bool {
	return t == IkTranslationDirection5D
}

// parseIkParamTag extracts the subtype tag from an ikparam group's parameter
// data. Groups without a parseable tag are treated as plain scalar data.
func parseIkParamTag(g Group) IkParamType {
	fields := strings.Fields(g.suffix())
	if len(fields) == 0 {
		return IkNone
	}
	tag, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return IkNone
	}
	switch t := IkParamType(tag); t {
	case IkRotation3D, IkTranslationDirection5D, IkTransform6D:
		return t
	}
	return IkNone
}
