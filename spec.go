package trajectory

// interpolationOrder ranks the polynomial labels from step reconstruction up
// to sextic. Derivative/integral label expectations walk this ladder, with
// one deliberate exception: the derivative of "linear" keeps the "linear"
// label, because piecewise-constant segment velocities are published with the
// same label as the positions they differentiate.
var interpolationOrder = []string{"next", "linear", "quadratic", "cubic", "quartic", "quintic", "sextic"}

// InterpolationDerivative returns the interpolation label expected of the
// deriv-th time derivative of a group with the given label, or "" if the
// label is not a polynomial label.
func InterpolationDerivative(interpolation string, deriv int) string {
	for i, label := range interpolationOrder {
		if label != interpolation {
			continue
		}
		j := i - deriv
		if j < 1 {
			// clamp at linear: see ladder note above
			j = 1
			if i == 0 {
				j = 0
			}
		}
		return interpolationOrder[j]
	}
	return ""
}

// InterpolationIntegral returns the interpolation label expected of the
// integ-th time integral of a group with the given label, or "" if unknown.
// It mirrors InterpolationDerivative, so the integral of "linear" is
// "linear".
func InterpolationIntegral(interpolation string, integ int) string {
	if interpolation == "linear" {
		return "linear"
	}
	for i, label := range interpolationOrder {
		if label != interpolation {
			continue
		}
		j := i + integ
		if j >= len(interpolationOrder) {
			j = len(interpolationOrder) - 1
		}
		return interpolationOrder[j]
	}
	return ""
}

// derivativeCategory maps a category to the category of its first time
// derivative. The chains are
// joint_values -> joint_velocities -> joint_accelerations -> joint_jerks -> joint_snaps,
// the affine equivalents, and ikparam_values -> ikparam_velocities ->
// ikparam_accelerations.
var derivativeCategory = map[string]string{
	"joint_values":         "joint_velocities",
	"joint_velocities":     "joint_accelerations",
	"joint_accelerations":  "joint_jerks",
	"joint_jerks":          "joint_snaps",
	"affine_transform":     "affine_velocities",
	"affine_velocities":    "affine_accelerations",
	"affine_accelerations": "affine_jerks",
	"affine_jerks":         "affine_snaps",
	"ikparam_values":       "ikparam_velocities",
	"ikparam_velocities":   "ikparam_accelerations",
}

// integralCategory is the inverse chain of derivativeCategory.
var integralCategory = func() map[string]string {
	m := make(map[string]string, len(derivativeCategory))
	for from, to := range derivativeCategory {
		m[to] = from
	}
	return m
}()

// FindCompatibleGroup returns the index of a group whose category matches
// g's and whose dof equals g's, or -1. An exact name match wins over a
// category match.
func (s *ConfigurationSpec) FindCompatibleGroup(g Group) int {
	best := -1
	for i := range s.Groups {
		if s.Groups[i].DOF != g.DOF {
			continue
		}
		if s.Groups[i].Name == g.Name {
			return i
		}
		if best < 0 && s.Groups[i].Category() == g.Category() {
			best = i
		}
	}
	return best
}

// FindTimeDerivativeGroup returns the index of the group holding the time
// derivative of g (same parameter data, derivative category, same dof), or
// -1 if the category has no derivative or no such group exists.
func (s *ConfigurationSpec) FindTimeDerivativeGroup(g Group) int {
	cat, ok := derivativeCategory[g.Category()]
	if !ok {
		return -1
	}
	return s.findRelated(g, cat)
}

// FindTimeIntegralGroup returns the index of the group holding the time
// integral of g, or -1.
func (s *ConfigurationSpec) FindTimeIntegralGroup(g Group) int {
	cat, ok := integralCategory[g.Category()]
	if !ok {
		return -1
	}
	return s.findRelated(g, cat)
}

func (s *ConfigurationSpec) findRelated(g Group, category string) int {
	suffix := g.suffix()
	for i := range s.Groups {
		if s.Groups[i].Category() != category || s.Groups[i].DOF != g.DOF {
			continue
		}
		if s.Groups[i].suffix() == suffix {
			return i
		}
	}
	return -1
}

// ConvertData translates n rows from src (laid out per srcSpec) into dst
// (laid out per dstSpec). For each destination group a compatible source
// group is located; matched channels are copied row by row. Destination
// groups with no source are left untouched when fillUninitialized is false,
// or filled with category defaults when true: affine_transform groups get
// the identity pose packed per their affine-dof tag, outputSignals groups
// get -1, everything else zero. Mismatched total DOF is not fatal; unmatched
// destination groups are simply skipped.
func ConvertData(dst []Real, dstSpec *ConfigurationSpec, src []Real, srcSpec *ConfigurationSpec, n int, fillUninitialized bool) {
	dstDOF := dstSpec.DOF()
	srcDOF := srcSpec.DOF()
	for gi := range dstSpec.Groups {
		dg := &dstSpec.Groups[gi]
		si := srcSpec.FindCompatibleGroup(*dg)
		if si >= 0 {
			sg := &srcSpec.Groups[si]
			for row := 0; row < n; row++ {
				copy(dst[row*dstDOF+dg.Offset:row*dstDOF+dg.Offset+dg.DOF],
					src[row*srcDOF+sg.Offset:row*srcDOF+sg.Offset+sg.DOF])
			}
		} else if fillUninitialized {
			defaults := groupDefaultValues(*dg)
			for row := 0; row < n; row++ {
				copy(dst[row*dstDOF+dg.Offset:row*dstDOF+dg.Offset+dg.DOF], defaults)
			}
		}
	}
}

// groupDefaultValues returns the fill values used for a destination group
// with no compatible source.
func groupDefaultValues(g Group) []Real {
	defaults := make([]Real, g.DOF)
	switch g.Category() {
	case "affine_transform":
		// trailing tokens are "<robotname> <affinedofs>"
		if dofs, ok := parseAffineDOFTag(g.suffix()); ok && AffineDOF(dofs) == g.DOF {
			affineIdentityValues(defaults, dofs)
		}
	case "outputSignals":
		for i := range defaults {
			defaults[i] = -1
		}
	}
	return defaults
}
