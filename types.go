// Package trajectory implements a generic piecewise-polynomial trajectory
// container: a named, ordered channel layout (ConfigurationSpec), a dense
// row-major waypoint buffer, and a sampling engine that reconstructs
// continuous values of arbitrary degree at any time within the trajectory
// duration, preserving derivative/integral relationships between channel
// groups. Trajectories round-trip through a binary stream format and a
// textual markup fallback.
//
// A trajectory instance is single-threaded: callers must serialize mutations
// and samples of the same instance. Distinct instances are independent.
package trajectory

import (
	"sort"
	"strings"
)

// Group is one named slice of a waypoint row: dof contiguous channels
// starting at Offset, sharing a category and an interpolation label.
//
// Name is a space-separated token list whose first token is the category
// (e.g. "deltatime", "joint_values", "affine_transform", "ikparam_values");
// the remainder is parameter data such as a robot name or an integer tag.
type Group struct {
	Name          string
	Offset        int
	DOF           int
	Interpolation string
}

// Category returns the first token of the group name.
func (g Group) Category() string {
	if i := strings.IndexByte(g.Name, ' '); i >= 0 {
		return g.Name[:i]
	}
	return g.Name
}

// suffix returns the parameter data after the category token, without the
// separating space.
func (g Group) suffix() string {
	if i := strings.IndexByte(g.Name, ' '); i >= 0 {
		return g.Name[i+1:]
	}
	return ""
}

// ConfigurationSpec is an ordered sequence of groups describing one waypoint
// row. Offsets of distinct groups never overlap. Init sorts groups into the
// canonical computation order once; the order is stable afterwards.
type ConfigurationSpec struct {
	Groups []Group
}

// categoryOrder fixes the canonical computation order of known categories:
// time first, then highest derivatives down to values/transforms, torques
// last. Unknown categories sort lexicographically after all known ones.
var categoryOrder = map[string]int{
	"deltatime":            0,
	"joint_snaps":          1,
	"affine_snaps":         2,
	"joint_jerks":          3,
	"affine_jerks":         4,
	"joint_accelerations":  5,
	"affine_accelerations": 6,
	"joint_velocities":     7,
	"affine_velocities":    8,
	"joint_values":         9,
	"affine_transform":     10,
	"joint_torques":        11,
}

// sortCanonical orders the groups by the category precedence table, unknown
// categories lexicographically after known ones. The sort is stable so that
// repeated initialization with the same input is a no-op.
func (s *ConfigurationSpec) sortCanonical() {
	sort.SliceStable(s.Groups, func(i, j int) bool {
		ci, cj := s.Groups[i].Category(), s.Groups[j].Category()
		oi, iknown := categoryOrder[ci]
		oj, jknown := categoryOrder[cj]
		if !iknown && !jknown {
			return ci < cj
		}
		if !iknown {
			return false
		}
		if !jknown {
			return true
		}
		return oi < oj
	})
}

// DOF returns the total number of channels per waypoint row: the maximum
// covered offset + 1. Gaps between groups are permitted and zero-filled on
// conversion.
func (s *ConfigurationSpec) DOF() int {
	dof := 0
	for _, g := range s.Groups {
		if end := g.Offset + g.DOF; end > dof {
			dof = end
		}
	}
	return dof
}

// Equal reports whether two specs have identical groups in identical order.
func (s *ConfigurationSpec) Equal(other *ConfigurationSpec) bool {
	if len(s.Groups) != len(other.Groups) {
		return false
	}
	for i := range s.Groups {
		if s.Groups[i] != other.Groups[i] {
			return false
		}
	}
	return true
}

// clone returns a deep copy of the spec.
func (s *ConfigurationSpec) clone() ConfigurationSpec {
	return ConfigurationSpec{Groups: append([]Group(nil), s.Groups...)}
}
