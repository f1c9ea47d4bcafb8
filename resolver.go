package trajectory

// interpKernel tags the reconstruction kernel bound to a group. Kernels are
// resolved once at init time and dispatched by tag during sampling; groups
// are referenced by index so the owning slice can grow or be swapped.
type interpKernel uint8

const (
	kernelNone interpKernel = iota
	kernelPrevious
	kernelNext
	kernelMax
	kernelLinear
	kernelLinearIk
	kernelQuadratic
	kernelQuadraticIk
	kernelCubic
	kernelCubicIk
	kernelQuartic
	kernelQuintic
	kernelSextic
)

// validatorKernel tags the per-segment validator bound to a group.
type validatorKernel uint8

const (
	validateNone validatorKernel = iota
	validateLinear
	validateQuadratic
)

// groupFn is the resolved binding for one group: which kernel reconstructs
// it, which validator checks it, and the ik subtype for rotation-aware
// kernels.
type groupFn struct {
	kernel    interpKernel
	validator validatorKernel
	ikType    IkParamType
}

// ikKernelFor returns the rotation-aware kernel for an ikparam group with
// the given label, or kernelNone for plain scalar groups.
func ikKernelFor(g Group, label string) (interpKernel, IkParamType) {
	cat := g.Category()
	switch label {
	case "linear":
		if cat == "ikparam_values" || cat == "ikparam_velocities" || cat == "ikparam_accelerations" {
			if t := parseIkParamTag(g); t != IkNone {
				return kernelLinearIk, t
			}
		}
	case "quadratic":
		if cat == "ikparam_values" || cat == "ikparam_velocities" {
			if t := parseIkParamTag(g); t != IkNone {
				return kernelQuadraticIk, t
			}
		}
	case "cubic":
		if cat == "ikparam_values" {
			if t := parseIkParamTag(g); t != IkNone {
				return kernelCubicIk, t
			}
		}
	}
	return kernelNone, IkNone
}

// initGroupFunctions binds a kernel and validator per group and resolves the
// auxiliary source offsets into related derivative/integral groups. For every
// output channel, derivOffsets/ddOffsets/dddOffsets hold the row offset of
// the first/second/third derivative source and integOffsets/iiOffsets the
// first/second integral source: >= 0 is a resolved offset, -1 not required,
// -n (n in {2,3}) required but unavailable.
func (t *Trajectory) initGroupFunctions() {
	dof := t.spec.DOF()
	t.groupFns = make([]groupFn, len(t.spec.Groups))
	t.derivOffsets = newOffsetSlice(dof)
	t.ddOffsets = newOffsetSlice(dof)
	t.dddOffsets = newOffsetSlice(dof)
	t.integOffsets = newOffsetSlice(dof)
	t.iiOffsets = newOffsetSlice(dof)

	for i, g := range t.spec.Groups {
		fn := groupFn{}
		needNeighboring := 0
		switch g.Interpolation {
		case "previous":
			fn.kernel = kernelPrevious
		case "next":
			fn.kernel = kernelNext
		case "max":
			fn.kernel = kernelMax
		case "linear":
			if k, ik := ikKernelFor(g, "linear"); k != kernelNone {
				fn.kernel, fn.ikType = k, ik
			} else {
				fn.kernel = kernelLinear
				fn.validator = validateLinear
			}
			needNeighboring = 2
		case "quadratic":
			if k, ik := ikKernelFor(g, "quadratic"); k != kernelNone {
				fn.kernel, fn.ikType = k, ik
			} else {
				fn.kernel = kernelQuadratic
				fn.validator = validateQuadratic
			}
			needNeighboring = 3
		case "cubic":
			if k, ik := ikKernelFor(g, "cubic"); k != kernelNone {
				fn.kernel, fn.ikType = k, ik
			} else {
				fn.kernel = kernelCubic
			}
			needNeighboring = 3
		case "quartic":
			fn.kernel = kernelQuartic
			needNeighboring = 3
		case "quintic":
			fn.kernel = kernelQuintic
			needNeighboring = 3
		case "sextic":
			fn.kernel = kernelSextic
			needNeighboring = 3
		case "":
			// no interpolation defaults to "next"; deltatime is such a
			// group, but the sampler overwrites its slot anyway
			fn.kernel = kernelNext
		}
		t.groupFns[i] = fn

		if needNeighboring > 0 {
			t.resolveDerivativeChain(g, needNeighboring)
			t.resolveIntegralChain(g, needNeighboring)
		}
	}
}

// resolveDerivativeChain walks up to three derivative links from g. A link
// only holds when the candidate group's interpolation label equals the
// expected derivative of its parent's label; a wrong label demotes the
// relation to "no derivative available".
func (t *Trajectory) resolveDerivativeChain(g Group, need int) {
	levels := [3][]int{t.derivOffsets, t.ddOffsets, t.dddOffsets}
	parent := g
	for level := 0; level < 3; level++ {
		di := t.spec.FindTimeDerivativeGroup(parent)
		if di >= 0 {
			cand := t.spec.Groups[di]
			if cand.Interpolation == "" || cand.Interpolation != InterpolationDerivative(parent.Interpolation, 1) {
				di = -1
			}
		}
		if di < 0 {
			// not fatal here: the trajectory may never be sampled
			for j := 0; j < g.DOF; j++ {
				levels[level][g.Offset+j] = -need
			}
			return
		}
		for j := 0; j < g.DOF; j++ {
			levels[level][g.Offset+j] = t.spec.Groups[di].Offset + j
		}
		parent = t.spec.Groups[di]
	}
}

// resolveIntegralChain walks up to two integral links from g with the same
// label-match rule.
func (t *Trajectory) resolveIntegralChain(g Group, need int) {
	levels := [2][]int{t.integOffsets, t.iiOffsets}
	parent := g
	for level := 0; level < 2; level++ {
		ii := t.spec.FindTimeIntegralGroup(parent)
		if ii >= 0 {
			cand := t.spec.Groups[ii]
			if cand.Interpolation == "" || cand.Interpolation != InterpolationIntegral(parent.Interpolation, 1) {
				ii = -1
			}
		}
		if ii < 0 {
			for j := 0; j < g.DOF; j++ {
				levels[level][g.Offset+j] = -need
			}
			return
		}
		for j := 0; j < g.DOF; j++ {
			levels[level][g.Offset+j] = t.spec.Groups[ii].Offset + j
		}
		parent = t.spec.Groups[ii]
	}
}

func newOffsetSlice(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = -1
	}
	return s
}
