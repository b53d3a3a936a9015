package solver

// Family names a registered Solver implementation. The pack carries one:
// FamilyOrigami, the mass-spring fold solver spec.md describes end to
// end. The type exists so Create can reject an unknown name with
// NoSuchSolverFamilyError rather than silently defaulting, matching
// spec.md §6's create(context, family, backend_flags) signature.
type Family string

// FamilyOrigami is the only registered solver family.
const FamilyOrigami Family = "origami"

func (f Family) registered() bool {
	return f == FamilyOrigami
}
