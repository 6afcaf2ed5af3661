package resolve

import (
	"sort"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

// Order returns a new slice of fragments sorted by ascending basename
// using byte-wise comparison. Tier plays no part unless two fragments
// share a basename, which a well-formed snapshot never produces.
//
// Unnamed fragments sort before every named one and keep their relative
// input order.
func Order(fragments []dropin.Fragment) []dropin.Fragment {
	ordered := make([]dropin.Fragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return less(ordered[i], ordered[j])
	})
	return ordered
}

// less orders named fragments by (basename, tier, path)
func less(a, b dropin.Fragment) bool {
	if a.Named() != b.Named() {
		return !a.Named()
	}
	if !a.Named() {
		return false
	}
	if a.Basename() != b.Basename() {
		return a.Basename() < b.Basename()
	}
	if a.Tier() != b.Tier() {
		return a.Tier() < b.Tier()
	}
	pa, _ := a.Path()
	pb, _ := b.Path()
	return pa < pb
}

// BuildChain prepends the optional base fragment to the ordered overrides,
// producing the full precedence chain from lowest to highest priority.
func BuildChain(base *dropin.Fragment, ordered []dropin.Fragment) []dropin.Fragment {
	chain := make([]dropin.Fragment, 0, len(ordered)+1)
	if base != nil {
		chain = append(chain, *base)
	}
	return append(chain, ordered...)
}
