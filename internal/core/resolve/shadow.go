package resolve

import (
	"sort"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

// Shadow removes every vendor fragment whose basename also exists in the
// admin tier. It returns the surviving vendor fragments in input order and
// the paths of the shadowed ones ordered by basename. Unnamed fragments
// never take part in shadowing.
func Shadow(admin, vendor []dropin.Fragment) ([]dropin.Fragment, []string) {
	adminNames := make(map[string]struct{}, len(admin))
	for _, f := range admin {
		if f.Named() {
			adminNames[f.Basename()] = struct{}{}
		}
	}

	survivors := make([]dropin.Fragment, 0, len(vendor))
	var hidden []dropin.Fragment
	for _, f := range vendor {
		if f.Named() {
			if _, ok := adminNames[f.Basename()]; ok {
				hidden = append(hidden, f)
				continue
			}
		}
		survivors = append(survivors, f)
	}

	sort.SliceStable(hidden, func(i, j int) bool {
		return less(hidden[i], hidden[j])
	})
	shadowed := make([]string, 0, len(hidden))
	for _, f := range hidden {
		p, _ := f.Path()
		shadowed = append(shadowed, p)
	}
	return survivors, shadowed
}
