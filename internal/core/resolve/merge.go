package resolve

import (
	"kilometers.ai/dropin/internal/core/domain/dropin"
)

// Merge walks the chain once, lowest priority first. For every key the
// last fragment defining it wins. Files used and the chain audit are
// computed in the same pass so they can never disagree with provenance.
func Merge(chain []dropin.Fragment, shadowed []string) dropin.Result {
	active := make(map[string]dropin.ResolvedEntry)
	used := make([]string, 0, len(chain))
	links := make([]dropin.ChainLink, 0, len(chain))

	for _, f := range chain {
		path, named := f.Path()
		for _, s := range f.Settings().Pairs() {
			active[s.Key] = dropin.ResolvedEntry{
				Key:       s.Key,
				Value:     s.Value,
				Source:    path,
				HasSource: named,
				Tier:      f.Tier(),
			}
		}

		contributed := !f.IsEmpty()
		if contributed && named {
			used = append(used, path)
		}
		links = append(links, dropin.ChainLink{
			Path:        path,
			Named:       named,
			Basename:    f.Basename(),
			Tier:        f.Tier(),
			Keys:        f.Settings().Len(),
			Contributed: contributed,
		})
	}

	return dropin.NewResult(active, used, shadowed, links)
}
