package dropin

import "sort"

// ResolvedEntry is the value in effect for one key and its provenance
type ResolvedEntry struct {
	Key       string `json:"key" yaml:"key"`
	Value     string `json:"value" yaml:"value"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	HasSource bool   `json:"-" yaml:"-"`
	Tier      Tier   `json:"tier" yaml:"tier"`
}

// ChainLink describes one member of the precedence chain
type ChainLink struct {
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	Named       bool   `json:"named" yaml:"named"`
	Basename    string `json:"basename,omitempty" yaml:"basename,omitempty"`
	Tier        Tier   `json:"tier" yaml:"tier"`
	Keys        int    `json:"keys" yaml:"keys"`
	Contributed bool   `json:"contributed" yaml:"contributed"`
}

// Result is the outcome of resolving one set of fragments. It is
// immutable; every accessor returns a copy.
type Result struct {
	active   map[string]ResolvedEntry
	used     []string
	shadowed []string
	chain    []ChainLink
}

// NewResult assembles a Result from its parts
func NewResult(active map[string]ResolvedEntry, used, shadowed []string, chain []ChainLink) Result {
	r := Result{
		active:   make(map[string]ResolvedEntry, len(active)),
		used:     append([]string{}, used...),
		shadowed: append([]string{}, shadowed...),
		chain:    append([]ChainLink{}, chain...),
	}
	for k, e := range active {
		r.active[k] = e
	}
	return r
}

// Get returns the value in effect for key
func (r Result) Get(key string) (string, bool) {
	e, ok := r.active[key]
	return e.Value, ok
}

// GetWithSource returns the value in effect for key and the path of the
// file that supplied it. source is "" when the supplying fragment had no path.
func (r Result) GetWithSource(key string) (value, source string, ok bool) {
	e, ok := r.active[key]
	if !ok {
		return "", "", false
	}
	return e.Value, e.Source, true
}

// Entry returns the full resolved entry for key
func (r Result) Entry(key string) (ResolvedEntry, bool) {
	e, ok := r.active[key]
	return e, ok
}

// Keys returns every active key in ascending order
func (r Result) Keys() []string {
	keys := make([]string, 0, len(r.active))
	for k := range r.active {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns every active entry ordered by key
func (r Result) Entries() []ResolvedEntry {
	keys := r.Keys()
	out := make([]ResolvedEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.active[k])
	}
	return out
}

// Len returns the number of active keys
func (r Result) Len() int {
	return len(r.active)
}

// FilesUsed returns the paths of files that contributed at least one key,
// lowest priority first.
func (r Result) FilesUsed() []string {
	return append([]string{}, r.used...)
}

// FilesShadowed returns vendor paths hidden by a same-named admin file,
// ordered by basename.
func (r Result) FilesShadowed() []string {
	return append([]string{}, r.shadowed...)
}

// Chain returns the full precedence chain, lowest priority first
func (r Result) Chain() []ChainLink {
	return append([]ChainLink{}, r.chain...)
}

// Ineffective returns named chain members that contributed nothing
func (r Result) Ineffective() []string {
	var out []string
	for _, l := range r.chain {
		if l.Named && !l.Contributed {
			out = append(out, l.Path)
		}
	}
	return out
}
