package dropin

import "path"

// Fragment is one physical configuration file's parsed settings annotated
// with its tier. Fragments are immutable once constructed.
type Fragment struct {
	path     string
	named    bool
	basename string
	settings Settings
	tier     Tier
}

// NewFragment creates a fragment for the file at p.
// An empty p yields an unnamed fragment.
func NewFragment(p string, tier Tier, settings Settings) Fragment {
	if p == "" {
		return NewUnnamedFragment(tier, settings)
	}
	return Fragment{
		path:     p,
		named:    true,
		basename: Basename(p),
		settings: settings,
		tier:     tier,
	}
}

// NewUnnamedFragment creates a fragment whose originating path is unknown.
// Unnamed fragments never shadow and are never shadowed.
func NewUnnamedFragment(tier Tier, settings Settings) Fragment {
	return Fragment{
		settings: settings,
		tier:     tier,
	}
}

// Basename returns the final slash-separated component of p. A backslash
// is an ordinary file name character.
func Basename(p string) string {
	return path.Base(p)
}

// Path returns the originating path and whether one is known
func (f Fragment) Path() (string, bool) {
	return f.path, f.named
}

// Named returns true if the fragment has a path
func (f Fragment) Named() bool {
	return f.named
}

// Basename returns the final path component, or "" for unnamed fragments
func (f Fragment) Basename() string {
	return f.basename
}

// Tier returns the tier the fragment was read from
func (f Fragment) Tier() Tier {
	return f.tier
}

// Settings returns the fragment's parsed settings
func (f Fragment) Settings() Settings {
	return f.settings
}

// IsEmpty returns true when the fragment defines no key
func (f Fragment) IsEmpty() bool {
	return f.settings.IsEmpty()
}

// String returns the path, or a placeholder for unnamed fragments
func (f Fragment) String() string {
	if !f.named {
		return "<unnamed " + f.tier.String() + ">"
	}
	return f.path
}

// Sources is the snapshot of fragments for one resolution request
type Sources struct {
	Base   *Fragment
	Admin  []Fragment
	Vendor []Fragment
}

// Count returns the total number of fragments in the snapshot
func (s Sources) Count() int {
	n := len(s.Admin) + len(s.Vendor)
	if s.Base != nil {
		n++
	}
	return n
}
