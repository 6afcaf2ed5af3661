package testfixtures

import (
	"fmt"
	"path"

	"pgregory.net/rapid"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

// Directory roots used by fixtures. They mirror the systemd layout.
const (
	AdminDir  = "/etc/systemd/journald.conf.d"
	VendorDir = "/usr/lib/systemd/journald.conf.d"
	BasePath  = "/etc/systemd/journald.conf"
)

// FragmentBuilder provides a builder pattern for creating test fragments
type FragmentBuilder struct {
	path     string
	unnamed  bool
	tier     dropin.Tier
	settings []dropin.Setting
}

// NewFragmentBuilder creates a new FragmentBuilder for an admin fragment
func NewFragmentBuilder() *FragmentBuilder {
	return &FragmentBuilder{tier: dropin.TierAdmin}
}

// Base returns a builder for the base file
func Base() *FragmentBuilder {
	return NewFragmentBuilder().WithTier(dropin.TierBase).WithPath(BasePath)
}

// Admin returns a builder for an admin fragment named name
func Admin(name string) *FragmentBuilder {
	return NewFragmentBuilder().WithTier(dropin.TierAdmin).WithPath(path.Join(AdminDir, name))
}

// Vendor returns a builder for a vendor fragment named name
func Vendor(name string) *FragmentBuilder {
	return NewFragmentBuilder().WithTier(dropin.TierVendor).WithPath(path.Join(VendorDir, name))
}

// AdminPath returns the fixture path of an admin fragment
func AdminPath(name string) string {
	return path.Join(AdminDir, name)
}

// VendorPath returns the fixture path of a vendor fragment
func VendorPath(name string) string {
	return path.Join(VendorDir, name)
}

// WithPath sets the fragment path
func (b *FragmentBuilder) WithPath(p string) *FragmentBuilder {
	b.path = p
	b.unnamed = false
	return b
}

// Unnamed drops the fragment path
func (b *FragmentBuilder) Unnamed() *FragmentBuilder {
	b.path = ""
	b.unnamed = true
	return b
}

// WithTier sets the fragment tier
func (b *FragmentBuilder) WithTier(tier dropin.Tier) *FragmentBuilder {
	b.tier = tier
	return b
}

// Set appends an assignment
func (b *FragmentBuilder) Set(key, value string) *FragmentBuilder {
	b.settings = append(b.settings, dropin.Setting{Key: key, Value: value})
	return b
}

// Build creates the fragment
func (b *FragmentBuilder) Build() dropin.Fragment {
	settings := dropin.NewSettings(b.settings...)
	if b.unnamed {
		return dropin.NewUnnamedFragment(b.tier, settings)
	}
	return dropin.NewFragment(b.path, b.tier, settings)
}

// BuildPtr creates the fragment and returns its address
func (b *FragmentBuilder) BuildPtr() *dropin.Fragment {
	f := b.Build()
	return &f
}

// Property-based generators

var (
	fragmentNames = []string{"00-early.conf", "10-a.conf", "50-b.conf", "60-c.conf", "90-late.conf", "z.conf"}
	settingKeys   = []string{"Storage", "Seal", "Compress", "MaxUse", "SystemMaxUse", "ForwardToSyslog"}
	settingValues = []string{"yes", "no", "auto", "volatile", "persistent", "1G", "", "none"}
)

// SettingsGen draws settings with zero or more keys from a small pool so
// that collisions between fragments are common.
func SettingsGen() *rapid.Generator[dropin.Settings] {
	return rapid.Custom(func(t *rapid.T) dropin.Settings {
		n := rapid.IntRange(0, 4).Draw(t, "settingCount")
		pairs := make([]dropin.Setting, 0, n)
		for i := 0; i < n; i++ {
			pairs = append(pairs, dropin.Setting{
				Key:   rapid.SampledFrom(settingKeys).Draw(t, "key"),
				Value: rapid.SampledFrom(settingValues).Draw(t, "value"),
			})
		}
		return dropin.NewSettings(pairs...)
	})
}

// TierGen draws fragments of one override tier with distinct basenames
func TierGen(tier dropin.Tier) *rapid.Generator[[]dropin.Fragment] {
	return rapid.Custom(func(t *rapid.T) []dropin.Fragment {
		names := rapid.SliceOfNDistinct(rapid.SampledFrom(fragmentNames), 0, len(fragmentNames), rapid.ID[string]).
			Draw(t, fmt.Sprintf("%s-names", tier))
		dir := AdminDir
		if tier == dropin.TierVendor {
			dir = VendorDir
		}
		out := make([]dropin.Fragment, 0, len(names))
		for _, n := range names {
			out = append(out, dropin.NewFragment(path.Join(dir, n), tier, SettingsGen().Draw(t, "settings")))
		}
		return out
	})
}

// SourcesGen draws a complete, well-formed snapshot
func SourcesGen() *rapid.Generator[dropin.Sources] {
	return rapid.Custom(func(t *rapid.T) dropin.Sources {
		src := dropin.Sources{
			Admin:  TierGen(dropin.TierAdmin).Draw(t, "admin"),
			Vendor: TierGen(dropin.TierVendor).Draw(t, "vendor"),
		}
		if rapid.Bool().Draw(t, "hasBase") {
			base := dropin.NewFragment(BasePath, dropin.TierBase, SettingsGen().Draw(t, "baseSettings"))
			src.Base = &base
		}
		return src
	})
}
