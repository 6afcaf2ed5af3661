package dropin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestTier_Parse_ValidatesInput tests Tier parsing with various inputs
func TestTier_Parse_ValidatesInput(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Tier
		expectError bool
	}{
		{name: "Base", input: "base", expected: TierBase},
		{name: "Admin", input: "admin", expected: TierAdmin},
		{name: "EtcAlias", input: "etc", expected: TierAdmin},
		{name: "VendorMixedCase", input: " Vendor ", expected: TierVendor},
		{name: "UsrAlias", input: "usr", expected: TierVendor},
		{name: "Unknown_ShouldFail", input: "run", expectError: true},
		{name: "Empty_ShouldFail", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, err := ParseTier(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tier)
		})
	}
}

// TestTier_JSON tests that tiers serialise by name
func TestTier_JSON(t *testing.T) {
	data, err := json.Marshal(ResolvedEntry{Key: "Seal", Value: "no", Tier: TierVendor})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"Seal","value":"no","tier":"vendor"}`, string(data))

	_, err = json.Marshal(Tier(42))
	assert.Error(t, err)
}

// TestSettings_LaterAssignmentWins tests per-file overwrite semantics
func TestSettings_LaterAssignmentWins(t *testing.T) {
	s := NewSettings(
		Setting{Key: "Storage", Value: "auto"},
		Setting{Key: "Seal", Value: "yes"},
		Setting{Key: "Storage", Value: "volatile"},
	)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"Storage", "Seal"}, s.Keys(), "overwrite keeps first position")
	v, ok := s.Get("Storage")
	assert.True(t, ok)
	assert.Equal(t, "volatile", v)

	var zero Settings
	assert.True(t, zero.IsEmpty())
	_, ok = zero.Get("Storage")
	assert.False(t, ok)
}

// TestSettings_KeysReturnsCopy tests that callers cannot mutate settings
func TestSettings_KeysReturnsCopy(t *testing.T) {
	s := NewSettings(Setting{Key: "A", Value: "1"})
	keys := s.Keys()
	keys[0] = "B"

	assert.Equal(t, []string{"A"}, s.Keys())
}

// TestFragment_Basename tests basename extraction
func TestFragment_Basename(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "/etc/sysctl.d/10-a.conf", expected: "10-a.conf"},
		{path: "mem://localhost/usr/lib/sysctl.d/10-a.conf", expected: "10-a.conf"},
		{path: `/etc/sysctl.d/a\b.conf`, expected: `a\b.conf`},
		{path: "x.conf", expected: "x.conf"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			f := NewFragment(tt.path, TierAdmin, Settings{})
			assert.Equal(t, tt.expected, f.Basename())
			assert.True(t, f.Named())
		})
	}
}

// TestFragment_Unnamed tests fragments without a path
func TestFragment_Unnamed(t *testing.T) {
	f := NewFragment("", TierVendor, NewSettings(Setting{Key: "K", Value: "v"}))

	p, ok := f.Path()
	assert.False(t, ok)
	assert.Empty(t, p)
	assert.Empty(t, f.Basename())
	assert.False(t, f.IsEmpty())
	assert.Equal(t, "<unnamed vendor>", f.String())
}

// TestResult_AccessorsReturnCopies tests immutability of results
func TestResult_AccessorsReturnCopies(t *testing.T) {
	used := []string{"/a"}
	r := NewResult(map[string]ResolvedEntry{"K": {Key: "K", Value: "v", Source: "/a", HasSource: true}}, used, []string{"/b"}, nil)
	used[0] = "/changed"

	got := r.FilesUsed()
	got[0] = "/mutated"
	assert.Equal(t, []string{"/a"}, r.FilesUsed())
	assert.Equal(t, []string{"/b"}, r.FilesShadowed())

	value, source, ok := r.GetWithSource("K")
	assert.True(t, ok)
	assert.Equal(t, "v", value)
	assert.Equal(t, "/a", source)

	_, _, ok = r.GetWithSource("missing")
	assert.False(t, ok)
}

// TestDomain_Matches tests drop-in file name filtering
func TestDomain_Matches(t *testing.T) {
	d := Domain{Name: "sysctl", Suffix: ".conf"}

	assert.True(t, d.Matches("10-a.conf"))
	assert.False(t, d.Matches(".conf"))
	assert.False(t, d.Matches(".hidden.conf"))
	assert.False(t, d.Matches("README"))
	assert.True(t, Domain{}.Matches("anything"))
}

// TestNewSyntax tests syntax validation
func TestNewSyntax(t *testing.T) {
	s, err := NewSyntax("INI")
	require.NoError(t, err)
	assert.Equal(t, SyntaxINI, s)

	_, err = NewSyntax("toml")
	assert.Error(t, err)
}

// TestSettings_PropertyBased_LastValueWins tests that Get always reports the last assignment
func TestSettings_PropertyBased_LastValueWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c"}), 0, 10).Draw(t, "keys")
		pairs := make([]Setting, 0, len(keys))
		last := map[string]string{}
		for _, k := range keys {
			v := rapid.StringN(0, 3, -1).Draw(t, "value")
			pairs = append(pairs, Setting{Key: k, Value: v})
			last[k] = v
		}

		s := NewSettings(pairs...)

		assert.Equal(t, len(last), s.Len())
		for k, v := range last {
			got, ok := s.Get(k)
			assert.True(t, ok)
			assert.Equal(t, v, got)
		}
	})
}
