package dropin

import (
	"fmt"
	"strings"
)

// Tier identifies which layer of a drop-in hierarchy a fragment belongs to
type Tier int

const (
	// TierBase is the single primary configuration file
	TierBase Tier = iota
	// TierAdmin is the administrator tree (e.g. /etc/<name>.d)
	TierAdmin
	// TierVendor is the vendor tree (e.g. /usr/lib/<name>.d)
	TierVendor
)

// String returns the string representation of Tier
func (t Tier) String() string {
	switch t {
	case TierBase:
		return "base"
	case TierAdmin:
		return "admin"
	case TierVendor:
		return "vendor"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// ParseTier creates a Tier with validation
func ParseTier(value string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "base":
		return TierBase, nil
	case "admin", "etc":
		return TierAdmin, nil
	case "vendor", "usr":
		return TierVendor, nil
	default:
		return 0, fmt.Errorf("invalid tier: %q", value)
	}
}

// Valid reports whether t is one of the known tiers
func (t Tier) Valid() bool {
	return t == TierBase || t == TierAdmin || t == TierVendor
}

// MarshalText implements encoding.TextMarshaler
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier: %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
