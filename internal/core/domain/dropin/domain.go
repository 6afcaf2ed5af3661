package dropin

import (
	"fmt"
	"strings"
)

// Syntax names the fragment file format of a domain
type Syntax string

const (
	// SyntaxINI is the systemd unit-file format with [Section] headers
	SyntaxINI Syntax = "ini"
	// SyntaxKeyValue is the sysctl.d "key = value" format
	SyntaxKeyValue Syntax = "keyvalue"
	// SyntaxLimits is the pam_limits "<domain> <type> <item> <value>" format
	SyntaxLimits Syntax = "limits"
)

// NewSyntax creates a Syntax with validation
func NewSyntax(value string) (Syntax, error) {
	switch s := Syntax(strings.ToLower(strings.TrimSpace(value))); s {
	case SyntaxINI, SyntaxKeyValue, SyntaxLimits:
		return s, nil
	default:
		return "", fmt.Errorf("invalid syntax: %q (must be ini, keyvalue or limits)", value)
	}
}

// String returns the string representation of Syntax
func (s Syntax) String() string {
	return string(s)
}

// Domain describes where the files of one configuration domain live
type Domain struct {
	Name      string `json:"name" yaml:"name" mapstructure:"name"`
	Base      string `json:"base,omitempty" yaml:"base,omitempty" mapstructure:"base"`
	AdminDir  string `json:"admin_dir,omitempty" yaml:"admin_dir,omitempty" mapstructure:"admin_dir"`
	VendorDir string `json:"vendor_dir,omitempty" yaml:"vendor_dir,omitempty" mapstructure:"vendor_dir"`
	Suffix    string `json:"suffix,omitempty" yaml:"suffix,omitempty" mapstructure:"suffix"`
	Syntax    Syntax `json:"syntax" yaml:"syntax" mapstructure:"syntax"`
	Section   string `json:"section,omitempty" yaml:"section,omitempty" mapstructure:"section"`
}

// Matches reports whether a file name belongs to the domain's drop-in set
func (d Domain) Matches(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	if d.Suffix == "" {
		return true
	}
	return strings.HasSuffix(name, d.Suffix) && len(name) > len(d.Suffix)
}
