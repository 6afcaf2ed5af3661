package config

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

// ErrInvalidDomain marks a domain definition that cannot be resolved
var ErrInvalidDomain = errors.New("invalid domain")

// ConfigValidator validates configuration values
type ConfigValidator struct {
	namePattern    *regexp.Regexp
	sectionPattern *regexp.Regexp
}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		namePattern:    regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]*$`),
		sectionPattern: regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]*$`),
	}
}

// ValidateDomain validates one domain definition
func (v *ConfigValidator) ValidateDomain(d dropin.Domain) error {
	if d.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidDomain)
	}
	if !v.namePattern.MatchString(d.Name) {
		return fmt.Errorf("%w: name %q must be lower-case letters, digits, '.', '_' or '-'", ErrInvalidDomain, d.Name)
	}

	if _, err := dropin.NewSyntax(string(d.Syntax)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidDomain, d.Name, err)
	}
	if d.Section != "" && d.Syntax != dropin.SyntaxINI {
		return fmt.Errorf("%w: %s: section is only meaningful for ini syntax", ErrInvalidDomain, d.Name)
	}
	if d.Section != "" && !v.sectionPattern.MatchString(d.Section) {
		return fmt.Errorf("%w: %s: invalid section name %q", ErrInvalidDomain, d.Name, d.Section)
	}

	if d.Base == "" && d.AdminDir == "" && d.VendorDir == "" {
		return fmt.Errorf("%w: %s: at least one of base, admin_dir or vendor_dir is required", ErrInvalidDomain, d.Name)
	}
	paths := []struct{ field, value string }{
		{"base", d.Base},
		{"admin_dir", d.AdminDir},
		{"vendor_dir", d.VendorDir},
	}
	for _, p := range paths {
		if err := v.ValidatePath(p.value); err != nil {
			return fmt.Errorf("%w: %s: %s: %v", ErrInvalidDomain, d.Name, p.field, err)
		}
	}
	if d.AdminDir != "" && d.AdminDir == d.VendorDir {
		return fmt.Errorf("%w: %s: admin_dir and vendor_dir must differ", ErrInvalidDomain, d.Name)
	}

	if strings.ContainsAny(d.Suffix, "/*?[") {
		return fmt.Errorf("%w: %s: suffix %q must be a plain file name suffix", ErrInvalidDomain, d.Name, d.Suffix)
	}
	return nil
}

// ValidatePath validates an optional absolute, clean path
func (v *ConfigValidator) ValidatePath(p string) error {
	if p == "" {
		return nil
	}
	if !strings.HasPrefix(p, "/") {
		return fmt.Errorf("path %q must be absolute", p)
	}
	if path.Clean(p) != p {
		return fmt.Errorf("path %q is not clean (expected %q)", p, path.Clean(p))
	}
	return nil
}

// ValidateOutput validates the output format
func (v *ConfigValidator) ValidateOutput(output string) error {
	switch output {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (valid formats: table, json, yaml)", output)
	}
}

// ValidateMaxParallel validates the resolution concurrency limit
func (v *ConfigValidator) ValidateMaxParallel(n int) error {
	if n < 1 || n > 64 {
		return fmt.Errorf("max_parallel must be between 1 and 64, got %d", n)
	}
	return nil
}

// ValidateAll validates a whole configuration, keyed by field
func (v *ConfigValidator) ValidateAll(cfg *AppConfig) map[string]error {
	errs := make(map[string]error)

	if cfg.Root == "" {
		errs["root"] = fmt.Errorf("root cannot be empty")
	}
	if err := v.ValidateOutput(cfg.Output); err != nil {
		errs["output"] = err
	}
	if err := v.ValidateMaxParallel(cfg.MaxParallel); err != nil {
		errs["max_parallel"] = err
	}

	seen := map[string]bool{}
	for _, d := range cfg.Domains {
		key := "domains." + d.Name
		if seen[d.Name] {
			errs[key] = fmt.Errorf("%w: duplicate domain %q", ErrInvalidDomain, d.Name)
			continue
		}
		seen[d.Name] = true
		if err := v.ValidateDomain(d); err != nil {
			errs[key] = err
		}
	}
	for _, name := range cfg.DuplicateDomains {
		errs["domains."+name] = fmt.Errorf("%w: domain %q is configured more than once", ErrInvalidDomain, name)
	}
	if len(cfg.Domains) == 0 {
		errs["domains"] = fmt.Errorf("no domains configured")
	}

	return errs
}
