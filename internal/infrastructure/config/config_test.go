package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(LoadOptions{})

	require.NoError(t, err)
	assert.Equal(t, "/", cfg.Root)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 4, cfg.MaxParallel)
	assert.Equal(t, OutputTable, cfg.Output)
	assert.Empty(t, cfg.ConfigFile)
	assert.Len(t, cfg.Domains, len(BuiltinDomains()))

	d, ok := cfg.Domain("journald")
	require.True(t, ok)
	assert.Equal(t, "/etc/systemd/journald.conf.d", d.AdminDir)
	assert.Equal(t, "Journal", d.Section)
}

func TestLoad_FileAddsAndOverridesDomains(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
root: /mnt/image
strict: true
max_parallel: 2
domains:
  - name: modprobe
    admin_dir: /etc/modprobe.d
    vendor_dir: /usr/lib/modprobe.d
    syntax: KeyValue
  - name: journald
    base: /etc/systemd/journald.conf
    admin_dir: /etc/systemd/journald.conf.d
    syntax: ini
    section: Journal
`)

	cfg, err := Load(LoadOptions{Path: path})

	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "/mnt/image", cfg.Root)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 2, cfg.MaxParallel)

	modprobe, ok := cfg.Domain("modprobe")
	require.True(t, ok)
	assert.Equal(t, dropin.SyntaxKeyValue, modprobe.Syntax)
	assert.Equal(t, ".conf", modprobe.Suffix, "suffix defaults to .conf")

	journald, _ := cfg.Domain("journald")
	assert.Empty(t, journald.VendorDir, "configured domain replaces the built-in one")

	assert.True(t, isSorted(cfg.DomainNames()))
}

func TestLoad_BuiltinsCanBeDisabled(t *testing.T) {
	path := writeConfig(t, `
builtin_domains: false
domains:
  - name: only
    admin_dir: /etc/only.d
    syntax: keyvalue
`)

	cfg, err := Load(LoadOptions{Path: path})

	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, cfg.DomainNames())
}

func TestLoad_EnvironmentAndOverridePrecedence(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DROPIN_ROOT", "/from/env")
	t.Setenv("DROPIN_OUTPUT", "json")
	path := writeConfig(t, "root: /from/file\noutput: yaml\n")

	cfg, err := Load(LoadOptions{
		Path:           path,
		OverrideValues: map[string]interface{}{"output": "table"},
	})

	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Root, "environment beats file")
	assert.Equal(t, OutputTable, cfg.Output, "override beats environment")
}

func TestLoad_DuplicateConfiguredDomainsAreReported(t *testing.T) {
	path := writeConfig(t, `
domains:
  - name: modprobe
    admin_dir: /etc/modprobe.d
    syntax: keyvalue
  - name: modprobe
    admin_dir: /etc/modprobe.conf.d
    syntax: keyvalue
`)

	cfg, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)

	assert.Equal(t, []string{"modprobe"}, cfg.DuplicateDomains)
	modprobe, ok := cfg.Domain("modprobe")
	require.True(t, ok)
	assert.Equal(t, "/etc/modprobe.conf.d", modprobe.AdminDir, "last definition is kept")

	errs := NewConfigValidator().ValidateAll(cfg)
	require.Contains(t, errs, "domains.modprobe")
	assert.True(t, errors.Is(errs["domains.modprobe"], ErrInvalidDomain))
	assert.Contains(t, errs["domains.modprobe"].Error(), "more than once")
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "missing.yaml")})

	assert.Error(t, err)
}

func TestConfigValidator_ValidateDomain(t *testing.T) {
	validator := NewConfigValidator()

	tests := []struct {
		name    string
		domain  dropin.Domain
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid_ini_domain",
			domain: BuiltinDomains()[0],
		},
		{
			name:   "valid_vendor_only",
			domain: dropin.Domain{Name: "tmpfiles", VendorDir: "/usr/lib/tmpfiles.d", Syntax: dropin.SyntaxKeyValue},
		},
		{
			name:    "empty_name",
			domain:  dropin.Domain{AdminDir: "/etc/x.d", Syntax: dropin.SyntaxKeyValue},
			wantErr: true,
			errMsg:  "name cannot be empty",
		},
		{
			name:    "upper_case_name",
			domain:  dropin.Domain{Name: "Journald", AdminDir: "/etc/x.d", Syntax: dropin.SyntaxKeyValue},
			wantErr: true,
			errMsg:  "lower-case",
		},
		{
			name:    "unknown_syntax",
			domain:  dropin.Domain{Name: "x", AdminDir: "/etc/x.d", Syntax: "toml"},
			wantErr: true,
			errMsg:  "invalid syntax",
		},
		{
			name:    "section_without_ini",
			domain:  dropin.Domain{Name: "x", AdminDir: "/etc/x.d", Syntax: dropin.SyntaxKeyValue, Section: "Main"},
			wantErr: true,
			errMsg:  "only meaningful for ini",
		},
		{
			name:    "no_paths",
			domain:  dropin.Domain{Name: "x", Syntax: dropin.SyntaxKeyValue},
			wantErr: true,
			errMsg:  "at least one of",
		},
		{
			name:    "relative_path",
			domain:  dropin.Domain{Name: "x", AdminDir: "etc/x.d", Syntax: dropin.SyntaxKeyValue},
			wantErr: true,
			errMsg:  "must be absolute",
		},
		{
			name:    "unclean_path",
			domain:  dropin.Domain{Name: "x", AdminDir: "/etc/../etc/x.d", Syntax: dropin.SyntaxKeyValue},
			wantErr: true,
			errMsg:  "not clean",
		},
		{
			name:    "same_trees",
			domain:  dropin.Domain{Name: "x", AdminDir: "/etc/x.d", VendorDir: "/etc/x.d", Syntax: dropin.SyntaxKeyValue},
			wantErr: true,
			errMsg:  "must differ",
		},
		{
			name:    "glob_suffix",
			domain:  dropin.Domain{Name: "x", AdminDir: "/etc/x.d", Suffix: "*.conf", Syntax: dropin.SyntaxKeyValue},
			wantErr: true,
			errMsg:  "plain file name suffix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateDomain(tt.domain)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDomain))
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidator_ValidateDomain_PathErrorsInFieldOrder(t *testing.T) {
	validator := NewConfigValidator()
	domain := dropin.Domain{
		Name:      "x",
		Base:      "etc/x.conf",
		AdminDir:  "etc/x.d",
		VendorDir: "usr/lib/x.d",
		Syntax:    dropin.SyntaxKeyValue,
	}

	for i := 0; i < 20; i++ {
		err := validator.ValidateDomain(domain)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "x: base:")
	}
}

func TestConfigValidator_ValidateAll(t *testing.T) {
	validator := NewConfigValidator()

	assert.Empty(t, validator.ValidateAll(Default()))

	cfg := Default()
	cfg.Output = "xml"
	cfg.MaxParallel = 0
	cfg.Domains = append(cfg.Domains, cfg.Domains[0])

	errs := validator.ValidateAll(cfg)

	assert.Contains(t, errs, "output")
	assert.Contains(t, errs, "max_parallel")
	assert.Contains(t, errs, "domains."+cfg.Domains[0].Name)
}

func isSorted(names []string) bool {
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			return false
		}
	}
	return true
}
