package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/viper"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

// EnvPrefix is the prefix of environment overrides (DROPIN_ROOT, DROPIN_STRICT, ...)
const EnvPrefix = "DROPIN"

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// AppConfig is the tool's own configuration
type AppConfig struct {
	Root           string          `mapstructure:"root" json:"root" yaml:"root"`
	Strict         bool            `mapstructure:"strict" json:"strict" yaml:"strict"`
	MaxParallel    int             `mapstructure:"max_parallel" json:"max_parallel" yaml:"max_parallel"`
	Output         string          `mapstructure:"output" json:"output" yaml:"output"`
	BuiltinDomains bool            `mapstructure:"builtin_domains" json:"builtin_domains" yaml:"builtin_domains"`
	Domains        []dropin.Domain `mapstructure:"domains" json:"domains" yaml:"domains"`

	// ConfigFile is the file the configuration was read from, if any
	ConfigFile string `mapstructure:"-" json:"-" yaml:"-"`

	// DuplicateDomains lists names defined more than once in the
	// configured domains; the last definition is the one kept
	DuplicateDomains []string `mapstructure:"-" json:"-" yaml:"-"`
}

// LoadOptions provides configuration for how config should be loaded
type LoadOptions struct {
	// Path is an explicit config file; when set it must exist
	Path string

	// OverrideValues allows direct value overrides (typically from CLI flags)
	OverrideValues map[string]interface{}
}

// DefaultConfigDir returns $HOME/.config/dropin
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "dropin")
	}
	return filepath.Join(home, ".config", "dropin")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", "/")
	v.SetDefault("strict", false)
	v.SetDefault("max_parallel", 4)
	v.SetDefault("output", OutputTable)
	v.SetDefault("builtin_domains", true)
}

// Load reads the configuration with precedence, highest first:
// overrides, DROPIN_* environment, config file, defaults.
func Load(opts LoadOptions) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
	} else {
		v.AddConfigPath(DefaultConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.Path != "" || !errors.As(err, &notFound) {
			return nil, oops.
				In("config").
				With("path", opts.Path).
				Wrapf(err, "failed to read configuration")
		}
	}

	for key, value := range opts.OverrideValues {
		v.Set(key, value)
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, oops.
			In("config").
			With("path", v.ConfigFileUsed()).
			Wrapf(err, "failed to decode configuration")
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.DuplicateDomains = duplicateNames(cfg.Domains)
	cfg.Domains = mergeDomains(cfg.BuiltinDomains, cfg.Domains)
	return cfg, nil
}

// Default returns the configuration used when nothing is configured
func Default() *AppConfig {
	return &AppConfig{
		Root:           "/",
		MaxParallel:    4,
		Output:         OutputTable,
		BuiltinDomains: true,
		Domains:        mergeDomains(true, nil),
	}
}

// mergeDomains layers configured domains over the built-in ones by name
// and fills per-domain defaults.
func mergeDomains(builtin bool, configured []dropin.Domain) []dropin.Domain {
	byName := map[string]dropin.Domain{}
	if builtin {
		for _, d := range BuiltinDomains() {
			byName[d.Name] = d
		}
	}
	for _, d := range configured {
		if d.Suffix == "" {
			d.Suffix = ".conf"
		}
		d.Syntax = dropin.Syntax(strings.ToLower(string(d.Syntax)))
		byName[d.Name] = d
	}

	out := make([]dropin.Domain, 0, len(byName))
	for _, d := range byName {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// duplicateNames returns, sorted, the names that occur more than once
func duplicateNames(domains []dropin.Domain) []string {
	count := map[string]int{}
	for _, d := range domains {
		count[d.Name]++
	}
	var out []string
	for name, n := range count {
		if n > 1 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Domain returns the domain with the given name
func (c *AppConfig) Domain(name string) (dropin.Domain, bool) {
	for _, d := range c.Domains {
		if d.Name == name {
			return d, true
		}
	}
	return dropin.Domain{}, false
}

// DomainList returns every configured domain ordered by name
func (c *AppConfig) DomainList() []dropin.Domain {
	return append([]dropin.Domain{}, c.Domains...)
}

// DomainNames returns the configured domain names
func (c *AppConfig) DomainNames() []string {
	names := make([]string, 0, len(c.Domains))
	for _, d := range c.Domains {
		names = append(names, d.Name)
	}
	return names
}
