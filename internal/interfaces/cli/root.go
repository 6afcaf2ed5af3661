package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"kilometers.ai/dropin/internal/application/audit"
	"kilometers.ai/dropin/internal/infrastructure/config"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Options carries the global flags to the container
type Options struct {
	ConfigPath string
	Debug      bool

	// Overrides holds flags the user set explicitly, keyed by config key
	Overrides map[string]interface{}
}

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Audit     *audit.Service
	Config    *config.AppConfig
	Validator *config.ConfigValidator
	Logger    hclog.Logger

	// MainContainer builds the fields above once flags are parsed.
	// Will be set to *di.Container, avoiding circular import.
	MainContainer interface{}
}

// configurer is implemented by the main container
type configurer interface {
	Configure(opts Options) error
}

// NewRootCommand creates the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "dropin",
		Short: "Drop-in configuration resolver and auditor",
		Long: `dropin resolves the effective configuration of daemons that layer a base
file with drop-in fragments from an administrator tree (/etc) and a vendor
tree (/usr/lib).

For every key it reports the value in effect and the file that supplied it,
which vendor fragments are shadowed by same-named admin fragments, and which
files contribute nothing.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configure(cmd, container)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default is $HOME/.config/dropin/config.yaml)")
	rootCmd.PersistentFlags().String("root", "/", "Filesystem root or afs URL to audit (e.g. /mnt/image)")
	rootCmd.PersistentFlags().Bool("strict", false, "Fail on unreadable or malformed fragments")
	rootCmd.PersistentFlags().StringP("output", "o", config.OutputTable, "Output format: table, json or yaml")

	rootCmd.AddCommand(NewDomainsCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))
	rootCmd.AddCommand(NewResolveCommand(container))
	rootCmd.AddCommand(NewGetCommand(container))
	rootCmd.AddCommand(NewValidateCommand(container))
	rootCmd.AddCommand(NewBrowseCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// configure applies explicitly set flags and builds the dependencies
func configure(cmd *cobra.Command, container *CLIContainer) error {
	mainContainer, ok := container.MainContainer.(configurer)
	if !ok {
		// Already wired, e.g. in tests
		return nil
	}

	opts := Options{Overrides: map[string]interface{}{}}
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.Debug, _ = cmd.Flags().GetBool("debug")

	if cmd.Flags().Changed("root") {
		opts.Overrides["root"], _ = cmd.Flags().GetString("root")
	}
	if cmd.Flags().Changed("strict") {
		opts.Overrides["strict"], _ = cmd.Flags().GetBool("strict")
	}
	if cmd.Flags().Changed("output") {
		opts.Overrides["output"], _ = cmd.Flags().GetString("output")
	}

	if err := mainContainer.Configure(opts); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

// outputFormat returns the effective output format
func outputFormat(container *CLIContainer) string {
	if container.Config == nil || container.Config.Output == "" {
		return config.OutputTable
	}
	return container.Config.Output
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context, container *CLIContainer) {
	if err := Run(ctx, container, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Run executes the command line with explicit arguments and writers
func Run(ctx context.Context, container *CLIContainer, args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCommand(container)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.ExecuteContext(ctx)
}
