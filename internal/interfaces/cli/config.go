package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kilometers.ai/dropin/internal/infrastructure/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect the effective dropin configuration.

Values come from flags, DROPIN_* environment variables, the config file
and built-in defaults, in that order of precedence.`,
	}

	// Add subcommands
	configCmd.AddCommand(NewConfigShowCommand(container))
	configCmd.AddCommand(NewConfigPathCommand(container))

	return configCmd
}

// NewConfigShowCommand creates the show subcommand
func NewConfigShowCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Config == nil {
				return fmt.Errorf("configuration not loaded")
			}
			format := outputFormat(container)
			if format == config.OutputTable {
				format = config.OutputYAML
			}
			return writeStructured(cmd.OutOrStdout(), format, container.Config)
		},
	}
}

// NewConfigPathCommand creates the path subcommand
func NewConfigPathCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if container.Config != nil {
				path = container.Config.ConfigFile
			}
			if path == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Configuration file path: (none, searched %s)\n", config.DefaultConfigDir())
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file path: %s\n", path)
			return nil
		},
	}
}

// NewDomainsCommand creates the domains command
func NewDomainsCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List configured drop-in domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Audit == nil {
				return fmt.Errorf("audit service not initialized")
			}
			return renderDomains(cmd.OutOrStdout(), outputFormat(container), container.Audit.Domains())
		},
	}
}
