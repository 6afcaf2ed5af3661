package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kilometers.ai/dropin/internal/infrastructure/config"
)

// NewGetCommand creates the get command
func NewGetCommand(container *CLIContainer) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "get <domain> <key>",
		Short: "Print the effective value of one key",
		Long: `Print the effective value of one key of a domain.

The command fails when the key is not set by any fragment.`,
		Example: `  dropin get journald Storage
  dropin get sysctl net.ipv4.ip_forward --source`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Audit == nil {
				return fmt.Errorf("audit service not initialized")
			}

			entry, ok, err := container.Audit.Lookup(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key %q is not set in domain %q", args[1], args[0])
			}

			format := outputFormat(container)
			if format != config.OutputTable {
				return writeStructured(cmd.OutOrStdout(), format, entry)
			}

			out := cmd.OutOrStdout()
			if !showSource {
				fmt.Fprintln(out, entry.Value)
				return nil
			}
			source := entry.Source
			if !entry.HasSource {
				source = "-"
			}
			fmt.Fprintf(out, "%s\t%s\t%s\n", entry.Value, source, entry.Tier)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "Also print the file and tier that supplied the value")

	return cmd
}
