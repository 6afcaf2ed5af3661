package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kilometers.ai/dropin/internal/application/audit"
)

// NewResolveCommand creates the resolve command
func NewResolveCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [domain...]",
		Short: "Resolve the effective configuration of domains",
		Long: `Resolve the effective configuration of one or more domains.

Without arguments every configured domain is resolved. For each key the
value in effect and the file that supplied it are shown, followed by the
files used in priority order, the vendor files shadowed by admin files and
the files that contribute nothing.`,
		Example: `  dropin resolve journald
  dropin resolve sysctl limits -o json
  dropin --root /mnt/image resolve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Audit == nil {
				return fmt.Errorf("audit service not initialized")
			}

			var (
				reports []audit.Report
				err     error
			)
			if len(args) == 0 {
				reports, err = container.Audit.ResolveAll(cmd.Context())
			} else {
				reports, err = container.Audit.ResolveMany(cmd.Context(), args)
			}
			if err != nil {
				return err
			}

			return renderReports(cmd.OutOrStdout(), outputFormat(container), reports)
		},
	}
}
