package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command
func NewValidateCommand(container *CLIContainer) *cobra.Command {
	var loadDomains bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and domain definitions",
		Long: `Validate the dropin configuration.

This command will:
- Check global settings (root, output, max_parallel)
- Check every domain definition
- With --load, read and parse every domain's fragments`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, container, loadDomains)
		},
	}

	cmd.Flags().BoolVar(&loadDomains, "load", false, "Also load and parse every domain's fragments")

	return cmd
}

// runValidate handles the validation process
func runValidate(cmd *cobra.Command, container *CLIContainer, loadDomains bool) error {
	if container.Config == nil || container.Validator == nil {
		return fmt.Errorf("configuration not loaded")
	}
	out := cmd.OutOrStdout()

	fmt.Fprint(out, "Checking configuration... ")
	errs := container.Validator.ValidateAll(container.Config)
	if len(errs) > 0 {
		fmt.Fprintln(out, "❌ Failed")
		keys := make([]string, 0, len(errs))
		for key := range errs {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(out, "  %s: %v\n", key, errs[key])
		}
		return fmt.Errorf("configuration has %d error(s)", len(errs))
	}
	fmt.Fprintf(out, "✅ %d domain(s) valid\n", len(container.Config.Domains))

	if loadDomains {
		fmt.Fprint(out, "Loading fragments... ")
		if container.Audit == nil {
			fmt.Fprintln(out, "❌ Failed")
			return fmt.Errorf("audit service not initialized")
		}
		reports, err := container.Audit.ResolveAll(cmd.Context())
		if err != nil {
			fmt.Fprintln(out, "❌ Failed")
			return err
		}
		fmt.Fprintf(out, "✅ %d domain(s) resolved\n", len(reports))
	}

	return nil
}
