package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"kilometers.ai/dropin/internal/application/audit"
	"kilometers.ai/dropin/internal/core/domain/dropin"
	"kilometers.ai/dropin/internal/infrastructure/config"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	tierStyles  = map[dropin.Tier]lipgloss.Style{
		dropin.TierBase:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		dropin.TierAdmin:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		dropin.TierVendor: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
)

// writeStructured writes v as JSON or YAML
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// renderReports writes reports in the requested format
func renderReports(w io.Writer, format string, reports []audit.Report) error {
	if format != config.OutputTable {
		views := make([]audit.ReportView, 0, len(reports))
		for _, r := range reports {
			views = append(views, r.View())
		}
		if len(views) == 1 {
			return writeStructured(w, format, views[0])
		}
		return writeStructured(w, format, views)
	}

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderReportTable(w, r)
	}
	return nil
}

// renderReportTable renders one report as a key/value/source table
// followed by the file audit lists
func renderReportTable(w io.Writer, r audit.Report) {
	fmt.Fprintln(w, titleStyle.Render("▸ "+r.Domain.Name))

	entries := r.Result.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  No settings in effect."))
	} else {
		keyWidth, valueWidth := len("KEY"), len("VALUE")
		for _, e := range entries {
			keyWidth = max(keyWidth, len(e.Key))
			valueWidth = max(valueWidth, len(e.Value))
		}
		valueWidth = min(valueWidth, 48)

		row := fmt.Sprintf("  %%-%ds │ %%-%ds │ %%s", keyWidth, valueWidth)
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(row, "KEY", "VALUE", "SOURCE")))
		for _, e := range entries {
			fmt.Fprintf(w, row+"\n", e.Key, truncateString(e.Value, valueWidth), sourceLabel(e))
		}
	}

	renderFileList(w, "Files used (lowest priority first)", r.Result.FilesUsed(), mutedStyle)
	renderFileList(w, "Shadowed vendor files", r.Result.FilesShadowed(), warnStyle)
	renderFileList(w, "Files contributing nothing", r.Result.Ineffective(), mutedStyle)
}

func renderFileList(w io.Writer, title string, files []string, style lipgloss.Style) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+headerStyle.Render(title+":"))
	for _, f := range files {
		fmt.Fprintln(w, "    "+style.Render(f))
	}
}

// sourceLabel renders the provenance of an entry with its tier
func sourceLabel(e dropin.ResolvedEntry) string {
	source := e.Source
	if !e.HasSource {
		source = "(unknown file)"
	}
	style, ok := tierStyles[e.Tier]
	if !ok {
		style = mutedStyle
	}
	return source + " " + style.Render("["+e.Tier.String()+"]")
}

// renderDomains writes the configured domains
func renderDomains(w io.Writer, format string, domains []dropin.Domain) error {
	if format != config.OutputTable {
		return writeStructured(w, format, domains)
	}

	nameWidth := len("DOMAIN")
	for _, d := range domains {
		nameWidth = max(nameWidth, len(d.Name))
	}
	row := fmt.Sprintf("%%-%ds │ %%-8s │ %%s", nameWidth)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf(row, "DOMAIN", "SYNTAX", "TREES")))
	for _, d := range domains {
		fmt.Fprintf(w, row+"\n", d.Name, d.Syntax, describeTrees(d))
	}
	return nil
}

func describeTrees(d dropin.Domain) string {
	var parts []string
	if d.Base != "" {
		parts = append(parts, "base="+d.Base)
	}
	if d.AdminDir != "" {
		parts = append(parts, "admin="+d.AdminDir)
	}
	if d.VendorDir != "" {
		parts = append(parts, "vendor="+d.VendorDir)
	}
	return strings.Join(parts, " ")
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
