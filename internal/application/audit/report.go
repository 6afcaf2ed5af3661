package audit

import (
	"time"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

// Report is the resolution of one domain
type Report struct {
	Domain     dropin.Domain
	Result     dropin.Result
	ResolvedAt time.Time
}

// ReportView is the serialisable form of a Report
type ReportView struct {
	Domain        string                 `json:"domain" yaml:"domain"`
	ResolvedAt    time.Time              `json:"resolved_at" yaml:"resolved_at"`
	Active        []dropin.ResolvedEntry `json:"active" yaml:"active"`
	FilesUsed     []string               `json:"files_used_priority_order" yaml:"files_used_priority_order"`
	FilesShadowed []string               `json:"files_shadowed_not_used" yaml:"files_shadowed_not_used"`
	Ineffective   []string               `json:"files_ineffective,omitempty" yaml:"files_ineffective,omitempty"`
	Chain         []dropin.ChainLink     `json:"chain" yaml:"chain"`
}

// View converts the report for JSON or YAML output
func (r Report) View() ReportView {
	return ReportView{
		Domain:        r.Domain.Name,
		ResolvedAt:    r.ResolvedAt,
		Active:        r.Result.Entries(),
		FilesUsed:     r.Result.FilesUsed(),
		FilesShadowed: r.Result.FilesShadowed(),
		Ineffective:   r.Result.Ineffective(),
		Chain:         r.Result.Chain(),
	}
}
