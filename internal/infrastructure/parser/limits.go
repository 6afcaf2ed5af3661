package parser

import (
	"strings"

	"kilometers.ai/dropin/internal/core/domain/dropin"
	dropinports "kilometers.ai/dropin/internal/core/ports/dropin"
)

// LimitsParser reads pam_limits syntax: "<domain> <type> <item> <value>".
// The key is "<domain> <type> <item>".
type LimitsParser struct{}

// NewLimitsParser creates a new limits parser
func NewLimitsParser() *LimitsParser {
	return &LimitsParser{}
}

var limitTypes = map[string]bool{"soft": true, "hard": true, "-": true}

// Parse implements dropinports.Parser
func (p *LimitsParser) Parse(name string, data []byte) (dropin.Settings, error) {
	var (
		pairs []dropin.Setting
		errs  collect
	)

	lines, scanErr := logicalLines(data, false)
	for _, l := range lines {
		text, _, _ := strings.Cut(l.text, "#")
		fields := strings.Fields(text)
		if len(fields) != 4 {
			errs = append(errs, lineError(name, l, "expected 4 fields, got %d", len(fields)))
			continue
		}
		if !limitTypes[fields[1]] {
			errs = append(errs, lineError(name, l, "invalid limit type %q", fields[1]))
			continue
		}
		pairs = append(pairs, dropin.Setting{
			Key:   strings.Join(fields[:3], " "),
			Value: fields[3],
		})
	}

	errs = errs.stopped(name, scanErr)
	return dropin.NewSettings(pairs...), errs.err()
}

var _ dropinports.Parser = (*LimitsParser)(nil)
