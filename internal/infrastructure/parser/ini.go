package parser

import (
	"strings"

	"kilometers.ai/dropin/internal/core/domain/dropin"
	dropinports "kilometers.ai/dropin/internal/core/ports/dropin"
)

// INIParser reads systemd unit-file syntax. With a section set only that
// section's keys are kept; without one every key is qualified as
// "Section.Key".
type INIParser struct {
	section string
}

// NewINIParser creates a new INI parser
func NewINIParser(section string) *INIParser {
	return &INIParser{section: section}
}

// Parse implements dropinports.Parser
func (p *INIParser) Parse(name string, data []byte) (dropin.Settings, error) {
	var (
		pairs   []dropin.Setting
		errs    collect
		current string
	)

	lines, scanErr := logicalLines(data, true)
	for _, l := range lines {
		if strings.HasPrefix(l.text, "[") {
			if !strings.HasSuffix(l.text, "]") || len(l.text) < 3 {
				errs = append(errs, lineError(name, l, "invalid section header %q", l.text))
				current = ""
				continue
			}
			current = strings.TrimSpace(l.text[1 : len(l.text)-1])
			continue
		}

		key, value, ok := strings.Cut(l.text, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			errs = append(errs, lineError(name, l, "missing '=' in %q", l.text))
			continue
		}
		if current == "" {
			errs = append(errs, lineError(name, l, "assignment %q outside of any section", key))
			continue
		}

		switch {
		case p.section == "":
			key = current + "." + key
		case current != p.section:
			continue
		}
		pairs = append(pairs, dropin.Setting{Key: key, Value: strings.TrimSpace(value)})
	}

	errs = errs.stopped(name, scanErr)
	return dropin.NewSettings(pairs...), errs.err()
}

var _ dropinports.Parser = (*INIParser)(nil)
