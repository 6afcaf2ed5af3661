package parser

import (
	"strings"

	"kilometers.ai/dropin/internal/core/domain/dropin"
	dropinports "kilometers.ai/dropin/internal/core/ports/dropin"
)

// KeyValueParser reads sysctl.d syntax: "key = value" per line.
// A leading '-' on the key is dropped and slash-separated keys are
// normalised to the dotted form.
type KeyValueParser struct{}

// NewKeyValueParser creates a new key/value parser
func NewKeyValueParser() *KeyValueParser {
	return &KeyValueParser{}
}

// Parse implements dropinports.Parser
func (p *KeyValueParser) Parse(name string, data []byte) (dropin.Settings, error) {
	var (
		pairs []dropin.Setting
		errs  collect
	)

	lines, scanErr := logicalLines(data, false)
	for _, l := range lines {
		key, value, ok := strings.Cut(l.text, "=")
		key = NormalizeSysctlKey(strings.TrimPrefix(strings.TrimSpace(key), "-"))
		if !ok || key == "" {
			errs = append(errs, lineError(name, l, "line is not an assignment: %q", l.text))
			continue
		}
		pairs = append(pairs, dropin.Setting{Key: key, Value: strings.TrimSpace(value)})
	}

	errs = errs.stopped(name, scanErr)
	return dropin.NewSettings(pairs...), errs.err()
}

// NormalizeSysctlKey converts "net/ipv4/ip_forward" to "net.ipv4.ip_forward".
// When the first separator is '/', dots and slashes swap so that interface
// names containing dots survive.
func NormalizeSysctlKey(key string) string {
	i := strings.IndexAny(key, "./")
	if i < 0 || key[i] == '.' {
		return key
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/':
			return '.'
		case '.':
			return '/'
		}
		return r
	}, key)
}

var _ dropinports.Parser = (*KeyValueParser)(nil)
