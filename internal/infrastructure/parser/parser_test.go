package parser

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kilometers.ai/dropin/internal/core/domain/dropin"
)

func pairs(s dropin.Settings) map[string]string {
	out := map[string]string{}
	for _, p := range s.Pairs() {
		out[p.Key] = p.Value
	}
	return out
}

// TestINIParser_Journald tests a typical journald drop-in
func TestINIParser_Journald(t *testing.T) {
	data := []byte(`# comment
; also a comment
[Journal]
Storage=persistent
Compress = yes
Storage=volatile

[Other]
Storage=ignored
`)

	settings, err := NewINIParser("Journal").Parse("a.conf", data)

	require.NoError(t, err)
	assert.Equal(t, []string{"Storage", "Compress"}, settings.Keys())
	assert.Equal(t, map[string]string{"Storage": "volatile", "Compress": "yes"}, pairs(settings))
}

// TestINIParser_Continuation tests backslash line joining
func TestINIParser_Continuation(t *testing.T) {
	data := []byte("[Login]\nKillExcludeUsers=root \\\n# skipped\n  admin\nHandlePowerKey=ignore\n")

	settings, err := NewINIParser("Login").Parse("x.conf", data)

	require.NoError(t, err)
	v, _ := settings.Get("KillExcludeUsers")
	assert.Equal(t, "root  admin", v)
	v, _ = settings.Get("HandlePowerKey")
	assert.Equal(t, "ignore", v)
}

// TestINIParser_QualifiesWithoutSection tests unfiltered parsing
func TestINIParser_QualifiesWithoutSection(t *testing.T) {
	settings, err := NewINIParser("").Parse("x.conf", []byte("[A]\nk=1\n[B]\nk=2\n"))

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A.k": "1", "B.k": "2"}, pairs(settings))
}

// TestINIParser_PartialOnError tests that valid lines survive bad ones
func TestINIParser_PartialOnError(t *testing.T) {
	data := []byte("Orphan=1\n[Journal\n[Journal]\nnot an assignment\nSeal=no\n")

	settings, err := NewINIParser("Journal").Parse("bad.conf", data)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.conf:1")
	assert.Contains(t, err.Error(), "bad.conf:2")
	assert.Contains(t, err.Error(), "bad.conf:4")
	assert.Equal(t, map[string]string{"Seal": "no"}, pairs(settings))
}

// TestINIParser_CommentOnly tests that comment-only files yield empty settings
func TestINIParser_CommentOnly(t *testing.T) {
	settings, err := NewINIParser("Journal").Parse("empty.conf", []byte("# nothing\n\n[Journal]\n#Storage=auto\n"))

	require.NoError(t, err)
	assert.True(t, settings.IsEmpty())
}

// TestKeyValueParser_Sysctl tests sysctl.d syntax
func TestKeyValueParser_Sysctl(t *testing.T) {
	data := []byte(`# kernel tuning
kernel.pid_max = 65536
-net.ipv4.conf.all.rp_filter=1
net/ipv4/conf/eth0.100/forwarding = 1
; comment
kernel.pid_max = 4194304
`)

	settings, err := NewKeyValueParser().Parse("50-default.conf", data)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"kernel.pid_max":                    "4194304",
		"net.ipv4.conf.all.rp_filter":       "1",
		"net.ipv4.conf.eth0/100.forwarding": "1",
	}, pairs(settings))
}

// TestKeyValueParser_RejectsNonAssignment tests error reporting
func TestKeyValueParser_RejectsNonAssignment(t *testing.T) {
	settings, err := NewKeyValueParser().Parse("x.conf", []byte("garbage\nvm.swappiness=10\n= 3\n"))

	require.Error(t, err)
	assert.Equal(t, 1, settings.Len())
}

// TestNormalizeSysctlKey tests key normalisation
func TestNormalizeSysctlKey(t *testing.T) {
	tests := map[string]string{
		"kernel.pid_max":          "kernel.pid_max",
		"kernel/pid_max":          "kernel.pid_max",
		"net/ipv4/conf/eth0.1/rp": "net.ipv4.conf.eth0/1.rp",
		"net.ipv4.conf.eth0/1.rp": "net.ipv4.conf.eth0/1.rp",
		"plain":                   "plain",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSysctlKey(in), in)
	}
}

// TestLimitsParser tests pam_limits syntax
func TestLimitsParser(t *testing.T) {
	data := []byte(`#<domain> <type> <item> <value>
*        soft    nofile   1024
*        hard    nofile   4096   # trailing comment
@audio   -       rtprio   95
*        soft    nofile   2048
bad line
root     medium  core     0
`)

	settings, err := NewLimitsParser().Parse("limits.conf", data)

	require.Error(t, err)
	assert.Equal(t, map[string]string{
		"* soft nofile":   "2048",
		"* hard nofile":   "4096",
		"@audio - rtprio": "95",
	}, pairs(settings))
}

// TestForSyntax tests parser selection
func TestForSyntax(t *testing.T) {
	p, err := ForSyntax(dropin.Domain{Syntax: dropin.SyntaxINI, Section: "Journal"})
	require.NoError(t, err)
	assert.IsType(t, &INIParser{}, p)

	p, err = ForSyntax(dropin.Domain{Syntax: dropin.SyntaxKeyValue})
	require.NoError(t, err)
	assert.IsType(t, &KeyValueParser{}, p)

	p, err = ForSyntax(dropin.Domain{Syntax: dropin.SyntaxLimits})
	require.NoError(t, err)
	assert.IsType(t, &LimitsParser{}, p)

	_, err = ForSyntax(dropin.Domain{Name: "x", Syntax: "toml"})
	assert.Error(t, err)
}

// TestParsers_OverlongLineIsReported tests that a line past the scanner
// limit surfaces as an error instead of silently ending the file
func TestParsers_OverlongLineIsReported(t *testing.T) {
	huge := strings.Repeat("x", 2*1024*1024)

	tests := []struct {
		name   string
		parser interface {
			Parse(string, []byte) (dropin.Settings, error)
		}
		data     string
		line     string
		expected map[string]string
	}{
		{
			name:     "keyvalue",
			parser:   NewKeyValueParser(),
			data:     "a = 1\nb = " + huge + "\nc = 3\n",
			line:     "big.conf:2:",
			expected: map[string]string{"a": "1"},
		},
		{
			name:     "ini",
			parser:   NewINIParser("Journal"),
			data:     "[Journal]\nStorage=volatile\nSeal=" + huge + "\nCompress=yes\n",
			line:     "big.conf:3:",
			expected: map[string]string{"Storage": "volatile"},
		},
		{
			name:     "limits",
			parser:   NewLimitsParser(),
			data:     "* soft nofile 1024\n* hard nofile " + huge + "\n* soft nproc 10\n",
			line:     "big.conf:2:",
			expected: map[string]string{"* soft nofile": "1024"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings, err := tt.parser.Parse("big.conf", []byte(tt.data))

			require.Error(t, err)
			assert.True(t, errors.Is(err, bufio.ErrTooLong))
			assert.Contains(t, err.Error(), tt.line)
			assert.Equal(t, tt.expected, pairs(settings), "lines before the failure are kept")
		})
	}
}
