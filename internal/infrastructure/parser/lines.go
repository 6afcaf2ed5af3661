// Package parser converts raw fragment text into ordered settings for the
// supported drop-in syntaxes. Every parser returns the settings it could
// read even when some lines were rejected; the error then lists the
// rejected lines.
package parser

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	"github.com/samber/oops"

	"kilometers.ai/dropin/internal/core/domain/dropin"
	dropinports "kilometers.ai/dropin/internal/core/ports/dropin"
)

// line is one logical line after continuation joining
type line struct {
	num  int
	text string
}

func isComment(s string) bool {
	return strings.HasPrefix(s, "#") || strings.HasPrefix(s, ";")
}

// scanError records the line at which reading stopped
type scanError struct {
	num int
	err error
}

func (e *scanError) Error() string { return e.err.Error() }

func (e *scanError) Unwrap() error { return e.err }

// logicalLines splits data into trimmed, non-empty, non-comment lines.
// When continuation is set a trailing backslash joins the next line with a
// single space; comment lines inside a continuation are skipped. Lines read
// before a scanning failure are returned along with a *scanError.
func logicalLines(data []byte, continuation bool) ([]line, error) {
	var (
		out     []line
		pending strings.Builder
		start   int
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	num := 0
	for scanner.Scan() {
		num++
		text := strings.TrimSpace(scanner.Text())

		if pending.Len() > 0 && isComment(text) {
			continue
		}
		if pending.Len() == 0 && (text == "" || isComment(text)) {
			continue
		}
		if pending.Len() == 0 {
			start = num
		}

		if continuation && strings.HasSuffix(text, "\\") {
			pending.WriteString(strings.TrimSuffix(text, "\\"))
			pending.WriteString(" ")
			continue
		}

		pending.WriteString(text)
		out = append(out, line{num: start, text: strings.TrimSpace(pending.String())})
		pending.Reset()
	}
	if pending.Len() > 0 {
		out = append(out, line{num: start, text: strings.TrimSpace(pending.String())})
	}
	if err := scanner.Err(); err != nil {
		return out, &scanError{num: num + 1, err: err}
	}
	return out, nil
}

// lineError builds an attributed error for a rejected line
func lineError(name string, l line, format string, args ...any) error {
	return oops.
		In("parser").
		With("file", name, "line", l.num).
		Errorf("%s:%d: "+format, append([]any{name, l.num}, args...)...)
}

// collect gathers per-line errors into one
type collect []error

// stopped records a scanning failure; everything after it is unread
func (c collect) stopped(name string, err error) collect {
	if err == nil {
		return c
	}
	num := 0
	var se *scanError
	if errors.As(err, &se) {
		num = se.num
		err = se.err
	}
	return append(c, oops.
		In("parser").
		With("file", name, "line", num).
		Wrapf(err, "%s:%d: reading stopped, later lines ignored", name, num))
}

func (c collect) err() error {
	return errors.Join(c...)
}

// ForSyntax returns the parser for a domain's syntax
func ForSyntax(domain dropin.Domain) (dropinports.Parser, error) {
	switch domain.Syntax {
	case dropin.SyntaxINI:
		return NewINIParser(domain.Section), nil
	case dropin.SyntaxKeyValue:
		return NewKeyValueParser(), nil
	case dropin.SyntaxLimits:
		return NewLimitsParser(), nil
	default:
		return nil, oops.
			In("parser").
			With("domain", domain.Name).
			Errorf("no parser for syntax %q", domain.Syntax)
	}
}
