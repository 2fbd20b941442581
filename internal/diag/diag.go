package diag

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

type Range struct {
	Line int // 1-based, 0 when unknown
	Col  int // 1-based, 0 when unknown
}

type Diagnostic struct {
	Code     string
	Message  string
	Severity Severity
	Range    Range
}

func Errorf(r Range, code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Severity: SeverityError, Range: r}
}

func (d Diagnostic) Format(path string) string {
	loc := path
	if d.Range.Line > 0 {
		loc = fmt.Sprintf("%s:%d:%d", path, d.Range.Line, d.Range.Col)
	}
	if d.Code != "" {
		return fmt.Sprintf("%s: %s %s: %s", loc, d.Severity.String(), d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, d.Severity.String(), d.Message)
}

// List is a set of diagnostics for one file. It is an error when it holds
// at least one SeverityError entry.
type List struct {
	Path  string
	Items []Diagnostic
}

func (l *List) Add(d Diagnostic) {
	l.Items = append(l.Items, d)
}

func (l *List) HasErrors() bool {
	for _, d := range l.Items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns l as an error when it has errors, nil otherwise.
func (l *List) Err() error {
	if !l.HasErrors() {
		return nil
	}
	return l
}

func (l *List) Error() string {
	lines := make([]string, len(l.Items))
	for i, d := range l.Items {
		lines[i] = d.Format(l.Path)
	}
	return strings.Join(lines, "\n")
}
