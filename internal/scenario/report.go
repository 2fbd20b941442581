package scenario

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON encodes reports as an indented JSON array.
func WriteJSON(w io.Writer, reports []*Report) error {
	b, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding report")
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return errors.Wrap(err, "writing report")
	}
	return nil
}

// WriteText renders one line per check plus a summary. Colour is used only
// when colorize is set.
func WriteText(w io.Writer, reports []*Report, colorize bool) error {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)
	for _, c := range []*color.Color{pass, fail, dim} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var b strings.Builder
	total, failed := 0, 0
	for _, r := range reports {
		fmt.Fprintf(&b, "%s %s\n", r.Scenario, dim.Sprint("("+r.Path+")"))
		for _, res := range r.Results {
			total++
			status := pass.Sprint("PASS")
			if !res.Passed {
				failed++
				status = fail.Sprint("FAIL")
			}
			fmt.Fprintf(&b, "  %s %s", status, res.Check)
			if len(res.Got) > 0 {
				fmt.Fprintf(&b, " %s", dim.Sprint("["+strings.Join(res.Got, ", ")+"]"))
			}
			b.WriteString("\n")
			if !res.Passed {
				fmt.Fprintf(&b, "       %s\n", res.Reason)
			}
		}
	}
	summary := pass.Sprintf("%d passed", total-failed)
	if failed > 0 {
		summary += ", " + fail.Sprintf("%d failed", failed)
	}
	fmt.Fprintf(&b, "%s\n", summary)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Wrap(err, "writing report")
	}
	return nil
}
