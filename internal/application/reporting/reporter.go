// Package reporting renders screening results as the plain-text Rule of Five
// report or as JSON.
package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/turtacn/druglike/pkg/errors"
	"github.com/turtacn/druglike/pkg/types/molecule"
)

// Format selects the report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates s.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", errors.InvalidParam(fmt.Sprintf("unknown report format %q; expected text|json", s))
}

// Separator ends every item of the text report.
var Separator = strings.Repeat("-", 40)

// invalidMessage is printed for notations the toolkit rejects.
const invalidMessage = "Invalid SMILES string provided."

// Reporter writes a batch of items to w.
type Reporter interface {
	Write(w io.Writer, items []molecule.BatchItemDTO) error
}

// New returns the reporter for f. color only affects the text format.
func New(f Format, color bool) Reporter {
	if f == FormatJSON {
		return JSONReporter{Indent: "  "}
	}
	return NewTextReporter(color)
}

// ─────────────────────────────────────────────────────────────────────────────
// Text
// ─────────────────────────────────────────────────────────────────────────────

// TextReporter prints the line-oriented report:
//
//	SMILES: CCO
//	Molecular Weight: 46.07 < 500 -> Pass
//	...
//	Overall: Passes Rule of 5
//	----------------------------------------
type TextReporter struct {
	pass, fail, errStyle lipgloss.Style
	color                bool
}

func NewTextReporter(color bool) *TextReporter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	return &TextReporter{
		pass:     r.NewStyle().Foreground(lipgloss.Color("#2CD7C7")),
		fail:     r.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true),
		errStyle: r.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
		color:    color,
	}
}

func (t *TextReporter) Write(w io.Writer, items []molecule.BatchItemDTO) error {
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "SMILES: %s\n", it.SMILES)
		switch {
		case it.Outcome != nil:
			for _, c := range it.Outcome.Criteria {
				fmt.Fprintf(&sb, "%s: %s -> %s\n", c.Criterion, c.Description, t.verdict(c.Passed, "Pass", "Fail"))
			}
			fmt.Fprintf(&sb, "Overall: %s\n", t.verdict(it.Outcome.PassesAll, "Passes Rule of 5", "Fails Rule of 5"))
		case it.Error != nil:
			fmt.Fprintf(&sb, "Error: %s\n", t.paint(t.errStyle, ErrorMessage(it.Error.Code, it.Error.Message, it.Error.Detail)))
		}
		sb.WriteString(Separator + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (t *TextReporter) verdict(ok bool, yes, no string) string {
	if ok {
		return t.paint(t.pass, yes)
	}
	return t.paint(t.fail, no)
}

func (t *TextReporter) paint(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return s.Render(text)
}

// ErrorMessage is the text shown after "Error: " for a failed item.
func ErrorMessage(code, message, detail string) string {
	if code == errors.ErrCodeMoleculeInvalidSMILES.String() {
		message = invalidMessage
		if detail != "" {
			return message + " (" + detail + ")"
		}
		return message
	}
	if detail != "" {
		return message + ": " + detail
	}
	return message
}

// ColorEnabled resolves a "auto" | "always" | "never" setting for w. Auto
// colours only terminals and honours NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
