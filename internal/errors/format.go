package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette holds the colors of one rendering; the zero palette prints plain text.
type palette struct {
	label, message, category, fix, usage, bullet func(a ...interface{}) string
}

func newPalette(colored bool) palette {
	if !colored {
		return palette{fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint, fmt.Sprint}
	}
	return palette{
		label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		message:  color.New(color.FgRed).SprintFunc(),
		category: color.New(color.FgYellow).SprintFunc(),
		fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		usage:    color.New(color.FgCyan).SprintFunc(),
		bullet:   color.New(color.FgGreen).SprintFunc(),
	}
}

// FormatError renders err for the terminal. Colors follow fatih/color's detection and
// are dropped when color.NoColor is set.
func FormatError(err *CLIError) string {
	return render(err, !color.NoColor)
}

// FormatErrorPlain renders err without colors.
func FormatErrorPlain(err *CLIError) string {
	return render(err, false)
}

// render lays out an error as:
//
//	Error [Category]: message
//
//	Usage: syntax
//
//	To fix this:
//	  • step
func render(err *CLIError, colored bool) string {
	if err == nil {
		return ""
	}
	p := newPalette(colored)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Error()))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s %s\n", p.usage("Usage:"), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}
	return sb.String()
}

// FprintError writes the formatted err to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	io.WriteString(w, FormatError(err))
}

// FprintAny writes err to w. A CLIError in err's chain is used as is; anything else is
// shown as a Runtime error.
func FprintAny(w io.Writer, err error) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = Wrap(err, Runtime)
	}
	FprintError(w, cliErr)
}
