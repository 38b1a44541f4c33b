package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator reports the progress of one step. On a terminal it animates a spinner;
// elsewhere it prints a single line when the step ends.
type Indicator struct {
	out     io.Writer
	symbols ProgressSymbols
	spin    *spinner.Spinner
	message string
}

// Start begins a step with the given message. The spinner only animates when caps.IsTTY.
func Start(out io.Writer, caps TerminalCapabilities, message string) *Indicator {
	ind := &Indicator{
		out:     out,
		symbols: SelectSymbols(caps),
		message: message,
	}

	if caps.IsTTY {
		ind.spin = spinner.New(spinner.CharSets[ind.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(out))
		ind.spin.Suffix = " " + message
		ind.spin.Start()
	}
	return ind
}

// Succeed ends the step with a checkmark. An empty detail keeps the start message.
func (i *Indicator) Succeed(detail string) {
	i.finish(i.symbols.Checkmark, detail)
}

// Fail ends the step with a failure mark.
func (i *Indicator) Fail(detail string) {
	i.finish(i.symbols.Failure, detail)
}

func (i *Indicator) finish(symbol, detail string) {
	if i == nil {
		return
	}
	if i.spin != nil {
		i.spin.Stop()
		i.spin = nil
	}
	if detail == "" {
		detail = i.message
	}
	fmt.Fprintf(i.out, "%s %s\n", symbol, detail)
}
