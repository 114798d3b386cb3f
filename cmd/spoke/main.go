// Command spoke submits, renders and inspects Spoke order requests, and can
// run a local fake of the order API.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/reoring/spoke/validate"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	if iss, ok := validate.AsIssues(err); ok {
		fmt.Fprintln(w, "invalid parameters:")
		for _, it := range iss {
			line := fmt.Sprintf("  %s [%s] %s", it.Path, it.Code, it.Message)
			if it.Hint != "" {
				line += " (" + it.Hint + ")"
			}
			fmt.Fprintln(w, line)
		}
		return
	}
	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(w, "usage:", ue.Error())
		return
	}
	fmt.Fprintln(w, "error:", err)
}
