package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Chart rendered / document valid
	ExitInvalid = 1 // Document failed validation
	ExitError   = 2 // Configuration, input or runtime error
)

// ValidationFailedError indicates that the document was read but does not
// describe a drawable schedule.
type ValidationFailedError struct {
	Message string
}

func (e *ValidationFailedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var invalid *ValidationFailedError
		if errors.As(err, &invalid) {
			os.Exit(ExitInvalid)
		}

		os.Exit(ExitError)
	}
}
