package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hemtt-tools/hemttctl/cmd/hemttctl/commands"
)

func main() {
	err := commands.Root().Execute()
	if err == nil {
		return
	}

	// Mirror the wrapped tool's exit status; its output has already been
	// streamed, so a non-zero exit needs no extra message.
	var exitErr *commands.ExitCodeError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
