package utils

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether we are attached to an interactive terminal. Bubble
// Tea additionally needs /dev/tty, so both checks have to pass.
func IsTTY() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}

	tty, err := os.Open("/dev/tty")
	if err != nil {
		return false
	}
	defer tty.Close()

	return true
}
