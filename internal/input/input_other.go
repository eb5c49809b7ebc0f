//go:build !linux && !windows && !darwin

package input

import (
	"fmt"
	"runtime"
)

func newTyper() (Typer, error) {
	return nil, fmt.Errorf("text input is not supported on %s", runtime.GOOS)
}

func pasteChord() error {
	return fmt.Errorf("paste is not supported on %s", runtime.GOOS)
}
