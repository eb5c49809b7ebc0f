//go:build linux

package input

import (
	"fmt"
	"os"
	"os/exec"
)

// linuxTyper вводит текст через xdotool (X11) или wtype (Wayland).
type linuxTyper struct {
	wayland bool
}

func newTyper() (Typer, error) {
	t := &linuxTyper{wayland: isWayland()}
	if _, err := exec.LookPath(t.tool()); err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", t.tool(), err)
	}
	return t, nil
}

func isWayland() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

func (t *linuxTyper) tool() string {
	if t.wayland {
		return "wtype"
	}
	return "xdotool"
}

func (t *linuxTyper) Type(text string) error {
	var cmd *exec.Cmd
	if t.wayland {
		cmd = exec.Command("wtype", "--", text)
	} else {
		cmd = exec.Command("xdotool", "type", "--clearmodifiers", "--", text)
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", t.tool(), err, out)
	}
	return nil
}

func pasteChord() error {
	var cmd *exec.Cmd
	if isWayland() {
		cmd = exec.Command("wtype", "-M", "ctrl", "v", "-m", "ctrl")
	} else {
		cmd = exec.Command("xdotool", "key", "--clearmodifiers", "ctrl+v")
	}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: %s", err, out)
	}
	return nil
}
