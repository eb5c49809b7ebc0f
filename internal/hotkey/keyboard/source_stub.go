//go:build !windows && !linux && !darwin

package keyboard

import (
	"fmt"
	"runtime"

	keys "keyscribe/internal/hotkey"
)

// NewSource на неподдерживаемых платформах всегда возвращает ошибку.
func NewSource() (keys.Source, error) {
	return nil, fmt.Errorf("global hotkeys are not supported on %s", runtime.GOOS)
}
