package input

import (
	"errors"
	"testing"
)

type fakeClipboard struct {
	content string
	readErr error
	writes  []string
	pastes  []string
}

func newFakePaster(cb *fakeClipboard) *Paster {
	return &Paster{
		read: func() (string, error) { return cb.content, cb.readErr },
		write: func(s string) error {
			cb.writes = append(cb.writes, s)
			cb.content = s
			return nil
		},
		chord: func() error {
			cb.pastes = append(cb.pastes, cb.content)
			return nil
		},
	}
}

func TestPasterRestoresClipboard(t *testing.T) {
	cb := &fakeClipboard{content: "old"}
	if err := newFakePaster(cb).Type("new text"); err != nil {
		t.Fatal(err)
	}
	if len(cb.pastes) != 1 || cb.pastes[0] != "new text" {
		t.Errorf("pasted %v", cb.pastes)
	}
	if cb.content != "old" {
		t.Errorf("clipboard = %q, want restored", cb.content)
	}
}

func TestPasterUnreadableClipboard(t *testing.T) {
	cb := &fakeClipboard{readErr: errors.New("no clipboard owner")}
	if err := newFakePaster(cb).Type("x"); err != nil {
		t.Fatal(err)
	}
	if len(cb.writes) != 1 {
		t.Errorf("writes = %v, want no restore", cb.writes)
	}
}

func TestPasterEmptyText(t *testing.T) {
	cb := &fakeClipboard{content: "old"}
	if err := newFakePaster(cb).Type(""); err != nil {
		t.Fatal(err)
	}
	if len(cb.writes) != 0 || len(cb.pastes) != 0 {
		t.Error("empty text should not touch the clipboard")
	}
}

func TestPasterChordError(t *testing.T) {
	cb := &fakeClipboard{}
	p := newFakePaster(cb)
	p.chord = func() error { return errors.New("no display") }
	if err := p.Type("x"); err == nil {
		t.Error("expected chord error")
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("paste") != ModePaste || ParseMode("type") != ModeType || ParseMode("bogus") != ModeType {
		t.Error("ParseMode mismatch")
	}
}
