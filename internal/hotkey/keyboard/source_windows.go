//go:build windows

package keyboard

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	keys "keyscribe/internal/hotkey"
	"keyscribe/internal/logger"
)

var (
	user32                  = syscall.NewLazyDLL("user32.dll")
	kernel32                = syscall.NewLazyDLL("kernel32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetCurrentThreadId  = kernel32.NewProc("GetCurrentThreadId")
)

const (
	whKeyboardLL  = 13
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmSysKeyDown  = 0x0104
	wmSysKeyUp    = 0x0105
	wmQuit        = 0x0012
	llkhfInjected = 0x10
)

type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type winMsg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	PtX     int32
	PtY     int32
}

// hookSource перехватывает все нажатия через WH_KEYBOARD_LL.
// Клавиши никогда не поглощаются: CallNextHookEx вызывается всегда.
type hookSource struct {
	events   chan keys.Event
	tracker  keys.ModifierTracker
	threadID uintptr
	done     chan struct{}
	once     sync.Once
}

// NewSource устанавливает low-level hook клавиатуры в отдельном OS-потоке.
func NewSource() (keys.Source, error) {
	s := &hookSource{
		events: make(chan keys.Event, 256),
		done:   make(chan struct{}),
	}

	errCh := make(chan error, 1)
	go s.loop(errCh)

	select {
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
		return s, nil
	case <-time.After(2 * time.Second):
		return nil, fmt.Errorf("timeout installing low-level hook")
	}
}

func (s *hookSource) loop(errCh chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(s.done)

	tid, _, _ := procGetCurrentThreadId.Call()
	s.threadID = tid

	callback := syscall.NewCallback(func(nCode, wParam, lParam uintptr) uintptr {
		if int32(nCode) >= 0 {
			k := (*kbdllHookStruct)(unsafe.Pointer(lParam))
			if k.flags&llkhfInjected == 0 {
				switch uint32(wParam) {
				case wmKeyDown, wmSysKeyDown:
					s.pushKey(keys.Down, k.vkCode)
				case wmKeyUp, wmSysKeyUp:
					s.pushKey(keys.Up, k.vkCode)
				}
			}
		}
		ret, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
		return ret
	})

	hook, _, err := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), callback, 0, 0)
	if hook == 0 {
		errCh <- fmt.Errorf("SetWindowsHookExW failed: %w", err)
		return
	}
	logger.Info("low-level keyboard hook installed")
	errCh <- nil

	var msg winMsg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(ret) == -1 {
			logger.Error("GetMessageW failed; exiting hook loop")
			break
		}
		if ret == 0 {
			break
		}
	}

	procUnhookWindowsHookEx.Call(hook)
	close(s.events)
	logger.Info("low-level keyboard hook uninstalled")
}

// pushKey вызывается только из потока хука.
func (s *hookSource) pushKey(state keys.KeyState, vk uint32) {
	for _, name := range s.tracker.Names(state, vk) {
		s.push(keys.Event{State: state, Name: name})
	}
}

// push не блокирует поток хука: при переполнении событие теряется.
func (s *hookSource) push(ev keys.Event) {
	if ev.Name == "" {
		return
	}
	select {
	case s.events <- ev:
	default:
		logger.Warn("key event dropped", "state", ev.State.String(), "key", ev.Name)
	}
}

func (s *hookSource) Events() <-chan keys.Event {
	return s.events
}

// Watch не нужен: хук видит все клавиши, комбинацию проверяет Machine.
func (s *hookSource) Watch(keys.Spec) error {
	return nil
}

func (s *hookSource) Close() error {
	s.once.Do(func() {
		procPostThreadMessageW.Call(s.threadID, wmQuit, 0, 0)
	})
	<-s.done
	return nil
}
