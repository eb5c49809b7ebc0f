//go:build darwin

package input

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Foundation
#import <ApplicationServices/ApplicationServices.h>
#import <Foundation/Foundation.h>
#include <stdlib.h>

static void typeText(const char* text) {
    NSString *str = [NSString stringWithUTF8String:text];
    for (NSUInteger i = 0; i < [str length]; i++) {
        unichar c = [str characterAtIndex:i];
        CGEventRef down = CGEventCreateKeyboardEvent(NULL, 0, true);
        CGEventRef up = CGEventCreateKeyboardEvent(NULL, 0, false);
        CGEventKeyboardSetUnicodeString(down, 1, &c);
        CGEventKeyboardSetUnicodeString(up, 1, &c);
        CGEventPost(kCGHIDEventTap, down);
        CGEventPost(kCGHIDEventTap, up);
        CFRelease(down);
        CFRelease(up);
    }
}

// kVK_ANSI_V = 9
static void pasteCommandV(void) {
    CGEventRef down = CGEventCreateKeyboardEvent(NULL, 9, true);
    CGEventRef up = CGEventCreateKeyboardEvent(NULL, 9, false);
    CGEventSetFlags(down, kCGEventFlagMaskCommand);
    CGEventSetFlags(up, kCGEventFlagMaskCommand);
    CGEventPost(kCGHIDEventTap, down);
    CGEventPost(kCGHIDEventTap, up);
    CFRelease(down);
    CFRelease(up);
}
*/
import "C"
import "unsafe"

type darwinTyper struct{}

func newTyper() (Typer, error) {
	return &darwinTyper{}, nil
}

func (t *darwinTyper) Type(text string) error {
	cstr := C.CString(text)
	defer C.free(unsafe.Pointer(cstr))
	C.typeText(cstr)
	return nil
}

func pasteChord() error {
	C.pasteCommandV()
	return nil
}
