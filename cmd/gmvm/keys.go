package main

import (
	"sync"
	"unicode"

	"atomicgo.dev/keyboard/keys"
	"github.com/opengm-go/gmvm/input"
)

// Virtual key codes for keys a terminal can report.
const (
	vkEnter = 0x0D
	vkSpace = 0x20
	vkLeft  = 0x25
	vkUp    = 0x26
	vkRight = 0x27
	vkDown  = 0x28
)

// Terminals report key presses, not key state. A latched key reads as held
// for a few ticks after each press.
type keyLatch struct {
	mu    sync.Mutex
	hold  int
	ticks [input.NumKeys]int
}

func newKeyLatch(hold int) *keyLatch {
	if hold < 1 {
		hold = 1
	}
	return &keyLatch{hold: hold}
}

func (l *keyLatch) press(vks ...int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, vk := range vks {
		if vk > 0 && vk < input.NumKeys {
			l.ticks[vk] = l.hold
		}
	}
}

// next returns the keyboard state for one tick and ages every latch.
func (l *keyLatch) next() input.KeyboardState {
	l.mu.Lock()
	defer l.mu.Unlock()
	state := input.KeyboardState{Focused: true}
	for vk := range l.ticks {
		if l.ticks[vk] > 0 {
			state.Down[vk] = true
			l.ticks[vk]--
		}
	}
	return state
}

// virtualKeys maps a terminal key event to virtual key codes. The debug
// hotkeys use F9 and F10 in place of the numpad keys.
func virtualKeys(key keys.Key) []int {
	switch key.Code {
	case keys.RuneKey:
		var vks []int
		for _, r := range key.Runes {
			switch {
			case r >= 'a' && r <= 'z':
				vks = append(vks, int(unicode.ToUpper(r)))
			case r >= 'A' && r <= 'Z':
				vks = append(vks, int(r), input.VKShift)
			case r >= '0' && r <= '9':
				vks = append(vks, int(r))
			}
		}
		return vks
	case keys.Space:
		return []int{vkSpace}
	case keys.Enter:
		return []int{vkEnter}
	case keys.Backspace:
		return []int{input.VKBackspace}
	case keys.Left:
		return []int{vkLeft}
	case keys.Up:
		return []int{vkUp}
	case keys.Right:
		return []int{vkRight}
	case keys.Down:
		return []int{vkDown}
	case keys.F1:
		return []int{input.VKF1}
	case keys.F5:
		return []int{input.VKF5}
	case keys.F9:
		return []int{input.VKNumpad0}
	case keys.F10:
		return []int{input.VKNumpad1}
	default:
		return nil
	}
}
