// Package input holds the per-tick device snapshot that input built-ins read
// from, and the debug hotkeys that act on it.
//
// The host feeds raw device state once per tick through the Update methods,
// which derive pressed and released edges from the previous tick. Every
// query clamps its indices: out-of-range devices, keys, buttons and axes
// read as the neutral value instead of failing.
package input

import (
	"math"

	"github.com/rs/zerolog"
)

const (
	NumKeys          = 256
	NumMouseButtons  = 5
	MaxGamepads      = 12
	MaxGamepadButton = 20
	NumGamepadAxes   = 4
	NumGamepadHats   = 4

	// GamepadButtonBase is the id of gp_face1.
	GamepadButtonBase = 32769
	// GamepadAxisBase is the id of gp_axislh.
	GamepadAxisBase = 32785

	DefaultDeadzone = 0.2

	NoGamepadDescription      = "No Gamepad"
	UnknownGamepadDescription = "Unknown Gamepad"
)

// Virtual key codes with special handling.
const (
	VKNoKey     = 0x00
	VKAnyKey    = 0x01
	VKBackspace = 0x08
	VKShift     = 0x10
	VKNumpad0   = 0x60
	VKNumpad1   = 0x61
	VKF1        = 0x70
	VKF5        = 0x74
)

// KeyboardState is the raw keyboard state for one tick, indexed by virtual
// key code. Entries 0 and 1 are ignored; they are derived from the rest.
type KeyboardState struct {
	Down    [NumKeys]bool
	Focused bool
}

// MouseState is the raw mouse state for one tick.
type MouseState struct {
	Buttons [NumMouseButtons]bool
	X, Y    float64
}

// GamepadState is the raw state of one device slot for one tick.
type GamepadState struct {
	Present bool
	Name    string
	Buttons []bool
	Axes    []float64
	Hats    []int
}

type gamepad struct {
	connected   bool
	description string
	down        [MaxGamepadButton]bool
	pressed     [MaxGamepadButton]bool
	released    [MaxGamepadButton]bool
	axes        [NumGamepadAxes]float64
	hats        [NumGamepadHats]int
	deadzone    float64
}

// Snapshot is the device state visible to scripts during one tick.
type Snapshot struct {
	keyDown       [NumKeys]bool
	keyPressed    [NumKeys]bool
	keyReleased   [NumKeys]bool
	keySuppressed [NumKeys]bool
	keyString     string

	mouseDown     [NumMouseButtons]bool
	mousePressed  [NumMouseButtons]bool
	mouseReleased [NumMouseButtons]bool
	mouseX        float64
	mouseY        float64

	pads [MaxGamepads]gamepad

	logger zerolog.Logger
}

// NewSnapshot returns an empty snapshot with default gamepad deadzones.
func NewSnapshot(logger zerolog.Logger) *Snapshot {
	s := &Snapshot{logger: logger}
	for i := range s.pads {
		s.pads[i].deadzone = DefaultDeadzone
	}
	return s
}

// UpdateKeyboard advances the keyboard state by one tick.
func (s *Snapshot) UpdateKeyboard(state KeyboardState) {
	anyDown := false
	for vk := 2; vk < NumKeys; vk++ {
		if state.Down[vk] {
			anyDown = true
			break
		}
	}
	s.updateKey(VKNoKey, !anyDown)
	s.updateKey(VKAnyKey, anyDown)
	for vk := 2; vk < NumKeys; vk++ {
		s.updateKey(vk, state.Focused && state.Down[vk])
	}

	for vk := 'A'; vk <= 'Z'; vk++ {
		if !s.keyPressed[vk] {
			continue
		}
		chr := vk
		if !s.keyDown[VKShift] {
			chr += 'a' - 'A'
		}
		s.keyString += string(chr)
	}
	if s.keyPressed[VKBackspace] && len(s.keyString) > 0 {
		s.keyString = s.keyString[:len(s.keyString)-1]
	}
}

func (s *Snapshot) updateKey(vk int, isDown bool) {
	if s.keySuppressed[vk] {
		if isDown {
			isDown = false
		} else {
			s.keySuppressed[vk] = false
		}
	}
	wasDown := s.keyDown[vk]
	s.keyPressed[vk] = isDown && !wasDown
	s.keyReleased[vk] = !isDown && wasDown
	s.keyDown[vk] = isDown
}

// UpdateMouse advances the mouse state by one tick.
func (s *Snapshot) UpdateMouse(state MouseState) {
	for i := 0; i < NumMouseButtons; i++ {
		isDown := state.Buttons[i]
		wasDown := s.mouseDown[i]
		s.mousePressed[i] = isDown && !wasDown
		s.mouseReleased[i] = !isDown && wasDown
		s.mouseDown[i] = isDown
	}
	s.mouseX = state.X
	s.mouseY = state.Y
}

// UpdateGamepads advances every device slot by one tick. Slots beyond
// len(states) keep their previous state.
func (s *Snapshot) UpdateGamepads(states []GamepadState) {
	n := len(states)
	if n > MaxGamepads {
		n = MaxGamepads
	}
	for device := 0; device < n; device++ {
		s.updateGamepad(device, states[device])
	}
}

func (s *Snapshot) updateGamepad(device int, state GamepadState) {
	pad := &s.pads[device]
	if !state.Present {
		if pad.connected {
			s.logger.Info().Int("device", device).Msg("gamepad disconnected")
			deadzone := pad.deadzone
			*pad = gamepad{deadzone: deadzone}
		}
		return
	}
	name := state.Name
	if name == "" {
		name = UnknownGamepadDescription
	}
	if !pad.connected {
		s.logger.Info().
			Int("device", device).
			Str("name", name).
			Int("buttons", len(state.Buttons)).
			Int("axes", len(state.Axes)).
			Int("hats", len(state.Hats)).
			Msg("gamepad connected")
	}
	pad.connected = true
	pad.description = name

	for b := 0; b < len(state.Buttons) && b < MaxGamepadButton; b++ {
		isDown := state.Buttons[b]
		wasDown := pad.down[b]
		pad.pressed[b] = isDown && !wasDown
		pad.released[b] = !isDown && wasDown
		pad.down[b] = isDown
	}
	for a := 0; a < NumGamepadAxes; a++ {
		value := 0.0
		if a < len(state.Axes) {
			value = state.Axes[a]
			if math.Abs(value) < pad.deadzone {
				value = 0
			}
		}
		pad.axes[a] = value
	}
	for h := 0; h < len(state.Hats) && h < NumGamepadHats; h++ {
		pad.hats[h] = state.Hats[h]
	}
}

// SuppressKey reports vk as up until it is physically released.
func (s *Snapshot) SuppressKey(vk int) {
	if !validKey(vk) {
		return
	}
	s.keySuppressed[vk] = true
	s.keyDown[vk] = false
	s.keyPressed[vk] = false
	s.keyReleased[vk] = false
}

// ClearKeys suppresses every key that is currently down.
func (s *Snapshot) ClearKeys() {
	for vk := 0; vk < NumKeys; vk++ {
		if s.keyDown[vk] {
			s.SuppressKey(vk)
		}
	}
}

func validKey(vk int) bool {
	return vk >= 0 && vk < NumKeys
}

func (s *Snapshot) KeyDown(vk int) bool {
	return validKey(vk) && s.keyDown[vk]
}

func (s *Snapshot) KeyPressed(vk int) bool {
	return validKey(vk) && s.keyPressed[vk]
}

func (s *Snapshot) KeyReleased(vk int) bool {
	return validKey(vk) && s.keyReleased[vk]
}

func (s *Snapshot) KeyboardString() string {
	return s.keyString
}

func (s *Snapshot) SetKeyboardString(value string) {
	s.keyString = value
}

func validMouseButton(button int) bool {
	return button >= 0 && button < NumMouseButtons
}

func (s *Snapshot) MouseDown(button int) bool {
	return validMouseButton(button) && s.mouseDown[button]
}

func (s *Snapshot) MousePressed(button int) bool {
	return validMouseButton(button) && s.mousePressed[button]
}

func (s *Snapshot) MouseReleased(button int) bool {
	return validMouseButton(button) && s.mouseReleased[button]
}

func (s *Snapshot) MouseX() float64 {
	return s.mouseX
}

func (s *Snapshot) MouseY() float64 {
	return s.mouseY
}
