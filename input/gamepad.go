package input

// GamepadButtonIndex maps a gp_* button constant to its slot in the device
// button array. The result may be out of range; callers must check it.
func GamepadButtonIndex(button int) int {
	switch button {
	case 32769: // gp_face1
		return 0
	case 32770: // gp_face2
		return 1
	case 32771: // gp_face3
		return 2
	case 32772: // gp_face4
		return 3
	case 32773: // gp_shoulderl
		return 4
	case 32774: // gp_shoulderr
		return 5
	case 32777: // gp_select
		return 9
	case 32778: // gp_start
		return 8
	case 32779: // gp_stickl
		return 11
	case 32780: // gp_stickr
		return 12
	case 32781: // gp_padu
		return 13
	case 32782: // gp_padd
		return 15
	case 32783: // gp_padl
		return 16
	case 32784: // gp_padr
		return 14
	default:
		return button - GamepadButtonBase
	}
}

func validDevice(device int) bool {
	return device >= 0 && device < MaxGamepads
}

func (s *Snapshot) pad(device int) *gamepad {
	if !validDevice(device) {
		return nil
	}
	return &s.pads[device]
}

func (s *Snapshot) padButton(device, button int) (*gamepad, int, bool) {
	pad := s.pad(device)
	index := GamepadButtonIndex(button)
	if pad == nil || index < 0 || index >= MaxGamepadButton {
		return nil, 0, false
	}
	return pad, index, true
}

func (s *Snapshot) GamepadConnected(device int) bool {
	pad := s.pad(device)
	return pad != nil && pad.connected
}

func (s *Snapshot) GamepadDescription(device int) string {
	pad := s.pad(device)
	if pad == nil || !pad.connected {
		return NoGamepadDescription
	}
	return pad.description
}

func (s *Snapshot) GamepadDeadzone(device int) float64 {
	pad := s.pad(device)
	if pad == nil {
		return DefaultDeadzone
	}
	return pad.deadzone
}

// SetGamepadDeadzone ignores invalid devices.
func (s *Snapshot) SetGamepadDeadzone(device int, deadzone float64) {
	if pad := s.pad(device); pad != nil {
		pad.deadzone = deadzone
	}
}

func (s *Snapshot) GamepadButtonCount(device int) int {
	if !s.GamepadConnected(device) {
		return 0
	}
	return MaxGamepadButton
}

func (s *Snapshot) GamepadButtonDown(device, button int) bool {
	pad, index, ok := s.padButton(device, button)
	return ok && pad.down[index]
}

func (s *Snapshot) GamepadButtonPressed(device, button int) bool {
	pad, index, ok := s.padButton(device, button)
	return ok && pad.pressed[index]
}

func (s *Snapshot) GamepadButtonReleased(device, button int) bool {
	pad, index, ok := s.padButton(device, button)
	return ok && pad.released[index]
}

func (s *Snapshot) GamepadButtonValue(device, button int) float64 {
	if s.GamepadButtonDown(device, button) {
		return 1.0
	}
	return 0.0
}

func (s *Snapshot) GamepadAxisCount(device int) int {
	if !s.GamepadConnected(device) {
		return 0
	}
	return NumGamepadAxes
}

// GamepadAxisValue reads an axis by its gp_axis* constant.
func (s *Snapshot) GamepadAxisValue(device, axis int) float64 {
	pad := s.pad(device)
	index := axis - GamepadAxisBase
	if pad == nil || index < 0 || index >= NumGamepadAxes {
		return 0.0
	}
	return pad.axes[index]
}

func (s *Snapshot) GamepadHatValue(device, hat int) int {
	pad := s.pad(device)
	if pad == nil || hat < 0 || hat >= NumGamepadHats {
		return 0
	}
	return pad.hats[hat]
}
