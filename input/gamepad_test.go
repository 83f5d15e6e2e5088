package input

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	gpFace1  = 32769
	gpStart  = 32778
	gpPadR   = 32784
	gpAxisLH = 32785
	gpAxisRV = 32788
)

func TestGamepadButtonIndex(t *testing.T) {
	require.Equal(t, 0, GamepadButtonIndex(gpFace1))
	require.Equal(t, 8, GamepadButtonIndex(gpStart))
	require.Equal(t, 9, GamepadButtonIndex(32777))
	require.Equal(t, 14, GamepadButtonIndex(gpPadR))
	require.Equal(t, 6, GamepadButtonIndex(32775))
	require.Equal(t, -32769, GamepadButtonIndex(0))
}

func TestGamepadDefaults(t *testing.T) {
	s := NewSnapshot(zerolog.Nop())
	for _, device := range []int{-1, 0, 11, 12, 99} {
		require.False(t, s.GamepadConnected(device))
		require.Equal(t, NoGamepadDescription, s.GamepadDescription(device))
		require.Equal(t, 0, s.GamepadButtonCount(device))
		require.Equal(t, 0, s.GamepadAxisCount(device))
		require.False(t, s.GamepadButtonDown(device, gpFace1))
		require.Equal(t, 0.0, s.GamepadButtonValue(device, gpFace1))
		require.Equal(t, 0.0, s.GamepadAxisValue(device, gpAxisLH))
		require.Equal(t, 0, s.GamepadHatValue(device, 0))
		require.Equal(t, DefaultDeadzone, s.GamepadDeadzone(device))
	}
}

func TestGamepadConnectAndEdges(t *testing.T) {
	s := NewSnapshot(zerolog.Nop())
	buttons := make([]bool, 16)
	buttons[8] = true
	s.UpdateGamepads([]GamepadState{{
		Present: true,
		Buttons: buttons,
		Axes:    []float64{0.1, -0.5, 0.9, 0.3},
		Hats:    []int{4},
	}})

	require.True(t, s.GamepadConnected(0))
	require.Equal(t, UnknownGamepadDescription, s.GamepadDescription(0))
	require.Equal(t, MaxGamepadButton, s.GamepadButtonCount(0))
	require.Equal(t, NumGamepadAxes, s.GamepadAxisCount(0))
	require.True(t, s.GamepadButtonPressed(0, gpStart))
	require.Equal(t, 1.0, s.GamepadButtonValue(0, gpStart))
	require.Equal(t, 0.0, s.GamepadAxisValue(0, gpAxisLH), "inside the deadzone")
	require.Equal(t, -0.5, s.GamepadAxisValue(0, gpAxisLH+1))
	require.Equal(t, 0.3, s.GamepadAxisValue(0, gpAxisRV))
	require.Equal(t, 0.0, s.GamepadAxisValue(0, gpAxisRV+1))
	require.Equal(t, 4, s.GamepadHatValue(0, 0))
	require.Equal(t, 0, s.GamepadHatValue(0, 4))

	s.UpdateGamepads([]GamepadState{{Present: true, Name: "Pad", Buttons: make([]bool, 16)}})
	require.True(t, s.GamepadButtonReleased(0, gpStart))
	require.False(t, s.GamepadButtonDown(0, gpStart))
	require.Equal(t, "Pad", s.GamepadDescription(0))

	s.UpdateGamepads([]GamepadState{{Present: false}})
	require.False(t, s.GamepadConnected(0))
	require.Equal(t, NoGamepadDescription, s.GamepadDescription(0))
}

func TestGamepadDeadzone(t *testing.T) {
	s := NewSnapshot(zerolog.Nop())
	s.SetGamepadDeadzone(2, 0.5)
	s.SetGamepadDeadzone(12, 0.9)
	require.Equal(t, 0.5, s.GamepadDeadzone(2))
	require.Equal(t, DefaultDeadzone, s.GamepadDeadzone(12))

	states := make([]GamepadState, 3)
	states[2] = GamepadState{Present: true, Axes: []float64{0.4}}
	s.UpdateGamepads(states)
	require.Equal(t, 0.0, s.GamepadAxisValue(2, gpAxisLH))
}
