package input

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func keys(focused bool, down ...int) KeyboardState {
	state := KeyboardState{Focused: focused}
	for _, vk := range down {
		state.Down[vk] = true
	}
	return state
}

func TestKeyEdges(t *testing.T) {
	s := NewSnapshot(zerolog.Nop())
	require.False(t, s.KeyDown(VKNoKey))

	s.UpdateKeyboard(keys(true, 'W'))
	require.True(t, s.KeyDown('W'))
	require.True(t, s.KeyPressed('W'))
	require.False(t, s.KeyReleased('W'))
	require.True(t, s.KeyDown(VKAnyKey))
	require.False(t, s.KeyDown(VKNoKey))

	s.UpdateKeyboard(keys(true, 'W'))
	require.True(t, s.KeyDown('W'))
	require.False(t, s.KeyPressed('W'))

	s.UpdateKeyboard(keys(true))
	require.False(t, s.KeyDown('W'))
	require.True(t, s.KeyReleased('W'))
	require.True(t, s.KeyPressed(VKNoKey))
}

func TestKeysIgnoredWithoutFocus(t *testing.T) {
	s := NewSnapshot(zerolog.Nop())
	s.UpdateKeyboard(keys(false, 'W'))
	require.False(t, s.KeyDown('W'))
	require.True(t, s.KeyDown(VKAnyKey))
}

func TestKeyOutOfRange(t *testing.T) {
	s := NewSnapshot(zerolog.Nop())
	require.False(t, s.KeyDown(-1))
	require.False(t, s.KeyPressed(256))
	require.False(t, s.KeyReleased(1 << 20))
}

func TestSuppressKey(t *testing.T) {
	s := NewSnapshot(zerolog.Nop())
	s.UpdateKeyboard(keys(true, 'Z'))
	s.SuppressKey('Z')
	require.False(t, s.KeyDown('Z'))

	// Still held: stays suppressed.
	s.UpdateKeyboard(keys(true, 'Z'))
	require.False(t, s.KeyDown('Z'))
	require.False(t, s.KeyPressed('Z'))

	// Released, then pressed again.
	s.UpdateKeyboard(keys(true))
	s.UpdateKeyboard(keys(true, 'Z'))
	require.True(t, s.KeyPressed('Z'))
}

func TestKeyboardString(t *testing.T) {
	s := NewSnapshot(zerolog.Nop())
	s.UpdateKeyboard(keys(true, 'H'))
	s.UpdateKeyboard(keys(true))
	s.UpdateKeyboard(keys(true, VKShift, 'I'))
	s.UpdateKeyboard(keys(true))
	require.Equal(t, "hI", s.KeyboardString())

	s.UpdateKeyboard(keys(true, VKBackspace))
	require.Equal(t, "h", s.KeyboardString())

	s.SetKeyboardString("")
	s.UpdateKeyboard(keys(true))
	s.UpdateKeyboard(keys(true, VKBackspace))
	require.Equal(t, "", s.KeyboardString())
}

func TestMouse(t *testing.T) {
	s := NewSnapshot(zerolog.Nop())
	s.UpdateMouse(MouseState{Buttons: [NumMouseButtons]bool{true}, X: 10, Y: 20})
	require.True(t, s.MouseDown(0))
	require.True(t, s.MousePressed(0))
	require.Equal(t, 10.0, s.MouseX())
	require.Equal(t, 20.0, s.MouseY())

	s.UpdateMouse(MouseState{})
	require.True(t, s.MouseReleased(0))
	require.False(t, s.MouseDown(7))
	require.False(t, s.MousePressed(-1))
}
