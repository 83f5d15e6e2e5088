package main

import (
	"testing"

	"atomicgo.dev/keyboard/keys"
	"github.com/opengm-go/gmvm/input"
	"github.com/stretchr/testify/require"
)

func TestKeyLatch(t *testing.T) {
	latch := newKeyLatch(2)
	latch.press('A', 0, input.NumKeys)

	state := latch.next()
	require.True(t, state.Focused)
	require.True(t, state.Down['A'])
	require.False(t, state.Down[0])

	require.True(t, latch.next().Down['A'])
	require.False(t, latch.next().Down['A'])

	latch.press('A')
	require.True(t, latch.next().Down['A'])
}

func TestKeyLatchMinimumHold(t *testing.T) {
	latch := newKeyLatch(0)
	latch.press(vkSpace)
	require.True(t, latch.next().Down[vkSpace])
	require.False(t, latch.next().Down[vkSpace])
}

func TestVirtualKeys(t *testing.T) {
	tests := []struct {
		name     string
		key      keys.Key
		expected []int
	}{
		{"lowercase", keys.Key{Code: keys.RuneKey, Runes: []rune{'w'}}, []int{'W'}},
		{"uppercase", keys.Key{Code: keys.RuneKey, Runes: []rune{'W'}}, []int{'W', input.VKShift}},
		{"digit", keys.Key{Code: keys.RuneKey, Runes: []rune{'7'}}, []int{'7'}},
		{"punctuation", keys.Key{Code: keys.RuneKey, Runes: []rune{'!'}}, nil},
		{"space", keys.Key{Code: keys.Space}, []int{vkSpace}},
		{"left", keys.Key{Code: keys.Left}, []int{vkLeft}},
		{"backspace", keys.Key{Code: keys.Backspace}, []int{input.VKBackspace}},
		{"instance dump", keys.Key{Code: keys.F9}, []int{input.VKNumpad0}},
		{"layer dump", keys.Key{Code: keys.F10}, []int{input.VKNumpad1}},
		{"unmapped", keys.Key{Code: keys.Tab}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, virtualKeys(tt.key))
		})
	}
}
