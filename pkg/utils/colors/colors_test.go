package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	tests := []struct {
		css  string
		want string
		ok   bool
	}{
		{"#FFB6C1", "#ffb6c1", true},
		{"#000000", "#000000", true},
		{"black", "#000000", true},
		{"PaleTurquoise", "#afeeee", true},
		{"DarkSeaGreen", "#8fbc8f", true},
		{"rgb(255, 0, 0)", "#ff0000", true},
		{"#ffffff80", "#ffffff", true},
		{"inherit", "", false},
		{"", "", false},
		{"#12345", "", false},
		{"rgba(1, 2)", "", false},
		{"hsl(0, 0%, 0%)", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.css, func(t *testing.T) {
			got, ok := Hex(tt.css)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Alpha(t *testing.T) {
	_, alpha, ok := Parse("rgba(144, 238, 144, 0.53)")
	require.True(t, ok)
	assert.InDelta(t, 0.53, alpha, 1e-9)

	_, alpha, ok = Parse("#808080b0")
	require.True(t, ok)
	assert.InDelta(t, float64(0xb0)/255, alpha, 1e-9)
}

func TestOpaque_TranslucentIsLighter(t *testing.T) {
	solid, ok := Opaque("rgb(249, 7, 2)")
	require.True(t, ok)
	faded, ok := Opaque("rgba(249, 7, 2, 0.5)")
	require.True(t, ok)

	assert.Greater(t, faded.G, solid.G)
	assert.Greater(t, faded.B, solid.B)
	assert.True(t, faded.IsValid())
}
