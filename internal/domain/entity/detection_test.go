package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPixelBoxSize(t *testing.T) {
	b := PixelBox{X1: 10, Y1: 20, X2: 30, Y2: 50}
	require.Equal(t, 20, b.Dx())
	require.Equal(t, 30, b.Dy())
	require.False(t, b.Empty())
}

func TestPixelBoxEmpty(t *testing.T) {
	require.True(t, PixelBox{X1: 5, Y1: 5, X2: 5, Y2: 10}.Empty())
	require.True(t, PixelBox{X1: 5, Y1: 10, X2: 10, Y2: 10}.Empty())
	require.True(t, PixelBox{X1: 10, Y1: 10, X2: 5, Y2: 5}.Empty())
}

func TestPixelBoxNormalize(t *testing.T) {
	b := PixelBox{X1: 100, Y1: 50, X2: 300, Y2: 150}
	nb := b.Normalize(400, 200)

	require.InDelta(t, 0.25, nb.X, 1e-9)
	require.InDelta(t, 0.25, nb.Y, 1e-9)
	require.InDelta(t, 0.5, nb.Width, 1e-9)
	require.InDelta(t, 0.5, nb.Height, 1e-9)

	// Рамка не должна выходить за пределы [0,1].
	require.LessOrEqual(t, nb.X+nb.Width, 1.0+1e-9)
	require.LessOrEqual(t, nb.Y+nb.Height, 1.0+1e-9)
}
