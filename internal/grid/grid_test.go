package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection_Opposite(t *testing.T) {
	pairs := map[Direction]Direction{
		XForward:  XBackward,
		XBackward: XForward,
		YForward:  YBackward,
		YBackward: YForward,
		ZForward:  ZBackward,
		ZBackward: ZForward,
	}
	for d, want := range pairs {
		assert.Equal(t, want, d.Opposite(), "opposite of %s", d)
		assert.Equal(t, d.Axis(), d.Opposite().Axis())
	}
}

func TestNewCartesian_InvalidSize(t *testing.T) {
	_, err := NewCartesian2D(0, 3, false, false)
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = NewCartesian3D(2, 2, -1, false, false, false)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestGrid_IndexRoundTrip(t *testing.T) {
	g, err := NewCartesian3D(3, 4, 5, false, false, false)
	require.NoError(t, err)
	require.Equal(t, 60, g.Size())

	for i := 0; i < g.Size(); i++ {
		c := g.Coordinates(i)
		assert.True(t, g.Contains(c))
		assert.Equal(t, i, g.Index(c))
	}

	assert.Equal(t, 1+2*3+3*12, g.Index(Coordinates{X: 1, Y: 2, Z: 3}))
}

func TestGrid_BoundedNeighbours(t *testing.T) {
	g, err := NewCartesian2D(3, 2, false, false)
	require.NoError(t, err)
	assert.Equal(t, DirectionCount2D, g.DirectionCount())

	corner := g.Index(Coordinates{X: 0, Y: 0})
	_, ok := g.Neighbour(corner, XBackward)
	assert.False(t, ok)
	_, ok = g.Neighbour(corner, YBackward)
	assert.False(t, ok)

	n, ok := g.Neighbour(corner, XForward)
	require.True(t, ok)
	assert.Equal(t, Coordinates{X: 1, Y: 0}, g.Coordinates(n))

	n, ok = g.Neighbour(corner, YForward)
	require.True(t, ok)
	assert.Equal(t, Coordinates{X: 0, Y: 1}, g.Coordinates(n))

	last := g.Index(Coordinates{X: 2, Y: 1})
	_, ok = g.Neighbour(last, XForward)
	assert.False(t, ok)
	_, ok = g.Neighbour(last, YForward)
	assert.False(t, ok)
}

func TestGrid_LoopingNeighbours(t *testing.T) {
	g, err := NewCartesian2D(3, 2, true, false)
	require.NoError(t, err)

	left := g.Index(Coordinates{X: 0, Y: 1})
	n, ok := g.Neighbour(left, XBackward)
	require.True(t, ok)
	assert.Equal(t, Coordinates{X: 2, Y: 1}, g.Coordinates(n))

	right := g.Index(Coordinates{X: 2, Y: 0})
	n, ok = g.Neighbour(right, XForward)
	require.True(t, ok)
	assert.Equal(t, Coordinates{X: 0, Y: 0}, g.Coordinates(n))

	// y is not looping
	_, ok = g.Neighbour(right, YBackward)
	assert.False(t, ok)
}

func TestGrid_NeighbourSymmetry(t *testing.T) {
	g, err := NewCartesian3D(3, 3, 2, true, false, true)
	require.NoError(t, err)

	for i := 0; i < g.Size(); i++ {
		for _, d := range g.Directions() {
			n, ok := g.Neighbour(i, d)
			if !ok {
				continue
			}
			back, ok := g.Neighbour(n, d.Opposite())
			require.True(t, ok)
			assert.Equal(t, i, back)
		}
	}
}

func TestGrid_2DHasNoZNeighbours(t *testing.T) {
	g, err := NewCartesian2D(2, 2, true, true)
	require.NoError(t, err)

	_, ok := g.Move(Coordinates{}, ZForward)
	assert.False(t, ok)
	assert.Len(t, g.Directions(), 4)
}

func TestGridData(t *testing.T) {
	g, err := NewCartesian2D(2, 2, false, false)
	require.NoError(t, err)

	_, err = NewGridData(g, []int{1, 2, 3})
	require.Error(t, err)

	d := NewFilledGridData(g, 7)
	d.Set(g.Index(Coordinates{X: 1, Y: 1}), 9)
	assert.Equal(t, 9, d.At(Coordinates{X: 1, Y: 1}))
	assert.Equal(t, []int{7, 7, 7, 9}, d.Nodes())

	d.Fill(0)
	assert.Equal(t, []int{0, 0, 0, 0}, d.Nodes())
	assert.Same(t, g, d.Grid())
}

func TestNew_FromSizeList(t *testing.T) {
	g, err := New([]int{4, 3}, "x")
	require.NoError(t, err)
	assert.False(t, g.Is3D())
	assert.Equal(t, 12, g.Size())
	assert.True(t, g.Looping(AxisX))
	assert.False(t, g.Looping(AxisY))

	g, err = New([]int{2, 2, 5}, "YZ")
	require.NoError(t, err)
	assert.True(t, g.Is3D())
	assert.Equal(t, 5, g.SizeZ())
	assert.True(t, g.Looping(AxisY))
	assert.True(t, g.Looping(AxisZ))
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name string
		size []int
		loop string
	}{
		{"one extent", []int{4}, ""},
		{"four extents", []int{1, 2, 3, 4}, ""},
		{"z loop on 2D", []int{2, 2}, "z"},
		{"bad axis", []int{2, 2}, "w"},
		{"zero size", []int{0, 2}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.size, tt.loop)
			assert.Error(t, err)
		})
	}
}
