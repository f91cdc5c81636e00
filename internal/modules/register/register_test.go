package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConvertsMicrometersToMeters(t *testing.T) {
	r := New([][2]float64{{0, 0}, {0, 5}, {5, 0}})

	require.Len(t, r, 3)
	assert.Equal(t, [2]float64{0, 0}, r[0])
	assert.Equal(t, [2]float64{0, 5e-6}, r[1])
	assert.Equal(t, [2]float64{5e-6, 0}, r[2])
}

func TestNew_Empty(t *testing.T) {
	r := New(nil)
	assert.Empty(t, r)
}

func TestCoordinates(t *testing.T) {
	r := New([][2]float64{{1, 2}, {3, 4}})

	assert.InDeltaSlice(t, []float64{1e-6, 3e-6}, r.Coordinates(0), 1e-18)
	assert.InDeltaSlice(t, []float64{2e-6, 4e-6}, r.Coordinates(1), 1e-18)
}

func TestCheckSiteCount(t *testing.T) {
	r := New([][2]float64{{0, 0}, {0, 5}, {5, 0}})

	assert.NoError(t, r.CheckSiteCount(3))
	assert.Error(t, r.CheckSiteCount(2))
	assert.Error(t, r.CheckSiteCount(4))
}
