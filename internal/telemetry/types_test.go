package telemetry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampUnipolar(t *testing.T) {
	tests := []struct {
		in   float32
		want float32
	}{
		{0, 0},
		{1, 1},
		{0.5, 0.5},
		{-0.1, 0},
		{1.1, 1},
		{float32(math.Inf(1)), 1},
		{float32(math.Inf(-1)), 0},
		{float32(math.NaN()), 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClampUnipolar(tc.in), "input %v", tc.in)
	}
}

func TestClampBipolar(t *testing.T) {
	tests := []struct {
		in   float32
		want float32
	}{
		{0, 0},
		{-1, -1},
		{1, 1},
		{-2, -1},
		{2, 1},
		{float32(math.Inf(1)), 1},
		{float32(math.Inf(-1)), -1},
		{float32(math.NaN()), -1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClampBipolar(tc.in), "input %v", tc.in)
	}
}

func TestSourceNames(t *testing.T) {
	assert.Equal(t, "Kinect 360", SourceK360.String())
	assert.Equal(t, "Kinect One", SourceKOne.String())
	assert.Equal(t, "Azure Kinect", SourceAzure.String())
	assert.Equal(t, "Simulated", SourceSimulated.String())
	assert.Equal(t, "Unknown", SourceUnknown.String())
	assert.Equal(t, "Unknown", Source(42).String())
}
