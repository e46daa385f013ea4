package wire

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nervelabs/nervebridge/internal/telemetry"
)

// uniformFaceV1 builds a v1 packet with every channel set to val.
func uniformFaceV1(val float32) []byte {
	pkt := make([]byte, FaceV1PacketSize)
	copy(pkt, []byte("NERV"))
	binary.LittleEndian.PutUint16(pkt[4:], 1)
	binary.LittleEndian.PutUint16(pkt[6:], 1)
	for i := 0; i < 17; i++ {
		putF32(pkt, HeaderSize+i*4, val)
	}
	binary.LittleEndian.PutUint64(pkt[76:], 123456)
	return pkt
}

func TestDecodeFaceV1ClampsHeadX(t *testing.T) {
	pkt := uniformFaceV1(0.5)
	putF32(pkt, HeaderSize, -2.0) // headX out of range

	f, ok := DecodeFace(pkt)
	require.True(t, ok)

	want := telemetry.FaceFrame{
		HeadX: -1.0,
		HeadY: 0.5, HeadZ: 0.5, HeadDist: 0.5,
		LeftEye: 0.5, RightEye: 0.5, GazeX: 0.5, GazeY: 0.5,
		MouthW: 0.5, MouthH: 0.5, Jaw: 0.5, Lips: 0.5,
		BrowL: 0.5, BrowR: 0.5, BlinkL: 0.5, BlinkR: 0.5, Expression: 0.5,
		Timestamp: 123456,
		FaceCount: 1,
		Valid:     true,
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("decoded frame mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFaceRejectsStructuralViolations(t *testing.T) {
	valid := uniformFaceV1(0.5)

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"truncated to 50 bytes", func(p []byte) []byte { return p[:50] }},
		{"one byte short", func(p []byte) []byte { return p[:FaceV1PacketSize-1] }},
		{"empty", func(p []byte) []byte { return nil }},
		{"wrong magic", func(p []byte) []byte { p[0] = 'X'; return p }},
		{"version 0", func(p []byte) []byte {
			binary.LittleEndian.PutUint16(p[4:], 0)
			return p
		}},
		{"version 3", func(p []byte) []byte {
			binary.LittleEndian.PutUint16(p[4:], 3)
			return p
		}},
		{"face count 0", func(p []byte) []byte {
			binary.LittleEndian.PutUint16(p[6:], 0)
			return p
		}},
		{"face count 5", func(p []byte) []byte {
			binary.LittleEndian.PutUint16(p[6:], 5)
			return p
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pkt := tc.mutate(append([]byte(nil), valid...))
			f, ok := DecodeFace(pkt)
			assert.False(t, ok)
			assert.Zero(t, f, "rejected decode must not partially populate the frame")
		})
	}
}

func TestDecodeFaceV2Extension(t *testing.T) {
	src := telemetry.FaceFrame{
		HeadX: 0.25, Jaw: 0.5,
		Tongue: 0.9, BrowInnerUp: 0.8, BrowDownL: 0.7, BrowDownR: 0.6,
		FaceCount: 2,
		Timestamp: 777,
	}
	pkt := EncodeFace(src, 2)
	require.Len(t, pkt, FaceV2PacketSize)

	f, ok := DecodeFace(pkt)
	require.True(t, ok)
	assert.Equal(t, float32(0.9), f.Tongue)
	assert.Equal(t, float32(0.8), f.BrowInnerUp)
	assert.Equal(t, float32(0.7), f.BrowDownL)
	assert.Equal(t, float32(0.6), f.BrowDownR)
	assert.Equal(t, uint64(777), f.Timestamp)
	assert.Equal(t, 2, f.FaceCount)
}

// A v2-tagged packet that is only v1-sized must decode the v1 channels and
// read the timestamp from the v1 offset.
func TestDecodeFaceV2TagWithV1Length(t *testing.T) {
	pkt := uniformFaceV1(0.5)
	binary.LittleEndian.PutUint16(pkt[4:], 2)

	f, ok := DecodeFace(pkt)
	require.True(t, ok)
	assert.Equal(t, float32(0.5), f.Jaw)
	assert.Zero(t, f.Tongue)
	assert.Zero(t, f.BrowInnerUp)
	assert.Zero(t, f.BrowDownL)
	assert.Zero(t, f.BrowDownR)
	assert.Equal(t, uint64(123456), f.Timestamp, "timestamp must come from the v1 offset")
}

func TestDecodeFaceClampsNaNAndInf(t *testing.T) {
	pkt := uniformFaceV1(0.5)
	nan := float32(math.NaN())
	putF32(pkt, HeaderSize, nan)                               // headX, bipolar
	putF32(pkt, HeaderSize+12, nan)                            // headDist, unipolar
	putF32(pkt, HeaderSize+16, float32(math.Inf(1)))           // leftEye
	putF32(pkt, HeaderSize+24, float32(math.Inf(-1)))          // gazeX
	putF32(pkt, HeaderSize+28, math.Float32frombits(0x7fc00001)) // gazeY, NaN with payload bits

	f, ok := DecodeFace(pkt)
	require.True(t, ok)
	assert.Equal(t, float32(-1), f.HeadX)
	assert.Equal(t, float32(0), f.HeadDist)
	assert.Equal(t, float32(1), f.LeftEye)
	assert.Equal(t, float32(-1), f.GazeX)
	assert.False(t, math.IsNaN(float64(f.GazeY)), "NaN must not propagate")
}

func TestEncodeFaceRoundTrip(t *testing.T) {
	src := telemetry.FaceFrame{
		HeadX: -0.5, HeadY: 0.25, HeadZ: 0.125, HeadDist: 0.75,
		LeftEye: 1, RightEye: 0.5, GazeX: 0.5, GazeY: -0.25,
		MouthW: 0.1, MouthH: 0.2, Jaw: 0.3, Lips: 0.4,
		BrowL: 0.5, BrowR: 0.6, BlinkL: 1, BlinkR: 0, Expression: 0.9,
		FaceCount: 3, Timestamp: 42,
	}

	f, ok := DecodeFace(EncodeFace(src, 1))
	require.True(t, ok)
	src.Valid = true
	if diff := cmp.Diff(src, f); diff != "" {
		t.Errorf("v1 round trip mismatch (-want +got):\n%s", diff)
	}
}
