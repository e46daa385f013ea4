package wire

import (
	"encoding/binary"

	"github.com/nervelabs/nervebridge/internal/telemetry"
)

// DecodeFace parses a NERV packet into a FaceFrame. It returns false for any
// structural violation: short packet, wrong magic, version outside 1..2, or
// face count outside 1..4. On false the returned frame is the zero value.
//
// Version dispatch is length-based: a v2-tagged packet that is only v1-sized
// decodes the v1 channels, zeroes the extension channels, and reads the
// timestamp from the v1 offset. Future versions are rejected outright rather
// than best-effort parsed.
func DecodeFace(pkt []byte) (telemetry.FaceFrame, bool) {
	var f telemetry.FaceFrame

	if len(pkt) < FaceV1PacketSize {
		return f, false
	}
	if !hasMagic(pkt, faceMagic) {
		return f, false
	}
	version := binary.LittleEndian.Uint16(pkt[4:])
	if version < 1 || version > 2 {
		return f, false
	}
	faceCount := binary.LittleEndian.Uint16(pkt[6:])
	if faceCount < 1 || faceCount > 4 {
		return f, false
	}

	ch := pkt[HeaderSize:]

	f.HeadX = telemetry.ClampBipolar(f32(ch, 0))
	f.HeadY = telemetry.ClampBipolar(f32(ch, 4))
	f.HeadZ = telemetry.ClampBipolar(f32(ch, 8))
	f.HeadDist = telemetry.ClampUnipolar(f32(ch, 12))
	f.LeftEye = telemetry.ClampUnipolar(f32(ch, 16))
	f.RightEye = telemetry.ClampUnipolar(f32(ch, 20))
	f.GazeX = telemetry.ClampBipolar(f32(ch, 24))
	f.GazeY = telemetry.ClampBipolar(f32(ch, 28))
	f.MouthW = telemetry.ClampUnipolar(f32(ch, 32))
	f.MouthH = telemetry.ClampUnipolar(f32(ch, 36))
	f.Jaw = telemetry.ClampUnipolar(f32(ch, 40))
	f.Lips = telemetry.ClampUnipolar(f32(ch, 44))
	f.BrowL = telemetry.ClampUnipolar(f32(ch, 48))
	f.BrowR = telemetry.ClampUnipolar(f32(ch, 52))
	f.BlinkL = telemetry.ClampUnipolar(f32(ch, 56))
	f.BlinkR = telemetry.ClampUnipolar(f32(ch, 60))
	f.Expression = telemetry.ClampUnipolar(f32(ch, 64))

	if version >= 2 && len(pkt) >= FaceV2PacketSize {
		f.Tongue = telemetry.ClampUnipolar(f32(ch, 68))
		f.BrowInnerUp = telemetry.ClampUnipolar(f32(ch, 72))
		f.BrowDownL = telemetry.ClampUnipolar(f32(ch, 76))
		f.BrowDownR = telemetry.ClampUnipolar(f32(ch, 80))
		f.Timestamp = binary.LittleEndian.Uint64(ch[84:])
	} else {
		f.Timestamp = binary.LittleEndian.Uint64(ch[68:])
	}

	f.FaceCount = int(faceCount)
	f.Valid = true
	return f, true
}

// EncodeFace builds a NERV packet for the given frame. version selects the
// v1 (84-byte) or v2 (100-byte) layout. Used by the simulator and by tests;
// values are written as-is, without clamping, so out-of-range fixtures can
// be produced.
func EncodeFace(f telemetry.FaceFrame, version uint16) []byte {
	size := FaceV1PacketSize
	if version >= 2 {
		size = FaceV2PacketSize
	}
	pkt := make([]byte, size)
	copy(pkt, faceMagic[:])
	binary.LittleEndian.PutUint16(pkt[4:], version)
	binary.LittleEndian.PutUint16(pkt[6:], uint16(f.FaceCount))

	ch := pkt[HeaderSize:]
	vals := []float32{
		f.HeadX, f.HeadY, f.HeadZ, f.HeadDist,
		f.LeftEye, f.RightEye, f.GazeX, f.GazeY,
		f.MouthW, f.MouthH, f.Jaw, f.Lips,
		f.BrowL, f.BrowR, f.BlinkL, f.BlinkR, f.Expression,
	}
	if version >= 2 {
		vals = append(vals, f.Tongue, f.BrowInnerUp, f.BrowDownL, f.BrowDownR)
	}
	for i, v := range vals {
		putF32(ch, i*4, v)
	}
	binary.LittleEndian.PutUint64(pkt[size-8:], f.Timestamp)
	return pkt
}
