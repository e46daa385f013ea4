package wire

import (
	"encoding/binary"

	"github.com/nervelabs/nervebridge/internal/telemetry"
)

// DecodeDepth parses a KINT depth-field summary packet. Packets shorter than
// 48 bytes, with the wrong magic, or with a version other than 1 are
// rejected. Unknown source ids are mapped to SourceUnknown, never rejected.
func DecodeDepth(pkt []byte) (telemetry.DepthFrame, bool) {
	var d telemetry.DepthFrame

	if len(pkt) < DepthPacketSize {
		return d, false
	}
	if !hasMagic(pkt, depthMagic) {
		return d, false
	}
	if binary.LittleEndian.Uint16(pkt[4:]) != 1 {
		return d, false
	}

	src := telemetry.Source(pkt[6])
	if src > telemetry.SourceSimulated {
		src = telemetry.SourceUnknown
	}
	d.Source = src
	d.BodyCount = int(pkt[7])

	ch := pkt[HeaderSize:]
	d.Dist = telemetry.ClampUnipolar(f32(ch, 0))
	d.Motion = telemetry.ClampUnipolar(f32(ch, 4))
	d.CntX = telemetry.ClampBipolar(f32(ch, 8))
	d.CntY = telemetry.ClampBipolar(f32(ch, 12))
	d.Area = telemetry.ClampUnipolar(f32(ch, 16))
	d.DepthL = telemetry.ClampUnipolar(f32(ch, 20))
	d.DepthR = telemetry.ClampUnipolar(f32(ch, 24))
	d.Entropy = telemetry.ClampUnipolar(f32(ch, 28))

	d.Timestamp = binary.LittleEndian.Uint64(pkt[40:])
	d.Valid = true
	return d, true
}

// EncodeDepth builds a 48-byte KINT packet. Values are written unclamped so
// tests can exercise the decoder's range handling.
func EncodeDepth(d telemetry.DepthFrame) []byte {
	pkt := make([]byte, DepthPacketSize)
	copy(pkt, depthMagic[:])
	binary.LittleEndian.PutUint16(pkt[4:], 1)
	pkt[6] = byte(d.Source)
	pkt[7] = byte(d.BodyCount)

	ch := pkt[HeaderSize:]
	for i, v := range []float32{d.Dist, d.Motion, d.CntX, d.CntY, d.Area, d.DepthL, d.DepthR, d.Entropy} {
		putF32(ch, i*4, v)
	}
	binary.LittleEndian.PutUint64(pkt[40:], d.Timestamp)
	return pkt
}
