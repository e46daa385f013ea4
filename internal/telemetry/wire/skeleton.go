package wire

import (
	"encoding/binary"

	"github.com/nervelabs/nervebridge/internal/telemetry"
)

// DecodeSkeleton parses one SKEL packet into a single-body record. The
// advertised joint count is truncated to MaxJoints before computing the
// expected length; packets shorter than that minimum are rejected. Every
// joint coordinate is clamped to -1..+1.
func DecodeSkeleton(pkt []byte) (telemetry.SkeletonBody, bool) {
	var b telemetry.SkeletonBody

	if len(pkt) < SkelMinSize {
		return b, false
	}
	if !hasMagic(pkt, skelMagic) {
		return b, false
	}
	if binary.LittleEndian.Uint16(pkt[4:]) != 1 {
		return b, false
	}

	b.BodyIndex = int(pkt[6])
	advertised := int(pkt[7])
	jc := advertised
	if jc > telemetry.MaxJoints {
		jc = telemetry.MaxJoints
	}
	expected := HeaderSize + jc*BytesPerJoint + 8
	if len(pkt) < expected {
		return telemetry.SkeletonBody{}, false
	}

	for i := 0; i < jc; i++ {
		base := HeaderSize + i*BytesPerJoint
		b.Joints[i] = telemetry.Joint{
			X: telemetry.ClampBipolar(f32(pkt, base)),
			Y: telemetry.ClampBipolar(f32(pkt, base+4)),
			Z: telemetry.ClampBipolar(f32(pkt, base+8)),
		}
	}
	b.JointCount = jc

	// The trailing timestamp sits after the advertised joint block, which
	// may extend beyond the joints actually kept. When the packet is too
	// short to carry it, the timestamp stays zero and the session stamps
	// receive time instead.
	if tsOff := HeaderSize + advertised*BytesPerJoint; len(pkt) >= tsOff+8 {
		b.Timestamp = binary.LittleEndian.Uint64(pkt[tsOff:])
	}
	b.Valid = true
	return b, true
}

// EncodeSkeleton builds a SKEL packet carrying jointCount joints from the
// body record. jointCount may exceed the record's populated joints; extra
// slots encode as zeros, which lets tests exercise truncation.
func EncodeSkeleton(b telemetry.SkeletonBody, jointCount int) []byte {
	pkt := make([]byte, HeaderSize+jointCount*BytesPerJoint+8)
	copy(pkt, skelMagic[:])
	binary.LittleEndian.PutUint16(pkt[4:], 1)
	pkt[6] = byte(b.BodyIndex)
	pkt[7] = byte(jointCount)

	for i := 0; i < jointCount && i < telemetry.MaxJoints; i++ {
		base := HeaderSize + i*BytesPerJoint
		putF32(pkt, base, b.Joints[i].X)
		putF32(pkt, base+4, b.Joints[i].Y)
		putF32(pkt, base+8, b.Joints[i].Z)
	}
	binary.LittleEndian.PutUint64(pkt[HeaderSize+jointCount*BytesPerJoint:], b.Timestamp)
	return pkt
}
