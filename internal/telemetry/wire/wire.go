// Package wire implements the binary UDP protocols spoken by the capture
// bridges. Three packet families exist, all little-endian:
//
// NERV — face tracking blendshapes (one packet per camera frame)
//
//	[0-3]   Magic "NERV"
//	[4-5]   Version uint16 LE (1 or 2)
//	[6-7]   FaceCount uint16 LE (1..4)
//	[8-75]  17 × float32 LE     v1 channel block
//	[76-91] 4 × float32 LE      v2 extension (only when version >= 2
//	                            and the packet is long enough)
//	[last 8] Timestamp uint64 LE (microseconds; offset depends on which
//	                            channel block is actually present)
//
// KINT — depth-field summary (fixed 48 bytes)
//
//	[0-3]   Magic "KINT"
//	[4-5]   Version uint16 LE (=1)
//	[6]     Source uint8 (0=K360 1=KOne 2=Azure 3=Sim, else Unknown)
//	[7]     BodyCount uint8
//	[8-39]  8 × float32 LE depth channels
//	[40-47] Timestamp uint64 LE
//
// SKEL — skeletal joints, variable length
//
//	[0-3]   Magic "SKEL"
//	[4-5]   Version uint16 LE (=1)
//	[6]     BodyIndex uint8
//	[7]     JointCount uint8
//	[8-N]   JointCount × 3 × float32 LE (x,y,z)
//	[N..]   Timestamp uint64 LE
//
// Decoders are pure: no I/O, no partial mutation on failure. Structural
// violations (magic, version, length) reject the packet; out-of-range values
// are clamped, never rejected, so a hostile or buggy producer can at worst
// pin a channel to its range boundary.
package wire

import (
	"encoding/binary"
	"math"
)

// Wire format constants shared by the decoders and encoders.
const (
	MagicSize  = 4
	HeaderSize = 8 // magic + version + 2 format-specific bytes

	FaceV1PacketSize = 84  // header + 17 floats + timestamp
	FaceV2PacketSize = 100 // header + 21 floats + timestamp
	DepthPacketSize  = 48  // header + 8 floats + timestamp
	SkelMinSize      = 16  // header + timestamp, no joints

	BytesPerJoint = 12 // 3 × float32
)

var (
	faceMagic  = [MagicSize]byte{'N', 'E', 'R', 'V'}
	depthMagic = [MagicSize]byte{'K', 'I', 'N', 'T'}
	skelMagic  = [MagicSize]byte{'S', 'K', 'E', 'L'}
)

func hasMagic(pkt []byte, magic [MagicSize]byte) bool {
	return len(pkt) >= MagicSize &&
		pkt[0] == magic[0] && pkt[1] == magic[1] &&
		pkt[2] == magic[2] && pkt[3] == magic[3]
}

// f32 reads a little-endian float32 at offset off. The caller has already
// length-checked the slice.
func f32(pkt []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(pkt[off:]))
}

func putF32(pkt []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(pkt[off:], math.Float32bits(v))
}
