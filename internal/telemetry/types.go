// Package telemetry defines the decoded record types shared between the UDP
// ingestion side and real-time consumers. Records are flat value structs so
// they can be copied through a latest-value buffer without allocation.
//
// Channel ranges are enforced at decode time: every value stored in a record
// is already inside its documented clamp range. Consumers never re-clamp.
package telemetry

import "math"

// FaceFrame is one decoded face-tracking sample. All channels are normalized:
// head axes and gaze are bipolar (-1..+1), everything else unipolar (0..1).
type FaceFrame struct {
	// v1 channels
	HeadX      float32 // head yaw, -1..+1
	HeadY      float32 // head pitch, -1..+1
	HeadZ      float32 // head roll, -1..+1
	HeadDist   float32 // distance to camera, 0..1
	LeftEye    float32 // eye openness, 0..1
	RightEye   float32
	GazeX      float32 // -1..+1
	GazeY      float32 // -1..+1
	MouthW     float32 // 0..1
	MouthH     float32 // 0..1
	Jaw        float32 // 0..1
	Lips       float32 // lip purse, 0..1
	BrowL      float32 // 0..1
	BrowR      float32 // 0..1
	BlinkL     float32 // 0..1
	BlinkR     float32
	Expression float32 // 0..1

	// v2 extension channels, zero when the producer speaks v1
	Tongue      float32 // 0..1
	BrowInnerUp float32 // 0..1
	BrowDownL   float32 // 0..1
	BrowDownR   float32 // 0..1

	Timestamp uint64 // producer capture time, microseconds, monotonic
	FaceCount int
	Valid     bool
}

// Source identifies the depth camera generation a KINT producer reports.
type Source uint8

const (
	SourceK360 Source = iota
	SourceKOne
	SourceAzure
	SourceSimulated
	SourceUnknown Source = 255
)

// String returns the display name for a depth source.
func (s Source) String() string {
	switch s {
	case SourceK360:
		return "Kinect 360"
	case SourceKOne:
		return "Kinect One"
	case SourceAzure:
		return "Azure Kinect"
	case SourceSimulated:
		return "Simulated"
	default:
		return "Unknown"
	}
}

// DepthFrame is one decoded depth-field summary sample.
type DepthFrame struct {
	Dist    float32 // nearest foreground depth, 0..1 (1 = very close)
	Motion  float32 // frame-to-frame motion energy, 0..1
	CntX    float32 // horizontal centroid, -1..+1
	CntY    float32 // vertical centroid, -1..+1
	Area    float32 // foreground fraction, 0..1
	DepthL  float32 // left zone mean depth, 0..1
	DepthR  float32 // right zone mean depth, 0..1
	Entropy float32 // depth-field complexity, 0..1

	Source    Source
	BodyCount int
	Timestamp uint64
	Valid     bool
}

// Skeleton aggregate limits. Producers may report higher joint counts; the
// decoder truncates to MaxJoints.
const (
	MaxBodies = 2
	MaxJoints = 32
)

// Joint is a single skeletal joint position, each axis clamped to -1..+1.
type Joint struct {
	X, Y, Z float32
}

// SkeletonBody is one decoded SKEL packet: a single tracked body.
type SkeletonBody struct {
	BodyIndex  int
	JointCount int
	Joints     [MaxJoints]Joint
	Timestamp  uint64
	Valid      bool
}

// SkeletonFrame aggregates the per-body packets into up to MaxBodies slots.
// BodyCount is the highest slot ever populated plus one; it only grows
// within a session run.
type SkeletonFrame struct {
	Bodies    [MaxBodies]SkeletonBody
	BodyCount int
	Timestamp uint64
}

// ClampUnipolar clamps v to [0,1]. NaN clamps to 0 rather than propagating.
func ClampUnipolar(v float32) float32 {
	if math.IsNaN(float64(v)) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampBipolar clamps v to [-1,1]. NaN clamps to -1 rather than propagating.
func ClampBipolar(v float32) float32 {
	if math.IsNaN(float64(v)) || v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
