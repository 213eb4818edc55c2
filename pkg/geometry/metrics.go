package geometry

import "math"

// FaceLength is the straight span of a face after subtracting the material
// of thickness bounding it on sides ends (1 or 2).
func FaceLength(outer, thickness float64, sides int) float64 {
	return outer - float64(sides)*thickness
}

// SlopeHeight is the offset introduced along a face of the given span by a
// slope angle. It is exactly zero at angle zero regardless of span.
func SlopeHeight(span, angle float64) float64 {
	if angle == 0 {
		return 0
	}
	return span * math.Tan(angle)
}

// AvailableFilletSpan is the room left for a fillet or edge radius on a face
// once the slope height has been taken out of its half length. A negative
// result means no radius, not even zero, fits.
func AvailableFilletSpan(faceLength, slopeHeight float64) float64 {
	return faceLength/2 - slopeHeight
}

// IsSlopeAngle reports whether angle lies in [0, π/2). The float64 nearest
// π/2 is itself rejected.
func IsSlopeAngle(angle float64) bool {
	return angle >= 0 && angle < math.Pi/2
}
