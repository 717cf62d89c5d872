package projection

import (
	"math"

	"painter3d/internal/geom"
)

// Camera is the eye position and orientation. Rotation holds Euler angles in
// degrees: X is pitch about the camera's local X axis (positive looks down),
// Y is yaw about the world Y axis (positive turns right). Z is unused.
//
// The camera stores no derived state; Basis recomputes the orientation
// vectors from Rotation every time it is called.
type Camera struct {
	Position geom.Vec3
	Rotation geom.Vec3
}

// Basis is the orientation derived from a Camera for one projection pass.
type Basis struct {
	// R maps camera-relative world vectors into camera space.
	R geom.Mat3

	// Forward, Right and Up are the camera axes in world space.
	Forward geom.Vec3
	Right   geom.Vec3
	Up      geom.Vec3

	// MoveForward and MoveRight ignore pitch so that walking stays level.
	MoveForward geom.Vec3
	MoveRight   geom.Vec3
}

// Basis derives the rotation matrix and axis vectors.
//
// R = Rx(-pitch)·Ry(-yaw) is the world-to-camera rotation. Its transpose
// maps camera space back to world space, so the columns of Rᵀ are the
// camera axes expressed in world coordinates.
func (c Camera) Basis() Basis {
	pitch, yaw := c.Rotation.X, c.Rotation.Y
	r := geom.RotationX(-pitch).Mul(geom.RotationY(-yaw))
	toWorld := r.Transpose()

	yawOnly := geom.RotationY(yaw)
	return Basis{
		R:           r,
		Right:       toWorld.Col(0),
		Up:          toWorld.Col(1),
		Forward:     toWorld.Col(2).Normalize(),
		MoveForward: yawOnly.MulVec(geom.V3(0, 0, 1)),
		MoveRight:   yawOnly.MulVec(geom.V3(1, 0, 0)),
	}
}

// ToCamera returns p in camera space: x right, y up, z forward.
func (b Basis) ToCamera(pos, p geom.Vec3) geom.Vec3 {
	return b.R.MulVec(p.Sub(pos))
}

// Rotate adds pitch and yaw (degrees) and wraps both into (-180, 180].
func (c *Camera) Rotate(dPitch, dYaw float32) {
	c.Rotation.X = WrapDegrees(c.Rotation.X + dPitch)
	c.Rotation.Y = WrapDegrees(c.Rotation.Y + dYaw)
}

// Move translates the camera by d.
func (c *Camera) Move(d geom.Vec3) {
	c.Position = c.Position.Add(d)
}

// WrapDegrees maps an angle into (-180, 180].
func WrapDegrees(deg float32) float32 {
	d := math.Mod(float64(deg), 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return float32(d)
}
