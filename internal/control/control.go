// Package control moves a camera from keyboard state.
//
// It does not poll any input system itself; windowing backends implement
// KeyState and call Controller.Update once per frame.
package control

import (
	"painter3d/internal/geom"
	"painter3d/internal/projection"
)

// Key is a logical camera control key.
type Key uint8

const (
	KeyLookUp Key = iota
	KeyLookDown
	KeyLookLeft
	KeyLookRight
	KeyForward
	KeyBack
	KeyLeft
	KeyRight
	KeyRise
	KeyFall
	KeyReload
	keyCount
)

// KeyState reports whether a key is currently held.
type KeyState interface {
	Pressed(k Key) bool
}

// KeySet is a KeyState backed by a fixed array; backends fill it each frame.
type KeySet [keyCount]bool

func (s *KeySet) Pressed(k Key) bool { return k < keyCount && s[k] }

func (s *KeySet) Set(k Key, down bool) {
	if k < keyCount {
		s[k] = down
	}
}

// Controller converts held keys into camera motion scaled by frame time.
type Controller struct {
	RotateSpeed float32 // degrees per second
	MoveSpeed   float32 // world units per second
}

func NewController() *Controller {
	return &Controller{RotateSpeed: 45, MoveSpeed: 1}
}

// Update applies dt seconds of input to cam. Arrows turn the view, W/S and
// A/D walk along the level forward and right directions, Rise/Fall move along
// world up.
func (c *Controller) Update(cam *projection.Camera, keys KeyState, dt float32) {
	if cam == nil || keys == nil || dt <= 0 {
		return
	}

	turn := c.RotateSpeed * dt
	var dPitch, dYaw float32
	if keys.Pressed(KeyLookUp) {
		dPitch -= turn
	}
	if keys.Pressed(KeyLookDown) {
		dPitch += turn
	}
	if keys.Pressed(KeyLookLeft) {
		dYaw -= turn
	}
	if keys.Pressed(KeyLookRight) {
		dYaw += turn
	}
	if dPitch != 0 || dYaw != 0 {
		cam.Rotate(dPitch, dYaw)
	}

	b := cam.Basis()
	var dir geom.Vec3
	if keys.Pressed(KeyForward) {
		dir = dir.Add(b.MoveForward)
	}
	if keys.Pressed(KeyBack) {
		dir = dir.Sub(b.MoveForward)
	}
	if keys.Pressed(KeyRight) {
		dir = dir.Add(b.MoveRight)
	}
	if keys.Pressed(KeyLeft) {
		dir = dir.Sub(b.MoveRight)
	}
	if keys.Pressed(KeyRise) {
		dir = dir.Add(geom.V3(0, 1, 0))
	}
	if keys.Pressed(KeyFall) {
		dir = dir.Sub(geom.V3(0, 1, 0))
	}
	// Opposite keys cancel out; SetLength is undefined on a zero vector.
	if dir.IsZero() {
		return
	}
	cam.Move(dir.SetLength(c.MoveSpeed * dt))
}
