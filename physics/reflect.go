package physics

import "pongsync/world"

// Reflect bounces reflected off reflector. The face that was hit is picked
// from the angle between the two centres compared with the angles to the
// reflector's corners: the top and bottom sectors flip the vertical axis,
// everything else flips the horizontal one. The reflected entity is then
// pushed just outside that face.
func Reflect(reflected, reflector *world.Motion) {
	dir := reflector.Position.Sub(reflected.Position)
	incoming := dir.Angle()

	bb := reflector.Box()
	c := reflector.Position
	topRight := bb.TopRight().Sub(c).Angle()
	topLeft := bb.TopLeft().Sub(c).Angle()
	bottomRight := bb.BottomRight().Sub(c).Angle()
	bottomLeft := bb.BottomLeft().Sub(c).Angle()

	vertical := (incoming >= bottomRight && incoming <= bottomLeft) ||
		(incoming >= topLeft && incoming <= topRight)

	if vertical {
		reflected.Velocity.Y = -reflected.Velocity.Y
		reflected.Acceleration.Y = -reflected.Acceleration.Y
		if dir.Y >= 0 {
			reflected.Position.Y = bb.Top - reflected.Scale.Y/2
		} else {
			reflected.Position.Y = bb.Bottom + reflected.Scale.Y/2
		}
		return
	}

	reflected.Velocity.X = -reflected.Velocity.X
	reflected.Acceleration.X = -reflected.Acceleration.X
	if dir.X >= 0 {
		reflected.Position.X = bb.Left - reflected.Scale.X/2
	} else {
		reflected.Position.X = bb.Right + reflected.Scale.X/2
	}
}
