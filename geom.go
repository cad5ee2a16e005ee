package sprite

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a world position. Z orders items: lower Z draws first.
type Vec3 struct {
	X, Y, Z float32
}

// XY drops the depth component.
func (v Vec3) XY() Vec2 { return Vec2{v.X, v.Y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Rect is an integer rectangle in texels, origin at the top-left of the
// texture.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Size is an integer width and height.
type Size struct {
	W, H int
}
