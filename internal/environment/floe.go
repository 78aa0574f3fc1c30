package environment

import "math"

// Shape enumerates the floe outline kinds.
type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeEllipse
	ShapeIrregular
)

// String returns the wire name of the shape.
func (s Shape) String() string {
	switch s {
	case ShapeEllipse:
		return "ellipse"
	case ShapeIrregular:
		return "irregular"
	default:
		return "circle"
	}
}

// Floe is one patch of land. Radius is the bounding-circle radius used for
// the cheap pre-check; RadiusX/RadiusY/Rotation define the precise outline.
type Floe struct {
	X, Y         float64
	Radius       float64
	Shape        Shape
	RadiusX      float64
	RadiusY      float64
	Rotation     float64
	Irregularity float64 // irregular shapes only
}

// Contains reports whether the point lies inside the floe. A squared-distance
// check against the bounding circle rejects most points before the shape test.
func (f *Floe) Contains(x, y float64) bool {
	dx := x - f.X
	dy := y - f.Y
	distSq := dx*dx + dy*dy
	if distSq > f.Radius*f.Radius {
		return false
	}

	switch f.Shape {
	case ShapeCircle:
		return true // bounding circle is the shape

	case ShapeEllipse:
		lx, ly := f.toLocal(dx, dy)
		return ellipseValue(lx, ly, f.RadiusX, f.RadiusY) <= 1.0

	default: // ShapeIrregular
		lx, ly := f.toLocal(dx, dy)
		v := ellipseValue(lx, ly, f.RadiusX, f.RadiusY)
		// Perturb the boundary by angle so the outline is non-convex.
		theta := math.Atan2(ly, lx)
		limit := 1.0 + f.Irregularity*math.Sin(3*theta)*math.Cos(2*theta)
		return v <= limit
	}
}

// toLocal rotates a center-relative offset into the floe's own axes.
func (f *Floe) toLocal(dx, dy float64) (float64, float64) {
	cos := math.Cos(-f.Rotation)
	sin := math.Sin(-f.Rotation)
	return dx*cos - dy*sin, dx*sin + dy*cos
}

// ellipseValue evaluates the normalized quadratic form; ≤1 means inside.
func ellipseValue(x, y, rx, ry float64) float64 {
	nx := x / rx
	ny := y / ry
	return nx*nx + ny*ny
}
