package computer

import "math"

// Resolve maps a coordinate onto absolute pixels. Screen coordinates (and
// coordinates with no type) pass through; normal ones scale by screen size
// over NormalFactor.
func Resolve(c Coordinate, ec ExecutionContext) (Point, error) {
	var p Point

	switch c.Type {
	case CoordinateScreen, "":
		p = Point{X: c.X, Y: c.Y}
	case CoordinateNormal:
		if ec.NormalFactor == 0 {
			return Point{}, invalidRequest("normalFactor must be non-zero to resolve normal coordinates")
		}
		p = Point{
			X: c.X * float64(ec.ScreenWidth) / ec.NormalFactor,
			Y: c.Y * float64(ec.ScreenHeight) / ec.NormalFactor,
		}
	default:
		return Point{}, invalidRequest("unsupported coordinate type %q", c.Type)
	}

	if !finite(p.X) || !finite(p.Y) {
		return Point{}, invalidRequest("coordinate (%v, %v) does not resolve to a finite pixel position", c.X, c.Y)
	}
	return p, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
