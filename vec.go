package collidesim

import "math"

// epsilon is a small constant used for floating-point comparisons to handle
// precision errors. It defines the tolerance for considering two numbers equal.
const epsilon = 1e-9

// Vec2 is a point or a vector in a 2D Cartesian coordinate system, depending
// on context. Segments are built from Vec2 endpoints; velocities and deltas
// are also Vec2 values.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec2) normalized() Vec2 {
	l := v.length()
	if l < epsilon {
		return Vec2{}
	}
	return v.scale(1 / l)
}

// orthogonal returns v rotated 90 degrees counter-clockwise.
func (v Vec2) orthogonal() Vec2 {
	return Vec2{-v.Y, v.X}
}

// cross returns the scalar (z-component) cross product of v and o.
func (v Vec2) cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// direction returns a value proportional to the signed area of the triangle
// (pi, pj, pk); its sign gives the turn from pi->pj to pi->pk.
func direction(pi, pj, pk Vec2) float64 {
	return pk.sub(pi).cross(pj.sub(pi))
}

// whichSide reports which side of the directed line (e,f) the point p falls
// on, using the ">= 0" convention so that points exactly on the line are
// consistently grouped with one side rather than causing spurious mismatches.
func whichSide(e, f, p Vec2) bool {
	return (f.X-e.X)*(p.Y-f.Y)-(f.Y-e.Y)*(p.X-f.X) >= 0
}

// segmentsCross reports whether segment (p1,p2) and segment (p3,p4) straddle
// each other, using whichSide's ">= 0" convention. Points exactly on a line
// count as one side, so a touching endpoint is reported only for some
// orientations, and exactly colinear segments are never reported as
// crossing, even when they overlap.
func segmentsCross(p1, p2, p3, p4 Vec2) bool {
	return whichSide(p1, p2, p3) != whichSide(p1, p2, p4) &&
		whichSide(p3, p4, p1) != whichSide(p3, p4, p2)
}

// pointInParallelogram reports whether point lies strictly inside the
// parallelogram with corners p1, p2, p3, p4 (p1-p2 and p3-p4 being the two
// parallel sides).
func pointInParallelogram(point, p1, p2, p3, p4 Vec2) bool {
	d1 := direction(p1, p2, point)
	d2 := direction(p3, p4, point)
	d3 := direction(p1, p3, point)
	d4 := direction(p2, p4, point)
	return d1*d2 < 0 && d3*d4 < 0
}

// lineIntersectionPoint returns the point where the infinite lines through
// (p1,p2) and (p3,p4) cross. Callers must only invoke this when the two
// segments are already known to intersect (segmentsCross returned true),
// since that guarantees the lines are not parallel.
func lineIntersectionPoint(p1, p2, p3, p4 Vec2) Vec2 {
	u := ((p4.X-p3.X)*(p1.Y-p3.Y) - (p4.Y-p3.Y)*(p1.X-p3.X)) /
		((p4.Y-p3.Y)*(p2.X-p1.X) - (p4.X-p3.X)*(p2.Y-p1.Y))
	return p1.add(p2.sub(p1).scale(u))
}

// signedAngle returns the signed angle in radians from vector a to vector b,
// in the range (-pi, pi].
func signedAngle(a, b Vec2) float64 {
	return math.Atan2(a.cross(b), a.dot(b))
}
