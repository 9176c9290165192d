package collidesim

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestVec2Arithmetic(t *testing.T) {
	a := Vec2{X: 1, Y: 2}
	b := Vec2{X: 3, Y: -1}

	if got := a.add(b); got != (Vec2{X: 4, Y: 1}) {
		t.Errorf("add: got %v", got)
	}
	if got := a.sub(b); got != (Vec2{X: -2, Y: 3}) {
		t.Errorf("sub: got %v", got)
	}
	if got := a.scale(2); got != (Vec2{X: 2, Y: 4}) {
		t.Errorf("scale: got %v", got)
	}
	if got := a.dot(b); !almostEqual(got, 1) {
		t.Errorf("dot: got %v, want 1", got)
	}
}

func TestVec2Normalized(t *testing.T) {
	v := Vec2{X: 3, Y: 4}
	n := v.normalized()
	if !almostEqual(n.length(), 1) {
		t.Errorf("expected unit length, got %v", n.length())
	}
	if zero := (Vec2{}).normalized(); zero != (Vec2{}) {
		t.Errorf("normalizing the zero vector should yield the zero vector, got %v", zero)
	}
}

func TestVec2Orthogonal(t *testing.T) {
	v := Vec2{X: 1, Y: 0}
	o := v.orthogonal()
	if !almostEqual(v.dot(o), 0) {
		t.Errorf("orthogonal vector should be perpendicular, dot=%v", v.dot(o))
	}
}

func TestSegmentsCrossBasic(t *testing.T) {
	p1, p2 := Vec2{X: 0, Y: 0}, Vec2{X: 10, Y: 10}
	p3, p4 := Vec2{X: 0, Y: 10}, Vec2{X: 10, Y: 0}
	if !segmentsCross(p1, p2, p3, p4) {
		t.Error("expected crossing diagonals to intersect")
	}
	if segmentsCross(p1, p2, Vec2{X: 0, Y: 1}, Vec2{X: 10, Y: 11}) {
		t.Error("expected parallel offset segments not to intersect")
	}
}

func TestPointInParallelogram(t *testing.T) {
	p1, p2, p3, p4 := Vec2{X: 0, Y: 0}, Vec2{X: 10, Y: 0}, Vec2{X: 0, Y: 10}, Vec2{X: 10, Y: 10}
	if !pointInParallelogram(Vec2{X: 5, Y: 5}, p1, p2, p3, p4) {
		t.Error("center point should be inside the parallelogram")
	}
	if pointInParallelogram(Vec2{X: 50, Y: 50}, p1, p2, p3, p4) {
		t.Error("far point should not be inside the parallelogram")
	}
}
