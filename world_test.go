package collidesim

import (
	"context"
	"errors"
	"testing"
)

func newTestWorld(t *testing.T, cfg Config) *World {
	t.Helper()
	w, err := NewWorld(cfg, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestScenarioHeadOnPairEqualMass(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.TimeStep = 0.5
	w := newTestWorld(t, cfg)

	if _, err := w.AddSegment(Vec2{X: 0.55, Y: 0.75}, Vec2{X: 0.65, Y: 0.75}, Vec2{X: 0.1, Y: 0}, Red); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddSegment(Vec2{X: 0.85, Y: 0.75}, Vec2{X: 0.75, Y: 0.75}, Vec2{X: -0.1, Y: 0}, Red); err != nil {
		t.Fatal(err)
	}

	if err := w.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if got := w.LineLineCount(); got != 1 {
		t.Errorf("LineLineCount = %d, want 1", got)
	}
	if got := w.WallCount(); got != 0 {
		t.Errorf("WallCount = %d, want 0", got)
	}

	v0, _ := w.Segment(0)
	v1, _ := w.Segment(1)
	if !almostEqual(v0.Velocity.X, -0.1) {
		t.Errorf("segment 0 velocity.X = %v, want -0.1", v0.Velocity.X)
	}
	if !almostEqual(v1.Velocity.X, 0.1) {
		t.Errorf("segment 1 velocity.X = %v, want 0.1", v1.Velocity.X)
	}
}

func TestScenarioWallBounce(t *testing.T) {
	cfg := DefaultConfig(1)
	cfg.TimeStep = 0.5
	w := newTestWorld(t, cfg)

	if _, err := w.AddSegment(Vec2{X: 0.55, Y: 0.55}, Vec2{X: 0.60, Y: 0.55}, Vec2{X: -0.5, Y: 0}, Gray); err != nil {
		t.Fatal(err)
	}

	if err := w.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if got := w.LineLineCount(); got != 0 {
		t.Errorf("LineLineCount = %d, want 0", got)
	}
	if got := w.WallCount(); got != 1 {
		t.Errorf("WallCount = %d, want 1", got)
	}

	v0, _ := w.Segment(0)
	if !almostEqual(v0.Velocity.X, 0.5) {
		t.Errorf("velocity.X = %v, want 0.5", v0.Velocity.X)
	}
}

func TestScenarioNoContact(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.TimeStep = 0.5
	w := newTestWorld(t, cfg)

	if _, err := w.AddSegment(Vec2{X: 0.5, Y: 0.5}, Vec2{X: 0.55, Y: 0.5}, Vec2{X: 0.01, Y: 0}, Red); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddSegment(Vec2{X: 0.95, Y: 0.95}, Vec2{X: 0.99, Y: 0.95}, Vec2{X: -0.01, Y: 0}, Red); err != nil {
		t.Fatal(err)
	}

	before0, _ := w.Segment(0)
	before1, _ := w.Segment(1)

	if err := w.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if got := w.LineLineCount(); got != 0 {
		t.Errorf("LineLineCount = %d, want 0", got)
	}

	after0, _ := w.Segment(0)
	after1, _ := w.Segment(1)

	wantP1_0 := before0.P1.add(before0.Velocity.scale(cfg.TimeStep))
	if !almostEqual(after0.P1.X, wantP1_0.X) || !almostEqual(after0.P1.Y, wantP1_0.Y) {
		t.Errorf("segment 0 p1 = %v, want %v", after0.P1, wantP1_0)
	}
	if after1.Velocity != before1.Velocity {
		t.Errorf("segment 1 velocity changed with no contact: %v -> %v", before1.Velocity, after1.Velocity)
	}
}

func TestScenarioAlreadyIntersecting(t *testing.T) {
	cfg := DefaultConfig(2)
	cfg.BoxMin, cfg.BoxMax = Vec2{X: -20, Y: -20}, Vec2{X: 20, Y: 20}
	cfg.TimeStep = 0.5
	w := newTestWorld(t, cfg)

	if _, err := w.AddSegment(Vec2{X: 0, Y: 0}, Vec2{X: 10, Y: 10}, Vec2{X: 0.01, Y: 0.01}, Red); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddSegment(Vec2{X: 0, Y: 10}, Vec2{X: 10, Y: 0}, Vec2{X: -0.01, Y: -0.01}, Gray); err != nil {
		t.Fatal(err)
	}

	speed0, _ := w.Segment(0)
	speed1, _ := w.Segment(1)
	mag0, mag1 := speed0.Velocity.length(), speed1.Velocity.length()

	if err := w.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if got := w.LineLineCount(); got != 1 {
		t.Errorf("LineLineCount = %d, want 1", got)
	}

	after0, _ := w.Segment(0)
	after1, _ := w.Segment(1)
	if !almostEqual(after0.Velocity.length(), mag0) {
		t.Errorf("segment 0 speed changed: before=%v after=%v", mag0, after0.Velocity.length())
	}
	if !almostEqual(after1.Velocity.length(), mag1) {
		t.Errorf("segment 1 speed changed: before=%v after=%v", mag1, after1.Velocity.length())
	}
}

func TestScenarioTripleAtOnePoint(t *testing.T) {
	cfg := DefaultConfig(3)
	cfg.BoxMin, cfg.BoxMax = Vec2{X: -20, Y: -20}, Vec2{X: 20, Y: 20}
	cfg.TimeStep = 1.0
	w := newTestWorld(t, cfg)

	// Three segments whose sweeps all pass near the origin within the step.
	if _, err := w.AddSegment(Vec2{X: -2, Y: 0.1}, Vec2{X: -1, Y: 0.1}, Vec2{X: 1.5, Y: -0.1}, Red); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddSegment(Vec2{X: 2, Y: -0.1}, Vec2{X: 1, Y: -0.1}, Vec2{X: -1.5, Y: 0.1}, Red); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddSegment(Vec2{X: 0.1, Y: -2}, Vec2{X: 0.1, Y: -1}, Vec2{X: -0.1, Y: 1.5}, Gray); err != nil {
		t.Fatal(err)
	}

	if err := w.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}

	// However many pair-events this particular geometry yields, deduplication
	// leaves at most one dispatched event per pair, so 3 segments give at
	// most 3. This checks only that bound; it does not check which pairs
	// collide or the order in which they are dispatched.
	if got := w.LineLineCount(); got > 3 {
		t.Errorf("LineLineCount = %d, want at most 3 for 3 segments", got)
	}
}

func TestDegenerateSegmentRejected(t *testing.T) {
	w := newTestWorld(t, DefaultConfig(1))
	_, err := w.AddSegment(Vec2{X: 1, Y: 1}, Vec2{X: 1, Y: 1}, Vec2{}, Red)
	if err == nil {
		t.Fatal("expected an error for a zero-length segment")
	}
}

func TestSegmentOutOfRange(t *testing.T) {
	w := newTestWorld(t, DefaultConfig(1))
	if _, err := w.AddSegment(Vec2{X: 0, Y: 0}, Vec2{X: 1, Y: 0}, Vec2{}, Red); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Segment(5); err == nil {
		t.Fatal("expected an error for an out-of-range index")
	}
}

func TestStepPropagatesCancelCause(t *testing.T) {
	w := newTestWorld(t, DefaultConfig(1))
	if _, err := w.AddSegment(Vec2{X: 0, Y: 0}, Vec2{X: 1, Y: 0}, Vec2{}, Red); err != nil {
		t.Fatal(err)
	}

	myCause := errors.New("simulation aborted by caller")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(myCause)

	err := w.Step(ctx)
	if err == nil {
		t.Fatal("expected Step to return an error for an already-canceled context")
	}
	if !errors.Is(err, myCause) {
		t.Errorf("Step error does not wrap the cancellation cause: %v", err)
	}
}

func TestStepPropagatesPlainCancel(t *testing.T) {
	w := newTestWorld(t, DefaultConfig(1))
	if _, err := w.AddSegment(Vec2{X: 0, Y: 0}, Vec2{X: 1, Y: 0}, Vec2{}, Red); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := w.Step(ctx)
	if err == nil {
		t.Fatal("expected Step to return an error for an already-canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Step error does not wrap context.Canceled: %v", err)
	}
}

func TestStepIsMonotoneAcrossManySteps(t *testing.T) {
	cfg := DefaultConfig(80)
	cfg.TimeStep = 0.05
	w := newTestWorld(t, cfg)

	segs := randomSegments(80, cfg.BoxMin, cfg.BoxMax, 3, cfg.TimeStep)
	for _, s := range segs {
		if _, err := w.AddSegment(s.p1, s.p2, s.velocity, Red); err != nil {
			t.Fatal(err)
		}
	}

	var prevLL, prevWall uint64
	for i := 0; i < 20; i++ {
		if err := w.Step(context.Background()); err != nil {
			t.Fatalf("Step %d: %v", i, err)
		}
		if w.LineLineCount() < prevLL {
			t.Fatalf("LineLineCount decreased at step %d", i)
		}
		if w.WallCount() < prevWall {
			t.Fatalf("WallCount decreased at step %d", i)
		}
		prevLL, prevWall = w.LineLineCount(), w.WallCount()
	}
}
