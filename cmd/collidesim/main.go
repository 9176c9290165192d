// Command collidesim is a small driver around the collidesim package: it
// builds a World, steps it, and prints the resulting Metrics. It is the
// "simulation driver" the core engine package itself deliberately leaves out.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/GregoryKogan/collidesim"
)

func main() {
	cmd := &cli.Command{
		Name:  "collidesim",
		Usage: "Drive a collidesim.World and report collision metrics",
		Commands: []*cli.Command{
			runCommand(),
			validateCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Simulate N random segments for K steps and report metrics",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "segments", Aliases: []string{"n"}, Value: 100, Usage: "number of segments to seed"},
			&cli.IntFlag{Name: "steps", Aliases: []string{"k"}, Value: 50, Usage: "number of Step calls to run"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "RNG seed for reproducible segment generation"},
			&cli.IntFlag{Name: "workers", Usage: "goroutine pool size (0 = GOMAXPROCS)"},
			&cli.IntFlag{Name: "slowest-steps", Value: 0, Usage: "print the N slowest steps by wall-clock duration"},
			&cli.BoolFlag{Name: "verbose", Usage: "enable debug-level logging"},
		},
		Action: runAction,
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	n := int(cmd.Int("segments"))
	steps := int(cmd.Int("steps"))
	seed := cmd.Int("seed")
	slowestN := int(cmd.Int("slowest-steps"))

	logger := zap.NewNop()
	if cmd.Bool("verbose") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
	}
	defer logger.Sync() //nolint:errcheck

	cfg := collidesim.DefaultConfig(n)
	if w := int(cmd.Int("workers")); w > 0 {
		cfg.Workers = w
	}

	world, err := collidesim.NewWorld(cfg, logger)
	if err != nil {
		return fmt.Errorf("building world: %w", err)
	}

	if err := seedRandomSegments(world, cfg, n, seed); err != nil {
		return fmt.Errorf("seeding segments: %w", err)
	}

	slowest := newSlowestSteps(slowestN)
	for i := 0; i < steps; i++ {
		start := time.Now()
		if err := world.Step(ctx); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		slowest.record(i, time.Since(start))
	}

	snap := world.Snapshot()
	fmt.Printf("segments=%d steps=%d line-line=%d wall=%d last-step=%s\n",
		snap.NumSegments, snap.StepsRun, snap.NumLineLineCollisions, snap.NumLineWallCollisions, snap.LastStepDuration)

	if slowestN > 0 {
		fmt.Printf("slowest %d steps:\n", slowestN)
		for _, s := range slowest.drain() {
			fmt.Printf("  step %d: %s\n", s.step, s.duration)
		}
	}

	return nil
}

// seedRandomSegments adds n non-degenerate segments with random endpoints
// and velocities inside cfg's box, using a seeded RNG for reproducibility.
func seedRandomSegments(world *collidesim.World, cfg collidesim.Config, n int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))
	span := collidesim.Vec2{X: cfg.BoxMax.X - cfg.BoxMin.X, Y: cfg.BoxMax.Y - cfg.BoxMin.Y}

	randPoint := func() collidesim.Vec2 {
		return collidesim.Vec2{
			X: cfg.BoxMin.X + rng.Float64()*span.X,
			Y: cfg.BoxMin.Y + rng.Float64()*span.Y,
		}
	}

	for i := 0; i < n; i++ {
		p1 := randPoint()
		var p2 collidesim.Vec2
		for {
			p2 = randPoint()
			if p2 != p1 {
				break
			}
		}
		velocity := collidesim.Vec2{
			X: (rng.Float64() - 0.5) * span.X * 0.1,
			Y: (rng.Float64() - 0.5) * span.Y * 0.1,
		}
		color := collidesim.Red
		if i%2 == 1 {
			color = collidesim.Gray
		}
		if _, err := world.AddSegment(p1, p2, velocity, color); err != nil {
			return err
		}
	}
	return nil
}

// stepTiming pairs a step index with its wall-clock duration.
type stepTiming struct {
	step     int
	duration time.Duration
}

// slowestSteps keeps a fixed-size rolling window of the slowest recorded
// steps (§11), backed by a priority queue ordered so the fastest of the kept
// steps dequeues first — that is the one evicted when a slower step arrives
// once the window is full. This bounds memory to limit entries regardless of
// how many steps are recorded, rather than growing with the run length.
type slowestSteps struct {
	limit int
	pq    *priorityqueue.Queue
}

func newSlowestSteps(limit int) *slowestSteps {
	return &slowestSteps{
		limit: limit,
		pq: priorityqueue.NewWith(func(a, b interface{}) int {
			ta, tb := a.(stepTiming), b.(stepTiming)
			switch {
			case ta.duration < tb.duration:
				return -1
			case ta.duration > tb.duration:
				return 1
			default:
				return 0
			}
		}),
	}
}

// record admits (step, d) into the rolling window: unconditionally while the
// window has room, or only if d beats the window's current fastest kept
// step, which is then evicted.
func (s *slowestSteps) record(step int, d time.Duration) {
	if s.limit <= 0 {
		return
	}
	t := stepTiming{step: step, duration: d}
	if s.pq.Size() < s.limit {
		s.pq.Enqueue(t)
		return
	}
	if min, ok := s.pq.Peek(); ok && t.duration > min.(stepTiming).duration {
		s.pq.Dequeue()
		s.pq.Enqueue(t)
	}
}

// drain empties the window and returns its contents sorted slowest-first.
func (s *slowestSteps) drain() []stepTiming {
	out := make([]stepTiming, 0, s.pq.Size())
	for {
		v, ok := s.pq.Dequeue()
		if !ok {
			break
		}
		out = append(out, v.(stepTiming))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].duration > out[j].duration })
	return out
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Parse a JSON config file and report whether it validates",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Required: true, Usage: "path to a JSON-encoded collidesim.Config"},
		},
		Action: validateAction,
	}
}

func validateAction(_ context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg collidesim.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid: %v\n", err)
		return err
	}

	fmt.Printf("valid: %+v\n", cfg)
	return nil
}
