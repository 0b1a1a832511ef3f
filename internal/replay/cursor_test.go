package replay

import (
	"math"
	"math/rand"
	"testing"

	"github.com/NikJur/CoxOrb/internal/track"
)

// bruteNearest is the reference resolver: a full scan keeping the last
// index at the minimal distance, matching the cursor's later-on-tie rule.
func bruteNearest(samples []track.Sample, playback float64) int {
	if len(samples) == 0 {
		return -1
	}
	best := 0
	for i := range samples {
		if math.Abs(playback-float64(samples[i].ElapsedSec)) <= math.Abs(playback-float64(samples[best].ElapsedSec)) {
			best = i
		}
	}
	return best
}

func cursorFixture() []track.Sample {
	samples := make([]track.Sample, 50)
	for i := range samples {
		samples[i].ElapsedSec = i * 7
	}
	return samples
}

func TestCursorForwardMonotonic(t *testing.T) {
	samples := cursorFixture()
	c := NewCursor(samples)

	last := -1
	for playback := 0.0; playback < 400; playback += 0.25 {
		idx := c.Resolve(playback)
		if idx < last {
			t.Fatalf("resolved index went backward at playback %v: %d < %d", playback, idx, last)
		}
		if want := bruteNearest(samples, playback); idx != want {
			t.Fatalf("playback %v: got %d, want %d", playback, idx, want)
		}
		last = idx
	}
}

func TestCursorBackwardScrub(t *testing.T) {
	samples := cursorFixture()
	c := NewCursor(samples)

	c.Resolve(300)
	idx := c.Resolve(12)
	if want := bruteNearest(samples, 12); idx != want {
		t.Fatalf("after backward scrub: got %d, want %d", idx, want)
	}
}

func TestCursorRandomProbesAgainstReference(t *testing.T) {
	samples := cursorFixture()
	c := NewCursor(samples)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 5000; i++ {
		playback := rng.Float64() * 420
		if got, want := c.Resolve(playback), bruteNearest(samples, playback); got != want {
			t.Fatalf("probe %v: got %d, want %d", playback, got, want)
		}
	}
}

func TestCursorEmpty(t *testing.T) {
	c := NewCursor(nil)
	if idx := c.Resolve(10); idx != -1 {
		t.Fatalf("expected -1 for empty stream, got %d", idx)
	}
	if _, ok := c.Time(-1); ok {
		t.Fatalf("expected no sample")
	}
}

func TestCursorTime(t *testing.T) {
	samples := cursorFixture()
	c := NewCursor(samples)
	idx := c.Resolve(15)
	sec, ok := c.Time(idx)
	if !ok || sec != 14 {
		t.Fatalf("unexpected time: %d ok=%v", sec, ok)
	}
	if _, ok := c.Time(len(samples)); ok {
		t.Fatalf("expected out-of-range miss")
	}
}

func TestRowCursor(t *testing.T) {
	rows := []Row{{ElapsedSec: 0}, {ElapsedSec: 30}, {ElapsedSec: 60}}
	c := NewRowCursor(rows)
	if idx := c.Resolve(40); idx != 1 {
		t.Fatalf("expected nearest row 1, got %d", idx)
	}
	if idx := c.Resolve(46); idx != 2 {
		t.Fatalf("expected nearest row 2, got %d", idx)
	}
}

func TestCursorBeyondEnds(t *testing.T) {
	samples := cursorFixture()
	c := NewCursor(samples)
	if idx := c.Resolve(-100); idx != 0 {
		t.Fatalf("before start should resolve first sample, got %d", idx)
	}
	if idx := c.Resolve(1e9); idx != len(samples)-1 {
		t.Fatalf("past end should resolve last sample, got %d", idx)
	}
}
