package replay

import (
	"math"

	"github.com/NikJur/CoxOrb/internal/track"
)

// Cursor resolves a continuously advancing playback clock (seconds, driven
// by media playback) to the index of the sample nearest in elapsed time.
// It remembers the last resolved index so that forward playback costs
// amortized O(1) per tick instead of a scan from zero; a backward scrub
// restarts the scan. The underlying times must be sorted ascending.
type Cursor struct {
	times []int
	last  int
}

// NewCursor builds a cursor over the position stream.
func NewCursor(samples []track.Sample) *Cursor {
	times := make([]int, len(samples))
	for i, s := range samples {
		times[i] = s.ElapsedSec
	}
	return &Cursor{times: times}
}

// NewRowCursor builds a cursor over the joined sequence, for attaching
// performance stats to a playback tick.
func NewRowCursor(rows []Row) *Cursor {
	times := make([]int, len(rows))
	for i, r := range rows {
		times[i] = r.ElapsedSec
	}
	return &Cursor{times: times}
}

// Resolve returns the index of the sample whose elapsed time is closest
// to playback, or -1 for an empty stream. When playback sits exactly
// between two samples the later one wins (the scan advances while the
// distance is non-increasing).
func (c *Cursor) Resolve(playback float64) int {
	if len(c.times) == 0 {
		return -1
	}

	i := c.last
	if playback < float64(c.times[i]) {
		i = 0
	}
	for i+1 < len(c.times) {
		cur := math.Abs(playback - float64(c.times[i]))
		next := math.Abs(playback - float64(c.times[i+1]))
		if next > cur {
			break
		}
		i++
	}
	c.last = i
	return i
}

// Time returns the elapsed seconds at index i, or false when i is out of
// range.
func (c *Cursor) Time(i int) (int, bool) {
	if i < 0 || i >= len(c.times) {
		return 0, false
	}
	return c.times[i], true
}
