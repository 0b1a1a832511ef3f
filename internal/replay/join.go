// Package replay is the time-alignment core: it joins the GPS position
// stream with the instrument's performance stream on a shared elapsed-time
// axis and drives index-based scrubbing and clock-based playback over the
// joined result.
package replay

import (
	"sort"

	"github.com/NikJur/CoxOrb/internal/logbook"
	"github.com/NikJur/CoxOrb/internal/track"
)

// DefaultTolerance is the widest allowed gap, in seconds, between a
// performance sample and its nearest position fix. Changing it changes
// which samples pair up, so it is part of the observable contract.
const DefaultTolerance = 5

// Row is one joined sample: a performance reading pinned to the position
// fix nearest in elapsed time.
type Row struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Distance    float64 `json:"distance"`
	Rate        float64 `json:"rate"`
	Speed       float64 `json:"speed"`
	HasSpeed    bool    `json:"has_speed"`
	Split       float64 `json:"split"`
	ElapsedSec  int     `json:"elapsed_sec"`
	ElapsedText string  `json:"elapsed_text"`
}

// Join pairs each performance sample with the position sample closest in
// elapsed seconds, keeping the pair only when the gap is within
// tolerance. Performance samples with no fix in range are dropped rather
// than emitted with empty coordinates. Both inputs are stable-sorted by
// elapsed time first; when a sample sits exactly between two fixes the
// earlier fix wins. The scan is a single forward pass over both streams
// after sorting.
func Join(pos []track.Sample, perf []logbook.Sample, tolerance int) []Row {
	if len(pos) == 0 || len(perf) == 0 {
		return nil
	}

	sortedPos := make([]track.Sample, len(pos))
	copy(sortedPos, pos)
	sort.SliceStable(sortedPos, func(i, j int) bool {
		return sortedPos[i].ElapsedSec < sortedPos[j].ElapsedSec
	})

	sortedPerf := make([]logbook.Sample, len(perf))
	copy(sortedPerf, perf)
	sort.SliceStable(sortedPerf, func(i, j int) bool {
		return sortedPerf[i].ElapsedSec < sortedPerf[j].ElapsedSec
	})

	rows := make([]Row, 0, len(sortedPerf))
	j := 0
	for _, p := range sortedPerf {
		// Nearest fix index never moves backward because perf is sorted.
		for j+1 < len(sortedPos) &&
			absInt(sortedPos[j+1].ElapsedSec-p.ElapsedSec) < absInt(sortedPos[j].ElapsedSec-p.ElapsedSec) {
			j++
		}
		if absInt(sortedPos[j].ElapsedSec-p.ElapsedSec) > tolerance {
			continue
		}
		rows = append(rows, Row{
			Lat:         sortedPos[j].Lat,
			Lon:         sortedPos[j].Lon,
			Distance:    p.Distance,
			Rate:        p.Rate,
			Speed:       p.Speed,
			HasSpeed:    p.HasSpeed,
			Split:       p.Split,
			ElapsedSec:  p.ElapsedSec,
			ElapsedText: p.ElapsedText,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return rows
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
