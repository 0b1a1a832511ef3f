package replay

import (
	"fmt"
	"math"
)

// ChartPoint is one x-axis position with its metric values, as handed to
// the chart collaborator.
type ChartPoint struct {
	X       int                `json:"x"`
	Metrics map[string]float64 `json:"metrics"`
}

// ChartData is the trim-windowed series plus the highlight position of
// the replay marker within that window.
type ChartData struct {
	Points           []ChartPoint `json:"points"`
	Highlight        int          `json:"highlight"`
	HighlightVisible bool         `json:"highlight_visible"`
}

// ChartWindow projects the joined rows inside the current trim window
// into chart series. Metrics the source never provided are omitted per
// point rather than charted as zeros: speed only when the export carried
// a speed column, split only when a meaningful (non-sentinel) value
// exists.
func ChartWindow(rows []Row, s *State) ChartData {
	var data ChartData
	data.Highlight, data.HighlightVisible = s.Highlight()

	visible := Window(rows, s)
	data.Points = make([]ChartPoint, 0, len(visible))
	for _, r := range visible {
		m := map[string]float64{"rate": r.Rate}
		if r.HasSpeed {
			m["speed"] = r.Speed
		}
		if r.Split > 0 {
			m["split"] = r.Split
		}
		data.Points = append(data.Points, ChartPoint{X: r.ElapsedSec, Metrics: m})
	}
	return data
}

// FormatSplit renders a 500m split in the conventional M:SS.s form.
// The zero sentinel (and any negative or non-finite value) renders as
// a dash.
func FormatSplit(sec float64) string {
	if sec <= 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		return "-"
	}
	m := int(sec) / 60
	rem := sec - float64(m*60)
	// Guard against 59.95+ rounding up to "60.0" seconds.
	if rem >= 59.95 {
		m++
		rem = 0
	}
	return fmt.Sprintf("%d:%04.1f", m, rem)
}
