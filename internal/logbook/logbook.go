// Package logbook holds the stroke-performance stream read from a rowing
// instrument CSV export: distance, stroke rate, speed and split per
// sample, keyed by elapsed seconds parsed from the instrument's free-text
// time column.
package logbook

import (
	"math"
	"strconv"
	"strings"

	"github.com/NikJur/CoxOrb/internal/csvtab"
)

type Sample struct {
	Distance    float64 `json:"distance"`
	Rate        float64 `json:"rate"`
	Speed       float64 `json:"speed"`
	Split       float64 `json:"split"`
	HasSpeed    bool    `json:"-"`
	HasSplit    bool    `json:"-"`
	ElapsedText string  `json:"elapsed_text"`
	ElapsedSec  int     `json:"elapsed_sec"`

	// Extra carries unrecognized instrument columns through untouched.
	Extra map[string]string `json:"-"`
}

// Header aliases seen across CoxOrb firmware revisions.
var (
	distanceCols = []string{"Distance", "Distance (m)", "Dist"}
	rateCols     = []string{"Rate", "Stroke Rate", "SPM"}
	speedCols    = []string{"Speed", "Speed (m/s)"}
	splitCols    = []string{"Split", "Split (/500m)"}
	elapsedCols  = []string{"Elapsed Time", "Elapsed", "Time"}
)

// ParseElapsed converts the instrument's elapsed-time text into whole
// seconds. Accepted shapes: a bare number of seconds, "MM:SS" and
// "H:MM:SS" (seconds may carry a fraction). Anything unparsable, negative
// or NaN maps to 0; this fallback is deliberate — one malformed cell must
// not take down the whole upload.
func ParseElapsed(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return clampSeconds(v)
	}

	parts := strings.Split(text, ":")
	var total float64
	switch len(parts) {
	case 3:
		h, errH := strconv.ParseFloat(parts[0], 64)
		m, errM := strconv.ParseFloat(parts[1], 64)
		s, errS := strconv.ParseFloat(parts[2], 64)
		if errH != nil || errM != nil || errS != nil {
			return 0
		}
		total = h*3600 + m*60 + s
	case 2:
		m, errM := strconv.ParseFloat(parts[0], 64)
		s, errS := strconv.ParseFloat(parts[1], 64)
		if errM != nil || errS != nil {
			return 0
		}
		total = m*60 + s
	default:
		return 0
	}
	return clampSeconds(total)
}

func clampSeconds(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	// Truncate the fractional part: "01:02:03.5" reads as 3723 seconds.
	return int(v)
}

// FromTable maps the instrument CSV onto the performance stream. Optional
// columns (speed, split) are simply absent when the export lacks them;
// rows never fail individually.
func FromTable(t *csvtab.Table) []Sample {
	samples := make([]Sample, 0, t.Len())
	hasSpeedCol := t.HasColumn(speedCols...)
	hasSplitCol := t.HasColumn(splitCols...)

	for i := 0; i < t.Len(); i++ {
		s := Sample{
			ElapsedText: t.Field(i, elapsedCols...),
			Extra:       t.Row(i),
		}
		s.ElapsedSec = ParseElapsed(s.ElapsedText)
		s.Distance, _ = parseFloat(t.Field(i, distanceCols...))
		s.Rate, _ = parseFloat(t.Field(i, rateCols...))
		if hasSpeedCol {
			s.Speed, s.HasSpeed = parseFloat(t.Field(i, speedCols...))
		}
		if hasSplitCol {
			s.Split, s.HasSplit = parseFloat(t.Field(i, splitCols...))
		}
		samples = append(samples, s)
	}
	return samples
}

func parseFloat(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// DeriveSplit fills the 500m split on samples that lack one:
// 500/speed when the speed is a positive number, otherwise 0 as the
// "no meaningful split" sentinel. Running it twice is a no-op.
func DeriveSplit(samples []Sample) {
	for i := range samples {
		if samples[i].HasSplit {
			continue
		}
		if samples[i].HasSpeed && samples[i].Speed > 0 {
			samples[i].Split = 500 / samples[i].Speed
		} else {
			samples[i].Split = 0
		}
	}
}
