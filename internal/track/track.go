// Package track holds the normalized GPS position stream: one sample per
// fix, stamped with whole seconds elapsed since the first fix of the
// stream.
package track

import (
	"math"
	"time"

	"github.com/NikJur/CoxOrb/internal/gpx"
)

type Sample struct {
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Time       time.Time `json:"time"`
	ElapsedSec int       `json:"elapsed_sec"`
}

// FromGPX flattens a parsed GPX document into a position stream and stamps
// elapsed seconds. Source order is preserved; callers are expected to feed
// tracks whose fixes are already time-ordered.
func FromGPX(doc *gpx.Document) []Sample {
	pts := doc.Points()
	samples := make([]Sample, 0, len(pts))
	for _, p := range pts {
		samples = append(samples, Sample{Lat: p.Lat, Lon: p.Lon, Time: p.Time})
	}
	Normalize(samples)
	return samples
}

// Normalize stamps ElapsedSec on each sample relative to the first
// sample's timestamp, rounded to the nearest whole second. An empty slice
// is left untouched.
func Normalize(samples []Sample) {
	if len(samples) == 0 {
		return
	}
	start := samples[0].Time
	for i := range samples {
		samples[i].ElapsedSec = int(math.Round(samples[i].Time.Sub(start).Seconds()))
	}
}

// Traveled returns the prefix of samples whose elapsed time is at or
// before elapsedSec: the "path so far" drawn behind the replay marker.
func Traveled(samples []Sample, elapsedSec int) []Sample {
	n := 0
	for n < len(samples) && samples[n].ElapsedSec <= elapsedSec {
		n++
	}
	return samples[:n]
}

// TotalDistanceKm sums the haversine distance over consecutive fixes.
func TotalDistanceKm(samples []Sample) float64 {
	total := 0.0
	for i := 1; i < len(samples); i++ {
		total += HaversineKm(samples[i-1].Lat, samples[i-1].Lon, samples[i].Lat, samples[i].Lon)
	}
	return total
}

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
