package track

import (
	"testing"
	"time"

	"github.com/NikJur/CoxOrb/internal/gpx"
)

func TestNormalize(t *testing.T) {
	start := time.Date(2024, 5, 12, 6, 30, 0, 0, time.UTC)
	samples := []Sample{
		{Time: start},
		{Time: start.Add(9*time.Second + 600*time.Millisecond)},
		{Time: start.Add(20 * time.Second)},
	}
	Normalize(samples)

	want := []int{0, 10, 20}
	for i, w := range want {
		if samples[i].ElapsedSec != w {
			t.Fatalf("sample %d: expected %d, got %d", i, w, samples[i].ElapsedSec)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	Normalize(nil) // must not panic on missing first timestamp
}

func TestFromGPX(t *testing.T) {
	start := time.Date(2024, 5, 12, 6, 30, 0, 0, time.UTC)
	doc := &gpx.Document{Tracks: []gpx.Track{{Segments: []gpx.Segment{{Points: []gpx.Point{
		{Lat: 51.4613, Lon: -0.3037, Time: start},
		{Lat: 51.4620, Lon: -0.3049, Time: start.Add(10 * time.Second)},
	}}}}}}

	samples := FromGPX(doc)
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples")
	}
	if samples[1].ElapsedSec != 10 {
		t.Fatalf("expected elapsed 10, got %d", samples[1].ElapsedSec)
	}
}

func TestTraveled(t *testing.T) {
	samples := []Sample{
		{ElapsedSec: 0},
		{ElapsedSec: 10},
		{ElapsedSec: 20},
	}
	if got := Traveled(samples, 10); len(got) != 2 {
		t.Fatalf("expected 2 traveled samples, got %d", len(got))
	}
	if got := Traveled(samples, -1); len(got) != 0 {
		t.Fatalf("expected empty prefix")
	}
	if got := Traveled(samples, 100); len(got) != 3 {
		t.Fatalf("expected full path")
	}
}

func TestHaversineKm(t *testing.T) {
	// Putney to Mortlake, roughly the Championship Course (~6.8 km)
	d := HaversineKm(51.4664, -0.2160, 51.4700, -0.2654)
	if d < 3 || d > 4 {
		t.Fatalf("unexpected straight-line distance: %v", d)
	}
}

func TestTotalDistanceKm(t *testing.T) {
	samples := []Sample{
		{Lat: 51.4664, Lon: -0.2160},
		{Lat: 51.4664, Lon: -0.2160},
	}
	if d := TotalDistanceKm(samples); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
	if d := TotalDistanceKm(nil); d != 0 {
		t.Fatalf("expected zero for empty stream")
	}
}
