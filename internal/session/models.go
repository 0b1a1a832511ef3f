package session

import (
	"time"

	"github.com/NikJur/CoxOrb/internal/logbook"
	"github.com/NikJur/CoxOrb/internal/replay"
	"github.com/NikJur/CoxOrb/internal/track"
)

// Session is one viewing session: the two uploaded streams, the joined
// sequence built from them, and the scrub state over it. Sessions live in
// memory only and are discarded on restart.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Track  []track.Sample   `json:"-"`
	Log    []logbook.Sample `json:"-"`
	Rows   []replay.Row     `json:"-"`
	State  *replay.State    `json:"-"`
	Linked bool             `json:"linked"`

	// joinKey is the content identity of the (track, log) pair the
	// current Rows were built from; it gates join recomputation.
	joinKey string
}

type Summary struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	TrackPoints     int       `json:"track_points"`
	LogSamples      int       `json:"log_samples"`
	JoinedRows      int       `json:"joined_rows"`
	Linked          bool      `json:"linked"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	DurationSec     int       `json:"duration_sec"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Frame is the per-index replay output: marker position and path so far
// for the map, plus the formatted stats for the stat display.
type Frame struct {
	Index       int      `json:"index"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Rate        float64  `json:"rate"`
	Split       string   `json:"split"`
	Distance    float64  `json:"distance"`
	ElapsedText string   `json:"elapsed_text"`
	ElapsedSec  int      `json:"elapsed_sec"`
	Traveled    []LatLon `json:"traveled"`
}

// StateUpdate is a batch of scrub transitions; fields apply in the order
// trim start, trim end, seek.
type StateUpdate struct {
	TrimStart *int `json:"trim_start,omitempty"`
	TrimEnd   *int `json:"trim_end,omitempty"`
	Seek      *int `json:"seek,omitempty"`
}
