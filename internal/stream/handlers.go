package stream

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/NikJur/CoxOrb/internal/replay"
	"github.com/NikJur/CoxOrb/internal/session"
	"github.com/NikJur/CoxOrb/internal/track"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// TickFrame is the state pushed to viewers for one playback tick. When
// the session has no usable fix (empty track, or playback before any
// data) HasFix is false and viewers show a placeholder.
type TickFrame struct {
	Playback    float64 `json:"playback"`
	HasFix      bool    `json:"has_fix"`
	Lat         float64 `json:"lat,omitempty"`
	Lon         float64 `json:"lon,omitempty"`
	ElapsedSec  int     `json:"elapsed_sec"`
	Linked      bool    `json:"linked"`
	Rate        float64 `json:"rate,omitempty"`
	Split       string  `json:"split,omitempty"`
	Distance    float64 `json:"distance,omitempty"`
	ElapsedText string  `json:"elapsed_text,omitempty"`
}

// RegisterRoutes wires the playback websocket: inbound text messages are
// playback-clock seconds; each one is resolved against the session's
// position stream and fanned out as a frame. Resolution state lives per
// connection, so forward ticks stay amortized O(1).
func RegisterRoutes(r fiber.Router, hub *Hub, svc *session.Service) {
	r.Get("/ws/:sessionID", websocket.New(func(c *websocket.Conn) {
		sessionID := c.Params("sessionID")
		client := hub.Register(sessionID)
		defer hub.Unregister(client)

		samples, err := svc.TrackSamples(sessionID)
		if err != nil {
			_ = c.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			return
		}
		rows, _ := svc.Rows(sessionID) // nil when the sources never linked

		resolver := newTickResolver(samples, rows)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}
			playback, err := strconv.ParseFloat(strings.TrimSpace(string(msg)), 64)
			if err != nil {
				continue
			}
			frame := resolver.resolve(playback)
			payload, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			hub.Broadcast(sessionID, payload)
		}
		<-done
	}))
}

// tickResolver pairs a cursor over the position stream with one over the
// joined rows, attaching stats only when the nearest row is within the
// join tolerance of the resolved fix.
type tickResolver struct {
	samples []track.Sample
	rows    []replay.Row
	posCur  *replay.Cursor
	rowCur  *replay.Cursor
}

func newTickResolver(samples []track.Sample, rows []replay.Row) *tickResolver {
	return &tickResolver{
		samples: samples,
		rows:    rows,
		posCur:  replay.NewCursor(samples),
		rowCur:  replay.NewRowCursor(rows),
	}
}

func (r *tickResolver) resolve(playback float64) TickFrame {
	frame := TickFrame{Playback: playback}

	i := r.posCur.Resolve(playback)
	if i < 0 {
		return frame
	}
	fix := r.samples[i]
	frame.HasFix = true
	frame.Lat = fix.Lat
	frame.Lon = fix.Lon
	frame.ElapsedSec = fix.ElapsedSec

	j := r.rowCur.Resolve(playback)
	if j < 0 {
		return frame
	}
	row := r.rows[j]
	if diff := row.ElapsedSec - fix.ElapsedSec; diff > replay.DefaultTolerance || diff < -replay.DefaultTolerance {
		return frame
	}
	frame.Linked = true
	frame.Rate = row.Rate
	frame.Split = replay.FormatSplit(row.Split)
	frame.Distance = row.Distance
	frame.ElapsedText = row.ElapsedText
	return frame
}
