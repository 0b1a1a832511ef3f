// Package web serves the self-contained viewer pages: a Leaflet replay
// page driven by the session's frame endpoint, and a go-echarts rendering
// of the trim-windowed metrics.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/NikJur/CoxOrb/internal/replay"
	"github.com/NikJur/CoxOrb/internal/session"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *session.Service) {
	r.Get("/:id/replay", func(c *fiber.Ctx) error {
		id := c.Params("id")
		rows, err := svc.Rows(id)
		if err != nil {
			return mapError(err)
		}

		var buf bytes.Buffer
		err = replayPage.Execute(&buf, replayPageData{
			SessionID: id,
			MaxIndex:  len(rows) - 1,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	r.Get("/:id/chart.html", func(c *fiber.Ctx) error {
		id := c.Params("id")
		data, err := svc.Chart(id)
		if err != nil {
			return mapError(err)
		}

		var buf bytes.Buffer
		if err := renderChart(&buf, id, data); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNotReady), errors.Is(err, session.ErrNotLinked):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}

func renderChart(buf *bytes.Buffer, sessionID string, data replay.ChartData) error {
	xs := make([]int, 0, len(data.Points))
	rate := make([]opts.LineData, 0, len(data.Points))
	split := make([]opts.LineData, 0, len(data.Points))
	speed := make([]opts.LineData, 0, len(data.Points))
	hasSplit, hasSpeed := false, false

	for _, p := range data.Points {
		xs = append(xs, p.X)
		rate = append(rate, opts.LineData{Value: p.Metrics["rate"]})
		if v, ok := p.Metrics["split"]; ok {
			split = append(split, opts.LineData{Value: v})
			hasSplit = true
		} else {
			split = append(split, opts.LineData{Value: nil})
		}
		if v, ok := p.Metrics["speed"]; ok {
			speed = append(speed, opts.LineData{Value: v})
			hasSpeed = true
		} else {
			speed = append(speed, opts.LineData{Value: nil})
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "CoxOrb Session Chart",
			Width:     "1100px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Stroke metrics",
			Subtitle: fmt.Sprintf("session=%s points=%d highlight=%d", sessionID, len(xs), data.Highlight),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "elapsed (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "value"}),
	)

	line.SetXAxis(xs)
	line.AddSeries("rate (spm)", rate)
	if hasSplit {
		line.AddSeries("split (s/500m)", split)
	}
	if hasSpeed {
		line.AddSeries("speed (m/s)", speed)
	}
	return line.Render(buf)
}

type replayPageData struct {
	SessionID string
	MaxIndex  int
}

var replayPage = template.Must(template.New("replay").Parse(`<!DOCTYPE html>
<html>
<head>
    <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
    <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
    <style>
        body { font-family: sans-serif; margin: 0; padding: 0; }
        #map { height: 400px; width: 100%; border-radius: 10px; }
        .controls { margin-top: 15px; padding: 10px; background: #f9f9f9; border-radius: 10px; }
        .slider-container { width: 100%; display: flex; align-items: center; gap: 10px; }
        input[type=range] { width: 100%; cursor: pointer; }
        .stats-grid { display: grid; grid-template-columns: repeat(4, 1fr); gap: 10px; margin-bottom: 10px; text-align: center; }
        .stat-box { background: white; padding: 8px; border-radius: 5px; border: 1px solid #ddd; }
        .stat-label { font-size: 12px; color: #666; display: block; }
        .stat-value { font-size: 18px; font-weight: bold; color: #333; }
    </style>
</head>
<body>
    <div class="stats-grid">
        <div class="stat-box"><span class="stat-label">Rate (SPM)</span><span id="disp-rate" class="stat-value">--</span></div>
        <div class="stat-box"><span class="stat-label">Split (/500m)</span><span id="disp-split" class="stat-value">--</span></div>
        <div class="stat-box"><span class="stat-label">Distance (m)</span><span id="disp-dist" class="stat-value">--</span></div>
        <div class="stat-box"><span class="stat-label">Time</span><span id="disp-time" class="stat-value">--</span></div>
    </div>

    <div id="map"></div>

    <div class="controls">
        <div class="slider-container">
            <span>Start</span>
            <input type="range" id="replaySlider" min="0" max="{{.MaxIndex}}" value="0">
            <span>End</span>
        </div>
        <div style="text-align:center; margin-top:5px; color:#888; font-size:12px;">Drag slider to replay</div>
    </div>

    <script>
        var sessionID = {{.SessionID}};
        var base = "/sessions/" + sessionID;
        var map = null, marker = null, traveled = null;

        fetch(base + "/rows").then(r => r.json()).then(function(rows) {
            var latlngs = rows.map(p => [p.lat, p.lon]);
            map = L.map('map').setView(latlngs[0], 14);
            L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
                maxZoom: 19,
                attribution: '&copy; OpenStreetMap'
            }).addTo(map);
            var route = L.polyline(latlngs, {color: 'grey', weight: 4, opacity: 0.6}).addTo(map);
            map.fitBounds(route.getBounds());

            traveled = L.polyline([], {color: 'blue', weight: 3}).addTo(map);
            var boatIcon = L.divIcon({
                className: 'boat-marker',
                html: "<div style='background-color:red; width: 14px; height: 14px; border-radius: 50%; border: 2px solid white;'></div>",
                iconSize: [18, 18],
                iconAnchor: [9, 9]
            });
            marker = L.marker(latlngs[0], {icon: boatIcon}).addTo(map);
            update(0);
        });

        function update(idx) {
            fetch(base + "/frame?index=" + idx).then(r => r.json()).then(function(f) {
                marker.setLatLng([f.lat, f.lon]);
                traveled.setLatLngs(f.traveled.map(p => [p.lat, p.lon]));
                document.getElementById("disp-rate").innerText = f.rate;
                document.getElementById("disp-split").innerText = f.split;
                document.getElementById("disp-dist").innerText = f.distance;
                document.getElementById("disp-time").innerText = f.elapsed_text;
            });
        }

        document.getElementById("replaySlider").oninput = function() {
            update(this.value);
        };
    </script>
</body>
</html>
`))
