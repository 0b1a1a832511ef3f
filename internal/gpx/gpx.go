package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

// Point is a single GPS fix from a track segment.
type Point struct {
	Lat       float64   `xml:"lat,attr"`
	Lon       float64   `xml:"lon,attr"`
	Elevation float64   `xml:"ele,omitempty"`
	Time      time.Time `xml:"time,omitempty"`
}

type Segment struct {
	Points []Point `xml:"trkpt"`
}

type Track struct {
	Name     string    `xml:"name,omitempty"`
	Segments []Segment `xml:"trkseg"`
}

// Document is the subset of the GPX 1.1 schema this service reads: tracks,
// segments and timestamped points. Waypoints, routes and vendor extensions
// are ignored by the decoder.
type Document struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	Tracks  []Track  `xml:"trk"`
}

// Parse decodes a GPX document from r.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}
	return &doc, nil
}

// Points flattens every track and segment into one ordered slice,
// preserving file order.
func (d *Document) Points() []Point {
	var pts []Point
	for _, trk := range d.Tracks {
		for _, seg := range trk.Segments {
			pts = append(pts, seg.Points...)
		}
	}
	return pts
}
