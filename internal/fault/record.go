// Package fault decodes fault-trace records from the JSON feed and the NHM fault model.
package fault

import (
	"github.com/woozymasta/faultmap/internal/geo"
)

// Record is one fault trace entry of the feed.
type Record struct {
	Magnitude          *float64       `json:"magnitude,omitempty" yaml:"magnitude,omitempty"`
	RecurrenceInterval *int           `json:"recurrence_interval,omitempty" yaml:"recurrence_interval,omitempty"`
	Name               string         `json:"name" yaml:"name"`
	Video              string         `json:"video" yaml:"video"`
	SlipRate           string         `json:"slip_rate,omitempty" yaml:"slip_rate,omitempty"`
	Traces             []geo.LatLng   `json:"traces,omitempty" yaml:"traces,omitempty"`
	Planes             [][]geo.LatLng `json:"planes,omitempty" yaml:"planes,omitempty"`
}

// Lines returns every polyline of the fault: the surface trace first, then
// one line per fault plane outline.
func (r Record) Lines() [][]geo.LatLng {
	lines := make([][]geo.LatLng, 0, 1+len(r.Planes))
	if len(r.Traces) > 0 {
		lines = append(lines, r.Traces)
	}

	return append(lines, r.Planes...)
}

// Properties returns the descriptive attributes used as GeoJSON feature properties.
func (r Record) Properties() map[string]interface{} {
	props := map[string]interface{}{
		"name":  r.Name,
		"video": r.Video,
	}
	if r.Magnitude != nil {
		props["magnitude"] = *r.Magnitude
	}
	if r.SlipRate != "" {
		props["slip_rate"] = r.SlipRate
	}
	if r.RecurrenceInterval != nil {
		props["recurrence_interval"] = *r.RecurrenceInterval
	}

	return props
}
