package fault

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/woozymasta/faultmap/internal/geo"
)

// ErrMalformed is wrapped by every MalformedError.
var ErrMalformed = errors.New("malformed record")

// MalformedError describes a feed element that was skipped.
type MalformedError struct {
	Name   string // empty when the record has no usable name
	Reason string
	Index  int
}

func (e *MalformedError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("record %d (%s): %s", e.Index, e.Name, e.Reason)
	}
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformed).
func (e *MalformedError) Unwrap() error { return ErrMalformed }

// wire form keeps required fields as pointers so absence can be told apart from zero values
type rawRecord struct {
	Traces             *[]json.RawMessage `json:"traces"`
	Planes             []json.RawMessage  `json:"planes"`
	Name               *string            `json:"name"`
	Video              *string            `json:"video"`
	Magnitude          *float64           `json:"magnitude"`
	SlipRate           *string            `json:"slip_rate"`
	RecurrenceInterval *int               `json:"recurrence_interval"`
}

// Decode reads a JSON array of fault records.
//
// The returned error is non-nil only when the document itself cannot be read
// as a single array. Elements that fail validation are skipped and reported in the
// second result as *MalformedError values, in feed order.
func Decode(r io.Reader) ([]Record, []error, error) {
	var elems []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&elems); err != nil {
		return nil, nil, fmt.Errorf("decode fault feed: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, nil, errors.New("decode fault feed: unexpected data after array")
	}

	records := make([]Record, 0, len(elems))
	var skipped []error

	for i, raw := range elems {
		rec, err := decodeRecord(i, raw)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func decodeRecord(index int, data json.RawMessage) (Record, error) {
	malformed := func(name, format string, args ...interface{}) error {
		return &MalformedError{Index: index, Name: name, Reason: fmt.Sprintf(format, args...)}
	}

	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, malformed("", "invalid record: %v", err)
	}

	name := ""
	if raw.Name != nil {
		name = *raw.Name
	}

	switch {
	case raw.Name == nil:
		return Record{}, malformed("", "missing name")
	case raw.Video == nil:
		return Record{}, malformed(name, "missing video")
	case raw.Traces == nil && len(raw.Planes) == 0:
		return Record{}, malformed(name, "missing traces")
	}

	var traces []geo.LatLng
	if raw.Traces != nil {
		var err error
		if traces, err = decodeLine(*raw.Traces); err != nil {
			return Record{}, malformed(name, "traces: %v", err)
		}
	}

	var planes [][]geo.LatLng
	for k, p := range raw.Planes {
		var points []json.RawMessage
		if err := json.Unmarshal(p, &points); err != nil {
			return Record{}, malformed(name, "plane %d: %v", k, err)
		}
		line, err := decodeLine(points)
		if err != nil {
			return Record{}, malformed(name, "plane %d: %v", k, err)
		}
		planes = append(planes, line)
	}

	rec := Record{
		Name:               name,
		Video:              *raw.Video,
		Traces:             traces,
		Planes:             planes,
		Magnitude:          raw.Magnitude,
		RecurrenceInterval: raw.RecurrenceInterval,
	}
	if raw.SlipRate != nil {
		rec.SlipRate = *raw.SlipRate
	}

	return rec, nil
}

func decodeLine(points []json.RawMessage) ([]geo.LatLng, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 points, got %d", len(points))
	}

	line := make([]geo.LatLng, 0, len(points))
	for j, p := range points {
		var ll geo.LatLng
		if err := json.Unmarshal(p, &ll); err != nil {
			return nil, fmt.Errorf("point %d: %w", j, err)
		}
		if err := ll.Validate(); err != nil {
			return nil, fmt.Errorf("point %d: %w", j, err)
		}
		line = append(line, ll)
	}

	return line, nil
}
