package fault

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/faultmap/internal/geo"
)

// NHMHeaderRows is the number of header lines in a National Hazard Model file.
const NHMHeaderRows = 15

// NHMFault is one fault entry of a National Hazard Model (NHM) text file.
// Lengths and depths are in km, angles in degrees, slip rates in mm/yr.
type NHMFault struct {
	Name                string
	TectonicType        string
	FaultType           string
	Trace               []geo.LatLng
	Length              float64
	LengthSigma         float64
	Dip                 float64
	DipSigma            float64
	DipDir              float64
	Rake                float64
	DBottom             float64
	DBottomSigma        float64
	DTop                float64
	DTopMin             float64
	DTopMax             float64
	SlipRate            float64
	SlipRateSigma       float64
	CouplingCoeff       float64
	CouplingCoeffSigma  float64
	Mw                  float64
	RecurIntervalMedian float64
}

// Record converts the fault into a feed record with the given video link.
func (f NHMFault) Record(video string) Record {
	mw := f.Mw
	recur := int(math.Round(f.RecurIntervalMedian))

	return Record{
		Name:               f.Name,
		Video:              video,
		Traces:             f.Trace,
		Magnitude:          &mw,
		SlipRate:           strconv.FormatFloat(f.SlipRate, 'g', -1, 64),
		RecurrenceInterval: &recur,
	}
}

// ParseNHM reads an NHM file, skipping the first skipRows lines.
// Entries are separated by blank lines. Trace vertices are stored in the
// file as "lon lat" and are returned as lat/lng.
func ParseNHM(r io.Reader, skipRows int) ([]NHMFault, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		faults []NHMFault
		entry  []string
		line   int
		start  int
	)

	flush := func() error {
		if len(entry) == 0 {
			return nil
		}
		f, err := parseNHMEntry(entry)
		if err != nil {
			return fmt.Errorf("entry at line %d: %w", start, err)
		}
		faults = append(faults, f)
		entry = entry[:0]
		return nil
	}

	for sc.Scan() {
		line++
		if line <= skipRows {
			continue
		}

		text := strings.TrimSpace(sc.Text())
		if text == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if len(entry) == 0 {
			start = line
		}
		entry = append(entry, text)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return faults, nil
}

func parseNHMEntry(rows []string) (NHMFault, error) {
	const fixedRows = 12
	if len(rows) < fixedRows {
		return NHMFault{}, fmt.Errorf("expected at least %d rows, got %d", fixedRows, len(rows))
	}

	f := NHMFault{Name: rows[0]}

	types := strings.Fields(rows[1])
	if len(types) != 2 {
		return NHMFault{}, fmt.Errorf("%s: row 2: expected tectonic and fault type", f.Name)
	}
	f.TectonicType, f.FaultType = types[0], types[1]

	fields := []struct {
		dst []*float64
		row int
	}{
		{row: 2, dst: []*float64{&f.Length, &f.LengthSigma}},
		{row: 3, dst: []*float64{&f.Dip, &f.DipSigma}},
		{row: 4, dst: []*float64{&f.DipDir}},
		{row: 5, dst: []*float64{&f.Rake}},
		{row: 6, dst: []*float64{&f.DBottom, &f.DBottomSigma}},
		{row: 7, dst: []*float64{&f.DTop, &f.DTopMin, &f.DTopMax}},
		{row: 8, dst: []*float64{&f.SlipRate, &f.SlipRateSigma}},
		{row: 9, dst: []*float64{&f.CouplingCoeff, &f.CouplingCoeffSigma}},
		{row: 10, dst: []*float64{&f.Mw, &f.RecurIntervalMedian}},
	}

	for _, fld := range fields {
		vals, err := parseFloats(rows[fld.row])
		if err != nil {
			return NHMFault{}, fmt.Errorf("%s: row %d: %w", f.Name, fld.row+1, err)
		}
		if len(vals) != len(fld.dst) {
			return NHMFault{}, fmt.Errorf("%s: row %d: expected %d values, got %d", f.Name, fld.row+1, len(fld.dst), len(vals))
		}
		for i, dst := range fld.dst {
			*dst = vals[i]
		}
	}

	coords, err := parseFloats(strings.Join(rows[fixedRows:], " "))
	if err != nil {
		return NHMFault{}, fmt.Errorf("%s: trace: %w", f.Name, err)
	}
	if len(coords)%2 != 0 {
		return NHMFault{}, fmt.Errorf("%s: trace: odd number of coordinates (%d)", f.Name, len(coords))
	}

	f.Trace = make([]geo.LatLng, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		f.Trace = append(f.Trace, geo.LatLng{Lat: coords[i+1], Lng: coords[i]})
	}

	return f, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Fields(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
