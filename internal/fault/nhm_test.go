package fault

import (
	"strings"
	"testing"
)

const nhmHeader = `h1
h2
h3
`

const nhmBody = `AlpineF2K
ACTIVE_SHALLOW SS
340.0 0.0
80 10
130
180
15.0 1.0
0.0 0.0 0.0
27.0 5.0
1.0 0.1
8.1 300
3
168.0 -44.0
169.5 -43.5
170.9 -42.8

Kelly
ACTIVE_SHALLOW SS
20.0 0.0
90 0
0
180
12.0 0.5
0.0 0.0 1.0
6.0 1.0
1.0 0.0
6.9 500
2
171.3 -42.7
171.5 -42.6
`

func TestParseNHM(t *testing.T) {
	faults, err := ParseNHM(strings.NewReader(nhmHeader+nhmBody), 3)
	if err != nil {
		t.Fatalf("ParseNHM() error = %v", err)
	}
	if len(faults) != 2 {
		t.Fatalf("got %d faults, want 2", len(faults))
	}

	alpine := faults[0]
	if alpine.Name != "AlpineF2K" || alpine.TectonicType != "ACTIVE_SHALLOW" || alpine.FaultType != "SS" {
		t.Errorf("unexpected header fields: %+v", alpine)
	}
	if alpine.Mw != 8.1 || alpine.RecurIntervalMedian != 300 || alpine.SlipRate != 27 {
		t.Errorf("unexpected values: %+v", alpine)
	}
	if alpine.DTopMax != 0 || faults[1].DTopMax != 1 {
		t.Errorf("dtop max parsed wrong")
	}
	if len(alpine.Trace) != 3 {
		t.Fatalf("trace = %v", alpine.Trace)
	}
	// file order is lon lat
	if alpine.Trace[0].Lat != -44.0 || alpine.Trace[0].Lng != 168.0 {
		t.Errorf("first vertex = %+v", alpine.Trace[0])
	}

	rec := faults[1].Record("https://example.com/kelly")
	if rec.Name != "Kelly" || rec.Video != "https://example.com/kelly" || len(rec.Traces) != 2 {
		t.Errorf("record = %+v", rec)
	}
	if rec.SlipRate != "6" || *rec.Magnitude != 6.9 || *rec.RecurrenceInterval != 500 {
		t.Errorf("record attributes = %+v", rec)
	}
}

func TestParseNHMErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "too few rows", body: "Short\nA B\n1 2\n"},
		{name: "bad number", body: strings.Replace(nhmBody, "80 10", "80 x", 1)},
		{name: "odd trace", body: strings.Replace(nhmBody, "171.5 -42.6", "171.5", 1)},
		{name: "missing fault type", body: strings.Replace(nhmBody, "ACTIVE_SHALLOW SS\n340.0", "ACTIVE_SHALLOW\n340.0", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseNHM(strings.NewReader(tt.body), 0); err == nil {
				t.Error("expected error")
			}
		})
	}
}
