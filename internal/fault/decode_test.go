package fault

import (
	"errors"
	"strings"
	"testing"

	"github.com/woozymasta/faultmap/internal/geo"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		wantNames   []string
		wantSkipped []int
	}{
		{
			name:      "single record",
			json:      `[{"traces":[[-41.0,173.0],[-41.5,173.5]],"name":"Alpine Fault","video":"http://example.com/v1"}]`,
			wantNames: []string{"Alpine Fault"},
		},
		{
			name:      "empty array",
			json:      `[]`,
			wantNames: []string{},
		},
		{
			name:      "empty name and video are allowed",
			json:      `[{"traces":[[0,0],[1,1]],"name":"","video":""}]`,
			wantNames: []string{""},
		},
		{
			name: "missing traces is skipped",
			json: `[
				{"name":"A","video":"v"},
				{"traces":[[0,0],[1,1]],"name":"B","video":"v"}
			]`,
			wantNames:   []string{"B"},
			wantSkipped: []int{0},
		},
		{
			name: "single point is skipped",
			json: `[
				{"traces":[[0,0]],"name":"A","video":"v"},
				{"traces":[[0,0],[1,1]],"name":"B","video":"v"},
				{"traces":[[0,0],[1,1]],"video":"v"}
			]`,
			wantNames:   []string{"B"},
			wantSkipped: []int{0, 2},
		},
		{
			name: "bad points are skipped",
			json: `[
				{"traces":[[0,0],[1]],"name":"arity","video":"v"},
				{"traces":[[0,0],[95,1]],"name":"range","video":"v"},
				{"traces":[[0,0],["a","b"]],"name":"type","video":"v"},
				{"traces":[[0,0],[1,1]],"name":"missing video"},
				42
			]`,
			wantNames:   []string{},
			wantSkipped: []int{0, 1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, skipped, err := Decode(strings.NewReader(tt.json))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}

			if len(records) != len(tt.wantNames) {
				t.Fatalf("got %d records, want %d", len(records), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if records[i].Name != name {
					t.Errorf("record %d name = %q, want %q", i, records[i].Name, name)
				}
			}

			if len(skipped) != len(tt.wantSkipped) {
				t.Fatalf("got %d skipped (%v), want %d", len(skipped), skipped, len(tt.wantSkipped))
			}
			for i, idx := range tt.wantSkipped {
				if !errors.Is(skipped[i], ErrMalformed) {
					t.Errorf("skipped[%d] = %v, want ErrMalformed", i, skipped[i])
				}
				var me *MalformedError
				if !errors.As(skipped[i], &me) {
					t.Fatalf("skipped[%d] is %T", i, skipped[i])
				}
				if me.Index != idx {
					t.Errorf("skipped[%d].Index = %d, want %d", i, me.Index, idx)
				}
			}
		})
	}
}

func TestDecodeTraces(t *testing.T) {
	records, _, err := Decode(strings.NewReader(
		`[{"traces":[[-41.0,173.0],[-41.5,173.5]],"name":"Alpine Fault","video":"http://example.com/v1","magnitude":8.1,"slip_rate":"27","recurrence_interval":300}]`))
	if err != nil {
		t.Fatal(err)
	}

	r := records[0]
	want := []geo.LatLng{{Lat: -41.0, Lng: 173.0}, {Lat: -41.5, Lng: 173.5}}
	if len(r.Traces) != len(want) {
		t.Fatalf("traces = %v", r.Traces)
	}
	for i := range want {
		if r.Traces[i] != want[i] {
			t.Errorf("trace %d = %v, want %v", i, r.Traces[i], want[i])
		}
	}
	if r.Video != "http://example.com/v1" {
		t.Errorf("video = %q", r.Video)
	}
	if r.Magnitude == nil || *r.Magnitude != 8.1 {
		t.Errorf("magnitude = %v", r.Magnitude)
	}
	if r.RecurrenceInterval == nil || *r.RecurrenceInterval != 300 {
		t.Errorf("recurrence interval = %v", r.RecurrenceInterval)
	}

	props := r.Properties()
	if props["slip_rate"] != "27" || props["name"] != "Alpine Fault" {
		t.Errorf("properties = %v", props)
	}
}

func TestDecodePlanes(t *testing.T) {
	records, skipped, err := Decode(strings.NewReader(`[
		{"name":"HawkeBay4","video":"v","planes":[
			[[-39.0785,177.4993],[-39.1078,177.4733],[-39.0008,177.2354]],
			[[-39.1086,177.4727],[-39.1561,177.4482]]
		]},
		{"name":"Both","video":"v","traces":[[0,0],[1,1]],"planes":[[[2,2],[3,3]]]},
		{"name":"short plane","video":"v","planes":[[[2,2]]]},
		{"name":"no lines","video":"v","planes":[]}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped = %v, want 2 entries", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	hawke := records[0]
	if len(hawke.Traces) != 0 || len(hawke.Planes) != 2 {
		t.Fatalf("traces = %v, planes = %v", hawke.Traces, hawke.Planes)
	}
	if got := hawke.Planes[0][1]; got != (geo.LatLng{Lat: -39.1078, Lng: 177.4733}) {
		t.Errorf("plane 0 point 1 = %v", got)
	}

	lines := records[1].Lines()
	if len(lines) != 2 {
		t.Fatalf("Lines() = %v, want trace and one plane", lines)
	}
	if lines[0][0] != (geo.LatLng{}) || lines[1][0] != (geo.LatLng{Lat: 2, Lng: 2}) {
		t.Errorf("Lines() order = %v", lines)
	}
}

func TestDecodeNotArray(t *testing.T) {
	for _, doc := range []string{
		`{"name":"x"}`,
		`not json`,
		``,
		`[{"traces":[[0,0],[1,1]],"name":"A","video":"v"}] {"garbage": true`,
		`[] []`,
	} {
		if _, _, err := Decode(strings.NewReader(doc)); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", doc)
		}
	}
}

func TestMalformedErrorMessage(t *testing.T) {
	err := &MalformedError{Index: 3, Name: "Kelly", Reason: "missing traces"}
	if got := err.Error(); got != "record 3 (Kelly): missing traces" {
		t.Errorf("Error() = %q", got)
	}

	err = &MalformedError{Index: 0, Reason: "missing name"}
	if got := err.Error(); got != "record 0: missing name" {
		t.Errorf("Error() = %q", got)
	}
}
