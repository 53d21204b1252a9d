package atlas

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/woozymasta/faultmap/internal/config"
	"github.com/woozymasta/faultmap/internal/fault"
	"github.com/woozymasta/faultmap/internal/geo"
	"github.com/woozymasta/faultmap/internal/mapview"

	"github.com/rs/zerolog/log"
)

// VideoLabel is the link text of the simulation video in fault popups.
const VideoLabel = "Simulation Video"

// Loader reads the fault feed and turns it into an interactive layer group.
type Loader struct {
	Client    *http.Client
	Source    string
	Style     mapview.Style
	Highlight mapview.Style
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Group   *mapview.LayerGroup
	Err     error
	Skipped []error
}

// NewLoader creates a loader for the configured feed and styles.
func NewLoader(cfg *config.Config, client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}

	return &Loader{
		Client:    client,
		Source:    cfg.Faults.Source,
		Style:     *cfg.Faults.Style,
		Highlight: *cfg.Faults.Highlight,
	}
}

// PopupContent renders the popup HTML for a fault: the name, a line break and
// a link to the simulation video. Both values are HTML-escaped.
func PopupContent(r fault.Record) string {
	return html.EscapeString(r.Name) +
		`<br><a href="` + html.EscapeString(r.Video) + `">` + VideoLabel + `</a>`
}

// Fetch reads the feed once. The source is an http(s) URL or a local path.
// Malformed records are returned in the second result and left out of the first.
func (l *Loader) Fetch(ctx context.Context) ([]fault.Record, []error, error) {
	body, err := l.open(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = body.Close() }()

	return fault.Decode(body)
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(l.Source, "http://") && !strings.HasPrefix(l.Source, "https://") {
		return os.Open(l.Source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", l.Source, resp.StatusCode)
	}

	return resp.Body, nil
}

// Build creates one line per record trace (and per fault plane, when the
// record has planes), wires the pointer interactions and adds the resulting
// group to m. Every line shares the map popup.
func (l *Loader) Build(m *mapview.Map, records []fault.Record) *mapview.LayerGroup {
	group := mapview.NewLayerGroup()
	popup := m.Popup()

	for _, rec := range records {
		for _, points := range rec.Lines() {
			group.AddLayer(l.newLine(m, popup, rec, points))
		}
	}

	group.AddTo(m)
	return group
}

func (l *Loader) newLine(m *mapview.Map, popup *mapview.Popup, rec fault.Record, points []geo.LatLng) *mapview.Polyline {
	content := PopupContent(rec)

	line := mapview.NewPolyline(points, l.Style).BindPopup(popup)
	for k, v := range rec.Properties() {
		line.Properties[k] = v
	}
	line.Properties["popup"] = content
	line.Properties["highlight"] = l.Highlight

	showPopup := func(e mapview.Event) {
		e.Target.Popup().SetLatLng(e.LatLng).OpenOn(m)
		e.Target.Popup().SetContent(content)
	}

	return line.
		On(mapview.PointerEnter, func(e mapview.Event) {
			e.Target.SetStyle(l.Highlight)
			showPopup(e)
		}).
		On(mapview.PointerLeave, func(e mapview.Event) {
			e.Target.SetStyle(l.Style)
		}).
		On(mapview.Click, showPopup)
}

// Load fetches the feed and builds the fault layer on m. When the fetch
// fails the map is left without the layer and the error is returned.
func (l *Loader) Load(ctx context.Context, m *mapview.Map) (*mapview.LayerGroup, []error, error) {
	records, skipped, err := l.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("source", l.Source).Msg("Failed to load fault traces")
		return nil, nil, err
	}

	for _, s := range skipped {
		log.Warn().Err(s).Str("source", l.Source).Msg("Skipping malformed fault record")
	}

	group := l.Build(m, records)

	log.Info().
		Str("source", l.Source).
		Int("faults", len(records)).
		Int("lines", group.Len()).
		Int("skipped", len(skipped)).
		Msg("Fault traces loaded")

	return group, skipped, nil
}

// LoadAsync runs Load on its own goroutine. The channel receives exactly one
// result and is then closed.
func (l *Loader) LoadAsync(ctx context.Context, m *mapview.Map) <-chan Result {
	ch := make(chan Result, 1)

	go func() {
		defer close(ch)
		group, skipped, err := l.Load(ctx, m)
		ch <- Result{Group: group, Skipped: skipped, Err: err}
	}()

	return ch
}
