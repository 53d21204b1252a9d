// Package mapview is a headless model of an interactive web map: a view with
// tile layers, vector polylines grouped into layer groups, pointer events and
// a popup. The browser side only draws what this model describes.
package mapview

// Style is the visual style of a vector line.
type Style struct {
	Color   string  `json:"color" yaml:"color"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
	Weight  int     `json:"weight" yaml:"weight"`
}

var (
	// DefaultStyle is applied to fault lines at rest.
	DefaultStyle = Style{Color: "red", Opacity: 0.5, Weight: 2}

	// HighlightStyle is applied while the pointer is over a line.
	HighlightStyle = Style{Color: "blue", Opacity: 1, Weight: 5}
)
