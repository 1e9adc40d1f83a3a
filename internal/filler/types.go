// Package filler turns per-session filler word tallies into the data behind
// the usage donut chart: ranked buckets, a color ramp and label anchors.
package filler

// FillerWordRecord is one filler word and how many times it was spoken in a
// practice session. Records arrive already ordered by display priority.
type FillerWordRecord struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// ColorToken is a step on the primary intensity ramp, darkest first.
type ColorToken int

const (
	// ColorNone marks a bucket that has not been colored.
	ColorNone ColorToken = iota
	ColorBase
	ColorLight
	ColorLighter
	ColorLightness
	ColorLightnest
)

// String returns the ramp name of the token.
func (c ColorToken) String() string {
	switch c {
	case ColorBase:
		return "base"
	case ColorLight:
		return "light"
	case ColorLighter:
		return "lighter"
	case ColorLightness:
		return "lightness"
	case ColorLightnest:
		return "lightnest"
	default:
		return "none"
	}
}

// palette holds the primary ramp in sRGB.
var palette = map[ColorToken]string{
	ColorBase:      "#7B4CF5",
	ColorLight:     "#9C78F8",
	ColorLighter:   "#BBA1FA",
	ColorLightness: "#D6C8FC",
	ColorLightnest: "#EEE8FE",
}

// Hex returns the token's color as "#RRGGBB". ColorNone maps to a neutral
// gray.
func (c ColorToken) Hex() string {
	if h, ok := palette[c]; ok {
		return h
	}
	return "#D9D9DE"
}

// FillerCountBucket is one slice of the donut chart.
type FillerCountBucket struct {
	Rank  int
	Value int
	Word  string
	Color ColorToken

	// Placeholder is set on the single neutral slice drawn when nothing was
	// recorded. It never receives a label.
	Placeholder bool
}

// FillerLabelPlacement anchors a bucket's label relative to the chart center.
type FillerLabelPlacement struct {
	Rank    int
	Value   int
	Word    string
	OffsetX float64
	OffsetY float64
}
