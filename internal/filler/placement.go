package filler

import "math"

// Spans returns the angular width, in radians, of every bucket with a
// positive value. The spans of a non-empty chart always add up to 2π.
func Spans(buckets []FillerCountBucket) []float64 {
	total := 0
	for _, b := range buckets {
		total += clampCount(b.Value)
	}
	if total == 0 {
		return nil
	}

	spans := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		if b.Value <= 0 {
			continue
		}
		spans = append(spans, 2*math.Pi*float64(b.Value)/float64(total))
	}
	return spans
}

// PlaceLabels anchors one label per positive bucket at the angular midpoint
// of its slice, radius away from the center. Angles start at 12 o'clock and
// run clockwise in screen coordinates (y grows downward).
//
// The placeholder slice gets no label. A negative or NaN radius is treated
// as zero.
func PlaceLabels(buckets []FillerCountBucket, radius float64) []FillerLabelPlacement {
	if len(buckets) == 1 && buckets[0].Placeholder {
		return nil
	}
	radius = clampRadius(radius)

	total := 0
	for _, b := range buckets {
		total += clampCount(b.Value)
	}
	if total == 0 {
		return nil
	}

	placements := make([]FillerLabelPlacement, 0, len(buckets))
	theta := 0.0
	for _, b := range buckets {
		if b.Value <= 0 {
			continue
		}
		span := 2 * math.Pi * float64(b.Value) / float64(total)
		angle := theta + span/2 - math.Pi/2
		placements = append(placements, FillerLabelPlacement{
			Rank:    b.Rank,
			Value:   b.Value,
			Word:    b.Word,
			OffsetX: radius * math.Cos(angle),
			OffsetY: radius * math.Sin(angle),
		})
		theta += span
	}
	return placements
}

func clampRadius(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if math.IsInf(r, 1) {
		return math.MaxFloat64
	}
	return r
}
