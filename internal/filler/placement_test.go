package filler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBuckets() []FillerCountBucket {
	return Bucketize([]FillerWordRecord{
		{Word: "음", Count: 5},
		{Word: "어", Count: 3},
		{Word: "그", Count: 2},
		{Word: "저", Count: 2},
		{Word: "막", Count: 1},
	}, 13)
}

func TestSpans_SumToFullCircle(t *testing.T) {
	inputs := [][]FillerCountBucket{
		sampleBuckets(),
		Bucketize([]FillerWordRecord{{Word: "음", Count: 4}}, 4),
		Bucketize([]FillerWordRecord{{Word: "음", Count: 0}, {Word: "어", Count: 7}, {Word: "그", Count: 1}}, 8),
		Bucketize(nil, 0),
	}
	for _, buckets := range inputs {
		sum := 0.0
		for _, s := range Spans(buckets) {
			sum += s
		}
		assert.InDelta(t, 2*math.Pi, sum, 1e-9)
	}
}

func TestPlaceLabels_SingleBucketSitsAtBottom(t *testing.T) {
	buckets := Bucketize([]FillerWordRecord{{Word: "음", Count: 4}}, 4)
	got := PlaceLabels(buckets, 100)
	require.Len(t, got, 1)
	// midpoint of a full circle is half a turn from 12 o'clock
	assert.InDelta(t, 0, got[0].OffsetX, 1e-9)
	assert.InDelta(t, 100, got[0].OffsetY, 1e-9)
	assert.Equal(t, "음", got[0].Word)
	assert.Equal(t, 4, got[0].Value)
}

func TestPlaceLabels_TwoEqualBuckets(t *testing.T) {
	buckets := Bucketize([]FillerWordRecord{{Word: "음", Count: 1}, {Word: "어", Count: 1}}, 2)
	got := PlaceLabels(buckets, 10)
	require.Len(t, got, 2)
	// first half spans 12 to 6 o'clock clockwise: label at 3 o'clock
	assert.InDelta(t, 10, got[0].OffsetX, 1e-9)
	assert.InDelta(t, 0, got[0].OffsetY, 1e-9)
	assert.InDelta(t, -10, got[1].OffsetX, 1e-9)
	assert.InDelta(t, 0, got[1].OffsetY, 1e-9)
}

func TestPlaceLabels_SkipsZeroBuckets(t *testing.T) {
	buckets := Bucketize([]FillerWordRecord{
		{Word: "음", Count: 0},
		{Word: "어", Count: 3},
		{Word: "그", Count: 1},
	}, 4)
	got := PlaceLabels(buckets, 50)
	require.Len(t, got, 2)
	assert.Equal(t, "어", got[0].Word)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "그", got[1].Word)
	for _, p := range got {
		assert.InDelta(t, 50, math.Hypot(p.OffsetX, p.OffsetY), 1e-9)
	}
}

func TestPlaceLabels_PlaceholderHasNoLabel(t *testing.T) {
	assert.Empty(t, PlaceLabels(Bucketize(nil, 0), 80))
}

func TestPlaceLabels_Idempotent(t *testing.T) {
	buckets := sampleBuckets()
	assert.Equal(t, PlaceLabels(buckets, 95.4), PlaceLabels(buckets, 95.4))
}

func TestPlaceLabels_ClampsRadius(t *testing.T) {
	buckets := sampleBuckets()
	for _, r := range []float64{-5, math.NaN()} {
		for _, p := range PlaceLabels(buckets, r) {
			assert.Zero(t, p.OffsetX)
			assert.Zero(t, p.OffsetY)
		}
	}
}

func TestLayout(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, 212.0, l.ChartSize(320))
	assert.InDelta(t, 127.2, l.ChartSize(800), 1e-9)
	assert.Equal(t, 106.0, l.LabelRadius(320, 212))
	assert.InDelta(t, 95.4, l.LabelRadius(800, 212), 1e-9)
	assert.Zero(t, l.LabelRadius(320, -10))
}
