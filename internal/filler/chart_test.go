package filler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChart_RecomputesOnSnapshotAndLayout(t *testing.T) {
	c := NewChart(DefaultLayout())

	var views []ChartView
	cancel := c.Subscribe(func(v ChartView) { views = append(views, v) })

	c.SetSnapshot([]FillerWordRecord{{Word: "음", Count: 2}, {Word: "어", Count: 2}}, 4)
	require.Len(t, views, 1)
	assert.Len(t, views[0].Buckets, 2)
	assert.Equal(t, 2, views[0].TypeCount)

	c.SetLayout(320, 212)
	require.Len(t, views, 2)
	assert.Equal(t, 106.0, views[1].Radius)
	require.Len(t, views[1].Placements, 2)
	assert.InDelta(t, 106, views[1].Placements[0].OffsetX, 1e-9)

	// same size: nothing to do
	c.SetLayout(320, 212)
	assert.Len(t, views, 2)

	cancel()
	c.SetLayout(800, 212)
	assert.Len(t, views, 2)
	assert.InDelta(t, 95.4, c.View().Radius, 1e-9)
}

func TestChart_SnapshotIsCopied(t *testing.T) {
	c := NewChart(DefaultLayout())
	records := []FillerWordRecord{{Word: "음", Count: 2}}
	c.SetSnapshot(records, 2)
	records[0].Word = "changed"
	assert.Equal(t, "음", c.View().Buckets[0].Word)
}

func TestChart_EmptySnapshot(t *testing.T) {
	c := NewChart(DefaultLayout())
	c.SetLayout(320, 212)
	v := c.View()
	assert.True(t, v.Empty())
	require.Len(t, v.Buckets, 1)
	assert.True(t, v.Buckets[0].Placeholder)
	assert.Empty(t, v.Placements)
	assert.Equal(t, "사용된 습관어가 없어요!", Summary(v))
}

func TestSummary(t *testing.T) {
	c := NewChart(DefaultLayout())
	c.SetSnapshot([]FillerWordRecord{
		{Word: "음", Count: 5},
		{Word: "어", Count: 3},
		{Word: "그", Count: 0},
	}, 8)
	assert.Equal(t, "2가지 습관어: 음 5회, 어 3회", Summary(c.View()))
}
