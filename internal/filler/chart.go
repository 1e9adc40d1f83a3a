package filler

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ChartView is a consistent snapshot of everything the chart draws.
type ChartView struct {
	Records         []FillerWordRecord
	FillerWordCount int
	TypeCount       int
	Buckets         []FillerCountBucket
	Spans           []float64
	Placements      []FillerLabelPlacement

	Width     float64
	Height    float64
	ChartSize float64
	Radius    float64
}

// Empty reports whether the snapshot had no filler words at all.
func (v ChartView) Empty() bool {
	return v.FillerWordCount <= 0
}

// Chart keeps the derived chart state in sync with its inputs. Buckets are
// rebuilt when a new snapshot arrives; placements are rebuilt when either the
// buckets or the label radius change. Subscribers are called synchronously
// after every recompute.
type Chart struct {
	mu     sync.Mutex
	layout Layout

	records []FillerWordRecord
	total   int
	width   float64
	height  float64

	view ChartView

	memoBuckets    []FillerCountBucket
	memoRadius     float64
	memoPlacements []FillerLabelPlacement
	memoValid      bool

	subscribers map[int]func(ChartView)
	nextID      int
}

// NewChart creates an empty chart using layout.
func NewChart(layout Layout) *Chart {
	c := &Chart{
		layout:      layout,
		subscribers: make(map[int]func(ChartView)),
	}
	c.recomputeLocked()
	return c
}

// SetSnapshot replaces the session input. fillerWordCount is the session's
// total filler count as reported upstream.
func (c *Chart) SetSnapshot(records []FillerWordRecord, fillerWordCount int) {
	c.mu.Lock()
	c.records = slices.Clone(records)
	c.total = fillerWordCount
	view := c.recomputeLocked()
	subs := c.subscriberList()
	c.mu.Unlock()

	notify(subs, view)
}

// SetLayout updates the container size. Only placements depend on it.
func (c *Chart) SetLayout(width, height float64) {
	c.mu.Lock()
	if width == c.width && height == c.height {
		c.mu.Unlock()
		return
	}
	c.width, c.height = width, height
	view := c.recomputeLocked()
	subs := c.subscriberList()
	c.mu.Unlock()

	notify(subs, view)
}

// View returns the latest snapshot.
func (c *Chart) View() ChartView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Subscribe registers fn for every future recompute and returns a function
// that removes it.
func (c *Chart) Subscribe(fn func(ChartView)) (cancel func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Chart) recomputeLocked() ChartView {
	buckets := Bucketize(c.records, c.total)
	radius := c.layout.LabelRadius(c.width, c.height)

	c.view = ChartView{
		Records:         c.records,
		FillerWordCount: c.total,
		TypeCount:       CountNonZeroTypes(c.records),
		Buckets:         buckets,
		Spans:           Spans(buckets),
		Placements:      c.placementsLocked(buckets, radius),
		Width:           c.width,
		Height:          c.height,
		ChartSize:       c.layout.ChartSize(c.width),
		Radius:          radius,
	}
	return c.view
}

func (c *Chart) placementsLocked(buckets []FillerCountBucket, radius float64) []FillerLabelPlacement {
	if c.memoValid && radius == c.memoRadius && slices.Equal(buckets, c.memoBuckets) {
		return c.memoPlacements
	}
	c.memoBuckets = buckets
	c.memoRadius = radius
	c.memoPlacements = PlaceLabels(buckets, radius)
	c.memoValid = true
	return c.memoPlacements
}

func (c *Chart) subscriberList() []func(ChartView) {
	subs := make([]func(ChartView), 0, len(c.subscribers))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	return subs
}

func notify(subs []func(ChartView), view ChartView) {
	for _, fn := range subs {
		fn(view)
	}
}

// Summary renders the chart as one line of text, e.g.
// "3가지 습관어: 음 5회, 어 3회, 기타 1회".
func Summary(v ChartView) string {
	if v.Empty() {
		return "사용된 습관어가 없어요!"
	}
	parts := make([]string, 0, len(v.Buckets))
	for _, b := range v.Buckets {
		if b.Placeholder || b.Value <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %d회", b.Word, b.Value))
	}
	return fmt.Sprintf("%d가지 습관어: %s", v.TypeCount, strings.Join(parts, ", "))
}
