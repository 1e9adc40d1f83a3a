package filler

const (
	// TopWords is how many words get a slice of their own.
	TopWords = 4

	// MaxBuckets bounds the slice count: the top words plus one overflow.
	MaxBuckets = TopWords + 1

	// OtherWord labels the overflow slice.
	OtherWord = "기타"
)

// Bucketize ranks records into at most MaxBuckets chart slices.
//
// The first TopWords records keep their own slice in input order, even when
// their count is zero. Everything after that is summed into one OtherWord
// slice. A zero fillerWordCount yields a single placeholder slice so the
// chart still draws a full neutral ring.
func Bucketize(records []FillerWordRecord, fillerWordCount int) []FillerCountBucket {
	if fillerWordCount <= 0 {
		return []FillerCountBucket{{
			Rank:        0,
			Value:       1,
			Word:        "",
			Color:       ColorLightnest,
			Placeholder: true,
		}}
	}

	buckets := make([]FillerCountBucket, 0, MaxBuckets)
	overflow, overflowed := 0, false
	for i, record := range records {
		count := clampCount(record.Count)
		if i < TopWords {
			buckets = append(buckets, FillerCountBucket{
				Rank:  i,
				Value: count,
				Word:  record.Word,
			})
			continue
		}
		overflow += count
		overflowed = true
	}
	if overflowed {
		buckets = append(buckets, FillerCountBucket{
			Rank:  TopWords,
			Value: overflow,
			Word:  OtherWord,
		})
	}

	for i := range buckets {
		buckets[i].Color = ColorForRank(i)
	}
	return buckets
}

// ColorForRank maps a bucket rank onto the ramp. Ranks past the top words
// share the lightest token.
func ColorForRank(rank int) ColorToken {
	switch rank {
	case 0:
		return ColorBase
	case 1:
		return ColorLight
	case 2:
		return ColorLighter
	case 3:
		return ColorLightness
	default:
		return ColorLightnest
	}
}

// CountNonZeroTypes counts the distinct words that were spoken at least once.
// It ignores the bucket cap and feeds the "N가지" center label.
func CountNonZeroTypes(records []FillerWordRecord) int {
	n := 0
	for _, record := range records {
		if record.Count > 0 {
			n++
		}
	}
	return n
}

// TotalCount sums record counts, treating negative counts as zero.
func TotalCount(records []FillerWordRecord) int {
	total := 0
	for _, record := range records {
		total += clampCount(record.Count)
	}
	return total
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
