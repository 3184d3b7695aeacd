package analytics

import (
	"strings"

	"github.com/Kumitokiru/NowAlert/internal/history"
	"github.com/Kumitokiru/NowAlert/internal/timewindow"
	"github.com/Kumitokiru/NowAlert/models"
)

// UnknownCategory is where histogram rows without a value for the field
// are counted, rather than being dropped.
const UnknownCategory = "unknown"

// CountSeries counts records per bucket. Output is aligned 1:1 with the
// bucket axis; records outside every bucket are ignored.
func CountSeries(records []history.Record, buckets []timewindow.Bucket) []int {
	return CountSeriesWhere(records, buckets, nil)
}

// CountSeriesWhere counts the records matching pred per bucket. A nil
// predicate matches everything.
func CountSeriesWhere(records []history.Record, buckets []timewindow.Bucket, pred func(history.Record) bool) []int {
	out := make([]int, len(buckets))
	for _, r := range records {
		if pred != nil && !pred(r) {
			continue
		}
		if i := bucketIndex(buckets, r); i >= 0 {
			out[i]++
		}
	}
	return out
}

// SumSeries sums a numeric field per bucket. Records with a missing or
// malformed value contribute nothing.
func SumSeries(records []history.Record, buckets []timewindow.Bucket, field string) []float64 {
	out := make([]float64, len(buckets))
	for _, r := range records {
		v, ok := r.Float(field)
		if !ok {
			continue
		}
		if i := bucketIndex(buckets, r); i >= 0 {
			out[i] += v
		}
	}
	return out
}

// MeanSeries averages a numeric field per bucket. Missing values are
// excluded from both the sum and the denominator, and a bucket with no
// values yields 0 rather than NaN so charts never render gaps.
func MeanSeries(records []history.Record, buckets []timewindow.Bucket, field string) []float64 {
	sums := make([]float64, len(buckets))
	counts := make([]int, len(buckets))
	for _, r := range records {
		v, ok := r.Float(field)
		if !ok {
			continue
		}
		if i := bucketIndex(buckets, r); i >= 0 {
			sums[i] += v
			counts[i]++
		}
	}

	out := make([]float64, len(buckets))
	for i := range out {
		if counts[i] > 0 {
			out[i] = sums[i] / float64(counts[i])
		}
	}
	return out
}

// Histogram counts records per value of the field across the whole set,
// ignoring the bucket axis. Missing values land in UnknownCategory.
func Histogram(records []history.Record, field string) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		out[categoryOf(r.Field(field))]++
	}
	return out
}

// Distribution tallies records per emergency type with a parallel
// responded sub-count.
func Distribution(records []history.Record) map[string]models.CategoryCount {
	out := make(map[string]models.CategoryCount)
	for _, r := range records {
		c := out[categoryOf(r.Type)]
		c.Total++
		if r.Responded {
			c.Responded++
		}
		out[categoryOf(r.Type)] = c
	}
	return out
}

func categoryOf(value string) string {
	if strings.TrimSpace(value) == "" {
		return UnknownCategory
	}
	return value
}

func bucketIndex(buckets []timewindow.Bucket, r history.Record) int {
	for i, b := range buckets {
		if b.Contains(r.Time) {
			return i
		}
	}
	return -1
}
