package storefront

import (
	"time"

	"github.com/sing3demons/go-bakery-service/order"
)

// Bucket is the time-relative group an order falls into on the storefront.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketRecent
	BucketThisWeek
	BucketOther
)

func (b Bucket) String() string {
	switch b {
	case BucketRecent:
		return "RECENT"
	case BucketThisWeek:
		return "THIS_WEEK"
	case BucketOther:
		return "OTHER"
	default:
		return "NONE"
	}
}

// Classify buckets due relative to today. Recent covers today and yesterday, or only
// today when past orders are hidden. This week requires the same calendar year and the
// same ISO week number, so Dec 31 and Jan 1 never share a week.
func Classify(due, today order.Date, includePast bool) Bucket {
	if due == today || (includePast && due == today.AddDays(-1)) {
		return BucketRecent
	}

	_, dueWeek := due.ISOWeek()
	_, todayWeek := today.ISOWeek()
	if due.Year == today.Year && dueWeek == todayWeek {
		return BucketThisWeek
	}
	return BucketOther
}

// groupKey identifies a run of orders sharing a header. Only OTHER orders are split by month.
type groupKey struct {
	bucket Bucket
	year   int
	month  time.Month
}

func keyOf(due order.Date, bucket Bucket) groupKey {
	if bucket != BucketOther {
		return groupKey{bucket: bucket}
	}
	return groupKey{bucket: bucket, year: due.Year, month: due.Month}
}
