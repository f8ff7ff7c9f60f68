package domain

import "sort"

// RetagHistory recomputes every tag of a newest-first history and returns a new
// slice; the input is left untouched.
//
// Tags are assigned in a fixed order: recent for index 0, then min, then max,
// each pass overwriting the previous one. A record that is both the newest and
// the cheapest is therefore tagged min, and max wins over both.
func RetagHistory(records []BidRecord) []BidRecord {
	out := make([]BidRecord, len(records))
	copy(out, records)
	if len(out) == 0 {
		return out
	}

	minPrice, maxPrice := out[0].Price, out[0].Price
	for i := range out {
		out[i].Tag = TagNone
		minPrice = min(minPrice, out[i].Price)
		maxPrice = max(maxPrice, out[i].Price)
	}

	out[0].Tag = TagRecent
	for i := range out {
		if out[i].Price == minPrice {
			out[i].Tag = TagMin
		}
	}
	for i := range out {
		if out[i].Price == maxPrice {
			out[i].Tag = TagMax
		}
	}
	return out
}

// SortNewestFirst orders records by timestamp descending. Records sharing a
// timestamp keep their relative order.
func SortNewestFirst(records []BidRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}
