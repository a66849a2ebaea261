package subscription

import (
	"sort"
	"time"
)

// Current resolves the single subscription in effect at the given time: the
// active record with the most recent purchase date. Ties on purchase date
// resolve to the earlier record in input order.
//
// Pure and deterministic; the input slice is not mutated.
func Current(records []Record, now time.Time) (Record, bool) {
	var active []Record
	for _, record := range records {
		if record.IsActiveAt(now) {
			active = append(active, record)
		}
	}

	if len(active) == 0 {
		return Record{}, false
	}

	sort.SliceStable(active, func(i, j int) bool {
		return active[i].PurchaseDate.After(active[j].PurchaseDate)
	})

	return active[0], true
}
