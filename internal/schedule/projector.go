package schedule

import (
	"time"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/recurrence"
)

// DaySchedule groups the items due on one future date.
type DaySchedule struct {
	Date  time.Time `json:"date"`
	Items []Item    `json:"items"`
}

// ProjectUpcoming enumerates which recurring items come due on which dates
// in (from, from+horizonDays], ascending, skipping days with no matches.
//
// Non-recurring items never appear; they have no future occurrence. The
// projection is purely for display and materializes nothing. It is a
// derived view recomputed on demand, never cached state.
func ProjectUpcoming(items []Item, from time.Time, horizonDays int) []DaySchedule {
	day := recurrence.StartOfDay(from)

	var upcoming []DaySchedule
	for i := 1; i <= horizonDays; i++ {
		d := day.AddDate(0, 0, i)
		var due []Item
		for _, item := range items {
			if !item.Active || !item.Recurring || item.Recurrence == nil {
				continue
			}
			if item.Recurrence.Matches(d) {
				due = append(due, item)
			}
		}
		if len(due) > 0 {
			upcoming = append(upcoming, DaySchedule{Date: d, Items: due})
		}
	}
	return upcoming
}
