package attendance

import "time"

// MaxRangeDays bounds a single bulk entry.
const MaxRangeDays = 366

// DateRange lists every calendar day from start to end inclusive.
func DateRange(start, end time.Time) ([]time.Time, error) {
	start, end = NormalizeDate(start), NormalizeDate(end)
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
		if len(days) > MaxRangeDays {
			return nil, ErrDateRangeTooLong
		}
	}
	return days, nil
}
