package attendance

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

var sixty = decimal.NewFromInt(60)

// Hours is the split of one shift against the contracted daily hours.
// Overtime and Shortfall are never both non-zero.
type Hours struct {
	Worked    decimal.Decimal
	Overtime  decimal.Decimal
	Shortfall decimal.Decimal
}

// ComputeHours measures the shift between two "HH:MM" clock times. A check-out
// earlier than the check-in is taken to fall on the next day. A missing or
// malformed time yields zero hours.
func ComputeHours(checkIn, checkOut *string, contractedHours decimal.Decimal) Hours {
	in, ok := parseClock(checkIn)
	if !ok {
		return Hours{Worked: decimal.Zero, Overtime: decimal.Zero, Shortfall: decimal.Zero}
	}
	out, ok := parseClock(checkOut)
	if !ok {
		return Hours{Worked: decimal.Zero, Overtime: decimal.Zero, Shortfall: decimal.Zero}
	}

	elapsed := out - in
	if elapsed < 0 {
		elapsed += minutesPerDay
	}

	worked := decimal.NewFromInt(int64(elapsed)).Div(sixty)
	h := Hours{Worked: worked, Overtime: decimal.Zero, Shortfall: decimal.Zero}
	switch {
	case worked.GreaterThan(contractedHours):
		h.Overtime = worked.Sub(contractedHours)
	case worked.LessThan(contractedHours):
		h.Shortfall = contractedHours.Sub(worked)
	}
	return h
}

// parseClock returns minutes after midnight.
func parseClock(s *string) (int, bool) {
	if s == nil {
		return 0, false
	}
	hh, mm, found := strings.Cut(strings.TrimSpace(*s), ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
