package market

import "time"

// Exchange is the exchange-local timezone used for all session math.
// US equities trade on New York time.
var Exchange *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Host without tzdata. EST without DST is wrong half the year but
		// keeps session boundaries usable.
		loc = time.FixedZone("EST", -5*60*60)
	}
	Exchange = loc
}

// Now returns the current time in the exchange timezone.
func Now() time.Time {
	return time.Now().In(Exchange)
}

// TimeOfDay is minutes since midnight in the exchange timezone.
type TimeOfDay int

// Clock builds a TimeOfDay from an hour and minute.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// TimeOfDayOf extracts the exchange-local time of day from t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	et := t.In(Exchange)
	return Clock(et.Hour(), et.Minute())
}

// SameExchangeDay reports whether a and b fall on the same exchange-local
// calendar date.
func SameExchangeDay(a, b time.Time) bool {
	ay, am, ad := a.In(Exchange).Date()
	by, bm, bd := b.In(Exchange).Date()
	return ay == by && am == bm && ad == bd
}

// ExchangeDate truncates t to its exchange-local calendar date.
func ExchangeDate(t time.Time) time.Time {
	y, m, d := t.In(Exchange).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, Exchange)
}
