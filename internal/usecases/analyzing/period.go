package analyzing

import "time"

// Period tokens accepted by the charts endpoint
const (
	PeriodWeek    = "7d"
	PeriodMonth   = "30d"
	PeriodQuarter = "90d"
	PeriodYear    = "1y"
)

// Granularity is the bucketing strategy shared by every aggregation pass:
// it derives the bucket key of a timestamp and drives the gap-filling walk.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ResolvePeriod maps a period token to its normalized token, range start and
// grouping granularity. Unrecognized tokens silently fall back to 30d.
func ResolvePeriod(token string, now time.Time) (string, time.Time, Granularity) {
	switch token {
	case PeriodWeek:
		return PeriodWeek, now.AddDate(0, 0, -7), GranularityDay
	case PeriodQuarter:
		return PeriodQuarter, now.AddDate(0, 0, -90), GranularityWeek
	case PeriodYear:
		return PeriodYear, now.AddDate(0, 0, -365), GranularityMonth
	default:
		return PeriodMonth, now.AddDate(0, 0, -30), GranularityDay
	}
}

// Key derives the bucket key of a timestamp: YYYY-MM-DD for day, the Monday
// of the ISO week as YYYY-MM-DD for week, YYYY-MM for month.
func (g Granularity) Key(t time.Time) string {
	switch g {
	case GranularityWeek:
		return mondayOf(t).Format(time.DateOnly)
	case GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format(time.DateOnly)
	}
}

// Align normalizes a timestamp to the start of its bucket
func (g Granularity) Align(t time.Time) time.Time {
	switch g {
	case GranularityWeek:
		return startOfDay(mondayOf(t))
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return startOfDay(t)
	}
}

// Next advances a bucket start to the next bucket
func (g Granularity) Next(t time.Time) time.Time {
	switch g {
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func mondayOf(t time.Time) time.Time {
	// time.Weekday has Sunday = 0; shift so Monday is the week start
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
