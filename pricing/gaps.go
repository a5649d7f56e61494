package pricing

import (
	"fmt"
	"io"
	"time"
)

// Gap kinds.
const (
	GapWeekend    = "weekend"
	GapMinor      = "minor"
	GapSuspicious = "suspicious"
)

// Gap is a run of missing calendar days between two daily candles.
type Gap struct {
	StartIdx int // index of the candle after the gap
	From     time.Time
	Len      int    // missing days
	Kind     string // weekend, minor (one missing weekday) or suspicious
}

type GapStats struct {
	TotalDays      int
	PresentDays    int
	MissingDays    int
	GapCount       int
	WeekendGaps    int
	SuspiciousGaps int
	LongestGap     int
	LongestGapKind string
}

// Gaps reports the holes in a sorted daily series.
func Gaps(candles []Candle) []Gap {
	var gaps []Gap
	for i := 1; i < len(candles); i++ {
		prev := day(candles[i-1].Time)
		missing := int(day(candles[i].Time).Sub(prev).Hours()/24) - 1
		if missing <= 0 {
			continue
		}
		from := prev.AddDate(0, 0, 1)
		gaps = append(gaps, Gap{
			StartIdx: i,
			From:     from,
			Len:      missing,
			Kind:     classifyGap(from, missing),
		})
	}
	return gaps
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func classifyGap(from time.Time, length int) string {
	weekdays := 0
	for d := 0; d < length; d++ {
		switch from.AddDate(0, 0, d).Weekday() {
		case time.Saturday, time.Sunday:
		default:
			weekdays++
		}
	}
	switch weekdays {
	case 0:
		return GapWeekend
	case 1:
		return GapMinor
	}
	return GapSuspicious
}

func Stats(candles []Candle) GapStats {
	var s GapStats
	if len(candles) == 0 {
		return s
	}

	s.PresentDays = len(candles)
	for _, g := range Gaps(candles) {
		s.GapCount++
		s.MissingDays += g.Len
		if g.Len > s.LongestGap {
			s.LongestGap = g.Len
			s.LongestGapKind = g.Kind
		}
		switch g.Kind {
		case GapWeekend:
			s.WeekendGaps++
		case GapSuspicious:
			s.SuspiciousGaps++
		}
	}
	s.TotalDays = s.PresentDays + s.MissingDays
	return s
}

func PrintStats(w io.Writer, s GapStats) {
	fmt.Fprintf(w, "       Total Days: %d\n", s.TotalDays)
	fmt.Fprintf(w, "     Present Days: %d\n", s.PresentDays)
	fmt.Fprintf(w, "     Missing Days: %d\n", s.MissingDays)
	fmt.Fprintf(w, "       Total Gaps: %d\n", s.GapCount)
	fmt.Fprintf(w, "     Weekend Gaps: %d\n", s.WeekendGaps)
	fmt.Fprintf(w, "  Suspicious Gaps: %d\n", s.SuspiciousGaps)
	if s.LongestGap > 0 {
		fmt.Fprintf(w, "Longest Gap: %d days (%s)\n", s.LongestGap, s.LongestGapKind)
	}
}
