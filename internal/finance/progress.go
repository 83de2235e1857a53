package finance

import (
	"math"
	"time"
)

// GoalProgress is the derived progress/projection view of a goal.
type GoalProgress struct {
	ProgressPct      float64
	RemainingMinor   int64
	TotalDays        int
	DaysRemaining    int
	DailyTargetMinor float64
	ExpectedMinor    float64
	OnTrack          bool
	// ProjectedCompletion is the end date when on track, otherwise the
	// linearly extrapolated completion date (which may exceed EndDate).
	ProjectedCompletion time.Time
}

const day = 24 * time.Hour

// ceilDays returns the number of whole days covering d, rounding partial
// days up.
func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}

// Progress derives the progress metrics for the goal at the given instant.
//
// A goal whose window is zero or negative days (same-day goal) is treated
// as immediately due and on track: the daily target falls back to the full
// target amount and the projected completion is the end date.
func (g SpendingGoal) Progress(now time.Time) GoalProgress {
	p := GoalProgress{}
	if g.TargetMinor > 0 {
		p.ProgressPct = math.Min(float64(g.CurrentMinor)/float64(g.TargetMinor)*100, 100)
	}
	p.RemainingMinor = g.TargetMinor - g.CurrentMinor
	if p.RemainingMinor < 0 {
		p.RemainingMinor = 0
	}
	p.TotalDays = ceilDays(g.EndDate.Sub(g.StartDate))
	p.DaysRemaining = ceilDays(g.EndDate.Sub(now))
	if p.DaysRemaining < 0 {
		p.DaysRemaining = 0
	}

	if p.TotalDays <= 0 {
		p.DailyTargetMinor = float64(g.TargetMinor)
		p.ExpectedMinor = float64(g.TargetMinor)
		p.OnTrack = true
		p.ProjectedCompletion = g.EndDate
		return p
	}

	p.DailyTargetMinor = float64(g.TargetMinor) / float64(p.TotalDays)
	p.ExpectedMinor = p.DailyTargetMinor * float64(p.TotalDays-p.DaysRemaining)
	p.OnTrack = float64(g.CurrentMinor) >= p.ExpectedMinor
	if p.OnTrack {
		p.ProjectedCompletion = g.EndDate
	} else {
		daysToFinish := float64(p.RemainingMinor) / p.DailyTargetMinor
		p.ProjectedCompletion = now.Add(time.Duration(daysToFinish * float64(day)))
	}
	return p
}

// PeriodEnd derives the end of a goal period starting at start. Used for
// spending goals created without an explicit end date.
func (p GoalPeriod) PeriodEnd(start time.Time) time.Time {
	switch p {
	case GoalPeriodWeekly:
		return start.AddDate(0, 0, 7)
	case GoalPeriodMonthly:
		return start.AddDate(0, 1, 0)
	case GoalPeriodYearly:
		return start.AddDate(1, 0, 0)
	}
	return start
}
