package schedule

import (
	"sort"
	"time"
)

// Period is a named band of the day used for coarse time-of-day
// preferences.
type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
	Night     Period = "night"
)

// PeriodOf maps an hour to its band: morning [6,12), afternoon [12,17),
// evening [17,21), night otherwise.
func PeriodOf(hour int) Period {
	switch {
	case hour >= 6 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// Profile describes what the requester wants. Urgent profiles ignore
// every preference signal: the policy is "earliest open slot, period".
type Profile struct {
	Urgent   bool
	Weekdays map[time.Weekday]bool
	Periods  map[Period]bool
	Hours    map[int]bool
	History  HistoryPatterns
}

// Scoring holds the additive bonus for each independent preference
// signal. These are tunable policy constants, not invariants; the
// defaults match the production ranking profile.
type Scoring struct {
	Base               float64
	WeekdayBonus       float64
	PeriodBonus        float64
	HourBonus          float64
	HistoryDayBonus    float64
	HistoryHourBonus   float64
	HistoryPeriodBonus float64
	Cap                float64
}

func DefaultScoring() Scoring {
	return Scoring{
		Base:               0.5,
		WeekdayBonus:       0.2,
		PeriodBonus:        0.15,
		HourBonus:          0.25,
		HistoryDayBonus:    0.15,
		HistoryHourBonus:   0.1,
		HistoryPeriodBonus: 0.1,
		Cap:                1.0,
	}
}

// Score computes the acceptance score for one slot. Each signal is
// independent and additive; the sum is capped. The slot's wall-clock
// fields are read in the window's business timezone.
func Score(slot Slot, p Profile, sc Scoring, loc *time.Location) float64 {
	local := slot.Start.In(loc)
	score := sc.Base

	if p.Weekdays[local.Weekday()] {
		score += sc.WeekdayBonus
	}
	if p.Periods[PeriodOf(local.Hour())] {
		score += sc.PeriodBonus
	}
	if p.Hours[local.Hour()] {
		score += sc.HourBonus
	}

	h := p.History
	if h.MostCommonDay != nil && *h.MostCommonDay == local.Weekday() {
		score += sc.HistoryDayBonus
	}
	if h.MostCommonHour != nil {
		diff := local.Hour() - *h.MostCommonHour
		if diff >= -1 && diff <= 1 {
			score += sc.HistoryHourBonus
		}
	}
	if h.DominantPeriod != nil && *h.DominantPeriod == PeriodOf(local.Hour()) {
		score += sc.HistoryPeriodBonus
	}

	if score > sc.Cap {
		score = sc.Cap
	}
	return score
}

// RankedSlot pairs a candidate with its score.
type RankedSlot struct {
	Slot  Slot
	Score float64
}

// Rank orders candidates best first. Candidates must arrive ascending
// by start (the enumerator's order); the sort is stable, so equal
// scores keep that order and sooner slots win ties without the recency
// signal ever outweighing an explicit preference bonus.
func Rank(candidates []Slot, p Profile, sc Scoring, loc *time.Location) []RankedSlot {
	ranked := make([]RankedSlot, 0, len(candidates))
	for _, s := range candidates {
		ranked = append(ranked, RankedSlot{Slot: s, Score: Score(s, p, sc, loc)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// Select picks the best slot for the profile: the first candidate for
// urgent requests, the top-ranked one otherwise. ok is false when there
// are no candidates.
func Select(candidates []Slot, p Profile, sc Scoring, loc *time.Location) (Slot, bool) {
	if len(candidates) == 0 {
		return Slot{}, false
	}
	if p.Urgent {
		return candidates[0], true
	}
	return Rank(candidates, p, sc, loc)[0].Slot, true
}
