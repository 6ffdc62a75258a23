package schedule

import "time"

// HistoryPatterns summarizes a client's recent booking behaviour. Nil
// fields mean not enough history to say anything.
type HistoryPatterns struct {
	MostCommonDay  *time.Weekday
	MostCommonHour *int
	DominantPeriod *Period
	Total          int
}

// AnalyzeHistory derives behavioural preference signals from past
// appointment start times, read in the business timezone. Ties go to
// whichever value was seen first, so the result is deterministic for a
// time-ordered input.
func AnalyzeHistory(starts []time.Time, loc *time.Location) HistoryPatterns {
	patterns := HistoryPatterns{Total: len(starts)}
	if len(starts) == 0 {
		return patterns
	}

	dayCounts := make(map[time.Weekday]int)
	hourCounts := make(map[int]int)
	periodCounts := make(map[Period]int)
	var dayOrder []time.Weekday
	var hourOrder []int
	var periodOrder []Period

	for _, t := range starts {
		local := t.In(loc)
		day := local.Weekday()
		hour := local.Hour()
		period := PeriodOf(hour)

		if dayCounts[day] == 0 {
			dayOrder = append(dayOrder, day)
		}
		if hourCounts[hour] == 0 {
			hourOrder = append(hourOrder, hour)
		}
		if periodCounts[period] == 0 {
			periodOrder = append(periodOrder, period)
		}
		dayCounts[day]++
		hourCounts[hour]++
		periodCounts[period]++
	}

	bestDay := dayOrder[0]
	for _, d := range dayOrder {
		if dayCounts[d] > dayCounts[bestDay] {
			bestDay = d
		}
	}
	bestHour := hourOrder[0]
	for _, h := range hourOrder {
		if hourCounts[h] > hourCounts[bestHour] {
			bestHour = h
		}
	}
	bestPeriod := periodOrder[0]
	for _, p := range periodOrder {
		if periodCounts[p] > periodCounts[bestPeriod] {
			bestPeriod = p
		}
	}

	patterns.MostCommonDay = &bestDay
	patterns.MostCommonHour = &bestHour
	patterns.DominantPeriod = &bestPeriod
	return patterns
}
