package schedule

import (
	"testing"
	"time"
)

func hourlySlots(day time.Time, hours ...int) []Slot {
	w := testWindow()
	slots := make([]Slot, 0, len(hours))
	for _, h := range hours {
		slots = append(slots, w.SlotAt(at(day, h, 0)))
	}
	return slots
}

func TestSelectUrgentTakesFirstSlot(t *testing.T) {
	candidates := hourlySlots(monday, 9, 10, 11, 14)

	// The profile prefers afternoons, but urgency overrides every
	// preference signal.
	profile := Profile{
		Urgent:  true,
		Periods: map[Period]bool{Afternoon: true},
	}

	got, ok := Select(candidates, profile, DefaultScoring(), time.UTC)
	if !ok {
		t.Fatal("expected a slot")
	}
	if !got.Start.Equal(at(monday, 9, 0)) {
		t.Errorf("urgent request must take the earliest slot, got %s", got.Start)
	}
}

func TestSelectEmptyCandidates(t *testing.T) {
	_, ok := Select(nil, Profile{Urgent: true}, DefaultScoring(), time.UTC)
	if ok {
		t.Error("expected no slot from empty candidates")
	}
}

func TestRankPrefersStatedWeekday(t *testing.T) {
	tuesday := monday.AddDate(0, 0, 1)
	candidates := append(hourlySlots(monday, 9, 10), hourlySlots(tuesday, 9, 10)...)

	profile := Profile{
		Weekdays: map[time.Weekday]bool{time.Tuesday: true},
	}

	ranked := Rank(candidates, profile, DefaultScoring(), time.UTC)
	if wd := ranked[0].Slot.Start.Weekday(); wd != time.Tuesday {
		t.Errorf("expected a Tuesday slot first, got %s", wd)
	}
	if !ranked[0].Slot.Start.Equal(at(tuesday, 9, 0)) {
		t.Errorf("expected the earliest Tuesday slot, got %s", ranked[0].Slot.Start)
	}
}

func TestRankPrefersStatedHourOverPeriod(t *testing.T) {
	// 14:00 collects both the hour bonus and the afternoon period
	// bonus; 13:00 only the period bonus; 9:00 neither.
	candidates := hourlySlots(monday, 9, 13, 14)

	profile := Profile{
		Periods: map[Period]bool{Afternoon: true},
		Hours:   map[int]bool{14: true},
	}

	ranked := Rank(candidates, profile, DefaultScoring(), time.UTC)
	if !ranked[0].Slot.Start.Equal(at(monday, 14, 0)) {
		t.Errorf("expected 14:00 first, got %s", ranked[0].Slot.Start)
	}
	if !ranked[1].Slot.Start.Equal(at(monday, 13, 0)) {
		t.Errorf("expected 13:00 second, got %s", ranked[1].Slot.Start)
	}
}

func TestRankTieBreaksByStart(t *testing.T) {
	candidates := hourlySlots(monday, 9, 10, 11)

	ranked := Rank(candidates, Profile{}, DefaultScoring(), time.UTC)

	for i, want := range []int{9, 10, 11} {
		if got := ranked[i].Slot.Start.Hour(); got != want {
			t.Errorf("position %d: expected hour %d, got %d", i, want, got)
		}
	}
}

func TestScoreBehaviouralSignals(t *testing.T) {
	day := time.Tuesday
	hour := 10
	period := Morning
	profile := Profile{
		History: HistoryPatterns{
			MostCommonDay:  &day,
			MostCommonHour: &hour,
			DominantPeriod: &period,
			Total:          8,
		},
	}
	sc := DefaultScoring()
	w := testWindow()

	tuesday := monday.AddDate(0, 0, 1)

	// Matches day, hour and period: 0.5 + 0.15 + 0.1 + 0.1
	got := Score(w.SlotAt(at(tuesday, 10, 0)), profile, sc, time.UTC)
	if want := 0.85; !almostEqual(got, want) {
		t.Errorf("full behavioural match: expected %.2f, got %.2f", want, got)
	}

	// Neighbouring hour still earns the hour bonus.
	got = Score(w.SlotAt(at(tuesday, 11, 0)), profile, sc, time.UTC)
	if want := 0.85; !almostEqual(got, want) {
		t.Errorf("adjacent hour: expected %.2f, got %.2f", want, got)
	}

	// Wrong day, afternoon slot: base only.
	got = Score(w.SlotAt(at(monday, 14, 0)), profile, sc, time.UTC)
	if want := 0.5; !almostEqual(got, want) {
		t.Errorf("no match: expected %.2f, got %.2f", want, got)
	}
}

func TestScoreIsCapped(t *testing.T) {
	day := time.Monday
	hour := 9
	period := Morning
	profile := Profile{
		Weekdays: map[time.Weekday]bool{time.Monday: true},
		Periods:  map[Period]bool{Morning: true},
		Hours:    map[int]bool{9: true},
		History: HistoryPatterns{
			MostCommonDay:  &day,
			MostCommonHour: &hour,
			DominantPeriod: &period,
		},
	}

	got := Score(testWindow().SlotAt(at(monday, 9, 0)), profile, DefaultScoring(), time.UTC)
	if got > 1.0 {
		t.Errorf("score must be capped at 1.0, got %.2f", got)
	}
	if !almostEqual(got, 1.0) {
		t.Errorf("fully matched slot should hit the cap, got %.2f", got)
	}
}

func TestPeriodOf(t *testing.T) {
	cases := []struct {
		hour int
		want Period
	}{
		{6, Morning}, {11, Morning},
		{12, Afternoon}, {16, Afternoon},
		{17, Evening}, {20, Evening},
		{21, Night}, {23, Night}, {0, Night}, {5, Night},
	}
	for _, tc := range cases {
		if got := PeriodOf(tc.hour); got != tc.want {
			t.Errorf("PeriodOf(%d) = %s, want %s", tc.hour, got, tc.want)
		}
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 1e-9 && diff > -1e-9
}
