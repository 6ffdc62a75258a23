package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testWindow() Window {
	return DefaultWindow(time.UTC)
}

// monday is a known Monday used as the anchor for calendar tests.
var monday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func starts(slots []Slot) []time.Time {
	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start)
	}
	return out
}

func TestEnumerateSkipsBookedSlot(t *testing.T) {
	w := testWindow()

	// One existing appointment at 10:00 blocks only the 10:00 slot.
	busy := []Slot{{Start: at(monday, 10, 0), End: at(monday, 10, 50)}}

	got := Enumerate(w, busy, at(monday, 9, 0), at(monday, 17, 0), at(monday, 8, 0))

	want := []time.Time{
		at(monday, 9, 0),
		at(monday, 11, 0),
		at(monday, 12, 0),
		at(monday, 13, 0),
		at(monday, 14, 0),
		at(monday, 15, 0),
		at(monday, 16, 0),
	}

	gotStarts := starts(got)
	if len(gotStarts) != len(want) {
		t.Fatalf("expected %d slots, got %d: %v", len(want), len(gotStarts), gotStarts)
	}
	for i := range want {
		if !gotStarts[i].Equal(want[i]) {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], gotStarts[i])
		}
	}
}

func TestEnumerateRoundsUpToNextHour(t *testing.T) {
	w := testWindow()

	got := Enumerate(w, nil, at(monday, 9, 20), at(monday, 12, 0), at(monday, 9, 20))

	want := []time.Time{at(monday, 10, 0), at(monday, 11, 0)}
	gotStarts := starts(got)
	if len(gotStarts) != len(want) {
		t.Fatalf("expected %d slots, got %v", len(want), gotStarts)
	}
	for i := range want {
		if !gotStarts[i].Equal(want[i]) {
			t.Errorf("slot %d: expected %s, got %s", i, want[i], gotStarts[i])
		}
	}
}

func TestEnumerateSkipsPastSlots(t *testing.T) {
	w := testWindow()

	now := at(monday, 13, 0)
	got := Enumerate(w, nil, at(monday, 9, 0), at(monday, 17, 0), now)

	for _, s := range got {
		if s.Start.Before(now) {
			t.Errorf("slot %s is before now %s", s.Start, now)
		}
	}
	if len(got) != 4 { // 13, 14, 15, 16
		t.Errorf("expected 4 remaining slots, got %d", len(got))
	}
}

func TestEnumerateSkipsWeekends(t *testing.T) {
	w := testWindow()

	saturday := monday.AddDate(0, 0, 5)
	nextMonday := monday.AddDate(0, 0, 7)

	got := Enumerate(w, nil, at(saturday, 0, 0), at(nextMonday, 17, 0), at(saturday, 0, 0))

	for _, s := range got {
		if wd := s.Start.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("enumerated a weekend slot: %s (%s)", s.Start, wd)
		}
	}
	if len(got) != 8 { // Monday 9..16
		t.Errorf("expected 8 slots on the following Monday, got %d", len(got))
	}
}

func TestEnumerateLastStartBeforeClosing(t *testing.T) {
	w := testWindow()

	got := Enumerate(w, nil, at(monday, 9, 0), monday.AddDate(0, 0, 1), at(monday, 8, 0))

	if len(got) == 0 {
		t.Fatal("expected slots")
	}
	last := got[len(got)-1]
	if last.Start.Hour() != 16 {
		t.Errorf("expected last start at 16:00, got %s", last.Start)
	}
	// The 16:00 slot runs to 16:50; validity is judged on the start
	// alone, and 17:00 itself is never a valid start.
	for _, s := range got {
		if s.Start.Hour() >= 17 {
			t.Errorf("slot starts at or after closing: %s", s.Start)
		}
	}
}

func TestEnumerateBounds(t *testing.T) {
	w := testWindow()

	entries := []Entry{
		{ID: uuid.New(), Start: at(monday, 11, 0), Duration: 50 * time.Minute},
		{ID: uuid.New(), Start: at(monday.AddDate(0, 0, 1), 9, 0), Duration: 50 * time.Minute},
		{ID: uuid.New(), Start: at(monday.AddDate(0, 0, 3), 15, 0), Duration: 50 * time.Minute},
	}
	snap := NewSnapshot(uuid.New(), entries)

	now := at(monday, 10, 30)
	got := Enumerate(w, snap.Busy(), now, monday.AddDate(0, 0, 7), now)

	for _, s := range got {
		if s.Start.Before(now) {
			t.Errorf("slot before now: %s", s.Start)
		}
		if !w.Weekdays[s.Start.Weekday()] {
			t.Errorf("slot on non-business day: %s", s.Start)
		}
		if h := s.Start.Hour(); h < w.StartHour || h >= w.EndHour {
			t.Errorf("slot outside business hours: %s", s.Start)
		}
		if !w.Aligned(s.Start) {
			t.Errorf("slot off the hour grid: %s", s.Start)
		}
		for _, b := range snap.Busy() {
			if Overlaps(s, b) {
				t.Errorf("slot %s overlaps busy interval %s", s.Start, b.Start)
			}
		}
	}

	// Restartable: a second run over the same inputs is identical.
	again := Enumerate(w, snap.Busy(), now, monday.AddDate(0, 0, 7), now)
	if len(again) != len(got) {
		t.Fatalf("second enumeration differs: %d vs %d slots", len(again), len(got))
	}
	for i := range got {
		if !got[i].Start.Equal(again[i].Start) {
			t.Errorf("slot %d differs between runs", i)
		}
	}
}
