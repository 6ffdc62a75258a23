package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Entry is one existing appointment as seen by the engine. The engine
// only ever reads entries; persistence owns the records themselves.
type Entry struct {
	ID       uuid.UUID
	ClientID uuid.UUID
	Start    time.Time
	Duration time.Duration
	Urgent   bool
}

func (e Entry) Interval() Slot {
	return Slot{Start: e.Start, End: e.Start.Add(e.Duration)}
}

// Snapshot is a point-in-time, read-only view of one clinician's
// calendar, ordered by start time.
type Snapshot struct {
	ClinicianID uuid.UUID
	entries     []Entry
	byID        map[uuid.UUID]Entry
}

// NewSnapshot copies and sorts the given entries. Callers may mutate
// their own slice afterwards without affecting the snapshot.
func NewSnapshot(clinicianID uuid.UUID, entries []Entry) *Snapshot {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	byID := make(map[uuid.UUID]Entry, len(sorted))
	for _, e := range sorted {
		byID[e.ID] = e
	}

	return &Snapshot{
		ClinicianID: clinicianID,
		entries:     sorted,
		byID:        byID,
	}
}

// Entries returns the ordered appointments. The returned slice must be
// treated as read-only.
func (s *Snapshot) Entries() []Entry {
	return s.entries
}

func (s *Snapshot) Find(id uuid.UUID) (Entry, bool) {
	e, ok := s.byID[id]
	return e, ok
}

func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Busy returns the occupied intervals, ordered ascending by start.
func (s *Snapshot) Busy() []Slot {
	busy := make([]Slot, 0, len(s.entries))
	for _, e := range s.entries {
		busy = append(busy, e.Interval())
	}
	return busy
}
