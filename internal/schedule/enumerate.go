package schedule

import "time"

// Enumerate produces every legal open slot in [from, to), ascending by
// start. A slot is legal when it sits on the hour grid, starts inside
// the business window, is not before now, and does not overlap any busy
// interval. The ascending order is the tie-break for "earliest
// available" policies.
func Enumerate(w Window, busy []Slot, from, to, now time.Time) []Slot {
	var slots []Slot

	cursor := from
	if now.After(cursor) {
		cursor = now
	}
	cursor = w.roundUp(cursor)

	for cursor.Before(to) {
		slot := w.SlotAt(cursor)
		if w.InBusinessWindow(cursor) && !overlapsAny(slot, busy) {
			slots = append(slots, slot)
		}
		cursor = cursor.Add(w.Granularity)
	}

	return slots
}
