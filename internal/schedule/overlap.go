package schedule

// Overlaps is the half-open interval overlap test used everywhere a
// conflict decision is made. Touching endpoints do not overlap: a slot
// ending at 9:50 does not conflict with one starting at 9:50.
func Overlaps(a, b Slot) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func overlapsAny(s Slot, busy []Slot) bool {
	for _, b := range busy {
		if Overlaps(s, b) {
			return true
		}
	}
	return false
}
