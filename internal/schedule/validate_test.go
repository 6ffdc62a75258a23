package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func create(clinicianID uuid.UUID, start time.Time) Action {
	return Action{
		Kind:        ActionCreate,
		Start:       start,
		ClientID:    uuid.New(),
		ClinicianID: clinicianID,
	}
}

func update(clinicianID, apptID uuid.UUID, start time.Time) Action {
	return Action{
		Kind:          ActionUpdate,
		Start:         start,
		ClientID:      uuid.New(),
		ClinicianID:   clinicianID,
		AppointmentID: apptID,
	}
}

func TestValidateRejectsOverlapWithExisting(t *testing.T) {
	w := testWindow()
	clinicianID := uuid.New()
	snap := NewSnapshot(clinicianID, []Entry{
		{ID: uuid.New(), Start: at(monday, 10, 0), Duration: 50 * time.Minute},
	})

	got := Validate([]Action{create(clinicianID, at(monday, 10, 0))}, snap, at(monday, 8, 0), w)

	if len(got) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(got))
	}
	if got[0].Accepted {
		t.Fatal("expected rejection")
	}
	if got[0].Reason != ReasonOverlapWithExisting {
		t.Errorf("expected %s, got %s", ReasonOverlapWithExisting, got[0].Reason)
	}
}

func TestValidateTouchingEndpointsAccepted(t *testing.T) {
	// An appointment ending at 9:50 does not conflict with a 50-minute
	// slot that would start at 10:00; the interesting edge is a
	// proposed start that begins exactly where the busy interval ends.
	w := testWindow()
	w.Granularity = 10 * time.Minute
	w.Duration = 10 * time.Minute
	clinicianID := uuid.New()
	snap := NewSnapshot(clinicianID, []Entry{
		{ID: uuid.New(), Start: at(monday, 9, 0), Duration: 50 * time.Minute},
	})

	got := Validate([]Action{create(clinicianID, at(monday, 9, 50))}, snap, at(monday, 8, 0), w)

	if !got[0].Accepted {
		t.Fatalf("expected acceptance for touching endpoints, got %s", got[0].Reason)
	}
}

func TestValidateBatchFirstComeWins(t *testing.T) {
	w := testWindow()
	clinicianID := uuid.New()
	snap := NewSnapshot(clinicianID, nil)

	// 9:00 and 9:30 overlap each other; 9:30 is off-hour anyway, so use
	// 9:00 and another 9:00 to isolate the cross-action rule, plus a
	// disjoint 11:00 that must survive.
	actions := []Action{
		create(clinicianID, at(monday, 9, 0)),
		create(clinicianID, at(monday, 9, 0)),
		create(clinicianID, at(monday, 11, 0)),
	}

	got := Validate(actions, snap, at(monday, 8, 0), w)

	if !got[0].Accepted {
		t.Errorf("first action should win: %s", got[0].Reason)
	}
	if got[1].Accepted {
		t.Error("second conflicting action should lose")
	}
	if got[1].Reason != ReasonOverlapWithProposed {
		t.Errorf("expected %s, got %s", ReasonOverlapWithProposed, got[1].Reason)
	}
	if !got[2].Accepted {
		t.Errorf("disjoint action should survive: %s", got[2].Reason)
	}
}

func TestValidateSubHourBatchConflict(t *testing.T) {
	// A proposal off the slot grid is caught by the structural pass
	// before the conflict pass ever sees it.
	w := testWindow()
	w.Granularity = 30 * time.Minute
	w.Duration = 30 * time.Minute
	clinicianID := uuid.New()
	snap := NewSnapshot(clinicianID, nil)

	actions := []Action{
		create(clinicianID, at(monday, 9, 0)),
		create(clinicianID, at(monday, 9, 15)),
	}

	got := Validate(actions, snap, at(monday, 8, 0), w)

	if !got[0].Accepted {
		t.Errorf("first action should be accepted: %s", got[0].Reason)
	}
	if got[1].Accepted || got[1].Reason != ReasonOffHourBoundary {
		// 9:15 is off the 30-minute grid; the structural pass gets it
		// before the conflict pass ever runs.
		t.Errorf("expected off-hour rejection, got accepted=%v reason=%s", got[1].Accepted, got[1].Reason)
	}
}

func TestValidateUrgentTargetLocked(t *testing.T) {
	w := testWindow()
	clinicianID := uuid.New()
	urgentID := uuid.New()
	snap := NewSnapshot(clinicianID, []Entry{
		{ID: urgentID, Start: at(monday, 10, 0), Duration: 50 * time.Minute, Urgent: true},
	})

	// The proposed time is deliberately terrible (past, off-hour,
	// weekend): the urgent lock must win regardless.
	saturday := monday.AddDate(0, 0, 5)
	got := Validate([]Action{update(clinicianID, urgentID, at(saturday, 3, 17))}, snap, at(monday, 12, 0), w)

	if got[0].Accepted {
		t.Fatal("expected rejection")
	}
	if got[0].Reason != ReasonUrgentLocked {
		t.Errorf("expected %s, got %s", ReasonUrgentLocked, got[0].Reason)
	}
}

func TestValidateUnknownUpdateTarget(t *testing.T) {
	w := testWindow()
	clinicianID := uuid.New()
	snap := NewSnapshot(clinicianID, nil)

	got := Validate([]Action{update(clinicianID, uuid.New(), at(monday, 10, 0))}, snap, at(monday, 8, 0), w)

	if got[0].Accepted || got[0].Reason != ReasonUnknownTarget {
		t.Errorf("expected %s, got accepted=%v reason=%s", ReasonUnknownTarget, got[0].Accepted, got[0].Reason)
	}
}

func TestValidateUpdateIgnoresOwnSlot(t *testing.T) {
	// Moving an appointment to a slot that only conflicts with itself
	// must be allowed: the validator excludes the update target from
	// the snapshot conflict check.
	w := testWindow()
	clinicianID := uuid.New()
	apptID := uuid.New()
	snap := NewSnapshot(clinicianID, []Entry{
		{ID: apptID, Start: at(monday, 10, 0), Duration: 50 * time.Minute},
		{ID: uuid.New(), Start: at(monday, 14, 0), Duration: 50 * time.Minute},
	})

	got := Validate([]Action{update(clinicianID, apptID, at(monday, 10, 0))}, snap, at(monday, 8, 0), w)
	if !got[0].Accepted {
		t.Errorf("expected acceptance, got %s", got[0].Reason)
	}

	got = Validate([]Action{update(clinicianID, apptID, at(monday, 14, 0))}, snap, at(monday, 8, 0), w)
	if got[0].Accepted || got[0].Reason != ReasonOverlapWithExisting {
		t.Errorf("moving onto another appointment must still fail, got accepted=%v reason=%s", got[0].Accepted, got[0].Reason)
	}
}

func TestValidateStructuralRejections(t *testing.T) {
	w := testWindow()
	clinicianID := uuid.New()
	snap := NewSnapshot(clinicianID, nil)
	now := at(monday, 12, 0)
	saturday := monday.AddDate(0, 0, 5)

	cases := []struct {
		name   string
		action Action
		reason Reason
	}{
		{"past", create(clinicianID, at(monday, 9, 0)), ReasonPastTime},
		{"off hour", create(clinicianID, at(monday, 14, 30)), ReasonOffHourBoundary},
		{"before opening", create(clinicianID, at(monday.AddDate(0, 0, 1), 7, 0)), ReasonOutsideBusinessHours},
		{"at closing", create(clinicianID, at(monday.AddDate(0, 0, 1), 17, 0)), ReasonOutsideBusinessHours},
		{"weekend", create(clinicianID, at(saturday, 10, 0)), ReasonOutsideBusinessHours},
		{"bogus kind", Action{Kind: ActionKind("cancel"), Start: at(monday, 14, 0), ClinicianID: clinicianID}, ReasonMalformedAction},
	}

	for _, tc := range cases {
		got := Validate([]Action{tc.action}, snap, now, w)
		if got[0].Accepted {
			t.Errorf("%s: expected rejection", tc.name)
			continue
		}
		if got[0].Reason != tc.reason {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.reason, got[0].Reason)
		}
	}
}

func TestValidateStartExactlyNowAccepted(t *testing.T) {
	w := testWindow()
	clinicianID := uuid.New()
	snap := NewSnapshot(clinicianID, nil)
	now := at(monday, 10, 0)

	got := Validate([]Action{create(clinicianID, now)}, snap, now, w)
	if !got[0].Accepted {
		t.Errorf("start equal to now must be accepted, got %s", got[0].Reason)
	}
}

func TestValidateNoAcceptedPairOverlaps(t *testing.T) {
	w := testWindow()
	clinicianID := uuid.New()
	snap := NewSnapshot(clinicianID, []Entry{
		{ID: uuid.New(), Start: at(monday, 11, 0), Duration: 50 * time.Minute},
		{ID: uuid.New(), Start: at(monday, 15, 0), Duration: 50 * time.Minute},
	})

	actions := []Action{
		create(clinicianID, at(monday, 9, 0)),
		create(clinicianID, at(monday, 11, 0)), // conflicts with snapshot
		create(clinicianID, at(monday, 9, 0)),  // conflicts with first
		create(clinicianID, at(monday, 13, 0)),
		create(clinicianID, at(monday, 16, 0)),
	}

	got := Validate(actions, snap, at(monday, 8, 0), w)
	if len(got) != len(actions) {
		t.Fatalf("expected %d outcomes, got %d", len(actions), len(got))
	}

	var accepted []Slot
	for _, o := range got {
		if o.Accepted {
			accepted = append(accepted, o.Action.Interval(w))
		}
	}
	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			if Overlaps(accepted[i], accepted[j]) {
				t.Errorf("accepted actions %d and %d overlap", i, j)
			}
		}
		for _, b := range snap.Busy() {
			if Overlaps(accepted[i], b) {
				t.Errorf("accepted action %d overlaps existing appointment", i)
			}
		}
	}
}

func TestValidateDeterministic(t *testing.T) {
	w := testWindow()
	clinicianID := uuid.New()
	apptID := uuid.New()
	snap := NewSnapshot(clinicianID, []Entry{
		{ID: apptID, Start: at(monday, 10, 0), Duration: 50 * time.Minute},
	})
	now := at(monday, 8, 0)

	actions := []Action{
		create(clinicianID, at(monday, 9, 0)),
		create(clinicianID, at(monday, 10, 0)),
		update(clinicianID, apptID, at(monday, 13, 0)),
		create(clinicianID, at(monday, 13, 0)),
	}

	first := Validate(actions, snap, now, w)
	second := Validate(actions, snap, now, w)

	if !reflect.DeepEqual(first, second) {
		t.Error("validation outcomes differ between identical runs")
	}
}
