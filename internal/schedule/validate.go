package schedule

import (
	"time"

	"github.com/google/uuid"
)

type ActionKind string

const (
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
)

// Action is one proposed calendar mutation. Actions arrive untrusted
// (from a suggestion source or a client payload) and carry no authority
// until Validate accepts them.
type Action struct {
	Kind          ActionKind
	Start         time.Time
	ClientID      uuid.UUID
	ClinicianID   uuid.UUID
	AppointmentID uuid.UUID // update target, zero for creates
}

func (a Action) Interval(w Window) Slot {
	return w.SlotAt(a.Start)
}

// Reason classifies why an action was rejected.
type Reason string

const (
	ReasonPastTime             Reason = "past_time"
	ReasonOffHourBoundary      Reason = "off_hour_boundary"
	ReasonOutsideBusinessHours Reason = "outside_business_hours"
	ReasonOverlapWithExisting  Reason = "overlap_with_existing"
	ReasonOverlapWithProposed  Reason = "overlap_with_proposed"
	ReasonUrgentLocked         Reason = "urgent_appointment_locked"
	ReasonUnknownTarget        Reason = "unknown_appointment_target"
	ReasonMalformedAction      Reason = "malformed_action"
)

// Outcome is the per-action verdict. One outcome is produced for every
// input action, in input order, whether accepted or not.
type Outcome struct {
	Action   Action
	Accepted bool
	Reason   Reason
}

func accept(a Action) Outcome {
	return Outcome{Action: a, Accepted: true}
}

func reject(a Action, r Reason) Outcome {
	return Outcome{Action: a, Accepted: false, Reason: r}
}

// Validate checks a batch of proposed actions against the snapshot and
// against each other. Two deterministic passes over the input order:
// structural rules first, then conflicts. Among mutually conflicting
// actions the earliest in input order wins. The snapshot is never
// mutated and the batch always completes: a bad action costs itself an
// acceptance, never its neighbours.
func Validate(actions []Action, snap *Snapshot, now time.Time, w Window) []Outcome {
	outcomes := make([]Outcome, len(actions))

	for i, a := range actions {
		outcomes[i] = structuralCheck(a, snap, now, w)
	}

	// Conflict pass: each surviving action is checked against the
	// snapshot (minus its own update target) and against every action
	// already accepted earlier in the batch.
	var acceptedIntervals []Slot
	for i := range outcomes {
		if !outcomes[i].Accepted {
			continue
		}
		a := outcomes[i].Action
		slot := a.Interval(w)

		if conflictsWithSnapshot(slot, a, snap) {
			outcomes[i] = reject(a, ReasonOverlapWithExisting)
			continue
		}
		if overlapsAny(slot, acceptedIntervals) {
			outcomes[i] = reject(a, ReasonOverlapWithProposed)
			continue
		}
		acceptedIntervals = append(acceptedIntervals, slot)
	}

	return outcomes
}

func structuralCheck(a Action, snap *Snapshot, now time.Time, w Window) Outcome {
	if a.Kind != ActionCreate && a.Kind != ActionUpdate {
		return reject(a, ReasonMalformedAction)
	}

	// Update targets are judged before the proposed time: an urgent or
	// unknown target is a rejection no matter how good the new slot is.
	if a.Kind == ActionUpdate {
		target, ok := snap.Find(a.AppointmentID)
		if !ok {
			return reject(a, ReasonUnknownTarget)
		}
		if target.Urgent {
			return reject(a, ReasonUrgentLocked)
		}
	}

	if !w.Aligned(a.Start) {
		return reject(a, ReasonOffHourBoundary)
	}
	if !w.InBusinessWindow(a.Start) {
		return reject(a, ReasonOutsideBusinessHours)
	}
	if a.Start.Before(now) {
		return reject(a, ReasonPastTime)
	}

	return accept(a)
}

func conflictsWithSnapshot(slot Slot, a Action, snap *Snapshot) bool {
	for _, e := range snap.Entries() {
		if a.Kind == ActionUpdate && e.ID == a.AppointmentID {
			continue
		}
		if Overlaps(slot, e.Interval()) {
			return true
		}
	}
	return false
}
