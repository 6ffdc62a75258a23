package appointment

import (
	"context"

	"github.com/hackgods/clinic-scheduling-assistant/internal/schedule"
)

// slotSuggester is the built-in suggestion source: it picks the best
// open slot for the profile and proposes a single create. No I/O and
// nothing remote; deployments with a generator plug in their own
// Suggester instead.
type slotSuggester struct {
	window  schedule.Window
	scoring schedule.Scoring
}

func NewSlotSuggester(window schedule.Window, scoring schedule.Scoring) Suggester {
	return &slotSuggester{window: window, scoring: scoring}
}

func (s *slotSuggester) Propose(ctx context.Context, req ScheduleRequest, snap *schedule.Snapshot, open []schedule.Slot, profile schedule.Profile) ([]schedule.Action, error) {
	slot, ok := schedule.Select(open, profile, s.scoring, s.window.Location)
	if !ok {
		return nil, nil
	}

	return []schedule.Action{{
		Kind:        schedule.ActionCreate,
		Start:       slot.Start,
		ClientID:    req.ClientID,
		ClinicianID: req.ClinicianID,
	}}, nil
}
