// Package suggest adapts untrusted suggestion payloads into the typed
// actions the scheduling engine validates. A suggestion source may be a
// remote generator or a client request body; either way nothing here is
// trusted and a bad element never takes the rest of the batch down.
package suggest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling-assistant/internal/schedule"
)

// wireAction is the suggestion-source contract:
// {action, start_time, client_id, clinician_id, appointment_id?}.
type wireAction struct {
	Action        string `json:"action"`
	StartTime     string `json:"start_time"`
	ClientID      string `json:"client_id"`
	ClinicianID   string `json:"clinician_id"`
	AppointmentID string `json:"appointment_id,omitempty"`
}

// Proposal is one decoded element. Err is non-nil when the element was
// malformed; Action is only meaningful when Err is nil.
type Proposal struct {
	Action schedule.Action
	Err    error
}

// DecodeActions parses a JSON array of proposed actions. Per-element
// failures are reported in place so callers can emit an aligned
// rejection for each one; only an unparsable payload as a whole is an
// error.
func DecodeActions(r io.Reader) ([]Proposal, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode action batch: %w", err)
	}

	proposals := make([]Proposal, len(raw))
	for i, msg := range raw {
		action, err := decodeOne(msg)
		proposals[i] = Proposal{Action: action, Err: err}
	}
	return proposals, nil
}

func decodeOne(msg json.RawMessage) (schedule.Action, error) {
	var w wireAction
	if err := json.Unmarshal(msg, &w); err != nil {
		return schedule.Action{}, fmt.Errorf("malformed action object: %w", err)
	}

	var kind schedule.ActionKind
	switch w.Action {
	case "create":
		kind = schedule.ActionCreate
	case "update":
		kind = schedule.ActionUpdate
	default:
		return schedule.Action{}, fmt.Errorf("unknown action kind %q", w.Action)
	}

	// RFC 3339 requires an explicit offset, which pins the instant; an
	// offset-less local time is ambiguous and gets rejected here rather
	// than guessed at.
	start, err := time.Parse(time.RFC3339, w.StartTime)
	if err != nil {
		return schedule.Action{}, fmt.Errorf("invalid start_time %q: %w", w.StartTime, err)
	}

	clientID, err := uuid.Parse(w.ClientID)
	if err != nil {
		return schedule.Action{}, fmt.Errorf("invalid client_id %q: %w", w.ClientID, err)
	}
	clinicianID, err := uuid.Parse(w.ClinicianID)
	if err != nil {
		return schedule.Action{}, fmt.Errorf("invalid clinician_id %q: %w", w.ClinicianID, err)
	}

	action := schedule.Action{
		Kind:        kind,
		Start:       start,
		ClientID:    clientID,
		ClinicianID: clinicianID,
	}

	if kind == schedule.ActionUpdate {
		if w.AppointmentID == "" {
			return schedule.Action{}, fmt.Errorf("appointment_id is required for update actions")
		}
		apptID, err := uuid.Parse(w.AppointmentID)
		if err != nil {
			return schedule.Action{}, fmt.Errorf("invalid appointment_id %q: %w", w.AppointmentID, err)
		}
		action.AppointmentID = apptID
	} else if w.AppointmentID != "" {
		return schedule.Action{}, fmt.Errorf("appointment_id is not allowed for create actions")
	}

	return action, nil
}

// ValidateProposals runs the decoded batch through the engine,
// producing one outcome per proposal in input order. Malformed
// proposals are rejected up front and never consume a validation slot.
func ValidateProposals(proposals []Proposal, snap *schedule.Snapshot, now time.Time, w schedule.Window) []schedule.Outcome {
	wellFormed := make([]schedule.Action, 0, len(proposals))
	indices := make([]int, 0, len(proposals))
	outcomes := make([]schedule.Outcome, len(proposals))

	for i, p := range proposals {
		if p.Err != nil {
			outcomes[i] = schedule.Outcome{
				Action:   p.Action,
				Accepted: false,
				Reason:   schedule.ReasonMalformedAction,
			}
			continue
		}
		wellFormed = append(wellFormed, p.Action)
		indices = append(indices, i)
	}

	for j, out := range schedule.Validate(wellFormed, snap, now, w) {
		outcomes[indices[j]] = out
	}
	return outcomes
}
