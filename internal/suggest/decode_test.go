package suggest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-scheduling-assistant/internal/schedule"
)

func TestDecodeActionsWellFormed(t *testing.T) {
	clientID := uuid.New()
	clinicianID := uuid.New()
	apptID := uuid.New()

	payload := `[
		{"action": "create", "start_time": "2025-03-03T10:00:00Z", "client_id": "` + clientID.String() + `", "clinician_id": "` + clinicianID.String() + `"},
		{"action": "update", "start_time": "2025-03-03T14:00:00Z", "client_id": "` + clientID.String() + `", "clinician_id": "` + clinicianID.String() + `", "appointment_id": "` + apptID.String() + `"}
	]`

	proposals, err := DecodeActions(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proposals) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(proposals))
	}

	first := proposals[0]
	if first.Err != nil {
		t.Fatalf("unexpected element error: %v", first.Err)
	}
	if first.Action.Kind != schedule.ActionCreate {
		t.Errorf("expected create, got %s", first.Action.Kind)
	}
	if !first.Action.Start.Equal(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start: %s", first.Action.Start)
	}
	if first.Action.ClientID != clientID {
		t.Errorf("client id mismatch")
	}

	second := proposals[1]
	if second.Err != nil {
		t.Fatalf("unexpected element error: %v", second.Err)
	}
	if second.Action.Kind != schedule.ActionUpdate || second.Action.AppointmentID != apptID {
		t.Errorf("update not decoded: %+v", second.Action)
	}
}

func TestDecodeActionsMalformedElements(t *testing.T) {
	clientID := uuid.New().String()
	clinicianID := uuid.New().String()

	cases := []struct {
		name    string
		element string
	}{
		{"unknown kind", `{"action": "cancel", "start_time": "2025-03-03T10:00:00Z", "client_id": "` + clientID + `", "clinician_id": "` + clinicianID + `"}`},
		{"offset-less timestamp", `{"action": "create", "start_time": "2025-03-03T10:00:00", "client_id": "` + clientID + `", "clinician_id": "` + clinicianID + `"}`},
		{"garbage timestamp", `{"action": "create", "start_time": "next tuesday", "client_id": "` + clientID + `", "clinician_id": "` + clinicianID + `"}`},
		{"bad client id", `{"action": "create", "start_time": "2025-03-03T10:00:00Z", "client_id": "42", "clinician_id": "` + clinicianID + `"}`},
		{"update without target", `{"action": "update", "start_time": "2025-03-03T10:00:00Z", "client_id": "` + clientID + `", "clinician_id": "` + clinicianID + `"}`},
		{"create with target", `{"action": "create", "start_time": "2025-03-03T10:00:00Z", "client_id": "` + clientID + `", "clinician_id": "` + clinicianID + `", "appointment_id": "` + uuid.New().String() + `"}`},
	}

	for _, tc := range cases {
		proposals, err := DecodeActions(strings.NewReader("[" + tc.element + "]"))
		if err != nil {
			t.Fatalf("%s: batch must not fail: %v", tc.name, err)
		}
		if proposals[0].Err == nil {
			t.Errorf("%s: expected element error", tc.name)
		}
	}
}

func TestDecodeActionsUnparsablePayload(t *testing.T) {
	if _, err := DecodeActions(strings.NewReader(`{"not": "an array"}`)); err == nil {
		t.Error("expected an error for a non-array payload")
	}
	if _, err := DecodeActions(strings.NewReader(`[{]`)); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestValidateProposalsAlignsOutcomes(t *testing.T) {
	w := schedule.DefaultWindow(time.UTC)
	clinicianID := uuid.New()
	snap := schedule.NewSnapshot(clinicianID, nil)
	now := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

	good := schedule.Action{
		Kind:        schedule.ActionCreate,
		Start:       time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC),
		ClientID:    uuid.New(),
		ClinicianID: clinicianID,
	}
	conflicting := good
	conflicting.ClientID = uuid.New()

	batch := []Proposal{
		{Action: good},
		{Err: errors.New("bad element")},
		{Action: conflicting},
	}

	outcomes := ValidateProposals(batch, snap, now, w)

	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].Accepted {
		t.Errorf("first proposal should be accepted: %s", outcomes[0].Reason)
	}
	if outcomes[1].Accepted || outcomes[1].Reason != schedule.ReasonMalformedAction {
		t.Errorf("malformed proposal must be rejected as malformed, got %+v", outcomes[1])
	}
	if outcomes[2].Accepted || outcomes[2].Reason != schedule.ReasonOverlapWithProposed {
		t.Errorf("conflicting proposal must lose the tie-break, got %+v", outcomes[2])
	}
}
