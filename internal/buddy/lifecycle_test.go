package buddy

import (
	"errors"
	"strings"
	"testing"
)

type outcome int

const (
	ok outcome = iota
	forbidden
	invalid
	reasonRequired
)

func TestTransition_Table(t *testing.T) {
	const withReason = "life happened"

	tests := []struct {
		name      string
		current   Status
		requested Status
		actor     Actor
		reason    string
		want      outcome
	}{
		// pending
		{name: "pending accepted by experienced", current: StatusPending, requested: StatusAccepted, actor: ActorExperienced, want: ok},
		{name: "pending accepted by owner", current: StatusPending, requested: StatusAccepted, actor: ActorOwner, want: forbidden},
		{name: "pending rejected by experienced", current: StatusPending, requested: StatusRejected, actor: ActorExperienced, want: ok},
		{name: "pending rejected by owner", current: StatusPending, requested: StatusRejected, actor: ActorOwner, want: forbidden},
		{name: "pending canceled by owner with reason", current: StatusPending, requested: StatusCanceled, actor: ActorOwner, reason: withReason, want: ok},
		{name: "pending canceled by experienced with reason", current: StatusPending, requested: StatusCanceled, actor: ActorExperienced, reason: withReason, want: ok},
		{name: "pending canceled without reason", current: StatusPending, requested: StatusCanceled, actor: ActorOwner, want: reasonRequired},

		// accepted
		{name: "accepted re-accepted by experienced", current: StatusAccepted, requested: StatusAccepted, actor: ActorExperienced, want: ok},
		{name: "accepted re-accepted by owner", current: StatusAccepted, requested: StatusAccepted, actor: ActorOwner, want: forbidden},
		{name: "accepted rejected by experienced", current: StatusAccepted, requested: StatusRejected, actor: ActorExperienced, want: invalid},
		{name: "accepted rejected by owner", current: StatusAccepted, requested: StatusRejected, actor: ActorOwner, want: invalid},
		{name: "accepted canceled by owner with reason", current: StatusAccepted, requested: StatusCanceled, actor: ActorOwner, reason: withReason, want: ok},
		{name: "accepted canceled by experienced without reason", current: StatusAccepted, requested: StatusCanceled, actor: ActorExperienced, want: reasonRequired},

		// rejected
		{name: "rejected accepted by experienced", current: StatusRejected, requested: StatusAccepted, actor: ActorExperienced, want: invalid},
		{name: "rejected accepted by owner", current: StatusRejected, requested: StatusAccepted, actor: ActorOwner, want: invalid},
		{name: "rejected re-rejected by experienced", current: StatusRejected, requested: StatusRejected, actor: ActorExperienced, want: ok},
		{name: "rejected re-rejected by owner", current: StatusRejected, requested: StatusRejected, actor: ActorOwner, want: forbidden},
		{name: "rejected canceled by experienced with reason", current: StatusRejected, requested: StatusCanceled, actor: ActorExperienced, reason: withReason, want: ok},
		{name: "rejected canceled by experienced without reason", current: StatusRejected, requested: StatusCanceled, actor: ActorExperienced, want: reasonRequired},
		{name: "rejected canceled by owner", current: StatusRejected, requested: StatusCanceled, actor: ActorOwner, reason: withReason, want: invalid},

		// canceled
		{name: "canceled accepted", current: StatusCanceled, requested: StatusAccepted, actor: ActorExperienced, want: invalid},
		{name: "canceled rejected", current: StatusCanceled, requested: StatusRejected, actor: ActorExperienced, want: invalid},
		{name: "canceled re-canceled by owner", current: StatusCanceled, requested: StatusCanceled, actor: ActorOwner, want: ok},
		{name: "canceled re-canceled by experienced", current: StatusCanceled, requested: StatusCanceled, actor: ActorExperienced, want: ok},

		// completed is terminal
		{name: "completed accepted", current: StatusCompleted, requested: StatusAccepted, actor: ActorExperienced, want: invalid},
		{name: "completed rejected", current: StatusCompleted, requested: StatusRejected, actor: ActorExperienced, want: invalid},
		{name: "completed canceled", current: StatusCompleted, requested: StatusCanceled, actor: ActorOwner, reason: withReason, want: invalid},

		// universally invalid targets
		{name: "reset to pending", current: StatusAccepted, requested: StatusPending, actor: ActorExperienced, want: invalid},
		{name: "jump to completed", current: StatusAccepted, requested: StatusCompleted, actor: ActorOwner, want: invalid},
		{name: "unknown status", current: StatusPending, requested: Status("archived"), actor: ActorOwner, want: invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Transition(tt.current, tt.requested, tt.actor, tt.reason)

			switch tt.want {
			case ok:
				if err != nil {
					t.Fatalf("expected transition to be allowed, got %v", err)
				}
			case forbidden:
				var fe *ForbiddenError
				if !errors.As(err, &fe) {
					t.Fatalf("expected ForbiddenError, got %v", err)
				}
			case invalid:
				var ie *InvalidTransitionError
				if !errors.As(err, &ie) {
					t.Fatalf("expected InvalidTransitionError, got %v", err)
				}
			case reasonRequired:
				var re *ReasonRequiredError
				if !errors.As(err, &re) {
					t.Fatalf("expected ReasonRequiredError, got %v", err)
				}
			}
		})
	}
}

func TestTransition_BritishSpellingHint(t *testing.T) {
	err := Transition(StatusPending, Status("cancelled"), ActorOwner, "moving away")

	var ie *InvalidTransitionError
	if !errors.As(err, &ie) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if !strings.Contains(ie.Reason, `"canceled"`) {
		t.Errorf("expected the error to suggest the canonical spelling, got %q", ie.Reason)
	}
}

func TestTransition_ErrorsCarryReadableReasons(t *testing.T) {
	err := Transition(StatusAccepted, StatusRejected, ActorExperienced, "")
	if err == nil || !strings.Contains(err.Error(), "cancel it instead") {
		t.Errorf("expected the accepted-to-rejected error to point at cancellation, got %v", err)
	}
}
