package reputation

import (
	"errors"
	"testing"
	"time"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/user"
)

func acceptedRequest() *buddy.Request {
	return &buddy.Request{
		ID:                "brq_1",
		OwnerID:           "usr_owner",
		ExperiencedUserID: "usr_experienced",
		Length:            4200,
		Status:            buddy.StatusAccepted,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		actorID string
		status  buddy.Status
		score   int
		wantErr error
	}{
		{name: "owner reviews accepted", actorID: "usr_owner", status: buddy.StatusAccepted, score: 1},
		{name: "owner re-reviews completed", actorID: "usr_owner", status: buddy.StatusCompleted, score: -1},
		{name: "stranger gets not found", actorID: "usr_stranger", status: buddy.StatusAccepted, score: 1, wantErr: buddy.ErrRequestNotFound},
		{name: "experienced may not review", actorID: "usr_experienced", status: buddy.StatusAccepted, score: 1, wantErr: &buddy.ForbiddenError{}},
		{name: "score must not be zero", actorID: "usr_owner", status: buddy.StatusAccepted, score: 0, wantErr: &models.ValidationError{}},
		{name: "score must not exceed one", actorID: "usr_owner", status: buddy.StatusAccepted, score: 5, wantErr: &models.ValidationError{}},
		{name: "pending ride not reviewable", actorID: "usr_owner", status: buddy.StatusPending, score: 1, wantErr: &buddy.InvalidTransitionError{}},
		{name: "canceled ride not reviewable", actorID: "usr_owner", status: buddy.StatusCanceled, score: 1, wantErr: &buddy.InvalidTransitionError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := acceptedRequest()
			req.Status = tt.status

			err := Validate(tt.actorID, req, tt.score)

			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("expected review to be allowed, got %v", err)
				}
			case *buddy.ForbiddenError:
				var fe *buddy.ForbiddenError
				if !errors.As(err, &fe) {
					t.Fatalf("expected ForbiddenError, got %v", err)
				}
			case *buddy.InvalidTransitionError:
				var ie *buddy.InvalidTransitionError
				if !errors.As(err, &ie) {
					t.Fatalf("expected InvalidTransitionError, got %v", err)
				}
			case *models.ValidationError:
				var ve *models.ValidationError
				if !errors.As(err, &ve) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
			default:
				if !errors.Is(err, want) {
					t.Fatalf("expected %v, got %v", want, err)
				}
			}
		})
	}
}

func TestApply_FirstReview(t *testing.T) {
	req := acceptedRequest()
	owner := user.DefaultUser("usr_owner")
	experienced := user.DefaultUser("usr_experienced")
	now := time.Now()

	Apply(req, owner, experienced, 1, now)

	if req.Status != buddy.StatusCompleted {
		t.Errorf("expected request to complete, got %s", req.Status)
	}
	if req.Review != 1 {
		t.Errorf("expected review 1, got %d", req.Review)
	}

	if owner.Reputation.HelpedCount != 1 {
		t.Errorf("owner helped count = %d, want 1", owner.Reputation.HelpedCount)
	}
	if owner.Reputation.DistanceTravelled != 4200 {
		t.Errorf("owner distance = %f, want 4200", owner.Reputation.DistanceTravelled)
	}
	if owner.Reputation.UsersHelped != 0 || owner.Reputation.RatingSum != 0 {
		t.Errorf("owner must not be credited as the experienced rider: %+v", owner.Reputation)
	}

	if experienced.Reputation.UsersHelped != 1 {
		t.Errorf("experienced users helped = %d, want 1", experienced.Reputation.UsersHelped)
	}
	if experienced.Reputation.DistanceTravelled != 4200 {
		t.Errorf("experienced distance = %f, want 4200", experienced.Reputation.DistanceTravelled)
	}
	if experienced.Reputation.RatingSum != 1 {
		t.Errorf("experienced rating sum = %d, want 1", experienced.Reputation.RatingSum)
	}
	if experienced.Reputation.Rating != 1 {
		t.Errorf("experienced rating = %f, want 1", experienced.Reputation.Rating)
	}
}

func TestApply_ReReviewSwapsScoreWithoutRecounting(t *testing.T) {
	req := acceptedRequest()
	owner := user.DefaultUser("usr_owner")
	experienced := user.DefaultUser("usr_experienced")
	now := time.Now()

	Apply(req, owner, experienced, 1, now)
	Apply(req, owner, experienced, -1, now.Add(time.Hour))

	if owner.Reputation.HelpedCount != 1 {
		t.Errorf("re-review must not recount: helped count = %d", owner.Reputation.HelpedCount)
	}
	if experienced.Reputation.UsersHelped != 1 {
		t.Errorf("re-review must not recount: users helped = %d", experienced.Reputation.UsersHelped)
	}
	if owner.Reputation.DistanceTravelled != 4200 || experienced.Reputation.DistanceTravelled != 4200 {
		t.Error("re-review must not re-add the ride distance")
	}
	if experienced.Reputation.RatingSum != -1 {
		t.Errorf("rating sum = %d, want -1", experienced.Reputation.RatingSum)
	}
	if experienced.Reputation.Rating != -1 {
		t.Errorf("rating = %f, want -1", experienced.Reputation.Rating)
	}
	if req.Review != -1 {
		t.Errorf("review = %d, want -1", req.Review)
	}
}

func TestApply_ReReviewWithSameScoreIsANoOp(t *testing.T) {
	req := acceptedRequest()
	owner := user.DefaultUser("usr_owner")
	experienced := user.DefaultUser("usr_experienced")
	now := time.Now()

	Apply(req, owner, experienced, 1, now)
	before := experienced.Reputation

	Apply(req, owner, experienced, 1, now.Add(time.Hour))

	if experienced.Reputation != before {
		t.Errorf("same-score re-review changed reputation: %+v -> %+v", before, experienced.Reputation)
	}
}

func TestApply_RatingAveragesAcrossRides(t *testing.T) {
	owner := user.DefaultUser("usr_owner")
	experienced := user.DefaultUser("usr_experienced")
	now := time.Now()

	first := acceptedRequest()
	Apply(first, owner, experienced, 1, now)

	second := acceptedRequest()
	second.ID = "brq_2"
	Apply(second, owner, experienced, -1, now)

	if experienced.Reputation.UsersHelped != 2 {
		t.Fatalf("users helped = %d, want 2", experienced.Reputation.UsersHelped)
	}
	if experienced.Reputation.Rating != 0 {
		t.Errorf("rating = %f, want 0", experienced.Reputation.Rating)
	}
}
