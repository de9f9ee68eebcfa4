package buddy

// Transition decides whether an actor may move a request from its current
// status to the requested one. It returns nil when the transition is
// allowed and a ForbiddenError, InvalidTransitionError or
// ReasonRequiredError otherwise. It mutates nothing: callers apply the new
// status only on a nil return, so a rejected transition leaves the stored
// request untouched.
func Transition(current, requested Status, actor Actor, reason string) error {
	if !requested.Valid() {
		if requested == "cancelled" {
			return invalidf(`unknown status "cancelled": use "canceled"`)
		}
		return invalidf("unknown status %q", string(requested))
	}

	switch requested {
	case StatusPending:
		return invalidf("can't reset a buddy request to pending")
	case StatusCompleted:
		return invalidf("completed is set only by a review")
	case StatusAccepted:
		return transitionToAccepted(current, actor)
	case StatusRejected:
		return transitionToRejected(current, actor)
	case StatusCanceled:
		return transitionToCanceled(current, actor, reason)
	}
	return invalidf("unknown status %q", string(requested))
}

func transitionToAccepted(current Status, actor Actor) error {
	switch current {
	case StatusPending, StatusAccepted:
		// Accepting an already-accepted request is idempotent; the reason
		// is replaced.
		if actor != ActorExperienced {
			return &ForbiddenError{Reason: "only the experienced cyclist may accept a buddy request"}
		}
		return nil
	case StatusRejected:
		return invalidf("can't accept a rejected buddy request")
	case StatusCanceled:
		return invalidf("can't accept a canceled buddy request")
	default:
		return invalidf("can't accept a %s buddy request", string(current))
	}
}

func transitionToRejected(current Status, actor Actor) error {
	switch current {
	case StatusPending, StatusRejected:
		if actor != ActorExperienced {
			return &ForbiddenError{Reason: "only the experienced cyclist may reject a buddy request"}
		}
		return nil
	case StatusAccepted:
		return invalidf("can't reject an accepted buddy request: cancel it instead")
	case StatusCanceled:
		return invalidf("can't reject a canceled buddy request")
	default:
		return invalidf("can't reject a %s buddy request", string(current))
	}
}

func transitionToCanceled(current Status, actor Actor, reason string) error {
	switch current {
	case StatusPending, StatusAccepted:
		if reason == "" {
			return &ReasonRequiredError{}
		}
		return nil
	case StatusRejected:
		if actor != ActorExperienced {
			return invalidf("can't cancel a rejected buddy request")
		}
		if reason == "" {
			return &ReasonRequiredError{}
		}
		return nil
	case StatusCanceled:
		// Re-canceling only replaces the reason.
		return nil
	default:
		return invalidf("can't cancel a %s buddy request", string(current))
	}
}
