package model

import "github.com/a-buianova/explore-with-me/internal/apperr"

// Transition resolves the event state machine: current state × action →
// next state, or a Conflict when the action is not valid from the current
// state. It is a pure function; date preconditions on publishing are
// checked by the caller before applying the result.
//
//	PENDING   --SEND_TO_REVIEW--> PENDING
//	PENDING   --CANCEL_REVIEW---> CANCELED
//	CANCELED  --SEND_TO_REVIEW--> PENDING
//	CANCELED  --CANCEL_REVIEW---> CANCELED
//	PENDING   --PUBLISH_EVENT---> PUBLISHED
//	PENDING   --REJECT_EVENT----> CANCELED
//	CANCELED  --REJECT_EVENT----> CANCELED
//	PUBLISHED --*---------------> Conflict
func Transition(state EventState, action StateAction) (EventState, error) {
	switch action {
	case ActionSendToReview:
		if state == StatePublished {
			return "", apperr.Conflict("published events cannot be sent to review")
		}
		return StatePending, nil

	case ActionCancelReview:
		if state == StatePublished {
			return "", apperr.Conflict("published events cannot be canceled")
		}
		return StateCanceled, nil

	case ActionPublish:
		if state != StatePending {
			return "", apperr.Conflict("only pending events can be published")
		}
		return StatePublished, nil

	case ActionReject:
		if state == StatePublished {
			return "", apperr.Conflict("published events cannot be rejected")
		}
		return StateCanceled, nil
	}
	return "", apperr.BadRequest("invalid stateAction: %s", action)
}

// initiatorActions and adminActions restrict which transitions each caller
// may request; anything outside the set is a BadRequest, not a Conflict.
var (
	initiatorActions = map[StateAction]bool{
		ActionSendToReview: true,
		ActionCancelReview: true,
	}
	adminActions = map[StateAction]bool{
		ActionPublish: true,
		ActionReject:  true,
	}
)

// InitiatorAction parses a stateAction supplied by the event's initiator.
func InitiatorAction(raw string) (StateAction, error) {
	a := StateAction(raw)
	if !initiatorActions[a] {
		return "", apperr.BadRequest("unsupported stateAction for initiator: %s", raw)
	}
	return a, nil
}

// AdminAction parses a stateAction supplied by an administrator.
func AdminAction(raw string) (StateAction, error) {
	a := StateAction(raw)
	if !adminActions[a] {
		return "", apperr.BadRequest("unsupported stateAction for admin: %s", raw)
	}
	return a, nil
}
