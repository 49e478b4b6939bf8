package booking

import (
	"venue-booking-gateway/internal/pkg/errs"
)

type transitionKey struct {
	from   Status
	action Action
}

var transitions = map[transitionKey]Status{
	{StatusPending, ActionAccept}:     StatusConfirmed,
	{StatusPending, ActionReject}:     StatusCancelled,
	{StatusConfirmed, ActionComplete}: StatusCompleted,
}

// Transition is consulted before a status-changing request is sent and again when the
// acknowledged change is applied to cached state. It never replaces server confirmation.
func Transition(current Status, action Action) (Status, error) {
	next, ok := transitions[transitionKey{from: current, action: action}]
	if !ok {
		return current, errs.Mark(
			errs.New("cannot "+action.String()+" a booking that is "+current.String()),
			errs.ErrTransitionRejected,
		)
	}
	return next, nil
}

// AllowedActions lists the actions that are legal from the given status.
func AllowedActions(current Status) []Action {
	var actions []Action
	for _, a := range []Action{ActionAccept, ActionReject, ActionComplete} {
		if _, ok := transitions[transitionKey{from: current, action: a}]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}
