package workflow

// transitions is the legal (state, action) table. SUBMITTED and REGION_REVIEW
// carry identical action sets: both mean "awaiting regional decision".
var transitions = map[State]map[Action]State{
	StateDraft: {
		ActionSubmit: StateSubmitted,
	},
	StateSubmitted: {
		ActionRequestInfo:   StateRequestedChanges,
		ActionRegionApprove: StateNationalReview,
		ActionReject:        StateRejected,
	},
	StateRegionReview: {
		ActionRequestInfo:   StateRequestedChanges,
		ActionRegionApprove: StateNationalReview,
		ActionReject:        StateRejected,
	},
	StateRequestedChanges: {
		ActionSubmit: StateSubmitted,
	},
	StateNationalReview: {
		ActionNationalApprove: StateApproved,
		ActionReject:          StateRejected,
	},
	StateApproved: {},
	StateRejected: {},
}

// actionResults maps each action to the state it always lands in.
var actionResults = map[Action]State{
	ActionSubmit:          StateSubmitted,
	ActionRequestInfo:     StateRequestedChanges,
	ActionRegionApprove:   StateNationalReview,
	ActionNationalApprove: StateApproved,
	ActionReject:          StateRejected,
}

// IsLegal reports whether the action may be fired from the given state
func IsLegal(state State, action Action) bool {
	allowed, ok := transitions[state]
	if !ok {
		return false
	}
	_, ok = allowed[action]
	return ok
}

// NextState returns the state an action results in, and whether the action is known
func NextState(action Action) (State, bool) {
	next, ok := actionResults[action]
	return next, ok
}

// PermittedActions returns the actions that may be fired from the given state
func PermittedActions(state State) []Action {
	allowed, ok := transitions[state]
	if !ok {
		return nil
	}
	actions := make([]Action, 0, len(allowed))
	for _, a := range []Action{ActionSubmit, ActionRequestInfo, ActionRegionApprove, ActionNationalApprove, ActionReject} {
		if _, ok := allowed[a]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}
