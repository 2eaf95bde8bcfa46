package workflow

// State represents a lifecycle stage of a membership application
type State string

const (
	StateDraft            State = "DRAFT"
	StateSubmitted        State = "SUBMITTED"
	StateRegionReview     State = "REGION_REVIEW"
	StateRequestedChanges State = "REQUESTED_CHANGES"
	StateNationalReview   State = "NATIONAL_REVIEW"
	StateApproved         State = "APPROVED"
	StateRejected         State = "REJECTED"
)

var validStates = map[State]bool{
	StateDraft:            true,
	StateSubmitted:        true,
	StateRegionReview:     true,
	StateRequestedChanges: true,
	StateNationalReview:   true,
	StateApproved:         true,
	StateRejected:         true,
}

var terminalStates = map[State]bool{
	StateApproved: true,
	StateRejected: true,
}

// IsTerminal returns true if the state has no outgoing transitions
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is one of the seven defined values
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Action represents a named transition request against an application
type Action string

const (
	ActionSubmit          Action = "submit"
	ActionRequestInfo     Action = "request_info"
	ActionRegionApprove   Action = "region_approve"
	ActionNationalApprove Action = "national_approve"
	ActionReject          Action = "reject"
)

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}
