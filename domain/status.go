package domain

type Status string

const (
	StatusPending  = Status("pending")
	StatusApproved = Status("approved")
	StatusRejected = Status("rejected")
)

type DecisionAction string

const (
	ActionApprove = DecisionAction("approve")
	ActionReject  = DecisionAction("reject")
)

func (a DecisionAction) IsValid() bool {
	return a == ActionApprove || a == ActionReject
}
