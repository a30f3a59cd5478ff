package state

import "construxflow/bizerror"

// StateMachine stateless object, just used for state computing
type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

type State struct {
	Name     string `json:"name"`
	Terminal bool   `json:"terminal"`
}

type Transition struct {
	Name string `json:"name"`
	From State  `json:"from"`
	To   State  `json:"to"`
}

var (
	Pending  = State{Name: "pending"}
	Approved = State{Name: "approved", Terminal: true}
	Rejected = State{Name: "rejected", Terminal: true}
)

// DecisionMachine governs both worker applications and material orders
var DecisionMachine = NewStateMachine(
	[]State{Pending, Approved, Rejected},
	[]Transition{
		{Name: "approve", From: Pending, To: Approved},
		{Name: "reject", From: Pending, To: Rejected},
	})

func NewStateMachine(states []State, transitions []Transition) *StateMachine {
	return &StateMachine{States: states, Transitions: transitions}
}

func (sm *StateMachine) AvailableTransitions(fromState string, toState string) []Transition {
	r := []Transition{}
	for _, transition := range sm.Transitions {
		if (fromState == "" || fromState == transition.From.Name) && (toState == "" || toState == transition.To.Name) {
			r = append(r, transition)
		}
	}
	return r
}

func (sm *StateMachine) FindState(name string) (State, bool) {
	for _, s := range sm.States {
		if s.Name == name {
			return s, true
		}
	}
	return State{}, false
}

// Fire returns the transition named action leaving fromState.
// An unknown action is a bad param, a known action not allowed from fromState is a state conflict.
func (sm *StateMachine) Fire(fromState string, action string) (*Transition, error) {
	known := false
	for _, transition := range sm.Transitions {
		if transition.Name != action {
			continue
		}
		known = true
		if transition.From.Name == fromState {
			t := transition
			return &t, nil
		}
	}
	if !known {
		return nil, bizerror.BadParam("invalid action '" + action + "'")
	}
	if _, found := sm.FindState(fromState); !found {
		return nil, bizerror.ErrUnknownState
	}
	return nil, bizerror.ErrStateConflict
}
