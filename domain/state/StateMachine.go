package state

// stateless object, just used for state computing
type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

type Category uint

const (
	InBacklog Category = iota
	InProcess
	Done
)

type State struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

type Transition struct {
	Name string `json:"name"`
	From State  `json:"from"`
	To   State  `json:"to"`

	// Role names the actor allowed to drive the transition; empty means any.
	Role string `json:"role,omitempty"`
}

func NewStateMachine(states []State, transitions []Transition) *StateMachine {
	return &StateMachine{States: states, Transitions: transitions}
}

func (sm *StateMachine) FindState(name string) (State, bool) {
	for _, s := range sm.States {
		if s.Name == name {
			return s, true
		}
	}
	return State{}, false
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

// Allowed reports whether exactly one transition named name exists from
// fromState for the given role, and returns it.
func (sm *StateMachine) Allowed(name, fromState, role string) (Transition, bool) {
	for _, transition := range sm.Transitions {
		if transition.Name == name && transition.From.Name == fromState &&
			(transition.Role == "" || transition.Role == role) {
			return transition, true
		}
	}
	return Transition{}, false
}
