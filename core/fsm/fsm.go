// Package fsm provides a synchronous finite state machine intended to run
// inside an actor's callback. The machine never spawns goroutines and never
// dispatches asynchronously: Handle runs guards and actions to completion on
// the caller's stack, so it inherits the serialization of the invocation it
// executes in. A machine must not be shared across actors.
package fsm

import "fmt"

type (
	// Action is a side effect run during a transition.
	Action func()

	// Guard decides whether a matching transition may fire.
	Guard func() bool
)

// Transition moves the machine from the declaring state to Target when
// Event is handled and the optional Guard passes. Exit runs while still in
// the source state; Enter runs after the target state's own Entry action.
type Transition[S, E comparable] struct {
	Event  E
	Target S
	Guard  Guard
	Exit   Action
	Enter  Action
}

// State declares one resting state. Entry runs every time the state is
// entered through a transition (not at construction).
type State[S, E comparable] struct {
	ID          S
	Entry       Action
	Transitions []Transition[S, E]
}

// Config declares a complete machine: the initial state and all states it
// can ever be in. Every transition target must be a declared state.
type Config[S, E comparable] struct {
	Initial S
	States  []State[S, E]
}

type stateDef[S, E comparable] struct {
	entry       Action
	transitions map[E]Transition[S, E]
}

// Machine is a finite automaton that is always in exactly one declared
// state. It is not safe for concurrent use; it belongs to one actor.
type Machine[S, E comparable] struct {
	current S
	states  map[S]stateDef[S, E]
}

// New validates cfg and returns a machine resting in cfg.Initial.
func New[S, E comparable](cfg Config[S, E]) (*Machine[S, E], error) {
	states := make(map[S]stateDef[S, E], len(cfg.States))
	for _, s := range cfg.States {
		if _, ok := states[s.ID]; ok {
			return nil, fmt.Errorf("fsm: duplicate state %v", s.ID)
		}
		def := stateDef[S, E]{
			entry:       s.Entry,
			transitions: make(map[E]Transition[S, E], len(s.Transitions)),
		}
		for _, tr := range s.Transitions {
			if _, ok := def.transitions[tr.Event]; ok {
				return nil, fmt.Errorf("fsm: duplicate transition for event %v in state %v", tr.Event, s.ID)
			}
			def.transitions[tr.Event] = tr
		}
		states[s.ID] = def
	}

	for _, s := range cfg.States {
		for _, tr := range s.Transitions {
			if _, ok := states[tr.Target]; !ok {
				return nil, fmt.Errorf("fsm: transition from %v on %v targets undeclared state %v", s.ID, tr.Event, tr.Target)
			}
		}
	}

	if _, ok := states[cfg.Initial]; !ok {
		return nil, fmt.Errorf("fsm: initial state %v is not declared", cfg.Initial)
	}

	return &Machine[S, E]{current: cfg.Initial, states: states}, nil
}

// MustNew is New for statically known configurations; it panics on an
// invalid config.
func MustNew[S, E comparable](cfg Config[S, E]) *Machine[S, E] {
	m, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return m
}

// Current returns the state the machine is resting in.
func (m *Machine[S, E]) Current() S { return m.current }

// Handle processes one event. If the current state has no transition for
// event, or its guard rejects, nothing happens and Handle returns false.
// Otherwise the transition's exit action runs, the state is mutated, the
// target state's entry action runs, then the transition's enter action.
func (m *Machine[S, E]) Handle(event E) bool {
	tr, ok := m.states[m.current].transitions[event]
	if !ok {
		return false
	}
	if tr.Guard != nil && !tr.Guard() {
		return false
	}

	if tr.Exit != nil {
		tr.Exit()
	}
	m.current = tr.Target
	if entry := m.states[tr.Target].entry; entry != nil {
		entry()
	}
	if tr.Enter != nil {
		tr.Enter()
	}
	return true
}
