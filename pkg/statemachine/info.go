package statemachine

// Info is a type-erased view of a machine, for callers that handle machines
// with different state and event types side by side.
type Info struct {
	Name        string           `json:"name"`
	Initial     string           `json:"initial"`
	Current     string           `json:"current"`
	States      []string         `json:"states"`
	Transitions []TransitionInfo `json:"transitions"`
}

// TransitionInfo is one transition of Info.
type TransitionInfo struct {
	From  string `json:"from"`
	Event string `json:"event"`
	To    string `json:"to"`
}

// Info describes the machine as it is right now.
func (m *Machine[S, E]) Info() Info {
	states := m.States()
	info := Info{
		Name:        m.name,
		Initial:     string(m.initial),
		Current:     string(m.Current()),
		States:      make([]string, len(states)),
		Transitions: make([]TransitionInfo, len(m.ordered)),
	}

	for i, s := range states {
		info.States[i] = string(s)
	}
	for i, tr := range m.ordered {
		info.Transitions[i] = TransitionInfo{From: string(tr.From), Event: string(tr.Event), To: string(tr.To)}
	}

	return info
}
