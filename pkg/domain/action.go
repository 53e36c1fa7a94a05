package domain

// QuizOption is one selectable response at the current quiz node.
type QuizOption struct {
	// Index is the position among EdgesFrom(current), used to choose.
	Index    int        `json:"index"`
	Edge     Edge       `json:"edge"`
	Response []Fragment `json:"response"`
	// Suggested marks the option whose reaction is the current candidate.
	Suggested bool `json:"suggested,omitempty"`
}

// QuizView is what a host renders for a quiz session.
type QuizView struct {
	State *QuizState `json:"state"`
	Node  *Node      `json:"node,omitempty"`

	// Actions are the emphasis-rendered actions of the current node.
	Actions [][]Fragment `json:"actions,omitempty"`

	// Candidate is the suggested opponent reaction, nil at a finisher.
	Candidate *Edge        `json:"candidate,omitempty"`
	Options   []QuizOption `json:"options"`
	Finisher  bool         `json:"finisher"`
}

// NewQuizView builds the view of state over g. Options list every outgoing
// edge of the current node in original order.
func NewQuizView(g *Graph, state *QuizState) *QuizView {
	v := &QuizView{State: state, Options: []QuizOption{}}
	if state == nil || state.Status != QuizAtNode {
		return v
	}
	if n, ok := g.NodeByID(state.CurrentNodeID); ok {
		v.Node = &n
		for _, a := range n.Actions {
			v.Actions = append(v.Actions, RenderInlineEmphasis(a))
		}
	}
	v.Candidate = state.Candidate
	v.Finisher = state.Finisher()
	if state.Malformed {
		return v
	}
	for i, e := range g.EdgesFrom(state.CurrentNodeID) {
		v.Options = append(v.Options, QuizOption{
			Index:     i,
			Edge:      e,
			Response:  RenderInlineEmphasis(e.MyResponse),
			Suggested: state.Candidate != nil && state.Candidate.Same(e),
		})
	}
	return v
}
