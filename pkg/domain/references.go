package domain

// CheckReferences reports every edge endpoint that does not name a node of
// the same sequence. It returns nil when all references resolve.
func CheckReferences(seq *Sequence) *ReferenceErrors {
	ids := make(map[string]struct{}, len(seq.Nodes))
	for _, n := range seq.Nodes {
		if n.ID != "" {
			ids[n.ID] = struct{}{}
		}
	}

	var errs []*ReferenceError
	for i, e := range seq.Edges {
		if _, ok := ids[e.FromID]; !ok {
			errs = append(errs, &ReferenceError{EdgeIndex: i, Field: "fromId", Ref: e.FromID})
		}
		if _, ok := ids[e.ToID]; !ok {
			errs = append(errs, &ReferenceError{EdgeIndex: i, Field: "toId", Ref: e.ToID})
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ReferenceErrors{Errors: errs}
}
