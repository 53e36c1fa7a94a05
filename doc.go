/*
Package tatami is a study library for martial-arts technique sequences.

A sequence is a small directed graph: nodes are positions and edges are
"opponent reaction / my response" transitions. Tatami stores sequences,
validates them at creation time, and drives an interactive quiz over them:
at every node one opponent reaction is suggested by a weighted random draw,
and the student answers by picking one of the outgoing responses.

# Usage

	lib := tatami.New()

	seq, warnings, err := lib.CreateSequence(ctx, &domain.Sequence{
		Name: "Half-Butterfly",
		Nodes: []domain.Node{
			{ID: "HUB", Label: "Half-Butterfly", IsHub: true},
			{ID: "SWEEP", Label: "Sweep"},
		},
		Edges: []domain.Edge{
			{FromID: "HUB", ToID: "SWEEP", OpponentReaction: "Posts hand", MyResponse: "**Elevate**"},
		},
	})
	if err != nil {
		log.Fatal(err)
	}
	if warnings != nil {
		log.Println(warnings)
	}

	view, err := lib.StartQuiz(ctx, seq.ID)
	...
	view, err = lib.Choose(ctx, view.State.SessionID, 0)
	if view.Finisher {
		log.Println("finished")
	}

Storage is pluggable through the ports package: in-memory (default),
SQLite, Redis, with a Loam directory as a read-only import source.
*/
package tatami
