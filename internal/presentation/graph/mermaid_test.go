package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/tatami/internal/presentation/graph"
	"github.com/aretw0/tatami/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		seq      *domain.Sequence
		overlay  *graph.GraphOverlay
		contains []string
	}{
		{
			name: "Hub And Finisher Shapes",
			seq: &domain.Sequence{
				Nodes: []domain.Node{
					{ID: "N1", Label: "Entry"},
					{ID: "HUB", Label: "Hub", IsHub: true},
					{ID: "SIDE", Label: "Side control"},
				},
				Edges: []domain.Edge{
					{FromID: "N1", ToID: "HUB"},
					{FromID: "HUB", ToID: "SIDE", OpponentReaction: "Frames", MyResponse: "**Pass**"},
				},
			},
			contains: []string{
				`HUB(("Hub"))`,
				`SIDE(["Side control"])`,
				`N1["Entry"]`,
				`N1 --> HUB`,
				`HUB -- "Frames / <b>Pass</b>" --> SIDE`,
			},
		},
		{
			name: "ID Sanitization",
			seq: &domain.Sequence{
				Nodes: []domain.Node{
					{ID: "path/to.node"},
					{ID: "hyphen-ated"},
					{ID: "end"},
				},
			},
			contains: []string{
				`path_to_node(("path/to.node"))`,
				`hyphen_ated(["hyphen-ated"])`,
				`n_end(["end"])`,
			},
		},
		{
			name: "Label Escaping",
			seq: &domain.Sequence{
				Nodes: []domain.Node{{ID: "A", Label: `Say "hi"`}, {ID: "B"}},
				Edges: []domain.Edge{{FromID: "A", ToID: "B", OpponentReaction: `He says "no"`}},
			},
			contains: []string{
				`A(("Say 'hi'"))`,
				`-- "He says 'no'" -->`,
			},
		},
		{
			name: "Missing Target",
			seq: &domain.Sequence{
				Nodes: []domain.Node{{ID: "A"}},
				Edges: []domain.Edge{{FromID: "A", ToID: "GHOST"}},
			},
			contains: []string{
				`GHOST{{"missing: GHOST"}}`,
				`A -.-> GHOST`,
			},
		},
		{
			name: "Overlay",
			seq: &domain.Sequence{
				Nodes: []domain.Node{{ID: "A", IsHub: true}, {ID: "B"}},
				Edges: []domain.Edge{{FromID: "A", ToID: "B"}},
			},
			overlay: &graph.GraphOverlay{VisitedNodes: []string{"A", "A", "B"}, CurrentNode: "B"},
			contains: []string{
				"classDef visited",
				"class A visited;",
				"class B current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.seq, tt.overlay)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("GenerateMermaid() must start with 'graph TD', got:\n%v", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}

	t.Run("Visited Deduplicated", func(t *testing.T) {
		seq := &domain.Sequence{Nodes: []domain.Node{{ID: "A"}}}
		got := graph.GenerateMermaid(seq, &graph.GraphOverlay{VisitedNodes: []string{"A", "A"}})
		if c := strings.Count(got, "class A visited;"); c != 1 {
			t.Errorf("expected one visited class line, got %d", c)
		}
	})
}
