package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tatami/pkg/domain"
)

// GraphOverlay contains quiz state to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromState builds an overlay from a quiz session.
func OverlayFromState(state *domain.QuizState) *GraphOverlay {
	if state == nil {
		return nil
	}
	return &GraphOverlay{
		VisitedNodes: state.History,
		CurrentNode:  state.CurrentNodeID,
	}
}

// GenerateMermaid produces a Mermaid flowchart of a sequence.
// It applies semantic styling:
// - Hub: ((Circle))
// - Finisher (no outgoing edges): ([Stadium])
// - Default: [Rectangle]
// Edges are labelled "reaction / response". Edges whose target does not
// exist are drawn dotted to a placeholder node.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(seq *domain.Sequence, overlay *GraphOverlay) string {
	g := domain.NewGraph(seq)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	hubID := ""
	if hub, err := g.Hub(); err == nil {
		hubID = hub.ID
	}

	declared := make(map[string]bool, len(seq.Nodes))
	for _, node := range seq.Nodes {
		safeID := sanitizeMermaidID(node.ID)
		if declared[safeID] {
			continue
		}
		declared[safeID] = true

		opener, closer := "[", "]"
		switch {
		case node.ID == hubID:
			opener, closer = "((", "))"
		case g.IsFinisher(node.ID):
			opener, closer = "([", "])"
		}

		label := node.Label
		if label == "" {
			label = node.ID
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(label), closer))
	}

	for _, e := range seq.Edges {
		safeFrom := sanitizeMermaidID(e.FromID)
		safeTo := sanitizeMermaidID(e.ToID)

		_, resolved := g.NodeByID(e.ToID)
		if !resolved && !declared[safeTo] {
			declared[safeTo] = true
			sb.WriteString(fmt.Sprintf("    %s{{\"missing: %s\"}}\n", safeTo, escapeLabel(e.ToID)))
		}

		text := edgeLabel(e)
		switch {
		case !resolved && text != "":
			sb.WriteString(fmt.Sprintf("    %s -. \"%s\" .-> %s\n", safeFrom, text, safeTo))
		case !resolved:
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", safeFrom, safeTo))
		case text != "":
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeFrom, text, safeTo))
		default:
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeFrom, safeTo))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func edgeLabel(e domain.Edge) string {
	parts := make([]string, 0, 2)
	if e.OpponentReaction != "" {
		parts = append(parts, escapeLabel(e.OpponentReaction))
	}
	if e.MyResponse != "" {
		parts = append(parts, emphasize(e.MyResponse))
	}
	return strings.Join(parts, " / ")
}

// emphasize turns **bold** markup into Mermaid-safe <b> tags.
func emphasize(text string) string {
	var sb strings.Builder
	for _, f := range domain.RenderInlineEmphasis(text) {
		if f.Emphasized {
			sb.WriteString("<b>" + escapeLabel(f.Text) + "</b>")
			continue
		}
		sb.WriteString(escapeLabel(f.Text))
	}
	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	if s == "end" || s == "graph" {
		// Reserved words in Mermaid
		s = "n_" + s
	}
	return s
}
