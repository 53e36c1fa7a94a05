package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tatami/pkg/domain"
)

// SequenceMarkdown renders a sequence as a markdown study sheet.
// Inline **emphasis** in actions and responses is kept as markdown bold.
func SequenceMarkdown(seq *domain.Sequence) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", seq.Name)
	if seq.Hub != "" {
		fmt.Fprintf(&sb, "**Hub:** %s\n\n", seq.Hub)
	}
	if len(seq.Tags) > 0 {
		fmt.Fprintf(&sb, "**Tags:** %s\n\n", strings.Join(seq.Tags, ", "))
	}
	if len(seq.PhaseGate) > 0 {
		fmt.Fprintf(&sb, "**Phases:** %s\n\n", joinPhases(seq.PhaseGate, " → "))
	}

	if len(seq.KeyIdeas) > 0 {
		sb.WriteString("## Key ideas\n\n")
		for _, k := range seq.KeyIdeas {
			fmt.Fprintf(&sb, "- %s\n", markdownInline(k))
		}
		sb.WriteString("\n")
	}

	g := domain.NewGraph(seq)
	sb.WriteString("## Positions\n\n")
	for _, n := range seq.Nodes {
		title := n.Label
		if title == "" {
			title = n.ID
		}
		marker := ""
		if n.IsHub {
			marker = " (hub)"
		} else if g.IsFinisher(n.ID) {
			marker = " (finisher)"
		}
		fmt.Fprintf(&sb, "### %s `%s`%s\n\n", title, n.ID, marker)
		if len(n.PhaseGates) > 0 {
			fmt.Fprintf(&sb, "_%s_\n\n", joinPhases(n.PhaseGates, ", "))
		}
		for i, a := range n.Actions {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, markdownInline(a))
		}
		if len(n.Actions) > 0 {
			sb.WriteString("\n")
		}
		for _, e := range g.EdgesFrom(n.ID) {
			fmt.Fprintf(&sb, "- If **%s** → %s `→ %s`%s\n", e.OpponentReaction, markdownInline(e.MyResponse), e.ToID, priorityNote(e))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// QuizMarkdown renders the current quiz prompt.
func QuizMarkdown(seq *domain.Sequence, v *domain.QuizView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Quiz: %s\n\n", seq.Name)

	switch {
	case v.State == nil || v.State.Status == domain.QuizIdle:
		sb.WriteString("_Not started._\n")
		return sb.String()
	case v.State.Status == domain.QuizFinished:
		fmt.Fprintf(&sb, "_Quiz ended after %d positions._\n", len(v.State.History))
		return sb.String()
	}

	if v.Node != nil {
		title := v.Node.Label
		if title == "" {
			title = v.Node.ID
		}
		fmt.Fprintf(&sb, "## %s\n\n", title)
		for i, a := range v.Node.Actions {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, markdownInline(a))
		}
		sb.WriteString("\n")
	} else {
		fmt.Fprintf(&sb, "## `%s`\n\n", v.State.CurrentNodeID)
	}

	if v.State.Malformed {
		sb.WriteString("> Data warning: this position is referenced by an edge but does not exist.\n\n")
	}

	if v.Finisher {
		sb.WriteString("**Finish.** Sequence reached a finisher node.\n")
		return sb.String()
	}

	if v.Candidate != nil {
		fmt.Fprintf(&sb, "Opponent: **%s**\n\n", v.Candidate.OpponentReaction)
	}
	sb.WriteString("Your response:\n\n")
	for _, o := range v.Options {
		fmt.Fprintf(&sb, "%d. %s\n", o.Index+1, fragmentsMarkdown(o.Response))
	}
	return sb.String()
}

func markdownInline(text string) string {
	return fragmentsMarkdown(domain.RenderInlineEmphasis(text))
}

func fragmentsMarkdown(frags []domain.Fragment) string {
	var sb strings.Builder
	for _, f := range frags {
		if f.Emphasized {
			sb.WriteString("**" + f.Text + "**")
			continue
		}
		sb.WriteString(f.Text)
	}
	return sb.String()
}

func joinPhases(phases []domain.PhaseGate, sep string) string {
	parts := make([]string, len(phases))
	for i, p := range phases {
		parts[i] = string(p)
	}
	return strings.Join(parts, sep)
}

func priorityNote(e domain.Edge) string {
	if e.Priority == domain.PriorityNone {
		return ""
	}
	return fmt.Sprintf(" _(priority %s)_", e.Priority)
}
