package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/tatami/pkg/domain"
	playground "github.com/go-playground/validator/v10"
)

var validate = playground.New()

// ShapeError lists the structural problems that make a sequence unstorable.
type ShapeError struct {
	Problems []string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid sequence: %s", strings.Join(e.Problems, "; "))
}

// ValidateShape checks field-level rules (sequence id and name, phase and
// priority enums, storage mode). These are hard failures.
func ValidateShape(seq *domain.Sequence) error {
	if seq == nil {
		return &ShapeError{Problems: []string{"sequence is nil"}}
	}
	err := validate.Struct(seq)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate sequence: %w", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return &ShapeError{Problems: problems}
}

// ValidateStruct runs the tag rules of any record (curricula, lessons, techniques).
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var fieldErrs playground.ValidationErrors
		if errors.As(err, &fieldErrs) {
			problems := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				problems = append(problems, describe(fe))
			}
			return &ShapeError{Problems: problems}
		}
		return err
	}
	return nil
}

func describe(fe playground.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Sequence.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s %q must be one of [%s]", field, fe.Value(), fe.Param())
	case "eq":
		return fmt.Sprintf("%s %q must be %q", field, fe.Value(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s must be %s %s", field, map[string]string{"min": ">=", "max": "<="}[fe.Tag()], fe.Param())
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

// Report collects data-quality warnings. None of them block storage.
type Report struct {
	References   *domain.ReferenceErrors
	Unreachable  []string
	DuplicateIDs []string
	Hubs         []string
}

// Clean reports whether there is nothing to warn about.
func (r *Report) Clean() bool {
	return r.References == nil && len(r.Unreachable) == 0 && len(r.DuplicateIDs) == 0 && len(r.Hubs) <= 1
}

// Warnings renders the report as human-readable lines.
func (r *Report) Warnings() []string {
	var out []string
	if r.References != nil {
		for _, e := range r.References.Errors {
			out = append(out, e.Error())
		}
	}
	for _, id := range r.DuplicateIDs {
		out = append(out, fmt.Sprintf("node id %q is used more than once", id))
	}
	if len(r.Hubs) > 1 {
		out = append(out, fmt.Sprintf("%d nodes are flagged as hub: %s", len(r.Hubs), strings.Join(r.Hubs, ", ")))
	}
	for _, id := range r.Unreachable {
		out = append(out, fmt.Sprintf("node %q is not reachable from the hub", id))
	}
	return out
}

// Lint inspects references, duplicate ids, hub flags and reachability from the hub.
func Lint(seq *domain.Sequence) *Report {
	report := &Report{References: domain.CheckReferences(seq)}

	seen := make(map[string]bool, len(seq.Nodes))
	for _, n := range seq.Nodes {
		if seen[n.ID] {
			report.DuplicateIDs = append(report.DuplicateIDs, n.ID)
		}
		seen[n.ID] = true
		if n.IsHub {
			report.Hubs = append(report.Hubs, n.ID)
		}
	}

	g := domain.NewGraph(seq)
	hub, err := g.Hub()
	if err != nil {
		return report
	}

	visited := map[string]bool{}
	queue := []string{hub.ID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, e := range g.EdgesFrom(current) {
			if !visited[e.ToID] {
				queue = append(queue, e.ToID)
			}
		}
	}

	for _, n := range seq.Nodes {
		if !visited[n.ID] && !contains(report.Unreachable, n.ID) {
			report.Unreachable = append(report.Unreachable, n.ID)
		}
	}
	return report
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
