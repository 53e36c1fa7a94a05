/*
Package dsl provides a fluent builder for constructing sequences in Go code.

It is an alternative to authoring sequence documents in Markdown, JSON or YAML,
useful for fixtures, generated drills and tests.

Example usage:

	b := dsl.New("Half-Butterfly Sweep").Tags("guard", "half butterfly")

	b.Node("HUB").
		Label("Half-butterfly hub").
		Hub().
		Actions("**Underhook** first", "Elbow inside knee")

	b.Node("B1").Label("Chest-to-chest")
	b.Node("SIDE").Label("Side control")

	b.Node("HUB").On("Frames on the neck", "Shrimp **out**").To("B1").Weight(3)
	b.Node("HUB").On("Turns away", "Take the back").To("SIDE").Priority(domain.PriorityA)

	// As a document for a store...
	seq := b.Sequence()

	// ...or as a read-only ports.SequenceSource.
	loader, err := b.Build()
*/
package dsl
