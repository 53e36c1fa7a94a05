/*
Package domain contains the core models of the Tatami study library.

It defines technique sequences (a directed graph of positions and
opponent-reaction/response transitions), the state of an interactive quiz
over such a graph, and the curriculum records that group techniques into
lessons. The package is pure: no I/O, no persistence, no globals.

# Key Entities

  - Sequence: a named graph of Nodes and Edges, stored embedded in one document.
  - Node: a position in the graph. A node flagged IsHub is where quizzes start.
  - Edge: "opponent does X, I respond with Y", with an optional frequency weight.
  - Graph: an indexed, read-only view of a Sequence used by the quiz runtime.
  - QuizState: the snapshot of a quiz session (current node, presented reaction).

Persisted documents may use legacy field names (cues, cues_global). They are
folded into the canonical shape exactly once, by DecodeRaw/Canonicalize.
*/
package domain
