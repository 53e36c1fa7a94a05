/*
Package ports defines the driven ports (interfaces) of the Tatami library.

These interfaces decouple the sequence graph and quiz runtime from external
implementations, so the same library works over memory, SQLite, Redis or an
authoring directory on disk.

# Key Interfaces

  - SequenceStore: persists whole sequence documents (last writer wins).
  - SequenceSource: a read-only supplier of sequence snapshots (e.g. a Loam directory).
  - Watchable: a source or store that can push change notifications.
  - SessionStore: persists quiz session state.
  - CurriculumStore: persists curricula, lessons and techniques.
  - DistributedLocker: serializes access to a quiz session across replicas.
  - SequenceService, QuizService: what driving adapters (HTTP, MCP) consume.

Each store interface ships with a Run*Contract suite that adapters run in their tests.
*/
package ports
