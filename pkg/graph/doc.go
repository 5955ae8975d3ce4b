/*
Package graph holds the canonical concept graph of the brain.

It provides three collaborating pieces:

  - Store: the nodes and links, with insertion-with-reinforcement and idempotent linking.
  - ActivationEngine: fixed-rate decay of activation levels, driven by an external scheduler.
  - Hub: synchronous, ordered fan-out of immutable snapshots to observers.

None of these types lock internally. The owner (cortex.Brain) serializes every
mutation behind a single mutex, because decay and integration read-modify-write
the same collections.
*/
package graph
