/*
Package observability provides Prometheus metrics for the cortex brain.

Metrics plug into the brain twice: as lifecycle hooks, counting concept, relation
and signal events plus tick durations, and as a snapshot observer, tracking the
size of the graph. Both run synchronously inside brain mutations and never block.
*/
package observability
