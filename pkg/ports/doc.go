/*
Package ports defines the driving ports (interfaces) of the cortex brain.

These interfaces decouple the adapters from the core, so the HTTP and MCP servers
can be tested against any implementation.

# Key Interfaces

  - Ingester: integrates extraction results and activates concepts.
  - Signaller: starts signals travelling between regions.
  - Reader: snapshots, subscriptions and the memory context.
*/
package ports
