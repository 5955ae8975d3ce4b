/*
Package domain contains the core models of the cortex brain.

It defines the entities shared by the store, the classifier, the signal bus and
every adapter. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Region: A named semantic area of the brain with a spatial anchor and classification keywords.
  - Node: A concept ("neuron") placed inside a region, reinforced every time it is mentioned again.
  - Link: A directional, typed relation ("synapse") between two concept ids.
  - Signal: A short-lived travel animation between two region anchors.
  - Snapshot: An immutable copy of the graph handed to observers.
  - ExtractionResult: The structured output of the external entity/relation extractor.
*/
package domain
