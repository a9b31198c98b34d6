// Package state pairs a snapshot store with the filters partition engine:
// load a named state tree, flatten it, and split it into disjoint groups
// with an ordered filter list. The Store interface is the integration
// surface for persistence adapters; MemoryStore covers tests and examples.
package state
