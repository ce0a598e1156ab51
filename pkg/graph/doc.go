// Package graph is the reference-tracked object graph underneath every
// trellis document.
//
// A Graph registers the Links of one document. Each Link is a named,
// directed edge from a parent node (the owner) to a child node (the
// resource) and may carry Metadata. Nodes embed NodeBase, declare their
// attributes once at construction (literal, single ref, ref list, ref map,
// or owned), and read and write them through accessors that create and
// dispose Links. Disposing a node severs every edge touching it; detaching a
// node severs only its inbound edges.
//
// The package is single-writer and synchronous. It performs no I/O and no
// locking; a document must not be shared between goroutines without
// external synchronisation.
package graph
