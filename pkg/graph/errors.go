package graph

import "errors"

var (
	// ErrCrossGraph is returned when an edge would join nodes that belong to
	// different graphs.
	ErrCrossGraph = errors.New("nodes belong to different graphs")

	// ErrImmutable is returned when reassigning an owned reference.
	ErrImmutable = errors.New("cannot overwrite immutable attribute")

	// ErrNilNode is returned when a node argument is required but nil.
	ErrNilNode = errors.New("node is nil")
)
