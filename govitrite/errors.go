package govitrite

import "errors"

// Errors
var (
	ErrUnmarshal         = errors.New("unmarshal failed")
	ErrBadCatalogParam   = errors.New("bad catalog param")
	ErrNilGraph          = errors.New("nil graph")
	ErrInvalidGraph      = errors.New("invalid graph")
	ErrSelfLoop          = errors.New("invalid graph: self-loop")
	ErrMultiEdge         = errors.New("invalid graph: parallel edge")
	ErrBadNodeID         = errors.New("bad node ID")
	ErrBadCycleSize      = errors.New("cycle size must be at least 3")
	ErrEnumLimit         = errors.New("enumeration limit exceeded")
	ErrHullInconsistency = errors.New("cycle references nodes absent from graph")
	ErrBadSimplexKind    = errors.New("bad simplex kind")
)
