package gokg

import "errors"

// Errors
var (
	ErrUnmarshal       = errors.New("unmarshal failed")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrBadEncoding     = errors.New("bad graph encoding")
	ErrBadVtxID        = errors.New("bad graph vertex ID")
	ErrArityMismatch   = errors.New("argument count does not match external vertex count")
	ErrBadCoeff        = errors.New("bad coefficient expression")
	ErrBadSeries       = errors.New("bad graph series")
	ErrNotFound        = errors.New("graph not found")
	ErrNilGraph        = errors.New("nil graph")
)
