package gokg

import (
	"io"
)

const (

	// MaxVertices is the max number of vertices (external plus internal) a Graph can have, since a vertex label is a byte.
	MaxVertices = 255

	// MaxInternal is the largest internal vertex count a Graph can have.
	MaxInternal = 16

	// CatalogMajorVers and CatalogMinorVers identify the on-disk weight catalog format.
	CatalogMajorVers = 2024
	CatalogMinorVers = 1
)

// GraphState is the read-only view of a canonical Kontsevich graph that catalogs, selectors, and printers operate on.
type GraphState interface {
	Internal() int
	External() int
	Sign() int

	IsZero() bool
	IsPrime() bool
	PositiveDifferentialOrder() bool
	Multiplicity() int64

	// AppendKey appends the canonical unsigned binary key of this graph: internal, external, then each target pair.
	AppendKey(key []byte) []byte

	// AppendEncoding appends the text encoding "external internal sign t0a t0b ..."
	AppendEncoding(out []byte) []byte

	WriteAsString(out io.Writer, opts PrintOpts)
}

// OnWeightHit is a callback channel used to return catalog entries meeting a set of selection criteria.
type OnWeightHit chan<- *WeightRecord

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a weight Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

type GraphAdder interface {

	// Tries to add the given graph to this container.
	// If true is returned, X did not exist and was added.
	TryAddGraph(X GraphState) bool
}

// Catalog wraps a database of Kontsevich graphs and their weights.
type Catalog interface {
	GraphAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// PutWeight stores (or replaces) the weight expression for the given graph.
	PutWeight(X GraphState, weight string) error

	// Weight returns the weight expression stored for X.
	// If X has not been added, ErrNotFound is returned.
	Weight(X GraphState) (string, error)

	// NumGraphs returns the number of graphs in this catalog for a given internal vertex count.
	// An out of bounds count returns 0.
	NumGraphs(forInternal byte) int64

	// Select sends each entry that meets the selection criteria to onHit, in key order, and returns once all hits are sent.
	Select(sel GraphSelector, onHit OnWeightHit) error

	Close() error
}

// GraphSelector is an operator that either selects a given Graph or not.
type GraphSelector struct {
	MinInternal  int  // lower internal vertex count bound
	MaxInternal  int  // upper internal vertex count bound (0 denotes MaxInternal)
	External     int  // if non-zero, only graphs with this many external vertices are selected
	PrimesOnly   bool // Only select prime graphs
	PositiveOnly bool // Only select graphs where every external vertex is differentiated
	NonZeroOnly  bool // Drop graphs that vanish by symmetry
}

// DefaultGraphSelector selects all graphs.
var DefaultGraphSelector = GraphSelector{
	MaxInternal: MaxInternal,
}

// SelectsGraph is a convenience function used to see if a Graph is selected according to a GraphSelector.
func (sel *GraphSelector) SelectsGraph(X GraphState) bool {
	maxInternal := sel.MaxInternal
	if maxInternal <= 0 {
		maxInternal = MaxInternal
	}
	if n := X.Internal(); n < sel.MinInternal || n > maxInternal {
		return false
	}
	if sel.External > 0 && X.External() != sel.External {
		return false
	}
	if sel.PrimesOnly && !X.IsPrime() {
		return false
	}
	if sel.PositiveOnly && !X.PositiveDifferentialOrder() {
		return false
	}
	if sel.NonZeroOnly && X.IsZero() {
		return false
	}
	return true
}

// PrintOpts specifies what is printed when printing a graph
type PrintOpts struct {
	Label        string // Prefix label
	Encoding     bool   // If set, prints the graph encoding
	Multiplicity bool   // If set, prints the multiplicity of the graph
	Prime        bool   // If set, prints whether the graph is prime
	InDegrees    bool   // If set, prints (and groups series output by) external in-degrees
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Encoding: true,
}
