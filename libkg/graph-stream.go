package libkg

import (
	"fmt"
	"io"
	"strings"

	"github.com/2x3systems/gokg/gokg"
	"github.com/plan-systems/klog"
)

type AddGraphOpts struct {
	AutoClose bool // if set and the target is an io.Closer, it is closed once the stream drains
}

// GraphStream is a stage in a pipeline of goroutines passing graphs along a channel.
type GraphStream struct {
	Outlet chan Graph
}

func NewGraphStream() *GraphStream {
	stream := &GraphStream{
		Outlet: make(chan Graph),
	}
	return stream
}

// EnumGraphs emits every candidate graph (see Graphs) accepted by opts.Filter, in generation order and without dedupe.
// If opts.ModuloSigns is set, every emitted graph has sign +1.
func EnumGraphs(opts GenerateOpts) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan Graph, 4),
	}

	go func() {
		count := 0
		walkCandidates(opts.Internal, opts.External, func(X Graph) bool {
			if opts.ModuloSigns {
				X.SetSign(1)
			}
			if opts.Filter == nil || opts.Filter(X) {
				count++
				next.Outlet <- X
			}
			return true
		})
		klog.V(2).Infof("enumerated %d graphs with %d internal and %d ground vertices", count, opts.Internal, opts.External)
		next.Close()
	}()

	return next
}

func StreamGraph(X Graph) *GraphStream {
	next := NewGraphStream()

	go func() {
		next.Outlet <- X
		next.Close()
	}()

	return next
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *GraphStream) PushGraph(X Graph) {
	stream.Outlet <- X
}

// PullGraph blocks until the next graph arrives, returning false once the stream is closed.
func (stream *GraphStream) PullGraph() (Graph, bool) {
	X, ok := <-stream.Outlet
	return X, ok
}

// PullAll drains the stream, returning the number of graphs pulled.
func (stream *GraphStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains the stream into a slice.
func (stream *GraphStream) Collect() []Graph {
	var all []Graph
	for X := range stream.Outlet {
		all = append(all, X)
	}
	return all
}

func (stream *GraphStream) Print(
	out io.WriteCloser,
	opts gokg.PrintOpts) *GraphStream {

	next := &GraphStream{
		Outlet: make(chan Graph, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for X := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
				buf.WriteByte(',')
			}

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			X.WriteAsString(&buf, opts)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- X
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo passes along only the graphs that target.TryAddGraph() accepts.
func (stream *GraphStream) AddTo(target gokg.GraphAdder, opts AddGraphOpts) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan Graph, 1),
	}

	go func() {
		for X := range stream.Outlet {
			if target.TryAddGraph(X) {
				next.Outlet <- X
			}
		}
		if opts.AutoClose {
			if closer, ok := target.(io.Closer); ok {
				closer.Close()
			}
		}
		next.Close()
	}()

	return next
}

// DropDupes passes along each distinct graph once.
func (stream *GraphStream) DropDupes(opts DropDupeOpts) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan Graph, 1),
	}

	go func() {
		var tryAdd func(X Graph) bool
		var cleanup func()
		if opts.UseLSM {
			set := NewCanonicSet()
			tryAdd, cleanup = set.TryAdd, set.Close
		} else {
			dd := NewDropDupes(opts).(*dropDupes)
			tryAdd = func(X Graph) bool { return dd.TryAddGraph(X) }
			cleanup = dd.Close
		}

		for X := range stream.Outlet {
			if tryAdd(X) {
				next.Outlet <- X
			}
		}
		cleanup()
		next.Close()
	}()

	return next
}

func (stream *GraphStream) Select(sel gokg.GraphSelector) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan Graph, 1),
	}

	go func() {
		for X := range stream.Outlet {
			if sel.SelectsGraph(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams the graphs of the catalog entries meeting sel, in catalog key order.
func SelectFromCatalog(cat gokg.Catalog, sel gokg.GraphSelector) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan Graph, 1),
	}

	onHit := make(chan *gokg.WeightRecord, 4)

	go func() {
		if err := cat.Select(sel, onHit); err != nil {
			klog.Warningf("catalog select failed: %v", err)
		}
		close(onHit)
	}()

	go func() {
		for rec := range onHit {
			X, err := ParseGraph(rec.Encoding)
			if err != nil {
				klog.Warningf("skipping catalog entry %q: %v", rec.Encoding, err)
				continue
			}
			if sel.SelectsGraph(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}
