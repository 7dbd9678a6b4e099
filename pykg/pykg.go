package pykg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/2x3systems/gokg/gokg"
	"github.com/2x3systems/gokg/libkg"
	"github.com/2x3systems/gokg/libkg/catalog"
	"github.com/2x3systems/gokg/libkg/coeff"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2024.1"
)

var (
	pyGraphType       = py.NewType("Graph", "a Kontsevich graph in canonical form")
	pyGraphStreamType = py.NewType("GraphStream", "libkg.GraphStream")
	pySeriesType      = py.NewType("Series", "a graph series in h with polynomial coefficients")
	pyCatalogType     = py.NewType("Catalog", "gokg.Catalog")
	pyWorkspaceType   = py.NewType("Workspace", "collects active session resources and catalogs")
)

// Series is the series type scripts work with.
type Series = libkg.GraphSeries[coeff.Poly]

/////////////////////////////////
// Graph

type pyGraph struct {
	libkg.Graph
}

func (X pyGraph) Type() *py.Type {
	return pyGraphType
}

func (X pyGraph) M__str__() (py.Object, error) {
	return py.String(X.Encoding()), nil
}

func (X pyGraph) M__repr__() (py.Object, error) {
	return X.M__str__()
}

// getGraph accepts a Graph object or a graph encoding string.
func getGraph(obj py.Object) (libkg.Graph, error) {
	switch v := obj.(type) {
	case pyGraph:
		return v.Graph, nil
	case py.String:
		X, err := libkg.ParseGraph(string(v))
		if err != nil {
			return X, py.ExceptionNewf(py.ValueError, "%v", err)
		}
		return X, nil
	}
	return libkg.Graph{}, py.ExceptionNewf(py.TypeError, "expected Graph object or encoding (got %v)", obj.Type().Name)
}

// Arg 1 (str): graph encoding, "external internal sign t0a t0b .."
func py_NewGraph(module py.Object, args py.Tuple) (py.Object, error) {
	var encoding string
	err := py.LoadTuple(args, []interface{}{&encoding})
	if err != nil {
		return nil, err
	}
	X, err := getGraph(py.String(encoding))
	if err != nil {
		return nil, err
	}
	return pyGraph{X}, nil
}

func py_Graph_Internal(self py.Object, args py.Tuple) (py.Object, error) {
	return py.Int(self.(pyGraph).Internal()), nil
}

func py_Graph_External(self py.Object, args py.Tuple) (py.Object, error) {
	return py.Int(self.(pyGraph).External()), nil
}

func py_Graph_Sign(self py.Object, args py.Tuple) (py.Object, error) {
	return py.Int(self.(pyGraph).Sign()), nil
}

func py_Graph_IsZero(self py.Object, args py.Tuple) (py.Object, error) {
	return py.NewBool(self.(pyGraph).IsZero()), nil
}

func py_Graph_IsPrime(self py.Object, args py.Tuple) (py.Object, error) {
	return py.NewBool(self.(pyGraph).IsPrime()), nil
}

func py_Graph_Multiplicity(self py.Object, args py.Tuple) (py.Object, error) {
	return py.Int(self.(pyGraph).Multiplicity()), nil
}

func py_Graph_InDegrees(self py.Object, args py.Tuple) (py.Object, error) {
	indeg := self.(pyGraph).InDegrees()
	tuple := make(py.Tuple, len(indeg))
	for i, d := range indeg {
		tuple[i] = py.Int(d)
	}
	return tuple, nil
}

func py_Graph_MirrorImage(self py.Object, args py.Tuple) (py.Object, error) {
	return pyGraph{self.(pyGraph).MirrorImage()}, nil
}

func py_Graph_Product(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph).Graph
	for _, arg := range args {
		Y, err := getGraph(arg)
		if err != nil {
			return nil, err
		}
		if Y.External() != X.External() {
			return nil, py.ExceptionNewf(py.ValueError, "%v", gokg.ErrArityMismatch)
		}
		X = X.Product(Y)
	}
	return pyGraph{X}, nil
}

func py_Graph_Stream(self py.Object, args py.Tuple) (py.Object, error) {
	next := libkg.StreamGraph(self.(pyGraph).Graph)
	return wrapGraphStream(next), nil
}

/////////////////////////////////
// Graph generation

func loadGenerateOpts(args py.Tuple, kwargs py.StringDict) (libkg.GenerateOpts, error) {
	var internal, external int32
	err := py.LoadTuple(args, []interface{}{&internal, &external})
	if err != nil {
		return libkg.GenerateOpts{}, err
	}
	if internal < 0 || internal > gokg.MaxInternal || external < 0 || int(internal+external) > gokg.MaxVertices {
		return libkg.GenerateOpts{}, py.ExceptionNewf(py.ValueError, "cannot generate graphs with %d internal and %d ground vertices", internal, external)
	}
	opts := libkg.GenerateOpts{
		Internal: int(internal),
		External: int(external),
	}
	py.LoadAttr(kwargs, "modulo_signs", &opts.ModuloSigns)
	py.LoadAttr(kwargs, "modulo_mirror", &opts.ModuloMirror)

	var primes, positive, nonzero bool
	py.LoadAttr(kwargs, "primes", &primes)
	py.LoadAttr(kwargs, "positive", &positive)
	py.LoadAttr(kwargs, "nonzero", &nonzero)
	if primes || positive || nonzero {
		opts.Filter = func(X libkg.Graph) bool {
			return (!primes || X.IsPrime()) && (!positive || X.PositiveDifferentialOrder()) && (!nonzero || !X.IsZero())
		}
	}
	return opts, nil
}

// Arg 1 (int): internal vertex count
// Arg 2 (int): external vertex count
func py_EnumGraphs(module py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	opts, err := loadGenerateOpts(args, kwargs)
	if err != nil {
		return nil, err
	}
	return wrapGraphStream(libkg.EnumGraphs(opts)), nil
}

// Same args as EnumGraphs; returns the ordered tuple of distinct graphs.
func py_Graphs(module py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	opts, err := loadGenerateOpts(args, kwargs)
	if err != nil {
		return nil, err
	}
	graphs := libkg.Graphs(opts)
	tuple := make(py.Tuple, len(graphs))
	for i, X := range graphs {
		tuple[i] = pyGraph{X}
	}
	return tuple, nil
}

/////////////////////////////////
// Series

type pySeries struct {
	*Series
}

func (s pySeries) Type() *py.Type {
	return pySeriesType
}

func (s pySeries) M__str__() (py.Object, error) {
	var buf strings.Builder
	s.WriteAsString(&buf, gokg.DefaultPrintOpts)
	return py.String(buf.String()), nil
}

func (s pySeries) M__repr__() (py.Object, error) {
	return s.M__str__()
}

func getSeries(obj py.Object) (*Series, error) {
	s, ok := obj.(pySeries)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Series object (got %v)", obj.Type().Name)
	}
	return s.Series, nil
}

func py_NewSeries(module py.Object, args py.Tuple) (py.Object, error) {
	return pySeries{libkg.NewGraphSeries[coeff.Poly]()}, nil
}

// Arg 1 (str): series text in the "h^n:" block format
func py_ParseSeries(module py.Object, args py.Tuple) (py.Object, error) {
	var text string
	err := py.LoadTuple(args, []interface{}{&text})
	if err != nil {
		return nil, err
	}
	s, err := libkg.ReadSeries(strings.NewReader(text), coeff.ParsePoly)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return pySeries{s}, nil
}

// Arg 1 (str): pathname of a series file
func py_ReadSeries(module py.Object, args py.Tuple) (py.Object, error) {
	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	file, err := os.Open(pathname)
	if err != nil {
		return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
	}
	defer file.Close()

	s, err := libkg.ReadSeries(file, coeff.ParsePoly)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return pySeries{s}, nil
}

// Args: order (int), graph (Graph or encoding), coefficient (str)
func py_Series_AddTerm(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(pySeries)
	if len(args) != 3 {
		return nil, py.ExceptionNewf(py.TypeError, "AddTerm() takes an order, a graph, and a coefficient")
	}
	order, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	X, err := getGraph(args[1])
	if err != nil {
		return nil, err
	}
	c, err := coeff.ParsePoly(fmt.Sprint(args[2]))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	if int(order) < 0 || int(order) > s.Precision() {
		return nil, py.ExceptionNewf(py.ValueError, "order %d is outside of the series precision", order)
	}
	s.At(int(order)).AddTerm(c, X)
	return s, nil
}

func py_Series_Reduce(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(pySeries)
	s.Reduce()
	return s, nil
}

func py_Series_ReduceModSkew(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(pySeries)
	s.ReduceModSkew()
	return s, nil
}

func py_Series_SkewSymmetrization(self py.Object, args py.Tuple) (py.Object, error) {
	return pySeries{self.(pySeries).SkewSymmetrization()}, nil
}

func py_Series_Precision(self py.Object, args py.Tuple) (py.Object, error) {
	return py.Int(self.(pySeries).Precision()), nil
}

func py_Series_SetPrecision(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(pySeries)
	var precision int32
	err := py.LoadTuple(args, []interface{}{&precision})
	if err != nil {
		return nil, err
	}
	if precision < 0 {
		return nil, py.ExceptionNewf(py.ValueError, "negative precision %d", precision)
	}
	s.SetPrecision(int(precision))
	return s, nil
}

func py_Series_IsZero(self py.Object, args py.Tuple) (py.Object, error) {
	return py.NewBool(self.(pySeries).IsZero()), nil
}

func py_Series_Plus(self py.Object, args py.Tuple) (py.Object, error) {
	return combineSeries(self, args, (*Series).Plus)
}

func py_Series_Minus(self py.Object, args py.Tuple) (py.Object, error) {
	return combineSeries(self, args, (*Series).Minus)
}

func combineSeries(self py.Object, args py.Tuple, op func(s, t *Series) *Series) (py.Object, error) {
	s := self.(pySeries).Clone()
	for _, arg := range args {
		t, err := getSeries(arg)
		if err != nil {
			return nil, err
		}
		op(s, t)
	}
	return pySeries{s}, nil
}

// Composes this series with one series per ground slot; kwarg "precision" bounds the result.
func py_Series_Compose(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	s := self.(pySeries)
	operands := make([]*Series, len(args))
	for i, arg := range args {
		A, err := getSeries(arg)
		if err != nil {
			return nil, err
		}
		operands[i] = A
	}
	for _, order := range s.Orders() {
		S, _ := s.Get(order)
		for _, t := range S.Terms() {
			if t.Graph.External() != len(operands) {
				return nil, py.ExceptionNewf(py.ValueError, "%v: %v takes %d arguments", gokg.ErrArityMismatch, t.Graph, t.Graph.External())
			}
		}
	}

	precision := int32(libkg.Unbounded)
	py.LoadAttr(kwargs, "precision", &precision)

	out := s.Compose(operands, int(precision))
	out.Reduce()
	return pySeries{out}, nil
}

func py_Series_Inverse(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(pySeries)
	precision := int32(libkg.Unbounded)
	if len(args) > 0 {
		if err := py.LoadTuple(args, []interface{}{&precision}); err != nil {
			return nil, err
		}
	}
	inv, err := s.Inverse(int(precision))
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return pySeries{inv}, nil
}

func py_Series_GaugeTransform(self py.Object, args py.Tuple) (py.Object, error) {
	s := self.(pySeries)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "GaugeTransform() takes one Series")
	}
	T, err := getSeries(args[0])
	if err != nil {
		return nil, err
	}
	out, err := s.GaugeTransform(T)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return pySeries{out}, nil
}

// Writes this series to stdout or, with kwarg "file", to the given pathname.  Kwarg "indegrees" groups each order by in-degrees.
func py_Series_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	s := self.(pySeries)
	opts := gokg.DefaultPrintOpts
	py.LoadAttr(kwargs, "indegrees", &opts.InDegrees)

	var pathname string
	py.LoadAttr(kwargs, "file", &pathname)
	out, err := openOutput(pathname)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if err := libkg.WriteSeries(out, s.Series, opts); err != nil {
		return nil, py.ExceptionNewf(py.OSError, "%v", err)
	}
	return py.None, nil
}

// Args: A (Series), B (Series)
func py_GerstenhaberBracket(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 2 {
		return nil, py.ExceptionNewf(py.TypeError, "GerstenhaberBracket() takes two Series")
	}
	A, err := getSeries(args[0])
	if err != nil {
		return nil, err
	}
	B, err := getSeries(args[1])
	if err != nil {
		return nil, err
	}
	return pySeries{libkg.GerstenhaberBracket(A, B)}, nil
}

// Args: weights (Series holding weighted primes at each order), order (int)
func py_StarProduct(module py.Object, args py.Tuple) (py.Object, error) {
	if len(args) != 2 {
		return nil, py.ExceptionNewf(py.TypeError, "StarProduct() takes a weight Series and an order")
	}
	weights, err := getSeries(args[0])
	if err != nil {
		return nil, err
	}
	order, err := py.GetInt(args[1])
	if err != nil {
		return nil, err
	}
	if order < 0 {
		return nil, py.ExceptionNewf(py.ValueError, "negative order %d", order)
	}
	star := libkg.StarProduct(libkg.LoadWeights(weights), int(order))
	star.Reduce()
	return pySeries{star}, nil
}

/////////////////////////////////
// Workspace & Catalog

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx gokg.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: gokg.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

// Arg 1 (str): catalog pathname ("" for an in-memory catalog)
// Arg 2 (int): flags (READ_ONLY)
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := gokg.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return pyCatalog{cat}, nil
}

type pyCatalog struct {
	gokg.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if err := cat.Close(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.None, nil
}

func py_Catalog_Select(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	cat := self.(pyCatalog)
	sel := getGraphSelector(kwargs)
	next := libkg.SelectFromCatalog(cat, sel)
	return wrapGraphStream(next), nil
}

func py_Catalog_NumGraphs(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "NumGraphs() takes an internal vertex count")
	}
	n, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 || n > 255 {
		return py.Int(0), nil
	}
	return py.Int(cat.NumGraphs(byte(n))), nil
}

// Args: graph (Graph or encoding), weight (str)
func py_Catalog_PutWeight(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if len(args) != 2 {
		return nil, py.ExceptionNewf(py.TypeError, "PutWeight() takes a graph and a weight")
	}
	X, err := getGraph(args[0])
	if err != nil {
		return nil, err
	}
	weight := fmt.Sprint(args[1])
	if _, err = coeff.ParsePoly(weight); err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	if err = cat.PutWeight(X, weight); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.None, nil
}

func py_Catalog_Weight(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Weight() takes a graph")
	}
	X, err := getGraph(args[0])
	if err != nil {
		return nil, err
	}
	weight, err := cat.Weight(X)
	if errors.Is(err, gokg.ErrNotFound) {
		return py.None, nil
	}
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.String(weight), nil
}

// Arg 1 (int): order
func py_Catalog_StarProduct(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	var order int32
	err := py.LoadTuple(args, []interface{}{&order})
	if err != nil {
		return nil, err
	}
	tbl, err := libkg.LoadCatalogWeights(cat, coeff.ParsePoly)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	star := libkg.StarProduct(tbl, int(order))
	star.Reduce()
	return pySeries{star}, nil
}

/////////////////////////////////
// GraphStream

type graphStream struct {
	*libkg.GraphStream
}

func (stream graphStream) Type() *py.Type {
	return pyGraphStreamType
}

func wrapGraphStream(stream *libkg.GraphStream) py.Object {
	return py.Object(graphStream{stream})
}

func py_GraphStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	if echo.to == nil {
		return echo.stdout.Write(buf)
	}
	return echo.to.Write(buf)
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

func openOutput(pathname string) (io.WriteCloser, error) {
	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}
	return writer, nil
}

var gOutCount = int32(0)

// Kwargs: label (str), file (str), multiplicity (bool), prime (bool), indegrees (bool)
func py_GraphStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(graphStream)
	var pathname string

	opts := gokg.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	// TODO: move the output counter into the Workspace so labels restart with each session
	count := atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", count)
	}

	py.LoadAttr(kwargs, "multiplicity", &opts.Multiplicity)
	py.LoadAttr(kwargs, "prime", &opts.Prime)
	py.LoadAttr(kwargs, "indegrees", &opts.InDegrees)
	py.LoadAttr(kwargs, "file", &pathname)

	writer, err := openOutput(pathname)
	if err != nil {
		return nil, err
	}

	next := stream.Print(writer, opts)
	return wrapGraphStream(next), nil
}

func py_GraphStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "AddTo() takes a Catalog")
	}
	cat, ok := args[0].(pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Catalog object (got %v)", args[0].Type().Name)
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", errors.New("catalog is in read-only mode"))
	}

	next := stream.AddTo(cat, libkg.AddGraphOpts{})
	return wrapGraphStream(next), nil
}

// Kwarg "lsm" keeps seen graphs in an in-memory badger db instead of a hash map.
func py_GraphStream_DropDupes(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(graphStream)
	opts := libkg.DropDupeOpts{}
	py.LoadAttr(kwargs, "lsm", &opts.UseLSM)
	next := stream.DropDupes(opts)
	return wrapGraphStream(next), nil
}

func py_GraphStream_Select(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(graphStream)
	next := stream.Select(getGraphSelector(kwargs))
	return wrapGraphStream(next), nil
}

// getGraphSelector reads kwargs min_internal, max_internal, external, primes, positive, nonzero.
func getGraphSelector(kwargs py.StringDict) gokg.GraphSelector {
	sel := gokg.DefaultGraphSelector

	var minInternal, maxInternal, external int32
	maxInternal = int32(sel.MaxInternal)
	py.LoadAttr(kwargs, "min_internal", &minInternal)
	py.LoadAttr(kwargs, "max_internal", &maxInternal)
	py.LoadAttr(kwargs, "external", &external)
	sel.MinInternal = int(minInternal)
	sel.MaxInternal = int(maxInternal)
	sel.External = int(external)

	py.LoadAttr(kwargs, "primes", &sel.PrimesOnly)
	py.LoadAttr(kwargs, "positive", &sel.PositiveOnly)
	py.LoadAttr(kwargs, "nonzero", &sel.NonZeroOnly)
	return sel
}

func init() {

	/////////////////////////////////
	// Graph
	{
		pyGraphType.Dict["Internal"] = py.MustNewMethod("Internal", py_Graph_Internal, 0, "number of internal vertices")
		pyGraphType.Dict["External"] = py.MustNewMethod("External", py_Graph_External, 0, "number of ground vertices")
		pyGraphType.Dict["Sign"] = py.MustNewMethod("Sign", py_Graph_Sign, 0, "sign of the canonical form (-1, 0, or 1)")
		pyGraphType.Dict["IsZero"] = py.MustNewMethod("IsZero", py_Graph_IsZero, 0, "")
		pyGraphType.Dict["IsPrime"] = py.MustNewMethod("IsPrime", py_Graph_IsPrime, 0, "")
		pyGraphType.Dict["Multiplicity"] = py.MustNewMethod("Multiplicity", py_Graph_Multiplicity, 0, "number of labelled graphs in this isomorphism class")
		pyGraphType.Dict["InDegrees"] = py.MustNewMethod("InDegrees", py_Graph_InDegrees, 0, "edges landing on each ground vertex")
		pyGraphType.Dict["MirrorImage"] = py.MustNewMethod("MirrorImage", py_Graph_MirrorImage, 0, "")
		pyGraphType.Dict["Product"] = py.MustNewMethod("Product", py_Graph_Product, 0, "juxtaposes graphs over the same ground vertices")
		pyGraphType.Dict["Stream"] = py.MustNewMethod("Stream", py_Graph_Stream, 0, "")
	}

	/////////////////////////////////
	// Series
	{
		pySeriesType.Dict["AddTerm"] = py.MustNewMethod("AddTerm", py_Series_AddTerm, 0, "")
		pySeriesType.Dict["Reduce"] = py.MustNewMethod("Reduce", py_Series_Reduce, 0, "")
		pySeriesType.Dict["ReduceModSkew"] = py.MustNewMethod("ReduceModSkew", py_Series_ReduceModSkew, 0, "")
		pySeriesType.Dict["SkewSymmetrization"] = py.MustNewMethod("SkewSymmetrization", py_Series_SkewSymmetrization, 0, "")
		pySeriesType.Dict["Precision"] = py.MustNewMethod("Precision", py_Series_Precision, 0, "")
		pySeriesType.Dict["SetPrecision"] = py.MustNewMethod("SetPrecision", py_Series_SetPrecision, 0, "")
		pySeriesType.Dict["IsZero"] = py.MustNewMethod("IsZero", py_Series_IsZero, 0, "")
		pySeriesType.Dict["Plus"] = py.MustNewMethod("Plus", py_Series_Plus, 0, "")
		pySeriesType.Dict["Minus"] = py.MustNewMethod("Minus", py_Series_Minus, 0, "")
		pySeriesType.Dict["Compose"] = py.MustNewMethod("Compose", py_Series_Compose, 0, "composes with one Series per ground vertex")
		pySeriesType.Dict["Inverse"] = py.MustNewMethod("Inverse", py_Series_Inverse, 0, "")
		pySeriesType.Dict["GaugeTransform"] = py.MustNewMethod("GaugeTransform", py_Series_GaugeTransform, 0, "")
		pySeriesType.Dict["Print"] = py.MustNewMethod("Print", py_Series_Print, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "")
		pyCatalogType.Dict["NumGraphs"] = py.MustNewMethod("NumGraphs", py_Catalog_NumGraphs, 0, "")
		pyCatalogType.Dict["PutWeight"] = py.MustNewMethod("PutWeight", py_Catalog_PutWeight, 0, "")
		pyCatalogType.Dict["Weight"] = py.MustNewMethod("Weight", py_Catalog_Weight, 0, "")
		pyCatalogType.Dict["StarProduct"] = py.MustNewMethod("StarProduct", py_Catalog_StarProduct, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// GraphStream
	{
		pyGraphStreamType.Dict["Go"] = py.MustNewMethod("Go", py_GraphStream_Go, 0, "counts the number of graphs output from the GraphStream")
		pyGraphStreamType.Dict["Print"] = py.MustNewMethod("Print", py_GraphStream_Print, 0, "prints each graph from the GraphStream")
		pyGraphStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_GraphStream_AddTo, 0, "")
		pyGraphStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_GraphStream_DropDupes, 0, "")
		pyGraphStreamType.Dict["Select"] = py.MustNewMethod("Select", py_GraphStream_Select, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("NewGraph", py_NewGraph, 0, ""),
			py.MustNewMethod("EnumGraphs", py_EnumGraphs, 0, ""),
			py.MustNewMethod("Graphs", py_Graphs, 0, ""),
			py.MustNewMethod("NewSeries", py_NewSeries, 0, ""),
			py.MustNewMethod("ParseSeries", py_ParseSeries, 0, ""),
			py.MustNewMethod("ReadSeries", py_ReadSeries, 0, ""),
			py.MustNewMethod("GerstenhaberBracket", py_GerstenhaberBracket, 0, ""),
			py.MustNewMethod("StarProduct", py_StarProduct, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION":  py.String(LIB_VERSION),
			"PY_VERSION":   py.String("v3.4.0"),
			"MAX_INTERNAL": py.Int(gokg.MaxInternal),
			"READ_ONLY":    py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_gokg",
				Doc:  "Kontsevich graph algebra gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
