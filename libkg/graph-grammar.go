package libkg

import (
	"github.com/2x3systems/gokg/gokg"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// GraphExpr is the parsed form of a graph encoding: "external internal sign t0a t0b t1a t1b ..."
type GraphExpr struct {
	External int   `@Int`
	Internal int   `@Int`
	Sign     int   `@Int`
	Targets  []int `@Int*`
}

var sGraphLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[-+]?\d+`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

var parseGraphExpr = participle.MustBuild[GraphExpr](
	participle.Lexer(sGraphLexer),
)

// ParseGraph reads a graph encoding and returns its canonical form.
func ParseGraph(encoding string) (Graph, error) {
	expr, err := parseGraphExpr.ParseString("", encoding)
	if err != nil {
		return Graph{}, errors.Wrap(gokg.ErrBadEncoding, err.Error())
	}
	return expr.Graph()
}

// Graph validates the parsed encoding and returns its canonical form.
func (expr *GraphExpr) Graph() (Graph, error) {
	if expr.External < 0 || expr.Internal < 0 || expr.Internal > gokg.MaxInternal || expr.External+expr.Internal > gokg.MaxVertices {
		return Graph{}, errors.Wrapf(gokg.ErrBadEncoding, "unsupported vertex counts (external %d, internal %d)", expr.External, expr.Internal)
	}
	if expr.Sign < -1 || expr.Sign > 1 {
		return Graph{}, errors.Wrapf(gokg.ErrBadEncoding, "bad sign %d", expr.Sign)
	}
	if len(expr.Targets) != 2*expr.Internal {
		return Graph{}, errors.Wrapf(gokg.ErrBadEncoding, "expected %d targets, got %d", 2*expr.Internal, len(expr.Targets))
	}

	Nv := expr.External + expr.Internal
	targets := make([]VertexPair, expr.Internal)
	for i, v := range expr.Targets {
		if v < 0 || v >= Nv {
			return Graph{}, errors.Wrapf(gokg.ErrBadVtxID, "target %d is not a vertex of a graph with %d vertices", v, Nv)
		}
		targets[i/2][i%2] = Vertex(v)
	}
	return NewSignedGraph(expr.Internal, expr.External, targets, expr.Sign), nil
}
