package pykg

import (
	"testing"

	"github.com/go-python/gpython/py"
	_ "github.com/go-python/gpython/stdlib"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, src string) {
	ctx := py.NewContext(py.DefaultContextOpts())
	defer func() {
		ctx.Close()
		<-ctx.Done()
	}()

	_, err := py.RunSrc(ctx, src, "<test>", nil)
	if err != nil {
		py.TracebackDump(err)
	}
	require.NoError(t, err)
}

func TestGraphs(t *testing.T) {
	runScript(t, `
import _gokg as kg

g = kg.NewGraph("2 2 1   0 1 0 2")
assert g.Internal() == 2
assert g.External() == 2
assert g.Sign() == 1
assert g.IsPrime()
assert g.InDegrees() == (2, 1)

z = kg.NewGraph("2 3 1   3 4 0 1 0 1")
assert z.IsZero()
assert z.Multiplicity() == 24

wedge = kg.NewGraph("2 1 1   0 1")
assert not wedge.Product(wedge).IsPrime()
assert wedge.Product(wedge).Multiplicity() == 4

total = 0
for X in kg.Graphs(2, 2, modulo_signs=True):
    total += X.Multiplicity()
assert total == 36
`)
}

func TestSeries(t *testing.T) {
	runScript(t, `
import _gokg as kg

m = kg.ParseSeries("""
h^0:
2 0 1    1
""")
assert kg.GerstenhaberBracket(m, m).IsZero()

weights = kg.ParseSeries("""
h^1:
2 1 1   0 1    1/2
""")
star = kg.StarProduct(weights, 2)
assert star.Precision() == 2
assert not star.IsZero()

ident = kg.ParseSeries("""
h^0:
1 0 1    1
""")
assert star.Compose(ident, ident).Minus(star).IsZero()
assert ident.Inverse(3).Minus(ident).IsZero()
`)
}

func TestCatalog(t *testing.T) {
	runScript(t, `
import _gokg as kg

ws = kg.GetWorkspace()
cat = ws.OpenCatalog("", 0)
n = kg.EnumGraphs(1, 2, modulo_signs=True).AddTo(cat).Go()
assert n == cat.NumGraphs(1)

cat.PutWeight("2 1 1   0 1", "1/2")
assert cat.Weight("2 1 1   0 1") == "1/2"
assert cat.Weight("3 1 1   0 1") == None
assert cat.Select(primes=True).Go() == n

star = cat.StarProduct(1)
assert star.Precision() == 1
cat.Close()
`)
}
