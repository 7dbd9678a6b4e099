package coeff

import (
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/2x3systems/gokg/gokg"
	"github.com/pkg/errors"
)

// Poly is a polynomial with rational coefficients in named symbols such as w_4_1.  The zero value is 0.
//
// Values are immutable: every operation returns a new Poly.
type Poly struct {
	terms map[string]monoTerm // monomial key => term
}

type symPow struct {
	sym string
	exp int
}

// monomial is a product of symbol powers, sorted by symbol with positive exponents.
type monomial []symPow

type monoTerm struct {
	mono  monomial
	coeff *big.Rat // never 0
}

func (m monomial) key() string {
	var b strings.Builder
	for i, f := range m {
		if i > 0 {
			b.WriteByte('*')
		}
		b.WriteString(f.sym)
		if f.exp != 1 {
			b.WriteByte('^')
			b.WriteString(strconv.Itoa(f.exp))
		}
	}
	return b.String()
}

func (m monomial) degree() int {
	deg := 0
	for _, f := range m {
		deg += f.exp
	}
	return deg
}

func (m monomial) mul(n monomial) monomial {
	prod := make(monomial, 0, len(m)+len(n))
	i, j := 0, 0
	for i < len(m) && j < len(n) {
		switch {
		case m[i].sym < n[j].sym:
			prod = append(prod, m[i])
			i++
		case m[i].sym > n[j].sym:
			prod = append(prod, n[j])
			j++
		default:
			prod = append(prod, symPow{sym: m[i].sym, exp: m[i].exp + n[j].exp})
			i++
			j++
		}
	}
	prod = append(prod, m[i:]...)
	return append(prod, n[j:]...)
}

// precedes orders monomials of equal degree lexicographically, a^2 before a*b before b^2.
func (m monomial) precedes(n monomial) bool {
	for i := 0; i < len(m) && i < len(n); i++ {
		if m[i].sym != n[i].sym {
			return m[i].sym < n[i].sym
		}
		if m[i].exp != n[i].exp {
			return m[i].exp > n[i].exp
		}
	}
	return len(m) < len(n)
}

// Sym returns the polynomial consisting of the single symbol sym.
func Sym(sym string) Poly {
	return Poly{}.with(monomial{{sym: sym, exp: 1}}, big.NewRat(1, 1))
}

// Const returns the constant polynomial c.
func Const(c Rational) Poly {
	return Poly{}.with(nil, c.rat())
}

// with returns p plus c times mono.
func (p Poly) with(mono monomial, c *big.Rat) Poly {
	if c.Sign() == 0 {
		return p
	}
	out := p.clone(1)
	out.addTo(mono, c)
	return out
}

func (p Poly) clone(extra int) Poly {
	out := Poly{
		terms: make(map[string]monoTerm, len(p.terms)+extra),
	}
	for k, t := range p.terms {
		out.terms[k] = t
	}
	return out
}

// addTo adds c·mono to p in place; p must own its map.
func (p Poly) addTo(mono monomial, c *big.Rat) {
	key := mono.key()
	if t, exists := p.terms[key]; exists {
		sum := new(big.Rat).Add(t.coeff, c)
		if sum.Sign() == 0 {
			delete(p.terms, key)
		} else {
			p.terms[key] = monoTerm{mono: t.mono, coeff: sum}
		}
		return
	}
	if c.Sign() != 0 {
		p.terms[key] = monoTerm{mono: mono, coeff: new(big.Rat).Set(c)}
	}
}

func (p Poly) Add(q Poly) Poly {
	out := p.clone(len(q.terms))
	for _, t := range q.terms {
		out.addTo(t.mono, t.coeff)
	}
	return out
}

func (p Poly) Sub(q Poly) Poly {
	return p.Add(q.Neg())
}

func (p Poly) Mul(q Poly) Poly {
	out := Poly{
		terms: make(map[string]monoTerm, len(p.terms)*len(q.terms)),
	}
	for _, s := range p.terms {
		for _, t := range q.terms {
			out.addTo(s.mono.mul(t.mono), new(big.Rat).Mul(s.coeff, t.coeff))
		}
	}
	return out
}

// Quo divides p by the constant q and panics if q is 0 or is not constant.
func (p Poly) Quo(q Poly) Poly {
	c, isConst := q.Constant()
	if !isConst {
		panic(errors.Wrapf(ErrNotConstant, "(%v)/(%v)", p, q))
	}
	if c.IsZero() {
		panic(errors.Wrapf(ErrDivByZero, "(%v)/0", p))
	}
	inv := new(big.Rat).Inv(c.rat())
	return p.scale(inv)
}

func (p Poly) scale(c *big.Rat) Poly {
	out := Poly{
		terms: make(map[string]monoTerm, len(p.terms)),
	}
	if c.Sign() == 0 {
		return out
	}
	for k, t := range p.terms {
		out.terms[k] = monoTerm{mono: t.mono, coeff: new(big.Rat).Mul(t.coeff, c)}
	}
	return out
}

func (p Poly) Neg() Poly {
	return p.scale(big.NewRat(-1, 1))
}

func (p Poly) MulInt(n int64) Poly {
	return p.scale(new(big.Rat).SetInt64(n))
}

func (p Poly) FromInt(n int64) Poly {
	return Const(Int(n))
}

func (p Poly) IsZero() bool {
	return len(p.terms) == 0
}

// Pow returns p^n for n >= 0.
func (p Poly) Pow(n int) Poly {
	out := Const(Int(1))
	base := p
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			out = out.Mul(base)
		}
		if n > 1 {
			base = base.Mul(base)
		}
	}
	return out
}

// Constant returns the value of p and true if p has no symbols.
func (p Poly) Constant() (Rational, bool) {
	switch len(p.terms) {
	case 0:
		return Rational{}, true
	case 1:
		if t, exists := p.terms[""]; exists {
			return FromRat(t.coeff), true
		}
	}
	return Rational{}, false
}

// Coeff returns the coefficient of the monomial with the given key, e.g. "w_2_1^2*w_3_1".
func (p Poly) Coeff(monomialKey string) Rational {
	if t, exists := p.terms[monomialKey]; exists {
		return FromRat(t.coeff)
	}
	return Rational{}
}

// Symbols returns the symbols occurring in p, sorted.
func (p Poly) Symbols() []string {
	seen := make(map[string]struct{})
	var syms []string
	for _, t := range p.terms {
		for _, f := range t.mono {
			if _, exists := seen[f.sym]; !exists {
				seen[f.sym] = struct{}{}
				syms = append(syms, f.sym)
			}
		}
	}
	sort.Strings(syms)
	return syms
}

// Eval substitutes values for symbols, returning an error naming any symbol without a value.
func (p Poly) Eval(values map[string]Rational) (Rational, error) {
	sum := new(big.Rat)
	for _, t := range p.terms {
		prod := new(big.Rat).Set(t.coeff)
		for _, f := range t.mono {
			v, found := values[f.sym]
			if !found {
				return Rational{}, errors.Wrapf(gokg.ErrBadCoeff, "no value for symbol %q", f.sym)
			}
			prod.Mul(prod, v.Pow(f.exp).rat())
		}
		sum.Add(sum, prod)
	}
	return Rational{r: sum}, nil
}

func (p Poly) Equal(q Poly) bool {
	return p.Sub(q).IsZero()
}

// sortedTerms returns the terms of p by descending degree, then lexicographically.
func (p Poly) sortedTerms() []monoTerm {
	terms := make([]monoTerm, 0, len(p.terms))
	for _, t := range p.terms {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		di, dj := terms[i].mono.degree(), terms[j].mono.degree()
		if di != dj {
			return di > dj
		}
		return terms[i].mono.precedes(terms[j].mono)
	})
	return terms
}

// String returns p in the form ParsePoly reads, e.g. "w_2_1^2 - 1/2*w_3_1 + 1".
func (p Poly) String() string {
	if len(p.terms) == 0 {
		return "0"
	}

	var b strings.Builder
	for i, t := range p.sortedTerms() {
		c := t.coeff
		if c.Sign() < 0 {
			if i == 0 {
				b.WriteByte('-')
			} else {
				b.WriteString(" - ")
			}
			c = new(big.Rat).Neg(c)
		} else if i > 0 {
			b.WriteString(" + ")
		}

		key := t.mono.key()
		switch {
		case len(key) == 0:
			b.WriteString(c.RatString())
		case c.IsInt() && c.Num().IsInt64() && c.Num().Int64() == 1:
			b.WriteString(key)
		default:
			b.WriteString(c.RatString())
			b.WriteByte('*')
			b.WriteString(key)
		}
	}
	return b.String()
}

// ParsePoly reads a coefficient expression such as "-1/2*w_4_1^2 + x".
func ParsePoly(expr string) (Poly, error) {
	ast, err := parseExpr(expr)
	if err != nil {
		return Poly{}, err
	}
	eval := evaluator[Poly]{
		number: func(lit string) (Poly, error) {
			c, err := parseRationalLiteral(lit)
			return Const(c), err
		},
		symbol: func(sym string) (Poly, error) {
			return Sym(sym), nil
		},
		quo: func(x, y Poly) (Poly, error) {
			c, isConst := y.Constant()
			if !isConst {
				return Poly{}, errors.Wrapf(ErrNotConstant, "in %q", expr)
			}
			if c.IsZero() {
				return Poly{}, errors.Wrapf(ErrDivByZero, "in %q", expr)
			}
			return x.Quo(y), nil
		},
	}
	return eval.expr(ast)
}

// MustParsePoly is ParsePoly() for expressions known to be well formed.
func MustParsePoly(expr string) Poly {
	p, err := ParsePoly(expr)
	if err != nil {
		panic(err)
	}
	return p
}
