package coeff

import (
	"math/big"

	"github.com/2x3systems/gokg/gokg"
	"github.com/pkg/errors"
)

// Rational is an exact rational number.  The zero value is 0.
//
// Values are immutable: every operation returns a new Rational.
type Rational struct {
	r *big.Rat // nil denotes 0
}

// R returns num/den.
func R(num, den int64) Rational {
	if den == 0 {
		panic(errors.Wrapf(ErrDivByZero, "%d/0", num))
	}
	return Rational{r: big.NewRat(num, den)}
}

// Int returns the integer n as a Rational.
func Int(n int64) Rational {
	return Rational{r: new(big.Rat).SetInt64(n)}
}

// FromRat returns a Rational holding a copy of x.
func FromRat(x *big.Rat) Rational {
	return Rational{r: new(big.Rat).Set(x)}
}

func (x Rational) rat() *big.Rat {
	if x.r == nil {
		return new(big.Rat)
	}
	return x.r
}

// Rat returns a copy of x as a big.Rat.
func (x Rational) Rat() *big.Rat {
	return new(big.Rat).Set(x.rat())
}

func (x Rational) Add(y Rational) Rational {
	return Rational{r: new(big.Rat).Add(x.rat(), y.rat())}
}

func (x Rational) Sub(y Rational) Rational {
	return Rational{r: new(big.Rat).Sub(x.rat(), y.rat())}
}

func (x Rational) Mul(y Rational) Rational {
	return Rational{r: new(big.Rat).Mul(x.rat(), y.rat())}
}

// Quo returns x/y and panics if y is 0.
func (x Rational) Quo(y Rational) Rational {
	if y.IsZero() {
		panic(errors.Wrapf(ErrDivByZero, "%v/0", x))
	}
	return Rational{r: new(big.Rat).Quo(x.rat(), y.rat())}
}

func (x Rational) Neg() Rational {
	return Rational{r: new(big.Rat).Neg(x.rat())}
}

func (x Rational) MulInt(n int64) Rational {
	return Rational{r: new(big.Rat).Mul(x.rat(), new(big.Rat).SetInt64(n))}
}

func (x Rational) FromInt(n int64) Rational {
	return Int(n)
}

func (x Rational) IsZero() bool {
	return x.r == nil || x.r.Sign() == 0
}

func (x Rational) Sign() int {
	return x.rat().Sign()
}

func (x Rational) Cmp(y Rational) int {
	return x.rat().Cmp(y.rat())
}

func (x Rational) Equal(y Rational) bool {
	return x.Cmp(y) == 0
}

// IsInt returns true if x is an integer.
func (x Rational) IsInt() bool {
	return x.rat().IsInt()
}

func (x Rational) Float64() float64 {
	f, _ := x.rat().Float64()
	return f
}

// Pow returns x^n for n >= 0.
func (x Rational) Pow(n int) Rational {
	num := new(big.Int).Exp(x.rat().Num(), big.NewInt(int64(n)), nil)
	den := new(big.Int).Exp(x.rat().Denom(), big.NewInt(int64(n)), nil)
	return Rational{r: new(big.Rat).SetFrac(num, den)}
}

// String returns x as "n" or "n/d" in lowest terms.
func (x Rational) String() string {
	return x.rat().RatString()
}

// ParseRational reads a coefficient expression with no symbols, such as "-1/2" or "(3 - 1/3)^2".
func ParseRational(expr string) (Rational, error) {
	ast, err := parseExpr(expr)
	if err != nil {
		return Rational{}, err
	}
	eval := evaluator[Rational]{
		number: parseRationalLiteral,
		symbol: func(sym string) (Rational, error) {
			return Rational{}, errors.Wrapf(gokg.ErrBadCoeff, "unexpected symbol %q in %q", sym, expr)
		},
		quo: func(x, y Rational) (Rational, error) {
			if y.IsZero() {
				return Rational{}, errors.Wrapf(ErrDivByZero, "in %q", expr)
			}
			return x.Quo(y), nil
		},
	}
	return eval.expr(ast)
}

// MustParseRational is ParseRational() for expressions known to be well formed.
func MustParseRational(expr string) Rational {
	x, err := ParseRational(expr)
	if err != nil {
		panic(err)
	}
	return x
}

func parseRationalLiteral(lit string) (Rational, error) {
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return Rational{}, errors.Wrapf(gokg.ErrBadCoeff, "bad number %q", lit)
	}
	return Rational{r: r}, nil
}
