package coeff

import (
	"github.com/2x3systems/gokg/gokg"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	ErrDivByZero   = errors.New("division by zero")
	ErrNotConstant = errors.New("division by a non-constant polynomial")
)

// Expr is a sum of terms, e.g. "-1/2*w_4_1^2 + x"
type Expr struct {
	Head *ProductExpr  `@@`
	Tail []*SumOperand `@@*`
}

type SumOperand struct {
	Op   string       `@("+" | "-")`
	Term *ProductExpr `@@`
}

type ProductExpr struct {
	Head *PowerExpr        `@@`
	Tail []*ProductOperand `@@*`
}

type ProductOperand struct {
	Op     string     `@("*" | "/")`
	Factor *PowerExpr `@@`
}

type PowerExpr struct {
	Sign     string `@("+" | "-")?`
	Base     *Atom  `@@`
	Exponent *int   `( "^" @Int )?`
}

type Atom struct {
	Number *string `  @(Decimal | Int)`
	Symbol *string `| @Ident`
	Group  *Expr   `| "(" @@ ")"`
}

var sExprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Decimal", Pattern: `\d+\.\d+`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[-+*/^()]`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
})

var parseCoeffExpr = participle.MustBuild[Expr](
	participle.Lexer(sExprLexer),
)

func parseExpr(expr string) (*Expr, error) {
	ast, err := parseCoeffExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(gokg.ErrBadCoeff, err.Error())
	}
	return ast, nil
}

// ring is what evaluating an Expr needs of a coefficient type.
type ring[C any] interface {
	Add(y C) C
	Sub(y C) C
	Mul(y C) C
	Neg() C
	Pow(n int) C
}

type evaluator[C ring[C]] struct {
	number func(lit string) (C, error)
	symbol func(name string) (C, error)
	quo    func(x, y C) (C, error)
}

func (eval *evaluator[C]) expr(ex *Expr) (C, error) {
	acc, err := eval.product(ex.Head)
	if err != nil {
		return acc, err
	}
	for _, operand := range ex.Tail {
		term, err := eval.product(operand.Term)
		if err != nil {
			return acc, err
		}
		if operand.Op == "-" {
			acc = acc.Sub(term)
		} else {
			acc = acc.Add(term)
		}
	}
	return acc, nil
}

func (eval *evaluator[C]) product(ex *ProductExpr) (C, error) {
	acc, err := eval.power(ex.Head)
	if err != nil {
		return acc, err
	}
	for _, operand := range ex.Tail {
		factor, err := eval.power(operand.Factor)
		if err != nil {
			return acc, err
		}
		if operand.Op == "/" {
			if acc, err = eval.quo(acc, factor); err != nil {
				return acc, err
			}
		} else {
			acc = acc.Mul(factor)
		}
	}
	return acc, nil
}

func (eval *evaluator[C]) power(ex *PowerExpr) (C, error) {
	val, err := eval.atom(ex.Base)
	if err != nil {
		return val, err
	}
	if ex.Exponent != nil {
		val = val.Pow(*ex.Exponent)
	}
	if ex.Sign == "-" {
		val = val.Neg()
	}
	return val, nil
}

func (eval *evaluator[C]) atom(ex *Atom) (C, error) {
	switch {
	case ex.Number != nil:
		return eval.number(*ex.Number)
	case ex.Symbol != nil:
		return eval.symbol(*ex.Symbol)
	default:
		return eval.expr(ex.Group)
	}
}
