package libkg

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/2x3systems/gokg/gokg"
	"github.com/pkg/errors"
)

// CoeffParser reads a coefficient expression.
type CoeffParser[C Coeff[C]] func(expr string) (C, error)

// ReadSeries reads a graph series in the "h^n:" block format.
//
// Each block header "h^n:" is followed by "<graph-encoding>    <coefficient>" lines.  Blank lines and lines starting with '#' are skipped.
// The precision of the returned series is the largest order header read.
func ReadSeries[C Coeff[C]](r io.Reader, parse CoeffParser[C]) (*GraphSeries[C], error) {
	series := NewGraphSeries[C]()
	order := -1
	maxOrder := -1

	err := scanTermLines(r, func(lineNum int, line string) error {
		if strings.HasPrefix(line, "h^") {
			if !strings.HasSuffix(line, ":") {
				return errors.Wrapf(gokg.ErrBadSeries, "line %d: malformed order header %q", lineNum, line)
			}
			n, err := strconv.Atoi(line[2 : len(line)-1])
			if err != nil || n < 0 {
				return errors.Wrapf(gokg.ErrBadSeries, "line %d: malformed order header %q", lineNum, line)
			}
			order = n
			maxOrder = max(maxOrder, n)
			series.At(order)
			return nil
		}
		if order < 0 {
			return errors.Wrapf(gokg.ErrBadSeries, "line %d: term before the first order header", lineNum)
		}
		term, err := parseTermLine(line, parse)
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNum)
		}
		series.At(order).AddTerm(term.Coeff, term.Graph)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if maxOrder < 0 {
		return nil, errors.Wrap(gokg.ErrBadSeries, "no order headers found")
	}
	series.SetPrecision(maxOrder)
	return series, nil
}

// ReadSum reads "<graph-encoding>    <coefficient>" lines into a GraphSum.
func ReadSum[C Coeff[C]](r io.Reader, parse CoeffParser[C]) (*GraphSum[C], error) {
	sum := &GraphSum[C]{}
	err := scanTermLines(r, func(lineNum int, line string) error {
		term, err := parseTermLine(line, parse)
		if err != nil {
			return errors.Wrapf(err, "line %d", lineNum)
		}
		sum.terms = append(sum.terms, term)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sum, nil
}

func scanTermLines(r io.Reader, onLine func(lineNum int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if err := onLine(lineNum, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func parseTermLine[C Coeff[C]](line string, parse CoeffParser[C]) (Term[C], error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Term[C]{}, errors.Wrapf(gokg.ErrBadEncoding, "too few fields in %q", line)
	}
	internal, err := strconv.Atoi(fields[1])
	if err != nil || internal < 0 {
		return Term[C]{}, errors.Wrapf(gokg.ErrBadEncoding, "bad internal vertex count in %q", line)
	}
	graphFields := 3 + 2*internal
	if len(fields) <= graphFields {
		return Term[C]{}, errors.Wrapf(gokg.ErrBadEncoding, "missing coefficient in %q", line)
	}

	X, err := ParseGraph(strings.Join(fields[:graphFields], " "))
	if err != nil {
		return Term[C]{}, err
	}
	c, err := parse(strings.Join(fields[graphFields:], " "))
	if err != nil {
		return Term[C]{}, errors.Wrap(gokg.ErrBadCoeff, err.Error())
	}
	return Term[C]{Coeff: c, Graph: X}, nil
}

// WriteSeries writes series in the format ReadSeries reads.
func WriteSeries[C Coeff[C]](w io.Writer, series *GraphSeries[C], opts gokg.PrintOpts) error {
	out := bufio.NewWriter(w)
	series.WriteAsString(out, opts)
	return out.Flush()
}

// WriteSum writes S in the format ReadSum reads.
func WriteSum[C Coeff[C]](w io.Writer, S *GraphSum[C], opts gokg.PrintOpts) error {
	out := bufio.NewWriter(w)
	opts.Encoding = true
	S.WriteAsString(out, opts)
	return out.Flush()
}
