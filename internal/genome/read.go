package genome

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

type layout struct {
	table  string
	labels int
	signed bool
}

var (
	genotypeLayout  = layout{table: "genotype", labels: 2}
	phenotypeLayout = layout{table: "phenotype", labels: 1, signed: true}
)

func (l layout) isValue(tok string) bool {
	c := tok[0]
	if c >= '0' && c <= '9' {
		return true
	}
	return l.signed && c == '-'
}

type table struct {
	labels []string
	names  []string
	ids    []string
	values [][]float64
}

// LoadGenotype reads a genotype table from path.
func LoadGenotype(path string) (*Genotype, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genotype %q: %w", path, err)
	}
	defer f.Close()

	g, err := ReadGenotype(f)
	if err != nil {
		return nil, fmt.Errorf("load genotype %q: %w", path, err)
	}
	return g, nil
}

// ReadGenotype parses a genotype table.
func ReadGenotype(r io.Reader) (*Genotype, error) {
	t, err := readTable(r, genotypeLayout)
	if err != nil {
		return nil, err
	}
	return &Genotype{
		Labels:      t.labels,
		Markers:     t.names,
		Individuals: t.ids,
		Values:      t.values,
	}, nil
}

// LoadPhenotype reads a phenotype table from path.
func LoadPhenotype(path string) (*Phenotype, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open phenotype %q: %w", path, err)
	}
	defer f.Close()

	p, err := ReadPhenotype(f)
	if err != nil {
		return nil, fmt.Errorf("load phenotype %q: %w", path, err)
	}
	return p, nil
}

// ReadPhenotype parses a phenotype table.
func ReadPhenotype(r io.Reader) (*Phenotype, error) {
	t, err := readTable(r, phenotypeLayout)
	if err != nil {
		return nil, err
	}
	return &Phenotype{
		Labels:      t.labels,
		Traits:      t.names,
		Individuals: t.ids,
		Values:      t.values,
	}, nil
}

// readTable scans the token stream once. Header tokens are buffered until the
// first value appears; the last of them is the first individual's ID.
func readTable(r io.Reader, l layout) (*table, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	t := &table{labels: make([]string, 0, l.labels)}
	for len(t.labels) < l.labels {
		if !sc.Scan() {
			return nil, scanErr(sc, l)
		}
		t.labels = append(t.labels, sc.Text())
	}

	var pending []string
	var first string
	for {
		if !sc.Scan() {
			return nil, scanErr(sc, l)
		}
		tok := sc.Text()
		if l.isValue(tok) {
			first = tok
			break
		}
		pending = append(pending, tok)
	}
	if len(pending) < 2 {
		return nil, fmt.Errorf("%s: %w", l.table, ErrEmptyTable)
	}
	t.names = pending[:len(pending)-1]

	width := len(t.names)
	var rows [][]float64

	id := pending[len(pending)-1]
	row := make([]float64, 0, width)
	tok := first
	more := true

	for more {
		if l.isValue(tok) {
			if len(row) == width {
				return nil, &ParseError{Table: l.table, Row: len(rows) + 1, Column: len(row) + 1, Token: tok, Err: ErrMalformedRow}
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, &ParseError{Table: l.table, Row: len(rows) + 1, Column: len(row) + 1, Token: tok, Err: err}
			}
			row = append(row, v)
		} else {
			if err := closeRow(l, len(rows)+1, row, width); err != nil {
				return nil, err
			}
			t.ids = append(t.ids, id)
			rows = append(rows, row)
			id = tok
			row = make([]float64, 0, width)
		}

		more = sc.Scan()
		if more {
			tok = sc.Text()
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", l.table, err)
	}
	if err := closeRow(l, len(rows)+1, row, width); err != nil {
		return nil, err
	}
	t.ids = append(t.ids, id)
	rows = append(rows, row)

	t.values = transpose(rows, width)
	return t, nil
}

func closeRow(l layout, n int, row []float64, width int) error {
	if len(row) != width {
		return &ParseError{Table: l.table, Row: n, Err: fmt.Errorf("%w: got %d values, want %d", ErrMalformedRow, len(row), width)}
	}
	return nil
}

func scanErr(sc *bufio.Scanner, l layout) error {
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", l.table, err)
	}
	return fmt.Errorf("%s: %w", l.table, ErrEmptyTable)
}

// transpose turns individual-major rows into column-major storage.
func transpose(rows [][]float64, width int) [][]float64 {
	cols := make([][]float64, width)
	for j := range cols {
		cols[j] = make([]float64, len(rows))
		for i, row := range rows {
			cols[j][i] = row[j]
		}
	}
	return cols
}
