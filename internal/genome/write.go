package genome

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// SaveGenotype writes g to path in the genotype table format.
func SaveGenotype(path string, g *Genotype) error {
	return saveFile(path, func(w io.Writer) error { return WriteGenotype(w, g) })
}

// WriteGenotype writes g in the format read by ReadGenotype.
func WriteGenotype(w io.Writer, g *Genotype) error {
	labels := g.Labels
	if len(labels) != genotypeLayout.labels {
		labels = defaultGenotypeLabels
	}
	return writeTable(w, genotypeLayout, &table{
		labels: labels,
		names:  g.Markers,
		ids:    g.Individuals,
		values: g.Values,
	})
}

// SavePhenotype writes p to path in the phenotype table format.
func SavePhenotype(path string, p *Phenotype) error {
	return saveFile(path, func(w io.Writer) error { return WritePhenotype(w, p) })
}

// WritePhenotype writes p in the format read by ReadPhenotype.
func WritePhenotype(w io.Writer, p *Phenotype) error {
	labels := p.Labels
	if len(labels) != phenotypeLayout.labels {
		labels = defaultPhenotypeLabels
	}
	return writeTable(w, phenotypeLayout, &table{
		labels: labels,
		names:  p.Traits,
		ids:    p.Individuals,
		values: p.Values,
	})
}

func saveFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeTable(w io.Writer, l layout, t *table) error {
	if len(t.names) == 0 || len(t.ids) == 0 {
		return fmt.Errorf("%s: %w", l.table, ErrEmptyTable)
	}
	if len(t.values) != len(t.names) {
		return fmt.Errorf("%s: %w: %d value columns for %d names", l.table, ErrUnrepresentable, len(t.values), len(t.names))
	}
	for _, tok := range t.labels {
		if err := checkName(l, tok); err != nil {
			return err
		}
	}
	for _, tok := range t.names {
		if err := checkName(l, tok); err != nil {
			return err
		}
	}
	for _, tok := range t.ids {
		if err := checkName(l, tok); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)
	header := append(append([]string{}, t.labels...), t.names...)
	bw.WriteString(strings.Join(header, "\t"))
	bw.WriteByte('\n')

	for i, id := range t.ids {
		bw.WriteString(id)
		for j, col := range t.values {
			if len(col) != len(t.ids) {
				return fmt.Errorf("%s: %w: column %q has %d values for %d individuals", l.table, ErrUnrepresentable, t.names[j], len(col), len(t.ids))
			}
			v := col[i]
			if v == 0 {
				v = 0 // drop the sign of -0
			}
			if math.IsNaN(v) || math.IsInf(v, 0) || (v < 0 && !l.signed) {
				return &ParseError{Table: l.table, Row: i + 1, Column: j + 1, Token: strconv.FormatFloat(v, 'g', -1, 64), Err: ErrUnrepresentable}
			}
			bw.WriteByte('\t')
			bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func checkName(l layout, tok string) error {
	if tok == "" || strings.ContainsAny(tok, " \t\r\n\v\f") || l.isValue(tok) {
		return fmt.Errorf("%s: %w: name %q", l.table, ErrUnrepresentable, tok)
	}
	return nil
}
