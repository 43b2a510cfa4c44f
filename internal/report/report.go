// Package report renders scan results as the classic text listing, CSV or
// JSON.
package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/sems/internal/scan"
)

type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("report: unknown format")

var csvHeader = []string{"marker", "marker_name", "trait", "trait_name", "slope", "intercept", "r2", "rss", "error"}

func Formats() []string {
	return []string{string(FormatText), string(FormatCSV), string(FormatJSON)}
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (available: %v)", ErrUnknownFormat, s, Formats())
}

func Write(w io.Writer, f Format, res *scan.Result) error {
	switch f {
	case FormatText:
		return WriteText(w, res.Fits)
	case FormatCSV:
		return WriteCSV(w, res.Fits)
	case FormatJSON:
		return WriteJSON(w, NewDocument(res))
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteText prints the classic listing: a is the slope, b the intercept.
func WriteText(w io.Writer, fits []scan.Fit) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "\nLeast Squares Regression Analysis:\n\n")
	for _, f := range fits {
		fmt.Fprintf(bw, "Marker %d, Trait %d\n", f.Marker, f.Trait)
		fmt.Fprintf(bw, "a: %f\nb: %f\n\n", f.Slope, f.Intercept)
	}
	return bw.Flush()
}

func WriteCSV(w io.Writer, fits []scan.Fit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, f := range fits {
		row := []string{
			strconv.Itoa(f.Marker),
			f.MarkerName,
			strconv.Itoa(f.Trait),
			f.TraitName,
			formatFloat(f.Slope),
			formatFloat(f.Intercept),
			formatFloat(f.R2),
			formatFloat(f.RSS),
			f.Err,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses fits written by WriteCSV.
func ReadCSV(r io.Reader) ([]scan.Fit, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("report: missing csv header")
	}

	fits := make([]scan.Fit, 0, len(records)-1)
	for i, rec := range records[1:] {
		f, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("report: csv line %d: %w", i+2, err)
		}
		fits = append(fits, f)
	}
	return fits, nil
}

func parseRecord(rec []string) (scan.Fit, error) {
	var f scan.Fit
	var err error
	if f.Marker, err = strconv.Atoi(rec[0]); err != nil {
		return f, err
	}
	f.MarkerName = rec[1]
	if f.Trait, err = strconv.Atoi(rec[2]); err != nil {
		return f, err
	}
	f.TraitName = rec[3]
	for i, dst := range []*float64{&f.Slope, &f.Intercept, &f.R2, &f.RSS} {
		if *dst, err = strconv.ParseFloat(rec[4+i], 64); err != nil {
			return f, err
		}
	}
	f.Err = rec[8]
	return f, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Document is the JSON form of a scan. NaN values are encoded as null.
type Document struct {
	Method      string   `json:"method"`
	Offset      int      `json:"offset"`
	Markers     int      `json:"markers"`
	Traits      int      `json:"traits"`
	Individuals int      `json:"individuals"`
	ElapsedMS   float64  `json:"elapsed_ms"`
	Summary     Summary  `json:"summary"`
	Fits        []FitDoc `json:"fits"`
}

type Summary struct {
	Pairs        int      `json:"pairs"`
	Failed       int      `json:"failed"`
	MeanAbsSlope *float64 `json:"mean_abs_slope"`
	MaxAbsSlope  *float64 `json:"max_abs_slope"`
	TopMarker    string   `json:"top_marker,omitempty"`
	TopTrait     string   `json:"top_trait,omitempty"`
	MeanR2       *float64 `json:"mean_r2"`
}

type FitDoc struct {
	Marker     int      `json:"marker"`
	MarkerName string   `json:"marker_name"`
	Trait      int      `json:"trait"`
	TraitName  string   `json:"trait_name"`
	Slope      *float64 `json:"slope"`
	Intercept  *float64 `json:"intercept"`
	R2         *float64 `json:"r2"`
	RSS        *float64 `json:"rss"`
	Error      string   `json:"error,omitempty"`
}

func NewDocument(res *scan.Result) Document {
	s := res.Summary()
	doc := Document{
		Method:      res.Method,
		Offset:      res.Offset,
		Markers:     res.Markers,
		Traits:      res.Traits,
		Individuals: res.Individuals,
		ElapsedMS:   float64(res.Elapsed.Microseconds()) / 1000,
		Summary: Summary{
			Pairs:        s.Pairs,
			Failed:       s.Failed,
			MeanAbsSlope: num(s.MeanAbsSlope),
			MaxAbsSlope:  num(s.MaxAbsSlope),
			TopMarker:    s.TopMarker,
			TopTrait:     s.TopTrait,
			MeanR2:       num(s.MeanR2),
		},
		Fits: make([]FitDoc, len(res.Fits)),
	}
	for i, f := range res.Fits {
		doc.Fits[i] = FitDoc{
			Marker:     f.Marker,
			MarkerName: f.MarkerName,
			Trait:      f.Trait,
			TraitName:  f.TraitName,
			Slope:      num(f.Slope),
			Intercept:  num(f.Intercept),
			R2:         num(f.R2),
			RSS:        num(f.RSS),
			Error:      f.Err,
		}
	}
	return doc
}

func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
