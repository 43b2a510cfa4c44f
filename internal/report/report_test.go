package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/san-kum/sems/internal/scan"
)

func sampleResult() *scan.Result {
	return &scan.Result{
		Method:      "normal",
		Markers:     2,
		Traits:      1,
		Individuals: 5,
		Fits: []scan.Fit{
			{Marker: 0, MarkerName: "rs1", Trait: 0, TraitName: "height", Slope: 2, Intercept: 1, R2: 1, RSS: 0},
			{Marker: 1, MarkerName: "rs2", Trait: 0, TraitName: "height", Slope: math.NaN(), Intercept: math.NaN(), R2: math.NaN(), RSS: math.NaN(), Err: "ols: getrf failed: ols: matrix is singular"},
		},
	}
}

func TestWriteTextClassicLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatText, sampleResult()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := "\nLeast Squares Regression Analysis:\n\n" +
		"Marker 0, Trait 0\na: 2.000000\nb: 1.000000\n\n" +
		"Marker 1, Trait 0\na: NaN\nb: NaN\n\n"
	if buf.String() != want {
		t.Errorf("unexpected text output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	res := sampleResult()

	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, res); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "marker,marker_name,trait,trait_name,slope,intercept,r2,rss,error\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	fits, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if diff := cmp.Diff(res.Fits, fits, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("csv round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short record", "marker,marker_name\n0,rs1\n"},
		{"bad index", strings.Join(csvHeader, ",") + "\nx,rs1,0,h,1,1,1,0,\n"},
		{"bad float", strings.Join(csvHeader, ",") + "\n0,rs1,0,h,one,1,1,0,\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestWriteJSONEncodesNaNAsNull(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sampleResult()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc["method"] != "normal" {
		t.Errorf("expected method normal, got %v", doc["method"])
	}

	fits := doc["fits"].([]any)
	if len(fits) != 2 {
		t.Fatalf("expected 2 fits, got %d", len(fits))
	}
	ok := fits[0].(map[string]any)
	if ok["slope"] != 2.0 || ok["intercept"] != 1.0 {
		t.Errorf("unexpected first fit: %v", ok)
	}
	failed := fits[1].(map[string]any)
	if failed["slope"] != nil || failed["error"] == "" {
		t.Errorf("expected null slope and an error, got %v", failed)
	}

	summary := doc["summary"].(map[string]any)
	if summary["failed"] != 1.0 || summary["top_marker"] != "rs1" {
		t.Errorf("unexpected summary: %v", summary)
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range Formats() {
		if _, err := ParseFormat(name); err != nil {
			t.Errorf("format %s: %v", name, err)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
