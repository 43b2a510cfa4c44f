package viz

import (
	"errors"
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sems/internal/scan"
)

var (
	ErrNoData       = errors.New("viz: no fits to plot")
	ErrUnknownValue = errors.New("viz: unknown plot value")
)

// Value selects which coefficient of a fit is plotted.
type Value string

const (
	ValueSlope     Value = "slope"
	ValueIntercept Value = "intercept"
	ValueR2        Value = "r2"
)

func Values() []string {
	return []string{string(ValueSlope), string(ValueIntercept), string(ValueR2)}
}

func ParseValue(s string) (Value, error) {
	switch v := Value(s); v {
	case ValueSlope, ValueIntercept, ValueR2:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q (available: %v)", ErrUnknownValue, s, Values())
}

func (v Value) of(f scan.Fit) float64 {
	switch v {
	case ValueIntercept:
		return f.Intercept
	case ValueR2:
		return f.R2
	}
	return f.Slope
}

type PlotOptions struct {
	Width     int
	Height    int
	Precision uint
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 70, Height: 15, Precision: 3}
}

// EffectPlot charts v for every marker fitted against trait, in marker order.
// Failed fits are drawn at zero and counted in the caption.
func EffectPlot(fits []scan.Fit, trait int, v Value, opts PlotOptions) (string, error) {
	var (
		data   []float64
		failed int
		name   string
		first  = -1
	)
	for _, f := range fits {
		if f.Trait != trait {
			continue
		}
		if first < 0 {
			first = f.Marker
			name = f.TraitName
		}
		y := v.of(f)
		if f.Failed() || math.IsNaN(y) || math.IsInf(y, 0) {
			failed++
			y = 0
		}
		data = append(data, y)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: trait %d", ErrNoData, trait)
	}
	// asciigraph needs at least two points to draw a line.
	if len(data) == 1 {
		data = append(data, data[0])
	}

	caption := fmt.Sprintf("%s by marker (from %d), trait %s", v, first, name)
	if failed > 0 {
		caption += fmt.Sprintf(", %d failed at 0", failed)
	}

	graphOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Precision(opts.Precision),
		asciigraph.Caption(caption),
	}
	if opts.Width > 0 {
		graphOpts = append(graphOpts, asciigraph.Width(opts.Width))
	}
	return asciigraph.Plot(data, graphOpts...), nil
}

// TraitsIn returns the distinct trait indices of fits in first-seen order.
func TraitsIn(fits []scan.Fit) []int {
	seen := make(map[int]bool)
	var traits []int
	for _, f := range fits {
		if !seen[f.Trait] {
			seen[f.Trait] = true
			traits = append(traits, f.Trait)
		}
	}
	return traits
}
