package scan

import "math"

// Summary condenses a scan into a handful of numbers for listings. Slope and
// R² figures are NaN when no fit contributes to them.
type Summary struct {
	Pairs        int
	Failed       int
	MeanAbsSlope float64
	MaxAbsSlope  float64
	TopMarker    string
	TopTrait     string
	MeanR2       float64
}

func (r *Result) Summary() Summary {
	s := Summary{Pairs: len(r.Fits)}
	var sumSlope, sumR2 float64
	var okFits, okR2 int
	for _, f := range r.Fits {
		if f.Failed() {
			s.Failed++
			continue
		}
		okFits++
		a := math.Abs(f.Slope)
		sumSlope += a
		if a > s.MaxAbsSlope || s.TopMarker == "" {
			s.MaxAbsSlope = a
			s.TopMarker = f.MarkerName
			s.TopTrait = f.TraitName
		}
		if !math.IsNaN(f.R2) {
			sumR2 += f.R2
			okR2++
		}
	}
	s.MeanAbsSlope, s.MeanR2 = math.NaN(), math.NaN()
	if okFits > 0 {
		s.MeanAbsSlope = sumSlope / float64(okFits)
	} else {
		s.MaxAbsSlope = math.NaN()
	}
	if okR2 > 0 {
		s.MeanR2 = sumR2 / float64(okR2)
	}
	return s
}

// Metrics flattens the summary for the run store.
func (r *Result) Metrics() map[string]float64 {
	s := r.Summary()
	return map[string]float64{
		"pairs":          float64(s.Pairs),
		"failed":         float64(s.Failed),
		"mean_abs_slope": s.MeanAbsSlope,
		"max_abs_slope":  s.MaxAbsSlope,
		"mean_r2":        s.MeanR2,
		"elapsed_ms":     float64(r.Elapsed.Microseconds()) / 1000,
	}
}
