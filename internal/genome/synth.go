package genome

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

var ErrSynthConfig = errors.New("genome: invalid synthesis config")

// SynthConfig describes a random data set with planted effects. Causal markers
// are spread evenly over the marker range; every trait is the sum of Effect
// times each causal genotype plus Gaussian noise.
type SynthConfig struct {
	Individuals int
	Markers     int
	Traits      int
	Causal      int
	Effect      float64
	Noise       float64
	Seed        uint64
}

func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		Individuals: 200,
		Markers:     100,
		Traits:      1,
		Causal:      5,
		Effect:      0.5,
		Noise:       1,
		Seed:        1,
	}
}

// CausalMarkers returns the marker indices that carry an effect.
func (c SynthConfig) CausalMarkers() []int {
	idx := make([]int, c.Causal)
	for k := range idx {
		idx[k] = k * c.Markers / c.Causal
	}
	return idx
}

// Synthesize draws genotypes as allele counts (0, 1 or 2) with a per-marker
// allele frequency in [0.05, 0.5], then builds the traits from them.
func Synthesize(c SynthConfig) (*Genotype, *Phenotype, error) {
	if c.Individuals < 1 || c.Markers < 1 || c.Traits < 1 {
		return nil, nil, fmt.Errorf("%w: need at least one individual, marker and trait", ErrSynthConfig)
	}
	if c.Causal < 0 || c.Causal > c.Markers || c.Noise < 0 {
		return nil, nil, fmt.Errorf("%w: causal %d of %d markers, noise %g", ErrSynthConfig, c.Causal, c.Markers, c.Noise)
	}
	src := rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15)
	rng := rand.New(src)

	g := &Genotype{
		Labels:      slices.Clone(defaultGenotypeLabels),
		Markers:     make([]string, c.Markers),
		Individuals: make([]string, c.Individuals),
		Values:      make([][]float64, c.Markers),
	}
	for i := range g.Individuals {
		g.Individuals[i] = fmt.Sprintf("ind%d", i+1)
	}
	for m := range g.Values {
		g.Markers[m] = fmt.Sprintf("rs%d", m+1)
		allele := distuv.Binomial{N: 2, P: 0.05 + 0.45*rng.Float64(), Src: src}
		g.Values[m] = make([]float64, c.Individuals)
		for i := range g.Values[m] {
			g.Values[m][i] = allele.Rand()
		}
	}

	p := &Phenotype{
		Labels:      slices.Clone(defaultPhenotypeLabels),
		Traits:      make([]string, c.Traits),
		Individuals: g.Individuals,
		Values:      make([][]float64, c.Traits),
	}
	noise := distuv.Normal{Mu: 0, Sigma: c.Noise, Src: src}
	causal := c.CausalMarkers()
	for t := range p.Values {
		p.Traits[t] = fmt.Sprintf("trait%d", t+1)
		p.Values[t] = make([]float64, c.Individuals)
		for i := range p.Values[t] {
			y := 0.0
			for _, m := range causal {
				y += c.Effect * g.Values[m][i]
			}
			if c.Noise > 0 {
				y += noise.Rand()
			}
			p.Values[t][i] = y
		}
	}
	return g, p, nil
}
