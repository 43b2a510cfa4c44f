package genome

// Genotype holds marker values per individual. Values[m][i] is the value of
// marker m for individual i.
type Genotype struct {
	Labels      []string
	Markers     []string
	Individuals []string
	Values      [][]float64
}

// Phenotype holds trait values per individual. Values[t][i] is the value of
// trait t for individual i.
type Phenotype struct {
	Labels      []string
	Traits      []string
	Individuals []string
	Values      [][]float64
}

var (
	defaultGenotypeLabels  = []string{"FID", "IID"}
	defaultPhenotypeLabels = []string{"IID"}
)

func (g *Genotype) NumMarkers() int     { return len(g.Markers) }
func (g *Genotype) NumIndividuals() int { return len(g.Individuals) }

// Marker returns the values of marker i across individuals. The slice is
// shared with g.
func (g *Genotype) Marker(i int) []float64 {
	return g.Values[i]
}

// MarkerIndex looks up a marker by name.
func (g *Genotype) MarkerIndex(name string) (int, bool) {
	return indexOf(g.Markers, name)
}

func (p *Phenotype) NumTraits() int      { return len(p.Traits) }
func (p *Phenotype) NumIndividuals() int { return len(p.Individuals) }

// Trait returns the values of trait i across individuals. The slice is
// shared with p.
func (p *Phenotype) Trait(i int) []float64 {
	return p.Values[i]
}

// TraitIndex looks up a trait by name.
func (p *Phenotype) TraitIndex(name string) (int, bool) {
	return indexOf(p.Traits, name)
}

func indexOf(names []string, name string) (int, bool) {
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return -1, false
}
