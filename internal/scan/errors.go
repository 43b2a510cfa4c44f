package scan

import "errors"

var (
	// ErrNotSetup indicates Run was called before Setup.
	ErrNotSetup = errors.New("scan: not set up")

	// ErrIndividualMismatch indicates the genotype and phenotype tables hold different numbers of individuals.
	ErrIndividualMismatch = errors.New("scan: genotype and phenotype individual counts differ")

	// ErrTraitRange indicates a trait index outside the phenotype table.
	ErrTraitRange = errors.New("scan: trait index out of range")

	// ErrMarkerRange indicates a marker offset or count outside the genotype table.
	ErrMarkerRange = errors.New("scan: marker range out of bounds")

	// ErrUnknownMethod indicates a solver name missing from the registry.
	ErrUnknownMethod = errors.New("scan: unknown method")
)
