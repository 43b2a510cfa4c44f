// Package genome loads and stores the genotype and phenotype tables consumed
// by a marker scan.
//
// Both tables are whitespace separated token streams:
//
//	FID IID  rs1 rs2 rs3        (genotype header: two labels, then markers)
//	ind1     0   1   2
//	ind2     2   1   0
//
//	IID  height weight          (phenotype header: one label, then traits)
//	ind1 1.72   -0.4
//	ind2 1.80   0.13
//
// A token whose first character is a digit is a value; phenotype values may
// also start with '-'. Every other token is a name or an individual ID, so
// names and IDs must not start with a digit.
//
// Values are stored marker-major (trait-major for phenotypes) so that a
// single marker or trait column can be handed to the estimator without
// copying.
package genome
