// Package vcf reads and writes the VCF files flowing through the
// mutation-mapping pipeline.
package vcf

import "strconv"

// Variant is a single data row from a VCF file. Only the columns the
// mapping pipeline consumes are retained; INFO is kept as the raw field
// text because the annotation block inside it is parsed downstream.
type Variant struct {
	Chrom string // reference sequence name (e.g. "NC_045512.2")
	Pos   int64  // 1-based genomic position
	ID    string // variant identifier, "." for the synthetic catalog
	Ref   string // reference allele
	Alt   string // alternate allele
	Info  string // raw INFO field, empty when the column is absent
}

// IsCleanSNV reports whether both alleles are unambiguous single bases.
// Multi-base and N alleles are excluded from the mapping entirely.
func (v *Variant) IsCleanSNV() bool {
	return len(v.Ref) == 1 && v.Ref != "N" && len(v.Alt) == 1 && v.Alt != "N"
}

// NucleotideChange returns the positional notation used as the mapping
// key, e.g. "241C>T".
func (v *Variant) NucleotideChange() string {
	return strconv.FormatInt(v.Pos, 10) + v.Ref + ">" + v.Alt
}
