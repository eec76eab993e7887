package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractProteinMutations(t *testing.T) {
	// Two coding transcript entries reporting the same change, one coding
	// entry with a distinct change, and one upstream entry without a rank.
	info := "QNAME=hCoV-19;QSTART=274;QSTRAND=+;" +
		"ANN=T|synonymous_variant|LOW|ORF1ab|GU280_gp01|transcript|GU280_gp01|protein_coding|1/2|c.9C>T|p.Ser3Ser|9/21291|9/21291|3/7096||," +
		"T|synonymous_variant|LOW|ORF1ab|GU280_gp01|transcript|YP_009725297.1|protein_coding|1/1|c.9C>T|p.Ser3Ser|9/540|9/540|3/179||WARNING_TRANSCRIPT_NO_STOP_CODON," +
		"T|missense_variant|MODERATE|ORF1ab|GU280_gp01|transcript|YP_009725298.1|protein_coding|2/2|c.12C>T|p.Ala4Val|12/540|12/540|4/179||," +
		"T|upstream_gene_variant|MODIFIER|ORF1ab|GU280_gp01|transcript|YP_009742610.1|protein_coding||c.-2446C>T|||||2446|WARNING_TRANSCRIPT_NO_START_CODON"

	got := ExtractProteinMutations(info)
	assert.Equal(t, []string{"p.Ala4Val", "p.Ser3Ser"}, got)
}

func TestExtractProteinMutations_UpstreamOnly(t *testing.T) {
	info := "ANN=T|upstream_gene_variant|MODIFIER|ORF1ab|GU280_gp01|transcript|YP_009742610.1|protein_coding||c.-2446C>T|||||2446|WARNING_TRANSCRIPT_NO_START_CODON"
	assert.Empty(t, ExtractProteinMutations(info))
}

func TestExtractProteinMutations_NonCodingBiotype(t *testing.T) {
	info := "ANN=T|non_coding_transcript_exon_variant|MODIFIER|X|GX|transcript|TX|lncRNA|1/1|n.9C>T|p.Ser3Ser|||||"
	assert.Empty(t, ExtractProteinMutations(info))
}

func TestExtractProteinMutations_EmptyHGVSp(t *testing.T) {
	info := "ANN=T|intron_variant|MODIFIER|ORF1ab|GU280_gp01|transcript|T1|protein_coding|1/2|c.9C>T||||||"
	assert.Empty(t, ExtractProteinMutations(info))
}

func TestExtractProteinMutations_NoANNBlock(t *testing.T) {
	assert.Empty(t, ExtractProteinMutations("QNAME=hCoV-19;QSTART=274"))
	assert.Empty(t, ExtractProteinMutations(""))
}

func TestExtractProteinMutations_TruncatedEntry(t *testing.T) {
	// Entries with fewer fields than the HGVS.p position contribute nothing.
	info := "ANN=T|synonymous_variant|LOW|ORF1ab"
	assert.Empty(t, ExtractProteinMutations(info))
}

func TestExtractProteinMutations_Deduplicates(t *testing.T) {
	info := "ANN=" +
		"T|synonymous_variant|LOW|G|G1|transcript|T1|protein_coding|1/1|c.9C>T|p.Ser3Ser|||||," +
		"T|synonymous_variant|LOW|G|G1|transcript|T2|protein_coding|1/2|c.9C>T|p.Ser3Ser|||||"
	got := ExtractProteinMutations(info)
	assert.Equal(t, []string{"p.Ser3Ser"}, got)
}
