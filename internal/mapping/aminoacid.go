// Package mapping derives the nucleotide-to-protein mutation table from
// SnpEff-annotated VCF records.
package mapping

import "regexp"

// aminoAcid3to1 maps 3-letter amino-acid abbreviations to their 1-letter
// codes: the twenty standard residues plus the extended ambiguity and rare
// codes (Asx, Glx, Xaa, Xle, Sec, Pyl). Immutable reference data; "Ter" is
// deliberately absent, so stop-gain notations are dropped.
var aminoAcid3to1 = map[string]byte{
	"Ala": 'A', "Arg": 'R', "Asn": 'N', "Asp": 'D',
	"Cys": 'C', "Gln": 'Q', "Glu": 'E', "Gly": 'G',
	"His": 'H', "Ile": 'I', "Leu": 'L', "Lys": 'K',
	"Met": 'M', "Phe": 'F', "Pro": 'P', "Ser": 'S',
	"Thr": 'T', "Trp": 'W', "Tyr": 'Y', "Val": 'V',
	"Asx": 'B', "Glx": 'Z', "Xaa": 'X', "Xle": 'J',
	"Sec": 'U', "Pyl": 'O',
}

// reProteinMutation matches a 3-letter protein substitution notation such
// as "p.Thr5262Ile": each acid is exactly one uppercase letter followed by
// two lowercase letters. 1-letter notations never match, so an already
// normalized mutation is rejected rather than double-converted.
var reProteinMutation = regexp.MustCompile(`^p\.([A-Z][a-z]{2})(\d+)([A-Z][a-z]{2})$`)

// ConvertProteinMutation converts a protein mutation from 3-letter to
// 1-letter amino-acid notation, e.g. "p.Thr5262Ile" -> "T5262I". The
// position digits are preserved verbatim.
//
// The second return value is false when the notation does not match the
// expected shape or either abbreviation is unknown. That outcome is
// expected and frequent — SnpEff emits many transcript entries with no
// usable protein change (upstream, intronic, synonymous-without-position) —
// so it is a skip, never an error.
func ConvertProteinMutation(mut string) (string, bool) {
	m := reProteinMutation.FindStringSubmatch(mut)
	if m == nil {
		return "", false
	}
	acid1, ok := aminoAcid3to1[m[1]]
	if !ok {
		return "", false
	}
	acid2, ok := aminoAcid3to1[m[3]]
	if !ok {
		return "", false
	}
	return string(acid1) + m[2] + string(acid2), true
}
