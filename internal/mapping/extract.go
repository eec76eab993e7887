package mapping

import (
	"regexp"
	"sort"
	"strings"
)

// SnpEff ANN subfield layout ("functional annotations" format):
//
//	Allele | Annotation | Impact | Gene_Name | Gene_ID | Feature_Type |
//	Feature_ID | Transcript_BioType | Rank | HGVS.c | HGVS.p | cDNA.pos |
//	CDS.pos | AA.pos | Distance | Errors
const (
	annFieldBiotype = 7
	annFieldRank    = 8
	annFieldHGVSp   = 10
)

const biotypeProteinCoding = "protein_coding"

// reExonRank matches a populated exon-rank field such as "1/2". Upstream,
// intronic and other non-coding transcript entries leave the field empty
// and carry no meaningful protein-level change.
var reExonRank = regexp.MustCompile(`^\d+/\d+$`)

// ExtractProteinMutations returns the deduplicated 3-letter protein-level
// changes found across every transcript annotation entry in a raw INFO
// field. Only protein-coding entries with a populated exon rank contribute;
// entries with an empty HGVS.p field are excluded, not errors.
//
// The result is sorted so the assembled table is deterministic.
func ExtractProteinMutations(info string) []string {
	seen := make(map[string]struct{})

	for _, kv := range strings.Split(info, ";") {
		ann, ok := strings.CutPrefix(kv, "ANN=")
		if !ok {
			continue
		}
		// Transcript annotation entries are comma-separated at the top
		// level, pipe-delimited within.
		for _, entry := range strings.Split(ann, ",") {
			fields := strings.Split(entry, "|")
			if len(fields) <= annFieldHGVSp {
				continue
			}
			if fields[annFieldBiotype] != biotypeProteinCoding {
				continue
			}
			if !reExonRank.MatchString(fields[annFieldRank]) {
				continue
			}
			if fields[annFieldHGVSp] == "" {
				continue
			}
			seen[fields[annFieldHGVSp]] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	muts := make([]string, 0, len(seen))
	for m := range seen {
		muts = append(muts, m)
	}
	sort.Strings(muts)
	return muts
}
