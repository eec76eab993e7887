package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertProteinMutation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "missense",
			in:   "p.Thr5262Ile",
			want: "T5262I",
			ok:   true,
		},
		{
			name: "synonymous",
			in:   "p.Ser3Ser",
			want: "S3S",
			ok:   true,
		},
		{
			name: "extended_code",
			in:   "p.Xaa10Sec",
			want: "X10U",
			ok:   true,
		},
		{
			name: "position_digits_verbatim",
			in:   "p.Gly0042Ala",
			want: "G0042A",
			ok:   true,
		},
		{
			name: "malformed",
			in:   "p.XyzZQ",
			ok:   false,
		},
		{
			name: "unknown_acid",
			in:   "p.Zzz12Ala",
			ok:   false,
		},
		{
			name: "stop_gained_dropped",
			in:   "p.Gln57Ter",
			ok:   false,
		},
		{
			name: "already_one_letter",
			in:   "T5262I",
			ok:   false,
		},
		{
			name: "one_letter_with_prefix",
			in:   "p.T5262I",
			ok:   false,
		},
		{
			name: "no_position",
			in:   "p.ThrIle",
			ok:   false,
		},
		{
			name: "missing_prefix",
			in:   "Thr5262Ile",
			ok:   false,
		},
		{
			name: "trailing_garbage",
			in:   "p.Thr5262Ilefs",
			ok:   false,
		},
		{
			name: "empty",
			in:   "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ConvertProteinMutation(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestConvertProteinMutation_AllStandardAcids(t *testing.T) {
	// Every standard residue must round through the table.
	threes := map[string]string{
		"Ala": "A", "Arg": "R", "Asn": "N", "Asp": "D", "Cys": "C",
		"Gln": "Q", "Glu": "E", "Gly": "G", "His": "H", "Ile": "I",
		"Leu": "L", "Lys": "K", "Met": "M", "Phe": "F", "Pro": "P",
		"Ser": "S", "Thr": "T", "Trp": "W", "Tyr": "Y", "Val": "V",
	}
	for three, one := range threes {
		got, ok := ConvertProteinMutation("p." + three + "1" + three)
		assert.True(t, ok, three)
		assert.Equal(t, one+"1"+one, got)
	}
}
