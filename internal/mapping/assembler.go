package mapping

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/CovidMutations/mutmap/internal/genome"
	"github.com/CovidMutations/mutmap/internal/vcf"
)

// Entry is one row of the final mapping table: a nucleotide-level change
// paired with one normalized protein-level change derived from it.
type Entry struct {
	Nucleotide string // e.g. "241C>T"
	Protein    string // e.g. "T5262I"
}

// Stats counts per-run outcomes. Skips are expected and change no output,
// but the totals make a silent drift in SnpEff output visible.
type Stats struct {
	Records          int64 // annotated records read
	RecordsSkipped   int64 // multi-base or ambiguous REF/ALT
	Mutations        int64 // deduplicated raw protein changes seen
	MutationsDropped int64 // failed 3-to-1 normalization
	Entries          int64 // rows written
}

// EntrySink receives assembled entries in addition to the table file.
// The DuckDB store implements it.
type EntrySink interface {
	AddEntry(e Entry) error
}

// VariantReader yields annotated records in file order.
// *vcf.Parser implements it.
type VariantReader interface {
	Next() (*vcf.Variant, error)
}

// Assembler combines each record's nucleotide change with its normalized
// protein changes and serializes the mapping table: a "nucleotide;protein"
// header followed by one semicolon-separated row per entry, in record
// order. Deduplication happens per record on the raw protein set before
// normalization; no dedup is applied across records.
type Assembler struct {
	w      *bufio.Writer
	f      *os.File
	sink   EntrySink
	stats  Stats
	logger *zap.Logger
}

// NewAssembler creates an assembler writing the table to w.
func NewAssembler(w io.Writer) *Assembler {
	return &Assembler{
		w:      bufio.NewWriter(w),
		logger: zap.NewNop(),
	}
}

// OpenAssembler opens (or creates) the table file for appending. Like the
// catalog writer, repeated runs against the same path accumulate rows;
// callers wanting an idempotent run must remove the path first.
func OpenAssembler(path string) (*Assembler, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open mapping table: %w", err)
	}
	a := NewAssembler(f)
	a.f = f
	return a, nil
}

// SetLogger sets the logger used for the end-of-run stats report.
func (a *Assembler) SetLogger(l *zap.Logger) {
	a.logger = l
}

// SetSink attaches a secondary destination receiving every entry.
func (a *Assembler) SetSink(s EntrySink) {
	a.sink = s
}

// WriteHeader writes the "nucleotide;protein" header line.
func (a *Assembler) WriteHeader() error {
	_, err := a.w.WriteString("nucleotide;protein\n")
	return err
}

// WriteRecord derives and writes the mapping entries for one annotated
// record. Records with multi-base or ambiguous alleles are skipped whole;
// protein changes that fail normalization are skipped individually. Neither
// skip is an error.
func (a *Assembler) WriteRecord(v *vcf.Variant) error {
	a.stats.Records++
	if !v.IsCleanSNV() {
		a.stats.RecordsSkipped++
		return nil
	}

	nuc := v.NucleotideChange()
	for _, raw := range ExtractProteinMutations(v.Info) {
		a.stats.Mutations++
		prot, ok := ConvertProteinMutation(raw)
		if !ok {
			a.stats.MutationsDropped++
			continue
		}
		if _, err := a.w.WriteString(nuc + ";" + prot + "\n"); err != nil {
			return fmt.Errorf("write mapping row: %w", err)
		}
		a.stats.Entries++
		if a.sink != nil {
			if err := a.sink.AddEntry(Entry{Nucleotide: nuc, Protein: prot}); err != nil {
				return fmt.Errorf("store mapping row: %w", err)
			}
		}
	}
	return nil
}

// AssembleAll drains a reader through WriteRecord and reports the run
// stats. A record count that is not a multiple of the per-position pair
// count suggests the synthetic catalog and the reference SnpEff used
// disagree, so it is logged as a warning.
func (a *Assembler) AssembleAll(r VariantReader) error {
	for {
		v, err := r.Next()
		if err != nil {
			return fmt.Errorf("read annotated record: %w", err)
		}
		if v == nil {
			break
		}
		if err := a.WriteRecord(v); err != nil {
			return err
		}
	}

	if a.stats.Records%int64(genome.PairsPerPosition) != 0 {
		a.logger.Warn("annotated record count is not a multiple of the per-position pair count; catalog and reference genome may disagree",
			zap.Int64("records", a.stats.Records))
	}
	a.logger.Info("mapping table assembled",
		zap.Int64("records", a.stats.Records),
		zap.Int64("records_skipped", a.stats.RecordsSkipped),
		zap.Int64("mutations", a.stats.Mutations),
		zap.Int64("mutations_dropped", a.stats.MutationsDropped),
		zap.Int64("entries", a.stats.Entries))

	return a.Flush()
}

// Stats returns the counters accumulated so far.
func (a *Assembler) Stats() Stats {
	return a.stats
}

// Flush flushes buffered rows.
func (a *Assembler) Flush() error {
	return a.w.Flush()
}

// Close flushes and, when the assembler owns its file, closes it.
func (a *Assembler) Close() error {
	if err := a.w.Flush(); err != nil {
		if a.f != nil {
			a.f.Close()
		}
		return err
	}
	if a.f != nil {
		return a.f.Close()
	}
	return nil
}
