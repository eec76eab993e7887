package vcf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/CovidMutations/mutmap/internal/genome"
)

// FileFormat is the VCF version declared in the synthetic catalog header.
const FileFormat = "VCFv4.2"

// columnHeader is the full #CHROM line. The generator only fills the first
// five columns per row, but the annotation tool expects the complete column
// set to be declared.
const columnHeader = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tsample"

// SyntheticWriter serializes enumerated substitutions to a minimal VCF
// file, one row per substitution.
//
// The file is opened in append mode: invoking the generator twice against
// the same path accumulates records. Callers that need an idempotent run
// must remove the path first.
type SyntheticWriter struct {
	f         *os.File
	w         *bufio.Writer
	genomeRef string
}

// NewSyntheticWriter opens (or creates) the catalog file for appending.
// genomeRef is written as the CHROM column of every row and must name the
// reference the annotation tool was built against.
func NewSyntheticWriter(path, genomeRef string) (*SyntheticWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	return &SyntheticWriter{
		f:         f,
		w:         bufio.NewWriter(f),
		genomeRef: genomeRef,
	}, nil
}

// WriteHeader writes the fileformat line and the column header line.
func (sw *SyntheticWriter) WriteHeader() error {
	if _, err := sw.w.WriteString("##fileformat=" + FileFormat + "\n"); err != nil {
		return err
	}
	_, err := sw.w.WriteString(columnHeader + "\n")
	return err
}

// Write serializes one substitution as a tab-separated row. The ID column
// is the "." placeholder; trailing columns are omitted.
func (sw *SyntheticWriter) Write(s *genome.Substitution) error {
	row := sw.genomeRef + "\t" + strconv.FormatInt(s.Pos, 10) + "\t.\t" +
		string(s.Ref) + "\t" + string(s.Alt) + "\n"
	_, err := sw.w.WriteString(row)
	return err
}

// WriteAll drains an enumerator into the file and returns the number of
// rows written.
func (sw *SyntheticWriter) WriteAll(e *genome.Enumerator) (int64, error) {
	var n int64
	for s := e.Next(); s != nil; s = e.Next() {
		if err := sw.Write(s); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Flush flushes buffered rows to disk.
func (sw *SyntheticWriter) Flush() error {
	return sw.w.Flush()
}

// Close flushes and closes the underlying file.
func (sw *SyntheticWriter) Close() error {
	if err := sw.w.Flush(); err != nil {
		sw.f.Close()
		return err
	}
	return sw.f.Close()
}
