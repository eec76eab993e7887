// Package pipeline wires the mutation-mapping stages together: catalog
// generation, external annotation, and mapping-table assembly.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/CovidMutations/mutmap/internal/genome"
	"github.com/CovidMutations/mutmap/internal/mapping"
	"github.com/CovidMutations/mutmap/internal/snpeff"
	"github.com/CovidMutations/mutmap/internal/vcf"
)

// Config holds the file paths and genome parameters for one run.
type Config struct {
	GenomeRef    string // reference identifier, e.g. "NC_045512.2"
	GenomeLength int64  // must match the reference the annotator uses
	CatalogPath  string // synthetic VCF written by stage 1+2
	MappingPath  string // final mapping table written by stage 6
}

// Pipeline runs the stages sequentially. The annotator is injected so
// tests can substitute canned output for the external tool.
type Pipeline struct {
	cfg       Config
	annotator snpeff.Annotator
	sink      mapping.EntrySink
	logger    *zap.Logger
}

// New creates a pipeline for the given configuration and annotator.
func New(cfg Config, annotator snpeff.Annotator) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		annotator: annotator,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for stage progress.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
}

// SetSink attaches a secondary destination for assembled entries.
func (p *Pipeline) SetSink(s mapping.EntrySink) {
	p.sink = s
}

// Run executes the full pipeline. Both output files are removed first so a
// re-run does not accumulate rows on top of a previous one (the writers
// append). Any stage failure aborts the run.
func (p *Pipeline) Run(ctx context.Context) (mapping.Stats, error) {
	if err := removeIfExists(p.cfg.CatalogPath); err != nil {
		return mapping.Stats{}, err
	}
	if err := removeIfExists(p.cfg.MappingPath); err != nil {
		return mapping.Stats{}, err
	}

	n, err := Generate(p.cfg.CatalogPath, p.cfg.GenomeRef, p.cfg.GenomeLength)
	if err != nil {
		return mapping.Stats{}, fmt.Errorf("generate catalog: %w", err)
	}
	p.logger.Info("synthetic catalog generated",
		zap.String("path", p.cfg.CatalogPath),
		zap.Int64("records", n))

	annotatedPath, err := p.annotator.Annotate(ctx, p.cfg.CatalogPath, p.cfg.GenomeRef)
	if err != nil {
		return mapping.Stats{}, fmt.Errorf("annotate catalog: %w", err)
	}
	p.logger.Info("catalog annotated", zap.String("path", annotatedPath))

	stats, err := BuildMapping(annotatedPath, p.cfg.MappingPath, p.sink, p.logger)
	if err != nil {
		return stats, fmt.Errorf("build mapping: %w", err)
	}
	p.logger.Info("mapping table written",
		zap.String("path", p.cfg.MappingPath),
		zap.Int64("entries", stats.Entries))

	return stats, nil
}

// Generate writes the full synthetic substitution catalog for a genome of
// the given length and returns the number of records written.
func Generate(path, genomeRef string, length int64) (int64, error) {
	w, err := vcf.NewSyntheticWriter(path, genomeRef)
	if err != nil {
		return 0, err
	}
	if err := w.WriteHeader(); err != nil {
		w.Close()
		return 0, fmt.Errorf("write catalog header: %w", err)
	}
	n, err := w.WriteAll(genome.NewEnumerator(length))
	if err != nil {
		w.Close()
		return n, fmt.Errorf("write catalog records: %w", err)
	}
	return n, w.Close()
}

// BuildMapping parses an annotated VCF and writes the mapping table.
// A nil sink disables the secondary destination.
func BuildMapping(annotatedPath, outPath string, sink mapping.EntrySink, logger *zap.Logger) (mapping.Stats, error) {
	parser, err := vcf.NewParser(annotatedPath)
	if err != nil {
		return mapping.Stats{}, err
	}
	defer parser.Close()

	asm, err := mapping.OpenAssembler(outPath)
	if err != nil {
		return mapping.Stats{}, err
	}
	if logger != nil {
		asm.SetLogger(logger)
	}
	if sink != nil {
		asm.SetSink(sink)
	}

	if err := asm.WriteHeader(); err != nil {
		asm.Close()
		return asm.Stats(), fmt.Errorf("write mapping header: %w", err)
	}
	if err := asm.AssembleAll(parser); err != nil {
		asm.Close()
		return asm.Stats(), err
	}
	return asm.Stats(), asm.Close()
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale output %s: %w", path, err)
	}
	return nil
}
