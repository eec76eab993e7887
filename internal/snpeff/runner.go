// Package snpeff invokes the external SnpEff annotation tool.
package snpeff

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Annotator produces an annotated VCF file from a variant-record file and a
// reference genome identifier. It returns the path of the annotated file.
//
// A non-nil error means the whole pipeline run must abort: a partially
// written annotated file is never trusted.
type Annotator interface {
	Annotate(ctx context.Context, vcfPath, genomeRef string) (string, error)
}

// DefaultTimeout bounds a single SnpEff invocation. Annotating the full
// synthetic catalog (~350K records) takes minutes, not hours.
const DefaultTimeout = 30 * time.Minute

// DefaultWaitDelay bounds how long Annotate waits for the stderr pipe to
// close after the process is killed. The java launcher forks children that
// inherit the pipe's write end; without this bound Run blocks until the
// last descendant exits on its own.
const DefaultWaitDelay = 5 * time.Second

// Runner runs SnpEff as a subprocess:
//
//	java -jar <snpEff.jar> eff <genomeRef> <in.vcf>
//
// with stdout redirected into the annotated output file.
type Runner struct {
	JarPath   string        // path to snpEff.jar
	OutPath   string        // where the annotated VCF is written
	Timeout   time.Duration // zero disables the bound
	WaitDelay time.Duration // grace period for pipe teardown after a kill
	logger    *zap.Logger
}

// execCommand is swapped out in tests.
var execCommand = exec.CommandContext

// NewRunner creates a runner writing its annotated output to outPath.
func NewRunner(jarPath, outPath string) *Runner {
	return &Runner{
		JarPath:   jarPath,
		OutPath:   outPath,
		Timeout:   DefaultTimeout,
		WaitDelay: DefaultWaitDelay,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for command diagnostics.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Annotate runs SnpEff against vcfPath. On any failure (non-zero exit,
// timeout, unstartable process) the partial output file is removed and an
// error naming the command is returned.
func (r *Runner) Annotate(ctx context.Context, vcfPath, genomeRef string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	out, err := os.Create(r.OutPath)
	if err != nil {
		return "", fmt.Errorf("create annotated file: %w", err)
	}

	cmd := execCommand(ctx, "java", "-jar", r.JarPath, "eff", genomeRef, vcfPath)
	cmd.Stdout = out
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// The buffer makes Wait block on the stderr pipe; surviving SnpEff
	// descendants hold its write end after a deadline kill, so the wait
	// itself must be bounded too.
	cmd.WaitDelay = r.WaitDelay

	r.logger.Info("running snpeff",
		zap.String("command", strings.Join(cmd.Args, " ")),
		zap.String("out", r.OutPath))

	runErr := cmd.Run()
	closeErr := out.Close()

	if runErr != nil {
		os.Remove(r.OutPath)
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("snpeff eff %s %s: timed out after %s", genomeRef, vcfPath, r.Timeout)
		}
		return "", fmt.Errorf("snpeff eff %s %s: %w (stderr: %s)",
			genomeRef, vcfPath, runErr, tail(stderr.String()))
	}
	if closeErr != nil {
		os.Remove(r.OutPath)
		return "", fmt.Errorf("close annotated file: %w", closeErr)
	}

	return r.OutPath, nil
}

// tail returns the last few lines of SnpEff's stderr for the error message.
func tail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "<empty>"
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, " / ")
}
