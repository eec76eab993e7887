package snpeff

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeCommand replaces the java invocation with a shell script for the
// duration of a test.
func fakeCommand(t *testing.T, script string) {
	t.Helper()
	orig := execCommand
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "sh", "-c", script)
	}
	t.Cleanup(func() { execCommand = orig })
}

func TestRunner_CommandArgs(t *testing.T) {
	r := NewRunner("/opt/snpeff/snpEff.jar", "out.vcf")
	cmd := execCommand(context.Background(), "java", "-jar", r.JarPath, "eff", "NC_045512.2", "dummy.vcf")
	want := []string{"java", "-jar", "/opt/snpeff/snpEff.jar", "eff", "NC_045512.2", "dummy.vcf"}
	if strings.Join(cmd.Args, " ") != strings.Join(want, " ") {
		t.Errorf("command args = %v, want %v", cmd.Args, want)
	}
}

func TestRunner_WritesStdoutToOutput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "annotated.vcf")
	fakeCommand(t, "printf '##fileformat=VCFv4.2\\n#CHROM\\tPOS\\tID\\tREF\\tALT\\n'")

	r := NewRunner("snpEff.jar", outPath)
	got, err := r.Annotate(context.Background(), "dummy.vcf", "NC_045512.2")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if got != outPath {
		t.Errorf("Annotate returned %q, want %q", got, outPath)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "##fileformat=VCFv4.2") {
		t.Errorf("unexpected annotated output: %q", string(data))
	}
}

func TestRunner_NonZeroExitIsFatal(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "annotated.vcf")
	fakeCommand(t, "echo 'partial output'; echo 'snpeff blew up' >&2; exit 3")

	r := NewRunner("snpEff.jar", outPath)
	_, err := r.Annotate(context.Background(), "dummy.vcf", "NC_045512.2")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "snpeff eff NC_045512.2 dummy.vcf") {
		t.Errorf("error should name the failing command, got: %v", err)
	}
	if !strings.Contains(err.Error(), "snpeff blew up") {
		t.Errorf("error should carry stderr, got: %v", err)
	}

	// The partial output file must not survive a failed run.
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("partial annotated file was left behind after failure")
	}
}

func TestRunner_Timeout(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "annotated.vcf")
	fakeCommand(t, "sleep 10")

	r := NewRunner("snpEff.jar", outPath)
	r.Timeout = 50 * time.Millisecond
	r.WaitDelay = 250 * time.Millisecond

	start := time.Now()
	_, err := r.Annotate(context.Background(), "dummy.vcf", "NC_045512.2")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout diagnostic, got: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("timeout did not bound the subprocess")
	}
}

// A killed shell can leave a descendant holding the stderr pipe's write
// end, the way a java launcher leaves forked children behind. The wait
// must not be gated on that descendant exiting.
func TestRunner_TimeoutWithSurvivingDescendant(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "annotated.vcf")
	fakeCommand(t, "sleep 10 & wait")

	r := NewRunner("snpEff.jar", outPath)
	r.Timeout = 50 * time.Millisecond
	r.WaitDelay = 250 * time.Millisecond

	start := time.Now()
	_, err := r.Annotate(context.Background(), "dummy.vcf", "NC_045512.2")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("wait blocked on surviving descendant for %s", elapsed)
	}

	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("partial annotated file was left behind after timeout")
	}
}
