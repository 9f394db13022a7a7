package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"cardwatch/internal/config"
	"cardwatch/internal/remote"
)

// TestHelperProcess is re-executed as the fake pipeline binary. Behavior is
// selected through PIPELINE_HELPER_MODE.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("PIPELINE_HELPER_MODE") {
	case "success":
		for i := 1; i <= 8; i++ {
			fmt.Printf("corrected card %d\n", i)
		}
		os.Exit(0)
	case "fail":
		fmt.Fprintln(os.Stderr, "cannot open spreadsheet")
		fmt.Fprintln(os.Stderr, "aborting batch")
		os.Exit(3)
	case "sleep":
		time.Sleep(5 * time.Second)
		os.Exit(0)
	default:
		os.Exit(0)
	}
}

func fakePipeline(t *testing.T, mode string, capture *[]string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		if capture != nil {
			*capture = append([]string(nil), args...)
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "PIPELINE_HELPER_MODE="+mode)
		return cmd
	}
	t.Cleanup(func() { commandContext = original })
}

func testRunner(timeout time.Duration) *Runner {
	r := NewRunner(config.Pipeline{Command: "corrigir", Args: []string{"--lote"}, TimeoutSeconds: 600}, nil)
	if timeout > 0 {
		r.timeout = timeout
	}
	return r
}

func batchOf(n int) []remote.Item {
	batch := make([]remote.Item, n)
	for i := range batch {
		batch[i] = remote.Item{ID: fmt.Sprintf("id-%d", i), Name: fmt.Sprintf("card%d.png", i)}
	}
	return batch
}

func TestRunSuccessCapturesStdoutTail(t *testing.T) {
	fakePipeline(t, "success", nil)

	outcome := testRunner(0).Run(context.Background(), "folder-1", batchOf(2))

	if !outcome.Succeeded {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", outcome.ExitCode)
	}
	if outcome.DurationExceeded {
		t.Error("DurationExceeded should be false on success")
	}
	if len(outcome.StdoutTail) != 5 {
		t.Fatalf("StdoutTail = %v, want last 5 lines", outcome.StdoutTail)
	}
	if outcome.StdoutTail[4] != "corrected card 8" {
		t.Errorf("tail should end with last output line, got %q", outcome.StdoutTail[4])
	}
}

func TestRunNonZeroExitCapturesStderrTail(t *testing.T) {
	fakePipeline(t, "fail", nil)

	outcome := testRunner(0).Run(context.Background(), "folder-1", batchOf(1))

	if outcome.Succeeded {
		t.Fatal("expected failure")
	}
	if outcome.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", outcome.ExitCode)
	}
	if outcome.DurationExceeded {
		t.Error("DurationExceeded should be false for plain exit failure")
	}
	if len(outcome.StderrTail) != 2 || outcome.StderrTail[0] != "cannot open spreadsheet" {
		t.Errorf("StderrTail = %v", outcome.StderrTail)
	}
}

func TestRunTimeoutKillsProcess(t *testing.T) {
	fakePipeline(t, "sleep", nil)

	start := time.Now()
	outcome := testRunner(200 * time.Millisecond).Run(context.Background(), "folder-1", batchOf(1))
	elapsed := time.Since(start)

	if outcome.Succeeded {
		t.Fatal("expected failure on timeout")
	}
	if !outcome.DurationExceeded {
		t.Error("DurationExceeded should be true")
	}
	if elapsed > 3*time.Second {
		t.Errorf("process not reclaimed promptly, Run took %v", elapsed)
	}
}

func TestRunMissingBinaryReportsFailure(t *testing.T) {
	r := NewRunner(config.Pipeline{Command: "/nonexistent/corrigir-pipeline", TimeoutSeconds: 5}, nil)

	outcome := r.Run(context.Background(), "folder-1", batchOf(1))

	if outcome.Succeeded {
		t.Fatal("expected failure for missing binary")
	}
	if outcome.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1 for spawn fault", outcome.ExitCode)
	}
	if len(outcome.StderrTail) == 0 {
		t.Error("spawn fault should surface in StderrTail")
	}
}

func TestRunAppendsFolderArgument(t *testing.T) {
	var captured []string
	fakePipeline(t, "success", &captured)

	testRunner(0).Run(context.Background(), "folder-xyz", batchOf(1))

	if len(captured) == 0 || captured[len(captured)-1] != "folder-xyz" {
		t.Errorf("folder id should be the final argument, got %v", captured)
	}
	if captured[0] != "--lote" {
		t.Errorf("configured args should precede the folder id, got %v", captured)
	}
}

func TestLastLines(t *testing.T) {
	cases := []struct {
		input string
		n     int
		want  []string
	}{
		{"", 5, nil},
		{"a\nb\nc\n", 2, []string{"b", "c"}},
		{"a\r\nb\r\n", 5, []string{"a", "b"}},
		{"a\n\n\nb\n", 5, []string{"a", "b"}},
		{"only\n", 0, nil},
	}
	for _, tc := range cases {
		got := lastLines(tc.input, tc.n)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Errorf("lastLines(%q, %d) = %v, want %v", tc.input, tc.n, got, tc.want)
		}
	}
}
