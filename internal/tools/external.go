package tools

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// Result captures one external tool invocation. Raw holds stdout, which is
// where both flake8 and bandit write their JSON payload.
type Result struct {
	Tool     string
	Raw      []byte
	Stderr   string
	ExitOK   bool
	Err      error
	Duration time.Duration
}

func RunWithTimeout(ctx context.Context, tool string, args ...string) Result {
	start := time.Now()
	cmd := exec.CommandContext(ctx, tool, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return Result{
		Tool:     tool,
		Raw:      stdout.Bytes(),
		Stderr:   stderr.String(),
		ExitOK:   err == nil,
		Err:      err,
		Duration: time.Since(start),
	}
}

// RunFlake8 lints dir. --exit-zero keeps findings from failing the run;
// the JSON formatter requires the flake8-json plugin.
func RunFlake8(ctx context.Context, dir string) Result {
	return RunWithTimeout(ctx, "flake8", dir, "--format=json", "--exit-zero")
}

// RunBandit scans dir recursively for security findings.
func RunBandit(ctx context.Context, dir string) Result {
	return RunWithTimeout(ctx, "bandit", "-r", dir, "-f", "json", "-q", "--exit-zero")
}
