package harness

import (
	"bytes"
	"os"
	"os/exec"
	"sort"
	"strings"
	"testing"
)

// envPrefix marks variables the CLI reads; the parent's values are dropped so
// a developer's shell cannot redirect audit rows or change output.
const envPrefix = "NEOPIR_"

var baseEnv = map[string]string{
	"NO_COLOR":          "1",
	"NEOPIR_LOG_LEVEL":  "error",
	"NEOPIR_LOG_FORMAT": "text",
}

// Run executes the CLI in workDir and returns stdout, stderr and the exit code.
func Run(t *testing.T, binPath, workDir string, args []string) (string, string, int) {
	t.Helper()
	return run(t, binPath, workDir, args, nil)
}

// RunWithEnv is Run with extra environment variables layered over the defaults.
func RunWithEnv(t *testing.T, binPath, workDir string, args []string, env map[string]string) (string, string, int) {
	t.Helper()
	return run(t, binPath, workDir, args, env)
}

// MustRun runs the CLI and fails the test on a non-zero exit. It returns stdout.
func MustRun(t *testing.T, binPath, workDir string, args ...string) string {
	t.Helper()
	stdout, stderr, code := run(t, binPath, workDir, args, nil)
	if code != 0 {
		t.Fatalf("neopir %s: exit code %d\nstdout:\n%s\nstderr:\n%s", strings.Join(args, " "), code, stdout, stderr)
	}
	return stdout
}

func run(t *testing.T, binPath, workDir string, args []string, env map[string]string) (string, string, int) {
	t.Helper()

	cmd := exec.Command(binPath, args...)
	cmd.Dir = workDir
	cmd.Env = buildEnv(os.Environ(), env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		ee, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("run %s: %v", binPath, err)
		}
		exitCode = ee.ExitCode()
	}
	return stdout.String(), stderr.String(), exitCode
}

func buildEnv(parent []string, overrides map[string]string) []string {
	env := make(map[string]string, len(parent)+len(baseEnv)+len(overrides))
	for _, entry := range parent {
		key, val, _ := strings.Cut(entry, "=")
		if strings.HasPrefix(key, envPrefix) {
			continue
		}
		env[key] = val
	}
	for k, v := range baseEnv {
		env[k] = v
	}
	for k, v := range overrides {
		env[k] = v
	}

	merged := make([]string, 0, len(env))
	for k, v := range env {
		merged = append(merged, k+"="+v)
	}
	sort.Strings(merged)
	return merged
}
