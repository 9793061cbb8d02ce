package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)

// testEnv captures everything a command writes or triggers
type testEnv struct {
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
	exitCode   int
	exited     bool
	copied     string
	copyErr    error
	configPath string
	dir        string
}

// setupTest installs test dependencies with a config path inside a temp dir
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		stdout:     &bytes.Buffer{},
		stderr:     &bytes.Buffer{},
		configPath: filepath.Join(dir, "config.toml"),
		dir:        dir,
	}

	SetDeps(&Deps{
		Stdout: env.stdout,
		Stderr: env.stderr,
		Stdin:  strings.NewReader(""),
		Exit: func(code int) {
			env.exited = true
			env.exitCode = code
		},
		ConfigPath: func() (string, error) {
			return env.configPath, nil
		},
		Clipboard: func(text string) error {
			env.copied = text
			return env.copyErr
		},
		Now: func() time.Time { return testNow },
	})
	t.Cleanup(ResetDeps)
	return env
}

// writeFile writes content to name inside the test dir and returns its path
func (e *testEnv) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func (e *testEnv) assertExit(t *testing.T, code int) {
	t.Helper()
	if !e.exited {
		t.Fatalf("Expected exit(%d), command returned normally. stderr: %s", code, e.stderr.String())
	}
	if e.exitCode != code {
		t.Errorf("Expected exit code %d, got %d", code, e.exitCode)
	}
}

func (e *testEnv) assertNoExit(t *testing.T) {
	t.Helper()
	if e.exited {
		t.Fatalf("Unexpected exit(%d). stderr: %s", e.exitCode, e.stderr.String())
	}
}
