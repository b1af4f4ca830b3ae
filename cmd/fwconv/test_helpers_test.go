package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fwconv/internal/testsupport"
)

const (
	sampleHeader = "f1   f2          f3 f4f5           f6     f7        f8           f9                  f10          \n"
	sampleLine   = "Ms   Michael     32 vr40.7128      -74.005-100      1.0001       abcdefg1234###q     Pradnya      \n"
	sampleRecord = `{"f1":"Ms","f2":"Michael","f3":32,"f4":"vr","f5":40.7128,"f6":-74.005,"f7":-100,"f8":1.0001,"f9":"abcdefg1234###q","f10":"Pradnya"}`
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	journalPath string
	layoutPath  string
}

// setupCLITestEnv isolates HOME and writes a config with the journal enabled
// plus the sample layout.
func setupCLITestEnv(t *testing.T, opts ...testsupport.LayoutOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("FWCONV_LOG_LEVEL", "")

	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(homeDir, ".config", "fwconv", "config.toml"),
		journalPath: filepath.Join(base, "state", "journal.db"),
	}
	writeTestConfig(t, env.configPath, env.journalPath, true)
	env.layoutPath = testsupport.WriteLayoutFile(t, base, testsupport.LayoutConfig(opts...))
	return env
}

func (e *cliTestEnv) path(name string) string {
	return filepath.Join(e.baseDir, name)
}

func writeTestConfig(t *testing.T, path, journalPath string, journalEnabled bool) {
	t.Helper()
	content := fmt.Sprintf(
		"[logging]\nlevel = %q\n\n[journal]\nenabled = %t\npath = %q\n",
		"error",
		journalEnabled,
		journalPath,
	)
	testsupport.WriteFile(t, path, []byte(content))
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
