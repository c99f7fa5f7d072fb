package cli

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.Execute()
}

func firstLine(t *testing.T, path string) string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	s := bufio.NewScanner(f)
	if !s.Scan() {
		t.Fatalf("%s is empty", path)
	}
	return s.Text()
}

func TestRootCommand_Pigeonhole(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	if err := runCommand(t, "-g", "pigeon", "-n", "3", "-f", base); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	if got := firstLine(t, base+".cnf"); got != "p cnf 12 22" {
		t.Errorf("header = %q, want %q", got, "p cnf 12 22")
	}
}

func TestRootCommand_VariableOrder(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	if err := runCommand(t, "-g", "pigeon", "-n", "3", "-e", "sinz", "-f", base, "-o"); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	data, err := os.ReadFile(base + "_variable.order")
	if err != nil {
		t.Fatalf("read order file: %v", err)
	}
	if len(data) == 0 {
		t.Error("variable order file is empty")
	}
	if _, err := os.Stat(base + "_bucket.order"); !os.IsNotExist(err) {
		t.Errorf("bucket order file should not exist, stat err = %v", err)
	}
}

func TestRootCommand_BucketOrder(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	if err := runCommand(t, "-g", "pigeon", "-n", "3", "-e", "sinz", "-f", base, "-p"); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	for _, suffix := range []string{"_variable.order", "_bucket.order"} {
		data, err := os.ReadFile(base + suffix)
		if err != nil {
			t.Fatalf("read %s: %v", suffix, err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", suffix)
		}
	}
}

func TestRootCommand_Blocking(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	if err := runCommand(t, "-g", "pigeon", "-n", "3", "-f", base, "-b", "2"); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	data, err := os.ReadFile(base + ".cnf")
	if err != nil {
		t.Fatalf("read cnf: %v", err)
	}
	if !strings.Contains(string(data), "c Below are the blocked clauses from perfect matchings") {
		t.Error("cnf is missing the blocked clause comment")
	}
}

func TestRootCommand_Manifest(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "out")
	manifestPath := filepath.Join(dir, "bench.toml")
	contents := "graph = \"pigeon\"\nsize = 3\nfile = \"" + base + "\"\n"
	if err := os.WriteFile(manifestPath, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runCommand(t, "-m", manifestPath); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if got := firstLine(t, base+".cnf"); got != "p cnf 12 22" {
		t.Errorf("header = %q, want %q", got, "p cnf 12 22")
	}
}

func TestRootCommand_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no flags", nil},
		{"unknown graph", []string{"-g", "hypercube", "-f", "out"}},
		{"unknown encoding", []string{"-g", "pigeon", "-f", "out", "-e", "binary"}},
		{"conflicting orders", []string{"-g", "pigeon", "-f", "out", "-o", "-p"}},
		{"zero block prob", []string{"-g", "pigeon", "-f", "out", "-b", "2", "-B", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCommand(t, tt.args...); err == nil {
				t.Error("Execute() = nil, want error")
			}
		})
	}
}
