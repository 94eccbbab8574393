package importer

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRunner stands in for curl, unzip, gunzip and osmconvert by doing the
// equivalent filesystem work in-process.
type fakeRunner struct {
	// curl serves these URLs; anything else fails like --fail on a 404
	urls map[string][]byte

	// tools listed here exit non-zero
	fail map[string]bool

	calls []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		urls: make(map[string][]byte),
		fail: make(map[string]bool),
	}
}

func exitError(t *testing.T) error {
	err := exec.Command("sh", "-c", "exit 3").Run()
	if err == nil {
		t.Fatalf("expected exit error")
	}
	return err
}

func (r *fakeRunner) ran(name string) int {
	var n int
	for _, call := range r.calls {
		if strings.HasPrefix(call, name+" ") {
			n++
		}
	}
	return n
}

func flagValue(args []string, prefix string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, prefix) {
			return strings.TrimPrefix(arg, prefix)
		}
	}
	return ""
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	command := FormatCommand(name, args...)
	r.calls = append(r.calls, command)
	if r.fail[name] {
		return &CommandError{Command: command, Err: &exec.ExitError{}}
	}
	switch name {
	case "curl":
		// curl --fail -L -o DST URL
		dst, url := args[3], args[4]
		body, ok := r.urls[url]
		if !ok {
			return &CommandError{Command: command, Err: &exec.ExitError{}}
		}
		return os.WriteFile(dst, body, 0644)
	case "unzip":
		// unzip SRC -d DIR
		return unzipTo(args[0], args[2])
	case "gunzip":
		return gunzip(args[0])
	case "osmconvert":
		// osmconvert INPUT -B=POLY --complete-ways -o=OUT
		data, err := os.ReadFile(args[0])
		if err != nil {
			return &CommandError{Command: command, Err: err}
		}
		out := flagValue(args, "-o=")
		return os.WriteFile(out, append([]byte("clipped:"), data...), 0644)
	}
	return &CommandError{Command: command, Err: exec.ErrNotFound}
}

func unzipTo(src string, dir string) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer zr.Close()
	for _, f := range zr.File {
		dst := filepath.Join(dir, f.Name)
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return err
		}
	}
	return nil
}

func gunzip(src string) error {
	if !strings.HasSuffix(src, ".gz") {
		return fmt.Errorf("%s: unknown suffix", src)
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		return err
	}
	if err := os.WriteFile(strings.TrimSuffix(src, ".gz"), data, 0644); err != nil {
		return err
	}
	return os.Remove(src)
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func gzipBytes(t *testing.T, body string) []byte {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(body)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

// leftovers lists temp artifacts still present anywhere under dir.
func leftovers(t *testing.T, dir string) []string {
	var found []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(info.Name(), tmpPrefix) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return found
}

func TestExecRunnerReportsFailures(t *testing.T) {
	ctx := context.Background()

	err := ExecRunner{}.Run(ctx, "sh", "-c", "exit 2")
	if err == nil {
		t.Fatalf("expected error from non-zero exit")
	}
	if IsSpawnFailure(err) {
		t.Errorf("non-zero exit reported as spawn failure: %v", err)
	}
	if !strings.Contains(err.Error(), "sh -c exit 2") {
		t.Errorf("error should name the command, got %q", err.Error())
	}

	err = ExecRunner{}.Run(ctx, "definitely-not-a-real-tool-xyz")
	if err == nil {
		t.Fatalf("expected error from missing tool")
	}
	if !IsSpawnFailure(err) {
		t.Errorf("missing tool not reported as spawn failure: %v", err)
	}
	if !strings.Contains(err.Error(), "definitely-not-a-real-tool-xyz") {
		t.Errorf("error should name the command, got %q", err.Error())
	}

	if err := (ExecRunner{}).Run(ctx, "true"); err != nil {
		t.Errorf("true failed: %v", err)
	}
}

func TestIsSpawnFailureIgnoresOtherErrors(t *testing.T) {
	if IsSpawnFailure(fmt.Errorf("boom")) {
		t.Errorf("plain errors are not command errors")
	}
	wrapped := fmt.Errorf("step: %w", &CommandError{Command: "curl x", Err: exitError(t)})
	if IsSpawnFailure(wrapped) {
		t.Errorf("exit error reported as spawn failure")
	}
}
