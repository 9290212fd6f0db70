package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"glossa/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if CheckDirectoryAccess("test", f).Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "model.keras")
	if err := os.WriteFile(f, []byte("weights"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckFileReadable("model", f); !r.Passed {
		t.Fatalf("expected readable file to pass: %s", r.Detail)
	}
	if CheckFileReadable("model", dir).Passed {
		t.Fatal("expected directory to fail")
	}
	if CheckFileReadable("model", filepath.Join(dir, "missing")).Passed {
		t.Fatal("expected missing file to fail")
	}
}

func TestCheckTracingEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if r := CheckTracingEndpoint(context.Background(), srv.URL); !r.Passed {
		t.Fatalf("expected any HTTP response to pass, got %s", r.Detail)
	}
	if r := CheckTracingEndpoint(context.Background(), ""); !r.Passed {
		t.Fatalf("expected blank endpoint to pass, got %s", r.Detail)
	}
	srv.Close()
	if r := CheckTracingEndpoint(context.Background(), srv.URL); r.Passed {
		t.Fatal("expected closed server to fail")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.RunsDir = t.TempDir()
	cfg.Paths.LexiconDir = t.TempDir()
	cfg.Classifier.ModelPath = ""

	results := RunAll(context.Background(), &cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %#v", failed)
	}
}

func TestRunAll_ReportsMissingModel(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.RunsDir = t.TempDir()
	cfg.Paths.LexiconDir = ""
	cfg.Classifier.ModelPath = filepath.Join(t.TempDir(), "absent.keras")

	failed := Failed(RunAll(context.Background(), &cfg))
	if len(failed) != 1 || failed[0].Name != "Classifier model" {
		t.Fatalf("expected classifier model failure, got %#v", failed)
	}
}
