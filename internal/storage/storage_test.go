package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCreateAndExists(t *testing.T) {
	s := newStore(t)
	id, err := s.Create()
	if err != nil {
		t.Fatal(err)
	}
	if !s.Exists(id) {
		t.Error("created scan should exist")
	}
	if s.Exists("nope") {
		t.Error("unknown scan should not exist")
	}
	for _, d := range []string{"input", "raw", "normalized", "metrics", "score"} {
		if _, err := os.Stat(s.Path(id, d)); err != nil {
			t.Errorf("missing workspace dir %s: %v", d, err)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := newStore(t)
	id, _ := s.Create()

	want := map[string]int{"issues": 3}
	if err := s.WriteJSON(id, MetricsDoc, want); err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	found, err := s.ReadJSON(id, MetricsDoc, &got)
	if err != nil || !found {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if got["issues"] != 3 {
		t.Errorf("got %+v", got)
	}

	found, err = s.ReadJSON(id, ScoreDoc, &got)
	if found || err != nil {
		t.Errorf("missing artifact: found=%v err=%v", found, err)
	}
}

func TestStatus(t *testing.T) {
	s := newStore(t)
	id, _ := s.Create()
	if got := s.Status(id); got != model.StatusReady {
		t.Errorf("status = %q, want READY", got)
	}
	if err := s.WriteJSON(id, RawRunnerDone, map[string]string{"status": "DONE"}); err != nil {
		t.Fatal(err)
	}
	if got := s.Status(id); got != model.StatusDone {
		t.Errorf("status = %q, want DONE", got)
	}
}

func TestHasPythonFiles(t *testing.T) {
	s := newStore(t)
	id, _ := s.Create()
	if s.HasPythonFiles(id) {
		t.Error("empty input should have no python files")
	}
	p := filepath.Join(s.InputDir(id), "pkg", "mod.py")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if !s.HasPythonFiles(id) {
		t.Error("expected python file to be found")
	}
}

func TestRelPath(t *testing.T) {
	s := newStore(t)
	id, _ := s.Create()

	abs := filepath.Join(s.InputDir(id), "pkg", "mod.py")
	if got := s.RelPath(id, abs); got != "input/pkg/mod.py" {
		t.Errorf("RelPath(%q) = %q", abs, got)
	}
	// paths recorded on a different root still cut at the input marker
	if got := s.RelPath(id, "/elsewhere/scans/xyz/input/a.py"); got != "input/a.py" {
		t.Errorf("marker fallback = %q", got)
	}
	// unrelated paths pass through so rewriting stays lossless
	if got := s.RelPath(id, "/usr/lib/python3/os.py"); got != "/usr/lib/python3/os.py" {
		t.Errorf("unrelated path rewritten to %q", got)
	}
	if got := s.RelPath(id, ""); got != "" {
		t.Errorf("empty path rewritten to %q", got)
	}
}
