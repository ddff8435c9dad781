// Package storage keeps each scan's artifacts as flat JSON blobs inside an
// id-scoped workspace directory, so concurrent scans never share state.
package storage

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

// Workspace subdirectories created per scan.
var scanDirs = []string{"input", "raw", "normalized", "metrics", "score"}

// Well-known artifact paths relative to a scan's workspace.
const (
	RawIngestion     = "raw/ingestion.json"
	RawFlake8        = "raw/flake8.json"
	RawBandit        = "raw/bandit.json"
	RawRunnerDone    = "raw/runner_done.json"
	RawWarnings      = "raw/runner_warnings.json"
	RawPipelineError = "raw/pipeline_error.json"
	NormFlake8       = "normalized/flake8.normalized.json"
	NormBandit       = "normalized/bandit.normalized.json"
	NormUnified      = "normalized/unified.json"
	MetricsDoc       = "metrics/metrics.json"
	ScoreDoc         = "score/score.json"
)

type Store struct {
	base string
}

func New(base string) (*Store, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{base: abs}, nil
}

// Create allocates a fresh scan workspace and returns its id.
func (s *Store) Create() (string, error) {
	id := uuid.NewString()
	for _, d := range scanDirs {
		if err := os.MkdirAll(filepath.Join(s.base, id, d), 0o755); err != nil {
			return "", fmt.Errorf("create scan workspace: %w", err)
		}
	}
	return id, nil
}

func (s *Store) Exists(id string) bool {
	info, err := os.Stat(filepath.Join(s.base, id))
	return err == nil && info.IsDir()
}

// Path resolves a scan-relative path inside the workspace.
func (s *Store) Path(id string, parts ...string) string {
	return filepath.Join(append([]string{s.base, id}, parts...)...)
}

func (s *Store) InputDir(id string) string {
	return s.Path(id, "input")
}

// WriteJSON persists v at the scan-relative path, creating parents.
func (s *Store) WriteJSON(id, rel string, v any) error {
	p := s.Path(id, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// ReadJSON loads the blob at rel into v. The bool reports whether the
// artifact exists; a missing artifact is not an error.
func (s *Store) ReadJSON(id, rel string, v any) (bool, error) {
	data, err := os.ReadFile(s.Path(id, rel))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, err
	}
	return true, nil
}

// ReadRaw returns the blob bytes, or nil when absent.
func (s *Store) ReadRaw(id, rel string) []byte {
	data, err := os.ReadFile(s.Path(id, rel))
	if err != nil {
		return nil
	}
	return data
}

// Status derives scan state from artifact presence: the runner_done
// sidecar marks a completed pipeline.
func (s *Store) Status(id string) model.ScanStatus {
	if _, err := os.Stat(s.Path(id, RawRunnerDone)); err == nil {
		return model.StatusDone
	}
	return model.StatusReady
}

// HasPythonFiles reports whether any .py file landed under input/.
func (s *Store) HasPythonFiles(id string) bool {
	found := false
	_ = filepath.WalkDir(s.InputDir(id), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".py") {
			found = true
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// RelPath rewrites an absolute tool-reported path to a workspace-relative
// one like "input/pkg/mod.py". Paths outside the scan pass through
// unchanged so nothing is lost.
func (s *Store) RelPath(id, path string) string {
	if path == "" {
		return path
	}
	scanRoot := filepath.Join(s.base, id)
	if rel, err := filepath.Rel(scanRoot, path); err == nil && !strings.HasPrefix(rel, "..") && rel != "." {
		return filepath.ToSlash(rel)
	}
	// fallback: cut at the input/ marker for paths recorded on another root
	if i := strings.Index(path, "/input/"); i >= 0 {
		return "input/" + path[i+len("/input/"):]
	}
	return path
}
