// Package ingest brings user code into a scan's input/ directory, applying
// the locked filter rules: Python files only, size-capped, vendor and
// build directories excluded.
package ingest

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MaxFileSizeBytes caps individual source files at 1 MiB.
	MaxFileSizeBytes = 1 << 20

	skippedSampleLimit = 25
)

var defaultExcludedDirs = []string{
	".git", "node_modules", "dist", "build", ".venv", "venv", "__pycache__",
	".mypy_cache", "coverage", ".pytest_cache", ".next", "target",
}

var defaultAllowedExts = []string{".py"}

type Rules struct {
	ExcludedDirs     map[string]struct{}
	AllowedExts      map[string]struct{}
	MaxFileSizeBytes int64
}

func DefaultRules() Rules {
	r := Rules{
		ExcludedDirs:     make(map[string]struct{}, len(defaultExcludedDirs)),
		AllowedExts:      make(map[string]struct{}, len(defaultAllowedExts)),
		MaxFileSizeBytes: MaxFileSizeBytes,
	}
	for _, d := range defaultExcludedDirs {
		r.ExcludedDirs[d] = struct{}{}
	}
	for _, e := range defaultAllowedExts {
		r.AllowedExts[e] = struct{}{}
	}
	return r
}

// excludedPath reports whether any segment of the slash-separated relative
// path is an excluded directory name.
func (r Rules) excludedPath(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if _, ok := r.ExcludedDirs[part]; ok {
			return true
		}
	}
	return false
}

func (r Rules) allowedExt(name string) bool {
	_, ok := r.AllowedExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

type SkippedFile struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

type Source struct {
	Type     string `json:"type"`
	Filename string `json:"filename,omitempty"`
	RepoURL  string `json:"repo_url,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Repo     string `json:"repo,omitempty"`
	Ref      string `json:"ref,omitempty"`
}

// Summary is the ingestion report persisted as raw/ingestion.json.
type Summary struct {
	Kept              int           `json:"kept"`
	Skipped           int           `json:"skipped"`
	MaxFileSizeBytes  int64         `json:"max_file_size_bytes"`
	AllowedExtensions []string      `json:"allowed_extensions"`
	ExcludedDirs      []string      `json:"excluded_dirs"`
	SkippedSamples    []SkippedFile `json:"skipped_samples"`
	Source            Source        `json:"source"`
}

func newSummary(rules Rules) Summary {
	exts := make([]string, 0, len(rules.AllowedExts))
	for e := range rules.AllowedExts {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	dirs := make([]string, 0, len(rules.ExcludedDirs))
	for d := range rules.ExcludedDirs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return Summary{
		MaxFileSizeBytes:  rules.MaxFileSizeBytes,
		AllowedExtensions: exts,
		ExcludedDirs:      dirs,
		SkippedSamples:    []SkippedFile{},
	}
}

func (s *Summary) recordSkip(rel, reason string) {
	s.Skipped++
	if len(s.SkippedSamples) < skippedSampleLimit {
		s.SkippedSamples = append(s.SkippedSamples, SkippedFile{File: filepath.ToSlash(rel), Reason: reason})
	}
}

// CopyTree walks srcRoot and copies every allowed file into inputDir,
// preserving relative structure. Filter decisions are tallied in the
// returned Summary; walking never fails on an individual file.
func CopyTree(srcRoot, inputDir string, rules Rules) (Summary, error) {
	sum := newSummary(rules)

	err := filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(srcRoot, path)
		if relErr != nil || rel == "." {
			return nil
		}
		if d.IsDir() {
			if _, ok := rules.ExcludedDirs[d.Name()]; ok {
				return fs.SkipDir
			}
			return nil
		}
		if rules.excludedPath(rel) {
			sum.recordSkip(rel, "excluded_dir")
			return nil
		}
		if !rules.allowedExt(d.Name()) {
			sum.recordSkip(rel, "not_allowed")
			return nil
		}
		info, statErr := d.Info()
		if statErr != nil {
			sum.recordSkip(rel, "stat_failed")
			return nil
		}
		if info.Size() > rules.MaxFileSizeBytes {
			sum.recordSkip(rel, "too_large")
			return nil
		}
		if copyErr := copyFile(path, filepath.Join(inputDir, rel)); copyErr != nil {
			sum.recordSkip(rel, "copy_failed")
			return nil
		}
		sum.Kept++
		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("walk %s: %w", srcRoot, err)
	}
	return sum, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

// SavePaste writes a single pasted source file into inputDir. The filename
// is validated against path traversal and must carry an allowed extension.
func SavePaste(inputDir, filename, content string, rules Rules) (string, error) {
	name := strings.TrimSpace(strings.ReplaceAll(filename, "\\", "/"))
	if name == "" || strings.HasPrefix(name, "/") || strings.HasPrefix(name, "..") || strings.Contains(name, "/..") {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	if !rules.allowedExt(name) {
		return "", fmt.Errorf("only %s files are accepted", strings.Join(sortedKeys(rules.AllowedExts), ", "))
	}
	dst := filepath.Join(inputDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
		return "", err
	}
	return name, nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
