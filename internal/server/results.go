package server

import (
	"net/http"
	"strings"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/storage"
)

// handleResults assembles raw + normalized + metrics + score into one
// payload. Tool output records absolute workspace paths; they are rewritten
// to input/-relative form here, at the presentation boundary, leaving the
// artifacts on disk untouched.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scan(w, r)
	if !ok {
		return
	}

	raw := map[string]any{
		"ingestion":       s.readAny(id, storage.RawIngestion),
		"flake8":          s.readAnyDefault(id, storage.RawFlake8),
		"bandit":          s.readAnyDefault(id, storage.RawBandit),
		"runner_done":     s.readAnyDefault(id, storage.RawRunnerDone),
		"runner_warnings": s.readAny(id, storage.RawWarnings),
		"pipeline_error":  s.readAny(id, storage.RawPipelineError),
	}
	normalized := map[string]any{
		"flake8": s.readAnyDefault(id, storage.NormFlake8),
		"bandit": s.readAnyDefault(id, storage.NormBandit),
	}

	raw["flake8"] = s.relativizeFlake8Raw(id, raw["flake8"])
	s.relativizeBanditRaw(id, raw["bandit"])
	s.relativizeIssueFiles(id, normalized["flake8"])
	s.relativizeIssueFiles(id, normalized["bandit"])

	respondJSON(w, http.StatusOK, map[string]any{
		"scan_id":    id,
		"status":     "OK",
		"raw":        raw,
		"normalized": normalized,
		"metrics":    s.readAny(id, storage.MetricsDoc),
		"score":      s.readAny(id, storage.ScoreDoc),
	})
}

// readAny loads a JSON artifact as a free-form tree; missing or broken
// artifacts surface as null.
func (s *Server) readAny(id, rel string) any {
	var v any
	found, err := s.store.ReadJSON(id, rel, &v)
	if !found || err != nil {
		return nil
	}
	return v
}

// readAnyDefault is readAny with {} for missing artifacts, matching what
// the frontend expects for the always-present documents.
func (s *Server) readAnyDefault(id, rel string) any {
	if v := s.readAny(id, rel); v != nil {
		return v
	}
	return map[string]any{}
}

// relativizeFlake8Raw rewrites both the grouping keys and each issue's
// filename in the file->issues mapping shape.
func (s *Server) relativizeFlake8Raw(id string, v any) any {
	byFile, ok := v.(map[string]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(byFile))
	for fname, items := range byFile {
		if list, ok := items.([]any); ok {
			for _, item := range list {
				if m, ok := item.(map[string]any); ok {
					if f, ok := m["filename"].(string); ok {
						m["filename"] = s.store.RelPath(id, f)
					}
				}
			}
		}
		out[s.store.RelPath(id, fname)] = items
	}
	return out
}

// relativizeBanditRaw rewrites results[].filename and any metrics keys
// that are filesystem paths.
func (s *Server) relativizeBanditRaw(id string, v any) {
	doc, ok := v.(map[string]any)
	if !ok {
		return
	}
	if results, ok := doc["results"].([]any); ok {
		for _, item := range results {
			if m, ok := item.(map[string]any); ok {
				if f, ok := m["filename"].(string); ok {
					m["filename"] = s.store.RelPath(id, f)
				}
			}
		}
	}
	if mx, ok := doc["metrics"].(map[string]any); ok {
		out := make(map[string]any, len(mx))
		for k, val := range mx {
			if strings.HasPrefix(k, "/") || strings.Contains(k, "/input/") {
				out[s.store.RelPath(id, k)] = val
			} else {
				out[k] = val
			}
		}
		doc["metrics"] = out
	}
}

// relativizeIssueFiles rewrites issues[].file in a normalized document.
func (s *Server) relativizeIssueFiles(id string, v any) {
	doc, ok := v.(map[string]any)
	if !ok {
		return
	}
	issues, ok := doc["issues"].([]any)
	if !ok {
		return
	}
	for _, item := range issues {
		if m, ok := item.(map[string]any); ok {
			if f, ok := m["file"].(string); ok {
				m["file"] = s.store.RelPath(id, f)
			}
		}
	}
}
