// Package server exposes the scan lifecycle over HTTP. All state lives in
// the storage workspaces; handlers are thin adapters around ingest,
// pipeline, and storage.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/config"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/ingest"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/pipeline"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/report"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/storage"
)

// Uploaded zip archives are capped well above the per-file limit since a
// project may contain many files.
const maxUploadBytes = 64 << 20

type Server struct {
	store  *storage.Store
	pipe   *pipeline.Pipeline
	cfg    config.Config
	log    *zap.Logger
	github *http.Client
}

func New(store *storage.Store, pipe *pipeline.Pipeline, cfg config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		store:  store,
		pipe:   pipe,
		cfg:    cfg,
		log:    log,
		github: &http.Client{Timeout: 60 * time.Second},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /scans", s.handleCreateScan)
	mux.HandleFunc("GET /scans/{id}/status", s.handleStatus)
	mux.HandleFunc("POST /scans/{id}/paste", s.handlePaste)
	mux.HandleFunc("POST /scans/{id}/upload_zip", s.handleUploadZip)
	mux.HandleFunc("POST /scans/{id}/github", s.handleGitHub)
	mux.HandleFunc("POST /scans/{id}/start", s.handleStart)
	mux.HandleFunc("GET /scans/{id}/results", s.handleResults)
	mux.HandleFunc("GET /scans/{id}/results.sarif", s.handleResultsSARIF)
	return mux
}

func (s *Server) ListenAndServe() error {
	s.log.Info("listening", zap.String("addr", s.cfg.ListenAddr))
	return http.ListenAndServe(s.cfg.ListenAddr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateScan(w http.ResponseWriter, _ *http.Request) {
	id, err := s.store.Create()
	if err != nil {
		s.log.Error("create scan", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not create scan workspace")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"scan_id": id,
		"status":  model.StatusCreated,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scan(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"scan_id": id,
		"status":  s.store.Status(id),
	})
}

type pastePayload struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (s *Server) handlePaste(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scan(w, r)
	if !ok {
		return
	}
	var payload pastePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	saved, err := ingest.SavePaste(s.store.InputDir(id), payload.Filename, payload.Content, ingest.DefaultRules())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"scan_id": id, "saved": saved})
}

func (s *Server) handleUploadZip(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scan(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".zip") {
		respondError(w, http.StatusBadRequest, "only .zip uploads are supported")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	sum, err := ingest.IngestZip(data, s.store.InputDir(id), ingest.DefaultRules())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sum.Source = ingest.Source{Type: "zip", Filename: header.Filename}
	if err := s.store.WriteJSON(id, storage.RawIngestion, sum); err != nil {
		s.log.Error("write ingestion summary", zap.String("scan_id", id), zap.Error(err))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"scan_id": id,
		"status":  model.StatusUploaded,
		"kept":    sum.Kept,
		"skipped": sum.Skipped,
	})
}

type githubPayload struct {
	RepoURL string `json:"repo_url"`
	Ref     string `json:"ref"`
}

func (s *Server) handleGitHub(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scan(w, r)
	if !ok {
		return
	}
	var payload githubPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ref := payload.Ref
	if ref == "" {
		ref = s.cfg.GitHubRef
	}

	sum, err := ingest.IngestGitHub(r.Context(), s.github, payload.RepoURL, ref, s.store.InputDir(id), ingest.DefaultRules())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.WriteJSON(id, storage.RawIngestion, sum); err != nil {
		s.log.Error("write ingestion summary", zap.String("scan_id", id), zap.Error(err))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"scan_id": id,
		"status":  model.StatusIngested,
		"kept":    sum.Kept,
		"skipped": sum.Skipped,
		"repo":    sum.Source.Owner + "/" + sum.Source.Repo,
		"ref":     ref,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scan(w, r)
	if !ok {
		return
	}
	res, err := s.pipe.Run(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if res.Status == model.StatusFailed {
		respondJSON(w, http.StatusOK, map[string]any{
			"scan_id": id,
			"status":  model.StatusFailed,
			"reason":  "NO_PY_FILES",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"scan_id":     id,
		"status":      res.Status,
		"final_score": res.Score.FinalScore,
	})
}

func (s *Server) handleResultsSARIF(w http.ResponseWriter, r *http.Request) {
	id, ok := s.scan(w, r)
	if !ok {
		return
	}
	var unified []model.Issue
	if _, err := s.store.ReadJSON(id, storage.NormUnified, &unified); err != nil {
		respondError(w, http.StatusInternalServerError, "could not read unified issues")
		return
	}
	for i := range unified {
		unified[i].File = s.store.RelPath(id, unified[i].File)
	}
	data, err := report.ToSARIF(unified)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not render SARIF")
		return
	}
	w.Header().Set("Content-Type", "application/sarif+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// scan resolves the path id and 404s unknown scans.
func (s *Server) scan(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" || !s.store.Exists(id) {
		respondError(w, http.StatusNotFound, "scan not found")
		return "", false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
