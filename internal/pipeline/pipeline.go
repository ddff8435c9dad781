// Package pipeline drives one scan end to end: run the external tools,
// persist their raw output, then normalize, aggregate, and score.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/config"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/metrics"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/scoring"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/storage"
	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/tools"
)

type Pipeline struct {
	store *storage.Store
	cfg   config.Config
	log   *zap.Logger
}

func New(store *storage.Store, cfg config.Config, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{store: store, cfg: cfg, log: log}
}

// Warning is a sidecar entry for a tool run that degraded but did not
// abort the scan.
type Warning struct {
	Tool    string `json:"tool,omitempty"`
	Warning string `json:"warning"`
	Stderr  string `json:"stderr,omitempty"`
}

// Result carries the in-memory artifacts for callers that do not want to
// read them back from disk (the CLI one-shot mode).
type Result struct {
	Status  model.ScanStatus
	Unified []model.Issue
	Metrics model.MetricsReport
	Score   model.ScoreReport
}

// Run executes the full pipeline for a prepared scan workspace. Tool
// failures degrade to warnings and empty raw documents; only storage
// errors abort, and those are recorded as a pipeline_error sidecar so the
// scan still serves partial results.
func (p *Pipeline) Run(ctx context.Context, scanID string) (Result, error) {
	if !p.store.HasPythonFiles(scanID) {
		p.log.Warn("scan has no python files", zap.String("scan_id", scanID))
		_ = p.store.WriteJSON(scanID, storage.RawWarnings,
			[]Warning{{Warning: "no Python (.py) files found in input/"}})
		return Result{Status: model.StatusFailed}, nil
	}

	rawByTool, err := p.runTools(ctx, scanID)
	var res Result
	if err == nil {
		res, err = p.postprocess(scanID, rawByTool)
	}
	if err != nil {
		p.log.Error("pipeline failed", zap.String("scan_id", scanID), zap.Error(err))
		_ = p.store.WriteJSON(scanID, storage.RawPipelineError, map[string]string{"error": err.Error()})
		return Result{Status: model.StatusFailed}, err
	}
	res.Status = model.StatusDone
	return res, nil
}

func (p *Pipeline) runTools(ctx context.Context, scanID string) (map[model.Tool][]byte, error) {
	inputDir := p.store.InputDir(scanID)
	timeout := time.Duration(p.cfg.ToolTimeoutMs) * time.Millisecond
	var warnings []Warning

	runOne := func(tool model.Tool, run func(context.Context, string) tools.Result, dest string) ([]byte, error) {
		toolCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		res := run(toolCtx, inputDir)
		p.log.Info("tool finished",
			zap.String("scan_id", scanID),
			zap.String("tool", string(tool)),
			zap.Duration("elapsed", res.Duration),
			zap.Bool("exit_ok", res.ExitOK))

		raw := res.Raw
		if len(raw) == 0 || !json.Valid(raw) {
			if len(raw) > 0 {
				warnings = append(warnings, Warning{Tool: string(tool), Warning: "invalid JSON output", Stderr: res.Stderr})
			}
			raw = []byte("{}")
		}
		if !res.ExitOK && res.Stderr != "" {
			warnings = append(warnings, Warning{Tool: string(tool), Warning: "non-zero return", Stderr: res.Stderr})
		}
		if err := p.store.WriteJSON(scanID, dest, json.RawMessage(raw)); err != nil {
			return nil, fmt.Errorf("write %s output: %w", tool, err)
		}
		return raw, nil
	}

	rawByTool := map[model.Tool][]byte{}
	if p.cfg.Tools.Flake8 {
		raw, err := runOne(model.ToolFlake8, tools.RunFlake8, storage.RawFlake8)
		if err != nil {
			return nil, err
		}
		rawByTool[model.ToolFlake8] = raw
	}
	if p.cfg.Tools.Bandit {
		raw, err := runOne(model.ToolBandit, tools.RunBandit, storage.RawBandit)
		if err != nil {
			return nil, err
		}
		rawByTool[model.ToolBandit] = raw
	}

	if len(warnings) > 0 {
		if err := p.store.WriteJSON(scanID, storage.RawWarnings, warnings); err != nil {
			return nil, fmt.Errorf("write warnings: %w", err)
		}
	}
	if err := p.store.WriteJSON(scanID, storage.RawRunnerDone, map[string]model.ScanStatus{"status": model.StatusDone}); err != nil {
		return nil, fmt.Errorf("write runner done: %w", err)
	}
	return rawByTool, nil
}

func (p *Pipeline) postprocess(scanID string, rawByTool map[model.Tool][]byte) (Result, error) {
	var out Result
	reports := make([]model.NormalizedReport, 0, 2)

	for _, t := range []struct {
		tool model.Tool
		dest string
	}{
		{model.ToolFlake8, storage.NormFlake8},
		{model.ToolBandit, storage.NormBandit},
	} {
		raw, ok := rawByTool[t.tool]
		if !ok {
			continue
		}
		rep := tools.Normalize(t.tool, raw)
		if err := p.store.WriteJSON(scanID, t.dest, rep); err != nil {
			return out, fmt.Errorf("write normalized %s: %w", t.tool, err)
		}
		reports = append(reports, rep)
	}

	unified := make([]model.Issue, 0)
	for _, rep := range reports {
		unified = append(unified, rep.Issues...)
	}
	if err := p.store.WriteJSON(scanID, storage.NormUnified, unified); err != nil {
		return out, fmt.Errorf("write unified issues: %w", err)
	}

	m := metrics.Build(reports)
	if err := p.store.WriteJSON(scanID, storage.MetricsDoc, m); err != nil {
		return out, fmt.Errorf("write metrics: %w", err)
	}

	s := scoring.Compute(m)
	if err := p.store.WriteJSON(scanID, storage.ScoreDoc, s); err != nil {
		return out, fmt.Errorf("write score: %w", err)
	}

	p.log.Info("scan scored",
		zap.String("scan_id", scanID),
		zap.Int("issues", m.Totals.Issues),
		zap.Float64("final_score", s.FinalScore))

	out.Unified = unified
	out.Metrics = m
	out.Score = s
	return out, nil
}
