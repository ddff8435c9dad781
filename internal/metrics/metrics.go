// Package metrics aggregates unified issues into totals, per-file heatmaps,
// and the ranked lists served to the frontend.
package metrics

import (
	"fmt"
	"sort"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

const (
	maxRefactorPriority = 5
	maxRecurringIssues  = 10
	maxTopFiles         = 20
)

// RiskScore is the severity-weighted volume used to rank files for
// refactoring: one high outweighs up to nine lows.
func RiskScore(low, medium, high int) int {
	return high*10 + medium*4 + low*1
}

// Build aggregates the per-tool normalized reports into a MetricsReport.
// Deterministic: ranking ties break on the secondary key ascending
// (file path for the file lists, "tool:rule" for recurring issues).
func Build(reports []model.NormalizedReport) model.MetricsReport {
	byTool := map[string]int{
		string(model.ToolFlake8): 0,
		string(model.ToolBandit): 0,
	}
	bySeverity := map[string]int{
		string(model.SeverityLow):    0,
		string(model.SeverityMedium): 0,
		string(model.SeverityHigh):   0,
	}
	heatmap := map[string]model.SeverityCounts{}
	ruleCounts := map[string]int{}
	fileTotals := map[string]int{}
	loc := 0

	for _, rep := range reports {
		if rep.Tool == model.ToolBandit && rep.LOC > 0 {
			loc = rep.LOC
		}
		for _, it := range rep.Issues {
			tool := string(it.Tool)
			if tool == "" {
				tool = "unknown"
			}
			byTool[tool]++ // unknown tools extend the map rather than being dropped

			sev := model.ParseSeverity(string(it.Severity))
			bySeverity[string(sev)]++

			file := it.File
			if file == "" {
				file = "UNKNOWN_FILE"
			}
			hm := heatmap[file]
			switch sev {
			case model.SeverityHigh:
				hm.High++
			case model.SeverityMedium:
				hm.Medium++
			default:
				hm.Low++
			}
			heatmap[file] = hm

			rule := it.RuleID
			if rule == "" {
				rule = "UNKNOWN"
			}
			ruleCounts[fmt.Sprintf("%s:%s", tool, rule)]++
			fileTotals[file]++
		}
	}

	totalIssues := 0
	for _, n := range byTool {
		totalIssues += n
	}

	topFiles := make([]model.FileIssues, 0, len(fileTotals))
	for f, c := range fileTotals {
		hm := heatmap[f]
		topFiles = append(topFiles, model.FileIssues{
			File: f, Issues: c, Low: hm.Low, Medium: hm.Medium, High: hm.High,
		})
	}
	sort.SliceStable(topFiles, func(i, j int) bool {
		if topFiles[i].Issues != topFiles[j].Issues {
			return topFiles[i].Issues > topFiles[j].Issues
		}
		return topFiles[i].File < topFiles[j].File
	})

	refactor := make([]model.FileRisk, 0, len(heatmap))
	for f, hm := range heatmap {
		refactor = append(refactor, model.FileRisk{
			File:      f,
			RiskScore: RiskScore(hm.Low, hm.Medium, hm.High),
			Low:       hm.Low,
			Medium:    hm.Medium,
			High:      hm.High,
			Total:     hm.Low + hm.Medium + hm.High,
		})
	}
	sort.SliceStable(refactor, func(i, j int) bool {
		if refactor[i].RiskScore != refactor[j].RiskScore {
			return refactor[i].RiskScore > refactor[j].RiskScore
		}
		return refactor[i].File < refactor[j].File
	})

	recurring := make([]model.RuleCount, 0, len(ruleCounts))
	for k, v := range ruleCounts {
		recurring = append(recurring, model.RuleCount{Rule: k, Count: v})
	}
	sort.SliceStable(recurring, func(i, j int) bool {
		if recurring[i].Count != recurring[j].Count {
			return recurring[i].Count > recurring[j].Count
		}
		return recurring[i].Rule < recurring[j].Rule
	})

	return model.MetricsReport{
		MetricsVersion: 1,
		Totals: model.Totals{
			Issues:     totalIssues,
			ByTool:     byTool,
			BySeverity: bySeverity,
			LOC:        loc,
		},
		TopRefactorPriority: truncateRisk(refactor, maxRefactorPriority),
		Heatmap:             heatmap,
		MostRecurringIssues: truncateRules(recurring, maxRecurringIssues),
		TopFiles:            truncateFiles(topFiles, maxTopFiles),
	}
}

func truncateRisk(in []model.FileRisk, n int) []model.FileRisk {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func truncateRules(in []model.RuleCount, n int) []model.RuleCount {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func truncateFiles(in []model.FileIssues, n int) []model.FileIssues {
	if len(in) > n {
		return in[:n]
	}
	return in
}
