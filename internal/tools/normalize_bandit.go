package tools

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

// Bandit JSON (-f json)
type banditResult struct {
	Filename        string `json:"filename"`
	LineNumber      int    `json:"line_number"`
	TestID          string `json:"test_id"`
	TestName        string `json:"test_name"`
	IssueSeverity   string `json:"issue_severity"`
	IssueConfidence string `json:"issue_confidence"`
	IssueText       string `json:"issue_text"`
	MoreInfo        string `json:"more_info"`
}

type banditOut struct {
	Results []json.RawMessage          `json:"results"`
	Metrics map[string]json.RawMessage `json:"metrics"`
}

type banditTotals struct {
	LOC int `json:"loc"`
}

// NormalizeBandit maps bandit results into unified issues. Severity and
// confidence labels are lower-cased and coerced to the canonical levels;
// the tool's metrics._totals.loc is the only LOC source in the pipeline.
func NormalizeBandit(raw []byte) model.NormalizedReport {
	rep := emptyReport(model.ToolBandit)
	data := bytes.TrimSpace(raw)
	if len(data) == 0 {
		return rep
	}
	if data[0] == '"' {
		data = unwrapString(data)
		if len(data) == 0 {
			return rep
		}
	}

	var o banditOut
	if err := json.Unmarshal(data, &o); err != nil {
		return rep
	}

	for _, item := range o.Results {
		var r banditResult
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		rep.Issues = append(rep.Issues, model.Issue{
			Tool:       model.ToolBandit,
			RuleID:     r.TestID,
			Category:   model.CategorySecurity,
			Severity:   model.ParseSeverity(strings.ToLower(r.IssueSeverity)),
			Confidence: model.ParseConfidence(strings.ToLower(r.IssueConfidence)),
			File:       r.Filename,
			Line:       r.LineNumber,
			Message:    r.IssueText,
		})
	}

	if totalsRaw, ok := o.Metrics["_totals"]; ok {
		var t banditTotals
		if err := json.Unmarshal(totalsRaw, &t); err == nil {
			rep.LOC = t.LOC
		}
	}

	rep.Counts.Total = len(rep.Issues)
	return rep
}
