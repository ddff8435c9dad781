package report

import (
	"encoding/json"
	"testing"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

func TestToSARIFLevels(t *testing.T) {
	issues := []model.Issue{
		{Tool: model.ToolFlake8, RuleID: "E501", Severity: model.SeverityLow, File: "input/a.py", Line: 9, Message: "line too long"},
		{Tool: model.ToolFlake8, RuleID: "F401", Severity: model.SeverityMedium, File: "input/a.py", Line: 1, Message: "unused import"},
		{Tool: model.ToolBandit, RuleID: "B602", Severity: model.SeverityHigh, File: "input/b.py", Line: 3, Message: "shell=True"},
		{Tool: model.ToolFlake8, Severity: model.SeverityLow, File: "input/c.py"},
	}
	data, err := ToSARIF(issues)
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Version != "2.1.0" {
		t.Errorf("version = %q", doc.Version)
	}
	results := doc.Runs[0].Results
	wantLevels := []string{"note", "warning", "error", "note"}
	for i, want := range wantLevels {
		if results[i].Level != want {
			t.Errorf("results[%d].level = %q, want %q", i, results[i].Level, want)
		}
	}
	if results[0].RuleID != "flake8:E501" {
		t.Errorf("ruleId = %q", results[0].RuleID)
	}
	if results[3].RuleID != "flake8:UNKNOWN" {
		t.Errorf("absent rule id = %q", results[3].RuleID)
	}
}

func TestToSARIFEmpty(t *testing.T) {
	data, err := ToSARIF(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("invalid JSON for empty issue list")
	}
}
