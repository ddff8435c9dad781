package report

import (
	"encoding/json"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

type sarif struct {
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}
type sarifDriver struct {
	Name string `json:"name"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}
type sarifLoc struct {
	Physical sarifPhys `json:"physicalLocation"`
}
type sarifPhys struct {
	ArtifactLocation sarifArt    `json:"artifactLocation"`
	Region           sarifRegion `json:"region"`
}
type sarifArt struct {
	URI string `json:"uri"`
}
type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// ToSARIF renders unified issues as a SARIF 2.1.0 document, one rule id
// per "tool:code" pair so SARIF consumers can group by origin.
func ToSARIF(issues []model.Issue) ([]byte, error) {
	results := make([]sarifResult, 0, len(issues))
	for _, it := range issues {
		level := "note"
		switch it.Severity {
		case model.SeverityMedium:
			level = "warning"
		case model.SeverityHigh:
			level = "error"
		}
		ruleID := it.RuleID
		if ruleID == "" {
			ruleID = "UNKNOWN"
		}
		results = append(results, sarifResult{
			RuleID:  string(it.Tool) + ":" + ruleID,
			Level:   level,
			Message: sarifMessage{Text: it.Message},
			Locations: []sarifLoc{{Physical: sarifPhys{
				ArtifactLocation: sarifArt{URI: it.File},
				Region:           sarifRegion{StartLine: it.Line},
			}}},
		})
	}
	s := sarif{Version: "2.1.0", Runs: []sarifRun{{Tool: sarifTool{Driver: sarifDriver{Name: "codescan"}}, Results: results}}}
	return json.MarshalIndent(s, "", "  ")
}
