package tools

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

// Flake8 JSON (flake8-json formatter)
type flake8Issue struct {
	Code         string `json:"code"`
	Filename     string `json:"filename"`
	LineNumber   int    `json:"line_number"`
	ColumnNumber int    `json:"column_number"`
	Text         string `json:"text"`
	PhysicalLine string `json:"physical_line"`
}

// NormalizeFlake8 accepts the three shapes flake8 output arrives in:
// a mapping of file to issue list, a flat issue list, or either of those
// wrapped in a JSON string. Anything else normalizes to zero issues.
func NormalizeFlake8(raw []byte) model.NormalizedReport {
	rep := emptyReport(model.ToolFlake8)
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

	switch data[0] {
	case '{':
		var byFile map[string]json.RawMessage
		if err := json.Unmarshal(data, &byFile); err != nil {
			return rep
		}
		// iterate files in path order so output is reproducible
		files := make([]string, 0, len(byFile))
		for f := range byFile {
			files = append(files, f)
		}
		sort.Strings(files)
		for _, f := range files {
			var items []json.RawMessage
			if err := json.Unmarshal(byFile[f], &items); err != nil {
				continue
			}
			for _, item := range items {
				if iss, ok := flake8ToIssue(item, f); ok {
					rep.Issues = append(rep.Issues, iss)
				}
			}
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return rep
		}
		for _, item := range items {
			if iss, ok := flake8ToIssue(item, ""); ok {
				rep.Issues = append(rep.Issues, iss)
			}
		}
	}

	rep.Counts.Total = len(rep.Issues)
	return rep
}

func flake8ToIssue(item json.RawMessage, groupFile string) (model.Issue, bool) {
	var it flake8Issue
	if err := json.Unmarshal(item, &it); err != nil {
		return model.Issue{}, false
	}
	file := it.Filename
	if file == "" {
		file = groupFile
	}
	// flake8 never reports high: F-codes (real defects) are medium, the rest low
	sev := model.SeverityLow
	if strings.HasPrefix(it.Code, "F") {
		sev = model.SeverityMedium
	}
	return model.Issue{
		Tool:     model.ToolFlake8,
		RuleID:   it.Code,
		Category: flake8Category(it.Code),
		Severity: sev,
		File:     file,
		Line:     it.LineNumber,
		Message:  it.Text,
	}, true
}

func flake8Category(code string) model.Category {
	switch {
	case strings.HasPrefix(code, "F"):
		return model.CategoryBugRisk
	case strings.HasPrefix(code, "E"), strings.HasPrefix(code, "W"):
		return model.CategoryStyle
	case strings.HasPrefix(code, "C"):
		return model.CategoryMaintainability
	default:
		return model.CategoryStyle
	}
}
