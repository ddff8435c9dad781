package tools

import (
	"bytes"
	"encoding/json"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

// Normalize converts raw tool output into the unified report shape.
// It is total over its input: unknown tools, malformed JSON, and empty
// input all yield an empty report rather than an error.
func Normalize(tool model.Tool, raw []byte) model.NormalizedReport {
	switch tool {
	case model.ToolFlake8:
		return NormalizeFlake8(raw)
	case model.ToolBandit:
		return NormalizeBandit(raw)
	default:
		return emptyReport(tool)
	}
}

func emptyReport(tool model.Tool) model.NormalizedReport {
	return model.NormalizedReport{Tool: tool, Issues: []model.Issue{}}
}

// unwrapString peels one level of JSON string encoding; upstream sometimes
// hands the tool payload through as a quoted string of the real document.
func unwrapString(raw []byte) []byte {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return bytes.TrimSpace([]byte(s))
}
