package tools

import (
	"reflect"
	"testing"

	"github.com/Manojmanu696/ai-code-intelligence-platform/internal/model"
)

func TestNormalizeFlake8MappingShape(t *testing.T) {
	raw := []byte(`{
		"input/a.py": [
			{"code": "F401", "filename": "input/a.py", "line_number": 1, "text": "'os' imported but unused"},
			{"code": "E501", "filename": "input/a.py", "line_number": 9, "text": "line too long"}
		],
		"input/b.py": [
			{"code": "C901", "filename": "input/b.py", "line_number": 4, "text": "'run' is too complex"}
		]
	}`)
	rep := NormalizeFlake8(raw)
	if rep.Tool != model.ToolFlake8 {
		t.Fatalf("tool = %q", rep.Tool)
	}
	if len(rep.Issues) != 3 || rep.Counts.Total != 3 {
		t.Fatalf("got %d issues, counts.total %d", len(rep.Issues), rep.Counts.Total)
	}

	// deterministic file order means a.py issues come first
	got := rep.Issues[0]
	if got.Category != model.CategoryBugRisk || got.Severity != model.SeverityMedium {
		t.Errorf("F401: category %q severity %q", got.Category, got.Severity)
	}
	if got := rep.Issues[1]; got.Category != model.CategoryStyle || got.Severity != model.SeverityLow {
		t.Errorf("E501: category %q severity %q", got.Category, got.Severity)
	}
	if got := rep.Issues[2]; got.Category != model.CategoryMaintainability || got.Severity != model.SeverityLow {
		t.Errorf("C901: category %q severity %q", got.Category, got.Severity)
	}
}

func TestNormalizeFlake8FlatListShape(t *testing.T) {
	raw := []byte(`[{"code": "W605", "filename": "x.py", "line_number": 2, "text": "invalid escape sequence"}]`)
	rep := NormalizeFlake8(raw)
	if len(rep.Issues) != 1 {
		t.Fatalf("got %d issues", len(rep.Issues))
	}
	if rep.Issues[0].Category != model.CategoryStyle || rep.Issues[0].File != "x.py" {
		t.Errorf("issue = %+v", rep.Issues[0])
	}
}

func TestNormalizeFlake8StringWrappedShape(t *testing.T) {
	raw := []byte(`"{\"a.py\": [{\"code\": \"E101\", \"line_number\": 1, \"text\": \"indent\"}]}"`)
	rep := NormalizeFlake8(raw)
	if len(rep.Issues) != 1 {
		t.Fatalf("got %d issues", len(rep.Issues))
	}
	// no per-issue filename: falls back to the grouping key
	if rep.Issues[0].File != "a.py" {
		t.Errorf("file = %q", rep.Issues[0].File)
	}
}

func TestNormalizeFlake8TolerantOfGarbage(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("not json"),
		[]byte("{}"),
		[]byte(`"not json either"`),
		[]byte(`{"a.py": "not a list"}`),
		[]byte(`[42, {"code": "E1", "filename": "a.py"}]`),
	}
	for _, in := range inputs {
		rep := NormalizeFlake8(in)
		if rep.Issues == nil {
			t.Errorf("input %q: issues must be non-nil", in)
		}
	}
	// the last case keeps the well-formed record and drops the broken one
	rep := NormalizeFlake8([]byte(`[42, {"code": "E1", "filename": "a.py"}]`))
	if len(rep.Issues) != 1 {
		t.Errorf("malformed sibling record should be skipped, got %d issues", len(rep.Issues))
	}
}

func TestNormalizeBandit(t *testing.T) {
	raw := []byte(`{
		"results": [
			{"filename": "a.py", "line_number": 3, "test_id": "B101",
			 "issue_severity": "HIGH", "issue_confidence": "MEDIUM", "issue_text": "assert used"}
		],
		"metrics": {"_totals": {"loc": 250}}
	}`)
	rep := NormalizeBandit(raw)
	if len(rep.Issues) != 1 {
		t.Fatalf("got %d issues", len(rep.Issues))
	}
	got := rep.Issues[0]
	want := model.Issue{
		Tool:       model.ToolBandit,
		RuleID:     "B101",
		Category:   model.CategorySecurity,
		Severity:   model.SeverityHigh,
		Confidence: model.ConfidenceMedium,
		File:       "a.py",
		Line:       3,
		Message:    "assert used",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("issue = %+v, want %+v", got, want)
	}
	if rep.LOC != 250 {
		t.Errorf("loc = %d", rep.LOC)
	}
}

func TestNormalizeBanditCoercesLabels(t *testing.T) {
	raw := []byte(`{"results": [{"filename": "a.py", "issue_severity": "CATASTROPHIC", "issue_confidence": "UNDEFINED"}]}`)
	rep := NormalizeBandit(raw)
	if rep.Issues[0].Severity != model.SeverityLow {
		t.Errorf("severity = %q, want coercion to low", rep.Issues[0].Severity)
	}
	if rep.Issues[0].Confidence != model.ConfidenceLow {
		t.Errorf("confidence = %q, want coercion to low", rep.Issues[0].Confidence)
	}
}

func TestNormalizeBanditMissingFields(t *testing.T) {
	rep := NormalizeBandit([]byte(`{"results": [{}]}`))
	if len(rep.Issues) != 1 {
		t.Fatalf("got %d issues", len(rep.Issues))
	}
	if rep.Issues[0].Severity != model.SeverityLow || rep.Issues[0].Confidence != model.ConfidenceLow {
		t.Errorf("absent labels must default to low: %+v", rep.Issues[0])
	}
	if rep.LOC != 0 {
		t.Errorf("loc = %d, want 0 without metrics", rep.LOC)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := []byte(`{"a.py": [{"code": "F811", "filename": "a.py", "line_number": 7, "text": "redefinition"}]}`)
	first := Normalize(model.ToolFlake8, raw)
	second := Normalize(model.ToolFlake8, raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("normalize is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestNormalizeUnknownTool(t *testing.T) {
	rep := Normalize(model.Tool("pylint"), []byte(`{"whatever": true}`))
	if len(rep.Issues) != 0 || rep.Issues == nil {
		t.Errorf("unknown tool must yield an empty, non-nil issue list: %+v", rep)
	}
}
