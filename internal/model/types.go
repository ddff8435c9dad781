package model

type Tool string

const (
	ToolFlake8 Tool = "flake8"
	ToolBandit Tool = "bandit"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity coerces a raw tool label to a canonical level.
// Anything unrecognized maps to low.
func ParseSeverity(s string) Severity {
	switch s {
	case string(SeverityHigh):
		return SeverityHigh
	case string(SeverityMedium):
		return SeverityMedium
	default:
		return SeverityLow
	}
}

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ParseConfidence applies the same coercion rule as ParseSeverity so that
// confidence labels never leave the canonical set.
func ParseConfidence(s string) Confidence {
	switch s {
	case string(ConfidenceHigh):
		return ConfidenceHigh
	case string(ConfidenceMedium):
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

type Category string

const (
	CategoryStyle           Category = "style"
	CategoryBugRisk         Category = "bug_risk"
	CategoryMaintainability Category = "maintainability"
	CategorySecurity        Category = "security"
)

// Issue is a single finding from any tool, normalized to a common schema.
// Confidence is only populated for bandit; flake8 has no such concept.
type Issue struct {
	Tool       Tool       `json:"tool"`
	RuleID     string     `json:"rule_id"`
	Category   Category   `json:"category"`
	Severity   Severity   `json:"severity"`
	Confidence Confidence `json:"confidence,omitempty"`
	File       string     `json:"file"`
	Line       int        `json:"line"`
	Message    string     `json:"message"`
}

type Counts struct {
	Total int `json:"total"`
}

// NormalizedReport is the per-tool output of the normalizer. LOC is only
// known for bandit (its metrics block counts lines); zero means "unknown".
type NormalizedReport struct {
	Tool   Tool    `json:"tool"`
	LOC    int     `json:"loc,omitempty"`
	Issues []Issue `json:"issues"`
	Counts Counts  `json:"counts"`
}

type Totals struct {
	Issues     int            `json:"issues"`
	ByTool     map[string]int `json:"by_tool"`
	BySeverity map[string]int `json:"by_severity"`
	LOC        int            `json:"loc"`
}

type SeverityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// FileRisk ranks a file for refactor prioritization by severity-weighted
// issue volume.
type FileRisk struct {
	File      string `json:"file"`
	RiskScore int    `json:"risk_score"`
	Low       int    `json:"low"`
	Medium    int    `json:"medium"`
	High      int    `json:"high"`
	Total     int    `json:"total"`
}

type RuleCount struct {
	Rule  string `json:"rule"`
	Count int    `json:"count"`
}

type FileIssues struct {
	File   string `json:"file"`
	Issues int    `json:"issues"`
	Low    int    `json:"low"`
	Medium int    `json:"medium"`
	High   int    `json:"high"`
}

type MetricsReport struct {
	MetricsVersion      int                       `json:"metrics_version"`
	Totals              Totals                    `json:"totals"`
	TopRefactorPriority []FileRisk                `json:"top_refactor_priority"`
	Heatmap             map[string]SeverityCounts `json:"heatmap"`
	MostRecurringIssues []RuleCount               `json:"most_recurring_issues"`
	TopFiles            []FileIssues              `json:"top_files"`
}

type SeverityWeights struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

type SeverityValues struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

type ScoreReport struct {
	FinalScore       float64         `json:"final_score"`
	Penalty          float64         `json:"penalty"`
	Weights          SeverityWeights `json:"weights"`
	Breakdown        SeverityCounts  `json:"breakdown"`
	Method           string          `json:"method"`
	LOC              int             `json:"loc"`
	DensityPerKLOC   SeverityValues  `json:"density_per_kloc"`
	PenaltyBreakdown SeverityValues  `json:"penalty_breakdown"`
}

type ScanStatus string

const (
	StatusCreated  ScanStatus = "CREATED"
	StatusReady    ScanStatus = "READY"
	StatusUploaded ScanStatus = "UPLOADED"
	StatusIngested ScanStatus = "GITHUB_INGESTED"
	StatusDone     ScanStatus = "DONE"
	StatusFailed   ScanStatus = "FAILED"
)
