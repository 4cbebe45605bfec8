package contracts

// RuleKey identifies one scoring rule
type RuleKey string

const (
	RuleRevenueCAGR     RuleKey = "revenue_cagr"
	RuleGrossMargin     RuleKey = "gross_margin"
	RuleOCFQuality      RuleKey = "ocf_quality"
	RuleOpexRatio       RuleKey = "opex_ratio"
	RuleYoYAcceleration RuleKey = "yoy_acceleration"
	RuleValuation       RuleKey = "valuation"
	RuleCapacity        RuleKey = "capacity_expansion"
	RuleRnDIntensity    RuleKey = "rnd_intensity"
	RuleDilution        RuleKey = "dilution_control"
	RuleFCFCoverage     RuleKey = "fcf_coverage"
)

// AllRules lists every rule in evaluation order
func AllRules() []RuleKey {
	return []RuleKey{
		RuleRevenueCAGR,
		RuleGrossMargin,
		RuleOCFQuality,
		RuleOpexRatio,
		RuleYoYAcceleration,
		RuleValuation,
		RuleCapacity,
		RuleRnDIntensity,
		RuleDilution,
		RuleFCFCoverage,
	}
}

// Metric is one labelled number shown next to a rule verdict
type Metric struct {
	Label string `json:"label"`
	Value Num    `json:"value"`
}

// RuleResult is a tri-state verdict. Pass == nil means "not enough data".
type RuleResult struct {
	Pass    *bool    `json:"pass"`
	Value   Num      `json:"value"`
	Metrics []Metric `json:"metrics"`
	Note    string   `json:"note,omitempty"`
}

// Passed reports whether the rule passed (unknown counts as not passed)
func (r RuleResult) Passed() bool {
	return r.Pass != nil && *r.Pass
}

// Unknown reports whether the rule could not be judged
func (r RuleResult) Unknown() bool {
	return r.Pass == nil
}

// Verdict returns "pass", "fail" or "unknown"
func (r RuleResult) Verdict() string {
	switch {
	case r.Pass == nil:
		return "unknown"
	case *r.Pass:
		return "pass"
	default:
		return "fail"
	}
}

// LabeledValue is one timeline slot's revenue
type LabeledValue struct {
	Label   string `json:"label"`
	Revenue Num    `json:"revenue"`
}

// CAGRDetail explains the revenue growth computation
type CAGRDetail struct {
	Latest4Revenue Num `json:"latest4_revenue"`
	Prior4Revenue  Num `json:"prior4_revenue"`
	CAGR           Num `json:"cagr"`
}

// DataQuality summarizes how much of the timeline is backed by data
type DataQuality struct {
	Source           string `json:"source"`
	QuartersInput    int    `json:"quarters_input"`
	QuartersWithData int    `json:"quarters_with_data"`
	RevenueQuarters  int    `json:"revenue_quarters"`
	AnchorLabel      string `json:"anchor_label"`
	UnknownRules     int    `json:"unknown_rules"`
	SharesAdjusted   bool   `json:"shares_adjusted"`
}

// ScoreResult is the scoring engine output
// ⭐ SSOT: Scoring Engine 결과 (presentation 계층 계약)
type ScoreResult struct {
	Ticker           string                 `json:"ticker"`
	TotalScore       int                    `json:"total_score"`
	Rating           string                 `json:"rating"`
	Rules            map[RuleKey]RuleResult `json:"rules"`
	RedFlags         []string               `json:"red_flags"`
	QuarterlyRevenue []LabeledValue         `json:"quarterly_revenue"`
	CAGRDetail       CAGRDetail             `json:"cagr_detail"`
	DataQuality      DataQuality            `json:"data_quality"`
	ProfileID        string                 `json:"profile_id"`
}
