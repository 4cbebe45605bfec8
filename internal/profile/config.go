package profile

// Profile는 스코어링 임계값 전체 설정
// ⭐ SSOT: 모든 룰 임계값은 여기서만 정의
type Profile struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Growth     Growth     `yaml:"growth" json:"growth"`
	Margin     Margin     `yaml:"margin" json:"margin"`
	Valuation  Valuation  `yaml:"valuation" json:"valuation"`
	CashFlow   CashFlow   `yaml:"cash_flow" json:"cash_flow"`
	Dilution   Dilution   `yaml:"dilution" json:"dilution"`
	RedFlags   RedFlags   `yaml:"red_flags" json:"red_flags"`
	Shares     Shares     `yaml:"shares" json:"shares"`
	Rating     Rating     `yaml:"rating" json:"rating"`
	Extraction Extraction `yaml:"extraction" json:"extraction"`
}

// Meta 메타 정보
type Meta struct {
	ProfileID string `yaml:"profile_id" json:"profile_id"`
	Version   string `yaml:"version" json:"version"`
}

// Growth 룰 1, 5, 10
type Growth struct {
	RevenueCAGRMin     float64 `yaml:"revenue_cagr_min" json:"revenue_cagr_min"`
	YoYHighGrowth      float64 `yaml:"yoy_high_growth" json:"yoy_high_growth"`           // 둘 다 초과하면 통과
	YoYAccelerationMin float64 `yaml:"yoy_acceleration_min" json:"yoy_acceleration_min"` // near - prior
	GrowthGate         float64 `yaml:"growth_gate" json:"growth_gate"`                   // 룰 10 분기 기준
}

// Margin 룰 2, 7, 8
type Margin struct {
	GrossMarginMin  float64 `yaml:"gross_margin_min" json:"gross_margin_min"`
	RnDIntensityMin float64 `yaml:"rnd_intensity_min" json:"rnd_intensity_min"`
}

// Valuation 룰 6
type Valuation struct {
	EVEBITDAMax    float64 `yaml:"ev_ebitda_max" json:"ev_ebitda_max"`
	EVFCFMax       float64 `yaml:"ev_fcf_max" json:"ev_fcf_max"`
	PEGMax         float64 `yaml:"peg_max" json:"peg_max"`
	PEGGrowthFloor float64 `yaml:"peg_growth_floor" json:"peg_growth_floor"`
	MinComputable  int     `yaml:"min_computable" json:"min_computable"`
	MinPassing     int     `yaml:"min_passing" json:"min_passing"`
}

// CashFlow 룰 10
type CashFlow struct {
	FCFCoverageMin float64 `yaml:"fcf_coverage_min" json:"fcf_coverage_min"`
	FCFMinQuarters int     `yaml:"fcf_min_quarters" json:"fcf_min_quarters"`
}

// Dilution 룰 9
type Dilution struct {
	Max       float64 `yaml:"max" json:"max"`
	NoteAbove float64 `yaml:"note_above" json:"note_above"`
}

// RedFlags 경고 (점수 미반영)
type RedFlags struct {
	GrossMarginContraction float64 `yaml:"gross_margin_contraction" json:"gross_margin_contraction"`
	Dilution               float64 `yaml:"dilution" json:"dilution"`
}

// Shares 미공시 액면분할 감지 구간
type Shares struct {
	SplitRatio   Band `yaml:"split_ratio" json:"split_ratio"`
	ReverseRatio Band `yaml:"reverse_ratio" json:"reverse_ratio"`
}

// Band is an open interval (Low, High)
type Band struct {
	Low  float64 `yaml:"low" json:"low"`
	High float64 `yaml:"high" json:"high"`
}

// Contains reports whether Low < v < High
func (b Band) Contains(v float64) bool {
	return v > b.Low && v < b.High
}

// Rating 등급 컷
type Rating struct {
	Excellent int `yaml:"excellent" json:"excellent"`
	Good      int `yaml:"good" json:"good"`
	Average   int `yaml:"average" json:"average"`
}

// Label returns the rating bucket for a total score
func (r Rating) Label(score int) string {
	switch {
	case score >= r.Excellent:
		return "excellent"
	case score >= r.Good:
		return "good"
	case score >= r.Average:
		return "average"
	default:
		return "does not meet profile"
	}
}

// Extraction XBRL 추출 설정
type Extraction struct {
	MaxQuarterDays int `yaml:"max_quarter_days" json:"max_quarter_days"`
}
