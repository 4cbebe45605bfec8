package profile

import "fmt"

// ValidationError 검증 실패
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(p *Profile) error {
	// === Meta ===
	if p.Meta.ProfileID == "" {
		return ValidationError{"meta.profile_id", "required"}
	}

	// === Growth ===
	if p.Growth.RevenueCAGRMin <= 0 {
		return ValidationError{"growth.revenue_cagr_min", "must be > 0"}
	}
	if p.Growth.YoYHighGrowth <= 0 {
		return ValidationError{"growth.yoy_high_growth", "must be > 0"}
	}
	if p.Growth.YoYAccelerationMin < 0 {
		return ValidationError{"growth.yoy_acceleration_min", "must be >= 0"}
	}

	// === Margin ===
	if err := validatePctRange(p.Margin.GrossMarginMin, "margin.gross_margin_min"); err != nil {
		return err
	}
	if err := validatePctRange(p.Margin.RnDIntensityMin, "margin.rnd_intensity_min"); err != nil {
		return err
	}

	// === Valuation ===
	v := p.Valuation
	if v.EVEBITDAMax <= 0 || v.EVFCFMax <= 0 || v.PEGMax <= 0 {
		return ValidationError{"valuation", "multiples must be > 0"}
	}
	if v.PEGGrowthFloor <= 0 {
		return ValidationError{"valuation.peg_growth_floor", "must be > 0"}
	}
	if v.MinComputable < 1 || v.MinComputable > 3 {
		return ValidationError{"valuation.min_computable", "must be in [1, 3]"}
	}
	if v.MinPassing < 1 || v.MinPassing > v.MinComputable {
		return ValidationError{"valuation.min_passing", fmt.Sprintf("must be in [1, %d]", v.MinComputable)}
	}

	// === Cash flow ===
	if p.CashFlow.FCFMinQuarters < 1 || p.CashFlow.FCFMinQuarters > 4 {
		return ValidationError{"cash_flow.fcf_min_quarters", "must be in [1, 4]"}
	}
	if p.CashFlow.FCFCoverageMin < 0 {
		return ValidationError{"cash_flow.fcf_coverage_min", "must be >= 0"}
	}

	// === Dilution ===
	if p.Dilution.Max <= 0 {
		return ValidationError{"dilution.max", "must be > 0"}
	}
	if p.Dilution.NoteAbove < p.Dilution.Max {
		return ValidationError{"dilution.note_above", "must be >= dilution.max"}
	}

	// === Red flags ===
	if err := validatePctRange(p.RedFlags.GrossMarginContraction, "red_flags.gross_margin_contraction"); err != nil {
		return err
	}
	if p.RedFlags.Dilution <= 0 {
		return ValidationError{"red_flags.dilution", "must be > 0"}
	}

	// === Shares ===
	if err := validateBand(p.Shares.SplitRatio, "shares.split_ratio"); err != nil {
		return err
	}
	if err := validateBand(p.Shares.ReverseRatio, "shares.reverse_ratio"); err != nil {
		return err
	}
	if p.Shares.SplitRatio.Low <= 1 || p.Shares.ReverseRatio.High >= 1 {
		return ValidationError{"shares", "split_ratio must lie above 1 and reverse_ratio below 1"}
	}

	// === Rating ===
	r := p.Rating
	if !(r.Excellent > r.Good && r.Good > r.Average && r.Average > 0) {
		return ValidationError{"rating", "must satisfy excellent > good > average > 0"}
	}
	if r.Excellent > 10 {
		return ValidationError{"rating.excellent", "must be <= 10"}
	}

	// === Extraction ===
	if p.Extraction.MaxQuarterDays < 80 || p.Extraction.MaxQuarterDays > 180 {
		return ValidationError{"extraction.max_quarter_days", "must be in [80, 180]"}
	}

	return nil
}

func validatePctRange(v float64, field string) error {
	if v <= 0 || v >= 1 {
		return ValidationError{field, fmt.Sprintf("must be in (0, 1), got %.4f", v)}
	}
	return nil
}

func validateBand(b Band, field string) error {
	if b.Low <= 0 || b.Low >= b.High {
		return ValidationError{field, "must satisfy 0 < low < high"}
	}
	return nil
}
