package scoring

import (
	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/internal/profile"
)

// NormalizeShares adjusts a newest-first diluted share series for splits that
// were never restated. When an older count differs from the next newer count
// by a ratio inside one of the split bands, every older value is multiplied
// by newer/older. Corrections compound across multiple splits.
func NormalizeShares(raw []contracts.Num, bands profile.Shares) ([]contracts.Num, bool) {
	out := make([]contracts.Num, len(raw))
	factor := 1.0
	adjusted := false

	var newer float64
	haveNewer := false
	for i, n := range raw {
		v, ok := n.Get()
		if !ok || v <= 0 {
			out[i] = contracts.None()
			continue
		}

		if haveNewer {
			r := v / newer
			if bands.SplitRatio.Contains(r) || bands.ReverseRatio.Contains(r) {
				factor *= newer / v
				adjusted = true
			}
		}

		out[i] = contracts.Some(v * factor)
		newer, haveNewer = v, true
	}
	return out, adjusted
}

func rawShares(slots []Slot) []contracts.Num {
	raw := make([]contracts.Num, len(slots))
	for i, s := range slots {
		raw[i] = s.Quarter.DilutedShares
	}
	return raw
}
