package scoring

import (
	"time"

	"github.com/wonny/growthscore/internal/contracts"
	"github.com/wonny/growthscore/internal/normalize"
)

// TimelineLength is the fixed number of calendar quarters scored
const TimelineLength = 16

// Slot is one calendar quarter of the timeline. A slot without backing data
// holds a Quarter whose fields are all unknown.
type Slot struct {
	Label   string
	Quarter contracts.Quarter
	HasData bool
}

// BuildTimeline lays the reported quarters onto 16 consecutive calendar
// quarters, newest first, anchored at the most recent non-future quarter.
// Duplicate labels keep the first quarter seen.
func BuildTimeline(f *contracts.Fundamentals, now time.Time) []Slot {
	var quarters []contracts.Quarter
	if f != nil {
		quarters = f.Quarters
	}

	byLabel := make(map[string]contracts.Quarter, len(quarters))
	for _, q := range quarters {
		label := q.Label()
		if label == "" {
			continue
		}
		if _, seen := byLabel[label]; !seen {
			byLabel[label] = q
		}
	}

	anchor := anchorPeriod(quarters, now)
	year, quarter := anchor.Year(), (int(anchor.Month())-1)/3+1

	slots := make([]Slot, TimelineLength)
	for i := range slots {
		label := normalize.QuarterKey(year, quarter)
		q, ok := byLabel[label]
		slots[i] = Slot{Label: label, Quarter: q, HasData: ok}
		year, quarter = normalize.PrevQuarter(year, quarter)
	}
	return slots
}

// anchorPeriod picks the latest period not after now, else the latest period
// overall, else now itself
func anchorPeriod(quarters []contracts.Quarter, now time.Time) time.Time {
	var latest, latestPast time.Time
	for _, q := range quarters {
		if q.Period.IsZero() {
			continue
		}
		if q.Period.After(latest) {
			latest = q.Period
		}
		if !q.Period.After(now) && q.Period.After(latestPast) {
			latestPast = q.Period
		}
	}

	switch {
	case !latestPast.IsZero():
		return latestPast
	case !latest.IsZero():
		return latest
	default:
		return now
	}
}
