// Package store persists score snapshots to PostgreSQL.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/growthscore/internal/contracts"
)

// Snapshot is one persisted scoring run
// ⭐ SSOT: 점수 감사 기록 (profile hash 포함)
type Snapshot struct {
	ID           int64           `json:"id"`
	Ticker       string          `json:"ticker"`
	Source       string          `json:"source"`
	ProfileID    string          `json:"profile_id"`
	ProfileHash  string          `json:"profile_hash"`
	TotalScore   int             `json:"total_score"`
	Rating       string          `json:"rating"`
	Result       json.RawMessage `json:"result"`
	Fundamentals json.RawMessage `json:"fundamentals"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewSnapshot captures a score together with the data it was computed from
func NewSnapshot(result *contracts.ScoreResult, f *contracts.Fundamentals, profileHash string) (*Snapshot, error) {
	if result == nil || f == nil {
		return nil, fmt.Errorf("snapshot needs both a result and fundamentals")
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode score result: %w", err)
	}
	fundamentalsJSON, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fundamentals: %w", err)
	}

	return &Snapshot{
		Ticker:       strings.ToUpper(result.Ticker),
		Source:       f.Source,
		ProfileID:    result.ProfileID,
		ProfileHash:  profileHash,
		TotalScore:   result.TotalScore,
		Rating:       result.Rating,
		Result:       resultJSON,
		Fundamentals: fundamentalsJSON,
	}, nil
}

// DecodeResult unmarshals the stored score
func (s *Snapshot) DecodeResult() (*contracts.ScoreResult, error) {
	var result contracts.ScoreResult
	if err := json.Unmarshal(s.Result, &result); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %d: %w", s.ID, err)
	}
	return &result, nil
}
