// Package xbrl extracts quarterly values from SEC "company facts" documents.
package xbrl

import (
	"encoding/json"
	"fmt"
	"io"
)

// CompanyFacts is the data.sec.gov companyfacts document
// (taxonomy → concept → unit → facts)
type CompanyFacts struct {
	CIK        int64                         `json:"cik"`
	EntityName string                        `json:"entityName"`
	Facts      map[string]map[string]Concept `json:"facts"`
}

// Concept is one reported accounting concept
type Concept struct {
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Units       map[string][]Fact `json:"units"`
}

// Fact is a single reported value
type Fact struct {
	Start string  `json:"start,omitempty"` // duration facts only
	End   string  `json:"end"`
	Val   float64 `json:"val"`
	Accn  string  `json:"accn"`
	FY    int     `json:"fy"`
	FP    string  `json:"fp"`
	Form  string  `json:"form"`
	Filed string  `json:"filed"`
	Frame string  `json:"frame,omitempty"`
}

// ConceptConfig lists alternative concept names for one logical metric.
// Empty Units scans every unit the concept reports.
type ConceptConfig struct {
	Taxonomy string
	Concepts []string
	Units    []string
}

// Mode selects how facts are interpreted
type Mode int

const (
	// Instant facts are point-in-time balances
	Instant Mode = iota
	// Duration facts cover a span and may be year-to-date cumulative
	Duration
	// Average facts cover a span but are averages (weighted share counts).
	// They are never subtracted; a longer span stands in for a missing quarter.
	Average
)

func (m Mode) String() string {
	switch m {
	case Instant:
		return "instant"
	case Average:
		return "average"
	default:
		return "duration"
	}
}

// ParseCompanyFacts decodes a companyfacts document
func ParseCompanyFacts(r io.Reader) (*CompanyFacts, error) {
	var doc CompanyFacts
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode company facts: %w", err)
	}
	if doc.Facts == nil {
		return nil, fmt.Errorf("company facts document has no facts")
	}
	return &doc, nil
}

// Has reports whether any of the configured concepts is present
func (c *CompanyFacts) Has(cfg ConceptConfig) bool {
	if c == nil {
		return false
	}
	concepts := c.Facts[cfg.Taxonomy]
	for _, name := range cfg.Concepts {
		if _, ok := concepts[name]; ok {
			return true
		}
	}
	return false
}
