package contracts

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Num is an optional float64
// ⭐ SSOT: "unknown" 값은 NaN 대신 Num{} 으로만 표현
type Num struct {
	v  float64
	ok bool
}

// Some returns a known value. Non-finite input yields None.
func Some(f float64) Num {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Num{}
	}
	return Num{v: f, ok: true}
}

// None returns the unknown value
func None() Num {
	return Num{}
}

// Get returns the value and whether it is known
func (n Num) Get() (float64, bool) {
	return n.v, n.ok
}

// Valid reports whether the value is known
func (n Num) Valid() bool {
	return n.ok
}

// Or returns the value, or def when unknown
func (n Num) Or(def float64) float64 {
	if !n.ok {
		return def
	}
	return n.v
}

func (n Num) String() string {
	if !n.ok {
		return "n/a"
	}
	return strconv.FormatFloat(n.v, 'f', -1, 64)
}

// MarshalJSON writes a number or null
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.ok {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

// UnmarshalJSON accepts numbers, numeric strings and the usual
// provider placeholders ("None", "", "-", null)
func (n *Num) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Num{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = ParseNum(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Some(f)
	return nil
}

// ParseNum parses a provider string value. Placeholders and garbage are unknown.
func ParseNum(s string) Num {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	switch strings.ToLower(s) {
	case "", "none", "null", "n/a", "na", "-", "nan":
		return Num{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Num{}
	}
	return Some(f)
}
