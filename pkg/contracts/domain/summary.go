package domain

import (
	"math"
	"strconv"
)

// Stat is a summary statistic. Non-finite values (the standard deviation of a
// single row, every statistic of an empty file) encode as JSON null.
type Stat float64

// MarshalJSON implements json.Marshaler.
func (s Stat) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler; null decodes to NaN.
func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Stat(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*s = Stat(f)
	return nil
}

// IsNaN reports whether the statistic is undefined.
func (s Stat) IsNaN() bool {
	return math.IsNaN(float64(s))
}

// FauxnessStats aggregates the fauxness column.
type FauxnessStats struct {
	Min  Stat `json:"minFauxness"`
	Max  Stat `json:"maxFauxness"`
	Mean Stat `json:"meanFauxness"`
	Std  Stat `json:"stdFauxness"`
}

// CategoryCounts counts rows per category_guess value.
type CategoryCounts struct {
	Real      int `json:"totalReal"`
	Fake      int `json:"totalFake"`
	Ambiguous int `json:"totalAmbiguous"`
}

// Summary is the aggregate view of a validated dataset.
type Summary struct {
	Filename      string         `json:"filename"`
	TotalRows     int            `json:"totalRows"`
	Fauxness      FauxnessStats  `json:"fauxness"`
	CategoryGuess CategoryCounts `json:"category_guess"`
}
