package completion

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// RawScore holds the score field exactly as the model returned it. Models
// sometimes emit a bare number, a quoted number, or decorated text such
// as "8/10"; normalization happens in Normalize.
type RawScore string

// UnmarshalJSON accepts both string and numeric score representations.
func (s *RawScore) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = RawScore(str)
		return nil
	}
	*s = RawScore(data)
	return nil
}

var firstInt = regexp.MustCompile(`\d+`)

// Normalize extracts the first embedded integer from the raw score,
// scales values on an apparent 0-10 scale by ten, and clamps the result
// to [0,100]. A score with no embedded integer normalizes to 0.
func (s RawScore) Normalize() int {
	match := firstInt.FindString(string(s))
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	if n <= 10 {
		n *= 10
	}
	if n > 100 {
		n = 100
	}
	return n
}
