package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KartID is a kart identifier as printed by the timing system. Purely numeric
// cells become numbers; anything else is kept verbatim as a label.
type KartID struct {
	number  int
	label   string
	numeric bool
}

// KartNumber returns a numeric kart id.
func KartNumber(n int) KartID {
	return KartID{number: n, numeric: true}
}

// KartLabel returns a textual kart id. The label is stored as given, even
// when it looks like a number.
func KartLabel(s string) KartID {
	return KartID{label: s}
}

// ParseKartID trims cell and converts it to a number when every character is
// an ASCII digit.
func ParseKartID(cell string) KartID {
	cell = strings.TrimSpace(cell)
	if isDigits(cell) {
		if n, err := strconv.Atoi(cell); err == nil {
			return KartNumber(n)
		}
	}
	return KartLabel(cell)
}

// Number returns the numeric value and whether the id is numeric.
func (k KartID) Number() (int, bool) {
	return k.number, k.numeric
}

// IsZero reports whether the id carries neither a number nor a label.
func (k KartID) IsZero() bool {
	return !k.numeric && k.label == ""
}

func (k KartID) String() string {
	if k.numeric {
		return strconv.Itoa(k.number)
	}
	return k.label
}

// MarshalJSON writes numeric ids as JSON numbers and labels as strings.
func (k KartID) MarshalJSON() ([]byte, error) {
	if k.numeric {
		return []byte(strconv.Itoa(k.number)), nil
	}
	return json.Marshal(k.label)
}

// UnmarshalJSON accepts a number, a string or null.
func (k *KartID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*k = KartID{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*k = KartLabel(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("kart id: %w", err)
	}
	if n, err := num.Int64(); err == nil && n >= math.MinInt32 && n <= math.MaxInt32 {
		*k = KartNumber(int(n))
		return nil
	}
	if f, err := num.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		*k = KartNumber(int(f))
		return nil
	}
	*k = KartLabel(num.String())
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
