package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ID is an affiliate, campaign, product or click identifier.
// Callers may supply identifiers as JSON strings or numbers; they are kept as text.
type ID string

// IsEmpty reports whether the identifier is unset.
func (id ID) IsEmpty() bool {
	return id == ""
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// Or returns id when set, otherwise the first non-empty fallback.
func (id ID) Or(fallbacks ...ID) ID {
	if id != "" {
		return id
	}
	for _, f := range fallbacks {
		if f != "" {
			return f
		}
	}
	return ""
}

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

// Int coerces the identifier to an integer using its leading integer prefix,
// so "12" and "12abc" both yield 12. ok is false when no prefix exists.
func (id ID) Int() (n int64, ok bool) {
	m := leadingInt.FindString(strings.TrimSpace(string(id)))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IntPtr is Int for optional payload fields; nil when the identifier has no integer form.
func (id ID) IntPtr() *int64 {
	n, ok := id.Int()
	if !ok {
		return nil
	}
	return &n
}

// UnmarshalJSON accepts a string, a number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	raw, err := looseScalar(data)
	if err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(raw)
	return nil
}

// Number is a loosely typed numeric input such as a price or quantity.
// JSON numbers and numeric strings ("10.00") are both accepted.
type Number string

// N builds a Number from a float.
func N(f float64) Number {
	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Float parses the leading numeric prefix of n. Empty, unparseable and
// non-finite values yield fallback.
func (n Number) Float(fallback float64) float64 {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return fallback
	}
	m := leadingFloat.FindString(s)
	if m == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fallback
	}
	return f
}

// IsEmpty reports whether no value was supplied.
func (n Number) IsEmpty() bool {
	return n == ""
}

// UnmarshalJSON accepts a string, a number, or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw, err := looseScalar(data)
	if err != nil {
		return fmt.Errorf("decode number: %w", err)
	}
	*n = Number(raw)
	return nil
}

// MarshalJSON emits numeric values as JSON numbers and anything else as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(n))
	if s != "" && json.Valid([]byte(s)) {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return []byte(s), nil
		}
	}
	return json.Marshal(string(n))
}

func looseScalar(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return "", err
		}
		return num.String(), nil
	}
}
