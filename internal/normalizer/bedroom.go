package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// DefaultBedroomCount is substituted for malformed, missing or sub-one
// bedroom input. Unlike prices, bedroom input is normalized leniently.
const DefaultBedroomCount = 1

// NormalizeBedroomCount parses a bedroom count, falling back to
// DefaultBedroomCount instead of failing.
func NormalizeBedroomCount(raw any) int {
	n, _ := ParseBedroomCount(raw)
	return n
}

// ParseBedroomCount is NormalizeBedroomCount that also reports whether the
// parsed value was used (false means the default was substituted).
func ParseBedroomCount(raw any) (int, bool) {
	var (
		n  int64
		ok bool
	)

	switch v := raw.(type) {
	case string:
		n, ok = leadingInt(v)
	case json.Number:
		n, ok = leadingInt(v.String())
	case float64:
		n, ok = truncFloat(v)
	case float32:
		n, ok = truncFloat(float64(v))
	case int:
		n, ok = int64(v), true
	case int32:
		n, ok = int64(v), true
	case int64:
		n, ok = v, true
	case *int:
		if v != nil {
			n, ok = int64(*v), true
		}
	}

	if !ok || n < 1 || n > math.MaxInt32 {
		return DefaultBedroomCount, false
	}
	return int(n), true
}

// leadingInt reads an optionally signed run of digits after leading
// whitespace, ignoring anything that follows ("3 BHK" -> 3).
func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func truncFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t > math.MaxInt32 || t < math.MinInt32 {
		return 0, false
	}
	return int64(t), true
}
