package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecodeLenient decodes a service response body that may contain:
// - Pure JSON
// - NaN / Infinity literals (Python's json module emits them)
// - JSON with surrounding text such as a proxy banner
func DecodeLenient(body []byte, target interface{}) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("empty response body")
	}

	// Try direct parsing first (most common case)
	if err := json.Unmarshal(body, target); err == nil {
		return nil
	}

	input := string(body)

	// Replace non-standard number literals with null
	if cleaned := replaceNonFiniteLiterals(input); cleaned != input {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
		input = cleaned
	}

	// Try to find a JSON object in text
	if start := strings.Index(input, "{"); start >= 0 {
		if extracted := extractBalancedBraces(input[start:], '{', '}'); extracted != "" {
			if err := json.Unmarshal([]byte(extracted), target); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("failed to parse JSON from response: %s", truncateString(input, 100))
}

// ErrorMessage returns the "error" (or "message") field of a service error
// body, or fallback when the body carries none
func ErrorMessage(body []byte, fallback string) string {
	var payload struct {
		Error   FlexString `json:"error"`
		Message FlexString `json:"message"`
	}
	if err := DecodeLenient(body, &payload); err != nil {
		return fallback
	}

	if msg := strings.TrimSpace(string(payload.Error)); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(string(payload.Message)); msg != "" {
		return msg
	}
	return fallback
}

// FlexString accepts a JSON string, number or boolean. null decodes to "".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = FlexString(num.String())
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = FlexString(strconv.FormatBool(b))
		return nil
	}

	return fmt.Errorf("cannot decode %s as string", truncateString(string(data), 40))
}

func (s FlexString) String() string { return string(s) }

// FlexInt accepts a JSON integer, float (truncated) or a string with a
// leading integer ("3 BHK" decodes to 3). null or an unparsable string
// decodes to 0.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	var text string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	} else {
		text = string(data)
	}

	if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
			*n = 0
			return nil
		}
		*n = FlexInt(int(f))
		return nil
	}

	*n = FlexInt(leadingInt(text))
	return nil
}

func (n FlexInt) Int() int { return int(n) }

// leadingInt parses the optionally signed digits at the start of s
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return v
}

// replaceNonFiniteLiterals rewrites NaN, Infinity and -Infinity outside of
// strings as null
func replaceNonFiniteLiterals(input string) string {
	var result strings.Builder
	inString := false
	escape := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if escape {
			escape = false
			result.WriteByte(ch)
			continue
		}
		if ch == '\\' && inString {
			escape = true
			result.WriteByte(ch)
			continue
		}
		if ch == '"' {
			inString = !inString
			result.WriteByte(ch)
			continue
		}

		if !inString {
			if literal := nonFiniteAt(input[i:]); literal != "" {
				result.WriteString("null")
				i += len(literal) - 1
				continue
			}
		}

		result.WriteByte(ch)
	}

	return result.String()
}

func nonFiniteAt(s string) string {
	for _, literal := range []string{"-Infinity", "Infinity", "NaN"} {
		if strings.HasPrefix(s, literal) {
			return literal
		}
	}
	return ""
}

// extractBalancedBraces extracts content with balanced braces
func extractBalancedBraces(input string, open, close rune) string {
	if len(input) == 0 {
		return ""
	}

	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}

		if ch == '\\' {
			escape = true
			continue
		}

		if ch == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if ch == open {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == close {
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
