// Package normalizer turns raw listing values into the canonical units the
// estimation service works in.
package normalizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"propinsight/internal/model"
)

// PriceScale is the number of currency units in one canonical price unit
// (one lakh). The estimation service's price domain is expressed in lakhs.
const PriceScale = 100000

var priceScale = decimal.NewFromInt(PriceScale)

// NormalizePrice strips every character that is not a digit or a decimal
// point, parses the leading number and scales it into the canonical unit.
// Input without any digit is rejected; it is never coerced to zero.
func NormalizePrice(raw any) (decimal.Decimal, error) {
	text, err := priceText(raw)
	if err != nil {
		return decimal.Zero, err
	}

	number := extractNumber(text)
	if number == "" {
		return decimal.Zero, model.NewValidationError("price", model.ErrEmptyOrNonNumeric)
	}

	magnitude, err := decimal.NewFromString(number)
	if err != nil {
		return decimal.Zero, model.NewValidationError("price", fmt.Errorf("%w: %q", model.ErrEmptyOrNonNumeric, number))
	}

	return magnitude.Div(priceScale), nil
}

// priceText renders a string or numeric input as text. NaN and infinities
// are rejected here because their text form would otherwise be stripped away.
func priceText(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case float64:
		return floatText(v, 64)
	case float32:
		return floatText(float64(v), 32)
	case int:
		return strconv.Itoa(v), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case json.Number:
		return v.String(), nil
	case decimal.Decimal:
		return v.String(), nil
	case *float64:
		if v != nil {
			return floatText(*v, 64)
		}
		return "", model.NewValidationError("price", model.ErrEmptyOrNonNumeric)
	case *string:
		if v != nil {
			return *v, nil
		}
		return "", model.NewValidationError("price", model.ErrEmptyOrNonNumeric)
	}
	if raw == nil {
		return "", model.NewValidationError("price", model.ErrEmptyOrNonNumeric)
	}
	return "", model.NewValidationError("price", fmt.Errorf("%w: unsupported type %T", model.ErrEmptyOrNonNumeric, raw))
}

func floatText(f float64, bitSize int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", model.NewValidationError("price", model.ErrEmptyOrNonNumeric)
	}
	return strconv.FormatFloat(f, 'f', -1, bitSize), nil
}

// extractNumber keeps digits and decimal points, then takes the longest
// leading "digits[.digits]" run. A second decimal point ends the number.
// Returns "" when no digit survives.
func extractNumber(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	stripped := b.String()

	end := len(stripped)
	if first := strings.IndexByte(stripped, '.'); first >= 0 {
		if second := strings.IndexByte(stripped[first+1:], '.'); second >= 0 {
			end = first + 1 + second
		}
	}
	number := strings.TrimSuffix(stripped[:end], ".")

	if !strings.ContainsAny(number, "0123456789") {
		return ""
	}
	if strings.HasPrefix(number, ".") {
		number = "0" + number
	}
	return number
}
