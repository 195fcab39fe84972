// Package number converts the numeric representations JSON decoders
// produce (json.Number, float64, ints) into the forms comparisons need.
package number

import (
	"encoding/json"
	"strconv"
)

// ToFloat64 converts supported numeric values to float64.
func ToFloat64(value any) (float64, bool) {
	switch current := value.(type) {
	case int:
		return float64(current), true
	case int32:
		return float64(current), true
	case int64:
		return float64(current), true
	case uint64:
		return float64(current), true
	case float32:
		return float64(current), true
	case float64:
		return current, true
	case json.Number:
		parsed, err := current.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// ToInt converts integral values to int, rejecting fractional floats.
func ToInt(value any) (int, bool) {
	switch current := value.(type) {
	case int:
		return current, true
	case int64:
		return int(current), true
	case uint64:
		return int(current), true
	case float64:
		if current != float64(int(current)) {
			return 0, false
		}
		return int(current), true
	case json.Number:
		parsed, err := current.Int64()
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	default:
		return 0, false
	}
}

// Format renders a float without a trailing ".0" for integral values,
// matching the textual form JSON uses.
func Format(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
