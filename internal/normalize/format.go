package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatRating renders a rating truncated (not rounded) to two decimals.
// Anything that does not parse to a finite number, or truncates to zero, yields def.
func FormatRating(v any, def string) string {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return def
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s) > dot+3 {
		s = s[:dot+3]
	}
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "0" {
		return def
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case *float64:
		if x == nil {
			return 0, false
		}
		return *x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FormatDuration renders "N días, M noches"; zero or negative days render empty.
func FormatDuration(days int) string {
	if days <= 0 {
		return ""
	}
	return fmt.Sprintf("%d días, %d noches", days, max(days-1, 0))
}

// FormatCount renders a passenger count as the sink expects it.
func FormatCount(n int) string {
	if n < 0 {
		n = 0
	}
	return strconv.Itoa(n)
}

// roundMoney keeps two decimals on monetary values.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
