package importance

import (
	"strconv"
	"strings"
)

func payloadFloat(p map[string]any, key string) (float64, bool) {
	value, ok := p[key]
	if !ok || value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		out, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return out, true
	default:
		return 0, false
	}
}

func payloadBool(p map[string]any, key string) bool {
	value, ok := p[key]
	if !ok || value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "t", "on":
			return true
		}
		return false
	case float64:
		return v == 1
	case float32:
		return v == 1
	case int:
		return v == 1
	case int64:
		return v == 1
	default:
		return false
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
