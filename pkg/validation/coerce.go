package validation

import (
	"strconv"
	"strings"
)

// parseToggle reads checkbox-style values. Browsers submit "on" for checked
// boxes without an explicit value.
func parseToggle(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "true", "1":
		return true, true
	case "off", "no", "false", "0", "":
		return false, true
	default:
		return false, false
	}
}

func parseInteger(raw string) (int64, bool) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return value, err == nil
}

func parseUnsigned(raw string) (uint64, bool) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	return value, err == nil
}

func parseNumber(raw string) (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return value, err == nil
}

func blank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}
