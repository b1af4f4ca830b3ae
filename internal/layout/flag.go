package layout

import (
	"fmt"
	"strings"
)

// ParseFlag interprets a textual boolean such as the IncludeHeader value.
// Matching is case-insensitive after trimming. Truthy: 1 t true y yes on.
// Falsy: 0 f false n no off and the empty string.
func ParseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "", "0", "f", "false", "n", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized flag value %q", value)
	}
}
