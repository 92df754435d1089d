package enums

import "fmt"

// BreakType selects what the break counter measures: performed bands or
// elapsed performance minutes.
type BreakType string

const (
	BreakTypeBand   BreakType = "band"
	BreakTypeMinute BreakType = "minute"
)

var validBreakTypes = []BreakType{
	BreakTypeBand,
	BreakTypeMinute,
}

// String implements fmt.Stringer.
func (b BreakType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BreakType.
func (b BreakType) IsValid() bool {
	for _, candidate := range validBreakTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBreakType converts raw input into a BreakType.
func ParseBreakType(value string) (BreakType, error) {
	for _, candidate := range validBreakTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid break type %q", value)
}
