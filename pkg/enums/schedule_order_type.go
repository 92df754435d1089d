package enums

import "fmt"

// ScheduleOrderType selects the policy used to order organisations within a
// division when generating a schedule.
type ScheduleOrderType string

const (
	ScheduleOrderEntryAsc  ScheduleOrderType = "entry-asc"
	ScheduleOrderEntryDesc ScheduleOrderType = "entry-desc"
	ScheduleOrderLeague    ScheduleOrderType = "league"
	ScheduleOrderRandom    ScheduleOrderType = "random"
)

var validScheduleOrderTypes = []ScheduleOrderType{
	ScheduleOrderEntryAsc,
	ScheduleOrderEntryDesc,
	ScheduleOrderLeague,
	ScheduleOrderRandom,
}

// String implements fmt.Stringer.
func (s ScheduleOrderType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScheduleOrderType.
func (s ScheduleOrderType) IsValid() bool {
	for _, candidate := range validScheduleOrderTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseScheduleOrderType converts raw input into a ScheduleOrderType.
func ParseScheduleOrderType(value string) (ScheduleOrderType, error) {
	for _, candidate := range validScheduleOrderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid schedule order type %q", value)
}
