package domain

import "fmt"

// dayNames holds canonical day renderings in week order, Sunday first.
var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// DayName renders a day-of-week value (0=Sunday .. 6=Saturday).
// Out-of-domain values render as "Day <n>"; upstream validation keeps them
// out of real runs.
func DayName(day int) string {
	if day < 0 || day > 6 {
		return fmt.Sprintf("Day %d", day)
	}
	return dayNames[day]
}

// HourLabel renders an hour-of-day value on a 12-hour clock:
// 0 -> "12 AM", 1-11 -> "<n> AM", 12 -> "12 PM", 13-23 -> "<n-12> PM".
func HourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

// SegmentLabel renders an hour x day segment, e.g. "Thursday at 9 AM".
func SegmentLabel(day, hour int) string {
	return fmt.Sprintf("%s at %s", DayName(day), HourLabel(hour))
}
