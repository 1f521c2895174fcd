package sweep

import (
	"fmt"
)

// daysPerMonth is a deliberate calendar approximation: a window of n
// months spans the trailing n*30 days, not exact month arithmetic.
const daysPerMonth = 30

// Window represents a trailing lookback span in months
type Window int

// Months returns the window length in months
func (w Window) Months() int {
	return int(w)
}

// Days returns the approximated window length in days
func (w Window) Days() int {
	return int(w) * daysPerMonth
}

// Label renders the window for reports: sub-year windows as "{months}m",
// windows of a year or more as "{years}a" (truncated years).
func (w Window) Label() string {
	if w >= 12 {
		return fmt.Sprintf("%da", int(w)/12)
	}
	return fmt.Sprintf("%dm", int(w))
}

// Windows converts a month list into Window values
func Windows(months []int) []Window {
	windows := make([]Window, len(months))
	for i, m := range months {
		windows[i] = Window(m)
	}
	return windows
}
