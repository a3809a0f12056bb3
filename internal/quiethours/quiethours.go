// Package quiethours implements the pure quiet-hours window predicate. It has
// no side effects and no I/O; callers supply the stored window bounds and a
// clock reading.
package quiethours

import "github.com/vhvplatform/go-reminder-engine/internal/domain"

// InWindow reports whether now falls inside the quiet-hours window
// [start, end). The start bound is inclusive and the end bound exclusive in
// both branches. A nil bound on either side disables the window entirely.
//
// When start > end the window wraps past midnight: 22:00-07:00 covers
// [22:00..24:00) and [00:00..07:00). Equal bounds degenerate into the wrap
// formula and evaluate true for every time except the bound itself; new
// windows with equal bounds are rejected at validation time, but data that
// predates validation keeps this behavior.
func InWindow(start, end *domain.TimeOfDay, now domain.TimeOfDay) bool {
	if start == nil || end == nil {
		return false
	}
	s, e, n := start.Minutes(), end.Minutes(), now.Minutes()
	if s <= e {
		return n >= s && n < e
	}
	// wrap: [start..midnight) U [midnight..end)
	return n >= s || n < e
}

// InWindowPrefs evaluates the window stored in prefs against now.
func InWindowPrefs(prefs domain.NotificationPreferences, now domain.TimeOfDay) bool {
	return InWindow(prefs.QuietHoursStart, prefs.QuietHoursEnd, now)
}
