package quiethours

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vhvplatform/go-reminder-engine/internal/domain"
)

func tod(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	parsed, err := domain.ParseTimeOfDay(s)
	require.NoError(t, err)
	return parsed
}

func todPtr(t *testing.T, s string) *domain.TimeOfDay {
	t.Helper()
	parsed := tod(t, s)
	return &parsed
}

func TestInWindow_NormalWindow(t *testing.T) {
	start, end := todPtr(t, "09:00"), todPtr(t, "17:00")

	tests := []struct {
		now  string
		want bool
	}{
		{"08:59", false},
		{"09:00", true}, // start inclusive
		{"12:30", true},
		{"16:59", true},
		{"17:00", false}, // end exclusive
		{"23:45", false},
		{"00:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.now, func(t *testing.T) {
			assert.Equal(t, tt.want, InWindow(start, end, tod(t, tt.now)))
		})
	}
}

func TestInWindow_WrapsPastMidnight(t *testing.T) {
	start, end := todPtr(t, "22:00"), todPtr(t, "07:00")

	tests := []struct {
		now  string
		want bool
	}{
		{"21:59", false},
		{"22:00", true}, // start inclusive
		{"23:30", true},
		{"00:00", true},
		{"06:59", true},
		{"07:00", false}, // end exclusive
		{"12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.now, func(t *testing.T) {
			assert.Equal(t, tt.want, InWindow(start, end, tod(t, tt.now)))
		})
	}
}

func TestInWindow_DisabledWhenEitherBoundMissing(t *testing.T) {
	bound := todPtr(t, "22:00")

	for _, now := range []string{"00:00", "06:30", "12:00", "22:00", "23:59"} {
		assert.False(t, InWindow(nil, nil, tod(t, now)))
		assert.False(t, InWindow(bound, nil, tod(t, now)))
		assert.False(t, InWindow(nil, bound, tod(t, now)))
	}
}

func TestInWindow_EqualBoundsDegenerate(t *testing.T) {
	// Equal bounds fall through to the wrap formula: every time except the
	// bound itself is inside. Validation rejects new windows like this, but
	// the evaluator's behavior for legacy data is pinned here.
	start, end := todPtr(t, "10:00"), todPtr(t, "10:00")

	assert.False(t, InWindow(start, end, tod(t, "10:00")))
	assert.True(t, InWindow(start, end, tod(t, "10:01")))
	assert.True(t, InWindow(start, end, tod(t, "09:59")))
	assert.True(t, InWindow(start, end, tod(t, "00:00")))
}

func TestInWindowPrefs(t *testing.T) {
	prefs := domain.DefaultPreferences()
	assert.False(t, InWindowPrefs(prefs, tod(t, "03:00")))

	prefs.QuietHoursStart = todPtr(t, "22:00")
	prefs.QuietHoursEnd = todPtr(t, "07:00")
	assert.True(t, InWindowPrefs(prefs, tod(t, "03:00")))
	assert.False(t, InWindowPrefs(prefs, tod(t, "12:00")))
}
