package testutil

import "time"

// Deterministic user identifiers shared by integration tests.
const (
	TestUserVerified = "00000000-0000-0000-0000-000000000001"
	TestUserPending  = "00000000-0000-0000-0000-000000000002"
	TestUserMissing  = "00000000-0000-0000-0000-0000000000ff"
)

// FixedNow is the reference clock for tests that depend on account age.
var FixedNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

// DaysBefore returns FixedNow shifted back by n whole days.
func DaysBefore(n int) time.Time {
	return FixedNow.AddDate(0, 0, -n)
}
