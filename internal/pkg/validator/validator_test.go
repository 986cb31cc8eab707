package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("a"))
	assert.False(t, IsEmpty(" a "))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("0190b3a5-47c1-7def-89ab-0123456789ab"))
	assert.True(t, IsValidUUID("123E4567-E89B-42D3-A456-426614174000"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("123e4567e89b42d3a456426614174000"))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-01-31")
	assert.True(t, ok)

	_, ok = IsValidDate("2025-02-30")
	assert.False(t, ok)

	_, ok = IsValidDate("31-01-2025")
	assert.False(t, ok)

	_, ok = IsValidDate("")
	assert.False(t, ok)
}

func TestIsValidClockTime(t *testing.T) {
	_, ok := IsValidClockTime("18:30")
	assert.True(t, ok)

	_, ok = IsValidClockTime("18:30:15")
	assert.True(t, ok)

	_, ok = IsValidClockTime("25:00")
	assert.False(t, ok)

	_, ok = IsValidClockTime("6pm")
	assert.False(t, ok)
}

func TestIsInSlice(t *testing.T) {
	values := []string{"draft", "submitted", "approved"}
	assert.True(t, IsInSlice("draft", values))
	assert.False(t, IsInSlice("rejected", values))
	assert.False(t, IsInSlice("", values))
}

func TestCoordinateRanges(t *testing.T) {
	assert.True(t, IsValidLatitude(0))
	assert.True(t, IsValidLatitude(-90))
	assert.True(t, IsValidLatitude(90))
	assert.False(t, IsValidLatitude(90.01))

	assert.True(t, IsValidLongitude(180))
	assert.True(t, IsValidLongitude(-180))
	assert.False(t, IsValidLongitude(-180.5))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "period_start", Message: "period_start is required"},
		{Field: "period_end", Message: "period_end must be in YYYY-MM-DD format"},
	}

	assert.Contains(t, errs.Error(), "period_start: period_start is required")
	assert.Contains(t, errs.Error(), "; ")

	m := errs.ToMap()
	assert.Len(t, m, 2)
	assert.Equal(t, "period_start is required", m["period_start"])
}
