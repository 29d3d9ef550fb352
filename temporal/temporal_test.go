package temporal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duperfmt/duper/temporal"
)

func TestValidateEachVariant(t *testing.T) {
	t.Parallel()
	cases := []struct {
		variant temporal.Variant
		text    string
	}{
		{temporal.Instant, "2024-01-15T10:30:00Z"},
		{temporal.ZonedDateTime, "2024-01-15T10:30:00-05:00[America/New_York]"},
		{temporal.PlainDate, "2024-01-15"},
		{temporal.PlainTime, "10:30:00"},
		{temporal.PlainDateTime, "2024-01-15T10:30:00"},
		{temporal.PlainYearMonth, "2024-01"},
		{temporal.PlainMonthDay, "--01-15"},
		{temporal.Duration, "P1Y2M3DT4H5M6S"},
	}
	for _, c := range cases {
		assert.True(t, temporal.Validate(c.variant, c.text), "variant=%s text=%s", c.variant, c.text)
		assert.True(t, temporal.Validate(temporal.Unspecified, c.text), "unspecified should accept %s", c.text)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	t.Parallel()
	assert.False(t, temporal.Validate(temporal.PlainDate, "not-a-date"))
	assert.False(t, temporal.Validate(temporal.Unspecified, "not-a-date"))
}

func TestHasOrdering(t *testing.T) {
	t.Parallel()
	assert.False(t, temporal.HasOrdering(temporal.PlainMonthDay))
	assert.False(t, temporal.HasOrdering(temporal.Unspecified))
	assert.True(t, temporal.HasOrdering(temporal.PlainDate))
}

func TestCompareInstant(t *testing.T) {
	t.Parallel()
	cmp, ok := temporal.Compare(temporal.Instant, "2024-01-15T10:30:00Z", "2024-01-16T10:30:00Z")
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestCompareRejectsMonthDay(t *testing.T) {
	t.Parallel()
	_, ok := temporal.Compare(temporal.PlainMonthDay, "--01-15", "--02-01")
	assert.False(t, ok)
}

func TestEqualDuration(t *testing.T) {
	t.Parallel()
	eq, ok := temporal.Equal(temporal.Duration, "P1D", "PT24H")
	assert.True(t, ok)
	assert.True(t, eq)
}
