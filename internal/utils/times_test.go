package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeAcceptsStoredForms(t *testing.T) {
	rfc, err := ParseTime("2024-03-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), rfc)

	// CURRENT_TIMESTAMP column defaults store this form.
	def, err := ParseTime("2024-03-15 10:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), def)
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	_, err := ParseTime("not a timestamp")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("15-03-2024")
	assert.Error(t, err)
}

func TestFormatTimeNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	assert.Equal(t, "2024-03-15T05:00:00Z",
		FormatTime(time.Date(2024, 3, 15, 10, 30, 0, 0, loc)))
}
