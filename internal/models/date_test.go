package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.May, 17)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-17"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "2024-05-17", parsed.String())
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"17.05.2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
}

func TestDateScanTruncatesDatetime(t *testing.T) {
	var d Date

	// Драйверы могут возвращать полную отметку времени
	require.NoError(t, d.Scan("2024-05-17 14:30:00"))
	assert.Equal(t, "2024-05-17", d.String())

	require.NoError(t, d.Scan(time.Date(2024, time.May, 17, 14, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2024-05-17", d.String())

	require.NoError(t, d.Scan([]byte("2024-05-17")))
	assert.Equal(t, "2024-05-17", d.String())
}

func TestDateScanNil(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(nil))
	assert.Equal(t, "0001-01-01", d.String())
}

func TestTimingAndResultSets(t *testing.T) {
	assert.True(t, IsValidTiming(TimingHoldPoint))
	assert.True(t, IsValidTiming(TimingRandomCheck))
	assert.False(t, IsValidTiming("whenever"))
	assert.False(t, IsValidTiming(""))

	assert.True(t, IsValidResult(ResultPass))
	assert.True(t, IsValidResult(ResultFail))
	assert.False(t, IsValidResult("maybe"))
	assert.False(t, IsValidResult(""))
}
