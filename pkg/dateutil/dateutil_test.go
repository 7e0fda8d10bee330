package dateutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	d, err := Parse("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, New(2024, time.January, 10), d)
	assert.Equal(t, "2024-01-10", d.String())

	_, err = Parse("10.01.2024")
	assert.Error(t, err)

	_, err = Parse("2024-02-30")
	assert.Error(t, err)
}

func TestComparisons(t *testing.T) {
	jan10 := New(2024, time.January, 10)
	jan11 := New(2024, time.January, 11)

	assert.True(t, jan11.After(jan10))
	assert.False(t, jan10.After(jan10))
	assert.True(t, jan10.Before(jan11))
	assert.True(t, jan10.Equal(New(2024, time.January, 10)))
}

func TestAddDaysNormalizes(t *testing.T) {
	endOfYear := New(2023, time.December, 31)
	assert.Equal(t, New(2024, time.January, 1), endOfYear.AddDays(1))
	assert.Equal(t, New(2023, time.December, 30), endOfYear.AddDays(-1))
}

func TestFromTimeIgnoresClock(t *testing.T) {
	late := time.Date(2024, time.March, 5, 23, 59, 59, 0, time.FixedZone("X", 5*3600))
	assert.Equal(t, New(2024, time.March, 5), FromTime(late))
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2024, time.January, 10)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-10"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)

	var invalid Date
	assert.Error(t, json.Unmarshal([]byte(`42`), &invalid))
	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &invalid))
}

func TestScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.January, 10, 13, 30, 0, 0, time.UTC)))
	assert.Equal(t, New(2024, time.January, 10), d)

	require.NoError(t, d.Scan("2024-02-29"))
	assert.Equal(t, New(2024, time.February, 29), d)

	assert.Error(t, d.Scan(12345))
}

func TestTodayMatchesClock(t *testing.T) {
	before := FromTime(time.Now())
	today := Today()
	after := FromTime(time.Now())

	// Guard against the test running exactly across midnight.
	assert.True(t, today.Equal(before) || today.Equal(after))
}
