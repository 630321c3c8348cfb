package date

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestParse(t *testing.T) {
	day := On(2025, time.March, 10)

	got, err := Parse("2025-03-10")
	require.NoError(t, err)
	assert.True(t, day.Equal(got.Time))

	got, err = Parse(" 1741600800000 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1741600800000), got.Millis())

	got, err = Parse("2025-03-10T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC).UnixMilli(), got.Millis())

	_, err = Parse("next tuesday")
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	assert.Equal(t, "2025-03-10", On(2025, time.March, 10).String())

	withTime := Timestamp{time.Date(2025, time.March, 10, 14, 5, 0, 0, time.Local)}
	assert.Equal(t, "2025-03-10 14:05", withTime.String())
}

func TestYAMLRoundTrip(t *testing.T) {
	type record struct {
		Due *Timestamp `yaml:"due,omitempty"`
	}
	in := record{Due: Ptr(On(2025, time.March, 10))}
	data, err := yaml.Marshal(in)
	require.NoError(t, err)

	var out record
	require.NoError(t, yaml.Unmarshal(data, &out))
	require.NotNil(t, out.Due)
	assert.Equal(t, in.Due.Millis(), out.Due.Millis())

	var fromDay record
	require.NoError(t, yaml.Unmarshal([]byte("due: 2025-03-10\n"), &fromDay))
	assert.Equal(t, in.Due.Millis(), fromDay.Due.Millis())
}

func TestJSONAcceptsNumbersAndStrings(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`1741600800000`), &ts))
	assert.Equal(t, int64(1741600800000), ts.Millis())

	require.NoError(t, json.Unmarshal([]byte(`"2025-03-10"`), &ts))
	assert.Equal(t, On(2025, time.March, 10).Millis(), ts.Millis())

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatInt(ts.Millis(), 10), string(data))

	assert.Error(t, json.Unmarshal([]byte(`true`), &ts))
}

func TestDayHelpers(t *testing.T) {
	now := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.Local)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local), StartOfDay(now))
	assert.Equal(t, time.Date(2025, time.March, 17, 0, 0, 0, 0, time.Local), AddDays(now, 7))

	utc := Timestamp{time.Date(2025, time.March, 10, 22, 0, 0, 0, time.UTC)}
	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, time.Date(2025, time.March, 11, 0, 0, 0, 0, tokyo), Day(utc, tokyo))
}
