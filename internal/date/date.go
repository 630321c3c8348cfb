// Package date provides the millisecond Timestamp used by task metadata and
// calendar-day helpers evaluated in the caller's location.
package date

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const dayFormat = "2006-01-02"

// Timestamp is an instant serialized as epoch milliseconds.
type Timestamp struct {
	time.Time
}

// FromMillis creates a Timestamp from epoch milliseconds.
func FromMillis(ms int64) Timestamp {
	return Timestamp{time.UnixMilli(ms)}
}

// On returns local midnight of the given calendar day.
func On(year int, month time.Month, day int) Timestamp {
	return Timestamp{time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// Ptr returns a pointer to a copy of ts. Handy for optional metadata fields.
func Ptr(ts Timestamp) *Timestamp {
	return &ts
}

// Millis returns the timestamp as epoch milliseconds.
func (ts Timestamp) Millis() int64 {
	return ts.UnixMilli()
}

// String renders the local calendar day when the instant is a local
// midnight, otherwise the local date and time.
func (ts Timestamp) String() string {
	local := ts.Local()
	if local.Equal(StartOfDay(local)) {
		return local.Format(dayFormat)
	}
	return local.Format("2006-01-02 15:04")
}

// Parse accepts epoch milliseconds, YYYY-MM-DD (local midnight) or RFC 3339.
func Parse(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromMillis(ms), nil
	}
	if t, err := time.ParseInLocation(dayFormat, s, time.Local); err == nil {
		return Timestamp{t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Timestamp{t}, nil
	}
	return Timestamp{}, fmt.Errorf("invalid date %q: expected epoch milliseconds, YYYY-MM-DD or RFC 3339", s)
}

// MarshalYAML implements yaml.Marshaler.
func (ts Timestamp) MarshalYAML() (interface{}, error) {
	return ts.Millis(), nil
}

// UnmarshalYAML implements yaml.v3 Unmarshaler.
func (ts *Timestamp) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := Parse(value.Value)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Millis())
}

// UnmarshalJSON implements json.Unmarshaler. Numbers are epoch milliseconds;
// strings go through Parse.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err == nil {
		*ts = FromMillis(ms)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date %s", data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves a midnight by whole calendar days, staying on midnight
// across DST transitions.
func AddDays(t time.Time, days int) time.Time {
	return StartOfDay(t).AddDate(0, 0, days)
}

// Day returns ts normalized to midnight in loc.
func Day(ts Timestamp, loc *time.Location) time.Time {
	return StartOfDay(ts.In(loc))
}
