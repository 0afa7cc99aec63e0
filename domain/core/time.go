package core

import (
	"time"
)

// Timestamp represents a point in time, used both as the internal clock and
// as the canonical representation of the vendor "timestamp" scalar type.
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// FromEpochMillis builds a Timestamp from a vendor {kind:"timestamp",epochMs} tag.
func FromEpochMillis(epochMs int64) Timestamp {
	return Timestamp(time.UnixMilli(epochMs).UTC())
}

// Now returns the current timestamp.
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// EpochMillis returns the vendor-wire epoch-millisecond representation.
func (t Timestamp) EpochMillis() int64 {
	return t.Time().UnixMilli()
}

// IsZero checks if the timestamp is zero.
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u.
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u.
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// MarshalJSON marshals a Timestamp as RFC3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

// UnmarshalJSON parses an RFC3339 timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

// String formats the timestamp as RFC3339.
func (t Timestamp) String() string {
	return t.Time().Format(time.RFC3339Nano)
}
