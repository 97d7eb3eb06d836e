package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WireLayout is the date format used on the REST surface.
const WireLayout = "2006-01-02T15:04:05"

// accepted input layouts, tried in order
var inputLayouts = []string{
	WireLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a UTC instant with whole-second precision that serializes as
// YYYY-MM-DDTHH:mm:ss.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns t in canonical form.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Second)}
}

// Now returns the current time as a canonical Timestamp.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// ParseTimestamp parses the wire layout, RFC 3339 or a plain date.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range inputLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

// Canonical drops sub-second precision and the zone.
func (t Timestamp) Canonical() Timestamp {
	return NewTimestamp(t.Time)
}

func (t Timestamp) String() string {
	return t.UTC().Format(WireLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan reads the SQLite store's datetime columns, which the driver hands back
// as time.Time or as text.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = NewTimestamp(v)
		return nil
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case nil:
		*t = Timestamp{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Timestamp", src)
}

// Value writes the canonical UTC instant.
func (t Timestamp) Value() (driver.Value, error) {
	return t.UTC(), nil
}
