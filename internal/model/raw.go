package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// RawJSON carries a column whose type the service does not interpret. It is
// echoed to clients exactly as the store returned it; empty means null.
type RawJSON json.RawMessage

// TextValue wraps s as a JSON string.
func TextValue(s string) RawJSON {
	b, _ := json.Marshal(s)
	return RawJSON(b)
}

// MarshalJSON implements json.Marshaler.
func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawJSON) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*r = nil
		return nil
	}
	*r = append((*r)[:0], b...)
	return nil
}

// Scan implements sql.Scanner. Text columns become JSON strings and numeric
// columns JSON numbers.
func (r *RawJSON) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*r = nil
	case string:
		*r = TextValue(v)
	case []byte:
		*r = TextValue(string(v))
	case int64:
		*r = RawJSON(strconv.FormatInt(v, 10))
	case float64:
		*r = RawJSON(strconv.FormatFloat(v, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported value %T for RawJSON", value)
	}
	return nil
}

// Value implements driver.Valuer. JSON strings are stored unquoted; any other
// JSON value is stored as its literal text.
func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 || bytes.Equal(r, []byte("null")) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return s, nil
	}
	return string(r), nil
}

// GormDataType keeps the column textual.
func (RawJSON) GormDataType() string {
	return "string"
}
