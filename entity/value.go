package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	Null Kind = iota
	String
	Int
	Float
	Bool
	Time
	Bytes
	Other
)

// Value wraps a field value and provides type conversion helpers.
type Value struct {
	Kind Kind
	Raw  any
}

// NewValue normalizes a value scanned from a driver and tags it.
func NewValue(raw any) Value {

	switch v := raw.(type) {
	case nil:
		return Value{Kind: Null}
	case string:
		return Value{Kind: String, Raw: v}
	case int64:
		return Value{Kind: Int, Raw: v}
	case int:
		return Value{Kind: Int, Raw: int64(v)}
	case int32:
		return Value{Kind: Int, Raw: int64(v)}
	case int16:
		return Value{Kind: Int, Raw: int64(v)}
	case int8:
		return Value{Kind: Int, Raw: int64(v)}
	case uint64:
		if v > math.MaxInt64 {
			return Value{Kind: Other, Raw: v}
		}
		return Value{Kind: Int, Raw: int64(v)}
	case uint:
		if uint64(v) > math.MaxInt64 {
			return Value{Kind: Other, Raw: v}
		}
		return Value{Kind: Int, Raw: int64(v)}
	case uint32:
		return Value{Kind: Int, Raw: int64(v)}
	case uint16:
		return Value{Kind: Int, Raw: int64(v)}
	case uint8:
		return Value{Kind: Int, Raw: int64(v)}
	case float64:
		return Value{Kind: Float, Raw: v}
	case float32:
		return Value{Kind: Float, Raw: float64(v)}
	case bool:
		return Value{Kind: Bool, Raw: v}
	case time.Time:
		return Value{Kind: Time, Raw: v}
	case []byte:
		return Value{Kind: Bytes, Raw: v}
	}
	return Value{Kind: Other, Raw: raw}
}

// IsNull reports whether the value is sql null.
func (v Value) IsNull() bool {
	return v.Kind == Null
}

// String returns the value as a string.
func (v Value) String() string {

	switch v.Kind {
	case Null:
		return ""
	case Bytes:
		return string(v.Raw.([]byte))
	case Time:
		return v.Raw.(time.Time).Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v.Raw)
}

// Int returns the value as an int.
func (v Value) Int() (int, error) {
	i, ok := v.Raw.(int64)
	if !ok {
		return 0, errors.Errorf("value is not an int64: %T", v.Raw)
	}
	return int(i), nil
}

// Float returns the value as a float64.
func (v Value) Float() (float64, error) {
	f, ok := v.Raw.(float64)
	if !ok {
		return 0, errors.Errorf("value is not a float64: %T", v.Raw)
	}
	return f, nil
}

// Bool returns the value as a bool.
func (v Value) Bool() (bool, error) {
	b, ok := v.Raw.(bool)
	if !ok {
		return false, errors.Errorf("value is not a bool: %T", v.Raw)
	}
	return b, nil
}

// Time returns the value as a time.Time.
func (v Value) Time() (time.Time, error) {
	t, ok := v.Raw.(time.Time)
	if !ok {
		return time.Time{}, errors.Errorf("value is not a time.Time: %T", v.Raw)
	}
	return t, nil
}

// Row is an ordered list of values, aligned with Result.Columns.
type Row []Value

// Result is the outcome of a query: column names and rows in order.
type Result struct {
	Columns []string
	Rows    []Row
}

// Strings renders each row as strings, for display.
func (res Result) Strings() (rows [][]string) {

	rows = make([][]string, len(res.Rows))
	for i, row := range res.Rows {
		rows[i] = make([]string, len(row))
		for j, val := range row {
			rows[i][j] = val.String()
		}
	}
	return
}
