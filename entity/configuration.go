package entity

import (
	"time"

	"github.com/pkg/errors"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// Configuration is a saved extract: the filters and rules and the exact sql they compiled to.
type Configuration struct {
	Id        string    `json:"config_id"`
	Name      string    `json:"config_name"`
	Source    string    `json:"source_name"`
	View      string    `json:"view_name"`
	Filters   []Filter  `json:"filters"`
	Rules     []Rule    `json:"rules"`
	Sql       string    `json:"sql_text"`
	CreatedAt time.Time `json:"created_at"`
}

// FormatTime renders a fixed width utc timestamp that sorts chronologically as a string.
func FormatTime(ts time.Time) string {
	return ts.UTC().Format(timeLayout)
}

// ParseTime parses a timestamp as written by FormatTime, falling back to RFC3339.
func ParseTime(in string) (ts time.Time, err error) {

	ts, err = time.Parse(timeLayout, in)
	if err == nil {
		return
	}

	ts, err = time.Parse(time.RFC3339Nano, in)
	err = errors.Wrapf(err, "failed to parse timestamp %q", in)
	return
}
