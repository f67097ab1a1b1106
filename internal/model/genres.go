package model

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// Genres is the list of genre names attached to a venue or artist. It is
// persisted as a JSON array in a single column.
type Genres []string

// Value encodes the genres as a JSON array. A nil list is stored as "[]".
func (g Genres) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan decodes a JSON array column. NULL scans into an empty list.
func (g *Genres) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*g = Genres{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("genres: unsupported scan type %T", src)
	}
	if len(raw) == 0 {
		*g = Genres{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("genres: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*g = out
	return nil
}
