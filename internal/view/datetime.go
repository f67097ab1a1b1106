package view

import (
	"fmt"
	"time"

	"github.com/iliyamo/fyyur/internal/form"
)

// Named datetime formats understood by FormatDatetime.
const (
	LayoutFull   = "Monday January, 2, 2006 at 3:04PM"
	LayoutMedium = "Mon 01, 02, 2006 3:04PM"
)

// FormatDatetime renders value with a named format ("full" or "medium")
// or, failing that, with format used as a Go layout. Strings are parsed
// first. An empty format means "medium".
func FormatDatetime(value any, format string) (string, error) {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return "", nil
		}
		t = *v
	case string:
		parsed, err := form.ParseTime(v)
		if err != nil {
			return "", err
		}
		t = parsed
	default:
		return "", fmt.Errorf("datetime: unsupported value %T", value)
	}

	switch format {
	case "", "medium":
		format = LayoutMedium
	case "full":
		format = LayoutFull
	}
	return t.Format(format), nil
}
