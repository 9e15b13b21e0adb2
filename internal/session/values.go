package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeFormat renders time values the driver decodes from DATE, DATETIME and
// TIMESTAMP columns.
const TimeFormat = "2006-01-02 15:04:05.999999999-07:00"

// Null is how a NULL value is displayed.
const Null = "NULL"

// FormatValue renders a scanned column value as display text. Every value has
// a rendering; blobs that are not valid UTF-8 are shown with replacement
// characters.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return Null
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case []byte:
		return strings.ToValidUTF8(string(x), "�")
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		return x.Format(TimeFormat)
	default:
		return fmt.Sprint(x)
	}
}
