package engine

import (
	"database/sql/driver"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const (
	nullValue  = "NULL"
	emptyValue = "(empty)"
	timeLayout = "2006-01-02T15:04:05"
)

// Render converts one column value to its textual form in result lines
func Render(v any) string {
	switch v := v.(type) {
	case nil:
		return nullValue
	case string:
		return renderString(v)
	case []byte:
		return renderString(string(v))
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return renderFloat(float64(v), 32)
	case float64:
		return renderFloat(v, 64)
	case *big.Int:
		if v == nil {
			return nullValue
		}
		return v.String()
	case time.Time:
		return renderTime(v)
	case driver.Valuer:
		inner, err := v.Value()
		if err != nil {
			return fmt.Sprint(v)
		}
		if _, again := inner.(driver.Valuer); again {
			return fmt.Sprint(inner)
		}
		return Render(inner)
	case fmt.Stringer:
		return renderString(v.String())
	default:
		return renderString(fmt.Sprint(v))
	}
}

// RenderRow renders every value of a row
func RenderRow(values []any) []string {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = Render(v)
	}
	return row
}

func renderString(s string) string {
	if s == "" {
		return emptyValue
	}
	return s
}

func renderFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}

func renderTime(t time.Time) string {
	s := t.Format(timeLayout)
	if ns := t.Nanosecond(); ns != 0 {
		frac := strings.TrimRight(fmt.Sprintf("%09d", ns), "0")
		s += "." + frac
	}
	return s
}

// TypeOfName maps an engine type name to a column type letter
func TypeOfName(name string) ColumnType {
	name = strings.ToUpper(name)
	switch {
	case name == "":
		return TypeAny
	case strings.Contains(name, "INT"), strings.Contains(name, "SERIAL"):
		return TypeInteger
	case strings.Contains(name, "REAL"), strings.Contains(name, "FLOA"),
		strings.Contains(name, "DOUB"), strings.Contains(name, "DEC"),
		strings.Contains(name, "NUMERIC"):
		return TypeReal
	case strings.Contains(name, "BOOL"):
		return TypeBool
	case strings.Contains(name, "DATE"), strings.Contains(name, "TIME"):
		return TypeDateTime
	case strings.Contains(name, "CHAR"), strings.Contains(name, "TEXT"),
		strings.Contains(name, "CLOB"), strings.Contains(name, "STRING"),
		strings.Contains(name, "BLOB"), strings.Contains(name, "JSON"):
		return TypeText
	default:
		return TypeAny
	}
}

// TypeOfValue infers a column type letter from a scanned value
func TypeOfValue(v any) ColumnType {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int:
		return TypeInteger
	case float32, float64:
		return TypeReal
	case string, []byte:
		return TypeText
	case bool:
		return TypeBool
	case time.Time:
		return TypeDateTime
	default:
		return TypeAny
	}
}
