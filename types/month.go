package types

import (
	"fmt"
	"strconv"
	"time"
)

// HoursPerMonth is the nominal number of working hours in one full-time month.
const HoursPerMonth = 160.0

// Month identifies a calendar month.
//
// Month is a comparable value and can be used as a map key. Its canonical text
// form is the fixed-width "MM/YYYY" string, which is also used for JSON and YAML.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth returns the Month for the given year and calendar month.
func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// ParseMonth parses a strict "MM/YYYY" string.
//
// The month must be two digits in the range 01-12 and the year four digits.
//
// Parameters:
//   - s: Month string such as "03/2025"
//
// Returns:
//   - Month: Parsed month
//   - error: ErrInvalidMonth (wrapped) when s is malformed
func ParseMonth(s string) (Month, error) {
	if len(s) != 7 || s[2] != '/' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}

	mm, _ := strconv.Atoi(s[:2])
	yyyy, _ := strconv.Atoi(s[3:])
	if mm < 1 || mm > 12 {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}

	return Month{Year: yyyy, Month: time.Month(mm)}, nil
}

// MustParseMonth is like ParseMonth but panics on malformed input.
// Intended for tests and static tables.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}

	return m
}

// String returns the "MM/YYYY" form.
func (m Month) String() string {
	return fmt.Sprintf("%02d/%04d", int(m.Month), m.Year)
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Index returns a monotonically increasing ordinal of the month, suitable for
// arithmetic between months.
func (m Month) Index() int {
	return m.Year*12 + int(m.Month) - 1
}

// AddMonths returns the month n months after m (n may be negative).
func (m Month) AddMonths(n int) Month {
	idx := m.Index() + n

	return Month{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	return m.Index() < o.Index()
}

// Compare returns -1, 0 or +1 depending on whether m is before, equal to or after o.
func (m Month) Compare(o Month) int {
	switch a, b := m.Index(), o.Index(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(text []byte) error {
	parsed, err := ParseMonth(string(text))
	if err != nil {
		return err
	}
	*m = parsed

	return nil
}

// MonthsBetween returns the inclusive number of months from start to end.
// It returns 0 when end is before start.
func MonthsBetween(start, end Month) int {
	n := end.Index() - start.Index() + 1
	if n < 0 {
		return 0
	}

	return n
}

// MonthRange returns every month from start to end inclusive, in order.
// It returns nil when end is before start.
func MonthRange(start, end Month) []Month {
	n := MonthsBetween(start, end)
	if n == 0 {
		return nil
	}

	months := make([]Month, n)
	for i := range n {
		months[i] = start.AddMonths(i)
	}

	return months
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
