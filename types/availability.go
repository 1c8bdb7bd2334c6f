package types

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Availability maps a month to the fraction of full time a person can work in it.
//
// Months absent from the map mean zero availability.
type Availability map[Month]float64

var (
	availabilityEntry = regexp.MustCompile(`^(\d{2}/\d{4}):([0-9.]+)$`)
	commitmentEntry   = regexp.MustCompile(`^(\d{2}/\d{4}):(.+)$`)
)

// ParseAvailability parses the compact "MM/YYYY:fraction,MM/YYYY:fraction" form.
//
// Parsing is lenient: surrounding whitespace is trimmed and every entry that
// does not match the expected shape, names an invalid month or carries an
// unparsable fraction is dropped without error. Later duplicates win.
//
// Parameters:
//   - s: Availability string, e.g. "01/2025:0.5,02/2025:1.0"
//
// Returns:
//   - Availability: Parsed entries (never nil)
func ParseAvailability(s string) Availability {
	out := make(Availability)
	for _, raw := range strings.Split(s, ",") {
		m := availabilityEntry.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}

		month, err := ParseMonth(m[1])
		if err != nil {
			continue
		}

		fraction, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		out[month] = fraction
	}

	return out
}

// Fraction returns the availability fraction for month, zero if absent.
func (a Availability) Fraction(month Month) float64 {
	return a[month]
}

// Months returns the months with an entry, in chronological order.
func (a Availability) Months() []Month {
	months := make([]Month, 0, len(a))
	for m := range a {
		months = append(months, m)
	}
	slices.SortFunc(months, Month.Compare)

	return months
}

// String returns the canonical compact form, months in chronological order.
func (a Availability) String() string {
	parts := make([]string, 0, len(a))
	for _, m := range a.Months() {
		parts = append(parts, m.String()+":"+strconv.FormatFloat(a[m], 'f', -1, 64))
	}

	return strings.Join(parts, ",")
}

// ParseCommitments parses the compact "MM/YYYY:projectID,..." form describing
// which project a person is already booked on per month.
//
// Entries that are malformed, name an invalid month or use the "free" marker
// (empty or "Frei"/"free", case-insensitive) are dropped.
func ParseCommitments(s string) map[Month]string {
	out := make(map[Month]string)
	for _, raw := range strings.Split(s, ",") {
		m := commitmentEntry.FindStringSubmatch(strings.TrimSpace(raw))
		if m == nil {
			continue
		}

		month, err := ParseMonth(m[1])
		if err != nil {
			continue
		}

		project := strings.TrimSpace(m[2])
		if isFreeMarker(project) {
			continue
		}
		out[month] = project
	}

	return out
}

func isFreeMarker(s string) bool {
	return s == "" || strings.EqualFold(s, "frei") || strings.EqualFold(s, "free")
}

// FormatCommitments returns the compact form of commitments, months in
// chronological order. It is the inverse of ParseCommitments.
func FormatCommitments(c map[Month]string) string {
	months := make([]Month, 0, len(c))
	for m, project := range c {
		if !isFreeMarker(project) {
			months = append(months, m)
		}
	}
	slices.SortFunc(months, Month.Compare)

	parts := make([]string, 0, len(months))
	for _, m := range months {
		parts = append(parts, m.String()+":"+c[m])
	}

	return strings.Join(parts, ",")
}
