package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAvailability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want Availability
	}{
		{
			name: "two months",
			in:   "01/2025:0.5,02/2025:1.0",
			want: Availability{MustParseMonth("01/2025"): 0.5, MustParseMonth("02/2025"): 1.0},
		},
		{
			name: "malformed entry dropped",
			in:   "13/25:x",
			want: Availability{},
		},
		{
			name: "invalid month dropped, valid kept",
			in:   "13/2025:0.5, 03/2025:0.25",
			want: Availability{MustParseMonth("03/2025"): 0.25},
		},
		{
			name: "unparsable number dropped",
			in:   "01/2025:1.2.3,02/2025:.5",
			want: Availability{MustParseMonth("02/2025"): 0.5},
		},
		{
			name: "empty",
			in:   "",
			want: Availability{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseAvailability(tt.in))
		})
	}
}

func TestAvailabilityString(t *testing.T) {
	t.Parallel()

	a := ParseAvailability("02/2025:1,01/2025:0.5")
	require.Equal(t, "01/2025:0.5,02/2025:1", a.String())
	require.Equal(t, 0.0, a.Fraction(MustParseMonth("03/2025")))
	require.Equal(t, a, ParseAvailability(a.String()))
}

func TestParseCommitments(t *testing.T) {
	t.Parallel()

	got := ParseCommitments("01/2025:P1, 02/2025:Frei,03/2025:free,04/2025:,xx/2025:P9,05/2025:P2")
	require.Equal(t, map[Month]string{
		MustParseMonth("01/2025"): "P1",
		MustParseMonth("05/2025"): "P2",
	}, got)
}

func TestFormatCommitments(t *testing.T) {
	t.Parallel()

	c := map[Month]string{
		MustParseMonth("05/2025"): "P2",
		MustParseMonth("01/2025"): "P1",
		MustParseMonth("03/2025"): "free",
	}
	require.Equal(t, "01/2025:P1,05/2025:P2", FormatCommitments(c))
	require.Empty(t, FormatCommitments(nil))
	require.Equal(t, map[Month]string{
		MustParseMonth("01/2025"): "P1",
		MustParseMonth("05/2025"): "P2",
	}, ParseCommitments(FormatCommitments(c)))
}
