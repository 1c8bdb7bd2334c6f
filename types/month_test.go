package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseMonth(t *testing.T) {
	t.Parallel()

	m, err := ParseMonth("03/2025")
	require.NoError(t, err)
	require.Equal(t, NewMonth(2025, time.March), m)
	require.Equal(t, "03/2025", m.String())

	for _, bad := range []string{"", "3/2025", "13/2025", "00/2025", "03-2025", "03/25", "ab/2025", "03/2025 "} {
		_, err := ParseMonth(bad)
		require.ErrorIs(t, err, ErrInvalidMonth, "input %q", bad)
	}
}

func TestMonthArithmetic(t *testing.T) {
	t.Parallel()

	dec := MustParseMonth("12/2024")
	jan := dec.Next()
	require.Equal(t, MustParseMonth("01/2025"), jan)
	require.Equal(t, dec, jan.AddMonths(-1))
	require.True(t, dec.Before(jan))
	require.Equal(t, -1, dec.Compare(jan))
	require.Equal(t, 0, jan.Compare(jan))
	require.Equal(t, 1, jan.Compare(dec))

	require.Equal(t, 3, MonthsBetween(dec, MustParseMonth("02/2025")))
	require.Equal(t, 0, MonthsBetween(jan, dec))
	require.Equal(t, []Month{dec, jan}, MonthRange(dec, jan))
	require.Nil(t, MonthRange(jan, dec))
}

func TestMonthTextEncoding(t *testing.T) {
	t.Parallel()

	type doc struct {
		Start Month             `json:"start" yaml:"start"`
		Hours map[Month]float64 `json:"hours" yaml:"hours"`
	}
	in := doc{Start: MustParseMonth("05/2025"), Hours: map[Month]float64{MustParseMonth("06/2025"): 80}}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.JSONEq(t, `{"start":"05/2025","hours":{"06/2025":80}}`, string(data))

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, in, out)

	var fromYAML doc
	require.NoError(t, yaml.Unmarshal([]byte("start: 05/2025\nhours:\n  06/2025: 80\n"), &fromYAML))
	require.Equal(t, in, fromYAML)

	require.Error(t, json.Unmarshal([]byte(`{"start":"13/2025"}`), &out))
}
