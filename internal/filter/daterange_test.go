package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange_Contains(t *testing.T) {
	from := day("2024-03-01")
	to := day("2024-03-31")
	cases := []struct {
		name string
		r    DateRange
		d    string
		want bool
	}{
		{"unset matches early", DateRange{}, "1970-01-01", true},
		{"unset matches late", DateRange{}, "2999-12-31", true},
		{"since: day before", Since(from), "2024-02-29", false},
		{"since: first day", Since(from), "2024-03-01", true},
		{"since: far future", Since(from), "2030-01-01", true},
		{"between: first day", Between(from, to), "2024-03-01", true},
		{"between: last day", Between(from, to), "2024-03-31", true},
		{"between: day after", Between(from, to), "2024-04-01", false},
		{"single day", Between(from, from), "2024-03-01", true},
		{"to only never matches", DateRange{To: &to}, "2024-03-05", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.r.Contains(day(tc.d)))
		})
	}
}

func TestDateRange_ContainsIgnoresTimeOfDay(t *testing.T) {
	r := Between(day("2024-03-01"), day("2024-03-01"))
	late := time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC)
	assert.True(t, r.Contains(late))
	assert.False(t, r.Contains(late.Add(2*time.Second)))
}

func TestNewDateRange_Validates(t *testing.T) {
	to := day("2024-01-01")
	_, err := NewDateRange(nil, &to)
	require.ErrorIs(t, err, ErrInvalidValue)

	from := day("2024-02-01")
	_, err = NewDateRange(&from, &to)
	require.ErrorIs(t, err, ErrInvalidValue)

	r, err := NewDateRange(&to, &from)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01..2024-02-01", r.String())
}

func TestParseDateRange(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "2024-03-01", want: "2024-03-01.."},
		{in: "2024-03-01..", want: "2024-03-01.."},
		{in: " 2024-03-01 .. 2024-03-31 ", want: "2024-03-01..2024-03-31"},
		{in: "..2024-03-31", wantErr: true},
		{in: "2024-03-31..2024-03-01", wantErr: true},
		{in: "03/01/2024", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			r, err := ParseDateRange(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, r.String())
		})
	}
}

func TestParseDateBounds(t *testing.T) {
	r, err := ParseDateBounds("", "")
	require.NoError(t, err)
	assert.True(t, r.IsUnset())

	_, err = ParseDateBounds("", "2024-01-01")
	require.ErrorIs(t, err, ErrInvalidValue)

	r, err = ParseDateBounds("2024-01-01", "")
	require.NoError(t, err)
	assert.Nil(t, r.To)
}

func TestDateRange_Label(t *testing.T) {
	assert.Equal(t, "All Dates", DateRange{}.Label())
	assert.Equal(t, "Since Mar 01, 2024", Since(day("2024-03-01")).Label())
	assert.Equal(t, "Mar 01, 2024", Between(day("2024-03-01"), day("2024-03-01")).Label())
	assert.Equal(t, "Mar 01, 2024 - Mar 09, 2024", Between(day("2024-03-01"), day("2024-03-09")).Label())
}
