package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	march15 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).Unix()

	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"empty", "", 0},
		{"garbage", "not-a-date", 0},
		{"iso with Z", "2024-03-15T10:00:00Z", 1710496800},
		{"iso with offset", "2024-03-15T17:00:00+07:00", 1710496800},
		{"iso with fraction", "2024-03-15T10:00:00.250Z", 1710496800},
		{"iso unzoned is UTC", "2024-03-15T10:00:00", 1710496800},
		{"iso date only", "2024-03-15", march15},
		{"space separated", "2024-03-15 10:00:00", 1710496800},
		{"abbreviated month", "Mar 15, 2024", march15},
		{"day first slashes", "15/03/2024", march15},
		{"day first unpadded", "5/3/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC).Unix()},
		{"surrounding whitespace", "  2024-03-15  ", march15},
		{"long month not in base set", "15 March 2024", 0},
		{"pre-epoch clamps to unknown", "1969-12-31T00:00:00Z", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizer_ExtendedLayouts(t *testing.T) {
	n := NewNormalizer(ExtendedLayouts)
	march15 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC).Unix()

	assert.Equal(t, march15, n.Normalize("15 March 2024"))
	assert.Equal(t, march15, n.Normalize("March 15, 2024"))
	assert.Equal(t, march15, n.Normalize("15/03/2024"))
	assert.Equal(t, int64(0), n.Normalize("Ides of March"))
}

func TestNormalize_RoundTripIsIdempotent(t *testing.T) {
	inputs := []string{
		"2024-03-15T10:00:00Z",
		"2023-12-31 23:59:59",
		"Jan 2, 2022",
		"01/02/2021",
		"2020-02-29",
	}

	for _, in := range inputs {
		first := Normalize(in)
		assert.Greater(t, first, int64(0), in)

		again := Normalize(time.Unix(first, 0).UTC().Format(time.RFC3339))
		assert.Equal(t, first, again, in)
	}
}

func TestExtendedLayoutsDoesNotAliasBase(t *testing.T) {
	assert.Len(t, BaseLayouts, 5)
	assert.Len(t, ExtendedLayouts, 7)
}
