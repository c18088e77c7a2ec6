package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "9:30", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "", wantErr: true},
		{in: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:05", FormatClock(545))
	assert.Equal(t, "00:00", FormatClock(-10))
	assert.Equal(t, "23:59", FormatClock(MinutesPerDay+5))
}

func TestParseClockRange(t *testing.T) {
	iv, err := ParseClockRange("09:00", "17:00")
	assert.NoError(t, err)
	assert.Equal(t, Interval{Start: 540, End: 1020}, iv)

	_, err = ParseClockRange("17:00", "09:00")
	assert.Error(t, err, "inverted range must be rejected")

	_, err = ParseClockRange("09:00", "09:00")
	assert.Error(t, err, "empty range must be rejected")
}
