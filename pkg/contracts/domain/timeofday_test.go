package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCloseTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    TimeOfDay
		wantErr bool
	}{
		{
			name: "full 8 digit value",
			raw:  "10305512",
			want: TimeOfDay{Hour: 10, Minute: 30, Second: 55, Hundredths: 12},
		},
		{
			name: "short value is left padded",
			raw:  "93000",
			want: TimeOfDay{Hour: 0, Minute: 9, Second: 30, Hundredths: 0},
		},
		{
			name: "seven digits pads the hour",
			raw:  "9300012",
			want: TimeOfDay{Hour: 9, Minute: 30, Second: 0, Hundredths: 12},
		},
		{
			name: "midnight",
			raw:  "0",
			want: TimeOfDay{},
		},
		{
			name:    "empty value",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "non numeric",
			raw:     "10:30:55",
			wantErr: true,
		},
		{
			name:    "more than 8 digits",
			raw:     "103055123",
			wantErr: true,
		},
		{
			name:    "hour out of range",
			raw:     "25000000",
			wantErr: true,
		},
		{
			name:    "minute out of range",
			raw:     "10600000",
			wantErr: true,
		},
		{
			name:    "second out of range",
			raw:     "10306000",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCloseTime(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	tod, err := ParseCloseTime("10305512")
	require.NoError(t, err)
	assert.Equal(t, "10:30:55.12", tod.String())

	tod, err = ParseCloseTime("0")
	require.NoError(t, err)
	assert.Equal(t, "00:00:00.00", tod.String())
}

func TestTimeOfDayOrdering(t *testing.T) {
	earlier, err := ParseCloseTime("10305511")
	require.NoError(t, err)
	later, err := ParseCloseTime("10305512")
	require.NoError(t, err)

	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))
	assert.False(t, earlier.Before(earlier))
	assert.Equal(t, later.Centis()-earlier.Centis(), 1)
}

func TestTimeOfDayMarshalJSON(t *testing.T) {
	tod, err := ParseCloseTime("10305512")
	require.NoError(t, err)

	data, err := json.Marshal(tod)
	require.NoError(t, err)
	assert.Equal(t, `"10:30:55.12"`, string(data))
}
