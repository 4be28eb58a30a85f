package lms

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:30", want: NewTimeOfDay(9, 30, 0)},
		{in: "09:30:15", want: NewTimeOfDay(9, 30, 15)},
		{in: " 14:00 ", want: NewTimeOfDay(14, 0, 0)},
		{in: "2023-09-01T14:05:00", want: NewTimeOfDay(14, 5, 0)},
		{in: "2023-09-01T14:05:00Z", want: NewTimeOfDay(14, 5, 0)},
		{in: "25:00", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_JSON(t *testing.T) {
	data, err := json.Marshal(NewTimeOfDay(9, 5, 0))
	require.NoError(t, err)
	assert.Equal(t, `"09:05:00"`, string(data))

	var tod TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"17:45"`), &tod))
	assert.Equal(t, NewTimeOfDay(17, 45, 0), tod)

	assert.Error(t, json.Unmarshal([]byte(`"later"`), &tod))
}

func TestTimeOfDay_Scan(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan(time.Date(0, 1, 1, 8, 15, 0, 0, time.UTC)))
	assert.Equal(t, NewTimeOfDay(8, 15, 0), tod)

	require.NoError(t, tod.Scan([]byte("10:00:00")))
	assert.Equal(t, NewTimeOfDay(10, 0, 0), tod)

	require.NoError(t, tod.Scan("11:30:00"))
	assert.Equal(t, NewTimeOfDay(11, 30, 0), tod)

	assert.Error(t, tod.Scan(42.0))
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(time.Date(1999, time.December, 31, 23, 59, 0, 0, time.UTC))
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1999-12-31"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, parsed.Equal(d.Time))
}

func TestOverlaps(t *testing.T) {
	at := func(h, m int) TimeOfDay { return NewTimeOfDay(h, m, 0) }
	tests := []struct {
		name                     string
		start1, end1, start2, end2 TimeOfDay
		want                     bool
	}{
		{"same range", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"contained", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"partial", at(9, 0), at(10, 30), at(10, 0), at(11, 0), true},
		{"touching bounds", at(9, 0), at(10, 0), at(10, 0), at(11, 0), true},
		{"before", at(9, 0), at(10, 0), at(10, 1), at(11, 0), false},
		{"after", at(12, 0), at(13, 0), at(9, 0), at(11, 59), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.start1, tt.end1, tt.start2, tt.end2))
			assert.Equal(t, tt.want, Overlaps(tt.start2, tt.end2, tt.start1, tt.end1))
		})
	}
}

func TestClass_conflictsWith(t *testing.T) {
	cls := Class{Location: "WEB L104", Season: "Fall", Year: 2023, Start: NewTimeOfDay(9, 0, 0), End: NewTimeOfDay(10, 0, 0)}

	other := cls
	assert.True(t, cls.conflictsWith(other))

	other.Location = "WEB L105"
	assert.False(t, cls.conflictsWith(other))

	other = cls
	other.Season = "Spring"
	assert.False(t, cls.conflictsWith(other))

	other = cls
	other.Start, other.End = NewTimeOfDay(10, 30, 0), NewTimeOfDay(11, 0, 0)
	assert.False(t, cls.conflictsWith(other))
}
