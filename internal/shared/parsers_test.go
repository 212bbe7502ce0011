package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"0", 0, false},
		{"1h", time.Hour, false},
		{"2d", 48 * time.Hour, false},
		{" 15m ", 15 * time.Minute, false},
		{"30s", 30 * time.Second, false},
		{"0d", 0, false},
		{"1w", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

	d, err := ParseDate("", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", d.Format("2006-01-02"))
	assert.Equal(t, 0, d.Hour())

	d, err = ParseDate("Tomorrow", now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", d.Format("2006-01-02"))

	d, err = ParseDate("2023-12-31", now)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", d.Format("2006-01-02"))

	_, err = ParseDate("31/12/2023", now)
	assert.Error(t, err)
}
