package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGTFSTime(t *testing.T) {
	testCases := []struct {
		input string
		want  int
	}{
		{"00:00:00", 0},
		{"08:00:00", 28800},
		{"08:03:00", 28980},
		{"23:59:59", 86399},
		{"24:00:00", 86400},
		{"25:10:00", 90600},
		{"27:30:15", 99015},
		{" 08:00:00 ", 28800},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseGTFSTime(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseGTFSTimeRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{
		"",
		"08:00",
		"08:00:00:00",
		"ab:cd:ef",
		"08:60:00",
		"08:00:60",
		"-1:00:00",
		"08:-5:00",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseGTFSTime(input)
			assert.Error(t, err)
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	testCases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{28980, "08:03:00"},
		{86399, "23:59:59"},
		{90600, "01:10:00"},
		{-5, "00:00:00"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatSeconds(tc.seconds))
	}
}

func TestFormatDuration(t *testing.T) {
	testCases := []struct {
		seconds int
		want    string
	}{
		{0, "0 min"},
		{59, "0 min"},
		{300, "5 min"},
		{3600, "1 h"},
		{3720, "1 h 2 min"},
		{-10, "0 min"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, FormatDuration(tc.seconds))
	}
}
