package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectToken(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"r1", "r1"},
		{"ligne A", "ligne_A"},
		{"trip.42", "trip_42"},
		{"a>b*c/d", "a_b_c_d"},
		{"  padded  ", "padded"},
		{"", "_"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, subjectToken(tc.input), "subjectToken(%q)", tc.input)
	}
}
