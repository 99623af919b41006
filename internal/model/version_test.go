package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstVersion(t *testing.T) {
	v := FirstVersion()
	assert.Equal(t, Version{Major: 1, Minor: 1}, v)
	assert.Equal(t, "1.1", v.String())
}

func TestVersion_Next_BumpsMinorOnly(t *testing.T) {
	v := Version{Major: 2, Minor: 7}
	assert.Equal(t, Version{Major: 2, Minor: 8}, v.Next())
}

func TestParseVersion_RoundTrip(t *testing.T) {
	for _, s := range []string{"1.1", "3.14", "10.2"} {
		v, err := ParseVersion(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}
}

func TestParseVersion_Invalid(t *testing.T) {
	for _, s := range []string{"", "1", "1.", ".1", "a.b", "0.1", "1.0", "-1.2", "1.2.3"} {
		_, err := ParseVersion(s)
		assert.Error(t, err, "input %q", s)
	}
}
